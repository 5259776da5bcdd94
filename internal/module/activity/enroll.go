package activity

import (
	"sync"
	"time"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// joinLocks 以活动ID为键的互斥锁，序列化“查人数-写报名”这段临界区。
// 服务单实例部署，进程内锁即可保证同一活动的并发报名串行执行；
// (user_id, activity_id) 唯一索引作为兜底，防止重复报名写入。
var joinLocks sync.Map

func lockActivity(id uint) func() {
	v, _ := joinLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// joinActivity 在一个事务内完成报名的全部前置检查和写入
func joinActivity(db *gorm.DB, userID, activityID uint, now int64) *response.Error {
	unlock := lockActivity(activityID)
	defer unlock()

	var failure *response.Error
	err := db.Transaction(func(tx *gorm.DB) error {
		var activity model.Activity
		if err := tx.First(&activity, "id = ? AND status = ?",
			activityID, model.ActivityStatusApproved).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				failure = response.ErrNotFound.WithTips("活动不存在或未通过审核")
				return err
			}
			return err
		}

		// 活动开始一小时后或结束后不再允许报名
		if !joinWindowOpen(&activity, now) {
			failure = response.ErrWindowClosed.WithTips("已过报名时间")
			return gorm.ErrInvalidData
		}

		var existing int64
		if err := tx.Model(&model.Registration{}).
			Where("user_id = ? AND activity_id = ?", userID, activityID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			failure = response.ErrAlreadyRegistered
			return gorm.ErrInvalidData
		}

		// 容量检查必须和插入在同一临界区内，避免最后一个名额被并发报名挤爆
		var current int64
		if err := tx.Model(&model.Registration{}).
			Where("activity_id = ?", activityID).
			Count(&current).Error; err != nil {
			return err
		}
		if current+1 > int64(activity.MaxParticipants) {
			failure = response.ErrCapacityExceeded
			return gorm.ErrInvalidData
		}

		return tx.Create(&model.Registration{
			UserID:     userID,
			ActivityID: activityID,
			Status:     model.RegistrationStatusRegistered,
		}).Error
	})

	if failure != nil {
		return failure
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.ErrAlreadyRegistered
		}
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

// leaveActivity 在一个事务内校验时间窗口并删除报名记录
func leaveActivity(db *gorm.DB, userID, activityID uint, now int64) *response.Error {
	var failure *response.Error
	err := db.Transaction(func(tx *gorm.DB) error {
		var activity model.Activity
		if err := tx.First(&activity, "id = ?", activityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				failure = response.ErrNotFound.WithTips("活动不存在")
				return err
			}
			return err
		}

		// 时间窗口必须在删除所在的事务内复查，避免读-写之间时钟越过开始时间
		if !leaveWindowOpen(&activity, now) {
			failure = response.ErrWindowClosed.WithTips("活动已经开始，无法取消报名")
			return gorm.ErrInvalidData
		}

		result := tx.Where("user_id = ? AND activity_id = ?", userID, activityID).
			Delete(&model.Registration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			failure = response.ErrNotFound.WithTips("尚未报名此活动")
			return gorm.ErrInvalidData
		}
		return nil
	})

	if failure != nil {
		return failure
	}
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

// JoinActivity 报名参加活动
func JoinActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := parseActivityID(c)
	if !ok {
		return
	}

	if ferr := joinActivity(database.DB, payload.UserID, id, time.Now().Unix()); ferr != nil {
		log.Warn("报名失败",
			"activity_id", id,
			"user_id", payload.UserID,
			"code", ferr.Code,
		)
		response.Fail(c, ferr)
		return
	}

	log.Info("报名成功", "activity_id", id, "user_id", payload.UserID)
	response.Success(c)
}

// LeaveActivity 取消报名
func LeaveActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := parseActivityID(c)
	if !ok {
		return
	}

	if ferr := leaveActivity(database.DB, payload.UserID, id, time.Now().Unix()); ferr != nil {
		log.Warn("取消报名失败",
			"activity_id", id,
			"user_id", payload.UserID,
			"code", ferr.Code,
		)
		response.Fail(c, ferr)
		return
	}

	log.Info("取消报名成功", "activity_id", id, "user_id", payload.UserID)
	response.Success(c)
}
