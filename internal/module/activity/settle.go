package activity

import (
	"context"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	globalredis "club-activity-system/internal/global/redis"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CompleteActivityReq 结算请求：需要发放积分的用户ID列表
type CompleteActivityReq struct {
	UserIDs []uint `json:"user_ids" binding:"required,min=1"`
}

// settleActivity 结算活动：在一个事务内将符合条件的报名记录置为已完成、
// 写入积分并累加到用户余额，最后把活动持久化为 completed。
// 报名状态已是 completed 的用户不在本次结算范围内，重复提交不会重复加分。
func settleActivity(db *gorm.DB, activityID uint, userIDs []uint) (affected []model.Registration, ferr *response.Error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		// completed 也允许进入：重复提交结算时按“无可结算人员”处理而不是报不存在
		var activity model.Activity
		if err := tx.First(&activity, "id = ? AND status IN ?", activityID,
			[]string{model.ActivityStatusApproved, model.ActivityStatusCompleted}).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ferr = response.ErrNotFound.WithTips("活动不存在或未通过审核")
				return err
			}
			return err
		}

		var eligible []model.Registration
		if err := tx.Where("activity_id = ? AND user_id IN ? AND status IN ?",
			activityID, userIDs,
			[]string{model.RegistrationStatusRegistered, model.RegistrationStatusParticipated},
		).Find(&eligible).Error; err != nil {
			return err
		}
		if len(eligible) == 0 {
			// 无人可结算时不做任何修改，活动状态保持不变
			ferr = response.ErrNoEligibleParticipants
			return gorm.ErrInvalidData
		}

		eligibleIDs := make([]uint, 0, len(eligible))
		for _, r := range eligible {
			eligibleIDs = append(eligibleIDs, r.UserID)
		}

		// 报名记录和用户余额必须同进同退，崩溃不能留下只改了一半的状态
		if err := tx.Model(&model.Registration{}).
			Where("activity_id = ? AND user_id IN ?", activityID, eligibleIDs).
			Updates(map[string]any{
				"status":        model.RegistrationStatusCompleted,
				"earned_points": activity.Points,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id IN ?", eligibleIDs).
			Update("points", gorm.Expr("points + ?", activity.Points)).Error; err != nil {
			return err
		}

		if err := tx.Model(&activity).
			Update("status", model.ActivityStatusCompleted).Error; err != nil {
			return err
		}

		affected = eligible
		return nil
	})

	if ferr != nil {
		return nil, ferr
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return affected, nil
}

// syncLeaderboard 把结算后的余额同步到积分排行榜，失败只记日志不影响结算结果
func syncLeaderboard(db *gorm.DB, registrations []model.Registration) {
	if !globalredis.Enabled() {
		return
	}
	ids := make([]uint, 0, len(registrations))
	for _, r := range registrations {
		ids = append(ids, r.UserID)
	}
	var users []model.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Error("读取用户余额失败，跳过排行榜同步", "error", err)
		return
	}
	ctx := context.Background()
	for _, u := range users {
		if err := globalredis.SetUserPoints(ctx, u.ID, u.Points); err != nil {
			log.Error("同步排行榜失败", "error", err, "user_id", u.ID)
		}
	}
}

// CompleteActivity 结算活动并为参与者发放积分
func CompleteActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := parseActivityID(c)
	if !ok {
		return
	}

	var req CompleteActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定结算请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	ok, ferr := canManageClub(database.DB, payload, activity.ClubID)
	if ferr != nil {
		response.Fail(c, ferr)
		return
	}
	if !ok {
		log.Warn("无权限结算活动", "id", id, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限结算此活动"))
		return
	}

	affected, serr := settleActivity(database.DB, id, req.UserIDs)
	if serr != nil {
		log.Warn("结算失败", "activity_id", id, "code", serr.Code)
		response.Fail(c, serr)
		return
	}

	syncLeaderboard(database.DB, affected)

	log.Info("活动结算完成",
		"activity_id", id,
		"affected_users", len(affected),
		"points", activity.Points,
	)

	response.Success(c, gin.H{
		"affected_users": len(affected),
	})
}
