package activity

import (
	"club-activity-system/config"
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/httpclient"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ReviewActivityReq 审核请求
type ReviewActivityReq struct {
	Status   string `json:"status" binding:"required,oneof=approved rejected"`
	Feedback string `json:"feedback"` // 拒绝时填写原因
}

// ReviewActivity 审核活动（仅系统管理员）。
// 只有 pending 状态的活动可以审核，rejected/completed 是终态。
func ReviewActivity(c *gin.Context) {
	id, ok := parseActivityID(c)
	if !ok {
		return
	}

	var req ReviewActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定审核请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var activity model.Activity
	if err := database.DB.First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if activity.Status != model.ActivityStatusPending {
		response.Fail(c, response.ErrInvalidRequest.WithTips("仅待审核的活动可以审核"))
		return
	}

	activity.Status = req.Status
	activity.Feedback = req.Feedback
	if err := database.DB.Save(&activity).Error; err != nil {
		log.Error("审核活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动审核完成",
		"id", activity.ID,
		"status", activity.Status,
	)

	go notifyReviewResult(activity)

	response.Success(c, gin.H{
		"activity_id": activity.ID,
		"status":      activity.Status,
	})
}

// notifyReviewResult 审核结果推送到配置的 Webhook，尽力而为
func notifyReviewResult(activity model.Activity) {
	url := config.Get().Webhook.ReviewURL
	if url == "" || httpclient.Client == nil {
		return
	}
	_, err := httpclient.Client.R().
		SetBody(map[string]any{
			"activity_id": activity.ID,
			"title":       activity.Title,
			"club_id":     activity.ClubID,
			"status":      activity.Status,
			"feedback":    activity.Feedback,
		}).
		Post(url)
	if err != nil {
		log.Warn("审核结果推送失败", "error", err, "activity_id", activity.ID)
	}
}
