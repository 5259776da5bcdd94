package stats

import (
	"fmt"
	"strconv"
	"time"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ActivityOverview 活动统计概览
type ActivityOverview struct {
	Total        int64             `json:"total_activities"`
	ByStatus     map[string]int64  `json:"by_status"`
	CurrentMonth int64             `json:"current_month_activities"`
	PopularTop   []PopularActivity `json:"popular_activities"`
}

// PopularActivity 参与人数最多的活动
type PopularActivity struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	ParticipantCount int64  `json:"participant_count"`
}

// ActivityStats 活动统计概览：各状态数量、当月活动数、热门活动 Top5
func ActivityStats(c *gin.Context) {
	overview := ActivityOverview{
		ByStatus: make(map[string]int64, 4),
	}

	if err := database.DB.Model(&model.Activity{}).Count(&overview.Total).Error; err != nil {
		log.Error("统计活动总数失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	type statusRow struct {
		Status string
		Count  int64
	}
	var rows []statusRow
	if err := database.DB.Model(&model.Activity{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		log.Error("按状态统计活动失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	for _, r := range rows {
		overview.ByStatus[r.Status] = r.Count
	}

	// 当月活动数（按开始时间）
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	if err := database.DB.Model(&model.Activity{}).
		Where("start_time >= ? AND start_time < ?", monthStart.Unix(), monthEnd.Unix()).
		Count(&overview.CurrentMonth).Error; err != nil {
		log.Error("统计当月活动失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	type popularRow struct {
		ActivityID uint
		Count      int64
	}
	var popular []popularRow
	if err := database.DB.Model(&model.Registration{}).
		Select("activity_id, COUNT(*) as count").
		Group("activity_id").
		Order("count DESC").
		Limit(5).
		Find(&popular).Error; err != nil {
		log.Error("统计热门活动失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	for _, p := range popular {
		var activity model.Activity
		if err := database.DB.First(&activity, "id = ?", p.ActivityID).Error; err != nil {
			continue
		}
		overview.PopularTop = append(overview.PopularTop, PopularActivity{
			ID:               activity.ID,
			Title:            activity.Title,
			ParticipantCount: p.Count,
		})
	}

	response.Success(c, gin.H{"stats": overview})
}

// participantRow 导出名单的一行
type participantRow struct {
	UserID       uint   `excel:"用户ID"`
	Username     string `excel:"用户名"`
	Status       string `excel:"参与状态"`
	EarnedPoints int    `excel:"获得积分"`
	JoinTime     string `excel:"报名时间"`
}

// ExportParticipants 导出活动参与名单为 Excel
func ExportParticipants(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID无效"))
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

	var registrations []model.Registration
	if err := database.DB.Preload("User").
		Where("activity_id = ?", id).
		Order("created_at ASC").
		Find(&registrations).Error; err != nil {
		log.Error("查询参与名单失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]participantRow, 0, len(registrations))
	for _, r := range registrations {
		rows = append(rows, participantRow{
			UserID:       r.UserID,
			Username:     r.User.Username,
			Status:       r.Status,
			EarnedPoints: r.EarnedPoints,
			JoinTime:     r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := tools.ExportToExcel(f, "参与名单", rows); err != nil {
		log.Error("生成Excel失败", "error", err, "id", id)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	// 删除默认工作表
	_ = f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s-参与名单.xlsx", activity.Title)
	if err := tools.SendExcel(c, f, filename); err != nil {
		log.Error("发送Excel失败", "error", err, "id", id)
	}
}
