package activity

import (
	"strconv"
	"time"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ActivityCreateReq 定义创建活动请求的结构体
type ActivityCreateReq struct {
	Title           string `json:"title" binding:"required"`       // 活动名称
	Description     string `json:"description"`                    // 活动描述
	ClubID          uint   `json:"club_id" binding:"required"`     // 所属社团ID
	Location        string `json:"location"`                       // 活动地点
	StartTime       int64  `json:"start_time" binding:"required"`  // 开始时间（Unix 秒）
	EndTime         int64  `json:"end_time" binding:"required"`    // 结束时间（Unix 秒）
	Points          int    `json:"points" binding:"gte=0"`         // 完成可得积分
	MaxParticipants int    `json:"max_participants" binding:"gte=0"` // 最大参与人数，0 取默认值
	ImageURL        string `json:"image_url"`                      // 活动封面URL
}

// ActivityUpdateReq 定义更新活动请求的结构体，使用指针类型支持部分更新
type ActivityUpdateReq struct {
	Title           *string `json:"title"`            // 活动名称，可选
	Description     *string `json:"description"`      // 活动描述，可选
	Location        *string `json:"location"`         // 活动地点，可选
	StartTime       *int64  `json:"start_time"`       // 开始时间，可选
	EndTime         *int64  `json:"end_time"`         // 结束时间，可选
	Points          *int    `json:"points"`           // 积分，可选
	MaxParticipants *int    `json:"max_participants"` // 最大参与人数，可选
	ImageURL        *string `json:"image_url"`        // 活动封面URL，可选
}

// ActivityView 带推导状态和当前人数的活动视图
type ActivityView struct {
	model.Activity
	Status              string `json:"status"` // 覆盖持久化状态字段，返回推导状态
	CurrentParticipants int64  `json:"current_participants"`
}

const defaultMaxParticipants = 100

// newActivityView 应用状态推导并填充报名人数
func newActivityView(a model.Activity, participants int64, now int64) ActivityView {
	return ActivityView{
		Activity:            a,
		Status:              EffectiveStatus(a.Status, a.StartTime, a.EndTime, now),
		CurrentParticipants: participants,
	}
}

// parseActivityID 从路径参数解析活动ID
func parseActivityID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID无效"))
		return 0, false
	}
	return uint(id), true
}

// canManageClub 判断操作者是否有权管理某社团的活动：
// 系统管理员无条件放行，社团管理员必须是该社团的管理员
func canManageClub(db *gorm.DB, payload *jwt.Claims, clubID uint) (bool, *response.Error) {
	if payload.RoleID >= model.RoleAdmin {
		return true, nil
	}
	var club model.Club
	if err := db.First(&club, "id = ?", clubID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, response.ErrNotFound.WithTips("社团不存在")
		}
		return false, response.ErrDatabase.WithOrigin(err)
	}
	if payload.RoleID == model.RoleClubAdmin && club.AdminID == payload.UserID {
		return true, nil
	}
	return false, nil
}

// CreateActivity 处理创建活动请求
func CreateActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ActivityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.StartTime >= req.EndTime {
		response.Fail(c, response.ErrInvalidRequest.WithTips("开始时间必须早于结束时间"))
		return
	}
	if req.MaxParticipants == 0 {
		req.MaxParticipants = defaultMaxParticipants
	}

	ok, ferr := canManageClub(database.DB, payload, req.ClubID)
	if ferr != nil {
		response.Fail(c, ferr)
		return
	}
	if !ok {
		log.Warn("无权限为该社团创建活动", "club_id", req.ClubID, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("不是此社团的管理员"))
		return
	}

	// 管理员创建的活动直接通过，社团管理员创建的需要审核
	status := model.ActivityStatusPending
	if payload.RoleID >= model.RoleAdmin {
		status = model.ActivityStatusApproved
	}

	activity := model.Activity{
		Title:           req.Title,
		Description:     req.Description,
		ClubID:          req.ClubID,
		Location:        req.Location,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Points:          req.Points,
		MaxParticipants: req.MaxParticipants,
		Status:          status,
		ImageURL:        req.ImageURL,
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		log.Error("创建活动失败", "error", err, "title", req.Title)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动创建成功",
		"id", activity.ID,
		"title", activity.Title,
		"status", activity.Status,
	)

	response.Success(c, gin.H{
		"activity_id": activity.ID,
		"status":      activity.Status,
	})
}

// ListActivitiesReq 定义活动列表的查询参数结构体
type ListActivitiesReq struct {
	Status string `form:"status" json:"status"`   // 状态筛选，可为推导状态
	ClubID uint   `form:"club_id" json:"club_id"` // 社团筛选
}

// ListActivities 获取活动列表，返回推导状态并按开始时间倒序
func ListActivities(c *gin.Context) {
	var req ListActivitiesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	query := database.DB.Model(&model.Activity{}).Preload("Club")
	if req.ClubID != 0 {
		query = query.Where("club_id = ?", req.ClubID)
	}
	// pending/rejected 不被时间覆盖，可以直接下推到 SQL；
	// upcoming/ongoing/completed 依赖推导，需要在内存中过滤
	switch req.Status {
	case model.ActivityStatusPending, model.ActivityStatusRejected:
		query = query.Where("status = ?", req.Status)
	case "":
	default:
		query = query.Where("status IN ?", []string{model.ActivityStatusApproved, model.ActivityStatusCompleted})
	}

	var activities []model.Activity
	if err := query.Order("start_time DESC").Find(&activities).Error; err != nil {
		log.Error("获取活动列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	counts, err := participantCounts(database.DB, activities)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	now := time.Now().Unix()
	views := make([]ActivityView, 0, len(activities))
	for _, a := range activities {
		view := newActivityView(a, counts[a.ID], now)
		if req.Status != "" && view.Status != req.Status {
			continue
		}
		views = append(views, view)
	}

	response.Success(c, gin.H{
		"activities": views,
		"total":      len(views),
	})
}

// participantCounts 批量统计活动报名人数
func participantCounts(db *gorm.DB, activities []model.Activity) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(activities))
	if len(activities) == 0 {
		return counts, nil
	}
	ids := make([]uint, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}
	type row struct {
		ActivityID uint
		Count      int64
	}
	var rows []row
	if err := db.Model(&model.Registration{}).
		Select("activity_id, COUNT(*) as count").
		Where("activity_id IN ?", ids).
		Group("activity_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.ActivityID] = r.Count
	}
	return counts, nil
}

// Participant 活动参与者信息
type Participant struct {
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Status       string    `json:"status"`
	EarnedPoints int       `json:"earned_points"`
	JoinTime     time.Time `json:"join_time"`
}

// GetActivity 获取活动详情，含参与者列表（按报名时间升序）和当前用户是否已报名
func GetActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := parseActivityID(c)
	if !ok {
		return
	}

	var activity model.Activity
	if err := database.DB.Preload("Club").First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return
		}
		log.Error("查询活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var registrations []model.Registration
	if err := database.DB.Preload("User").
		Where("activity_id = ?", id).
		Order("created_at ASC").
		Find(&registrations).Error; err != nil {
		log.Error("查询参与者失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	isJoined := false
	participants := make([]Participant, 0, len(registrations))
	for _, r := range registrations {
		if r.UserID == payload.UserID {
			isJoined = true
		}
		participants = append(participants, Participant{
			UserID:       r.UserID,
			Name:         r.User.Username,
			Avatar:       r.User.Avatar,
			Status:       r.Status,
			EarnedPoints: r.EarnedPoints,
			JoinTime:     r.CreatedAt,
		})
	}

	view := newActivityView(activity, int64(len(registrations)), time.Now().Unix())

	response.Success(c, gin.H{
		"activity":     view,
		"participants": participants,
		"is_joined":    isJoined,
	})
}

// UpdateActivity 处理更新活动请求；社团管理员修改后活动回到待审核
func UpdateActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := parseActivityID(c)
	if !ok {
		return
	}

	var req ActivityUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新活动请求失败", "error", err, "id", id)
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

	ok, ferr := canManageClub(database.DB, payload, activity.ClubID)
	if ferr != nil {
		response.Fail(c, ferr)
		return
	}
	if !ok {
		log.Warn("无权限更新活动", "id", id, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限更新此活动"))
		return
	}

	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Location != nil {
		activity.Location = *req.Location
	}
	if req.StartTime != nil {
		activity.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		activity.EndTime = *req.EndTime
	}
	if req.Points != nil {
		if *req.Points < 0 {
			response.Fail(c, response.ErrInvalidRequest.WithTips("积分不能为负数"))
			return
		}
		activity.Points = *req.Points
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			response.Fail(c, response.ErrInvalidRequest.WithTips("最大参与人数至少为1"))
			return
		}
		activity.MaxParticipants = *req.MaxParticipants
	}
	if req.ImageURL != nil {
		activity.ImageURL = *req.ImageURL
	}
	if activity.StartTime >= activity.EndTime {
		response.Fail(c, response.ErrInvalidRequest.WithTips("开始时间必须早于结束时间"))
		return
	}

	// 社团管理员修改后需要重新审核，系统管理员的修改不回退状态
	if payload.RoleID < model.RoleAdmin {
		activity.Status = model.ActivityStatusPending
		activity.Feedback = ""
	}

	if err := database.DB.Save(&activity).Error; err != nil {
		log.Error("更新活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动更新成功",
		"id", activity.ID,
		"status", activity.Status,
	)

	response.Success(c, gin.H{
		"activity_id": activity.ID,
		"status":      activity.Status,
	})
}

// DeleteActivity 删除活动并级联删除报名记录，返回删除的报名数
func DeleteActivity(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	id, ok := parseActivityID(c)
	if !ok {
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

	ok, ferr := canManageClub(database.DB, payload, activity.ClubID)
	if ferr != nil {
		response.Fail(c, ferr)
		return
	}
	if !ok {
		log.Warn("无权限删除活动", "id", id, "user_id", payload.UserID)
		response.Fail(c, response.ErrForbidden.WithTips("无权限删除此活动"))
		return
	}

	var deletedRegistrants int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("activity_id = ?", id).Delete(&model.Registration{})
		if result.Error != nil {
			return result.Error
		}
		deletedRegistrants = result.RowsAffected
		return tx.Delete(&activity).Error
	})
	if err != nil {
		log.Error("删除活动失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动删除成功",
		"id", activity.ID,
		"deleted_registrants", deletedRegistrants,
	)

	response.Success(c, gin.H{
		"deleted_registrants": deletedRegistrants,
	})
}

// PendingActivities 获取待审核活动列表（按创建时间升序）
func PendingActivities(c *gin.Context) {
	var activities []model.Activity
	if err := database.DB.Preload("Club").
		Where("status = ?", model.ActivityStatusPending).
		Order("created_at ASC").
		Find(&activities).Error; err != nil {
		log.Error("获取待审核活动失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"activities": activities,
		"total":      len(activities),
	})
}

// MyActivityView 用户参与的活动视图
type MyActivityView struct {
	ActivityView
	ParticipationStatus string `json:"participation_status"`
	EarnedPoints        int    `json:"earned_points"`
}

// MyActivities 获取当前用户参与的所有活动
func MyActivities(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var registrations []model.Registration
	if err := database.DB.Where("user_id = ?", payload.UserID).Find(&registrations).Error; err != nil {
		log.Error("查询报名记录失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if len(registrations) == 0 {
		response.Success(c, gin.H{"activities": []MyActivityView{}, "total": 0})
		return
	}

	byActivity := make(map[uint]model.Registration, len(registrations))
	ids := make([]uint, 0, len(registrations))
	for _, r := range registrations {
		byActivity[r.ActivityID] = r
		ids = append(ids, r.ActivityID)
	}

	var activities []model.Activity
	if err := database.DB.Preload("Club").
		Where("id IN ?", ids).
		Order("start_time DESC").
		Find(&activities).Error; err != nil {
		log.Error("查询活动失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	counts, err := participantCounts(database.DB, activities)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	now := time.Now().Unix()
	views := make([]MyActivityView, 0, len(activities))
	for _, a := range activities {
		r := byActivity[a.ID]
		views = append(views, MyActivityView{
			ActivityView:        newActivityView(a, counts[a.ID], now),
			ParticipationStatus: r.Status,
			EarnedPoints:        r.EarnedPoints,
		})
	}

	response.Success(c, gin.H{
		"activities": views,
		"total":      len(views),
	})
}
