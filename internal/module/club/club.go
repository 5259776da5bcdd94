package club

import (
	"strconv"

	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ClubCreateReq 定义创建社团请求的结构体
type ClubCreateReq struct {
	Name        string `json:"name" binding:"required"`     // 社团名称
	Description string `json:"description"`                 // 社团简介
	Logo        string `json:"logo"`                        // 社团Logo URL
	AdminID     uint   `json:"admin_id" binding:"required"` // 社团管理员用户ID
}

// CreateClub 创建社团（仅系统管理员），并把指定用户提升为社团管理员
func CreateClub(c *gin.Context) {
	var req ClubCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建社团请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var admin model.User
	if err := database.DB.First(&admin, "id = ?", req.AdminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("指定的管理员用户不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var existing model.Club
	err := database.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		log.Warn("社团已存在", "name", req.Name)
		response.Fail(c, response.ErrAlreadyExists.WithTips("社团已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	club := model.Club{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
		AdminID:     req.AdminID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&club).Error; err != nil {
			return err
		}
		// 学生被任命为社团管理员时提升角色，已有更高角色保持不变
		if admin.RoleID < model.RoleClubAdmin {
			return tx.Model(&admin).Update("role_id", model.RoleClubAdmin).Error
		}
		return nil
	})
	if err != nil {
		log.Error("创建社团失败", "error", err, "name", req.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("社团创建成功", "id", club.ID, "name", club.Name)

	response.Success(c, gin.H{
		"club_id": club.ID,
	})
}

// ListClubs 获取社团列表
func ListClubs(c *gin.Context) {
	var clubs []model.Club
	if err := database.DB.Order("created_at ASC").Find(&clubs).Error; err != nil {
		log.Error("获取社团列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"clubs": clubs,
		"total": len(clubs),
	})
}

// GetClub 获取社团详情
func GetClub(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("社团ID无效"))
		return
	}

	var club model.Club
	if err := database.DB.First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("社团不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"club": club,
	})
}

// DeleteClub 删除社团；存在关联活动时拒绝删除，活动必须先行清理
func DeleteClub(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("社团ID无效"))
		return
	}

	var club model.Club
	if err := database.DB.First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("社团不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var activityCount int64
	if err := database.DB.Model(&model.Activity{}).
		Where("club_id = ?", id).
		Count(&activityCount).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if activityCount > 0 {
		log.Warn("社团存在关联活动，拒绝删除", "id", id, "activities", activityCount)
		response.Fail(c, response.ErrClubHasActivities)
		return
	}

	if err := database.DB.Delete(&club).Error; err != nil {
		log.Error("删除社团失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("社团删除成功", "id", club.ID, "name", club.Name)
	response.Success(c)
}
