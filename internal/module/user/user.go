package user

import (
	"club-activity-system/internal/global/database"
	"club-activity-system/internal/global/jwt"
	"club-activity-system/internal/global/response"
	"club-activity-system/internal/model"
	"club-activity-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserReq 定义登录和注册请求的结构体
type UserReq struct {
	Username string `json:"username" binding:"required"` // 用户名，唯一标识用户
	Password string `json:"password" binding:"required"` // 密码，登录时验证，注册时加密
}

// Register 处理用户注册请求，新用户默认为学生角色
func Register(c *gin.Context) {
	var req UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var existing model.User
	err := database.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		log.Warn("用户名已存在", "username", req.Username)
		response.Fail(c, response.ErrAlreadyExists.WithTips("用户名已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	hashed, err := tools.PasswordEncrypt(req.Password)
	if err != nil {
		log.Error("密码加密失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	user := model.User{
		Username: req.Username,
		Password: hashed,
		RoleID:   model.RoleStudent,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Error("创建用户失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "user_id", user.ID, "username", user.Username)

	response.Success(c, gin.H{
		"user_id": user.ID,
	})
}

// Login 处理用户登录请求
func Login(c *gin.Context) {
	var req UserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	err := database.DB.Where("username = ?", req.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功",
		"user_id", user.ID,
		"role_id", user.RoleID)

	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{
			UserID:   user.ID,
			Username: user.Username,
			RoleID:   user.RoleID,
		}),
		"user_id": user.ID,
		"role":    model.RoleName(user.RoleID),
	})
}

// Profile 获取当前用户信息
func Profile(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     model.RoleName(user.RoleID),
		"points":   user.Points,
		"avatar":   user.Avatar,
	})
}
