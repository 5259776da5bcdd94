package user

import (
	"club-activity-system/internal/global/middleware"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	// 用户模块路由组，所有端点以 /user 为前缀
	userGroup := r.Group("/user")

	// 注册与登录无需认证
	userGroup.POST("/register", Register)
	userGroup.POST("/login", Login)

	authGroup := r.Group("/user")
	authGroup.Use(middleware.Auth(model.RoleStudent))
	{
		authGroup.GET("/profile", Profile)
		authGroup.GET("/ranking", PointsRanking)
	}

	adminGroup := r.Group("/user")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		// 管理员手动调整用户积分
		adminGroup.POST("/points/adjust", AdjustPoints)
	}
}
