package club

import (
	"club-activity-system/internal/global/middleware"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleClub) InitRouter(r *gin.RouterGroup) {
	// 社团模块路由组，所有端点以 /club 为前缀
	clubGroup := r.Group("/club")

	clubGroup.Use(middleware.Auth(model.RoleStudent))
	{
		clubGroup.GET("/list", ListClubs)
		clubGroup.GET("/get/:id", GetClub)
	}

	adminGroup := r.Group("/club")
	adminGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("/create", CreateClub)
		adminGroup.DELETE("/delete/:id", DeleteClub)
	}
}
