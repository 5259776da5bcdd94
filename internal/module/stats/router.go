package stats

import (
	"club-activity-system/internal/global/middleware"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleStats) InitRouter(r *gin.RouterGroup) {
	// 统计模块路由组，仅管理员可用
	statsGroup := r.Group("/stats")

	statsGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		// 活动统计概览
		statsGroup.GET("/activity", ActivityStats)

		// 导出活动参与名单
		statsGroup.GET("/activity/:id/export", ExportParticipants)
	}
}
