package activity

import (
	"club-activity-system/internal/global/middleware"
	"club-activity-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (a *ModuleActivity) InitRouter(r *gin.RouterGroup) {
	// 活动模块路由组，所有端点以 /activity 为前缀
	activityGroup := r.Group("/activity")

	activityGroup.Use(middleware.Auth(model.RoleStudent))
	{
		// 活动列表与详情
		activityGroup.GET("/list", ListActivities)
		activityGroup.GET("/get/:id", GetActivity)

		// 我参与的活动
		activityGroup.GET("/my", MyActivities)

		// 报名与取消报名
		activityGroup.POST("/join/:id", JoinActivity)
		activityGroup.POST("/leave/:id", LeaveActivity)
	}

	adminGroup := r.Group("/activity")
	adminGroup.Use(middleware.Auth(model.RoleClubAdmin))
	{
		// 创建、更新、删除活动
		adminGroup.POST("/create", CreateActivity)
		adminGroup.PUT("/update/:id", UpdateActivity)
		adminGroup.DELETE("/delete/:id", DeleteActivity)

		// 结算活动并发放积分
		adminGroup.POST("/complete/:id", CompleteActivity)

		// 活动封面上传
		adminGroup.POST("/upload", UploadImage)
		adminGroup.GET("/upload/presign", PresignImageUpload)
	}

	reviewGroup := r.Group("/activity")
	reviewGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		// 审核相关端点仅系统管理员可用
		reviewGroup.GET("/pending", PendingActivities)
		reviewGroup.POST("/review/:id", ReviewActivity)
	}
}
