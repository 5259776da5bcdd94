package activity

import (
	"club-activity-system/config"
	"club-activity-system/internal/global/pictureBed"
	"club-activity-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

// UploadImage 上传活动封面：配置了 S3 时直传对象存储，否则落到本地目录
func UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少 image 文件字段"))
		return
	}

	pb := pictureBed.NewS3PictureBed()
	if pb.UseS3() {
		url, err := pb.UploadImage(c.Request.Context(), fileHeader)
		if err != nil {
			log.Error("上传活动封面失败", "error", err)
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			return
		}
		response.Success(c, gin.H{"image_url": url})
		return
	}

	local := pictureBed.NewPictureBed(
		config.Get().Storage.Home+"/upload/activity",
		"/static/activity",
	)
	url, err := local.SaveImage(fileHeader)
	if err != nil {
		log.Error("保存活动封面失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"image_url": url})
}

// PresignImageUpload 生成活动封面的预签名上传 URL，前端可直传 S3
func PresignImageUpload(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少 filename 参数"))
		return
	}

	pb := pictureBed.NewS3PictureBed()
	if !pb.UseS3() {
		response.Fail(c, response.ErrInvalidRequest.WithTips("未配置对象存储"))
		return
	}

	resp, err := pb.GeneratePresignedUploadURL(c.Request.Context(), pictureBed.PresignedUploadRequest{
		Filename:    filename,
		ContentType: c.Query("content_type"),
	})
	if err != nil {
		log.Error("生成预签名上传URL失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	response.Success(c, resp)
}
