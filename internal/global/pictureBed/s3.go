package pictureBed

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"
	"time"

	appconfig "club-activity-system/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3PictureBed 根据全局配置创建 S3 图片床实例
func NewS3PictureBed() *PictureBed {
	cfg := appconfig.Get().S3
	return &PictureBed{
		BaseURL:         cfg.BaseURL,
		Endpoint:        cfg.Endpoint,
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		AccessKey:       cfg.AccessKey,
		SecretAccessKey: cfg.SecretAccessKey,
		Prefix:          cfg.Prefix,
		UsePathStyle:    cfg.UsePathStyle,
	}
}

// UseS3 判断是否配置了对象存储
func (pb *PictureBed) UseS3() bool {
	return pb.Bucket != ""
}

// InitS3 初始化 S3 客户端
func (pb *PictureBed) InitS3(ctx context.Context) error {
	if pb.s3Client != nil {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(pb.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(pb.AccessKey, pb.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("加载 S3 配置失败: %w", err)
	}

	pb.s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if pb.Endpoint != "" {
			o.BaseEndpoint = aws.String(pb.Endpoint)
		}
		o.UsePathStyle = pb.UsePathStyle
	})
	return nil
}

// UploadImage 服务端直传：将上传的图片写入对象存储并返回访问 URL
func (pb *PictureBed) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := pb.InitS3(ctx); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	key := path.Join(strings.Trim(pb.Prefix, "/"), fmt.Sprintf("%d%s", time.Now().UnixNano(), ext))
	key = strings.TrimLeft(key, "/")

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploader := manager.NewUploader(pb.s3Client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("上传图片失败: %w", err)
	}

	return pb.objectURL(key), nil
}

func (pb *PictureBed) objectURL(key string) string {
	base := strings.TrimRight(pb.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + key
	}
	return base + "/" + key
}
