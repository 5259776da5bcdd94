package pictureBed

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PictureBed 图片上传工具类
// 配置了 S3 时上传到对象存储，否则保存到本地目录
type PictureBed struct {
	SaveDir string // 本地图片保存目录
	BaseURL string // 图片访问基础URL

	// S3 配置，Bucket 为空时走本地保存
	Endpoint        string
	Bucket          string
	Region          string
	AccessKey       string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool

	s3Client *s3.Client
}

// NewPictureBed 创建本地图片床实例
func NewPictureBed(saveDir, baseURL string) *PictureBed {
	return &PictureBed{
		SaveDir: saveDir,
		BaseURL: baseURL,
	}
}

// SaveImage 保存图片到本地并返回图片URL
func (pb *PictureBed) SaveImage(fileHeader *multipart.FileHeader) (string, error) {
	// 打开上传的文件
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	// 确保保存目录存在
	if err := os.MkdirAll(pb.SaveDir, os.ModePerm); err != nil {
		return "", err
	}

	// 生成唯一文件名
	ext := filepath.Ext(fileHeader.Filename)
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	filePath := filepath.Join(pb.SaveDir, filename)

	// 创建目标文件
	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	// 拷贝内容
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	// 返回图片访问URL
	return pb.BaseURL + "/" + filename, nil
}
