// Package mirror 提供媒体文件的云端镜像能力
// 上传成功的媒体会镜像一份到激活的云端对象存储，并回填公开访问URL
// 支持阿里云OSS、七牛云Kodo、腾讯云COS三种提供商
package mirror

import (
	"errors"
	"io"

	"github.com/weiwangfds/weddingalbum/internal/database"
)

// 预定义的错误类型
var (
	// ErrUnsupportedProvider 不支持的镜像存储提供商错误
	ErrUnsupportedProvider = errors.New("unsupported mirror provider")
	// ErrNoActiveConfig 没有激活的镜像配置错误
	ErrNoActiveConfig = errors.New("no active mirror configuration found")
)

// Provider 镜像存储提供商接口
type Provider interface {
	// UploadFile 上传文件到云端存储
	UploadFile(objectKey string, reader io.Reader, contentType string) error

	// DownloadFile 从云端存储下载文件
	DownloadFile(objectKey string) (io.ReadCloser, error)

	// DeleteFile 删除云端文件
	DeleteFile(objectKey string) error

	// FileExists 检查云端文件是否存在
	FileExists(objectKey string) (bool, error)

	// GetFileInfo 获取云端文件信息
	GetFileInfo(objectKey string) (*FileInfo, error)

	// ListFiles 按前缀列出云端文件
	ListFiles(prefix string, maxKeys int) ([]FileInfo, error)

	// FileURL 返回对象的公开访问URL
	FileURL(objectKey string) string

	// TestConnection 测试连接
	TestConnection() error
}

// FileInfo 云端文件信息
type FileInfo struct {
	Key          string `json:"key"`           // 对象键名
	Size         int64  `json:"size"`          // 文件大小
	LastModified string `json:"last_modified"` // 最后修改时间
	ETag         string `json:"etag"`          // ETag
	ContentType  string `json:"content_type"`  // 内容类型
}

// ProviderFactory 镜像提供商工厂
type ProviderFactory struct{}

// CreateProvider 根据配置创建镜像提供商实例
func (f *ProviderFactory) CreateProvider(config *database.MirrorConfig) (Provider, error) {
	switch config.Provider {
	case "aliyun":
		return NewAliyunProvider(config)
	case "tencent":
		return NewTencentProvider(config)
	case "qiniu":
		return NewQiniuProvider(config)
	default:
		return nil, ErrUnsupportedProvider
	}
}
