// Package mirror 阿里云OSS提供商实现
package mirror

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/logger"
)

// AliyunProvider 阿里云OSS提供商实现
// 实现了Provider接口，提供阿里云对象存储的上传、下载、删除、查询等操作
type AliyunProvider struct {
	client *oss.Client            // 阿里云OSS客户端实例
	bucket *oss.Bucket            // OSS存储桶实例
	config *database.MirrorConfig // 镜像配置信息
}

// NewAliyunProvider 创建阿里云OSS提供商实例
// 根据配置信息初始化客户端和存储桶连接
// 参数:
//   - config: 镜像配置信息，包含访问密钥、区域、存储桶等
// 返回:
//   - *AliyunProvider: 初始化完成的提供商实例
//   - error: 初始化过程中的错误信息
func NewAliyunProvider(config *database.MirrorConfig) (*AliyunProvider, error) {
	// 构建endpoint
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", config.Region)
	}

	client, err := oss.New(endpoint, config.AccessKey, config.SecretKey)
	if err != nil {
		logger.Errorf("[阿里云OSS] 创建客户端失败, 错误: %v", err)
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}

	bucket, err := client.Bucket(config.Bucket)
	if err != nil {
		logger.Errorf("[阿里云OSS] 连接存储桶失败, 存储桶: %s, 错误: %v", config.Bucket, err)
		return nil, fmt.Errorf("failed to get bucket %s: %w", config.Bucket, err)
	}

	logger.Infof("[阿里云OSS] 提供商实例初始化成功, 配置名称: %s, 存储桶: %s", config.Name, config.Bucket)
	return &AliyunProvider{
		client: client,
		bucket: bucket,
		config: config,
	}, nil
}

// UploadFile 上传文件到阿里云OSS
func (p *AliyunProvider) UploadFile(objectKey string, reader io.Reader, contentType string) error {
	options := []oss.Option{}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}

	if err := p.bucket.PutObject(objectKey, reader, options...); err != nil {
		logger.Errorf("[阿里云OSS] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功上传文件: %s", objectKey)
	return nil
}

// DownloadFile 从阿里云OSS下载文件
func (p *AliyunProvider) DownloadFile(objectKey string) (io.ReadCloser, error) {
	body, err := p.bucket.GetObject(objectKey)
	if err != nil {
		logger.Errorf("[阿里云OSS] 下载文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return nil, fmt.Errorf("failed to download file from aliyun oss: %w", err)
	}
	return body, nil
}

// DeleteFile 删除阿里云OSS文件
func (p *AliyunProvider) DeleteFile(objectKey string) error {
	if err := p.bucket.DeleteObject(objectKey); err != nil {
		logger.Errorf("[阿里云OSS] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from aliyun oss: %w", err)
	}
	return nil
}

// FileExists 检查文件是否存在
func (p *AliyunProvider) FileExists(objectKey string) (bool, error) {
	exists, err := p.bucket.IsObjectExist(objectKey)
	if err != nil {
		return false, fmt.Errorf("failed to check file existence in aliyun oss: %w", err)
	}
	return exists, nil
}

// GetFileInfo 获取文件信息
func (p *AliyunProvider) GetFileInfo(objectKey string) (*FileInfo, error) {
	meta, err := p.bucket.GetObjectMeta(objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from aliyun oss: %w", err)
	}

	var size int64
	if sizeStr := meta.Get("Content-Length"); sizeStr != "" {
		fmt.Sscanf(sizeStr, "%d", &size)
	}

	return &FileInfo{
		Key:          objectKey,
		Size:         size,
		LastModified: meta.Get("Last-Modified"),
		ETag:         strings.Trim(meta.Get("Etag"), "\""),
		ContentType:  meta.Get("Content-Type"),
	}, nil
}

// ListFiles 列出文件
func (p *AliyunProvider) ListFiles(prefix string, maxKeys int) ([]FileInfo, error) {
	lsRes, err := p.bucket.ListObjects(oss.Prefix(prefix), oss.MaxKeys(maxKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to list files from aliyun oss: %w", err)
	}

	var files []FileInfo
	for _, object := range lsRes.Objects {
		files = append(files, FileInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified.Format(time.RFC3339),
			ETag:         strings.Trim(object.ETag, "\""),
			ContentType:  object.Type,
		})
	}
	return files, nil
}

// FileURL 返回对象的公开访问URL
// 自定义了endpoint时以endpoint的主机名为准，否则使用默认的区域域名
func (p *AliyunProvider) FileURL(objectKey string) string {
	host := fmt.Sprintf("oss-%s.aliyuncs.com", p.config.Region)
	if p.config.Endpoint != "" {
		if u, err := url.Parse(p.config.Endpoint); err == nil && u.Host != "" {
			host = u.Host
		}
	}
	return fmt.Sprintf("https://%s.%s/%s", p.config.Bucket, host, objectKey)
}

// TestConnection 测试连接
func (p *AliyunProvider) TestConnection() error {
	if _, err := p.client.GetBucketInfo(p.config.Bucket); err != nil {
		return fmt.Errorf("failed to test aliyun oss connection: %w", err)
	}
	return nil
}
