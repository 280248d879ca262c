// Package mirror 腾讯云COS提供商实现
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/logger"
)

// TencentProvider 腾讯云COS提供商实现
type TencentProvider struct {
	client    *cos.Client            // 腾讯云COS客户端实例
	bucketURL string                 // 存储桶访问URL
	config    *database.MirrorConfig // 镜像配置信息
}

// NewTencentProvider 创建腾讯云COS提供商实例
func NewTencentProvider(config *database.MirrorConfig) (*TencentProvider, error) {
	// 构建存储桶URL，自定义endpoint优先
	bucketURL := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", config.Bucket, config.Region)
	if config.Endpoint != "" {
		bucketURL = config.Endpoint
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessKey,
			SecretKey: config.SecretKey,
		},
	})

	logger.Infof("[腾讯云COS] 提供商实例初始化成功, 配置名称: %s, 存储桶: %s", config.Name, config.Bucket)
	return &TencentProvider{
		client:    client,
		bucketURL: strings.TrimRight(bucketURL, "/"),
		config:    config,
	}, nil
}

// UploadFile 上传文件到腾讯云COS
func (p *TencentProvider) UploadFile(objectKey string, reader io.Reader, contentType string) error {
	options := &cos.ObjectPutOptions{}
	if contentType != "" {
		options.ObjectPutHeaderOptions = &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		}
	}

	if _, err := p.client.Object.Put(context.Background(), objectKey, reader, options); err != nil {
		logger.Errorf("[腾讯云COS] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to tencent cos: %w", err)
	}

	logger.Infof("[腾讯云COS] 成功上传文件: %s", objectKey)
	return nil
}

// DownloadFile 从腾讯云COS下载文件
func (p *TencentProvider) DownloadFile(objectKey string) (io.ReadCloser, error) {
	resp, err := p.client.Object.Get(context.Background(), objectKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from tencent cos: %w", err)
	}
	return resp.Body, nil
}

// DeleteFile 删除腾讯云COS文件
func (p *TencentProvider) DeleteFile(objectKey string) error {
	if _, err := p.client.Object.Delete(context.Background(), objectKey); err != nil {
		logger.Errorf("[腾讯云COS] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from tencent cos: %w", err)
	}
	return nil
}

// FileExists 检查文件是否存在
func (p *TencentProvider) FileExists(objectKey string) (bool, error) {
	_, err := p.client.Object.Head(context.Background(), objectKey, nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence in tencent cos: %w", err)
	}
	return true, nil
}

// GetFileInfo 获取文件信息
func (p *TencentProvider) GetFileInfo(objectKey string) (*FileInfo, error) {
	resp, err := p.client.Object.Head(context.Background(), objectKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from tencent cos: %w", err)
	}

	return &FileInfo{
		Key:          objectKey,
		Size:         resp.ContentLength,
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         strings.Trim(resp.Header.Get("Etag"), "\""),
		ContentType:  resp.Header.Get("Content-Type"),
	}, nil
}

// ListFiles 列出文件
func (p *TencentProvider) ListFiles(prefix string, maxKeys int) ([]FileInfo, error) {
	options := &cos.BucketGetOptions{
		Prefix:  prefix,
		MaxKeys: maxKeys,
	}

	result, _, err := p.client.Bucket.Get(context.Background(), options)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from tencent cos: %w", err)
	}

	var files []FileInfo
	for _, object := range result.Contents {
		files = append(files, FileInfo{
			Key:          object.Key,
			Size:         int64(object.Size),
			LastModified: object.LastModified,
			ETag:         strings.Trim(object.ETag, "\""),
			ContentType:  "", // COS列表接口不返回ContentType
		})
	}
	return files, nil
}

// FileURL 返回对象的公开访问URL
func (p *TencentProvider) FileURL(objectKey string) string {
	return fmt.Sprintf("%s/%s", p.bucketURL, objectKey)
}

// TestConnection 测试连接
func (p *TencentProvider) TestConnection() error {
	if _, err := p.client.Bucket.Head(context.Background()); err != nil {
		return fmt.Errorf("failed to test tencent cos connection: %w", err)
	}
	return nil
}
