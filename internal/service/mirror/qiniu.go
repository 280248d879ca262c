// Package mirror 七牛云Kodo提供商实现
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/logger"
)

// QiniuProvider 七牛云Kodo提供商实现
// 实现了Provider接口，提供七牛云对象存储的完整功能
type QiniuProvider struct {
	mac          *qbox.Mac              // 七牛云认证凭证
	bucketName   string                 // 存储桶名称
	bucketDomain string                 // 存储桶域名
	region       *storage.Region        // 存储区域信息
	config       *database.MirrorConfig // 镜像配置信息
}

// NewQiniuProvider 创建七牛云Kodo提供商实例
// 根据配置信息初始化认证、区域和域名设置
func NewQiniuProvider(config *database.MirrorConfig) (*QiniuProvider, error) {
	mac := qbox.NewMac(config.AccessKey, config.SecretKey)

	region, err := storage.GetRegion(config.AccessKey, config.Bucket)
	if err != nil {
		logger.Errorf("[七牛云Kodo] 获取区域失败, 存储桶: %s, 错误: %v", config.Bucket, err)
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	// 访问域名优先使用配置的endpoint
	bucketDomain := config.Endpoint
	if bucketDomain == "" {
		bucketDomain = fmt.Sprintf("%s.%s", config.Bucket, region.RsHost)
	}

	logger.Infof("[七牛云Kodo] 提供商实例初始化成功, 存储桶: %s, 域名: %s", config.Bucket, bucketDomain)
	return &QiniuProvider{
		mac:          mac,
		bucketName:   config.Bucket,
		bucketDomain: bucketDomain,
		region:       region,
		config:       config,
	}, nil
}

// UploadFile 上传文件到七牛云Kodo
func (p *QiniuProvider) UploadFile(objectKey string, reader io.Reader, contentType string) error {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucketName, objectKey),
	}
	upToken := putPolicy.UploadToken(p.mac)

	cfg := storage.Config{
		Region:        p.region,
		UseHTTPS:      true,
		UseCdnDomains: false,
	}

	formUploader := storage.NewFormUploader(&cfg)
	ret := storage.PutRet{}

	putExtra := storage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	err := formUploader.Put(context.Background(), &ret, upToken, objectKey, reader, -1, &putExtra)
	if err != nil {
		logger.Errorf("[七牛云Kodo] 上传文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload file to qiniu kodo: %w", err)
	}

	logger.Infof("[七牛云Kodo] 成功上传文件: %s, 哈希: %s", objectKey, ret.Hash)
	return nil
}

// DownloadFile 从七牛云Kodo下载文件
// 生成私有下载链接并返回文件内容流
func (p *QiniuProvider) DownloadFile(objectKey string) (io.ReadCloser, error) {
	deadline := time.Now().Add(time.Hour).Unix()
	privateURL := storage.MakePrivateURL(p.mac, p.bucketDomain, objectKey, deadline)

	resp, err := http.Get(privateURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download file from qiniu kodo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download file, status: %s", resp.Status)
	}

	return resp.Body, nil
}

// DeleteFile 删除七牛云Kodo文件
func (p *QiniuProvider) DeleteFile(objectKey string) error {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	if err := bucketManager.Delete(p.bucketName, objectKey); err != nil {
		logger.Errorf("[七牛云Kodo] 删除文件失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to delete file from qiniu kodo: %w", err)
	}
	return nil
}

// FileExists 检查文件是否存在
func (p *QiniuProvider) FileExists(objectKey string) (bool, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	_, err := bucketManager.Stat(p.bucketName, objectKey)
	if err != nil {
		if strings.Contains(err.Error(), "no such file or directory") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence in qiniu kodo: %w", err)
	}
	return true, nil
}

// GetFileInfo 获取文件信息
func (p *QiniuProvider) GetFileInfo(objectKey string) (*FileInfo, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	fileInfo, err := bucketManager.Stat(p.bucketName, objectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info from qiniu kodo: %w", err)
	}

	// 七牛的PutTime以100纳秒为单位
	lastModified := time.Unix(fileInfo.PutTime/10000000, 0).Format(time.RFC3339)

	return &FileInfo{
		Key:          objectKey,
		Size:         fileInfo.Fsize,
		LastModified: lastModified,
		ETag:         fileInfo.Hash,
		ContentType:  fileInfo.MimeType,
	}, nil
}

// ListFiles 列出文件
func (p *QiniuProvider) ListFiles(prefix string, maxKeys int) ([]FileInfo, error) {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	entries, _, _, _, err := bucketManager.ListFiles(p.bucketName, prefix, "", "", maxKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to list files from qiniu kodo: %w", err)
	}

	var files []FileInfo
	for _, entry := range entries {
		files = append(files, FileInfo{
			Key:          entry.Key,
			Size:         entry.Fsize,
			LastModified: time.Unix(entry.PutTime/10000000, 0).Format(time.RFC3339),
			ETag:         entry.Hash,
			ContentType:  entry.MimeType,
		})
	}
	return files, nil
}

// FileURL 返回对象的公开访问URL
func (p *QiniuProvider) FileURL(objectKey string) string {
	return fmt.Sprintf("https://%s/%s", p.bucketDomain, objectKey)
}

// TestConnection 测试连接
// 通过尝试列出存储桶文件来验证认证是否正常
func (p *QiniuProvider) TestConnection() error {
	bucketManager := storage.NewBucketManager(p.mac, &storage.Config{
		Region: p.region,
	})

	if _, _, _, _, err := bucketManager.ListFiles(p.bucketName, "", "", "", 1); err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}
	return nil
}
