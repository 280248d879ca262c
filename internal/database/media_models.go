// Package database 定义媒体相关的数据库模型
package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 媒体元数据中约定的键名
const (
	// MetaOriginalName 上传时客户端提供的原始文件名
	MetaOriginalName = "originalName"
	// MetaMirrorURL 镜像存储返回的公开访问URL，仅镜像成功后写入
	MetaMirrorURL = "mirrorUrl"
)

// MediaFile 媒体文件元数据模型
// 主键ID由数据库自增分配，单调递增；软删除保留行，保证ID永不复用
// 文件内容以StorageKey为键存放在本地磁盘，记录存在则对应磁盘文件必须存在
type MediaFile struct {
	ID         uint              `gorm:"primarykey" json:"id"`                  // 主键ID，自增，作为媒体唯一标识
	FileName   string            `gorm:"not null;size:255" json:"file_name"`    // 原始文件名，仅作展示，不参与路径拼接
	FileType   string            `gorm:"not null;size:100" json:"file_type"`    // MIME类型，响应时原样作为Content-Type返回
	FileSize   int64             `gorm:"not null" json:"file_size"`             // 文件大小（字节），以客户端声明为准
	StorageKey string            `gorm:"not null;size:500" json:"storage_key"`  // 磁盘存储键，格式为{id}_{净化后文件名}
	UploadDate time.Time         `gorm:"not null" json:"upload_date"`           // 上传时间，创建时写入，之后不变
	Metadata   datatypes.JSONMap `json:"metadata"`                              // 自由键值对，至少包含originalName
	CreatedAt  time.Time         `json:"created_at"`                            // 记录创建时间
	UpdatedAt  time.Time         `json:"updated_at"`                            // 记录最后更新时间
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`                        // 软删除时间戳
}

// TableName 指定MediaFile模型对应的数据库表名
func (MediaFile) TableName() string {
	return "media_files"
}

// IsVideo 判断是否为视频类型媒体
func (m *MediaFile) IsVideo() bool {
	return len(m.FileType) >= 6 && m.FileType[:6] == "video/"
}

// MirrorURL 返回镜像URL，未镜像时返回空字符串
func (m *MediaFile) MirrorURL() string {
	if m.Metadata == nil {
		return ""
	}
	if url, ok := m.Metadata[MetaMirrorURL].(string); ok {
		return url
	}
	return ""
}
