// Package database 定义镜像存储相关的数据库模型
// 包含镜像配置和镜像日志两个核心数据模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// MirrorConfig 云端镜像存储配置模型
// 用于管理不同云服务商的对象存储配置，支持阿里云OSS、腾讯云COS、七牛云Kodo
// 系统中最多只有一个激活配置，上传的媒体会镜像一份到激活的云端存储
type MirrorConfig struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键ID，自增
	Name      string         `gorm:"not null;size:100" json:"name"`                 // 配置名称，用于标识不同的镜像配置
	Provider  string         `gorm:"not null;size:20" json:"provider"`              // 提供商：aliyun（阿里云）、tencent（腾讯云）、qiniu（七牛云）
	Region    string         `gorm:"not null;size:50" json:"region"`                // 服务区域，如：cn-hangzhou、ap-beijing等
	Bucket    string         `gorm:"not null;size:100" json:"bucket"`               // 存储桶名称
	AccessKey string         `gorm:"not null;size:100" json:"access_key"`           // 访问密钥ID，用于API认证
	SecretKey string         `gorm:"not null;size:200" json:"secret_key,omitempty"` // 访问密钥Secret，敏感信息，API响应时不返回
	Endpoint  string         `gorm:"size:200" json:"endpoint"`                      // 自定义服务端点URL，可选配置
	IsActive  bool           `gorm:"default:false" json:"is_active"`                // 是否为当前激活使用的配置
	IsEnabled bool           `gorm:"default:true" json:"is_enabled"`                // 配置是否启用，禁用后不可使用
	SyncPath  string         `gorm:"size:200;default:'media'" json:"sync_path"`     // 云端存储路径前缀，默认为"media"
	CreatedAt time.Time      `json:"created_at"`                                    // 配置创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 配置最后修改时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间戳
}

// TableName 指定MirrorConfig模型对应的数据库表名
func (MirrorConfig) TableName() string {
	return "mirror_configs"
}

// 镜像日志状态常量
const (
	MirrorStatusPending = "pending" // 镜像中
	MirrorStatusSuccess = "success" // 镜像成功
	MirrorStatusFailed  = "failed"  // 镜像失败
)

// MirrorLog 媒体镜像日志模型
// 记录媒体文件与云端存储之间的镜像操作历史
// 用于追踪镜像状态和错误排查，镜像失败不影响本地持久化
type MirrorLog struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                     // 主键ID，自增
	MediaID        uint           `gorm:"not null;index" json:"media_id"`                           // 关联的媒体ID
	MirrorConfigID uint           `gorm:"not null" json:"mirror_config_id"`                         // 关联的镜像配置ID
	MirrorConfig   MirrorConfig   `gorm:"foreignKey:MirrorConfigID" json:"mirror_config,omitempty"` // 关联的镜像配置对象
	Status         string         `gorm:"not null;size:20" json:"status"`                           // 镜像状态：pending、success、failed
	MirrorPath     string         `gorm:"size:500" json:"mirror_path"`                              // 文件在云端的对象键
	MirrorURL      string         `gorm:"size:500" json:"mirror_url"`                               // 镜像成功后的公开访问URL
	ErrorMsg       string         `gorm:"type:text" json:"error_msg"`                               // 镜像失败时的详细错误信息
	FileSize       int64          `json:"file_size"`                                                // 镜像文件的大小（字节）
	Duration       int64          `json:"duration"`                                                 // 镜像操作耗时（毫秒）
	CreatedAt      time.Time      `json:"created_at"`                                               // 日志创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                               // 日志最后更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间戳
}

// TableName 指定MirrorLog模型对应的数据库表名
func (MirrorLog) TableName() string {
	return "mirror_logs"
}
