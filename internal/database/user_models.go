// Package database 定义用户相关的数据库模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
// 为后续的访问控制预留，当前不参与任何媒体流程
// 密码明文存储，认证体系不在本系统范围内
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键ID，自增
	Username  string         `gorm:"uniqueIndex;not null;size:100" json:"username"` // 用户名，全局唯一
	Password  string         `gorm:"not null;size:200" json:"-"`                    // 密码，原样存储，响应中不返回
	CreatedAt time.Time      `json:"created_at"`                                    // 记录创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 记录最后更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间戳
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}
