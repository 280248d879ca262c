// Package user 提供访客账号的业务逻辑实现
// 访客账号用于标记媒体的上传来源，不做鉴权
package user

import (
	stderrors "errors"

	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/logger"
	"gorm.io/gorm"
)

// UserService 用户服务接口
type UserService interface {
	// CreateUser 创建用户，用户名重复时返回已存在错误
	CreateUser(username, password string) (*database.User, error)

	// GetUserByID 根据ID获取用户
	GetUserByID(id uint) (*database.User, error)

	// GetUserByUsername 根据用户名获取用户
	GetUserByUsername(username string) (*database.User, error)

	// ListUsers 获取全部用户，按创建时间倒序
	ListUsers() ([]database.User, error)

	// DeleteUser 删除用户
	DeleteUser(id uint) error
}

// userService 用户服务实现
type userService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务实例
func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

// CreateUser 创建用户
func (s *userService) CreateUser(username, password string) (*database.User, error) {
	if username == "" {
		return nil, errors.NewByCode(errors.ErrInvalidParams).WithDetails("username is empty")
	}

	var count int64
	if err := s.db.Model(&database.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	if count > 0 {
		return nil, errors.NewByCode(errors.ErrUserAlreadyExists).WithDetails(username)
	}

	user := &database.User{
		Username: username,
		Password: password,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	logger.Infof("用户创建成功, ID: %d, 用户名: %s", user.ID, user.Username)
	return user, nil
}

// GetUserByID 根据ID获取用户
func (s *userService) GetUserByID(id uint) (*database.User, error) {
	var user database.User
	if err := s.db.First(&user, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewByCode(errors.ErrUserNotFound)
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户
func (s *userService) GetUserByUsername(username string) (*database.User, error) {
	var user database.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewByCode(errors.ErrUserNotFound)
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return &user, nil
}

// ListUsers 获取全部用户
func (s *userService) ListUsers() ([]database.User, error) {
	var users []database.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return users, nil
}

// DeleteUser 删除用户
func (s *userService) DeleteUser(id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(user).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseDelete, err)
	}

	logger.Infof("用户删除成功, ID: %d, 用户名: %s", id, user.Username)
	return nil
}
