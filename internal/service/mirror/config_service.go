// Package mirror 镜像配置管理服务
// 负责镜像配置的增删改查和激活状态管理，保证任意时刻至多一个激活配置
package mirror

import (
	stderrors "errors"
	"fmt"

	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/logger"
	"gorm.io/gorm"
)

// ConfigService 镜像配置服务接口
// 定义了镜像配置管理的所有操作，包括配置的增删改查、激活状态管理和连接测试
type ConfigService interface {
	// CreateConfig 创建镜像配置
	// 验证配置参数并保存到数据库，第一个配置会自动激活
	CreateConfig(config *database.MirrorConfig) error

	// GetConfigByID 根据ID获取镜像配置
	GetConfigByID(id uint) (*database.MirrorConfig, error)

	// ListConfigs 获取所有镜像配置，按创建时间倒序排列
	ListConfigs() ([]database.MirrorConfig, error)

	// UpdateConfig 更新镜像配置，处理激活状态变更
	UpdateConfig(config *database.MirrorConfig) error

	// DeleteConfig 删除镜像配置，不允许删除激活状态的配置
	DeleteConfig(id uint) error

	// ActivateConfig 激活指定配置并取消其他配置的激活状态
	ActivateConfig(id uint) error

	// TestConfig 用指定配置创建提供商并测试连接
	TestConfig(id uint) error

	// GetActiveConfig 获取当前激活且启用的镜像配置
	GetActiveConfig() (*database.MirrorConfig, error)

	// ToggleConfig 启用/禁用镜像配置，不允许禁用激活状态的配置
	ToggleConfig(id uint, enabled bool) error
}

// configService 镜像配置服务实现
type configService struct {
	db      *gorm.DB         // 数据库连接实例
	factory *ProviderFactory // 镜像提供商工厂
}

// NewConfigService 创建镜像配置服务实例
func NewConfigService(db *gorm.DB) ConfigService {
	return &configService{
		db:      db,
		factory: &ProviderFactory{},
	}
}

// CreateConfig 创建镜像配置
// 第一个配置自动激活；激活新配置前先取消其他配置的激活状态
func (s *configService) CreateConfig(config *database.MirrorConfig) error {
	if err := s.validateConfig(config); err != nil {
		return err
	}

	var count int64
	s.db.Model(&database.MirrorConfig{}).Count(&count)
	if count == 0 {
		config.IsActive = true
	}

	if config.IsActive {
		if err := s.deactivateAllConfigs(); err != nil {
			return fmt.Errorf("failed to deactivate other configs: %w", err)
		}
	}

	if err := s.db.Create(config).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	logger.Infof("镜像配置创建成功, 名称: %s, ID: %d, 提供商: %s, 激活: %v",
		config.Name, config.ID, config.Provider, config.IsActive)
	return nil
}

// GetConfigByID 根据ID获取镜像配置
func (s *configService) GetConfigByID(id uint) (*database.MirrorConfig, error) {
	var config database.MirrorConfig
	if err := s.db.First(&config, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewByCode(errors.ErrMirrorConfigNotFound)
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return &config, nil
}

// ListConfigs 获取所有镜像配置
func (s *configService) ListConfigs() ([]database.MirrorConfig, error) {
	var configs []database.MirrorConfig
	if err := s.db.Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return configs, nil
}

// UpdateConfig 更新镜像配置
func (s *configService) UpdateConfig(config *database.MirrorConfig) error {
	if err := s.validateConfig(config); err != nil {
		return err
	}

	var existing database.MirrorConfig
	if err := s.db.First(&existing, config.ID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.NewByCode(errors.ErrMirrorConfigNotFound)
		}
		return errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}

	// 从非激活转为激活时先取消其他配置的激活状态
	if config.IsActive && !existing.IsActive {
		if err := s.deactivateAllConfigs(); err != nil {
			return fmt.Errorf("failed to deactivate other configs: %w", err)
		}
	}

	if err := s.db.Save(config).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	logger.Infof("镜像配置更新成功, 名称: %s, ID: %d, 激活: %v", config.Name, config.ID, config.IsActive)
	return nil
}

// DeleteConfig 删除镜像配置
// 激活中的配置不允许删除，需先激活其他配置
func (s *configService) DeleteConfig(id uint) error {
	config, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}

	if config.IsActive {
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).
			WithDetails("cannot delete active mirror configuration")
	}

	if err := s.db.Delete(&database.MirrorConfig{}, id).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseDelete, err)
	}

	logger.Infof("镜像配置删除成功, 名称: %s, ID: %d", config.Name, id)
	return nil
}

// ActivateConfig 激活镜像配置
func (s *configService) ActivateConfig(id uint) error {
	config, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}

	if err := s.deactivateAllConfigs(); err != nil {
		return fmt.Errorf("failed to deactivate other configs: %w", err)
	}

	if err := s.db.Model(&database.MirrorConfig{}).Where("id = ?", id).
		Update("is_active", true).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	logger.Infof("镜像配置激活成功, 名称: %s, ID: %d", config.Name, id)
	return nil
}

// TestConfig 测试镜像配置连接
func (s *configService) TestConfig(id uint) error {
	config, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}

	provider, err := s.factory.CreateProvider(config)
	if err != nil {
		return errors.WrapByCode(errors.ErrMirrorProviderNotSupported, err)
	}

	if err := provider.TestConnection(); err != nil {
		return errors.WrapByCode(errors.ErrMirrorConnectionFailed, err)
	}

	logger.Infof("镜像配置连接测试通过, 名称: %s, ID: %d", config.Name, id)
	return nil
}

// GetActiveConfig 获取当前激活且启用的镜像配置
// 没有激活配置时返回ErrNoActiveConfig，调用方据此决定是否跳过镜像
func (s *configService) GetActiveConfig() (*database.MirrorConfig, error) {
	var config database.MirrorConfig
	if err := s.db.Where("is_active = ? AND is_enabled = ?", true, true).First(&config).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveConfig
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return &config, nil
}

// ToggleConfig 启用/禁用镜像配置
func (s *configService) ToggleConfig(id uint, enabled bool) error {
	if !enabled {
		config, err := s.GetConfigByID(id)
		if err != nil {
			return err
		}
		if config.IsActive {
			return errors.NewByCode(errors.ErrMirrorConfigInvalid).
				WithDetails("cannot disable active mirror configuration")
		}
	}

	if err := s.db.Model(&database.MirrorConfig{}).Where("id = ?", id).
		Update("is_enabled", enabled).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	logger.Infof("镜像配置状态切换成功, ID: %d, 启用: %v", id, enabled)
	return nil
}

// validateConfig 验证镜像配置的必需字段和业务规则
func (s *configService) validateConfig(config *database.MirrorConfig) error {
	if config.Name == "" {
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).WithDetails("configuration name is required")
	}

	switch config.Provider {
	case "aliyun", "tencent", "qiniu":
	case "":
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).WithDetails("provider is required")
	default:
		return errors.NewByCode(errors.ErrMirrorProviderNotSupported).WithDetails(config.Provider)
	}

	if config.Region == "" {
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).WithDetails("region is required")
	}
	if config.Bucket == "" {
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).WithDetails("bucket name is required")
	}
	if config.AccessKey == "" {
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).WithDetails("access key is required")
	}
	if config.SecretKey == "" {
		return errors.NewByCode(errors.ErrMirrorConfigInvalid).WithDetails("secret key is required")
	}

	// 配置名称不允许重复
	var count int64
	query := s.db.Model(&database.MirrorConfig{}).Where("name = ?", config.Name)
	if config.ID > 0 {
		query = query.Where("id != ?", config.ID)
	}
	query.Count(&count)
	if count > 0 {
		return errors.NewByCode(errors.ErrRecordAlreadyExists).WithDetails(config.Name)
	}

	return nil
}

// deactivateAllConfigs 取消所有配置的激活状态
func (s *configService) deactivateAllConfigs() error {
	return s.db.Model(&database.MirrorConfig{}).Where("is_active = ?", true).
		Update("is_active", false).Error
}
