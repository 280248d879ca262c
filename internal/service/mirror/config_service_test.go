// Package mirror 镜像配置服务的单元测试
package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupConfigService 创建基于内存数据库的镜像配置服务
func setupConfigService(t *testing.T) ConfigService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&database.MirrorConfig{}, &database.MirrorLog{}))
	return NewConfigService(db)
}

// newTestConfig 构造一份合法的镜像配置
func newTestConfig(name string) *database.MirrorConfig {
	return &database.MirrorConfig{
		Name:      name,
		Provider:  "aliyun",
		Region:    "cn-hangzhou",
		Bucket:    "album-mirror",
		AccessKey: "ak",
		SecretKey: "sk",
		IsEnabled: true,
	}
}

// TestCreateConfig 测试镜像配置创建
func TestCreateConfig(t *testing.T) {
	svc := setupConfigService(t)

	t.Run("第一个配置自动激活", func(t *testing.T) {
		cfg := newTestConfig("primary")
		require.NoError(t, svc.CreateConfig(cfg))
		assert.True(t, cfg.IsActive)
	})

	t.Run("后续配置默认不激活", func(t *testing.T) {
		cfg := newTestConfig("secondary")
		require.NoError(t, svc.CreateConfig(cfg))
		assert.False(t, cfg.IsActive)
	})

	t.Run("配置名称不允许重复", func(t *testing.T) {
		err := svc.CreateConfig(newTestConfig("primary"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrRecordAlreadyExists))
	})

	t.Run("不支持的提供商被拒绝", func(t *testing.T) {
		cfg := newTestConfig("bad-provider")
		cfg.Provider = "s3"
		err := svc.CreateConfig(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorProviderNotSupported))
	})

	t.Run("缺少必填字段被拒绝", func(t *testing.T) {
		cfg := newTestConfig("no-bucket")
		cfg.Bucket = ""
		err := svc.CreateConfig(cfg)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorConfigInvalid))
	})
}

// TestActivateConfig 测试激活状态管理
func TestActivateConfig(t *testing.T) {
	svc := setupConfigService(t)

	first := newTestConfig("first")
	second := newTestConfig("second")
	require.NoError(t, svc.CreateConfig(first))
	require.NoError(t, svc.CreateConfig(second))

	t.Run("激活后成为唯一激活配置", func(t *testing.T) {
		require.NoError(t, svc.ActivateConfig(second.ID))

		active, err := svc.GetActiveConfig()
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)

		old, err := svc.GetConfigByID(first.ID)
		require.NoError(t, err)
		assert.False(t, old.IsActive)
	})

	t.Run("激活不存在的配置返回未找到", func(t *testing.T) {
		err := svc.ActivateConfig(9999)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorConfigNotFound))
	})
}

// TestDeleteConfig 测试镜像配置删除
func TestDeleteConfig(t *testing.T) {
	svc := setupConfigService(t)

	active := newTestConfig("active")
	spare := newTestConfig("spare")
	require.NoError(t, svc.CreateConfig(active))
	require.NoError(t, svc.CreateConfig(spare))

	t.Run("激活中的配置不允许删除", func(t *testing.T) {
		err := svc.DeleteConfig(active.ID)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorConfigInvalid))
	})

	t.Run("非激活配置可以删除", func(t *testing.T) {
		require.NoError(t, svc.DeleteConfig(spare.ID))

		_, err := svc.GetConfigByID(spare.ID)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorConfigNotFound))
	})
}

// TestToggleConfig 测试启用状态切换
func TestToggleConfig(t *testing.T) {
	svc := setupConfigService(t)

	active := newTestConfig("active")
	spare := newTestConfig("spare")
	require.NoError(t, svc.CreateConfig(active))
	require.NoError(t, svc.CreateConfig(spare))

	t.Run("激活中的配置不允许禁用", func(t *testing.T) {
		err := svc.ToggleConfig(active.ID, false)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMirrorConfigInvalid))
	})

	t.Run("禁用非激活配置", func(t *testing.T) {
		require.NoError(t, svc.ToggleConfig(spare.ID, false))

		got, err := svc.GetConfigByID(spare.ID)
		require.NoError(t, err)
		assert.False(t, got.IsEnabled)
	})
}

// TestGetActiveConfig 测试激活配置查询
func TestGetActiveConfig(t *testing.T) {
	svc := setupConfigService(t)

	t.Run("没有配置时返回无激活配置", func(t *testing.T) {
		_, err := svc.GetActiveConfig()
		assert.ErrorIs(t, err, ErrNoActiveConfig)
	})
}
