// Package mirror 媒体镜像服务的单元测试
package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMirrorService 创建基于内存数据库的镜像服务
func setupMirrorService(t *testing.T) (MirrorService, ConfigService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&database.MediaFile{},
		&database.MirrorConfig{},
		&database.MirrorLog{},
	))

	blobs, err := storage.NewBlobStore(t.TempDir())
	require.NoError(t, err)

	configs := NewConfigService(db)
	return NewMirrorService(db, blobs, configs), configs, db
}

// TestMirrorMediaWithoutConfig 测试无激活配置时的镜像行为
func TestMirrorMediaWithoutConfig(t *testing.T) {
	svc, _, db := setupMirrorService(t)

	media := &database.MediaFile{
		FileName:   "photo.jpg",
		FileType:   "image/jpeg",
		FileSize:   3,
		StorageKey: "1_photo.jpg",
	}

	// 未配置镜像时静默跳过，不产生日志
	url, err := svc.MirrorMedia(media)
	require.NoError(t, err)
	assert.Empty(t, url)

	var count int64
	require.NoError(t, db.Model(&database.MirrorLog{}).Count(&count).Error)
	assert.Zero(t, count)

	// 删除镜像副本同样静默跳过
	assert.NoError(t, svc.RemoveMirror(media))
}

// TestGetMirrorLogs 测试镜像日志分页
func TestGetMirrorLogs(t *testing.T) {
	svc, _, db := setupMirrorService(t)

	config := &database.MirrorConfig{
		Name: "logged", Provider: "aliyun", Region: "cn-hangzhou",
		Bucket: "b", AccessKey: "ak", SecretKey: "sk", IsEnabled: true,
	}
	require.NoError(t, db.Create(config).Error)

	for i := 0; i < 5; i++ {
		log := &database.MirrorLog{
			MediaID:        uint(i + 1),
			MirrorConfigID: config.ID,
			Status:         database.MirrorStatusSuccess,
			MirrorPath:     "media/key",
		}
		require.NoError(t, db.Create(log).Error)
	}

	t.Run("分页返回总数和当前页", func(t *testing.T) {
		logs, total, err := svc.GetMirrorLogs(1, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, logs, 3)
	})

	t.Run("非法分页参数回退默认值", func(t *testing.T) {
		logs, total, err := svc.GetMirrorLogs(0, -1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, logs, 5)
	})
}

// TestGetMediaMirrorStatus 测试媒体镜像状态查询
func TestGetMediaMirrorStatus(t *testing.T) {
	svc, _, db := setupMirrorService(t)

	t.Run("没有镜像记录返回未找到", func(t *testing.T) {
		_, err := svc.GetMediaMirrorStatus(42)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrRecordNotFound))
	})

	t.Run("返回最近一次镜像状态", func(t *testing.T) {
		config := &database.MirrorConfig{
			Name: "status", Provider: "aliyun", Region: "cn-hangzhou",
			Bucket: "b", AccessKey: "ak", SecretKey: "sk", IsEnabled: true,
		}
		require.NoError(t, db.Create(config).Error)

		require.NoError(t, db.Create(&database.MirrorLog{
			MediaID: 7, MirrorConfigID: config.ID,
			Status: database.MirrorStatusFailed, ErrorMsg: "timeout",
		}).Error)

		log, err := svc.GetMediaMirrorStatus(7)
		require.NoError(t, err)
		assert.Equal(t, database.MirrorStatusFailed, log.Status)
	})
}
