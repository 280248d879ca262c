// Package media 媒体服务的单元测试
package media

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/weddingalbum/config"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMediaService 创建基于内存数据库和临时目录的媒体服务
func setupMediaService(t *testing.T) (MediaService, *storage.BlobStore, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&database.MediaFile{},
		&database.User{},
		&database.MirrorConfig{},
		&database.MirrorLog{},
	)
	require.NoError(t, err)

	blobs, err := storage.NewBlobStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.StorageConfig{
		StoragePath:   blobs.Dir(),
		MaxUploadSize: 1024 * 1024,
		AllowedTypes:  []string{"image/", "video/"},
	}

	return NewMediaService(db, blobs, cfg), blobs, db
}

// TestCreateMedia 测试媒体登记
func TestCreateMedia(t *testing.T) {
	svc, blobs, _ := setupMediaService(t)

	t.Run("登记成功后内容和元数据可回读", func(t *testing.T) {
		content := []byte("jpeg bytes")
		record, err := svc.CreateMedia("wedding.jpg", "image/jpeg", int64(len(content)),
			map[string]interface{}{"camera": "X100V"}, bytes.NewReader(content))
		require.NoError(t, err)
		require.NotNil(t, record)

		assert.Equal(t, "wedding.jpg", record.FileName)
		assert.Equal(t, "image/jpeg", record.FileType)
		assert.Equal(t, fmt.Sprintf("%d_wedding.jpg", record.ID), record.StorageKey)
		assert.Equal(t, "X100V", record.Metadata["camera"])
		assert.Equal(t, "wedding.jpg", record.Metadata[database.MetaOriginalName])

		got, err := blobs.Read(record.StorageKey)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("连续登记的ID单调递增", func(t *testing.T) {
		first, err := svc.CreateMedia("a.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("a")))
		require.NoError(t, err)
		second, err := svc.CreateMedia("b.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("b")))
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("文件名路径部分不进入存储键", func(t *testing.T) {
		record, err := svc.CreateMedia("../../evil.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d_evil.jpg", record.ID), record.StorageKey)
	})

	t.Run("超过大小上限拒绝登记", func(t *testing.T) {
		_, err := svc.CreateMedia("big.jpg", "image/jpeg", 2*1024*1024, nil, bytes.NewReader(nil))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMediaSizeTooLarge))
	})

	t.Run("不允许的类型拒绝登记", func(t *testing.T) {
		_, err := svc.CreateMedia("note.txt", "text/plain", 1, nil, bytes.NewReader([]byte("x")))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMediaTypeNotAllowed))
	})

	t.Run("空文件名拒绝登记", func(t *testing.T) {
		_, err := svc.CreateMedia("", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParams))
	})
}

// TestGetAllMedia 测试媒体列表
func TestGetAllMedia(t *testing.T) {
	svc, _, _ := setupMediaService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateMedia(fmt.Sprintf("p%d.jpg", i), "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)
	}

	files, err := svc.GetAllMedia()
	require.NoError(t, err)
	require.Len(t, files, 3)

	// 列表按登记顺序排列
	for i := 1; i < len(files); i++ {
		assert.Greater(t, files[i].ID, files[i-1].ID)
	}
}

// TestGetMediaFile 测试媒体内容读取
func TestGetMediaFile(t *testing.T) {
	svc, blobs, _ := setupMediaService(t)

	t.Run("读取已登记的媒体", func(t *testing.T) {
		content := []byte("movie bytes")
		record, err := svc.CreateMedia("clip.mp4", "video/mp4", int64(len(content)), nil, bytes.NewReader(content))
		require.NoError(t, err)

		rc, got, err := svc.GetMediaFile(record.ID)
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, record.ID, got.ID)
		buf := new(bytes.Buffer)
		_, err = buf.ReadFrom(rc)
		require.NoError(t, err)
		assert.Equal(t, content, buf.Bytes())
	})

	t.Run("未知ID返回未找到", func(t *testing.T) {
		_, _, err := svc.GetMediaFile(9999)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMediaNotFound))
	})

	t.Run("记录存在但内容缺失返回存储不一致错误", func(t *testing.T) {
		record, err := svc.CreateMedia("gone.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)

		require.NoError(t, blobs.Delete(record.StorageKey))

		_, _, err = svc.GetMediaFile(record.ID)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMediaBlobMissing))
	})
}

// TestDeleteMedia 测试媒体删除
func TestDeleteMedia(t *testing.T) {
	svc, blobs, _ := setupMediaService(t)

	t.Run("删除后记录和内容都不可见", func(t *testing.T) {
		record, err := svc.CreateMedia("del.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteMedia(record.ID))
		assert.False(t, blobs.Exists(record.StorageKey))

		_, err = svc.GetMediaByID(record.ID)
		assert.True(t, errors.IsCode(err, errors.ErrMediaNotFound))
	})

	t.Run("重复删除同一ID返回未找到", func(t *testing.T) {
		record, err := svc.CreateMedia("twice.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteMedia(record.ID))
		err = svc.DeleteMedia(record.ID)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrMediaNotFound))
	})

	t.Run("内容已丢失时仍可删除记录", func(t *testing.T) {
		record, err := svc.CreateMedia("orphan.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)

		require.NoError(t, blobs.Delete(record.StorageKey))
		assert.NoError(t, svc.DeleteMedia(record.ID))
	})

	t.Run("删除后的ID不会被复用", func(t *testing.T) {
		record, err := svc.CreateMedia("reuse.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)
		deletedID := record.ID

		require.NoError(t, svc.DeleteMedia(deletedID))

		next, err := svc.CreateMedia("next.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
		require.NoError(t, err)
		assert.Greater(t, next.ID, deletedID)
	})
}

// TestAttachMirrorURL 测试镜像URL回填
func TestAttachMirrorURL(t *testing.T) {
	svc, _, _ := setupMediaService(t)

	record, err := svc.CreateMedia("mirrored.jpg", "image/jpeg", 1,
		map[string]interface{}{"camera": "X100V"}, bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, svc.AttachMirrorURL(record.ID, "https://bucket.example.com/media/1_mirrored.jpg"))

	got, err := svc.GetMediaByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/media/1_mirrored.jpg", got.Metadata[database.MetaMirrorURL])
	// 原有元数据不受影响
	assert.Equal(t, "X100V", got.Metadata["camera"])
}

// TestGetMediaStats 测试媒体统计
func TestGetMediaStats(t *testing.T) {
	svc, _, _ := setupMediaService(t)

	_, err := svc.CreateMedia("a.jpg", "image/jpeg", 3, nil, bytes.NewReader([]byte("abc")))
	require.NoError(t, err)
	_, err = svc.CreateMedia("b.jpg", "image/jpeg", 2, nil, bytes.NewReader([]byte("ab")))
	require.NoError(t, err)
	_, err = svc.CreateMedia("c.mp4", "video/mp4", 5, nil, bytes.NewReader([]byte("abcde")))
	require.NoError(t, err)

	stats, err := svc.GetMediaStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["total_files"])
	assert.Equal(t, int64(10), stats["total_size"])
}
