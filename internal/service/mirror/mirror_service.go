// Package mirror 媒体镜像同步服务
// 本地存储是唯一权威，镜像属于尽力而为的冗余副本
// 镜像失败不影响媒体本身的可用性，只记录失败日志供排查
package mirror

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/logger"
	"github.com/weiwangfds/weddingalbum/internal/storage"
	"gorm.io/gorm"
)

// MirrorService 媒体镜像服务接口
type MirrorService interface {
	// MirrorMedia 将媒体文件镜像到当前激活的云端存储
	// 没有激活配置时静默跳过，返回空URL和nil
	// 镜像失败返回错误，但调用方不应据此让上传失败
	MirrorMedia(media *database.MediaFile) (string, error)

	// RemoveMirror 删除媒体的云端镜像副本，尽力而为
	RemoveMirror(media *database.MediaFile) error

	// GetMirrorLogs 分页获取镜像同步日志，按时间倒序
	GetMirrorLogs(page, pageSize int) ([]database.MirrorLog, int64, error)

	// GetMediaMirrorStatus 获取指定媒体的最近一次镜像状态
	GetMediaMirrorStatus(mediaID uint) (*database.MirrorLog, error)
}

// mirrorService 媒体镜像服务实现
type mirrorService struct {
	db      *gorm.DB
	blobs   *storage.BlobStore
	configs ConfigService
	factory *ProviderFactory
}

// NewMirrorService 创建媒体镜像服务实例
func NewMirrorService(db *gorm.DB, blobs *storage.BlobStore, configs ConfigService) MirrorService {
	return &mirrorService{
		db:      db,
		blobs:   blobs,
		configs: configs,
		factory: &ProviderFactory{},
	}
}

// MirrorMedia 将媒体文件镜像到当前激活的云端存储
// 从本地存储读取内容上传到{同步路径}/{存储键}，并写入一条镜像日志
func (s *mirrorService) MirrorMedia(media *database.MediaFile) (string, error) {
	config, err := s.configs.GetActiveConfig()
	if err != nil {
		if stderrors.Is(err, ErrNoActiveConfig) {
			// 未配置镜像属于正常状态，不算失败
			return "", nil
		}
		return "", err
	}

	start := time.Now()
	objectKey := s.objectKey(config, media.StorageKey)

	mirrorURL, err := s.uploadToMirror(config, media, objectKey)
	duration := time.Since(start).Milliseconds()

	log := &database.MirrorLog{
		MediaID:        media.ID,
		MirrorConfigID: config.ID,
		MirrorPath:     objectKey,
		FileSize:       media.FileSize,
		Duration:       duration,
	}

	if err != nil {
		log.Status = database.MirrorStatusFailed
		log.ErrorMsg = err.Error()
		if logErr := s.db.Create(log).Error; logErr != nil {
			logger.Errorf("写入镜像日志失败, 媒体ID: %d, 错误: %v", media.ID, logErr)
		}
		logger.Errorf("媒体镜像失败, 媒体ID: %d, 配置: %s, 错误: %v", media.ID, config.Name, err)
		return "", errors.WrapByCode(errors.ErrMirrorUploadFailed, err)
	}

	log.Status = database.MirrorStatusSuccess
	log.MirrorURL = mirrorURL
	if logErr := s.db.Create(log).Error; logErr != nil {
		logger.Errorf("写入镜像日志失败, 媒体ID: %d, 错误: %v", media.ID, logErr)
	}

	logger.Infof("媒体镜像成功, 媒体ID: %d, 配置: %s, 对象键: %s, 耗时: %dms",
		media.ID, config.Name, objectKey, duration)
	return mirrorURL, nil
}

// uploadToMirror 执行单次镜像上传并返回公开访问URL
func (s *mirrorService) uploadToMirror(config *database.MirrorConfig, media *database.MediaFile, objectKey string) (string, error) {
	provider, err := s.factory.CreateProvider(config)
	if err != nil {
		return "", fmt.Errorf("failed to create mirror provider: %w", err)
	}

	rc, err := s.blobs.Open(media.StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to open local media content: %w", err)
	}
	defer rc.Close()

	if err := provider.UploadFile(objectKey, rc, media.FileType); err != nil {
		return "", err
	}

	return provider.FileURL(objectKey), nil
}

// RemoveMirror 删除媒体的云端镜像副本
// 没有激活配置时直接返回，删除失败只记录日志
func (s *mirrorService) RemoveMirror(media *database.MediaFile) error {
	config, err := s.configs.GetActiveConfig()
	if err != nil {
		if stderrors.Is(err, ErrNoActiveConfig) {
			return nil
		}
		return err
	}

	provider, err := s.factory.CreateProvider(config)
	if err != nil {
		return errors.WrapByCode(errors.ErrMirrorProviderNotSupported, err)
	}

	objectKey := s.objectKey(config, media.StorageKey)
	if err := provider.DeleteFile(objectKey); err != nil {
		logger.Errorf("删除镜像副本失败, 媒体ID: %d, 对象键: %s, 错误: %v", media.ID, objectKey, err)
		return errors.WrapByCode(errors.ErrMirrorDeleteFailed, err)
	}

	logger.Infof("镜像副本删除成功, 媒体ID: %d, 对象键: %s", media.ID, objectKey)
	return nil
}

// GetMirrorLogs 分页获取镜像同步日志
func (s *mirrorService) GetMirrorLogs(page, pageSize int) ([]database.MirrorLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&database.MirrorLog{}).Count(&total).Error; err != nil {
		return nil, 0, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}

	var logs []database.MirrorLog
	if err := s.db.Preload("MirrorConfig").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error; err != nil {
		return nil, 0, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}

	return logs, total, nil
}

// GetMediaMirrorStatus 获取指定媒体的最近一次镜像状态
func (s *mirrorService) GetMediaMirrorStatus(mediaID uint) (*database.MirrorLog, error) {
	var log database.MirrorLog
	if err := s.db.Preload("MirrorConfig").
		Where("media_id = ?", mediaID).
		Order("created_at DESC").
		First(&log).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewByCode(errors.ErrRecordNotFound)
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return &log, nil
}

// objectKey 拼接云端对象键：{同步路径}/{存储键}
func (s *mirrorService) objectKey(config *database.MirrorConfig, storageKey string) string {
	syncPath := strings.Trim(config.SyncPath, "/")
	if syncPath == "" {
		return storageKey
	}
	return syncPath + "/" + storageKey
}
