// Package media 提供媒体注册表的业务逻辑实现
// 负责媒体元数据的登记、查询、删除，以及文件内容的持久化
// 元数据存放在数据库中，文件内容委托BlobStore写入本地磁盘
package media

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/weiwangfds/weddingalbum/config"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/logger"
	"github.com/weiwangfds/weddingalbum/internal/storage"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MediaService 媒体服务接口
type MediaService interface {
	// CreateMedia 登记一条媒体记录并持久化文件内容
	// ID由数据库分配，存储键为{id}_{净化后文件名}
	CreateMedia(fileName, fileType string, fileSize int64, meta map[string]interface{}, r io.Reader) (*database.MediaFile, error)

	// GetAllMedia 返回全部媒体记录，按创建顺序（ID升序）排列
	GetAllMedia() ([]database.MediaFile, error)

	// GetMediaByID 根据ID获取媒体元数据，不读取文件内容
	GetMediaByID(id uint) (*database.MediaFile, error)

	// GetMediaFile 根据ID获取文件内容和元数据
	// 记录缺失或磁盘文件缺失都视为未找到
	GetMediaFile(id uint) (io.ReadCloser, *database.MediaFile, error)

	// DeleteMedia 删除媒体记录和文件内容
	// 文件删除尽力而为，失败只记录日志，注册表条目无条件移除
	DeleteMedia(id uint) error

	// ValidateUpload 校验上传文件的类型和大小
	ValidateUpload(fileName, fileType string, fileSize int64) error

	// AttachMirrorURL 将镜像URL合并进媒体的元数据
	AttachMirrorURL(id uint, mirrorURL string) error

	// GetMediaStats 获取媒体统计信息
	GetMediaStats() (map[string]interface{}, error)
}

// mediaService 媒体服务实现
type mediaService struct {
	db     *gorm.DB
	blobs  *storage.BlobStore
	config config.StorageConfig
}

// NewMediaService 创建媒体服务实例
func NewMediaService(db *gorm.DB, blobs *storage.BlobStore, cfg config.StorageConfig) MediaService {
	return &mediaService{
		db:     db,
		blobs:  blobs,
		config: cfg,
	}
}

// CreateMedia 登记一条媒体记录并持久化文件内容
// 先插入记录拿到自增ID，再以{id}_{文件名}为键写入内容
// 内容写入失败时回删记录：ID被消耗但记录不会对外可见
func (s *mediaService) CreateMedia(fileName, fileType string, fileSize int64, meta map[string]interface{}, r io.Reader) (*database.MediaFile, error) {
	if err := s.ValidateUpload(fileName, fileType, fileSize); err != nil {
		return nil, err
	}

	metadata := datatypes.JSONMap{}
	for k, v := range meta {
		metadata[k] = v
	}
	if _, ok := metadata[database.MetaOriginalName]; !ok {
		metadata[database.MetaOriginalName] = fileName
	}

	record := &database.MediaFile{
		FileName:   fileName,
		FileType:   fileType,
		FileSize:   fileSize,
		UploadDate: time.Now(),
		Metadata:   metadata,
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	key := fmt.Sprintf("%d_%s", record.ID, storage.SafeBaseName(fileName))
	written, err := s.blobs.Write(key, r)
	if err != nil {
		// 内容落盘失败，撤销登记
		if delErr := s.db.Unscoped().Delete(record).Error; delErr != nil {
			logger.Errorf("回滚媒体记录失败, ID: %d, 错误: %v", record.ID, delErr)
		}
		return nil, errors.WrapByCode(errors.ErrMediaWriteFailed, err)
	}

	if written != fileSize {
		// 大小以客户端声明为准，不一致只记录不拒绝
		logger.Debugf("媒体实际大小与声明不一致, ID: %d, 声明: %d, 实际: %d", record.ID, fileSize, written)
	}

	record.StorageKey = key
	if err := s.db.Model(record).Update("storage_key", key).Error; err != nil {
		if delErr := s.blobs.Delete(key); delErr != nil {
			logger.Errorf("回滚媒体内容失败, 键: %s, 错误: %v", key, delErr)
		}
		if delErr := s.db.Unscoped().Delete(record).Error; delErr != nil {
			logger.Errorf("回滚媒体记录失败, ID: %d, 错误: %v", record.ID, delErr)
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}

	logger.Infof("媒体登记成功, ID: %d, 文件名: %s, 类型: %s, 大小: %d", record.ID, fileName, fileType, fileSize)
	return record, nil
}

// GetAllMedia 返回全部媒体记录，按创建顺序排列
func (s *mediaService) GetAllMedia() ([]database.MediaFile, error) {
	var files []database.MediaFile
	if err := s.db.Order("id ASC").Find(&files).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return files, nil
}

// GetMediaByID 根据ID获取媒体元数据
func (s *mediaService) GetMediaByID(id uint) (*database.MediaFile, error) {
	var record database.MediaFile
	if err := s.db.First(&record, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewByCode(errors.ErrMediaNotFound)
		}
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}
	return &record, nil
}

// GetMediaFile 根据ID获取文件内容和元数据
// 记录存在但磁盘文件缺失属于存储不一致，显式报错而不是静默容忍
func (s *mediaService) GetMediaFile(id uint) (io.ReadCloser, *database.MediaFile, error) {
	record, err := s.GetMediaByID(id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(record.StorageKey)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Errorf("存储不一致: 媒体记录存在但内容缺失, ID: %d, 键: %s", id, record.StorageKey)
			return nil, nil, errors.NewByCode(errors.ErrMediaBlobMissing)
		}
		return nil, nil, errors.WrapByCode(errors.ErrMediaReadFailed, err)
	}

	return rc, record, nil
}

// DeleteMedia 删除媒体记录和文件内容
// 第二次删除同一ID会因记录已不存在而返回未找到错误
func (s *mediaService) DeleteMedia(id uint) error {
	record, err := s.GetMediaByID(id)
	if err != nil {
		return err
	}

	// 文件删除尽力而为，失败不阻止条目移除，留下的孤儿文件通过日志追查
	if err := s.blobs.Delete(record.StorageKey); err != nil {
		logger.Errorf("删除媒体内容失败, ID: %d, 键: %s, 错误: %v", id, record.StorageKey, err)
	}

	if err := s.db.Delete(record).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseDelete, err)
	}

	logger.Infof("媒体删除成功, ID: %d, 文件名: %s", id, record.FileName)
	return nil
}

// ValidateUpload 校验上传文件的类型和大小
func (s *mediaService) ValidateUpload(fileName, fileType string, fileSize int64) error {
	if fileName == "" {
		return errors.NewByCode(errors.ErrInvalidParams).WithDetails("file name is empty")
	}

	if !s.isAllowedType(fileType) {
		return errors.NewByCode(errors.ErrMediaTypeNotAllowed).WithDetails(fileType)
	}

	if s.config.MaxUploadSize > 0 && fileSize > s.config.MaxUploadSize {
		return errors.NewByCode(errors.ErrMediaSizeTooLarge).
			WithDetails(fmt.Sprintf("size %d exceeds limit %d", fileSize, s.config.MaxUploadSize))
	}

	return nil
}

// AttachMirrorURL 将镜像URL合并进媒体的元数据
// 镜像成功后的唯一一次元数据更新
func (s *mediaService) AttachMirrorURL(id uint, mirrorURL string) error {
	record, err := s.GetMediaByID(id)
	if err != nil {
		return err
	}

	if record.Metadata == nil {
		record.Metadata = datatypes.JSONMap{}
	}
	record.Metadata[database.MetaMirrorURL] = mirrorURL

	if err := s.db.Model(record).Update("metadata", record.Metadata).Error; err != nil {
		return errors.WrapByCode(errors.ErrDatabaseInsert, err)
	}
	return nil
}

// GetMediaStats 获取媒体统计信息
func (s *mediaService) GetMediaStats() (map[string]interface{}, error) {
	var stats struct {
		TotalFiles int64 `json:"total_files"`
		TotalSize  int64 `json:"total_size"`
	}

	if err := s.db.Model(&database.MediaFile{}).
		Select("COUNT(*) as total_files, COALESCE(SUM(file_size), 0) as total_size").
		Scan(&stats).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}

	// 按MIME类型统计数量
	var typeStats []struct {
		FileType string `json:"file_type"`
		Count    int64  `json:"count"`
	}

	if err := s.db.Model(&database.MediaFile{}).
		Select("file_type, COUNT(*) as count").
		Group("file_type").
		Order("count DESC").
		Scan(&typeStats).Error; err != nil {
		return nil, errors.WrapByCode(errors.ErrDatabaseQuery, err)
	}

	return map[string]interface{}{
		"total_files": stats.TotalFiles,
		"total_size":  stats.TotalSize,
		"type_stats":  typeStats,
	}, nil
}

// isAllowedType 检查MIME类型是否在允许的前缀列表中
func (s *mediaService) isAllowedType(fileType string) bool {
	for _, prefix := range s.config.AllowedTypes {
		if prefix == "*" {
			return true
		}
		if strings.HasPrefix(fileType, prefix) {
			return true
		}
	}
	return false
}
