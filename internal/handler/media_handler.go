package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/weddingalbum/config"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/logger"
	"github.com/weiwangfds/weddingalbum/internal/response"
	"github.com/weiwangfds/weddingalbum/internal/service/media"
	"github.com/weiwangfds/weddingalbum/internal/service/mirror"
	"github.com/weiwangfds/weddingalbum/internal/storage"
)

// MediaHandler 媒体相关的HTTP处理器
type MediaHandler struct {
	mediaService  media.MediaService
	mirrorService mirror.MirrorService
	storageConfig config.StorageConfig
}

// NewMediaHandler 创建媒体处理器实例
func NewMediaHandler(mediaService media.MediaService, mirrorService mirror.MirrorService, cfg config.StorageConfig) *MediaHandler {
	return &MediaHandler{
		mediaService:  mediaService,
		mirrorService: mirrorService,
		storageConfig: cfg,
	}
}

// uploadResult 批量上传中单个文件的处理结果
type uploadResult struct {
	FileName  string              `json:"file_name"`            // 原始文件名
	Success   bool                `json:"success"`              // 是否登记成功
	Media     *database.MediaFile `json:"media,omitempty"`      // 成功时的媒体记录
	Error     string              `json:"error,omitempty"`      // 失败原因
	MirrorURL string              `json:"mirror_url,omitempty"` // 镜像URL，镜像成功时存在
}

// ListMedia 获取媒体列表
// @Summary 获取媒体列表
// @Description 返回全部媒体记录，按上传顺序排列
// @Tags 媒体管理
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	files, err := h.mediaService.GetAllMedia()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"total": len(files),
		"items": files,
	})
}

// UploadMedia 批量上传媒体文件
// @Summary 批量上传媒体文件
// @Description 接收multipart表单的media字段，逐个登记，返回每个文件的处理结果
// @Tags 媒体管理
// @Accept multipart/form-data
// @Produce json
// @Param media formData file true "媒体文件，可多个"
// @Param metadata formData string false "附加元数据，JSON对象"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/media/upload [post]
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form: "+err.Error())
		return
	}

	files := form.File["media"]
	if len(files) == 0 {
		response.BadRequest(c, "no media files in request")
		return
	}

	// 可选的附加元数据，作用于本批次所有文件
	var meta map[string]interface{}
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			response.BadRequest(c, "invalid metadata json: "+err.Error())
			return
		}
	}

	results := make([]uploadResult, 0, len(files))
	for _, file := range files {
		contentType := h.detectContentType(file.Filename, file.Header.Get("Content-Type"))

		// 非媒体类型在传输层静默丢弃，不产生结果条目
		if !h.isMediaType(contentType) {
			logger.Debugf("忽略非媒体类型文件, 文件名: %s, 类型: %s", file.Filename, contentType)
			continue
		}

		results = append(results, h.uploadOne(file, contentType, meta))
	}

	response.Created(c, "upload processed", gin.H{
		"total":   len(results),
		"results": results,
	})
}

// uploadOne 处理批量上传中的单个文件
// 登记成功后尽力而为地镜像，镜像失败不影响该条目的成功状态
func (h *MediaHandler) uploadOne(file *multipart.FileHeader, contentType string, meta map[string]interface{}) uploadResult {
	src, err := file.Open()
	if err != nil {
		return uploadResult{FileName: file.Filename, Error: err.Error()}
	}
	defer src.Close()

	record, err := h.mediaService.CreateMedia(file.Filename, contentType, file.Size, meta, src)
	if err != nil {
		return uploadResult{FileName: file.Filename, Error: err.Error()}
	}

	result := uploadResult{FileName: file.Filename, Success: true, Media: record}

	mirrorURL, err := h.mirrorService.MirrorMedia(record)
	if err != nil {
		// 本地存储是权威，镜像失败已记录日志，条目保持成功
		logger.Warnf("媒体镜像失败, ID: %d, 错误: %v", record.ID, err)
		return result
	}
	if mirrorURL != "" {
		if err := h.mediaService.AttachMirrorURL(record.ID, mirrorURL); err != nil {
			logger.Errorf("回填镜像URL失败, ID: %d, 错误: %v", record.ID, err)
			return result
		}
		result.MirrorURL = mirrorURL
		result.Media.Metadata[database.MetaMirrorURL] = mirrorURL
	}

	return result
}

// GetMedia 获取媒体文件内容
// @Summary 获取媒体文件内容
// @Description 返回原始文件字节，Content-Type为上传时登记的MIME类型
// @Tags 媒体管理
// @Produce octet-stream
// @Param id path int true "媒体ID"
// @Success 200 {file} binary
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/media/{id} [get]
func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rc, record, err := h.mediaService.GetMediaFile(id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", record.FileType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Errorf("媒体内容传输中断, ID: %d, 错误: %v", id, err)
	}
}

// GetMediaInfo 获取媒体元数据
// @Summary 获取媒体元数据
// @Tags 媒体管理
// @Produce json
// @Param id path int true "媒体ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/media/{id}/info [get]
func (h *MediaHandler) GetMediaInfo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.mediaService.GetMediaByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, record)
}

// DownloadMedia 下载媒体文件
// @Summary 下载媒体文件
// @Description 与获取内容一致，额外带Content-Disposition附件头触发浏览器下载
// @Tags 媒体管理
// @Produce octet-stream
// @Param id path int true "媒体ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /api/media/{id}/download [get]
func (h *MediaHandler) DownloadMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rc, record, err := h.mediaService.GetMediaFile(id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", record.FileType)
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, storage.SafeBaseName(record.FileName)))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Errorf("媒体内容传输中断, ID: %d, 错误: %v", id, err)
	}
}

// GetThumbnail 获取媒体缩略图
// @Summary 获取媒体缩略图
// @Description 图片直接回传原图，视频返回带文件名的SVG占位图
// @Tags 媒体管理
// @Produce octet-stream
// @Param id path int true "媒体ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /api/media/{id}/thumbnail [get]
func (h *MediaHandler) GetThumbnail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.mediaService.GetMediaByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// 视频不做真实抽帧，返回确定性的SVG占位图
	if record.IsVideo() {
		c.Data(http.StatusOK, media.ThumbnailContentType, media.VideoThumbnailSVG(record.FileName))
		return
	}

	rc, record, err := h.mediaService.GetMediaFile(id)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", record.FileType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.Errorf("缩略图传输中断, ID: %d, 错误: %v", id, err)
	}
}

// DeleteMedia 删除媒体文件
// @Summary 删除媒体文件
// @Description 删除本地内容和注册表条目，云端镜像副本尽力而为地清理
// @Tags 媒体管理
// @Produce json
// @Param id path int true "媒体ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/media/{id} [delete]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.mediaService.GetMediaByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	// 镜像副本清理失败不阻止本地删除
	if err := h.mirrorService.RemoveMirror(record); err != nil {
		logger.Warnf("清理镜像副本失败, ID: %d, 错误: %v", id, err)
	}

	if err := h.mediaService.DeleteMedia(id); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "media deleted", gin.H{"id": id})
}

// GetMediaStats 获取媒体统计信息
// @Summary 获取媒体统计信息
// @Tags 媒体管理
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/media/stats [get]
func (h *MediaHandler) GetMediaStats(c *gin.Context) {
	stats, err := h.mediaService.GetMediaStats()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, stats)
}

// detectContentType 确定文件的MIME类型
// 优先使用请求头声明，缺失时按扩展名推断
func (h *MediaHandler) detectContentType(fileName, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(fileName)); byExt != "" {
		return byExt
	}
	return declared
}

// isMediaType 检查MIME类型是否属于允许的媒体类型前缀
func (h *MediaHandler) isMediaType(contentType string) bool {
	for _, prefix := range h.storageConfig.AllowedTypes {
		if prefix == "*" || strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
