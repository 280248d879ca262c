package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/response"
	"github.com/weiwangfds/weddingalbum/internal/service/mirror"
)

// MirrorHandler 镜像配置相关的HTTP处理器
type MirrorHandler struct {
	configService mirror.ConfigService
	mirrorService mirror.MirrorService
}

// NewMirrorHandler 创建镜像处理器实例
func NewMirrorHandler(configService mirror.ConfigService, mirrorService mirror.MirrorService) *MirrorHandler {
	return &MirrorHandler{
		configService: configService,
		mirrorService: mirrorService,
	}
}

// mirrorConfigRequest 镜像配置的创建/更新请求体
type mirrorConfigRequest struct {
	Name      string `json:"name" binding:"required"`     // 配置名称
	Provider  string `json:"provider" binding:"required"` // 提供商: aliyun/tencent/qiniu
	Region    string `json:"region" binding:"required"`   // 存储区域
	Bucket    string `json:"bucket" binding:"required"`   // 存储桶名称
	AccessKey string `json:"access_key" binding:"required"`
	SecretKey string `json:"secret_key" binding:"required"`
	Endpoint  string `json:"endpoint"`  // 自定义访问端点，可选
	SyncPath  string `json:"sync_path"` // 云端同步路径前缀
	IsActive  bool   `json:"is_active"` // 是否激活
	IsEnabled bool   `json:"is_enabled"`
}

// CreateConfig 创建镜像配置
// @Summary 创建镜像配置
// @Tags 镜像管理
// @Accept json
// @Produce json
// @Param config body mirrorConfigRequest true "镜像配置"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/mirror/configs [post]
func (h *MirrorHandler) CreateConfig(c *gin.Context) {
	var req mirrorConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	config := &database.MirrorConfig{
		Name:      req.Name,
		Provider:  req.Provider,
		Region:    req.Region,
		Bucket:    req.Bucket,
		AccessKey: req.AccessKey,
		SecretKey: req.SecretKey,
		Endpoint:  req.Endpoint,
		SyncPath:  req.SyncPath,
		IsActive:  req.IsActive,
		IsEnabled: true,
	}

	if err := h.configService.CreateConfig(config); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "mirror config created", config)
}

// ListConfigs 获取镜像配置列表
// @Summary 获取镜像配置列表
// @Tags 镜像管理
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/mirror/configs [get]
func (h *MirrorHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configService.ListConfigs()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, configs)
}

// GetConfig 获取镜像配置详情
// @Summary 获取镜像配置详情
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/mirror/configs/{id} [get]
func (h *MirrorHandler) GetConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	config, err := h.configService.GetConfigByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, config)
}

// UpdateConfig 更新镜像配置
// @Summary 更新镜像配置
// @Tags 镜像管理
// @Accept json
// @Produce json
// @Param id path int true "配置ID"
// @Param config body mirrorConfigRequest true "镜像配置"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/mirror/configs/{id} [put]
func (h *MirrorHandler) UpdateConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	existing, err := h.configService.GetConfigByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req mirrorConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	existing.Name = req.Name
	existing.Provider = req.Provider
	existing.Region = req.Region
	existing.Bucket = req.Bucket
	existing.AccessKey = req.AccessKey
	existing.SecretKey = req.SecretKey
	existing.Endpoint = req.Endpoint
	existing.SyncPath = req.SyncPath
	existing.IsActive = req.IsActive

	if err := h.configService.UpdateConfig(existing); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "mirror config updated", existing)
}

// DeleteConfig 删除镜像配置
// @Summary 删除镜像配置
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/mirror/configs/{id} [delete]
func (h *MirrorHandler) DeleteConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.configService.DeleteConfig(id); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "mirror config deleted", gin.H{"id": id})
}

// ActivateConfig 激活镜像配置
// @Summary 激活镜像配置
// @Description 激活后成为唯一的镜像目标，其他配置自动取消激活
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response
// @Router /api/mirror/configs/{id}/activate [post]
func (h *MirrorHandler) ActivateConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.configService.ActivateConfig(id); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "mirror config activated", gin.H{"id": id})
}

// TestConfig 测试镜像配置连接
// @Summary 测试镜像配置连接
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response
// @Router /api/mirror/configs/{id}/test [post]
func (h *MirrorHandler) TestConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.configService.TestConfig(id); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "connection test passed", gin.H{"id": id})
}

// ToggleConfig 启用/禁用镜像配置
// @Summary 启用/禁用镜像配置
// @Tags 镜像管理
// @Produce json
// @Param id path int true "配置ID"
// @Param enabled query bool true "启用状态"
// @Success 200 {object} response.Response
// @Router /api/mirror/configs/{id}/toggle [post]
func (h *MirrorHandler) ToggleConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	enabled, err := strconv.ParseBool(c.DefaultQuery("enabled", "true"))
	if err != nil {
		response.BadRequest(c, "invalid enabled parameter")
		return
	}

	if err := h.configService.ToggleConfig(id, enabled); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "mirror config toggled", gin.H{"id": id, "enabled": enabled})
}

// ListLogs 获取镜像同步日志
// @Summary 获取镜像同步日志
// @Tags 镜像管理
// @Produce json
// @Param page query int false "页码，默认1"
// @Param page_size query int false "每页条数，默认20"
// @Success 200 {object} response.Response
// @Router /api/mirror/logs [get]
func (h *MirrorHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	logs, total, err := h.mirrorService.GetMirrorLogs(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     logs,
	})
}

// GetMediaMirrorStatus 获取媒体的镜像状态
// @Summary 获取媒体的镜像状态
// @Tags 镜像管理
// @Produce json
// @Param id path int true "媒体ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/mirror/media/{id}/status [get]
func (h *MirrorHandler) GetMediaMirrorStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	log, err := h.mirrorService.GetMediaMirrorStatus(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, log)
}
