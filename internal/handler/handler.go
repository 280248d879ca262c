// Package handler 提供HTTP请求处理器
// 处理器只做参数解析和响应编排，业务逻辑全部委托给service层
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"github.com/weiwangfds/weddingalbum/internal/response"
)

// parseIDParam 解析路径中的数字ID参数
// 非数字内容直接视为参数错误，不会落到未找到分支
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id parameter: "+raw)
		return 0, false
	}
	return uint(id), true
}

// respondError 将业务错误转换为带HTTP语义的统一响应
func respondError(c *gin.Context, err error) {
	appErr, ok := errors.GetAppError(err)
	if !ok {
		response.InternalServerError(c, err.Error())
		return
	}

	message := appErr.Message
	if appErr.Details != "" {
		message = message + ": " + appErr.Details
	}

	response.FailWithStatus(c, httpStatusFor(appErr.Code), int(appErr.Code), message)
}

// httpStatusFor 业务错误码到HTTP状态码的映射
func httpStatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound, errors.ErrMediaNotFound, errors.ErrMediaBlobMissing,
		errors.ErrMirrorConfigNotFound, errors.ErrUserNotFound, errors.ErrRecordNotFound:
		return http.StatusNotFound
	case errors.ErrInvalidParams, errors.ErrMediaSizeTooLarge, errors.ErrMediaTypeNotAllowed,
		errors.ErrMirrorConfigInvalid, errors.ErrMirrorProviderNotSupported,
		errors.ErrUserAlreadyExists, errors.ErrRecordAlreadyExists:
		return http.StatusBadRequest
	case errors.ErrServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
