// Package errors 定义应用程序统一的错误类型和错误码
package errors

import (
	"fmt"

	"github.com/weiwangfds/weddingalbum/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess            ErrorCode = 0    // 成功
	ErrInternalServer     ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams      ErrorCode = 1001 // 参数错误
	ErrNotFound           ErrorCode = 1004 // 资源未找到
	ErrServiceUnavailable ErrorCode = 1007 // 服务不可用

	// 媒体相关错误码 (2000-2999)
	ErrMediaNotFound       ErrorCode = 2000 // 媒体文件未找到
	ErrMediaUploadFailed   ErrorCode = 2001 // 媒体文件上传失败
	ErrMediaDeleteFailed   ErrorCode = 2002 // 媒体文件删除失败
	ErrMediaReadFailed     ErrorCode = 2003 // 媒体文件读取失败
	ErrMediaWriteFailed    ErrorCode = 2004 // 媒体文件写入失败
	ErrMediaSizeTooLarge   ErrorCode = 2005 // 媒体文件大小超限
	ErrMediaTypeNotAllowed ErrorCode = 2006 // 媒体文件类型不允许
	ErrMediaBlobMissing    ErrorCode = 2007 // 记录存在但磁盘内容缺失

	// 镜像相关错误码 (3000-3999)
	ErrMirrorConfigNotFound       ErrorCode = 3000 // 镜像配置未找到
	ErrMirrorConfigInvalid        ErrorCode = 3001 // 镜像配置无效
	ErrMirrorConnectionFailed     ErrorCode = 3002 // 镜像存储连接失败
	ErrMirrorUploadFailed         ErrorCode = 3003 // 镜像上传失败
	ErrMirrorDeleteFailed         ErrorCode = 3004 // 镜像删除失败
	ErrMirrorProviderNotSupported ErrorCode = 3005 // 镜像存储提供商不支持

	// 用户相关错误码 (4000-4099)
	ErrUserNotFound      ErrorCode = 4000 // 用户不存在
	ErrUserAlreadyExists ErrorCode = 4001 // 用户名已存在

	// 数据库相关错误码 (5000-5999)
	ErrDatabaseQuery       ErrorCode = 5000 // 数据库查询错误
	ErrDatabaseInsert      ErrorCode = 5001 // 数据库插入错误
	ErrDatabaseDelete      ErrorCode = 5002 // 数据库删除错误
	ErrRecordNotFound      ErrorCode = 5003 // 记录未找到
	ErrRecordAlreadyExists ErrorCode = 5004 // 记录已存在
)

// AppError 应用错误结构体
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链式判断
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:          e.Code,
		Message:       e.Message,
		Details:       details,
		OriginalError: e.OriginalError,
	}
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewByCode 根据错误码创建应用错误，消息从i18n语言包解析
func NewByCode(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// WrapByCode 根据错误码包装原始错误
func WrapByCode(code ErrorCode, err error) *AppError {
	return Wrap(code, GetErrorMessage(code), err)
}

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:            "success",
	ErrInternalServer:     "internal_server_error",
	ErrInvalidParams:      "invalid_params",
	ErrNotFound:           "not_found",
	ErrServiceUnavailable: "service_unavailable",

	ErrMediaNotFound:       "media_not_found",
	ErrMediaUploadFailed:   "media_upload_failed",
	ErrMediaDeleteFailed:   "media_delete_failed",
	ErrMediaReadFailed:     "media_read_failed",
	ErrMediaWriteFailed:    "media_write_failed",
	ErrMediaSizeTooLarge:   "media_size_too_large",
	ErrMediaTypeNotAllowed: "media_type_not_allowed",
	ErrMediaBlobMissing:    "media_blob_missing",

	ErrMirrorConfigNotFound:       "mirror_config_not_found",
	ErrMirrorConfigInvalid:        "mirror_config_invalid",
	ErrMirrorConnectionFailed:     "mirror_connection_failed",
	ErrMirrorUploadFailed:         "mirror_upload_failed",
	ErrMirrorDeleteFailed:         "mirror_delete_failed",
	ErrMirrorProviderNotSupported: "mirror_provider_not_supported",

	ErrUserNotFound:      "user_not_found",
	ErrUserAlreadyExists: "user_already_exists",

	ErrDatabaseQuery:       "database_query",
	ErrDatabaseInsert:      "database_insert",
	ErrDatabaseDelete:      "database_delete",
	ErrRecordNotFound:      "record_not_found",
	ErrRecordAlreadyExists: "record_already_exists",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
