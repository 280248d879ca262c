// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/weddingalbum/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"not_found":             "资源未找到",
			"service_unavailable":   "服务不可用",

			"media_not_found":        "媒体文件未找到",
			"media_upload_failed":    "媒体文件上传失败",
			"media_delete_failed":    "媒体文件删除失败",
			"media_read_failed":      "媒体文件读取失败",
			"media_write_failed":     "媒体文件写入失败",
			"media_size_too_large":   "媒体文件大小超限",
			"media_type_not_allowed": "媒体文件类型不允许",
			"media_blob_missing":     "媒体文件内容缺失",

			"mirror_config_not_found":       "镜像配置未找到",
			"mirror_config_invalid":         "镜像配置无效",
			"mirror_connection_failed":      "镜像存储连接失败",
			"mirror_upload_failed":          "镜像上传失败",
			"mirror_delete_failed":          "镜像删除失败",
			"mirror_provider_not_supported": "镜像存储提供商不支持",

			"user_not_found":      "用户不存在",
			"user_already_exists": "用户名已存在",

			"database_query":        "数据库查询错误",
			"database_insert":       "数据库插入错误",
			"database_delete":       "数据库删除错误",
			"record_not_found":      "记录未找到",
			"record_already_exists": "记录已存在",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"not_found":             "Resource Not Found",
			"service_unavailable":   "Service Unavailable",

			"media_not_found":        "Media Not Found",
			"media_upload_failed":    "Media Upload Failed",
			"media_delete_failed":    "Media Delete Failed",
			"media_read_failed":      "Media Read Failed",
			"media_write_failed":     "Media Write Failed",
			"media_size_too_large":   "Media Size Too Large",
			"media_type_not_allowed": "Media Type Not Allowed",
			"media_blob_missing":     "Media Content Missing",

			"mirror_config_not_found":       "Mirror Config Not Found",
			"mirror_config_invalid":         "Mirror Config Invalid",
			"mirror_connection_failed":      "Mirror Connection Failed",
			"mirror_upload_failed":          "Mirror Upload Failed",
			"mirror_delete_failed":          "Mirror Delete Failed",
			"mirror_provider_not_supported": "Mirror Provider Not Supported",

			"user_not_found":      "User Not Found",
			"user_already_exists": "Username Already Exists",

			"database_query":        "Database Query Error",
			"database_insert":       "Database Insert Error",
			"database_delete":       "Database Delete Error",
			"record_not_found":      "Record Not Found",
			"record_already_exists": "Record Already Exists",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 初始化翻译器
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, enUS, zhCN)

	// 注册支持的语言 - 使用locale库的标识符
	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败 for language %s (locale: %s): translator not found", ourLang, localeLang)
			continue
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译
func (i *I18n) Translate(key, lang string) string {
	if translation, found := translations[lang][key]; found {
		return translation
	}

	// 如果当前语言没有找到，尝试在默认语言中查找
	if lang != i.defaultLang {
		if translation, found := translations[i.defaultLang][key]; found {
			return translation
		}
	}

	logger.Warnf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.defaultLang = lang
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}
