// Package config 提供应用程序配置管理
// 基于viper实现，支持配置文件、环境变量和默认值三级覆盖
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序总配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	Storage  StorageConfig  `mapstructure:"storage"`  // 媒体存储配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`           // HTTP监听端口
	EnableHTTPS  bool   `mapstructure:"enable_https"`   // 是否启用HTTPS
	HTTPSPort    int    `mapstructure:"https_port"`     // HTTPS监听端口
	EnableHTTP2  bool   `mapstructure:"enable_http2"`   // 是否启用HTTP/2
	TLSCertFile  string `mapstructure:"tls_cert_file"`  // TLS证书文件路径
	TLSKeyFile   string `mapstructure:"tls_key_file"`   // TLS私钥文件路径
	ReadTimeout  int    `mapstructure:"read_timeout"`   // 读取超时时间（秒）
	WriteTimeout int    `mapstructure:"write_timeout"`  // 写入超时时间（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，目前支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据库连接字符串
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（秒）
}

// StorageConfig 媒体存储配置
type StorageConfig struct {
	// StoragePath 媒体文件存储目录
	StoragePath string `mapstructure:"storage_path"`
	// MaxUploadSize 单个文件上传大小上限（字节），默认50MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// AllowedTypes 允许上传的MIME类型前缀，默认只接受图片和视频
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别 (debug, info, warn, error)
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// Load 加载应用程序配置
// 查找顺序: ./config.yaml -> ./config目录 -> 环境变量(ALBUM_前缀) -> 默认值
// 返回值:
//   - *Config: 配置实例
//   - error: 加载错误
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// 环境变量覆盖，如 ALBUM_SERVER_PORT=9090
	v.SetEnvPrefix("ALBUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值，其他错误直接返回
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.https_port", 8443)
	v.SetDefault("server.enable_http2", true)
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 60)

	// 数据库默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/album.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	// 存储默认配置
	v.SetDefault("storage.storage_path", "data/uploads")
	v.SetDefault("storage.max_upload_size", 50*1024*1024)
	v.SetDefault("storage.allowed_types", []string{"image/", "video/"})

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/app.log")
}
