// @title Wedding Album API
// @version 1.0
// @description 婚礼相册媒体分享服务

// @host localhost:8080
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/net/http2"

	"github.com/weiwangfds/weddingalbum/config"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/logger"
	"github.com/weiwangfds/weddingalbum/internal/middleware"
	"github.com/weiwangfds/weddingalbum/internal/router"
	"github.com/weiwangfds/weddingalbum/internal/storage"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化本地媒体存储
	blobs, err := storage.NewBlobStore(cfg.Storage.StoragePath)
	if err != nil {
		logger.Fatalf("Failed to initialize blob store: %v", err)
	}

	// 初始化中间件和路由
	loggerMiddleware := middleware.NewLoggerMiddleware()
	r := router.NewRouter(loggerMiddleware, db, blobs, cfg)

	// 创建HTTP服务器
	httpSrv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      r.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("HTTP服务器启动在端口 %d", cfg.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP服务器启动失败: %v", err)
		}
	}()

	// 可选的HTTPS服务器，支持HTTP/2
	var httpsSrv *http.Server
	if cfg.Server.EnableHTTPS {
		httpsSrv = &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.HTTPSPort),
			Handler:      r.GetEngine(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			TLSConfig: &tls.Config{
				NextProtos: []string{"h2", "http/1.1"},
			},
		}

		if cfg.Server.EnableHTTP2 {
			if err := http2.ConfigureServer(httpsSrv, &http2.Server{}); err != nil {
				logger.Fatalf("配置HTTP/2失败: %v", err)
			}
		}

		go func() {
			logger.Infof("HTTPS服务器启动在端口 %d (HTTP/2: %v)", cfg.Server.HTTPSPort, cfg.Server.EnableHTTP2)
			if err := httpsSrv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("HTTPS服务器启动失败: %v", err)
			}
		}()
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP服务器强制关闭: %v", err)
	}
	if httpsSrv != nil {
		if err := httpsSrv.Shutdown(ctx); err != nil {
			logger.Errorf("HTTPS服务器强制关闭: %v", err)
		}
	}

	logger.Info("服务器已退出")
}
