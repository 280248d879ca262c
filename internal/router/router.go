// Package router 路由配置
// 组装服务、处理器和中间件，定义全部HTTP路由
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/weddingalbum/config"
	"github.com/weiwangfds/weddingalbum/internal/handler"
	"github.com/weiwangfds/weddingalbum/internal/middleware"
	"github.com/weiwangfds/weddingalbum/internal/service/media"
	"github.com/weiwangfds/weddingalbum/internal/service/mirror"
	"github.com/weiwangfds/weddingalbum/internal/service/user"
	"github.com/weiwangfds/weddingalbum/internal/storage"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, blobs *storage.BlobStore, cfg *config.Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化服务
	mediaService := media.NewMediaService(db, blobs, cfg.Storage)
	mirrorConfigService := mirror.NewConfigService(db)
	mirrorService := mirror.NewMirrorService(db, blobs, mirrorConfigService)
	userService := user.NewUserService(db)

	// 初始化处理器
	mediaHandler := handler.NewMediaHandler(mediaService, mirrorService, cfg.Storage)
	mirrorHandler := handler.NewMirrorHandler(mirrorConfigService, mirrorService)
	userHandler := handler.NewUserHandler(userService)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// API路由组
	api := engine.Group("/api")
	{
		// 基础信息接口
		api.GET("/info", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"service": "Wedding Album",
				"version": "1.0.0",
				"status":  "running",
			})
		})

		// 数据库状态检查
		api.GET("/db/status", func(c *gin.Context) {
			sqlDB, err := db.DB()
			if err != nil {
				c.JSON(500, gin.H{
					"error": "Database connection error",
				})
				return
			}

			if err := sqlDB.Ping(); err != nil {
				c.JSON(500, gin.H{
					"error": "Database ping failed",
				})
				return
			}

			c.JSON(200, gin.H{
				"status": "Database connection OK",
			})
		})

		// 媒体管理接口
		mediaGroup := api.Group("/media")
		{
			mediaGroup.POST("/upload", mediaHandler.UploadMedia)
			mediaGroup.GET("", mediaHandler.ListMedia)
			mediaGroup.GET("/stats", mediaHandler.GetMediaStats)
			mediaGroup.GET("/:id", mediaHandler.GetMedia)
			mediaGroup.GET("/:id/info", mediaHandler.GetMediaInfo)
			mediaGroup.GET("/:id/download", mediaHandler.DownloadMedia)
			mediaGroup.GET("/:id/thumbnail", mediaHandler.GetThumbnail)
			mediaGroup.DELETE("/:id", mediaHandler.DeleteMedia)
		}

		// 镜像管理接口
		mirrorGroup := api.Group("/mirror")
		{
			// 镜像配置CRUD
			mirrorGroup.POST("/configs", mirrorHandler.CreateConfig)
			mirrorGroup.GET("/configs", mirrorHandler.ListConfigs)
			mirrorGroup.GET("/configs/:id", mirrorHandler.GetConfig)
			mirrorGroup.PUT("/configs/:id", mirrorHandler.UpdateConfig)
			mirrorGroup.DELETE("/configs/:id", mirrorHandler.DeleteConfig)

			// 镜像配置管理
			mirrorGroup.POST("/configs/:id/activate", mirrorHandler.ActivateConfig)
			mirrorGroup.POST("/configs/:id/test", mirrorHandler.TestConfig)
			mirrorGroup.POST("/configs/:id/toggle", mirrorHandler.ToggleConfig)

			// 镜像同步状态
			mirrorGroup.GET("/logs", mirrorHandler.ListLogs)
			mirrorGroup.GET("/media/:id/status", mirrorHandler.GetMediaMirrorStatus)
		}

		// 用户管理接口
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}
