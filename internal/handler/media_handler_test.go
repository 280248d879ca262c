// Package handler 媒体处理器的HTTP层测试
package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/weddingalbum/config"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/service/media"
	"github.com/weiwangfds/weddingalbum/internal/service/mirror"
	"github.com/weiwangfds/weddingalbum/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMediaRouter 创建带媒体路由的测试引擎
func setupMediaRouter(t *testing.T) (*gin.Engine, media.MediaService) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.MediaFile{},
		&database.MirrorConfig{},
		&database.MirrorLog{},
	))

	blobs, err := storage.NewBlobStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.StorageConfig{
		StoragePath:   blobs.Dir(),
		MaxUploadSize: 1024,
		AllowedTypes:  []string{"image/", "video/"},
	}

	mediaService := media.NewMediaService(db, blobs, cfg)
	mirrorConfigService := mirror.NewConfigService(db)
	mirrorService := mirror.NewMirrorService(db, blobs, mirrorConfigService)
	h := NewMediaHandler(mediaService, mirrorService, cfg)

	engine := gin.New()
	group := engine.Group("/api/media")
	{
		group.POST("/upload", h.UploadMedia)
		group.GET("", h.ListMedia)
		group.GET("/stats", h.GetMediaStats)
		group.GET("/:id", h.GetMedia)
		group.GET("/:id/info", h.GetMediaInfo)
		group.GET("/:id/download", h.DownloadMedia)
		group.GET("/:id/thumbnail", h.GetThumbnail)
		group.DELETE("/:id", h.DeleteMedia)
	}

	return engine, mediaService
}

// addFilePart 向multipart表单追加一个带指定MIME类型的文件
func addFilePart(t *testing.T, w *multipart.Writer, field, fileName, contentType string, content []byte) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, fileName))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
}

// uploadMedia 执行一次上传请求并解析响应体
func uploadMedia(t *testing.T, engine *gin.Engine, build func(w *multipart.Writer)) *httptest.ResponseRecorder {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	build(w)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// TestUploadMedia 测试批量上传接口
func TestUploadMedia(t *testing.T) {
	engine, _ := setupMediaRouter(t)

	t.Run("无文件返回400", func(t *testing.T) {
		rec := uploadMedia(t, engine, func(w *multipart.Writer) {
			require.NoError(t, w.WriteField("note", "no files here"))
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("混合批次返回201和逐文件结果", func(t *testing.T) {
		rec := uploadMedia(t, engine, func(w *multipart.Writer) {
			addFilePart(t, w, "media", "a.jpg", "image/jpeg", []byte("jpeg-a"))
			addFilePart(t, w, "media", "b.mp4", "video/mp4", []byte("mp4-b"))
			addFilePart(t, w, "media", "notes.txt", "text/plain", []byte("dropped"))
			addFilePart(t, w, "media", "big.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 2048))
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Code int `json:"code"`
			Data struct {
				Total   int `json:"total"`
				Results []struct {
					FileName string `json:"file_name"`
					Success  bool   `json:"success"`
					Error    string `json:"error"`
				} `json:"results"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		// 文本文件被静默丢弃，不出现在结果中
		require.Equal(t, 3, resp.Data.Total)

		byName := map[string]bool{}
		for _, r := range resp.Data.Results {
			byName[r.FileName] = r.Success
		}
		assert.True(t, byName["a.jpg"])
		assert.True(t, byName["b.mp4"])
		assert.False(t, byName["big.jpg"])
		assert.NotContains(t, byName, "notes.txt")
	})

	t.Run("非法metadata返回400", func(t *testing.T) {
		rec := uploadMedia(t, engine, func(w *multipart.Writer) {
			require.NoError(t, w.WriteField("metadata", "{not-json"))
			addFilePart(t, w, "media", "c.jpg", "image/jpeg", []byte("c"))
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// TestGetMedia 测试媒体内容获取接口
func TestGetMedia(t *testing.T) {
	engine, svc := setupMediaRouter(t)

	content := []byte("raw jpeg bytes")
	record, err := svc.CreateMedia("photo.jpg", "image/jpeg", int64(len(content)), nil, bytes.NewReader(content))
	require.NoError(t, err)

	t.Run("返回原始字节和登记的类型", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/media/%d", record.ID), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
		assert.Equal(t, content, rec.Body.Bytes())
	})

	t.Run("非数字ID返回400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("未知ID返回404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media/9999", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestDownloadMedia 测试媒体下载接口
func TestDownloadMedia(t *testing.T) {
	engine, svc := setupMediaRouter(t)

	record, err := svc.CreateMedia("our wedding.jpg", "image/jpeg", 4, nil, bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/media/%d/download", record.ID), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="our wedding.jpg"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("data"), rec.Body.Bytes())
}

// TestGetThumbnail 测试缩略图接口
func TestGetThumbnail(t *testing.T) {
	engine, svc := setupMediaRouter(t)

	t.Run("图片缩略图回传原图", func(t *testing.T) {
		content := []byte("png bytes")
		record, err := svc.CreateMedia("pic.png", "image/png", int64(len(content)), nil, bytes.NewReader(content))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/media/%d/thumbnail", record.ID), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, content, rec.Body.Bytes())
	})

	t.Run("视频缩略图返回SVG占位图", func(t *testing.T) {
		record, err := svc.CreateMedia("dance.mp4", "video/mp4", 3, nil, bytes.NewReader([]byte("mp4")))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/media/%d/thumbnail", record.ID), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, media.ThumbnailContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "dance.mp4")
	})
}

// TestDeleteMediaEndpoint 测试媒体删除接口
func TestDeleteMediaEndpoint(t *testing.T) {
	engine, svc := setupMediaRouter(t)

	record, err := svc.CreateMedia("gone.jpg", "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	t.Run("删除成功", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/media/%d", record.ID), nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("重复删除返回404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/media/%d", record.ID), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestListMedia 测试媒体列表接口
func TestListMedia(t *testing.T) {
	engine, svc := setupMediaRouter(t)

	t.Run("空相册返回空列表", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Total int `json:"total"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Zero(t, resp.Data.Total)
	})

	t.Run("列表按上传顺序返回", func(t *testing.T) {
		for _, name := range []string{"1.jpg", "2.jpg", "3.jpg"} {
			_, err := svc.CreateMedia(name, "image/jpeg", 1, nil, bytes.NewReader([]byte("x")))
			require.NoError(t, err)
		}

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/media", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				Total int `json:"total"`
				Items []struct {
					ID       uint   `json:"id"`
					FileName string `json:"file_name"`
				} `json:"items"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, 3, resp.Data.Total)
		assert.Equal(t, "1.jpg", resp.Data.Items[0].FileName)
		assert.Equal(t, "3.jpg", resp.Data.Items[2].FileName)
	})
}
