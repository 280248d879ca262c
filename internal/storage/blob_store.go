// Package storage 提供本地文件系统的二进制内容存储
// 以不透明的字符串键存取文件字节，键的派生由调用方负责
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/weiwangfds/weddingalbum/internal/logger"
)

// BlobStore 文件系统二进制存储
// 所有内容平铺存放在一个目录下，目录在创建实例时自动建立
// 每次操作打开并关闭文件，不持有长期文件句柄
type BlobStore struct {
	dir string
}

// NewBlobStore 创建二进制存储实例
// 参数:
//   - dir: 存储目录，不存在时自动创建
// 返回值:
//   - *BlobStore: 存储实例
//   - error: 目录创建失败时的错误
func NewBlobStore(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	logger.Infof("媒体存储目录就绪: %s", dir)
	return &BlobStore{dir: dir}, nil
}

// Dir 返回存储目录
func (s *BlobStore) Dir() string {
	return s.dir
}

// Write 将内容写入指定键
// 先写入同目录下的临时文件，成功后重命名到最终位置，避免留下半写入的文件
// 返回写入的字节数
func (s *BlobStore) Write(key string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(s.dir, ".upload_*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write blob %s: %w", key, err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to move blob %s into place: %w", key, err)
	}

	return n, nil
}

// Open 打开指定键的内容用于流式读取
// 键不存在时返回os.ErrNotExist语义的错误
func (s *BlobStore) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Read 读取指定键的全部内容
func (s *BlobStore) Read(key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Delete 删除指定键的内容
// 键不存在时视为删除成功
func (s *BlobStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Exists 检查指定键的内容是否存在
func (s *BlobStore) Exists(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// path 拼接键对应的磁盘路径
// 键中的路径分隔符已由SafeBaseName在派生阶段剔除，这里只做平铺拼接
func (s *BlobStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

// SafeBaseName 将客户端提供的文件名净化为可安全用于存储键的形式
// 去除路径部分，替换路径分隔符和空字节，拒绝目录穿越
// 净化后为空时回退为"file"
func SafeBaseName(name string) string {
	// 同时处理两种分隔符，客户端平台未知
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\x00", "")

	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}
