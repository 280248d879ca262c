// Package user 用户服务的单元测试
package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/weddingalbum/internal/database"
	"github.com/weiwangfds/weddingalbum/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupUserService 创建基于内存数据库的用户服务
func setupUserService(t *testing.T) UserService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&database.User{}))
	return NewUserService(db)
}

// TestCreateUser 测试用户创建
func TestCreateUser(t *testing.T) {
	svc := setupUserService(t)

	t.Run("创建用户成功", func(t *testing.T) {
		created, err := svc.CreateUser("bride", "secret")
		require.NoError(t, err)
		assert.Equal(t, "bride", created.Username)
		assert.NotZero(t, created.ID)
	})

	t.Run("用户名重复返回已存在", func(t *testing.T) {
		_, err := svc.CreateUser("groom", "")
		require.NoError(t, err)

		_, err = svc.CreateUser("groom", "")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUserAlreadyExists))
	})

	t.Run("空用户名返回参数错误", func(t *testing.T) {
		_, err := svc.CreateUser("", "")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidParams))
	})
}

// TestGetUser 测试用户查询
func TestGetUser(t *testing.T) {
	svc := setupUserService(t)

	created, err := svc.CreateUser("guest", "")
	require.NoError(t, err)

	t.Run("按ID查询", func(t *testing.T) {
		found, err := svc.GetUserByID(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "guest", found.Username)
	})

	t.Run("按用户名查询", func(t *testing.T) {
		found, err := svc.GetUserByUsername("guest")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("未知ID返回未找到", func(t *testing.T) {
		_, err := svc.GetUserByID(9999)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrUserNotFound))
	})
}

// TestDeleteUser 测试用户删除
func TestDeleteUser(t *testing.T) {
	svc := setupUserService(t)

	created, err := svc.CreateUser("temp", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(created.ID))

	_, err = svc.GetUserByID(created.ID)
	assert.True(t, errors.IsCode(err, errors.ErrUserNotFound))

	err = svc.DeleteUser(created.ID)
	assert.True(t, errors.IsCode(err, errors.ErrUserNotFound))
}
