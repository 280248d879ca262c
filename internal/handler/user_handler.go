package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/weddingalbum/internal/response"
	"github.com/weiwangfds/weddingalbum/internal/service/user"
)

// UserHandler 访客账号相关的HTTP处理器
type UserHandler struct {
	userService user.UserService
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userService user.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// createUserRequest 创建用户请求体
type createUserRequest struct {
	Username string `json:"username" binding:"required"` // 用户名，全局唯一
	Password string `json:"password"`                    // 密码，可选
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags 用户管理
// @Accept json
// @Produce json
// @Param user body createUserRequest true "用户信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	created, err := h.userService.CreateUser(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "user created", created)
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 用户管理
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, users)
}

// GetUser 获取用户详情
// @Summary 获取用户详情
// @Tags 用户管理
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.userService.GetUserByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, found)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags 用户管理
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(id); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "user deleted", gin.H{"id": id})
}
