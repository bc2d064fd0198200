package api

import (
	"StartupCopilot/backend/go/internal/user_service/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有 API endpoint 的处理函数。
type Handler struct {
	service *service.Service
}

// NewHandler 创建一个新的 Handler 实例。
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// --- Registration and Login Handlers ---

// RegisterEmailRequest 定义了邮箱注册请求的 JSON 结构。
type RegisterEmailRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

// RegisterEmail 处理邮箱注册请求。
func (h *Handler) RegisterEmail(c *gin.Context) {
	var req RegisterEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, token, err := h.service.RegisterByEmail(req.Email, req.Password, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"uid": account.UID, "token": token})
}

// LoginEmailRequest 定义了邮箱登录请求的 JSON 结构。
type LoginEmailRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginEmail 处理邮箱登录请求。
func (h *Handler) LoginEmail(c *gin.Context) {
	var req LoginEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.LoginByEmail(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GoogleLoginRequest 定义了 Google 登录请求的 JSON 结构。
// 注意：这是一个简化的实现。在生产环境中，后端应该接收来自前端的 id_token，
// 然后在后端验证这个 token 的有效性，而不是直接信任前端发来的用户信息。
type GoogleLoginRequest struct {
	ProviderID  string `json:"provider_id" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// HandleGoogleLogin 处理 Google OAuth 登录回调。
func (h *Handler) HandleGoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.HandleGoogleLogin(req.ProviderID, req.Email, req.DisplayName, req.AvatarURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// --- Account Handlers ---

// GetMe 返回当前登录账户的公开信息。
func (h *Handler) GetMe(c *gin.Context) {
	uid := c.GetString("uid")
	account, err := h.service.GetAccount(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "账户不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uid":         account.UID,
		"email":       account.Email,
		"displayName": account.DisplayName,
		"avatarUrl":   account.AvatarURL,
		"provider":    account.Provider,
		"status":      account.Status,
		"lastLoginAt": account.LastLoginAt,
	})
}

// Logout 结束当前会话。
func (h *Handler) Logout(c *gin.Context) {
	h.service.Logout(c.GetString("uid"))
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}
