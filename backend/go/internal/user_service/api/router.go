package api

import "github.com/gin-gonic/gin"

// SetupRouter 配置和返回一个 Gin 引擎实例。
func SetupRouter(h *Handler, jwtSecret string) *gin.Engine {
	// 使用默认中间件 (logger, recovery) 创建一个 Gin 引擎。
	r := gin.Default()

	authMiddleware := AuthMiddleware(jwtSecret)

	// 使用 v1 版本对 API 进行分组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证路由组
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", h.RegisterEmail)
			auth.POST("/login", h.LoginEmail)
			auth.POST("/google/login", h.HandleGoogleLogin)
		}

		// 账户路由组，使用认证中间件保护
		account := apiV1.Group("/account")
		account.Use(authMiddleware)
		{
			account.GET("/me", h.GetMe)
			account.POST("/logout", h.Logout)
		}
	}

	return r
}
