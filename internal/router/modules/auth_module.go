package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/pinit-down/internal/interface/http"
	"github.com/oksasatya/pinit-down/internal/interface/middleware"
)

// AuthModule serves /auth. Public endpoints are rate limited per IP and path.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    gin.HandlerFunc
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, gate gin.HandlerFunc, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	limit := func(max int) gin.HandlerFunc {
		return middleware.RateLimit(m.Redis, max, time.Minute, middleware.KeyByIPAndPath(), nil)
	}

	auth := rg.Group("/auth")
	auth.POST("/register", limit(10), m.Handler.Register)
	auth.POST("/login", limit(10), m.Handler.Login)
	auth.POST("/verify-email", limit(30), m.Handler.VerifyEmail)
	auth.POST("/resend-verification", limit(5), m.Handler.ResendVerification)
	auth.POST("/forgot-password", limit(5), m.Handler.ForgotPassword)
	auth.POST("/verify-reset-token", limit(30), m.Handler.VerifyResetToken)
	auth.POST("/reset-password", limit(30), m.Handler.ResetPassword)

	auth.GET("/me", m.Gate, m.Handler.Me)
}
