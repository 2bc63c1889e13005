package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pinit-down/internal/container"
	handlers "github.com/oksasatya/pinit-down/internal/interface/http"
	"github.com/oksasatya/pinit-down/internal/interface/middleware"
	"github.com/oksasatya/pinit-down/internal/router/modules"
	"github.com/oksasatya/pinit-down/pkg/response"
)

// InitModules builds the handlers from c and registers every module.
func InitModules(r *Registry, c *container.Container) {
	gate := middleware.Auth(c.JWT, c.Users, c.Logger)

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.StorePing, c.Logger)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.AuthService, c.Logger), gate, c.Redis))
	r.Add(modules.NewCartModule(handlers.NewCartHandler(c.CartService, c.Logger), gate, c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}

// NewEngine returns the gin engine with global middleware and all routes.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.NoRoute(func(ctx *gin.Context) {
		response.Error(ctx, http.StatusNotFound, "Not found")
	})

	reg := NewRegistry(r)
	reg.Use(middleware.RealIP(cfg.TrustProxyHeaders))
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsConfig allows every origin when none are configured. Credentials are
// only allowed with an explicit list.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
