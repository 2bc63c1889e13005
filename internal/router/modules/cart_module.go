package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/pinit-down/internal/interface/http"
	"github.com/oksasatya/pinit-down/internal/interface/middleware"
)

// CartModule serves /cart-items; every route requires a valid access token.
type CartModule struct {
	Handler *handlers.CartHandler
	Gate    gin.HandlerFunc
	Redis   *redis.Client
}

func NewCartModule(h *handlers.CartHandler, gate gin.HandlerFunc, rdb *redis.Client) *CartModule {
	return &CartModule{Handler: h, Gate: gate, Redis: rdb}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	items := rg.Group("/cart-items")
	items.Use(m.Gate)
	items.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		items.GET("", m.Handler.List)
		items.POST("", m.Handler.Create)
		items.DELETE("", m.Handler.DeleteAll)
		items.GET("/search", m.Handler.Search)
		items.PATCH("/:id", m.Handler.Update)
		items.DELETE("/:id", m.Handler.Delete)
	}
}
