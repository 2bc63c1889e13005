package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pinit-down/internal/application"
	"github.com/oksasatya/pinit-down/internal/interface/middleware"
	"github.com/oksasatya/pinit-down/pkg/response"
)

// CartHandler serves /cart-items for the authenticated caller.
type CartHandler struct {
	Svc    *application.CartService
	Logger *logrus.Logger
}

func NewCartHandler(svc *application.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

type deleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

func (h *CartHandler) List(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

func (h *CartHandler) Create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		badPayload(c, err)
		return
	}
	doc, err := h.Svc.Create(c.Request.Context(), middleware.CurrentUserID(c), body)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, doc)
}

func (h *CartHandler) Update(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		badPayload(c, err)
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), body)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

func (h *CartHandler) Delete(c *gin.Context) {
	n, err := h.Svc.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, deleteResponse{DeletedCount: n})
}

func (h *CartHandler) DeleteAll(c *gin.Context) {
	n, err := h.Svc.DeleteAll(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, deleteResponse{DeletedCount: n})
}

// Search runs a full-text query over the caller's items: GET /cart-items/search?q=milk&size=20
func (h *CartHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	items, err := h.Svc.Search(c.Request.Context(), middleware.CurrentUserID(c), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}
