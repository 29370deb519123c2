// Package handlers exposes shopper pages over HTTP.
package handlers

import (
	"net/http"

	"storefront-server/storefront"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	pages    *storefront.Registry
	sessions *Sessions
	logger   *zap.Logger
}

func New(pages *storefront.Registry, sessions *Sessions, logger *zap.Logger) *Handlers {
	return &Handlers{pages: pages, sessions: sessions, logger: logger}
}

// RegisterRoutes mounts every route on router.
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"sessions": h.pages.Len(),
		})
	})

	router.GET("/", h.sessions.Middleware(), h.RenderPage)

	api := router.Group("/api/v1")
	api.Use(h.sessions.Middleware())
	{
		cart := api.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.POST("/add", h.AddToCart)
			cart.PUT("/items/:index", h.UpdateCartItem)
			cart.DELETE("/clear", h.ClearCart)
			cart.POST("/checkout", h.Checkout)
		}

		page := api.Group("/page")
		{
			page.POST("/click/:node", h.ClickNode)
			page.GET("/modal", h.OpenModal)
			page.DELETE("/modal", h.CloseModal)
		}
	}
}

func (h *Handlers) page(c *gin.Context) *storefront.Page {
	return h.pages.Get(c.Request.Context(), sessionID(c))
}
