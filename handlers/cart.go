package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-server/cart"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AddToCartRequest struct {
	Name  string           `json:"name" binding:"required"`
	Price *decimal.Decimal `json:"price" binding:"required"`
	Image string           `json:"image"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.page(c).Summary()))
}

func (h *Handlers) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	page := h.page(c)
	if err := page.AddItem(c.Request.Context(), req.Name, *req.Price, req.Image); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(page.Summary()))
}

func (h *Handlers) UpdateCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	page := h.page(c)
	if err := page.SetQuantity(c.Request.Context(), index, *req.Quantity); err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(page.Summary()))
}

func (h *Handlers) ClearCart(c *gin.Context) {
	page := h.page(c)
	page.Clear(c.Request.Context())
	c.JSON(http.StatusOK, cartResponse(page.Summary()))
}

func (h *Handlers) Checkout(c *gin.Context) {
	page := h.page(c)
	page.Checkout(c.Request.Context())
	c.JSON(http.StatusOK, cartResponse(page.Summary()))
}

func (h *Handlers) cartError(c *gin.Context, err error) {
	var indexErr *cart.IndexError
	switch {
	case errors.As(err, &indexErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart item not found",
			"index": indexErr.Index,
			"size":  indexErr.Len,
		})
	case errors.Is(err, cart.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("cart operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}
