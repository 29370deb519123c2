package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"storefront-server/ui"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const htmlContentType = "text/html; charset=utf-8"

func (h *Handlers) RenderPage(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.page(c).Render(&buf); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render page"})
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

// ClickNode dispatches a click on a rendered element, identified by its
// data-node attribute, and returns the resulting cart.
func (h *Handlers) ClickNode(c *gin.Context) {
	page := h.page(c)
	if err := page.Click(c.Request.Context(), c.Param("node")); err != nil {
		if errors.Is(err, ui.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Element not found"})
			return
		}
		h.logger.Error("click dispatch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch click"})
		return
	}
	c.JSON(http.StatusOK, cartResponse(page.Summary()))
}

func (h *Handlers) OpenModal(c *gin.Context) {
	page := h.page(c)
	page.OpenModal()

	var buf bytes.Buffer
	open, err := page.RenderModal(&buf)
	if err != nil {
		h.logger.Error("failed to render cart modal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render cart"})
		return
	}
	if !open {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart modal closed"})
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (h *Handlers) CloseModal(c *gin.Context) {
	page := h.page(c)
	page.CloseModal()
	c.JSON(http.StatusOK, cartResponse(page.Summary()))
}
