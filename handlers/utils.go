package handlers

import (
	"storefront-server/storefront"

	"github.com/gin-gonic/gin"
)

// cartResponse renders a page summary as the JSON cart body.
func cartResponse(s storefront.Summary) gin.H {
	items := make([]gin.H, 0, len(s.Items))
	for i, item := range s.Items {
		items = append(items, gin.H{
			"index":    i,
			"name":     item.Name,
			"price":    item.UnitPrice.StringFixed(2),
			"image":    item.ImageRef,
			"quantity": item.Quantity,
			"subtotal": item.Subtotal().StringFixed(2),
		})
	}

	notices := s.Notices
	if notices == nil {
		notices = []string{}
	}

	return gin.H{
		"items":        items,
		"total_items":  s.TotalItems,
		"total_amount": s.TotalAmount.StringFixed(2),
		"modal_open":   s.ModalOpen,
		"notices":      notices,
	}
}
