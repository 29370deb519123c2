package ui

import (
	"context"
	"fmt"
	"strconv"

	"storefront-server/models"
	"storefront-server/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	ModalClass        = "cart-modal"
	ModalContentClass = "cart-content"

	EmptyCartMessage = "Your cart is empty"
)

// CartView is the read side of the cart the modal renders.
type CartView interface {
	Items() []models.LineItem
	TotalAmount() decimal.Decimal
}

// ImageResolver maps a stored image reference to the URL shown in the
// modal thumbnail.
type ImageResolver interface {
	Thumbnail(ref string) string
}

// ModalActions are the cart operations the modal's controls call back into.
type ModalActions struct {
	SetQuantity func(ctx context.Context, index, quantity int)
	Checkout    func(ctx context.Context)
}

// Modal is the full-screen cart overlay. At most one overlay exists at a
// time; opening while open replaces the current overlay.
type Modal struct {
	doc     *Document
	view    CartView
	actions ModalActions
	images  ImageResolver
	overlay *html.Node
	logger  *zap.Logger
}

func NewModal(doc *Document, view CartView, actions ModalActions, images ImageResolver, logger *zap.Logger) *Modal {
	return &Modal{doc: doc, view: view, actions: actions, images: images, logger: logger}
}

func (m *Modal) IsOpen() bool {
	return m.overlay != nil && m.doc.Attached(m.overlay)
}

// Overlay returns the open overlay element, or nil.
func (m *Modal) Overlay() *html.Node {
	if !m.IsOpen() {
		return nil
	}
	return m.overlay
}

// Open renders the overlay from the current cart contents.
func (m *Modal) Open() {
	if m.IsOpen() {
		m.Close()
	}

	overlay := m.doc.CreateElement("div", Class(ModalClass), Attr("role", "dialog"), Attr("aria-modal", "true"))
	content := m.doc.CreateElement("div", Class(ModalContentClass))

	closeButton := m.doc.CreateElement("button", Class("cart-close"), Attr("type", "button"), Attr("aria-label", "Close"))
	m.doc.SetText(closeButton, "×")
	m.doc.AddEventListener(closeButton, "click", func(context.Context, *Event) { m.Close() })

	title := m.doc.CreateElement("h2", Class("cart-title"))
	m.doc.SetText(title, "Your Shopping Cart")

	list := m.doc.CreateElement("div", Class("cart-items"))
	items := m.view.Items()
	if len(items) == 0 {
		empty := m.doc.CreateElement("p", Class("cart-empty"))
		m.doc.SetText(empty, EmptyCartMessage)
		m.doc.AppendChild(list, empty)
	} else {
		for i, item := range items {
			m.doc.AppendChild(list, m.itemRow(i, item))
		}
		m.doc.AppendChild(list, m.footer())
	}

	m.doc.AppendChild(content, closeButton)
	m.doc.AppendChild(content, title)
	m.doc.AppendChild(content, list)
	m.doc.AppendChild(overlay, content)
	m.doc.AppendChild(m.doc.Body(), overlay)

	// background clicks close; clicks bubbling up from the panel do not
	m.doc.AddEventListener(overlay, "click", func(_ context.Context, e *Event) {
		if e.Target == overlay {
			m.Close()
		}
	})

	m.overlay = overlay
	m.logger.Debug("cart modal opened", zap.Int("items", len(items)))
}

// Close removes the overlay if one is open.
func (m *Modal) Close() {
	if m.overlay == nil {
		return
	}
	m.doc.Remove(m.overlay)
	m.overlay = nil
}

// Rebuild re-renders an open overlay; it does nothing when closed.
func (m *Modal) Rebuild() {
	if m.IsOpen() {
		m.Open()
	}
}

func (m *Modal) itemRow(index int, item models.LineItem) *html.Node {
	row := m.doc.CreateElement("div", Class("cart-item"), Attr("data-index", strconv.Itoa(index)))

	src := item.ImageRef
	if m.images != nil {
		src = m.images.Thumbnail(src)
	}
	img := m.doc.CreateElement("img", Class("cart-item-image"), Attr("src", src), Attr("alt", item.Name))

	info := m.doc.CreateElement("div", Class("cart-item-info"))
	name := m.doc.CreateElement("h4", Class("cart-item-name"))
	m.doc.SetText(name, item.Name)
	unit := m.doc.CreateElement("p", Class("cart-item-price"))
	m.doc.SetText(unit, fmt.Sprintf("%s × %d", utils.FormatPrice(item.UnitPrice), item.Quantity))
	m.doc.AppendChild(info, name)
	m.doc.AppendChild(info, unit)

	actions := m.doc.CreateElement("div", Class("cart-item-actions"))
	subtotal := m.doc.CreateElement("p", Class("cart-item-subtotal"))
	m.doc.SetText(subtotal, utils.FormatPrice(item.Subtotal()))

	controls := m.doc.CreateElement("div", Class("cart-item-controls"))
	decrement := m.quantityButton("cart-decrement", "-", index, item.Quantity-1)
	quantity := m.doc.CreateElement("span", Class("cart-quantity"))
	m.doc.SetText(quantity, strconv.Itoa(item.Quantity))
	increment := m.quantityButton("cart-increment", "+", index, item.Quantity+1)
	m.doc.AppendChild(controls, decrement)
	m.doc.AppendChild(controls, quantity)
	m.doc.AppendChild(controls, increment)

	m.doc.AppendChild(actions, subtotal)
	m.doc.AppendChild(actions, controls)

	m.doc.AppendChild(row, img)
	m.doc.AppendChild(row, info)
	m.doc.AppendChild(row, actions)
	return row
}

func (m *Modal) quantityButton(class, label string, index, quantity int) *html.Node {
	button := m.doc.CreateElement("button", Class(class), Attr("type", "button"))
	m.doc.SetText(button, label)
	m.doc.AddEventListener(button, "click", func(ctx context.Context, _ *Event) {
		m.actions.SetQuantity(ctx, index, quantity)
	})
	return button
}

func (m *Modal) footer() *html.Node {
	footer := m.doc.CreateElement("div", Class("cart-total"))

	line := m.doc.CreateElement("div", Class("cart-total-line"))
	label := m.doc.CreateElement("span")
	m.doc.SetText(label, "Total:")
	amount := m.doc.CreateElement("span", Class("cart-total-amount"))
	m.doc.SetText(amount, utils.FormatPrice(m.view.TotalAmount()))
	m.doc.AppendChild(line, label)
	m.doc.AppendChild(line, amount)

	checkout := m.doc.CreateElement("button", Class("cart-checkout"), Attr("type", "button"))
	m.doc.SetText(checkout, "Proceed to Checkout")
	m.doc.AddEventListener(checkout, "click", func(ctx context.Context, _ *Event) {
		m.actions.Checkout(ctx)
	})

	m.doc.AppendChild(footer, line)
	m.doc.AppendChild(footer, checkout)
	return footer
}
