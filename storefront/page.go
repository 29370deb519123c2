// Package storefront boots one shopper's page: it owns the cart, builds the
// page skeleton with its product cards, and wires the badge, notification
// and modal presenters to cart changes.
package storefront

import (
	"context"
	"fmt"
	"io"
	"time"

	"storefront-server/cart"
	"storefront-server/models"
	"storefront-server/storage"
	"storefront-server/ui"
	"storefront-server/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	EmptyCartNotice      = "Your cart is empty!"
	OrderConfirmedNotice = "Thank you for your order!"

	CartTriggerClass = "cart-count"
	ProductCardClass = "product-card"
	AddToCartClass   = "add-to-cart"
)

type Options struct {
	// Storage holds this page's slots; scope it per shopper.
	Storage storage.Storage
	Catalog []models.Product
	Images  ui.ImageResolver
	// Scheduler drives notification timers. Nil uses wall-clock timers on
	// the page loop.
	Scheduler            ui.Scheduler
	NotificationDuration time.Duration
	Title                string
	Logger               *zap.Logger
}

// Page is the composition root for one shopper. Exported methods are entry
// points: each runs on the page loop and completes before the next starts.
type Page struct {
	loop     *ui.Loop
	doc      *ui.Document
	cart     *cart.Cart
	badge    *ui.Badge
	notifier *ui.Notifier
	modal    *ui.Modal
	notices  []string
	logger   *zap.Logger
}

// Summary is a point-in-time view of the page state.
type Summary struct {
	Items       []models.LineItem
	TotalItems  int
	TotalAmount decimal.Decimal
	ModalOpen   bool
	Notices     []string
}

// Boot hydrates the cart from opts.Storage and renders the page.
func Boot(ctx context.Context, opts Options) *Page {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	title := opts.Title
	if title == "" {
		title = "Storefront"
	}

	p := &Page{
		loop:   &ui.Loop{},
		doc:    ui.NewDocument(title),
		logger: logger,
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = ui.NewTimerScheduler(p.loop)
	}

	p.loop.Do(func() {
		p.cart = cart.Hydrate(ctx, cart.NewStore(opts.Storage, logger), logger)
		p.badge = ui.NewBadge(p.doc, p.cart)
		p.notifier = ui.NewNotifier(p.doc, scheduler, opts.NotificationDuration)
		p.modal = ui.NewModal(p.doc, p.cart, ui.ModalActions{
			SetQuantity: func(ctx context.Context, index, quantity int) {
				if err := p.cart.SetQuantity(ctx, index, quantity); err != nil {
					p.logger.Error("quantity control out of sync with cart", zap.Error(err))
				}
			},
			Checkout: p.checkout,
		}, opts.Images, logger)

		p.cart.Subscribe(p)
		p.buildSkeleton(title, opts.Catalog)
		p.badge.Refresh()
	})
	return p
}

// CartChanged implements cart.Observer.
func (p *Page) CartChanged(_ context.Context, change cart.Change) {
	p.badge.Refresh()
	p.modal.Rebuild()
	if change.Kind == cart.ItemAdded {
		p.notifier.Show(fmt.Sprintf("%s added to cart!", change.Item.Name))
	}
}

func (p *Page) buildSkeleton(title string, catalog []models.Product) {
	style := p.doc.CreateElement("style")
	p.doc.SetText(style, stylesheet)
	p.doc.AppendChild(p.doc.Head(), style)

	header := p.doc.CreateElement("header", ui.Class("site-header"))
	brand := p.doc.CreateElement("a", ui.Class("brand"), ui.Attr("href", "/"))
	p.doc.SetText(brand, title)
	trigger := p.doc.CreateElement("span", ui.Class(CartTriggerClass), ui.Attr("role", "button"), ui.Attr("aria-label", "View cart"))
	p.doc.AppendChild(trigger, p.doc.TextNode("Cart "))
	p.doc.AppendChild(trigger, p.doc.CreateElement("span", ui.Class(ui.BadgeClass)))
	p.doc.AddEventListener(trigger, "click", func(context.Context, *ui.Event) { p.modal.Open() })
	p.doc.AppendChild(header, brand)
	p.doc.AppendChild(header, trigger)

	grid := p.doc.CreateElement("main", ui.Class("product-grid"))
	for _, product := range catalog {
		p.doc.AppendChild(grid, p.productCard(product))
	}

	p.doc.AppendChild(p.doc.Body(), header)
	p.doc.AppendChild(p.doc.Body(), grid)
}

func (p *Page) productCard(product models.Product) *html.Node {
	card := p.doc.CreateElement("div", ui.Class(ProductCardClass),
		ui.Attr("data-name", product.Name),
		ui.Attr("data-price", product.Price.String()),
		ui.Attr("data-image", product.Image))

	img := p.doc.CreateElement("img", ui.Attr("src", product.Image), ui.Attr("alt", product.Name), ui.Attr("loading", "lazy"))
	name := p.doc.CreateElement("h3")
	p.doc.SetText(name, product.Name)
	price := p.doc.CreateElement("p", ui.Class("price"))
	p.doc.SetText(price, utils.FormatPrice(product.Price))
	button := p.doc.CreateElement("button", ui.Class(AddToCartClass), ui.Attr("type", "button"))
	p.doc.SetText(button, "Add to Cart")
	p.doc.AddEventListener(card, "click", func(ctx context.Context, _ *ui.Event) {
		p.addFromCard(ctx, card)
	})

	p.doc.AppendChild(card, img)
	p.doc.AppendChild(card, name)
	if product.Description != "" {
		desc := p.doc.CreateElement("p", ui.Class("description"))
		p.doc.SetText(desc, product.Description)
		p.doc.AppendChild(card, desc)
	}
	p.doc.AppendChild(card, price)
	p.doc.AppendChild(card, button)
	return card
}

// addFromCard reads the product off the card's attributes, as a page
// script would.
func (p *Page) addFromCard(ctx context.Context, card *html.Node) {
	name := ui.GetAttr(card, "data-name")
	price, err := decimal.NewFromString(ui.GetAttr(card, "data-price"))
	if err != nil {
		p.logger.Error("product card has an invalid price", zap.String("name", name), zap.Error(err))
		return
	}
	if err := p.cart.AddItem(ctx, name, price, ui.GetAttr(card, "data-image")); err != nil {
		p.logger.Error("product card rejected", zap.String("name", name), zap.Error(err))
	}
}

func (p *Page) checkout(ctx context.Context) {
	if p.cart.IsEmpty() {
		p.alert(EmptyCartNotice)
		return
	}
	p.alert(OrderConfirmedNotice)
	p.cart.Clear(ctx)
	p.modal.Close()
	p.logger.Info("checkout completed")
}

// alert queues a blocking notice for the shopper.
func (p *Page) alert(message string) {
	p.notices = append(p.notices, message)
}

func (p *Page) AddItem(ctx context.Context, name string, unitPrice decimal.Decimal, imageRef string) (err error) {
	p.loop.Do(func() { err = p.cart.AddItem(ctx, name, unitPrice, imageRef) })
	return err
}

func (p *Page) SetQuantity(ctx context.Context, index, quantity int) (err error) {
	p.loop.Do(func() { err = p.cart.SetQuantity(ctx, index, quantity) })
	return err
}

func (p *Page) Clear(ctx context.Context) {
	p.loop.Do(func() { p.cart.Clear(ctx) })
}

func (p *Page) Checkout(ctx context.Context) {
	p.loop.Do(func() { p.checkout(ctx) })
}

func (p *Page) OpenModal() {
	p.loop.Do(p.modal.Open)
}

func (p *Page) CloseModal() {
	p.loop.Do(p.modal.Close)
}

// Click dispatches a click on the element with the given node id.
func (p *Page) Click(ctx context.Context, nodeID string) (err error) {
	p.loop.Do(func() { err = p.doc.Click(ctx, nodeID) })
	return err
}

// Render writes the full page.
func (p *Page) Render(w io.Writer) (err error) {
	p.loop.Do(func() { err = p.doc.Render(w) })
	return err
}

// RenderModal writes the open modal overlay and reports whether one was
// open.
func (p *Page) RenderModal(w io.Writer) (open bool, err error) {
	p.loop.Do(func() {
		overlay := p.modal.Overlay()
		if overlay == nil {
			return
		}
		open = true
		err = p.doc.RenderNode(w, overlay)
	})
	return open, err
}

// Summary returns the current cart and drains queued notices.
func (p *Page) Summary() (s Summary) {
	p.loop.Do(func() {
		s = Summary{
			Items:       p.cart.Items(),
			TotalItems:  p.cart.TotalItemCount(),
			TotalAmount: p.cart.TotalAmount(),
			ModalOpen:   p.modal.IsOpen(),
			Notices:     p.notices,
		}
		p.notices = nil
	})
	return s
}

// Inspect runs fn on the page loop with read access to the document.
func (p *Page) Inspect(fn func(doc *ui.Document)) {
	p.loop.Do(func() { fn(p.doc) })
}

// Close stops pending notification timers.
func (p *Page) Close() {
	p.loop.Do(p.notifier.Stop)
}
