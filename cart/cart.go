// Package cart holds the shopper's ordered list of line items and the
// operations that mutate it. Every mutation is flushed to the Store and then
// announced to the registered observers.
package cart

import (
	"context"
	"strings"

	"storefront-server/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ChangeKind int

const (
	ItemAdded ChangeKind = iota
	QuantitySet
	Cleared
)

func (k ChangeKind) String() string {
	switch k {
	case ItemAdded:
		return "item_added"
	case QuantitySet:
		return "quantity_set"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Change describes a completed mutation. Item is the line item as it stands
// after the change (or as it was, when Removed is set); it is zero for
// Cleared.
type Change struct {
	Kind    ChangeKind
	Index   int
	Item    models.LineItem
	Removed bool
}

// Observer is told about every mutation after it has been persisted.
type Observer interface {
	CartChanged(ctx context.Context, change Change)
}

type ObserverFunc func(ctx context.Context, change Change)

func (f ObserverFunc) CartChanged(ctx context.Context, change Change) {
	f(ctx, change)
}

// Cart is not safe for concurrent use; callers serialize access.
type Cart struct {
	items     []models.LineItem
	store     *Store
	observers []Observer
	logger    *zap.Logger
}

// Hydrate builds a cart from the snapshot held by store.
func Hydrate(ctx context.Context, store *Store, logger *zap.Logger) *Cart {
	items := store.Load(ctx)
	logger.Debug("cart hydrated", zap.Int("items", len(items)))
	return &Cart{items: items, store: store, logger: logger}
}

func (c *Cart) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Items returns a copy of the line items in cart order.
func (c *Cart) Items() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItemCount is the sum of all quantities.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalAmount is the sum of unit price times quantity over all items.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// AddItem increments the quantity of the item called name, or appends it
// with quantity 1. Price and image of an existing item are left as first
// added.
func (c *Cart) AddItem(ctx context.Context, name string, unitPrice decimal.Decimal, imageRef string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidItem
	}
	if unitPrice.IsNegative() {
		return ErrInvalidItem
	}

	index := c.indexOf(name)
	if index >= 0 {
		c.items[index].Quantity++
	} else {
		index = len(c.items)
		c.items = append(c.items, models.LineItem{
			Name:      name,
			UnitPrice: unitPrice,
			ImageRef:  imageRef,
			Quantity:  1,
		})
	}

	c.logger.Info("item added",
		zap.String("name", name),
		zap.Int("quantity", c.items[index].Quantity))
	c.commit(ctx, Change{Kind: ItemAdded, Index: index, Item: c.items[index]})
	return nil
}

// SetQuantity sets the quantity of the item at index to exactly quantity,
// removing the item when quantity is zero or less.
func (c *Cart) SetQuantity(ctx context.Context, index, quantity int) error {
	if index < 0 || index >= len(c.items) {
		return &IndexError{Index: index, Len: len(c.items)}
	}

	change := Change{Kind: QuantitySet, Index: index}
	if quantity <= 0 {
		change.Item = c.items[index]
		change.Removed = true
		c.items = append(c.items[:index], c.items[index+1:]...)
	} else {
		c.items[index].Quantity = quantity
		change.Item = c.items[index]
	}

	c.logger.Info("quantity set",
		zap.Int("index", index),
		zap.Int("quantity", quantity),
		zap.Bool("removed", change.Removed))
	c.commit(ctx, change)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	c.items = nil
	c.logger.Info("cart cleared")
	c.commit(ctx, Change{Kind: Cleared})
}

func (c *Cart) indexOf(name string) int {
	for i, item := range c.items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// commit flushes the cart and notifies observers. A failed flush leaves the
// in-memory state authoritative.
func (c *Cart) commit(ctx context.Context, change Change) {
	if err := c.store.Save(ctx, c.items); err != nil {
		c.logger.Warn("cart not persisted", zap.Stringer("change", change.Kind), zap.Error(err))
	}
	for _, o := range c.observers {
		o.CartChanged(ctx, change)
	}
}
