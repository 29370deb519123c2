package ui

import "strconv"

// BadgeClass marks the element showing the cart item count.
const BadgeClass = "cart-badge"

type ItemCounter interface {
	TotalItemCount() int
}

type Badge struct {
	doc     *Document
	counter ItemCounter
}

func NewBadge(doc *Document, counter ItemCounter) *Badge {
	return &Badge{doc: doc, counter: counter}
}

// Refresh writes the current item count into the badge. Pages without a
// badge are left alone.
func (b *Badge) Refresh() {
	el := b.doc.QueryClass(BadgeClass)
	if el == nil {
		return
	}
	b.doc.SetText(el, strconv.Itoa(b.counter.TotalItemCount()))
}
