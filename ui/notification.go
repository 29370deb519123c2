package ui

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

const (
	NotificationClass = "cart-notification"

	DefaultNotificationDisplay = 3 * time.Second
	// NotificationExit is how long the slide-out lasts before removal.
	NotificationExit = 300 * time.Millisecond
)

// Notifier shows transient messages stacked at the top right of the page.
// Each notification is independent and removes itself after the display
// duration.
type Notifier struct {
	doc       *Document
	scheduler Scheduler
	display   time.Duration
	pending   map[string]func() bool
	stopped   bool
}

func NewNotifier(doc *Document, scheduler Scheduler, display time.Duration) *Notifier {
	if display <= 0 {
		display = DefaultNotificationDisplay
	}
	return &Notifier{
		doc:       doc,
		scheduler: scheduler,
		display:   display,
		pending:   make(map[string]func() bool),
	}
}

// Show appends a notification carrying message and returns its element.
func (n *Notifier) Show(message string) *html.Node {
	id := uuid.NewString()
	el := n.doc.CreateElement("div",
		Class(NotificationClass),
		Attr("role", "status"),
		Attr("data-notification-id", id),
		Attr("data-state", "entering"))
	n.doc.SetText(el, message)
	n.doc.AppendChild(n.doc.Body(), el)

	if n.stopped {
		return el
	}
	n.pending[id] = n.scheduler.AfterFunc(n.display, func() {
		if n.stopped {
			return
		}
		if !n.doc.Attached(el) {
			delete(n.pending, id)
			return
		}
		SetAttr(el, "data-state", "leaving")
		n.pending[id] = n.scheduler.AfterFunc(NotificationExit, func() {
			if n.stopped {
				return
			}
			delete(n.pending, id)
			n.doc.Remove(el)
		})
	})
	return el
}

// Pending reports how many notifications still have a timer running.
func (n *Notifier) Pending() int {
	return len(n.pending)
}

// Stop cancels every outstanding dismissal timer. Callbacks already queued
// behind the page loop do nothing once Stop has run, and later
// notifications are not scheduled.
func (n *Notifier) Stop() {
	n.stopped = true
	for id, stop := range n.pending {
		stop()
		delete(n.pending, id)
	}
}
