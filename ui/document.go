// Package ui renders the storefront page as a tree of HTML nodes and
// dispatches click events to listeners bound on those nodes.
package ui

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeIDAttr carries the id clients use to address an element.
const NodeIDAttr = "data-node"

var ErrNodeNotFound = errors.New("ui: node not found")

// Event is delivered to listeners. Target is the element the event was
// dispatched on; CurrentTarget is the element whose listener is running.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
}

type Listener func(ctx context.Context, e *Event)

// Document is a page's element tree. It is not safe for concurrent use;
// access is serialized by the owning page's Loop.
type Document struct {
	root      *html.Node
	head      *html.Node
	body      *html.Node
	nodes     map[string]*html.Node
	listeners map[*html.Node]map[string][]Listener
	nextID    int
}

// NewDocument returns an empty HTML document with the given title.
func NewDocument(title string) *Document {
	d := &Document{
		root:      &html.Node{Type: html.DocumentNode},
		nodes:     make(map[string]*html.Node),
		listeners: make(map[*html.Node]map[string][]Listener),
	}
	d.root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := d.CreateElement("html", Attr("lang", "en"))
	d.head = d.CreateElement("head")
	d.body = d.CreateElement("body")
	d.root.AppendChild(htmlEl)
	htmlEl.AppendChild(d.head)
	htmlEl.AppendChild(d.body)

	d.AppendChild(d.head, d.CreateElement("meta", Attr("charset", "utf-8")))
	titleEl := d.CreateElement("title")
	d.SetText(titleEl, title)
	d.AppendChild(d.head, titleEl)
	return d
}

func Attr(key, value string) html.Attribute {
	return html.Attribute{Key: key, Val: value}
}

func Class(names string) html.Attribute {
	return Attr("class", names)
}

func (d *Document) Head() *html.Node { return d.head }
func (d *Document) Body() *html.Node { return d.body }

// CreateElement returns a detached element with a fresh node id.
func (d *Document) CreateElement(tag string, attrs ...html.Attribute) *html.Node {
	d.nextID++
	id := "n" + strconv.Itoa(d.nextID)

	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     append([]html.Attribute{Attr(NodeIDAttr, id)}, attrs...),
	}
	d.nodes[id] = n
	return n
}

// TextNode returns a detached text node. Content is escaped on render.
func (d *Document) TextNode(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

func (d *Document) AppendChild(parent, child *html.Node) {
	parent.AppendChild(child)
}

// SetText replaces all children of n with a single text node.
func (d *Document) SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.Remove(c)
		c = next
	}
	n.AppendChild(d.TextNode(text))
}

// Text returns the concatenated text content of n.
func (d *Document) Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Remove detaches n from its parent and forgets the ids and listeners of
// its subtree. It reports false when n was already detached.
func (d *Document) Remove(n *html.Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	n.Parent.RemoveChild(n)
	d.forget(n)
	return true
}

func (d *Document) forget(n *html.Node) {
	if id := GetAttr(n, NodeIDAttr); id != "" {
		delete(d.nodes, id)
	}
	delete(d.listeners, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}

// Attached reports whether n is part of the rendered document.
func (d *Document) Attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func (d *Document) NodeID(n *html.Node) string {
	return GetAttr(n, NodeIDAttr)
}

// NodeByID returns the attached element with the given node id.
func (d *Document) NodeByID(id string) (*html.Node, bool) {
	n, ok := d.nodes[id]
	if !ok || !d.Attached(n) {
		return nil, false
	}
	return n, true
}

// QueryClass returns the first attached element carrying class, or nil.
func (d *Document) QueryClass(class string) *html.Node {
	all := d.queryClass(d.root, class, true)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// QueryAllClass returns every attached element carrying class, in document
// order.
func (d *Document) QueryAllClass(class string) []*html.Node {
	return d.queryClass(d.root, class, false)
}

// QueryClassIn is QueryAllClass restricted to the subtree of root.
func (d *Document) QueryClassIn(root *html.Node, class string) []*html.Node {
	return d.queryClass(root, class, false)
}

func (d *Document) queryClass(root *html.Node, class string, first bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && HasClass(n, class) {
			found = append(found, n)
			if first {
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

func (d *Document) AddEventListener(n *html.Node, eventType string, fn Listener) {
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]Listener)
		d.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
}

// Dispatch delivers an event to target and then to each of its ancestors.
// The propagation path is fixed before the first listener runs, so a
// listener that detaches nodes does not cut the bubbling short.
func (d *Document) Dispatch(ctx context.Context, target *html.Node, eventType string) {
	var path []*html.Node
	for n := target; n != nil; n = n.Parent {
		path = append(path, n)
	}

	e := &Event{Type: eventType, Target: target}
	for _, n := range path {
		fns := d.listeners[n][eventType]
		if len(fns) == 0 {
			continue
		}
		e.CurrentTarget = n
		for _, fn := range append([]Listener(nil), fns...) {
			fn(ctx, e)
		}
	}
}

// Click dispatches a click on the attached element with node id.
func (d *Document) Click(ctx context.Context, id string) error {
	n, ok := d.NodeByID(id)
	if !ok {
		return ErrNodeNotFound
	}
	d.Dispatch(ctx, n, "click")
	return nil
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// RenderNode writes the subtree rooted at n.
func (d *Document) RenderNode(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

func GetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func SetAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, Attr(key, value))
}

func HasClass(n *html.Node, class string) bool {
	for _, name := range strings.Fields(GetAttr(n, "class")) {
		if name == class {
			return true
		}
	}
	return false
}
