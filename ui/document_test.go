package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_ClickBubbles(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument("test")
	outer := doc.CreateElement("div", Class("outer"))
	inner := doc.CreateElement("button", Class("inner"))
	doc.AppendChild(outer, inner)
	doc.AppendChild(doc.Body(), outer)

	var seen []string
	doc.AddEventListener(outer, "click", func(_ context.Context, e *Event) {
		assert.Same(t, inner, e.Target)
		assert.Same(t, outer, e.CurrentTarget)
		seen = append(seen, "outer")
	})
	doc.AddEventListener(inner, "click", func(_ context.Context, e *Event) {
		assert.Same(t, inner, e.CurrentTarget)
		seen = append(seen, "inner")
	})

	require.NoError(t, doc.Click(ctx, doc.NodeID(inner)))
	assert.Equal(t, []string{"inner", "outer"}, seen)
}

func TestDocument_ClickUnknownOrDetached(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument("test")
	el := doc.CreateElement("div")

	// created but never attached
	assert.ErrorIs(t, doc.Click(ctx, doc.NodeID(el)), ErrNodeNotFound)
	assert.ErrorIs(t, doc.Click(ctx, "n999"), ErrNodeNotFound)

	doc.AppendChild(doc.Body(), el)
	require.NoError(t, doc.Click(ctx, doc.NodeID(el)))

	id := doc.NodeID(el)
	assert.True(t, doc.Remove(el))
	assert.False(t, doc.Remove(el))
	assert.ErrorIs(t, doc.Click(ctx, id), ErrNodeNotFound)
}

func TestDocument_RemoveForgetsListeners(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument("test")
	parent := doc.CreateElement("div")
	child := doc.CreateElement("button")
	doc.AppendChild(parent, child)
	doc.AppendChild(doc.Body(), parent)

	calls := 0
	doc.AddEventListener(child, "click", func(context.Context, *Event) { calls++ })
	doc.Remove(parent)

	doc.Dispatch(ctx, child, "click")
	assert.Equal(t, 0, calls)
	assert.Empty(t, doc.listeners)
}

func TestDocument_ListenerDetachingDoesNotStopBubbling(t *testing.T) {
	ctx := context.Background()
	doc := NewDocument("test")
	panel := doc.CreateElement("div")
	button := doc.CreateElement("button")
	doc.AppendChild(panel, button)
	doc.AppendChild(doc.Body(), panel)

	bodyCalls := 0
	doc.AddEventListener(doc.Body(), "click", func(context.Context, *Event) { bodyCalls++ })
	doc.AddEventListener(button, "click", func(context.Context, *Event) { doc.Remove(panel) })

	require.NoError(t, doc.Click(ctx, doc.NodeID(button)))
	assert.Equal(t, 1, bodyCalls)
}

func TestDocument_QueryAndText(t *testing.T) {
	doc := NewDocument("test")
	a := doc.CreateElement("span", Class("badge primary"))
	b := doc.CreateElement("span", Class("badge"))
	doc.AppendChild(doc.Body(), a)
	doc.AppendChild(doc.Body(), b)

	assert.Same(t, a, doc.QueryClass("badge"))
	assert.Len(t, doc.QueryAllClass("badge"), 2)
	assert.Nil(t, doc.QueryClass("missing"))
	assert.Nil(t, doc.QueryClass("badg"))

	doc.SetText(a, "3")
	doc.SetText(a, "4")
	assert.Equal(t, "4", doc.Text(a))
}

func TestDocument_RenderEscapesText(t *testing.T) {
	doc := NewDocument("Shop")
	p := doc.CreateElement("p", Class("name"))
	doc.SetText(p, `<script>alert("x")</script>`)
	doc.AppendChild(doc.Body(), p)

	var buf bytes.Buffer
	require.NoError(t, doc.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "<title>Shop</title>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}
