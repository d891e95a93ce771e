package layers

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"

	"github.com/xqrs/barview"
)

// probe is a box that consumes every mouse event inside it.
type probe struct {
	*barview.Box
	mouseEvents int
}

func newProbe() *probe {
	return &probe{Box: barview.NewBox()}
}

func (p *probe) MouseHandler(action barview.MouseAction, event *tcell.EventMouse) (barview.Primitive, barview.Command) {
	if !p.InRect(event.Position()) {
		return nil, nil
	}
	p.mouseEvents++
	return nil, barview.ConsumeEventCommand{}
}

func TestLayersOrder(t *testing.T) {
	l := New()
	l.AddLayer(newProbe(), WithName("content"))
	l.AddLayer(newProbe(), WithName("header"))
	l.AddLayer(newProbe(), WithName("popup"), WithVisible(false))

	assert.Equal(t, 3, l.GetLayerCount())
	assert.Equal(t, []string{"popup", "header", "content"}, l.GetLayerNames(false))
	assert.Equal(t, []string{"header", "content"}, l.GetLayerNames(true))

	l.SendToBack("header")
	assert.Equal(t, []string{"popup", "content", "header"}, l.GetLayerNames(false))
	l.SendToFront("header")
	assert.Equal(t, []string{"header", "popup", "content"}, l.GetLayerNames(false))

	l.ShowLayer("popup")
	assert.True(t, l.GetVisible("popup"))
	l.HideLayer("popup")
	assert.False(t, l.GetVisible("popup"))

	l.RemoveLayer("popup")
	assert.False(t, l.HasLayer("popup"))
	assert.Nil(t, l.GetLayer("popup"))

	name, _ := l.GetFrontLayer()
	assert.Equal(t, "header", name)
}

func TestLayersReplaceByName(t *testing.T) {
	l := New()
	first, second := newProbe(), newProbe()
	l.AddLayer(first, WithName("content"))
	l.AddLayer(second, WithName("content"))

	assert.Equal(t, 1, l.GetLayerCount())
	assert.Equal(t, second, l.GetLayer("content"))
}

func TestLayersChangedFunc(t *testing.T) {
	l := New()
	changes := 0
	l.SetChangedFunc(func() { changes++ })

	l.AddLayer(newProbe(), WithName("a"))
	l.HideLayer("a")
	l.HideLayer("a")
	l.ShowLayer("missing")
	assert.Equal(t, 2, changes)
}

func TestLayersMouseSkipsDisabledLayers(t *testing.T) {
	l := New()
	l.SetRect(0, 0, 20, 10)
	content, header := newProbe(), newProbe()
	content.SetRect(0, 0, 20, 10)
	header.SetRect(0, 0, 20, 3)
	l.AddLayer(content, WithName("content"))
	l.AddLayer(header, WithName("header"), WithEnabled(false))

	_, cmd := l.MouseHandler(barview.MouseLeftDown, tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, tcell.ModNone))
	assert.Equal(t, barview.ConsumeEventCommand{}, cmd)
	assert.Equal(t, 1, content.mouseEvents)
	assert.Zero(t, header.mouseEvents)

	l.SetLayerEnabled("header", true)
	assert.True(t, l.GetLayerEnabled("header"))
	l.MouseHandler(barview.MouseLeftDown, tcell.NewEventMouse(1, 1, tcell.ButtonPrimary, tcell.ModNone))
	assert.Equal(t, 1, header.mouseEvents)

	_, cmd = l.MouseHandler(barview.MouseLeftDown, tcell.NewEventMouse(30, 30, tcell.ButtonPrimary, tcell.ModNone))
	assert.Nil(t, cmd)
}

func TestLayersFocusFrontEnabledLayer(t *testing.T) {
	l := New()
	content, header := newProbe(), newProbe()
	l.AddLayer(content, WithName("content"))
	l.AddLayer(header, WithName("header"), WithEnabled(false))

	var focused barview.Primitive
	var delegate func(p barview.Primitive)
	delegate = func(p barview.Primitive) {
		focused = p
		p.Focus(delegate)
	}
	l.Focus(delegate)

	assert.Equal(t, content, focused)
	assert.True(t, l.HasFocus())
}

func TestLayersDirtyTracking(t *testing.T) {
	l := New()
	content := newProbe()
	l.AddLayer(content)
	l.MarkClean()
	assert.False(t, l.IsDirty())

	content.MarkDirty()
	assert.True(t, l.IsDirty())
}
