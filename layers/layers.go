// Package layers stacks primitives on top of each other, drawing them from
// back to front.
package layers

import (
	"slices"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/barview"
)

type layer struct {
	name    string
	item    barview.Primitive
	resize  bool // Fill the container's inner rect on every draw.
	visible bool
	enabled bool // Receives focus and input.
}

// Layers is a container for primitives laid out on top of each other. Only
// visible layers are drawn; only enabled ones see input.
type Layers struct {
	*barview.Box

	layers []*layer

	// Set by Focus so that layer changes can move the focus.
	setFocus func(p barview.Primitive)
	// Called whenever the visibility or the order of layers changes.
	changed func()
}

// Option configures a layer on AddLayer.
type Option func(*layer)

func WithName(name string) Option {
	return func(l *layer) {
		l.name = name
	}
}

// WithResize sets whether the layer is resized to the container's inner rect.
func WithResize(resize bool) Option {
	return func(l *layer) {
		l.resize = resize
	}
}

func WithVisible(visible bool) Option {
	return func(l *layer) {
		l.visible = visible
	}
}

// WithEnabled sets whether the layer can receive focus and input. Disabled
// layers are still drawn.
func WithEnabled(enabled bool) Option {
	return func(l *layer) {
		l.enabled = enabled
	}
}

func New() *Layers {
	l := &Layers{Box: barview.NewBox()}
	l.SetDontClear(true)
	return l
}

// SetChangedFunc sets a handler called whenever the visibility or the order
// of layers changes.
func (l *Layers) SetChangedFunc(handler func()) *Layers {
	l.changed = handler
	return l
}

func (l *Layers) GetLayerCount() int {
	return len(l.layers)
}

// GetLayerNames returns the layer names ordered from front to back,
// optionally limited to visible layers.
func (l *Layers) GetLayerNames(visibleOnly bool) []string {
	var names []string
	for _, layer := range slices.Backward(l.layers) {
		if !visibleOnly || layer.visible {
			names = append(names, layer.name)
		}
	}
	return names
}

// AddLayer adds item in front of all other layers. A layer with the same name
// is replaced.
func (l *Layers) AddLayer(item barview.Primitive, opts ...Option) *Layers {
	added := &layer{item: item, visible: true, enabled: true}
	for _, opt := range opts {
		opt(added)
	}
	if added.name != "" {
		l.layers = slices.DeleteFunc(l.layers, func(layer *layer) bool {
			return layer.name == added.name
		})
	}
	l.layers = append(l.layers, added)
	l.update(true)
	return l
}

func (l *Layers) RemoveLayer(name string) *Layers {
	index := l.index(name)
	if index < 0 {
		return l
	}
	removed := l.layers[index]
	l.layers = slices.Delete(l.layers, index, index+1)
	l.update(removed.visible)
	return l
}

func (l *Layers) HasLayer(name string) bool {
	return l.index(name) >= 0
}

func (l *Layers) GetLayer(name string) barview.Primitive {
	if index := l.index(name); index >= 0 {
		return l.layers[index].item
	}
	return nil
}

func (l *Layers) GetVisible(name string) bool {
	index := l.index(name)
	return index >= 0 && l.layers[index].visible
}

func (l *Layers) ShowLayer(name string) *Layers {
	return l.setVisible(name, true)
}

func (l *Layers) HideLayer(name string) *Layers {
	return l.setVisible(name, false)
}

func (l *Layers) setVisible(name string, visible bool) *Layers {
	if index := l.index(name); index >= 0 && l.layers[index].visible != visible {
		l.layers[index].visible = visible
		l.update(true)
	}
	return l
}

// SendToFront moves the named layer in front of all others.
func (l *Layers) SendToFront(name string) *Layers {
	index := l.index(name)
	if index < 0 || index == len(l.layers)-1 {
		return l
	}
	moved := l.layers[index]
	l.layers = append(slices.Delete(l.layers, index, index+1), moved)
	l.update(moved.visible)
	return l
}

// SendToBack moves the named layer behind all others.
func (l *Layers) SendToBack(name string) *Layers {
	index := l.index(name)
	if index <= 0 {
		return l
	}
	moved := l.layers[index]
	l.layers = slices.Insert(slices.Delete(l.layers, index, index+1), 0, moved)
	l.update(moved.visible)
	return l
}

// GetFrontLayer returns the front-most visible layer, or ("", nil).
func (l *Layers) GetFrontLayer() (string, barview.Primitive) {
	for _, layer := range slices.Backward(l.layers) {
		if layer.visible {
			return layer.name, layer.item
		}
	}
	return "", nil
}

func (l *Layers) SetLayerEnabled(name string, enabled bool) *Layers {
	index := l.index(name)
	if index < 0 || l.layers[index].enabled == enabled {
		return l
	}
	layer := l.layers[index]
	if !enabled && layer.item.HasFocus() {
		layer.item.Blur()
	}
	layer.enabled = enabled
	l.update(layer.visible)
	return l
}

func (l *Layers) GetLayerEnabled(name string) bool {
	index := l.index(name)
	return index >= 0 && l.layers[index].enabled
}

func (l *Layers) index(name string) int {
	return slices.IndexFunc(l.layers, func(layer *layer) bool {
		return layer.name == name
	})
}

// update marks the container dirty, runs the changed handler if notify is
// set and refocuses the front-most enabled layer when focused.
func (l *Layers) update(notify bool) {
	hasFocus := l.HasFocus()
	l.MarkDirty()
	if notify && l.changed != nil {
		l.changed()
	}
	if hasFocus && l.setFocus != nil {
		l.Focus(l.setFocus)
	}
}

// IsDirty reports whether the container or a visible layer needs a redraw.
func (l *Layers) IsDirty() bool {
	if l.Box.IsDirty() {
		return true
	}
	return slices.ContainsFunc(l.layers, func(layer *layer) bool {
		return layer.visible && layer.item.IsDirty()
	})
}

func (l *Layers) MarkClean() {
	l.Box.MarkClean()
	for _, layer := range l.layers {
		layer.item.MarkClean()
	}
}

func (l *Layers) HasFocus() bool {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus hands the focus to the front-most visible, enabled layer.
func (l *Layers) Focus(delegate func(p barview.Primitive)) {
	if delegate == nil {
		return
	}
	l.setFocus = delegate
	for _, layer := range slices.Backward(l.layers) {
		if layer.visible && layer.enabled {
			delegate(layer.item)
			return
		}
	}
	l.Box.Focus(delegate)
}

func (l *Layers) Draw(screen tcell.Screen) {
	l.Box.Draw(screen)
	x, y, width, height := l.GetRect()
	for _, layer := range l.layers {
		if !layer.visible {
			continue
		}
		if layer.resize {
			layer.item.SetRect(x, y, width, height)
		}
		layer.item.Draw(screen)
	}
}

// MouseHandler offers the event to the visible, enabled layers from front to
// back and stops at the first one that consumes or captures it.
func (l *Layers) MouseHandler(action barview.MouseAction, event *tcell.EventMouse) (barview.Primitive, barview.Command) {
	if !l.InRect(event.Position()) {
		return nil, nil
	}
	for _, layer := range slices.Backward(l.layers) {
		if !layer.visible || !layer.enabled {
			continue
		}
		if capture, cmd := layer.item.MouseHandler(action, event); capture != nil || cmd != nil {
			return capture, cmd
		}
	}
	return nil, nil
}

// InputHandler forwards key events to the focused enabled layer.
func (l *Layers) InputHandler(event *tcell.EventKey) barview.Command {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return layer.item.InputHandler(event)
		}
	}
	return nil
}
