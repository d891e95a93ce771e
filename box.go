package barview

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v3"
)

// Box is the base of all primitives: a rectangle with a background that
// tracks focus and whether it needs redrawing. It is embedded by primitives
// which draw their content over it.
type Box struct {
	x, y, width, height int

	background tcell.Color

	// Leave whatever is below the box in place when drawing.
	dontClear bool

	hasFocus bool

	dirty atomic.Bool
}

// NewBox returns a Box with the theme's primitive background.
func NewBox() *Box {
	b := &Box{
		width:      15,
		height:     10,
		background: Styles.PrimitiveBackgroundColor,
	}
	b.dirty.Store(true)
	return b
}

// GetRect returns the box's position and size.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// SetRect moves and resizes the box.
func (b *Box) SetRect(x, y, width, height int) {
	if b.x != x || b.y != y || b.width != width || b.height != height {
		b.x, b.y, b.width, b.height = x, y, width, height
		b.MarkDirty()
	}
}

// InRect reports whether the screen cell (x, y) lies within the box.
func (b *Box) InRect(x, y int) bool {
	return x >= b.x && x < b.x+b.width && y >= b.y && y < b.y+b.height
}

// IsDirty returns whether this primitive needs redrawing.
func (b *Box) IsDirty() bool {
	return b.dirty.Load()
}

// MarkDirty marks this primitive as needing a redraw.
func (b *Box) MarkDirty() {
	b.dirty.Store(true)
}

// MarkClean marks this primitive as clean.
func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

// InputHandler ignores key events.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler takes the focus on a left click inside the box.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// SetDontClear controls whether the background is cleared before drawing.
func (b *Box) SetDontClear(dontClear bool) *Box {
	b.dontClear = dontClear
	return b
}

// Draw clears the box's rectangle unless SetDontClear was set.
func (b *Box) Draw(screen tcell.Screen) {
	if b.dontClear || b.width <= 0 || b.height <= 0 {
		return
	}
	style := tcell.StyleDefault.Background(b.background)
	for y := b.y; y < b.y+b.height; y++ {
		for x := b.x; x < b.x+b.width; x++ {
			screen.Put(x, y, " ", style)
		}
	}
}

// Focus is called when this primitive directly receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	if !b.hasFocus {
		b.hasFocus = true
		b.MarkDirty()
	}
}

// Blur is called when this primitive directly loses focus.
func (b *Box) Blur() {
	if b.hasFocus {
		b.hasFocus = false
		b.MarkDirty()
	}
}

// HasFocus returns whether or not this primitive has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}
