package barview

import (
	"math"
	"slices"
	"time"
	"weak"

	"github.com/gdamore/tcell/v3"
	"github.com/xqrs/barview/keybind"
)

// DefaultSettleDelay is how long a ScrollView waits after the last wheel or
// key scroll step before it reports the end of that scroll gesture.
const DefaultSettleDelay = 150 * time.Millisecond

// ScrollViewKeyMap holds the key bindings a ScrollView reacts to.
type ScrollViewKeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Top      keybind.Keybind
}

// DefaultScrollViewKeyMap returns arrow, page and home key bindings.
func DefaultScrollViewKeyMap() ScrollViewKeyMap {
	return ScrollViewKeyMap{
		Up:       keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithHelp("↑/k", "up")),
		Down:     keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithHelp("↓/j", "down")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup"), keybind.WithHelp("pgup", "page up")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn", "space"), keybind.WithHelp("pgdn", "page down")),
		Top:      keybind.NewKeybind(keybind.WithKeys("home", "g"), keybind.WithHelp("g", "top")),
	}
}

// ShortHelp returns the bindings shown in single-line help.
func (k ScrollViewKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.Top}
}

// FullHelp returns the bindings grouped for full help.
func (k ScrollViewKeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{{k.Up, k.Down}, {k.PageUp, k.PageDown, k.Top}}
}

type observer[T any] struct {
	id int
	fn T
}

// observers is a registration list whose entries may cancel themselves (or
// others) while being notified.
type observers[T any] struct {
	nextID  int
	entries []observer[T]
}

func (o *observers[T]) add(fn T) int {
	id := o.nextID
	o.nextID++
	o.entries = append(o.entries, observer[T]{id: id, fn: fn})
	return id
}

func (o *observers[T]) remove(id int) {
	o.entries = slices.DeleteFunc(o.entries, func(e observer[T]) bool { return e.id == id })
}

func (o *observers[T]) each(f func(T)) {
	for _, entry := range slices.Clone(o.entries) {
		if slices.ContainsFunc(o.entries, func(e observer[T]) bool { return e.id == entry.id }) {
			f(entry.fn)
		}
	}
}

// ScrollView is a vertically scrolling text primitive which implements
// [ScrollSurface]. Content row 0 is drawn at the view's first row when the
// offset is 0; negative offsets reveal the top content inset, which is where
// a bar placed over the view is drawn.
//
// Mouse drags are reported to drag observers as one gesture each. Wheel and
// key scrolling are reported as a gesture that ends once no further step
// arrived within the settle delay, which requires a [Scheduler].
type ScrollView struct {
	*Box

	lines []Line

	offset          float64
	insets          Insets
	indicatorTop    float64
	lastBoundsWidth int
	lastBounds      int

	scrollBar *ScrollBar
	keyMap    ScrollViewKeyMap
	wheelStep float64

	scheduler   Scheduler
	animator    offsetAnimator
	settleDelay time.Duration

	dragging      bool
	dragLastY     int
	gestureActive bool
	settleGen     uint64

	offsetObservers observers[func(float64)]
	sizeObservers   observers[func(float64)]
	dragObservers   observers[DragObserver]
}

// NewScrollView returns an empty scroll view.
func NewScrollView() *ScrollView {
	return &ScrollView{
		Box:         NewBox(),
		scrollBar:   NewScrollBar(),
		keyMap:      DefaultScrollViewKeyMap(),
		wheelStep:   3,
		settleDelay: DefaultSettleDelay,
	}
}

// SetScheduler sets the scheduler used for animations and gesture settling.
// Without one, offset changes are applied immediately and every wheel or key
// step is a gesture of its own.
func (v *ScrollView) SetScheduler(scheduler Scheduler) *ScrollView {
	v.scheduler = scheduler
	v.animator.scheduler = scheduler
	return v
}

// SetSettleDelay sets how long stepped scrolling waits before ending its
// gesture.
func (v *ScrollView) SetSettleDelay(delay time.Duration) *ScrollView {
	v.settleDelay = max(delay, 0)
	return v
}

// SetWheelStep sets the number of rows one wheel notch scrolls.
func (v *ScrollView) SetWheelStep(rows float64) *ScrollView {
	if rows > 0 {
		v.wheelStep = rows
	}
	return v
}

// SetKeyMap sets the key bindings.
func (v *ScrollView) SetKeyMap(keyMap ScrollViewKeyMap) *ScrollView {
	v.keyMap = keyMap
	return v
}

// KeyMap returns the key bindings.
func (v *ScrollView) KeyMap() ScrollViewKeyMap {
	return v.keyMap
}

// ScrollBar returns the scroll indicator so it can be styled.
func (v *ScrollView) ScrollBar() *ScrollBar {
	return v.scrollBar
}

// SetText replaces the content with the lines of text.
func (v *ScrollView) SetText(text string, style tcell.Style) *ScrollView {
	b := NewLineBuilder()
	b.Write(text, style)
	return v.SetLines(b.Finish())
}

// SetLines replaces the content.
func (v *ScrollView) SetLines(lines []Line) *ScrollView {
	v.lines = lines
	v.MarkDirty()
	v.notifySize()
	return v
}

// ContentOffset implements ScrollSurface.
func (v *ScrollView) ContentOffset() float64 {
	return v.offset
}

// ContentHeight implements ScrollSurface.
func (v *ScrollView) ContentHeight() float64 {
	return float64(len(v.lines))
}

// BoundsHeight implements ScrollSurface.
func (v *ScrollView) BoundsHeight() float64 {
	_, _, _, height := v.GetRect()
	return float64(height)
}

// ContentInset implements ScrollSurface.
func (v *ScrollView) ContentInset() Insets {
	return v.insets
}

// SetContentInsetTop implements ScrollSurface.
func (v *ScrollView) SetContentInsetTop(top float64) {
	if v.insets.Top != top {
		v.insets.Top = top
		v.MarkDirty()
	}
}

// SetContentInsetBottom implements ScrollSurface.
func (v *ScrollView) SetContentInsetBottom(bottom float64) {
	if v.insets.Bottom != bottom {
		v.insets.Bottom = bottom
		v.MarkDirty()
	}
}

// SetScrollIndicatorInsetTop implements ScrollSurface.
func (v *ScrollView) SetScrollIndicatorInsetTop(top float64) {
	if v.indicatorTop != top {
		v.indicatorTop = top
		v.MarkDirty()
	}
}

// SetContentOffset implements ScrollSurface. The change is animated only when
// a scheduler is set.
func (v *ScrollView) SetContentOffset(y float64, duration time.Duration) {
	if duration <= 0 || v.scheduler == nil {
		v.animator.stop()
		v.setOffset(y)
		return
	}
	v.animator.start(v.offset, y, duration, v.setOffset)
}

// StopDeceleration implements ScrollSurface.
func (v *ScrollView) StopDeceleration() {
	v.animator.stop()
}

// Animating returns whether an offset animation is in flight.
func (v *ScrollView) Animating() bool {
	return v.animator.running
}

// ObserveOffset implements ScrollSurface.
func (v *ScrollView) ObserveOffset(f func(y float64)) Subscription {
	f(v.offset)
	id := v.offsetObservers.add(f)
	return v.subscription(func(v *ScrollView) { v.offsetObservers.remove(id) })
}

// ObserveContentSize implements ScrollSurface.
func (v *ScrollView) ObserveContentSize(f func(height float64)) Subscription {
	f(v.ContentHeight())
	id := v.sizeObservers.add(f)
	return v.subscription(func(v *ScrollView) { v.sizeObservers.remove(id) })
}

// ObserveDrag implements ScrollSurface.
func (v *ScrollView) ObserveDrag(observer DragObserver) Subscription {
	id := v.dragObservers.add(observer)
	return v.subscription(func(v *ScrollView) { v.dragObservers.remove(id) })
}

// subscription returns a Subscription which calls cancel with the view if it
// is still alive. The returned value does not keep the view alive.
func (v *ScrollView) subscription(cancel func(v *ScrollView)) Subscription {
	w := weak.Make(v)
	return SubscriptionFunc(func() {
		if v := w.Value(); v != nil {
			cancel(v)
		}
	})
}

// ScrollBy scrolls like a user would: the offset stays within the insets
// unless it already was outside them, in which case it may only move back.
func (v *ScrollView) ScrollBy(delta float64) {
	lo := -v.insets.Top
	hi := math.Max(lo, v.ContentHeight()-v.BoundsHeight()+v.insets.Bottom)
	y := v.offset + delta
	if delta < 0 {
		y = math.Max(y, math.Min(lo, v.offset))
	} else {
		y = math.Min(y, math.Max(hi, v.offset))
	}
	v.setOffset(y)
}

// SetRect sets the view's position and reports bounds height changes to
// content size observers.
func (v *ScrollView) SetRect(x, y, width, height int) {
	v.Box.SetRect(x, y, width, height)
	if height != v.lastBounds || width != v.lastBoundsWidth {
		v.lastBounds, v.lastBoundsWidth = height, width
		v.notifySize()
	}
}

func (v *ScrollView) setOffset(y float64) {
	if y == v.offset {
		return
	}
	v.offset = y
	v.MarkDirty()
	v.offsetObservers.each(func(f func(float64)) { f(y) })
}

func (v *ScrollView) notifySize() {
	height := v.ContentHeight()
	v.sizeObservers.each(func(f func(float64)) { f(height) })
}

func (v *ScrollView) beginGesture() {
	if v.gestureActive {
		return
	}
	v.gestureActive = true
	v.dragObservers.each(func(o DragObserver) { o.DragBegan() })
}

func (v *ScrollView) endGesture() {
	if !v.gestureActive {
		return
	}
	v.gestureActive = false
	v.dragObservers.each(func(o DragObserver) { o.DragEnded() })
}

// stepScroll scrolls by delta as part of a wheel or key gesture.
func (v *ScrollView) stepScroll(delta float64) {
	if v.dragging {
		v.ScrollBy(delta)
		return
	}
	v.StopDeceleration()
	v.beginGesture()
	v.ScrollBy(delta)

	v.settleGen++
	if v.scheduler == nil {
		v.endGesture()
		return
	}
	generation := v.settleGen
	v.scheduler.Schedule(v.settleDelay, func() {
		if generation == v.settleGen && !v.dragging {
			v.endGesture()
		}
	})
}

func (v *ScrollView) page() float64 {
	return math.Max(v.BoundsHeight()-v.insets.Top, 1)
}

// Draw draws this primitive onto the screen.
func (v *ScrollView) Draw(screen tcell.Screen) {
	v.Box.Draw(screen)

	x, y, width, height := v.GetRect()
	if width <= 0 || height <= 0 {
		return
	}

	textWidth := width - 1
	first := int(math.Round(v.offset))
	for row := 0; row < height; row++ {
		index := first + row
		if index < 0 || index >= len(v.lines) {
			continue
		}
		column := x
		remaining := textWidth
		for _, segment := range v.lines[index] {
			if remaining <= 0 {
				break
			}
			_, printed := printText(screen, segment.Text, column, y+row, remaining, AlignmentLeft, segment.Style, true)
			column += printed
			remaining -= printed
		}
	}

	indicatorTop := min(max(int(math.Round(v.indicatorTop)), 0), height)
	v.scrollBar.SetRect(x+width-1, y+indicatorTop, 1, height-indicatorTop)
	v.scrollBar.SetLengths(ScrollLengths{
		ContentLen:  int(math.Round(v.ContentHeight() + v.insets.Top + v.insets.Bottom)),
		ViewportLen: height,
	})
	v.scrollBar.SetOffset(int(math.Round(v.offset + v.insets.Top)))
	v.scrollBar.Draw(screen)
}

// InputHandler handles key events.
func (v *ScrollView) InputHandler(event *tcell.EventKey) Command {
	switch {
	case keybind.Matches(event, v.keyMap.Up):
		v.stepScroll(-1)
	case keybind.Matches(event, v.keyMap.Down):
		v.stepScroll(1)
	case keybind.Matches(event, v.keyMap.PageUp):
		v.stepScroll(-v.page())
	case keybind.Matches(event, v.keyMap.PageDown):
		v.stepScroll(v.page())
	case keybind.Matches(event, v.keyMap.Top):
		v.stepScroll(-v.offset - v.insets.Top)
	default:
		return nil
	}
	return RedrawCommand{}
}

// MouseHandler handles mouse events. A left button drag scrolls the content
// and captures the mouse until the button is released.
func (v *ScrollView) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	switch action {
	case MouseLeftDown:
		if !v.InRect(x, y) {
			return nil, nil
		}
		v.StopDeceleration()
		v.dragging = true
		v.dragLastY = y
		v.beginGesture()
		return v, SetFocusCommand{Target: v}
	case MouseMove:
		if !v.dragging {
			return nil, nil
		}
		delta := v.dragLastY - y
		v.dragLastY = y
		v.ScrollBy(float64(delta))
		return v, RedrawCommand{}
	case MouseLeftUp:
		if !v.dragging {
			return nil, nil
		}
		v.dragging = false
		v.endGesture()
		return nil, RedrawCommand{}
	case MouseScrollUp, MouseScrollDown:
		if !v.InRect(x, y) {
			return nil, nil
		}
		delta := v.wheelStep
		if action == MouseScrollUp {
			delta = -delta
		}
		v.stepScroll(delta)
		return nil, RedrawCommand{}
	}
	return nil, nil
}

var (
	_ Primitive     = &ScrollView{}
	_ ScrollSurface = &ScrollView{}
)
