package barview

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"
)

// The number of updates that may wait for the event loop before QueueUpdate
// blocks.
const updateQueueSize = 100

// MouseAction indicates one of the actions the mouse is logically doing.
type MouseAction int16

// Available mouse actions.
const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseScrollUp
	MouseScrollDown
)

// mouseTracker derives mouse actions from successive terminal mouse events,
// which only carry a position and the buttons currently held.
type mouseTracker struct {
	x, y         int
	downX, downY int
	buttons      tcell.ButtonMask
}

// track returns the actions the move to (x, y) with buttons held amounts to.
func (m *mouseTracker) track(x, y int, buttons tcell.ButtonMask) []MouseAction {
	var actions []MouseAction
	if x != m.x || y != m.y {
		actions = append(actions, MouseMove)
		m.x, m.y = x, y
	}

	if (buttons^m.buttons)&tcell.ButtonPrimary != 0 {
		if buttons&tcell.ButtonPrimary != 0 {
			actions = append(actions, MouseLeftDown)
			m.downX, m.downY = x, y
		} else {
			actions = append(actions, MouseLeftUp)
			if x == m.downX && y == m.downY {
				actions = append(actions, MouseLeftClick)
			}
		}
	}
	m.buttons = buttons

	// Wheel "buttons" are reported once per notch, never held.
	if buttons&tcell.WheelUp != 0 {
		actions = append(actions, MouseScrollUp)
	}
	if buttons&tcell.WheelDown != 0 {
		actions = append(actions, MouseScrollDown)
	}
	return actions
}

type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application hosts a root primitive on the terminal. Its event loop is the
// interaction goroutine of every primitive it shows: terminal events, queued
// updates and scheduled callbacks all run there, one at a time. It implements
// [Scheduler] for those primitives.
//
//	if err := barview.NewApplication().SetRoot(p).Run(); err != nil {
//	    log.Fatal(err)
//	}
type Application struct {
	mu sync.Mutex

	screen tcell.Screen
	root   Primitive
	focus  Primitive

	// Clear the whole screen before the next frame.
	clearScreen bool

	updates  chan queuedUpdate
	stopped  chan struct{}
	stopOnce sync.Once

	// Owned by the event loop.
	mouse   mouseTracker
	capture Primitive
}

// NewApplication returns an application without a root primitive.
func NewApplication() *Application {
	return &Application{
		updates: make(chan queuedUpdate, updateQueueSize),
		stopped: make(chan struct{}),
	}
}

// Run initializes the terminal and runs the event loop until [Application.Stop]
// is called or the terminal reports an error, which is then returned.
func (a *Application) Run() error {
	screen, err := a.openScreen()
	if err != nil {
		return err
	}
	events := screen.EventQ()

	defer a.stopOnce.Do(func() { close(a.stopped) })

	// A panic must not leave the terminal in raw mode.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	a.draw()

	var runErr error
	for {
		select {
		case event := <-events:
			if event == nil {
				return runErr
			}
			if err, ok := event.(*tcell.EventError); ok {
				runErr = err
				a.Stop()
				continue
			}
			if a.handleEvent(event) {
				a.draw()
			}

		case update := <-a.updates:
			update.f()
			if update.done != nil {
				close(update.done)
			}
		}
	}
}

func (a *Application) openScreen() (tcell.Screen, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		if err := screen.Init(); err != nil {
			return nil, err
		}
		a.screen = screen
	}
	a.screen.EnableMouse()
	return a.screen, nil
}

// handleEvent dispatches a terminal event and reports whether the screen
// needs to be redrawn.
func (a *Application) handleEvent(event tcell.Event) bool {
	switch event := event.(type) {
	case *tcell.EventKey:
		root := a.rootPrimitive()
		if root == nil || !root.HasFocus() {
			return false
		}
		return a.execute(root.InputHandler(event))

	case *tcell.EventResize:
		a.mu.Lock()
		a.clearScreen = true
		a.mu.Unlock()
		return true

	case *tcell.EventMouse:
		x, y := event.Position()
		redraw := false
		for _, action := range a.mouse.track(x, y, event.Buttons()) {
			if a.fireMouse(action, event) {
				redraw = true
			}
		}
		return redraw
	}
	return false
}

// fireMouse sends a mouse action to the primitive capturing the mouse, or to
// the root if there is none.
func (a *Application) fireMouse(action MouseAction, event *tcell.EventMouse) bool {
	target := a.capture
	if target == nil {
		target = a.rootPrimitive()
	}
	if target == nil {
		return false
	}
	capture, cmd := target.MouseHandler(action, event)
	a.capture = capture
	return a.execute(cmd)
}

// execute carries out cmd and reports whether it changed what is on screen.
func (a *Application) execute(cmd Command) bool {
	switch cmd := cmd.(type) {
	case BatchCommand:
		redraw := false
		for _, c := range cmd {
			if a.execute(c) {
				redraw = true
			}
		}
		return redraw
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
	case SetFocusCommand:
		if cmd.Target != nil && a.GetFocus() != cmd.Target {
			a.SetFocus(cmd.Target)
			return true
		}
	}
	return false
}

// Stop releases the terminal, which makes Run return.
func (a *Application) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.screen != nil {
		a.screen.Fini()
		a.screen = nil
	}
}

func (a *Application) draw() {
	a.mu.Lock()
	screen, root, clearScreen := a.screen, a.root, a.clearScreen
	a.clearScreen = false
	a.mu.Unlock()

	if screen == nil || root == nil {
		return
	}
	width, height := screen.Size()
	root.SetRect(0, 0, width, height)
	if clearScreen {
		screen.Clear()
	}
	root.Draw(screen)
	root.MarkClean()
	screen.Show()
}

func (a *Application) rootPrimitive() Primitive {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.root
}

// SetRoot sets the primitive filling the screen and gives it the focus.
func (a *Application) SetRoot(root Primitive) *Application {
	a.mu.Lock()
	a.root = root
	a.clearScreen = true
	a.mu.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus moves the focus to p, blurring the previously focused primitive.
func (a *Application) SetFocus(p Primitive) *Application {
	a.mu.Lock()
	previous := a.focus
	a.focus = p
	a.mu.Unlock()

	if previous != nil {
		previous.Blur()
	}
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

// GetFocus returns the primitive which has the focus.
func (a *Application) GetFocus() Primitive {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focus
}

// QueueUpdate runs f on the event loop and waits until it has run. It returns
// early once the event loop has ended.
func (a *Application) QueueUpdate(f func()) *Application {
	done := make(chan struct{})
	select {
	case a.updates <- queuedUpdate{f: f, done: done}:
	case <-a.stopped:
		return a
	}
	select {
	case <-done:
	case <-a.stopped:
	}
	return a
}

// QueueUpdateDraw works like QueueUpdate and redraws the screen after f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	return a.QueueUpdate(func() {
		f()
		a.draw()
	})
}

// Schedule implements Scheduler. f runs on the event loop after d and is
// followed by a redraw. Callbacks due after the loop ended are dropped.
func (a *Application) Schedule(d time.Duration, f func()) {
	time.AfterFunc(d, func() {
		a.QueueUpdateDraw(f)
	})
}

var _ Scheduler = &Application{}
