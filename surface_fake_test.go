package barview

import (
	"time"
	"weak"
)

type offsetCall struct {
	y        float64
	duration time.Duration
}

// fakeSurface is a ScrollSurface that applies every offset change
// immediately and reports it to its observers.
type fakeSurface struct {
	offset        float64
	contentHeight float64
	boundsHeight  float64
	insets        Insets
	indicatorTop  float64

	offsetCalls []offsetCall
	stops       int

	offsetObservers map[int]func(float64)
	sizeObservers   map[int]func(float64)
	dragObservers   map[int]DragObserver
	nextID          int
}

func newFakeSurface(contentHeight, boundsHeight float64) *fakeSurface {
	return &fakeSurface{
		contentHeight:   contentHeight,
		boundsHeight:    boundsHeight,
		offsetObservers: map[int]func(float64){},
		sizeObservers:   map[int]func(float64){},
		dragObservers:   map[int]DragObserver{},
	}
}

func (s *fakeSurface) ContentOffset() float64 { return s.offset }
func (s *fakeSurface) ContentHeight() float64 { return s.contentHeight }
func (s *fakeSurface) BoundsHeight() float64  { return s.boundsHeight }
func (s *fakeSurface) ContentInset() Insets   { return s.insets }
func (s *fakeSurface) StopDeceleration()      { s.stops++ }

func (s *fakeSurface) SetContentInsetTop(top float64)         { s.insets.Top = top }
func (s *fakeSurface) SetContentInsetBottom(bottom float64)   { s.insets.Bottom = bottom }
func (s *fakeSurface) SetScrollIndicatorInsetTop(top float64) { s.indicatorTop = top }

func (s *fakeSurface) SetContentOffset(y float64, duration time.Duration) {
	s.offsetCalls = append(s.offsetCalls, offsetCall{y: y, duration: duration})
	s.scroll(y)
}

func (s *fakeSurface) ObserveOffset(f func(float64)) Subscription {
	id := s.register(func() { s.offsetObservers[s.nextID] = f })
	f(s.offset)
	return s.subscription(func(s *fakeSurface) { delete(s.offsetObservers, id) })
}

func (s *fakeSurface) ObserveContentSize(f func(float64)) Subscription {
	id := s.register(func() { s.sizeObservers[s.nextID] = f })
	f(s.contentHeight)
	return s.subscription(func(s *fakeSurface) { delete(s.sizeObservers, id) })
}

func (s *fakeSurface) ObserveDrag(observer DragObserver) Subscription {
	id := s.register(func() { s.dragObservers[s.nextID] = observer })
	return s.subscription(func(s *fakeSurface) { delete(s.dragObservers, id) })
}

func (s *fakeSurface) subscription(cancel func(s *fakeSurface)) Subscription {
	w := weak.Make(s)
	return SubscriptionFunc(func() {
		if s := w.Value(); s != nil {
			cancel(s)
		}
	})
}

func (s *fakeSurface) register(add func()) int {
	s.nextID++
	add()
	return s.nextID
}

// scroll moves the content as a user would, notifying even when the value
// does not change.
func (s *fakeSurface) scroll(y float64) {
	s.offset = y
	for _, f := range s.offsetObservers {
		f(y)
	}
}

func (s *fakeSurface) setContentHeight(height float64) {
	s.contentHeight = height
	for _, f := range s.sizeObservers {
		f(height)
	}
}

func (s *fakeSurface) dragBegan() {
	for _, o := range s.dragObservers {
		o.DragBegan()
	}
}

func (s *fakeSurface) dragEnded() {
	for _, o := range s.dragObservers {
		o.DragEnded()
	}
}

func (s *fakeSurface) observerCount() int {
	return len(s.offsetObservers) + len(s.sizeObservers) + len(s.dragObservers)
}

func (s *fakeSurface) ref() SurfaceRef {
	return func() ScrollSurface { return s }
}

type notification struct {
	state  State
	height float64
}

type recorder struct {
	notifications []notification
}

func (r *recorder) BarStateChanged(state State, height float64) {
	r.notifications = append(r.notifications, notification{state: state, height: height})
}

func (r *recorder) last() notification {
	return r.notifications[len(r.notifications)-1]
}

func (r *recorder) ref() SubscriberRef {
	return func() Subscriber { return r }
}

// manualScheduler collects scheduled functions until the test runs them.
type manualScheduler struct {
	pending []scheduled
}

type scheduled struct {
	delay time.Duration
	f     func()
}

func (s *manualScheduler) Schedule(d time.Duration, f func()) {
	s.pending = append(s.pending, scheduled{delay: d, f: f})
}

// runNext runs the oldest pending function and reports whether there was
// one.
func (s *manualScheduler) runNext() bool {
	if len(s.pending) == 0 {
		return false
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	next.f()
	return true
}

// runAll runs pending functions, including ones they schedule, up to limit.
func (s *manualScheduler) runAll(limit int) int {
	n := 0
	for n < limit && s.runNext() {
		n++
	}
	return n
}
