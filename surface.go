package barview

import (
	"time"
	"weak"
)

// Insets is the reserved space at the leading and trailing edges of a scroll
// surface, in surface units.
type Insets struct {
	Top    float64
	Bottom float64
}

// Subscription is returned by observer registrations. Cancel stops further
// deliveries and may be called more than once.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a function to the Subscription interface.
type SubscriptionFunc func()

// Cancel calls f.
func (f SubscriptionFunc) Cancel() {
	if f != nil {
		f()
	}
}

// DragObserver receives the lifecycle of a user drag on a scroll surface.
type DragObserver interface {
	DragBegan()
	DragEnded()
}

// ScrollSurface is the vertical scroll container a BarController drives. All
// methods are called on the surface's interaction goroutine.
type ScrollSurface interface {
	// ContentOffset returns the vertical content offset. It is negative while
	// the leading inset is visible.
	ContentOffset() float64
	// ContentHeight returns the height of the scrollable content.
	ContentHeight() float64
	// BoundsHeight returns the height of the viewport.
	BoundsHeight() float64
	// ContentInset returns the current content insets.
	ContentInset() Insets

	SetContentInsetTop(top float64)
	SetContentInsetBottom(bottom float64)
	SetScrollIndicatorInsetTop(top float64)

	// SetContentOffset moves the content. A positive duration animates the
	// change; the call returns without waiting for the animation.
	SetContentOffset(y float64, duration time.Duration)
	// StopDeceleration cancels any in-flight momentum or animation.
	StopDeceleration()

	// ObserveOffset calls f with the current offset immediately and after
	// every change.
	ObserveOffset(f func(y float64)) Subscription
	// ObserveContentSize calls f with the current content height immediately
	// and after every change of content or bounds height.
	ObserveContentSize(f func(height float64)) Subscription
	// ObserveDrag registers a drag lifecycle observer.
	ObserveDrag(observer DragObserver) Subscription
}

// Subscriber is notified of bar state changes.
type Subscriber interface {
	BarStateChanged(state State, height float64)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(state State, height float64)

// BarStateChanged calls f.
func (f SubscriberFunc) BarStateChanged(state State, height float64) {
	f(state, height)
}

// SurfaceRef resolves a non-owning reference to a scroll surface. It returns
// nil once the surface is gone.
type SurfaceRef func() ScrollSurface

// SubscriberRef resolves a non-owning reference to a subscriber. It returns
// nil once the subscriber is gone.
type SubscriberRef func() Subscriber

// WeakSurface returns a SurfaceRef that does not keep p alive.
func WeakSurface[T any, P interface {
	*T
	ScrollSurface
}](p P) SurfaceRef {
	if p == nil {
		return nil
	}
	w := weak.Make((*T)(p))
	return func() ScrollSurface {
		v := w.Value()
		if v == nil {
			return nil
		}
		return P(v)
	}
}

// WeakSubscriber returns a SubscriberRef that does not keep p alive.
func WeakSubscriber[T any, P interface {
	*T
	Subscriber
}](p P) SubscriberRef {
	if p == nil {
		return nil
	}
	w := weak.Make((*T)(p))
	return func() Subscriber {
		v := w.Value()
		if v == nil {
			return nil
		}
		return P(v)
	}
}
