package barview

import (
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, surface *fakeSurface, normal float64, opts ...ConfigOption) (*BarController, *recorder) {
	t.Helper()
	config, err := NewConfiguration(normal, opts...)
	require.NoError(t, err)
	c, err := NewBarController(surface.ref(), config)
	require.NoError(t, err)
	rec := &recorder{}
	c.SetSubscriber(rec.ref())
	return c, rec
}

func TestNewBarControllerRejectsInvalidConfiguration(t *testing.T) {
	_, err := NewBarController(newFakeSurface(100, 100).ref(), Configuration{})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewBarControllerPositionsSurface(t *testing.T) {
	tests := []struct {
		name        string
		opts        []ConfigOption
		wantOffset  float64
		wantInset   float64
		wantState   State
		wantHeight  float64
		wantReached bool
	}{
		{
			name:       "normal",
			opts:       []ConfigOption{WithExpandedHeight(200), WithCompactHeight(60)},
			wantOffset: -100, wantInset: 100, wantState: Normal, wantHeight: 100,
		},
		{
			name:       "compact",
			opts:       []ConfigOption{WithCompactHeight(60), WithInitialState(Compact)},
			wantOffset: -60, wantInset: 100, wantState: Compact, wantHeight: 60,
		},
		{
			name:       "expanded",
			opts:       []ConfigOption{WithExpandedHeight(200), WithInitialState(Expanded)},
			wantOffset: -200, wantInset: 200, wantState: Expanded, wantHeight: 200, wantReached: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface(1000, 300)
			c, rec := newTestController(t, surface, 100, tt.opts...)

			assert.Equal(t, tt.wantOffset, surface.offset)
			assert.Equal(t, tt.wantInset, surface.insets.Top)
			assert.Equal(t, 100.0, surface.indicatorTop)
			assert.Equal(t, 3, surface.observerCount())
			assert.Equal(t, tt.wantReached, c.ExpandedReachable())
			require.Len(t, rec.notifications, 1)
			assert.Equal(t, notification{state: tt.wantState, height: tt.wantHeight}, rec.notifications[0])
		})
	}
}

func TestBarControllerMapsExpandedRegion(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithExpandedHeight(200))

	surface.dragBegan()
	require.True(t, c.ExpandedReachable())
	assert.Equal(t, 200.0, surface.insets.Top)

	surface.scroll(-150)
	assert.Equal(t, State(1.5), c.State())
	assert.Equal(t, notification{state: 1.5, height: 150}, rec.last())

	surface.scroll(-250)
	assert.Equal(t, Expanded, c.State())
}

func TestBarControllerExpandedRegionNeedsReachability(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithExpandedHeight(200))

	// Starting far from the normal anchor keeps the expanded region closed.
	surface.scroll(300)
	surface.dragBegan()
	assert.False(t, c.ExpandedReachable())
	assert.Equal(t, 100.0, surface.insets.Top)

	surface.scroll(-150)
	assert.Equal(t, Normal, c.State())
	assert.Len(t, rec.notifications, 1)
}

func TestBarControllerMapsCompactRegion(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithCompactHeight(60))

	c.session.setBaseline(0)
	surface.scroll(20)
	assert.InDelta(t, 0.5, float64(c.State()), 1e-9)
	assert.InDelta(t, 80, rec.last().height, 1e-9)

	surface.scroll(200)
	assert.Equal(t, Compact, c.State())
	assert.Equal(t, notification{state: Compact, height: 60}, rec.last())

	surface.scroll(0)
	assert.Equal(t, Normal, c.State())
}

func TestBarControllerWithoutCompactStaysNormal(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100)

	surface.scroll(400)
	surface.scroll(20)
	assert.Equal(t, Normal, c.State())
	assert.Len(t, rec.notifications, 1)
}

func TestBarControllerSameOffsetNotifiesOnce(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithCompactHeight(60))

	c.session.setBaseline(0)
	surface.scroll(20)
	surface.scroll(20)
	assert.Len(t, rec.notifications, 2)
}

func TestBarControllerIgnoresOverscroll(t *testing.T) {
	t.Run("leading edge", func(t *testing.T) {
		surface := newFakeSurface(1000, 300)
		c, _ := newTestController(t, surface, 100, WithCompactHeight(60))

		// Returning from -130 counts only the movement inside the leading
		// bound at -100.
		c.session.setBaseline(-130)
		surface.scroll(-90)
		assert.InDelta(t, 0.75, float64(c.State()), 1e-9)
	})
	t.Run("trailing edge", func(t *testing.T) {
		surface := newFakeSurface(1000, 300)
		c, _ := newTestController(t, surface, 100, WithCompactHeight(60))

		// The trailing bound is floor(1000-300+0-0.5) = 699.
		c.session.state = 0
		c.session.setBaseline(740)
		surface.scroll(709)
		assert.Equal(t, Compact, c.State())
		surface.scroll(689)
		assert.InDelta(t, 0.25, float64(c.State()), 1e-9)
	})
}

func TestBarControllerKeepsBaselineAcrossExpandedRegion(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, _ := newTestController(t, surface, 100, WithExpandedHeight(200), WithCompactHeight(60))

	surface.dragBegan()
	surface.scroll(-180)
	assert.InDelta(t, 1.8, float64(c.State()), 1e-9)
	assert.Equal(t, -100.0, c.session.previousOffsetY)

	// The first compact-regime delta is measured from -100, not -180.
	surface.scroll(-90)
	assert.Equal(t, Normal, c.State())
	assert.Equal(t, -90.0, c.session.previousOffsetY)
}

func TestBarControllerDragEndSnapsToCompactRegion(t *testing.T) {
	tests := []struct {
		name       string
		scrollTo   float64
		wantTarget float64
		wantState  State
	}{
		{name: "toward compact", scrollTo: 28, wantTarget: 40, wantState: Compact},
		{name: "toward normal", scrollTo: 12, wantTarget: 0, wantState: Normal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface(1000, 300)
			c, _ := newTestController(t, surface, 100, WithCompactHeight(60))
			c.session.setBaseline(0)

			surface.dragBegan()
			surface.scroll(tt.scrollTo)
			stops := surface.stops
			surface.dragEnded()

			require.NotEmpty(t, surface.offsetCalls)
			call := surface.offsetCalls[len(surface.offsetCalls)-1]
			assert.InDelta(t, tt.wantTarget, call.y, 1e-9)
			assert.Equal(t, DefaultAnimationDuration, call.duration)
			assert.Equal(t, stops+1, surface.stops)
			assert.InDelta(t, float64(tt.wantState), float64(c.State()), 1e-9)
		})
	}
}

func TestBarControllerDragEndSnapsToExpandedRegion(t *testing.T) {
	tests := []struct {
		name       string
		scrollTo   float64
		wantTarget float64
		wantState  State
	}{
		{name: "round up", scrollTo: -160, wantTarget: -200, wantState: Expanded},
		{name: "round down", scrollTo: -140, wantTarget: -100, wantState: Normal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface(1000, 300)
			c, rec := newTestController(t, surface, 100, WithExpandedHeight(200))

			surface.dragBegan()
			surface.scroll(tt.scrollTo)
			surface.dragEnded()

			call := surface.offsetCalls[len(surface.offsetCalls)-1]
			assert.Equal(t, tt.wantTarget, call.y)
			assert.Equal(t, tt.wantState, c.State())
			assert.Equal(t, tt.wantState, rec.last().state)
		})
	}
}

func TestBarControllerDragEndAtAnchorDoesNothing(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, _ := newTestController(t, surface, 100, WithCompactHeight(60))

	surface.dragBegan()
	calls := len(surface.offsetCalls)
	surface.dragEnded()
	assert.Len(t, surface.offsetCalls, calls)
	assert.Equal(t, Normal, c.State())
}

func TestBarControllerSetExpanded(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithExpandedHeight(200))

	c.SetExpanded(true)
	assert.True(t, c.ExpandedReachable())
	assert.Equal(t, offsetCall{y: -200, duration: DefaultAnimationDuration}, surface.offsetCalls[len(surface.offsetCalls)-1])
	assert.Equal(t, notification{state: Expanded, height: 200}, rec.last())

	c.SetExpanded(false)
	assert.Equal(t, -100.0, surface.offset)
	assert.Equal(t, Normal, c.State())
}

func TestBarControllerSetExpandedWithoutExpandedHeight(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithCompactHeight(60))
	insets := surface.insets
	calls := len(surface.offsetCalls)

	c.SetExpanded(false)
	c.SetExpanded(true)

	assert.Equal(t, insets, surface.insets)
	assert.Len(t, surface.offsetCalls, calls)
	assert.False(t, c.ExpandedReachable())
	assert.Equal(t, Normal, c.State())
	assert.Len(t, rec.notifications, 1)
}

func TestBarControllerBottomInset(t *testing.T) {
	tests := []struct {
		name    string
		opts    []ConfigOption
		content float64
		want    float64
	}{
		{name: "short content with compact", opts: []ConfigOption{WithCompactHeight(60)}, content: 100, want: 140},
		{name: "short content without compact", content: 100, want: 100},
		{name: "long content", opts: []ConfigOption{WithCompactHeight(60)}, content: 500, want: 0},
		{name: "exact fit", opts: []ConfigOption{WithCompactHeight(60)}, content: 240, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := newFakeSurface(1000, 300)
			newTestController(t, surface, 100, tt.opts...)

			surface.setContentHeight(tt.content)
			assert.Equal(t, tt.want, surface.insets.Bottom)
		})
	}
}

func TestBarControllerStateStaysInRange(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithExpandedHeight(200), WithCompactHeight(60))

	r := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		switch r.IntN(5) {
		case 0:
			surface.dragBegan()
		case 1:
			surface.dragEnded()
		case 2:
			c.SetExpanded(r.IntN(2) == 0)
		default:
			surface.scroll(r.Float64()*1500 - 300)
		}
		require.GreaterOrEqual(t, float64(c.State()), 0.0)
		require.LessOrEqual(t, float64(c.State()), 2.0)
	}
	for _, n := range rec.notifications {
		require.GreaterOrEqual(t, n.height, 60.0)
		require.LessOrEqual(t, n.height, 200.0)
	}
}

func TestBarControllerReleasedSurface(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	var live ScrollSurface = surface
	config := MustConfiguration(100, WithExpandedHeight(200), WithCompactHeight(60))
	c, err := NewBarController(func() ScrollSurface { return live }, config)
	require.NoError(t, err)

	live = nil
	calls := len(surface.offsetCalls)
	surface.dragBegan()
	surface.scroll(-150)
	surface.dragEnded()
	c.SetExpanded(true)
	surface.setContentHeight(10)

	assert.Equal(t, Normal, c.State())
	assert.Len(t, surface.offsetCalls, calls)
	assert.Equal(t, 0.0, surface.insets.Bottom)
}

func TestBarControllerWithoutSurface(t *testing.T) {
	c, err := NewBarController(nil, MustConfiguration(100, WithInitialState(Normal)))
	require.NoError(t, err)

	rec := &recorder{}
	c.SetSubscriber(rec.ref())
	c.SetExpanded(true)
	c.DragBegan()
	c.DragEnded()
	assert.Equal(t, []notification{{state: Normal, height: 100}}, rec.notifications)
}

func TestBarControllerReleasedSubscriber(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, _ := newTestController(t, surface, 100, WithCompactHeight(60))
	c.SetSubscriber(func() Subscriber { return nil })

	c.session.setBaseline(0)
	assert.NotPanics(t, func() { surface.scroll(20) })
	assert.InDelta(t, 0.5, float64(c.State()), 1e-9)
}

func TestBarControllerClose(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, rec := newTestController(t, surface, 100, WithExpandedHeight(200))

	c.Close()
	c.Close()
	assert.Zero(t, surface.observerCount())

	c.DragBegan()
	c.SetExpanded(true)
	c.SetSubscriber(rec.ref())
	assert.False(t, c.ExpandedReachable())
	assert.Len(t, rec.notifications, 1)
}

func TestBarControllerWeakReferences(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	rec := &recorder{}
	c, err := NewBarController(WeakSurface(surface), MustConfiguration(100))
	require.NoError(t, err)
	c.SetSubscriber(WeakSubscriber(rec))

	assert.Equal(t, []notification{{state: Normal, height: 100}}, rec.notifications)
	assert.Nil(t, WeakSurface[fakeSurface](nil))
}

func collectGarbage() {
	for range 5 {
		runtime.GC()
	}
}

func TestBarControllerDoesNotRetainSurface(t *testing.T) {
	t.Run("fake", func(t *testing.T) {
		surface := newFakeSurface(1000, 300)
		ref := WeakSurface(surface)
		c, err := NewBarController(ref, MustConfiguration(100))
		require.NoError(t, err)

		surface = nil
		collectGarbage()

		assert.Nil(t, ref())
		c.SetExpanded(true)
		c.Close()
		runtime.KeepAlive(c)
	})

	t.Run("scroll view", func(t *testing.T) {
		view := NewScrollView()
		view.SetRect(0, 0, 40, 10)
		ref := WeakSurface(view)
		c, err := NewBarController(ref, MustConfiguration(3))
		require.NoError(t, err)

		view = nil
		collectGarbage()

		assert.Nil(t, ref())
		assert.Equal(t, Normal, c.State())
		c.Close()
		runtime.KeepAlive(c)
	})
}

func TestBarControllerDoesNotRetainSubscriber(t *testing.T) {
	surface := newFakeSurface(1000, 300)
	c, err := NewBarController(WeakSurface(surface), MustConfiguration(100))
	require.NoError(t, err)
	header := NewHeaderBar("title")
	ref := WeakSubscriber(header)
	c.SetSubscriber(ref)

	header = nil
	collectGarbage()

	assert.Nil(t, ref())
	c.SetExpanded(false)
	runtime.KeepAlive(c)
	runtime.KeepAlive(surface)
}
