package barview

import "math"

// reachableDistance is how close to the normal anchor a drag must start for
// the expanded region to stay reachable during that drag.
const reachableDistance = 2

// controllerSession is the mutable state a BarController keeps for the
// surface it is attached to.
type controllerSession struct {
	state State

	// Last offset observed in the compact/normal regime.
	previousOffsetY    float64
	hasPreviousOffsetY bool

	// Whether the expanded anchor can be reached from the current position.
	expandedReachable bool
}

func (s *controllerSession) setBaseline(offsetY float64) {
	s.previousOffsetY = offsetY
	s.hasPreviousOffsetY = true
}

// BarController drives the height of a bar sitting at the leading edge of a
// scroll surface. It observes the surface's offset, content size and drags,
// keeps a continuous State between the compact, normal and expanded anchors,
// adjusts the surface's insets, and snaps to the nearest anchor when a drag
// ends.
//
// The controller holds neither the surface nor its subscriber alive. Once
// either is gone the corresponding work is skipped.
//
// All methods must be called on the surface's interaction goroutine.
type BarController struct {
	surface    SurfaceRef
	subscriber SubscriberRef
	config     Configuration

	session       controllerSession
	subscriptions []Subscription
	closed        bool
}

// NewBarController attaches a controller to the surface and positions the
// surface for the configuration's initial state. No subscriber is notified
// until one is attached with SetSubscriber.
func NewBarController(surface SurfaceRef, config Configuration) (*BarController, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	c := &BarController{
		surface: surface,
		config:  config,
		session: controllerSession{
			state:             config.initialState,
			expandedReachable: config.initialState == Expanded,
		},
	}

	s := c.resolveSurface()
	if s == nil {
		return c, nil
	}

	top := config.normalHeight
	if expanded, ok := config.ExpandedHeight(); ok && c.session.expandedReachable {
		top = expanded
	}
	s.SetContentInsetTop(top)
	s.SetScrollIndicatorInsetTop(config.normalHeight)

	height, _ := config.HeightFor(config.initialState)
	s.StopDeceleration()
	s.SetContentOffset(-height, 0)
	if config.initialState != Expanded {
		// Keeps a compact start from being reset to normal by the replayed
		// offset observation below.
		c.session.setBaseline(-height)
	}

	// Observers are registered only after the surface is positioned and the
	// baseline seeded, not before. Registering first would let the initial
	// offset replay reclassify a compact start as normal.
	c.subscriptions = append(c.subscriptions,
		s.ObserveOffset(c.offsetChanged),
		s.ObserveContentSize(c.contentSizeChanged),
		s.ObserveDrag(c),
	)
	return c, nil
}

// Configuration returns the controller's configuration.
func (c *BarController) Configuration() Configuration {
	return c.config
}

// State returns the current continuous state.
func (c *BarController) State() State {
	return c.session.state
}

// ExpandedReachable returns whether the expanded anchor can currently be
// reached by scrolling.
func (c *BarController) ExpandedReachable() bool {
	return c.session.expandedReachable
}

// Height returns the bar height for the current state.
func (c *BarController) Height() float64 {
	return c.heightFor(c.session.state)
}

func (c *BarController) heightFor(state State) float64 {
	normal := c.config.normalHeight
	if expanded, ok := c.config.ExpandedHeight(); ok && state > Normal {
		return mapRange(float64(state), float64(Normal), float64(Expanded), normal, expanded)
	}
	if compact, ok := c.config.CompactHeight(); ok {
		return mapRange(float64(state), float64(Compact), float64(Normal), compact, normal)
	}
	return normal
}

// SetSubscriber sets the subscriber notified about state changes and
// immediately replays the current state and height to it. Pass nil to
// detach.
func (c *BarController) SetSubscriber(subscriber SubscriberRef) *BarController {
	if c.closed {
		return c
	}
	c.subscriber = subscriber
	c.notify()
	return c
}

// SetExpanded animates the surface to the expanded anchor, or back to the
// normal anchor. It does nothing if no expanded height is configured.
func (c *BarController) SetExpanded(expanded bool) {
	expandedHeight, ok := c.config.ExpandedHeight()
	if !ok || c.closed {
		return
	}
	s := c.resolveSurface()
	if s == nil {
		return
	}
	c.session.expandedReachable = true
	target := -c.config.normalHeight
	if expanded {
		target = -expandedHeight
	}
	c.scrollTo(s, target)
}

// DragBegan implements DragObserver. It decides whether the expanded region
// stays reachable for the drag and sets the leading inset accordingly.
func (c *BarController) DragBegan() {
	if c.closed {
		return
	}
	s := c.resolveSurface()
	if s == nil {
		return
	}

	offsetY := s.ContentOffset()
	normal := c.config.normalHeight
	expanded, hasExpanded := c.config.ExpandedHeight()
	c.session.expandedReachable = (hasExpanded && math.Abs(offsetY+normal) <= reachableDistance) ||
		(c.session.expandedReachable && offsetY <= -normal)

	top := normal
	if c.session.expandedReachable && hasExpanded {
		top = expanded
	}
	s.SetContentInsetTop(top)
}

// DragEnded implements DragObserver. It snaps the surface toward the nearest
// anchor.
func (c *BarController) DragEnded() {
	if c.closed {
		return
	}
	s := c.resolveSurface()
	if s == nil {
		return
	}

	offsetY := s.ContentOffset()
	normal := c.config.normalHeight
	state := float64(c.session.state)

	if c.session.expandedReachable && offsetY <= -normal {
		if height, ok := c.config.HeightFor(State(math.RoundToEven(state))); ok {
			c.scrollTo(s, -height)
			return
		}
	}

	compact, ok := c.config.CompactHeight()
	remainder := math.Mod(state, 1)
	if remainder == 0 || !ok {
		return
	}
	span := normal - compact
	delta := -span * (1 - remainder)
	if remainder < 0.5 {
		delta = span * remainder
	}
	c.scrollTo(s, offsetY+delta)
}

// Close releases the surface observers and the subscriber. It is safe to call
// more than once.
func (c *BarController) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, subscription := range c.subscriptions {
		if subscription != nil {
			subscription.Cancel()
		}
	}
	c.subscriptions = nil
	c.subscriber = nil
}

func (c *BarController) offsetChanged(offsetY float64) {
	if c.closed {
		return
	}
	s := c.resolveSurface()
	if s == nil {
		return
	}

	normal := c.config.normalHeight
	if expanded, ok := c.config.ExpandedHeight(); ok && c.session.expandedReachable && offsetY < -normal {
		state := State(mapRange(offsetY, -expanded, -normal, float64(Expanded), float64(Normal)))
		c.setState(clampState(state, Normal, Expanded))
		return
	}

	previousOffsetY, hasPrevious := c.session.previousOffsetY, c.session.hasPreviousOffsetY
	c.session.setBaseline(offsetY)

	compact, hasCompact := c.config.CompactHeight()
	if !hasPrevious || !hasCompact {
		c.setState(Normal)
		return
	}

	deltaY := previousOffsetY - offsetY

	// Ignore movement that only happens because the surface is past its
	// natural bounds and bouncing back.
	insets := s.ContentInset()
	start := -insets.Top
	if previousOffsetY < start && deltaY < 0 {
		deltaY = math.Min(deltaY-(previousOffsetY-start), 0)
	}
	end := math.Floor(s.ContentHeight() - s.BoundsHeight() + insets.Bottom - c.config.overscrollSlack)
	if previousOffsetY > end && deltaY > 0 {
		deltaY = math.Max(deltaY-(previousOffsetY-end), 0)
	}

	span := normal - compact
	stateSpan := float64(Normal - Compact)
	stateDelta := mapRange(deltaY, -span, span, -stateSpan, stateSpan)
	c.setState(clampState(c.session.state+State(stateDelta), Compact, Normal))
}

func (c *BarController) contentSizeChanged(contentHeight float64) {
	if c.closed {
		return
	}
	s := c.resolveSurface()
	if s == nil {
		return
	}

	anchor := c.config.normalHeight
	if compact, ok := c.config.CompactHeight(); ok {
		anchor = compact
	}
	var bottom float64
	if reachable := s.BoundsHeight() - anchor; contentHeight < reachable {
		bottom = reachable - contentHeight
	}
	s.SetContentInsetBottom(bottom)
}

func (c *BarController) setState(state State) {
	if state == c.session.state {
		return
	}
	c.session.state = state
	c.notify()
}

func (c *BarController) notify() {
	if c.subscriber == nil {
		return
	}
	subscriber := c.subscriber()
	if subscriber == nil {
		return
	}
	subscriber.BarStateChanged(c.session.state, c.Height())
}

func (c *BarController) scrollTo(s ScrollSurface, offsetY float64) {
	s.StopDeceleration()
	s.SetContentOffset(offsetY, c.config.animationDuration)
}

func (c *BarController) resolveSurface() ScrollSurface {
	if c.surface == nil {
		return nil
	}
	return c.surface()
}

var _ DragObserver = &BarController{}
