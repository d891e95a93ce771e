package barview

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfiguration is returned when a Configuration's heights or
// initial state are inconsistent.
var ErrInvalidConfiguration = errors.New("barview: invalid configuration")

const (
	// DefaultAnimationDuration is used for programmatic offset changes.
	DefaultAnimationDuration = 250 * time.Millisecond
	// DefaultOverscrollSlack is subtracted from the bottom scroll bound before
	// flooring it when damping overscroll jitter.
	DefaultOverscrollSlack = 0.5
)

// Configuration describes the bar's anchor heights and the state it starts
// in. It is immutable once constructed; use NewConfiguration.
type Configuration struct {
	normalHeight   float64
	expandedHeight float64 // 0 when not configured.
	compactHeight  float64 // 0 when not configured.
	initialState   State

	animationDuration time.Duration
	overscrollSlack   float64
}

// ConfigOption configures optional Configuration fields.
type ConfigOption func(*Configuration)

// WithExpandedHeight enables the expanded anchor.
func WithExpandedHeight(height float64) ConfigOption {
	return func(c *Configuration) {
		c.expandedHeight = height
	}
}

// WithCompactHeight enables the compact anchor.
func WithCompactHeight(height float64) ConfigOption {
	return func(c *Configuration) {
		c.compactHeight = height
	}
}

// WithInitialState sets the anchor the controller starts in.
func WithInitialState(state State) ConfigOption {
	return func(c *Configuration) {
		c.initialState = state
	}
}

// WithAnimationDuration sets the duration of animated offset changes. Zero
// disables animation.
func WithAnimationDuration(d time.Duration) ConfigOption {
	return func(c *Configuration) {
		c.animationDuration = d
	}
}

// WithOverscrollSlack overrides DefaultOverscrollSlack.
func WithOverscrollSlack(slack float64) ConfigOption {
	return func(c *Configuration) {
		c.overscrollSlack = slack
	}
}

// NewConfiguration returns a validated configuration. The error wraps
// ErrInvalidConfiguration.
func NewConfiguration(normalHeight float64, options ...ConfigOption) (Configuration, error) {
	c := Configuration{
		normalHeight:      normalHeight,
		initialState:      Normal,
		animationDuration: DefaultAnimationDuration,
		overscrollSlack:   DefaultOverscrollSlack,
	}
	for _, option := range options {
		option(&c)
	}
	if err := c.validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// MustConfiguration is like NewConfiguration but panics on invalid input.
func MustConfiguration(normalHeight float64, options ...ConfigOption) Configuration {
	c, err := NewConfiguration(normalHeight, options...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Configuration) validate() error {
	switch {
	case !(c.normalHeight > 0):
		return fmt.Errorf("%w: normal height %v must be positive", ErrInvalidConfiguration, c.normalHeight)
	case c.expandedHeight != 0 && !(c.expandedHeight > c.normalHeight):
		return fmt.Errorf("%w: expanded height %v must exceed normal height %v", ErrInvalidConfiguration, c.expandedHeight, c.normalHeight)
	case c.compactHeight != 0 && !(c.compactHeight > 0 && c.compactHeight < c.normalHeight):
		return fmt.Errorf("%w: compact height %v must be within (0, %v)", ErrInvalidConfiguration, c.compactHeight, c.normalHeight)
	case !c.initialState.IsAnchor():
		return fmt.Errorf("%w: initial state %v is not an anchor", ErrInvalidConfiguration, c.initialState)
	case c.animationDuration < 0:
		return fmt.Errorf("%w: negative animation duration", ErrInvalidConfiguration)
	case !(c.overscrollSlack >= 0):
		return fmt.Errorf("%w: overscroll slack %v must not be negative", ErrInvalidConfiguration, c.overscrollSlack)
	}
	if _, ok := c.HeightFor(c.initialState); !ok {
		return fmt.Errorf("%w: no height configured for initial state %v", ErrInvalidConfiguration, c.initialState)
	}
	return nil
}

// NormalHeight returns the height of the normal anchor.
func (c Configuration) NormalHeight() float64 {
	return c.normalHeight
}

// ExpandedHeight returns the expanded height, if configured.
func (c Configuration) ExpandedHeight() (float64, bool) {
	return c.expandedHeight, c.expandedHeight > 0
}

// CompactHeight returns the compact height, if configured.
func (c Configuration) CompactHeight() (float64, bool) {
	return c.compactHeight, c.compactHeight > 0
}

// InitialState returns the anchor the controller starts in.
func (c Configuration) InitialState() State {
	return c.initialState
}

// AnimationDuration returns the duration of animated offset changes.
func (c Configuration) AnimationDuration() time.Duration {
	return c.animationDuration
}

// OverscrollSlack returns the bottom bound rounding slack.
func (c Configuration) OverscrollSlack() float64 {
	return c.overscrollSlack
}

// HeightFor returns the configured height of an anchor. The normal anchor is
// always configured; fractional states have no height.
func (c Configuration) HeightFor(anchor State) (float64, bool) {
	switch anchor {
	case Compact:
		return c.CompactHeight()
	case Normal:
		return c.normalHeight, c.normalHeight > 0
	case Expanded:
		return c.ExpandedHeight()
	}
	return 0, false
}
