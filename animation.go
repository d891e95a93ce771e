package barview

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Scheduler runs f on the interaction goroutine once d has elapsed.
// [Application] implements it.
type Scheduler interface {
	Schedule(d time.Duration, f func())
}

const (
	animationFPS   = 30
	animationFrame = time.Second / animationFPS
)

// offsetAnimator moves an offset toward a target over a fixed duration. The
// curve is a critically damped spring that is cut off at the last frame, so
// the target is always reached exactly when the duration has elapsed.
type offsetAnimator struct {
	scheduler  Scheduler
	generation uint64
	running    bool
}

func (a *offsetAnimator) start(from, to float64, duration time.Duration, apply func(float64)) {
	a.generation++
	generation := a.generation

	frames := max(int(math.Ceil(float64(duration)/float64(animationFrame))), 1)
	seconds := max(duration.Seconds(), animationFrame.Seconds())
	spring := harmonica.NewSpring(harmonica.FPS(animationFPS), 6/seconds, 1)

	var (
		progress, velocity float64
		frame              int
		step               func()
	)
	step = func() {
		if a.generation != generation {
			return
		}
		frame++
		if frame >= frames {
			a.running = false
			apply(to)
			return
		}
		progress, velocity = spring.Update(progress, velocity, 1)
		apply(from + (to-from)*progress)
		a.scheduler.Schedule(animationFrame, step)
	}

	a.running = true
	a.scheduler.Schedule(animationFrame, step)
}

// stop abandons the running animation, leaving the offset where it is.
func (a *offsetAnimator) stop() {
	a.generation++
	a.running = false
}
