package slide

import "time"

const (
	// Forever is the display-time sentinel for "never advance automatically".
	Forever time.Duration = -1
	// RepeatForever is the repeat count of an animation that never ends.
	RepeatForever = -1
)

// Easing names the interpolation curve of an animation.
type Easing string

const (
	EaseLinear Easing = "linear"
	EaseIn     Easing = "in"
	EaseOut    Easing = "out"
	EaseInOut  Easing = "in-out"
)

// Animation is a timed effect applied to a component or used as a slide
// transition. RepeatCount <= 1 plays once; RepeatForever never ends.
type Animation struct {
	Effect      string
	Duration    time.Duration
	Delay       time.Duration
	RepeatCount int
	AutoReverse bool
	Easing      Easing
}

// Infinite reports whether the animation repeats forever.
func (a Animation) Infinite() bool {
	return a.RepeatCount == RepeatForever
}

// TotalTime is the delay plus every cycle, or Forever for infinite animations.
func (a Animation) TotalTime() time.Duration {
	if a.Infinite() {
		return Forever
	}
	cycles := max(a.RepeatCount, 1)
	return a.Delay + a.Duration*time.Duration(cycles)
}
