package control_loop

import (
	"github.com/markusressel/fanloop/internal/util"
)

// DirectControlLoop directly applies the given target pwm. It can also
// be used to gracefully approach the target by utilizing the
// "maxStepPerCycle" property.
type DirectControlLoop struct {
	// limits the maximum allowed pwm change per cycle, <= 0 disables the limit
	maxStepPerCycle int
}

// NewDirectControlLoop creates a DirectControlLoop, which directly applies
// the given target pwm, moving at most maxStepPerCycle per invocation.
func NewDirectControlLoop(
	maxStepPerCycle int,
) *DirectControlLoop {
	return &DirectControlLoop{
		maxStepPerCycle: maxStepPerCycle,
	}
}

func (l *DirectControlLoop) Loop(target int, current int) int {
	if l.maxStepPerCycle <= 0 {
		return target
	}

	// we can be above or below the target pwm value, so the
	// applied change is capped in both directions
	diff := target - current
	step := util.CoerceInt(diff, -l.maxStepPerCycle, l.maxStepPerCycle)
	return current + step
}
