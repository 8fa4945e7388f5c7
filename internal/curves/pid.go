package curves

import (
	"math"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/util"
)

// PidSpeedCurve regulates the duty cycle towards the configured
// target temperature using a pid loop. The pid constants are negative
// so that rising temperatures raise the fan speed.
type PidSpeedCurve struct {
	setPoint    float64
	fanSpeedMin int
	fanSpeedMax int

	pidLoop *util.PidLoop
}

func NewPidSpeedCurve(config configuration.ControllerConfig) *PidSpeedCurve {
	return &PidSpeedCurve{
		setPoint:    config.TempTarget,
		fanSpeedMin: config.FanSpeedMin,
		fanSpeedMax: config.FanSpeedMax,
		pidLoop:     util.NewPidLoop(config.PID.P, config.PID.I, config.PID.D, 0, 1),
	}
}

func (c *PidSpeedCurve) Evaluate(controlTemp float64) int {
	loopValue := c.pidLoop.Loop(c.setPoint, controlTemp)

	// map the (0..1) loop output to the configured duty cycle range
	span := float64(c.fanSpeedMax - c.fanSpeedMin)
	return c.fanSpeedMin + int(math.Round(loopValue*span))
}
