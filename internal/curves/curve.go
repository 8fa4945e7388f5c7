package curves

import (
	"github.com/markusressel/fanloop/internal/configuration"
)

// SpeedCurve translates a control temperature into a desired fan speed.
type SpeedCurve interface {
	// Evaluate calculates the desired duty cycle for the given
	// control temperature (in degrees celsius).
	Evaluate(controlTemp float64) int
}

// NewSpeedCurve creates a SpeedCurve for the given controller configuration.
// A pid curve is used when pid constants are configured, the linear
// two-point mapping otherwise.
func NewSpeedCurve(config configuration.ControllerConfig) SpeedCurve {
	if config.PID != nil {
		return NewPidSpeedCurve(config)
	}
	return NewLinearSpeedCurve(config)
}
