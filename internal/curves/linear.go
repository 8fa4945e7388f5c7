package curves

import (
	"math"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/util"
)

// LinearSpeedCurve interpolates the duty cycle between
// (tempMin, fanSpeedMin) and (tempMax, fanSpeedMax) and clamps
// to the endpoints outside of that range.
type LinearSpeedCurve struct {
	tempMin     float64
	tempMax     float64
	fanSpeedMin int
	fanSpeedMax int
}

func NewLinearSpeedCurve(config configuration.ControllerConfig) *LinearSpeedCurve {
	return &LinearSpeedCurve{
		tempMin:     config.TempMin,
		tempMax:     config.TempMax,
		fanSpeedMin: config.FanSpeedMin,
		fanSpeedMax: config.FanSpeedMax,
	}
}

func (c *LinearSpeedCurve) Evaluate(controlTemp float64) int {
	if controlTemp >= c.tempMax {
		return c.fanSpeedMax
	}
	if controlTemp <= c.tempMin {
		return c.fanSpeedMin
	}

	ratio := util.Ratio(controlTemp, c.tempMin, c.tempMax)
	span := float64(c.fanSpeedMax - c.fanSpeedMin)
	return c.fanSpeedMin + int(math.Round(ratio*span))
}
