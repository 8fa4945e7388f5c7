package curves

import (
	"testing"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/stretchr/testify/assert"
)

// helper function to create a controller configuration with pid constants
func createPidControllerConfig(
	setPoint float64,
	p float64,
	i float64,
	d float64,
) configuration.ControllerConfig {
	return configuration.ControllerConfig{
		TempMin:     35,
		TempTarget:  setPoint,
		TempMax:     70,
		FanSpeedMin: 80,
		FanSpeedMax: 255,
		PID:         &configuration.PidConfig{P: p, I: i, D: d},
	}
}

func TestPidCurveAboveTargetRaisesSpeed(t *testing.T) {
	// GIVEN
	curve := NewPidSpeedCurve(createPidControllerConfig(55, -0.05, 0, 0))

	// WHEN
	result := curve.Evaluate(65.0)

	// THEN
	// loop output 0.5 mapped onto 80..255
	assert.Equal(t, 168, result)
}

func TestPidCurveBelowTargetStaysAtMinimum(t *testing.T) {
	// GIVEN
	curve := NewPidSpeedCurve(createPidControllerConfig(55, -0.05, 0, 0))

	// WHEN
	result := curve.Evaluate(45.0)

	// THEN
	assert.Equal(t, 80, result)
}

func TestPidCurveFarAboveTargetSaturates(t *testing.T) {
	// GIVEN
	curve := NewPidSpeedCurve(createPidControllerConfig(55, -0.05, 0, 0))

	// WHEN
	result := curve.Evaluate(100.0)

	// THEN
	assert.Equal(t, 255, result)
}

func TestPidCurveIntegralAccumulatesWhileAboveTarget(t *testing.T) {
	// GIVEN
	curve := NewPidSpeedCurve(createPidControllerConfig(55, 0, -0.005, 0))
	first := curve.Evaluate(65.0)

	time.Sleep(1 * time.Second)

	// WHEN
	second := curve.Evaluate(65.0)

	// THEN
	assert.Equal(t, 80, first)
	assert.InDelta(t, 89, second, 1)
}
