package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/markusressel/fanloop/internal/aggregation"
	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/control_loop"
	"github.com/markusressel/fanloop/internal/curves"
	"github.com/markusressel/fanloop/internal/fans"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
)

// smoothing window for the rpm moving average shown in status output
const rpmMovingAvgWindow = 10

type FanController interface {
	// Run starts the control loop of the controller and blocks until
	// the given context is cancelled or the fan becomes unresponsive
	Run(ctx context.Context) error
	// UpdateFanSpeed executes a single control cycle
	UpdateFanSpeed() error
	// GetFanId returns the id of the fan managed by this controller
	GetFanId() string
	// State returns a snapshot of the most recent control cycle
	State() State
}

// State is a snapshot of the controller after a control cycle.
type State struct {
	// ControlTemp is the aggregated temperature of the last cycle with data
	ControlTemp float64 `json:"controlTemp"`
	// Readings contains the per-sensor readings of the last cycle
	Readings []aggregation.TemperatureReading `json:"readings"`
	// Target is the duty cycle the controller is currently aiming for
	Target int `json:"target"`
	// LastWrittenDuty is the duty cycle most recently applied to the fan
	LastWrittenDuty int `json:"lastWrittenDuty"`
	// InFallback indicates whether the last cycle ran without temperature data
	InFallback bool `json:"inFallback"`
	// FallbackCycles counts all cycles that ran without temperature data
	FallbackCycles uint64 `json:"fallbackCycles"`
	// LastUpdate is the time of the last completed cycle
	LastUpdate time.Time `json:"lastUpdate"`
}

type fanController struct {
	fan        fans.Fan
	aggregator *aggregation.Aggregator
	curve      curves.SpeedCurve
	loop       control_loop.ControlLoop
	config     configuration.ControllerConfig
	updateRate time.Duration
	maxRetries int

	// temperature that produced the current target, tracking
	// becomes true once a target has been computed from data
	anchorTemp float64
	tracking   bool

	// desired duty cycle, valid once hasTarget is true
	target    int
	hasTarget bool

	// last duty cycle applied by this controller
	lastSetPwm *int

	fallbackCycles uint64

	stateMu sync.RWMutex
	state   State
}

func NewFanController(
	fan fans.Fan,
	aggregator *aggregation.Aggregator,
	curve curves.SpeedCurve,
	loop control_loop.ControlLoop,
	config configuration.ControllerConfig,
	updateRate time.Duration,
	maxRetries int,
) FanController {
	return &fanController{
		fan:        fan,
		aggregator: aggregator,
		curve:      curve,
		loop:       loop,
		config:     config,
		updateRate: updateRate,
		maxRetries: maxRetries,
	}
}

func (f *fanController) Run(ctx context.Context) error {
	fan := f.fan

	if fan.Supports(fans.FeatureControlMode) {
		// store original pwm_enable value
		pwmEnabled, err := fan.GetPwmEnabled()
		if err != nil {
			ui.Warning("Cannot read pwm_enable value of %s", fan.GetId())
		} else {
			fan.SetOriginalPwmEnabled(pwmEnabled)
		}
		trySetManualPwm(fan)
	}

	ui.Info("Starting controller loop for fan '%s'", fan.GetId())

	tick := time.Tick(f.updateRate)
	for {
		select {
		case <-ctx.Done():
			f.restoreControlMode()
			return nil
		case <-tick:
			err := f.UpdateFanSpeed()
			if err != nil {
				ui.Error("Error in FanController for fan %s: %v", fan.GetId(), err)
				f.restoreControlMode()
				return err
			}
		}
	}
}

func (f *fanController) UpdateFanSpeed() error {
	controlTemp, readings, err := f.aggregator.ControlTemperature()
	haveData := err == nil

	duty := f.Cycle(controlTemp, haveData)
	if duty >= 0 {
		err = f.setPwm(duty)
		if err != nil {
			return err
		}
	}

	f.measureRpm()
	f.updateState(controlTemp, readings, haveData)
	return nil
}

// Cycle advances the controller by one control cycle and returns the
// duty cycle to apply, or -1 if there is nothing to apply yet.
func (f *fanController) Cycle(controlTemp float64, haveData bool) int {
	if !haveData {
		f.applyFallbackPolicy()
	} else {
		f.updateTarget(controlTemp)
	}

	if !f.hasTarget {
		return -1
	}

	// first application is direct, afterwards the change rate is
	// limited by the control loop
	if f.lastSetPwm == nil {
		return f.target
	}

	current := f.currentDuty()
	if f.target == 0 && current > 0 {
		// turning the fan off is never done gradually, intermediate
		// values below the duty floor would stall it early
		return 0
	}

	duty := f.loop.Loop(f.target, current)

	// a fan is either stopped or spinning reliably, never crawling
	if duty > 0 && duty < f.config.FanSpeedMin {
		duty = f.config.FanSpeedMin
	}

	return util.CoerceInt(duty, fans.MinPwmValue, fans.MaxPwmValue)
}

// updateTarget recomputes the desired duty cycle if the control
// temperature moved far enough away from the anchor temperature.
func (f *fanController) updateTarget(controlTemp float64) {
	if f.tracking {
		diff := controlTemp - f.anchorTemp
		if diff < 0 {
			diff = -diff
		}
		if diff < f.config.Hysteresis {
			return
		}
	}

	target := f.curve.Evaluate(controlTemp)
	if !f.fan.ShouldNeverStop() && controlTemp <= f.config.TempMin {
		target = 0
	}

	f.target = target
	f.hasTarget = true
	f.anchorTemp = controlTemp
	f.tracking = true
}

// applyFallbackPolicy decides the target for a cycle without any
// temperature data.
func (f *fanController) applyFallbackPolicy() {
	f.fallbackCycles++

	switch f.config.Fallback {
	case configuration.FallbackPolicyMax:
		f.target = f.config.FanSpeedMax
		f.hasTarget = true
	case configuration.FallbackPolicyHold:
		// keep the previous target, if any
	}

	// the next cycle with data must recompute the target
	f.tracking = false
}

// currentDuty returns the duty cycle to base rate limiting on,
// preferring the actual state of the fan over controller state.
func (f *fanController) currentDuty() int {
	current, err := f.fan.GetPwm()
	if err != nil {
		if f.lastSetPwm != nil {
			return *f.lastSetPwm
		}
		return fans.MinPwmValue
	}

	if f.lastSetPwm != nil && *f.lastSetPwm != current {
		ui.Warning("PWM of %s was changed by third party! Last set PWM value was: %d but is now: %d",
			f.fan.GetId(), *f.lastSetPwm, current)
	}

	return current
}

// setPwm applies the given duty cycle to the fan, retrying up to the
// configured budget. Between attempts manual control is re-probed, in
// case the driver dropped out of manual mode.
func (f *fanController) setPwm(target int) (err error) {
	fan := f.fan

	if f.lastSetPwm != nil && *f.lastSetPwm == target {
		if current, readErr := fan.GetPwm(); readErr == nil && current == target {
			// nothing to do
			return nil
		}
	}

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		err = fan.SetPwm(target)
		if err == nil {
			f.lastSetPwm = &target
			f.verifyPwm(target)
			return nil
		}
		ui.Warning("Unable to set PWM of %s to %d (attempt %d/%d): %v",
			fan.GetId(), target, attempt+1, f.maxRetries+1, err)
		if fan.Supports(fans.FeatureControlMode) {
			trySetManualPwm(fan)
		}
	}

	return fmt.Errorf("fan %s is unresponsive: %s", fan.GetId(), err)
}

// verifyPwm reads the duty cycle back after a successful write. Some
// drivers quantize the value, so a mismatch is reported but not retried.
func (f *fanController) verifyPwm(target int) {
	if f.config.PwmSetDelay > 0 {
		time.Sleep(f.config.PwmSetDelay)
	}
	current, err := f.fan.GetPwm()
	if err != nil {
		return
	}
	if current != target {
		ui.Warning("PWM of %s did not stick: wrote %d, read back %d", f.fan.GetId(), target, current)
	}
}

// measureRpm updates the rpm moving average of the fan.
func (f *fanController) measureRpm() {
	fan := f.fan
	if !fan.Supports(fans.FeatureRpmSensor) {
		return
	}

	rpm, err := fan.GetRpm()
	if err != nil {
		return
	}

	updatedRpmAvg := util.UpdateSimpleMovingAvg(fan.GetRpmAvg(), rpmMovingAvgWindow, float64(rpm))
	fan.SetRpmAvg(updatedRpmAvg)

	if fan.ShouldNeverStop() && f.lastSetPwm != nil && *f.lastSetPwm >= f.config.FanSpeedMin && updatedRpmAvg <= 0 {
		ui.ErrorAndNotify("Fan stall detected", "Fan %s reports no rotation at PWM %d", fan.GetId(), *f.lastSetPwm)
	}
}

func (f *fanController) updateState(controlTemp float64, readings []aggregation.TemperatureReading, haveData bool) {
	f.stateMu.Lock()
	defer f.stateMu.Unlock()

	if haveData {
		f.state.ControlTemp = controlTemp
	}
	f.state.Readings = readings
	f.state.Target = f.target
	if f.lastSetPwm != nil {
		f.state.LastWrittenDuty = *f.lastSetPwm
	}
	f.state.InFallback = !haveData
	f.state.FallbackCycles = f.fallbackCycles
	f.state.LastUpdate = time.Now()
}

func (f *fanController) GetFanId() string {
	return f.fan.GetId()
}

func (f *fanController) State() State {
	f.stateMu.RLock()
	defer f.stateMu.RUnlock()
	return f.state
}

func trySetManualPwm(fan fans.Fan) {
	err := fan.SetPwmEnabled(fans.ControlModePWM)
	if err != nil {
		err = fan.SetPwmEnabled(fans.ControlModeDisabled)
	}
	if err != nil {
		ui.Warning("Could not enable manual fan control on %s, trying to continue anyway...", fan.GetId())
	}
}

// restoreControlMode hands the fan back to whatever controlled it
// before. If that fails the fan is forced to full speed, so it never
// ends up stopped in an unattended state.
func (f *fanController) restoreControlMode() {
	fan := f.fan
	ui.Info("Trying to restore fan settings for %s...", fan.GetId())

	if fan.Supports(fans.FeatureControlMode) {
		original := fan.GetOriginalPwmEnabled()
		if original != int(fans.ControlModePWM) {
			err := fan.SetPwmEnabled(fans.ControlMode(original))
			if err == nil {
				return
			}
		}
	}

	// if this fails, try to set it to max speed instead
	err := fan.SetPwm(fans.MaxPwmValue)
	if err != nil {
		ui.Warning("Unable to restore fan %s, make sure it is running!", fan.GetId())
	}
}
