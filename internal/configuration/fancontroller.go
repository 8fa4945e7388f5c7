package configuration

import "time"

// ControllerConfig holds the thresholds and behavior of the control loop.
type ControllerConfig struct {
	// Temperature thresholds in degrees celsius.
	// TempMin maps to FanSpeedMin, TempMax to FanSpeedMax.
	// TempTarget is the desired operating temperature in between.
	TempMin    float64 `json:"tempMin"`
	TempTarget float64 `json:"tempTarget"`
	TempMax    float64 `json:"tempMax"`

	// Duty cycle bounds in raw pwm values [0..255].
	// FanSpeedMin is the lowest duty cycle that keeps the fan reliably spinning.
	FanSpeedMin int `json:"fanSpeedMin"`
	FanSpeedMax int `json:"fanSpeedMax"`

	// Hysteresis is the temperature deadband. The target duty cycle is only
	// recomputed when the control temperature moved at least this far from
	// the temperature of the last recomputation.
	Hysteresis float64 `json:"hysteresis"`

	// MaxStep is the largest pwm change applied in a single cycle, 0 disables the limit
	MaxStep int `json:"maxStep"`

	// Fallback decides what happens when no sensor delivers data: hold | max
	Fallback FallbackPolicy `json:"fallback"`

	// Time to wait between a set-pwm and get-pwm call. Used to give hardware time to
	// respond to the set-pwm command.
	PwmSetDelay time.Duration `json:"pwmSetDelay"`

	// PID replaces the linear temperature mapping with a pid loop
	// regulating towards TempTarget. The constants must be negative so
	// rising temperatures raise the duty cycle.
	PID *PidConfig `json:"pid,omitempty"`
}

type PidConfig struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
}
