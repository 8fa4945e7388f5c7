package fans

import (
	"errors"

	"github.com/markusressel/fanloop/internal/configuration"
)

const (
	MaxPwmValue = 255
	MinPwmValue = 0
)

type FeatureFlag int

const (
	FeatureRpmSensor   FeatureFlag = 0
	FeatureControlMode FeatureFlag = 1
)

type ControlMode int

const (
	// ControlModeDisabled completely disables control, resulting in a 100% voltage/PWM signal output
	ControlModeDisabled ControlMode = 0
	// ControlModePWM enables manual, fixed speed control via setting the pwm value
	ControlModePWM ControlMode = 1
	// ControlModeAutomatic enables automatic control by the integrated control of the mainboard
	ControlModeAutomatic ControlMode = 2
)

type Fan interface {
	GetId() string

	// GetPwm returns the current PWM value of this fan
	GetPwm() (int, error)
	SetPwm(pwm int) (err error)
	// GetLastSetPwm returns the last duty cycle applied via SetPwm
	GetLastSetPwm() int

	// GetRpm returns the current RPM value of this fan
	GetRpm() (int, error)
	GetRpmAvg() float64
	SetRpmAvg(rpm float64)

	// ShouldNeverStop indicates whether this fan must be kept spinning
	ShouldNeverStop() bool

	// GetPwmEnabled returns the current "pwm_enable" value of this fan
	GetPwmEnabled() (int, error)
	SetPwmEnabled(value ControlMode) (err error)
	// IsPwmAuto indicates whether this fan is in "Auto" mode
	IsPwmAuto() (bool, error)

	// GetOriginalPwmEnabled returns the "pwm_enable" value the fan had
	// before manual control took over
	GetOriginalPwmEnabled() int
	SetOriginalPwmEnabled(value int)

	Supports(feature FeatureFlag) bool
}

func NewFan(config configuration.FanConfig) (Fan, error) {
	if config.HwMon != nil {
		return &HwMonFan{
			Label:     hwmonFanLabel(config.HwMon.PwmPath),
			PwmOutput: config.HwMon.PwmPath,
			RpmInput:  config.HwMon.RpmInput,
			Config:    config,
		}, nil
	}

	if config.File != nil {
		return &FileFan{
			Config: config,
		}, nil
	}

	return nil, errors.New("no matching fan type in fan definition")
}
