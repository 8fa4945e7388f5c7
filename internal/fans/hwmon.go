package fans

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
)

type HwMonFan struct {
	Label     string                  `json:"label"`
	PwmOutput string                  `json:"pwmoutput"`
	RpmInput  string                  `json:"rpminput"`
	Config    configuration.FanConfig `json:"config"`

	OriginalPwmEnabled int `json:"originalpwmenabled"`

	mu           sync.Mutex
	RpmMovingAvg float64 `json:"rpmmovingavg"`
	LastSetPwm   int     `json:"lastsetpwm"`
}

// hwmonFanLabel derives a human readable fan label from a pwm path,
// e.g. "/sys/class/hwmon/hwmon3/pwm1" -> "nct6798/pwm1"
func hwmonFanLabel(pwmPath string) string {
	devicePath, file := filepath.Split(pwmPath)
	name := util.GetDeviceName(strings.TrimSuffix(devicePath, "/"))
	return name + "/" + file
}

func (fan *HwMonFan) GetId() string {
	return fan.Label
}

func (fan *HwMonFan) GetPwm() (int, error) {
	return util.ReadIntFromFile(fan.PwmOutput)
}

func (fan *HwMonFan) SetPwm(pwm int) (err error) {
	if pwm < MinPwmValue || pwm > MaxPwmValue {
		return fmt.Errorf("pwm value %d is out of range (%d..%d)", pwm, MinPwmValue, MaxPwmValue)
	}

	ui.Debug("Setting %s to %d ...", fan.Label, pwm)
	err = util.WriteIntToFile(pwm, fan.PwmOutput)
	if err == nil {
		fan.mu.Lock()
		fan.LastSetPwm = pwm
		fan.mu.Unlock()
	}
	return err
}

func (fan *HwMonFan) GetLastSetPwm() int {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.LastSetPwm
}

func (fan *HwMonFan) GetRpm() (int, error) {
	if len(fan.RpmInput) <= 0 {
		return 0, fmt.Errorf("fan %s has no rpm sensor", fan.Label)
	}
	return util.ReadIntFromFile(fan.RpmInput)
}

func (fan *HwMonFan) GetRpmAvg() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.RpmMovingAvg
}

func (fan *HwMonFan) SetRpmAvg(rpm float64) {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.RpmMovingAvg = rpm
}

func (fan *HwMonFan) ShouldNeverStop() bool {
	return fan.Config.NeverStop
}

func (fan *HwMonFan) GetPwmEnabled() (int, error) {
	return util.ReadIntFromFile(fan.PwmOutput + "_enable")
}

func (fan *HwMonFan) IsPwmAuto() (bool, error) {
	value, err := fan.GetPwmEnabled()
	if err != nil {
		return false, err
	}
	return value > 1, nil
}

// SetPwmEnabled writes the given value to pwmX_enable
// Possible values (unsure if these are true for all scenarios):
// 0 - no control (results in max speed)
// 1 - manual pwm control
// 2 - motherboard pwm control
func (fan *HwMonFan) SetPwmEnabled(value ControlMode) (err error) {
	pwmEnabledFilePath := fan.PwmOutput + "_enable"
	err = util.WriteIntToFile(int(value), pwmEnabledFilePath)
	if err == nil {
		currentValue, err := util.ReadIntFromFile(pwmEnabledFilePath)
		if err != nil || ControlMode(currentValue) != value {
			return fmt.Errorf("PWM mode stuck to %d", currentValue)
		}
	}
	return err
}

func (fan *HwMonFan) SetOriginalPwmEnabled(value int) {
	fan.OriginalPwmEnabled = value
}

func (fan *HwMonFan) GetOriginalPwmEnabled() int {
	return fan.OriginalPwmEnabled
}

func (fan *HwMonFan) Supports(feature FeatureFlag) bool {
	switch feature {
	case FeatureRpmSensor:
		return len(fan.RpmInput) > 0
	case FeatureControlMode:
		// some drivers expose a pwm channel without an _enable file
		_, err := os.Stat(fan.PwmOutput + "_enable")
		return err == nil
	}
	return false
}
