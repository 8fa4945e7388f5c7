package fans

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strings"
	"sync"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/util"
)

type FileFan struct {
	Config configuration.FanConfig `json:"config"`

	mu           sync.Mutex
	RpmMovingAvg float64 `json:"rpmmovingavg"`
	LastSetPwm   int     `json:"lastsetpwm"`
}

func (fan *FileFan) GetId() string {
	return fan.Config.File.PwmPath
}

func (fan *FileFan) GetPwm() (int, error) {
	filePath, err := resolveHomeDirPath(fan.Config.File.PwmPath)
	if err != nil {
		return MinPwmValue, err
	}
	return util.ReadIntFromFile(filePath)
}

func (fan *FileFan) SetPwm(pwm int) (err error) {
	if pwm < MinPwmValue || pwm > MaxPwmValue {
		return fmt.Errorf("pwm value %d is out of range (%d..%d)", pwm, MinPwmValue, MaxPwmValue)
	}

	filePath, err := resolveHomeDirPath(fan.Config.File.PwmPath)
	if err != nil {
		return err
	}

	err = util.WriteIntToFile(pwm, filePath)
	if err == nil {
		fan.mu.Lock()
		fan.LastSetPwm = pwm
		fan.mu.Unlock()
	}
	return err
}

func (fan *FileFan) GetLastSetPwm() int {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.LastSetPwm
}

func (fan *FileFan) GetRpm() (int, error) {
	if len(fan.Config.File.RpmPath) <= 0 {
		return 0, fmt.Errorf("fan %s has no rpm sensor", fan.GetId())
	}
	filePath, err := resolveHomeDirPath(fan.Config.File.RpmPath)
	if err != nil {
		return 0, err
	}
	return util.ReadIntFromFile(filePath)
}

func (fan *FileFan) GetRpmAvg() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.RpmMovingAvg
}

func (fan *FileFan) SetRpmAvg(rpm float64) {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.RpmMovingAvg = rpm
}

func (fan *FileFan) ShouldNeverStop() bool {
	return fan.Config.NeverStop
}

func (fan *FileFan) GetPwmEnabled() (int, error) {
	return int(ControlModePWM), nil
}

func (fan *FileFan) SetPwmEnabled(value ControlMode) (err error) {
	// nothing to do
	return nil
}

func (fan *FileFan) IsPwmAuto() (bool, error) {
	return false, nil
}

func (fan *FileFan) GetOriginalPwmEnabled() int {
	return int(ControlModePWM)
}

func (fan *FileFan) SetOriginalPwmEnabled(value int) {
	// nothing to do
}

func (fan *FileFan) Supports(feature FeatureFlag) bool {
	switch feature {
	case FeatureRpmSensor:
		return len(fan.Config.File.RpmPath) > 0
	case FeatureControlMode:
		return false
	}
	return false
}

func resolveHomeDirPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		currentUser, err := user.Current()
		if err != nil {
			return path, err
		}
		return filepath.Join(currentUser.HomeDir, path[1:]), nil
	}
	return path, nil
}
