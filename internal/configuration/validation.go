package configuration

import (
	"fmt"
	"strings"

	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
	"golang.org/x/exp/slices"
)

// pwm values are raw 8-bit duty cycles
const maxPwmRaw = 255

func Validate(configPath string) error {
	return validateConfig(&CurrentConfig, configPath)
}

func validateConfig(config *Configuration, path string) error {
	err := validateDaemon(config)
	if err != nil {
		return err
	}
	err = validateController(config)
	if err != nil {
		return err
	}
	err = validateFan(config)
	if err != nil {
		return err
	}
	err = validateSensors(config)
	if err != nil {
		return err
	}

	if containsCmdSensors(config) {
		if _, permErr := util.CheckFilePermissionsForExecution(path); permErr != nil {
			return fmt.Errorf("config file '%s' has invalid permissions: %s", path, permErr)
		}
	}

	return nil
}

// containsCmdSensors reports whether any configured sensor runs an
// external executable.
func containsCmdSensors(config *Configuration) bool {
	for _, sensorConfig := range config.Sensors {
		if sensorConfig.CPU != nil || sensorConfig.Disk != nil || sensorConfig.Cmd != nil {
			return true
		}
	}

	return false
}

func validateDaemon(config *Configuration) error {
	logLevels := []string{"DEBUG", "INFO", "WARNING", "ERROR"}
	if !util.ContainsString(logLevels, strings.ToUpper(config.LogLevel)) {
		return fmt.Errorf("invalid logLevel '%s', use one of: %s", config.LogLevel, strings.Join(logLevels, " | "))
	}

	if config.PollInterval <= 0 {
		return fmt.Errorf("pollInterval must be > 0")
	}
	if config.SensorTimeout <= 0 {
		return fmt.Errorf("sensorTimeout must be > 0")
	}
	if config.TempRollingWindowSize < 1 {
		return fmt.Errorf("tempRollingWindowSize must be >= 1")
	}
	if config.MaxActuationRetries < 0 {
		return fmt.Errorf("maxActuationRetries must be >= 0")
	}

	if config.Statistics.Enabled {
		if config.Statistics.Port < 1 || config.Statistics.Port > 65535 {
			return fmt.Errorf("statistics: invalid port %d", config.Statistics.Port)
		}
	}
	if config.Api.Enabled {
		if len(config.Api.Host) <= 0 {
			return fmt.Errorf("api: missing host")
		}
		if config.Api.Port < 1 || config.Api.Port > 65535 {
			return fmt.Errorf("api: invalid port %d", config.Api.Port)
		}
	}

	return nil
}

func validateController(config *Configuration) error {
	controller := config.Controller

	if controller.TempMin >= controller.TempTarget {
		return fmt.Errorf("controller: tempMin (%.1f) must be lower than tempTarget (%.1f)", controller.TempMin, controller.TempTarget)
	}
	if controller.TempTarget >= controller.TempMax {
		return fmt.Errorf("controller: tempTarget (%.1f) must be lower than tempMax (%.1f)", controller.TempTarget, controller.TempMax)
	}

	if controller.FanSpeedMin < 0 {
		return fmt.Errorf("controller: fanSpeedMin must be >= 0")
	}
	if controller.FanSpeedMin >= controller.FanSpeedMax {
		return fmt.Errorf("controller: fanSpeedMin (%d) must be lower than fanSpeedMax (%d)", controller.FanSpeedMin, controller.FanSpeedMax)
	}
	if controller.FanSpeedMax > maxPwmRaw {
		return fmt.Errorf("controller: fanSpeedMax must be <= %d", maxPwmRaw)
	}

	if controller.Hysteresis < 0 {
		return fmt.Errorf("controller: hysteresis must be >= 0")
	}
	if controller.Hysteresis >= controller.TempMax-controller.TempMin {
		return fmt.Errorf("controller: hysteresis (%.1f) must be smaller than the tempMin..tempMax range", controller.Hysteresis)
	}

	if controller.MaxStep < 0 {
		return fmt.Errorf("controller: maxStep must be >= 0")
	}

	supportedPolicies := []FallbackPolicy{FallbackPolicyHold, FallbackPolicyMax}
	if !slices.Contains(supportedPolicies, controller.Fallback) {
		return fmt.Errorf("controller: unsupported fallback policy '%s', use one of: %s | %s", controller.Fallback, FallbackPolicyHold, FallbackPolicyMax)
	}

	if controller.PwmSetDelay < 0 {
		return fmt.Errorf("controller: pwmSetDelay must be >= 0")
	}

	if controller.PID != nil {
		pid := controller.PID
		if pid.P == 0 && pid.I == 0 && pid.D == 0 {
			return fmt.Errorf("controller: all PID constants are zero")
		}
		if pid.P > 0 || pid.I > 0 || pid.D > 0 {
			ui.Warning("controller: positive PID constants lower the duty cycle on rising temperatures, this is most likely not what you want")
		}
	}

	return nil
}

func validateFan(config *Configuration) error {
	fan := config.Fan

	if fan.HwMon != nil && fan.File != nil {
		return fmt.Errorf("fan: only one fan type can be used per fan definition block")
	}

	if fan.HwMon != nil {
		if len(fan.HwMon.PwmPath) <= 0 {
			return fmt.Errorf("fan: no pwm path provided")
		}
	}

	if fan.File != nil {
		if len(fan.File.PwmPath) <= 0 {
			return fmt.Errorf("fan: no file path provided")
		}
	}

	return nil
}

func validateSensors(config *Configuration) error {
	if len(config.Sensors) <= 0 {
		return fmt.Errorf("at least one sensor must be configured")
	}

	seenIds := map[string]bool{}
	for _, sensorConfig := range config.Sensors {
		if len(sensorConfig.ID) <= 0 {
			return fmt.Errorf("sensor is missing an id")
		}
		if seenIds[sensorConfig.ID] {
			return fmt.Errorf("sensor %s: duplicate sensor id", sensorConfig.ID)
		}
		seenIds[sensorConfig.ID] = true

		subConfigs := 0
		if sensorConfig.CPU != nil {
			subConfigs++
		}
		if sensorConfig.Disk != nil {
			subConfigs++
		}
		if sensorConfig.HwMon != nil {
			subConfigs++
		}
		if sensorConfig.Cmd != nil {
			subConfigs++
		}
		if sensorConfig.File != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("sensor %s: only one sensor type can be used per sensor definition block", sensorConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("sensor %s: sub-configuration for sensor is missing, use one of: cpu | disk | hwmon | cmd | file", sensorConfig.ID)
		}

		if sensorConfig.Disk != nil {
			if len(sensorConfig.Disk.Devices) <= 0 {
				return fmt.Errorf("sensor %s: no devices configured", sensorConfig.ID)
			}
			for _, device := range sensorConfig.Disk.Devices {
				if len(device) <= 0 {
					return fmt.Errorf("sensor %s: empty device entry", sensorConfig.ID)
				}
			}
		}

		if sensorConfig.HwMon != nil {
			if len(sensorConfig.HwMon.TempInput) <= 0 {
				return fmt.Errorf("sensor %s: no tempInput path provided", sensorConfig.ID)
			}
		}

		if sensorConfig.Cmd != nil {
			if len(sensorConfig.Cmd.Exec) <= 0 {
				return fmt.Errorf("sensor %s: executable is missing", sensorConfig.ID)
			}
		}

		if sensorConfig.File != nil {
			if len(sensorConfig.File.Path) <= 0 {
				return fmt.Errorf("sensor %s: no file path provided", sensorConfig.ID)
			}
		}
	}

	return nil
}
