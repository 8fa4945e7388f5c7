package sensors

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	SensorMap = cmap.New[Sensor]()
)

type Sensor interface {
	GetId() string

	GetConfig() configuration.SensorConfig

	// GetValue returns the current value of this sensor in degrees celsius
	GetValue() (float64, error)

	// GetMovingAvg returns the moving average of this sensor's value
	GetMovingAvg() float64
	SetMovingAvg(avg float64)
}

// NewSensor creates a sensor from its configuration.
// timeout bounds each external query made by the sensor.
func NewSensor(config configuration.SensorConfig, timeout time.Duration) (Sensor, error) {
	if config.CPU != nil {
		execPath, err := resolveExecPath(config.CPU.Exec, DefaultCpuSensorExec)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %s", config.ID, err)
		}
		return &CpuSensor{
			Config:   config,
			ExecPath: execPath,
			Timeout:  timeout,
		}, nil
	}

	if config.Disk != nil {
		execPath, err := resolveExecPath(config.Disk.Exec, DefaultDiskSensorExec)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %s", config.ID, err)
		}
		return &DiskSensor{
			Config:   config,
			ExecPath: execPath,
			Timeout:  timeout,
		}, nil
	}

	if config.HwMon != nil {
		return &HwmonSensor{
			Input:  config.HwMon.TempInput,
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdSensor{
			Config:  config,
			Timeout: timeout,
		}, nil
	}

	if config.File != nil {
		return &FileSensor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching sensor type for sensor: %s", config.ID)
}

// RegisterSensor adds the given sensor to the sensor registry.
func RegisterSensor(sensor Sensor) {
	SensorMap.Set(sensor.GetId(), sensor)
}

// GetSensor returns the sensor with the given id, if registered.
func GetSensor(id string) (Sensor, bool) {
	return SensorMap.Get(id)
}

// resolveExecPath returns the executable to run. An explicitly configured
// path wins, otherwise the default binary name is resolved via $PATH.
func resolveExecPath(configured string, defaultName string) (string, error) {
	if len(configured) > 0 {
		return configured, nil
	}
	path, err := exec.LookPath(defaultName)
	if err != nil {
		return "", fmt.Errorf("%s binary not found in $PATH", defaultName)
	}
	return path, nil
}
