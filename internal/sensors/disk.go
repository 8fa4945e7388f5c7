package sensors

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
)

const (
	// DefaultDiskSensorExec is the smartmontools binary, resolved via $PATH.
	DefaultDiskSensorExec = "smartctl"

	// SMART attribute ids carrying drive temperatures
	smartAttrAirflowTemp = "190"
	smartAttrDriveTemp   = "194"
)

var (
	// ATA attribute table row: id, 8 metadata columns, raw value
	ataTempAttrRegex = regexp.MustCompile(`(?m)^\s*(190|194)\s+(?:\S+\s+){8}(\d+)`)
	// NVMe smart log: "Temperature: 36 Celsius"
	nvmeTempRegex = regexp.MustCompile(`(?m)^Temperature:\s+(\d+)\s+Celsius`)
	// SCSI log page: "Current Drive Temperature: 36 C"
	scsiTempRegex = regexp.MustCompile(`(?m)^Current Drive Temperature:\s+(\d+)\s+C`)
)

// DiskSensor reads drive temperatures from the output of `smartctl -A`.
// The tool is treated as a black box, only its output text is interpreted.
// When multiple devices are configured, the hottest one wins.
type DiskSensor struct {
	Config    configuration.SensorConfig `json:"configuration"`
	ExecPath  string                     `json:"execPath"`
	Timeout   time.Duration              `json:"timeout"`
	MovingAvg float64                    `json:"movingAvg"`
	mu        sync.Mutex
}

func (sensor *DiskSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *DiskSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *DiskSensor) GetValue() (float64, error) {
	var temps []float64
	for _, device := range sensor.Config.Disk.Devices {
		output, err := util.SafeCmdExecution(sensor.ExecPath, []string{"-A", device}, sensor.Timeout)
		if err != nil {
			ui.Debug("sensor %s: unable to query %s: %v", sensor.GetId(), device, err)
			continue
		}

		temp, err := parseSmartctlTemperature(output)
		if err != nil {
			ui.Debug("sensor %s: %s: %v", sensor.GetId(), device, err)
			continue
		}
		temps = append(temps, temp)
	}

	if len(temps) <= 0 {
		return 0, fmt.Errorf("sensor %s: no disk temperature available", sensor.GetId())
	}
	return util.Max(temps), nil
}

func (sensor *DiskSensor) GetMovingAvg() (avg float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.MovingAvg
}

func (sensor *DiskSensor) SetMovingAvg(avg float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	sensor.MovingAvg = avg
}

// parseSmartctlTemperature extracts a temperature in degrees celsius
// from `smartctl -A` output. ATA attribute tables, NVMe smart logs and
// SCSI log pages are supported. For ATA drives the drive temperature
// (attribute 194) is preferred over the airflow temperature (190).
func parseSmartctlTemperature(output string) (float64, error) {
	attrTemps := map[string]float64{}
	for _, match := range ataTempAttrRegex.FindAllStringSubmatch(output, -1) {
		value, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		attrTemps[match[1]] = value
	}
	if temp, ok := attrTemps[smartAttrDriveTemp]; ok {
		return temp, nil
	}
	if temp, ok := attrTemps[smartAttrAirflowTemp]; ok {
		return temp, nil
	}

	if match := nvmeTempRegex.FindStringSubmatch(output); match != nil {
		return strconv.ParseFloat(match[1], 64)
	}

	if match := scsiTempRegex.FindStringSubmatch(output); match != nil {
		return strconv.ParseFloat(match[1], 64)
	}

	return 0, fmt.Errorf("no temperature in smartctl output")
}
