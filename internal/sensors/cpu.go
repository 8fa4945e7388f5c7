package sensors

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/util"
)

const (
	// DefaultCpuSensorExec is the lm-sensors binary, resolved via $PATH.
	DefaultCpuSensorExec = "sensors"
	// DefaultCpuChip matches intel package sensors. AMD systems use "k10temp".
	DefaultCpuChip = "coretemp"
	// DefaultCpuLabel is the intel package temperature. AMD systems use "Tctl".
	DefaultCpuLabel = "Package id 0"
)

// CpuSensor reads the package temperature from the JSON output of
// the lm-sensors binary. The tool is treated as a black box, only its
// output text is interpreted.
type CpuSensor struct {
	Config    configuration.SensorConfig `json:"configuration"`
	ExecPath  string                     `json:"execPath"`
	Timeout   time.Duration              `json:"timeout"`
	MovingAvg float64                    `json:"movingAvg"`
	mu        sync.Mutex
}

func (sensor *CpuSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *CpuSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *CpuSensor) GetValue() (float64, error) {
	output, err := util.SafeCmdExecution(sensor.ExecPath, []string{"-j"}, sensor.Timeout)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %s", sensor.GetId(), err.Error())
	}

	return parseSensorsOutput(output, sensor.chip(), sensor.label())
}

func (sensor *CpuSensor) GetMovingAvg() (avg float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.MovingAvg
}

func (sensor *CpuSensor) SetMovingAvg(avg float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	sensor.MovingAvg = avg
}

func (sensor *CpuSensor) chip() string {
	if len(sensor.Config.CPU.Chip) > 0 {
		return sensor.Config.CPU.Chip
	}
	return DefaultCpuChip
}

func (sensor *CpuSensor) label() string {
	if len(sensor.Config.CPU.Label) > 0 {
		return sensor.Config.CPU.Label
	}
	return DefaultCpuLabel
}

// parseSensorsOutput extracts a temperature in degrees celsius from
// `sensors -j` output. chip is matched as a prefix of the chip name
// (e.g. "coretemp" matches "coretemp-isa-0000"), label must match an
// entry within the chip exactly. When multiple chips match, the
// hottest one wins.
func parseSensorsOutput(output string, chip string, label string) (float64, error) {
	var chips map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output), &chips); err != nil {
		return 0, fmt.Errorf("cannot parse sensors output: %s", err)
	}

	var temps []float64
	for chipName, rawEntries := range chips {
		if !strings.HasPrefix(chipName, chip) {
			continue
		}

		var entries map[string]json.RawMessage
		if err := json.Unmarshal(rawEntries, &entries); err != nil {
			continue
		}

		rawFields, ok := entries[label]
		if !ok {
			continue
		}

		var fields map[string]float64
		if err := json.Unmarshal(rawFields, &fields); err != nil {
			continue
		}

		for fieldName, value := range fields {
			if strings.HasPrefix(fieldName, "temp") && strings.HasSuffix(fieldName, "_input") {
				temps = append(temps, value)
			}
		}
	}

	if len(temps) <= 0 {
		return 0, fmt.Errorf("no temperature for chip '%s' label '%s' in sensors output", chip, label)
	}
	return util.Max(temps), nil
}
