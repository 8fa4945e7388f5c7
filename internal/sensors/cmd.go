package sensors

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/util"
)

// CmdSensor runs an arbitrary executable that prints a temperature
// in degrees celsius.
type CmdSensor struct {
	Config    configuration.SensorConfig `json:"configuration"`
	Timeout   time.Duration              `json:"timeout"`
	MovingAvg float64                    `json:"movingAvg"`
	mu        sync.Mutex
}

func (sensor *CmdSensor) GetId() string {
	return sensor.Config.ID
}

func (sensor *CmdSensor) GetConfig() configuration.SensorConfig {
	return sensor.Config
}

func (sensor *CmdSensor) GetValue() (float64, error) {
	cmdConfig := sensor.Config.Cmd
	result, err := util.SafeCmdExecution(cmdConfig.Exec, cmdConfig.Args, sensor.Timeout)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: %s", sensor.GetId(), err.Error())
	}

	temp, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, fmt.Errorf("sensor %s: unable to parse command output '%s' of %s", sensor.GetId(), result, cmdConfig.Exec)
	}

	return temp, nil
}

func (sensor *CmdSensor) GetMovingAvg() (avg float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	return sensor.MovingAvg
}

func (sensor *CmdSensor) SetMovingAvg(avg float64) {
	sensor.mu.Lock()
	defer sensor.mu.Unlock()
	sensor.MovingAvg = avg
}
