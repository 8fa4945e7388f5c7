package sensors

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/stretchr/testify/assert"
)

func TestNewSensorCpu(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID: "cpu",
		CPU: &configuration.CpuSensorConfig{
			Exec: "/usr/bin/sensors",
		},
	}

	// WHEN
	sensor, err := NewSensor(config, 2*time.Second)

	// THEN
	assert.NoError(t, err)
	assert.IsType(t, &CpuSensor{}, sensor)
	assert.Equal(t, "cpu", sensor.GetId())
}

func TestNewSensorDisk(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID: "hdd",
		Disk: &configuration.DiskSensorConfig{
			Exec:    "/usr/sbin/smartctl",
			Devices: []string{"/dev/sda"},
		},
	}

	// WHEN
	sensor, err := NewSensor(config, 2*time.Second)

	// THEN
	assert.NoError(t, err)
	assert.IsType(t, &DiskSensor{}, sensor)
}

func TestNewSensorHwMon(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID: "board",
		HwMon: &configuration.HwMonSensorConfig{
			TempInput: "/sys/class/hwmon/hwmon0/temp1_input",
		},
	}

	// WHEN
	sensor, err := NewSensor(config, 2*time.Second)

	// THEN
	assert.NoError(t, err)
	assert.IsType(t, &HwmonSensor{}, sensor)
}

func TestNewSensorWithoutSubConfig(t *testing.T) {
	// GIVEN
	config := configuration.SensorConfig{
		ID: "empty",
	}

	// WHEN
	_, err := NewSensor(config, 2*time.Second)

	// THEN
	assert.EqualError(t, err, "no matching sensor type for sensor: empty")
}

func TestHwmonSensorReadsMillidegrees(t *testing.T) {
	// GIVEN
	tempInput := filepath.Join(t.TempDir(), "temp1_input")
	err := os.WriteFile(tempInput, []byte("44500\n"), 0644)
	assert.NoError(t, err)

	sensor := &HwmonSensor{
		Input: tempInput,
		Config: configuration.SensorConfig{
			ID:    "board",
			HwMon: &configuration.HwMonSensorConfig{TempInput: tempInput},
		},
	}

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 44.5, value)
}

func TestFileSensorReadsMillidegrees(t *testing.T) {
	// GIVEN
	path := filepath.Join(t.TempDir(), "temp")
	err := os.WriteFile(path, []byte("61000"), 0644)
	assert.NoError(t, err)

	sensor := &FileSensor{
		Config: configuration.SensorConfig{
			ID:   "case",
			File: &configuration.FileSensorConfig{Path: path},
		},
	}

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 61.0, value)
}

func TestFileSensorMissingFile(t *testing.T) {
	// GIVEN
	sensor := &FileSensor{
		Config: configuration.SensorConfig{
			ID:   "case",
			File: &configuration.FileSensorConfig{Path: "/does/not/exist"},
		},
	}

	// WHEN
	_, err := sensor.GetValue()

	// THEN
	assert.Error(t, err)
}

func TestCmdSensorParsesOutput(t *testing.T) {
	// GIVEN
	if _, err := os.Stat("/bin/echo"); err != nil {
		t.Skip("/bin/echo not available")
	}
	sensor := &CmdSensor{
		Config: configuration.SensorConfig{
			ID: "custom",
			Cmd: &configuration.CmdSensorConfig{
				Exec: "/bin/echo",
				Args: []string{"46.5"},
			},
		},
		Timeout: 2 * time.Second,
	}

	// WHEN
	value, err := sensor.GetValue()

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, 46.5, value)
}

func TestCmdSensorRejectsGarbageOutput(t *testing.T) {
	// GIVEN
	if _, err := os.Stat("/bin/echo"); err != nil {
		t.Skip("/bin/echo not available")
	}
	sensor := &CmdSensor{
		Config: configuration.SensorConfig{
			ID: "custom",
			Cmd: &configuration.CmdSensorConfig{
				Exec: "/bin/echo",
				Args: []string{"not a temperature"},
			},
		},
		Timeout: 2 * time.Second,
	}

	// WHEN
	_, err := sensor.GetValue()

	// THEN
	assert.Error(t, err)
}

func TestSensorMovingAvg(t *testing.T) {
	// GIVEN
	sensor := &HwmonSensor{
		Config: configuration.SensorConfig{ID: "board"},
	}

	// WHEN
	sensor.SetMovingAvg(42.5)

	// THEN
	assert.Equal(t, 42.5, sensor.GetMovingAvg())
}
