package configuration

type SensorConfig struct {
	ID string `json:"id"`

	CPU   *CpuSensorConfig   `json:"cpu,omitempty"`
	Disk  *DiskSensorConfig  `json:"disk,omitempty"`
	HwMon *HwMonSensorConfig `json:"hwmon,omitempty"`
	Cmd   *CmdSensorConfig   `json:"cmd,omitempty"`
	File  *FileSensorConfig  `json:"file,omitempty"`
}

// CpuSensorConfig reads the package temperature reported by lm-sensors.
type CpuSensorConfig struct {
	// Exec is the path of the sensors binary, resolved via $PATH when empty
	Exec string `json:"exec,omitempty"`
	// Chip is the chip name prefix to look for, e.g. "coretemp" or "k10temp"
	Chip string `json:"chip,omitempty"`
	// Label is the temperature entry within the chip, e.g. "Package id 0" or "Tctl"
	Label string `json:"label,omitempty"`
}

// DiskSensorConfig reads drive temperatures reported by smartctl.
// When multiple devices are given, the hottest one wins.
type DiskSensorConfig struct {
	// Exec is the path of the smartctl binary, resolved via $PATH when empty
	Exec string `json:"exec,omitempty"`
	// Devices lists the block devices to query, e.g. /dev/sda
	Devices []string `json:"devices"`
}

// HwMonSensorConfig reads a hwmon temperature input directly from sysfs.
type HwMonSensorConfig struct {
	// TempInput is the full path of a tempN_input file
	TempInput string `json:"tempInput"`
}

// CmdSensorConfig runs an arbitrary executable that prints a
// temperature in degrees celsius.
type CmdSensorConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args,omitempty"`
}

// FileSensorConfig reads a temperature in millidegrees from a file,
// mirroring the hwmon sysfs format.
type FileSensorConfig struct {
	Path string `json:"path"`
}
