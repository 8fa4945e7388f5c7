package configuration

// FanConfig describes the fan channel under control.
//
// When both HwMon and File are nil, the pwm output is taken from the
// persisted discovery result, or auto-discovered when nothing was persisted.
type FanConfig struct {
	// NeverStop keeps the fan above the configured minimum duty cycle
	// even at the lowest temperatures
	NeverStop bool `json:"neverStop"`

	HwMon *HwMonFanConfig `json:"hwmon,omitempty"`
	File  *FileFanConfig  `json:"file,omitempty"`
}

// HwMonFanConfig pins the fan to an explicit hwmon pwm channel,
// taking precedence over persisted and auto-discovered outputs.
type HwMonFanConfig struct {
	// PwmPath is the full path of a pwmN file
	PwmPath string `json:"pwmPath"`
	// RpmInput is the full path of the matching fanN_input file, optional
	RpmInput string `json:"rpmInput,omitempty"`
}

// FileFanConfig controls a plain file instead of a hwmon channel.
type FileFanConfig struct {
	PwmPath string `json:"pwmPath"`
	RpmPath string `json:"rpmPath,omitempty"`
}
