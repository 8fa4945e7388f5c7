package configuration

import (
	"os"
	"time"

	"github.com/markusressel/fanloop/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// LogLevel is the minimum severity that is logged, one of: DEBUG | INFO | WARNING | ERROR
	LogLevel string `json:"logLevel"`

	// PollInterval is the time between two control cycles
	PollInterval time.Duration `json:"pollInterval"`
	// SensorTimeout bounds each external sensor query
	SensorTimeout time.Duration `json:"sensorTimeout"`
	// TempRollingWindowSize smooths sensor readings over this many samples
	TempRollingWindowSize int `json:"tempRollingWindowSize"`

	// MaxActuationRetries is the number of consecutive failed pwm writes
	// tolerated before the fan channel is considered lost
	MaxActuationRetries int `json:"maxActuationRetries"`

	Fan        FanConfig        `json:"fan"`
	Controller ControllerConfig `json:"controller"`
	Sensors    []SensorConfig   `json:"sensors"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
	Profiling  ProfilingConfig  `json:"profiling"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("fanloop")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/fanloop/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbpath", "/etc/fanloop/fanloop.db")
	viper.SetDefault("loglevel", "INFO")

	viper.SetDefault("pollinterval", 5*time.Second)
	viper.SetDefault("sensortimeout", 2*time.Second)
	viper.SetDefault("temprollingwindowsize", 1)
	viper.SetDefault("maxactuationretries", 3)

	viper.SetDefault("fan.neverstop", true)

	viper.SetDefault("controller.tempmin", 35.0)
	viper.SetDefault("controller.temptarget", 55.0)
	viper.SetDefault("controller.tempmax", 70.0)
	viper.SetDefault("controller.fanspeedmin", 80)
	viper.SetDefault("controller.fanspeedmax", 255)
	viper.SetDefault("controller.hysteresis", 2.0)
	viper.SetDefault("controller.maxstep", 20)
	viper.SetDefault("controller.fallback", FallbackPolicyMax)
	viper.SetDefault("controller.pwmsetdelay", 10*time.Millisecond)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("profiling.enabled", false)
	viper.SetDefault("profiling.host", "localhost")
	viper.SetDefault("profiling.port", 6060)

	viper.SetDefault("sensors", []SensorConfig{})
}

// DetectAndReadConfigFile reads the configuration file and
// returns the path of the file that was used.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// LoadConfig parses the detected configuration file into CurrentConfig.
func LoadConfig() {
	err := viper.Unmarshal(
		&CurrentConfig,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			FallbackPolicyHookFunc(),
		)),
	)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
