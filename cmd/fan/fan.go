package fan

import (
	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/fans"
	"github.com/markusressel/fanloop/internal/hwmon"
	"github.com/markusressel/fanloop/internal/persistence"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

// getFan builds the controlled fan the same way the daemon does,
// an explicitly configured pwm path first, then the persisted
// discovery, then auto-discovery.
func getFan() (fans.Fan, error) {
	configPath := configuration.DetectAndReadConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate(configPath)
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	fanConfig := configuration.CurrentConfig.Fan
	if fanConfig.File == nil {
		override := ""
		if fanConfig.HwMon != nil {
			override = fanConfig.HwMon.PwmPath
		}

		var persisted *hwmon.DiscoveredOutput
		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		if stored, err := pers.LoadPwmOutput(); err == nil {
			persisted = &stored
		}

		output, err := hwmon.ResolveOutput(override, persisted, hwmon.FindPwmOutputs())
		if err != nil {
			return nil, err
		}

		hwMonConfig := fanConfig.HwMon
		if hwMonConfig == nil {
			hwMonConfig = &configuration.HwMonFanConfig{}
		}
		hwMonConfig.PwmPath = output.PwmPath
		if hwMonConfig.RpmInput == "" {
			hwMonConfig.RpmInput = output.RpmInput
		}
		fanConfig.HwMon = hwMonConfig
	}

	return fans.NewFan(fanConfig)
}
