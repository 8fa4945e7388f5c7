package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/markusressel/fanloop/cmd/global"
	"github.com/markusressel/fanloop/internal/aggregation"
	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/persistence"
	"github.com/markusressel/fanloop/internal/sensors"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current sensor and fan readings to console",
	Long: `Reads all configured sensors and the controlled pwm output once
and prints the results. Runs without root, values that cannot be
read are shown as N/A.`,
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		err := configuration.Validate(configPath)
		if err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}

		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		// === sensors
		var sensorList []sensors.Sensor
		var sensorRows [][]string
		for _, config := range configuration.CurrentConfig.Sensors {
			sensor, err := sensors.NewSensor(config, configuration.CurrentConfig.SensorTimeout)
			if err != nil {
				sensorRows = append(sensorRows, []string{"", config.ID, sensorTypeName(config), "N/A"})
				continue
			}
			sensorList = append(sensorList, sensor)

			valueText := "N/A"
			if value, err := sensor.GetValue(); err == nil {
				valueText = fmt.Sprintf("%.1f", value)
			}
			sensorRows = append(sensorRows, []string{"", config.ID, sensorTypeName(config), valueText})
		}

		sensorTable := table.Table{
			Headers: []string{"Sensors", "ID", "Type", "Temp"},
			Rows:    sensorRows,
		}
		var buf bytes.Buffer
		if err := sensorTable.WriteTable(&buf, tableConfig); err != nil {
			ui.Fatal("Error printing table: %v", err)
		}
		ui.Printfln(buf.String())

		// === control temperature
		aggregator := aggregation.NewAggregator(sensorList, 1)
		controlTemp, _, err := aggregator.ControlTemperature()
		if err != nil {
			ui.Warning("No temperature data available")
		} else {
			ui.Printfln("Control temperature: %.1f", controlTemp)
		}

		// === fan
		pwmPath := resolvedPwmPath()
		if pwmPath == "" {
			ui.Printfln("PWM output: not resolved yet, run 'fanloop configure' or set fan.hwmon.pwmPath")
			return
		}

		pwmText := "N/A"
		if pwm, err := util.ReadIntFromFile(pwmPath); err == nil {
			pwmText = strconv.Itoa(pwm)
		}
		rpmText := "N/A"
		if configuration.CurrentConfig.Fan.HwMon != nil && configuration.CurrentConfig.Fan.HwMon.RpmInput != "" {
			if rpm, err := util.ReadIntFromFile(configuration.CurrentConfig.Fan.HwMon.RpmInput); err == nil {
				rpmText = strconv.Itoa(rpm)
			}
		}

		fanTable := table.Table{
			Headers: []string{"Fan", ""},
			Rows: [][]string{
				{"PWM Path", pwmPath},
				{"PWM", pwmText},
				{"RPM", rpmText},
			},
		}
		buf.Reset()
		if err := fanTable.WriteTable(&buf, tableConfig); err != nil {
			ui.Fatal("Error printing table: %v", err)
		}
		ui.Printfln(buf.String())
	},
}

// resolvedPwmPath returns the pwm output the daemon would control,
// an explicitly configured path first, then the persisted discovery.
func resolvedPwmPath() string {
	if configuration.CurrentConfig.Fan.HwMon != nil && configuration.CurrentConfig.Fan.HwMon.PwmPath != "" {
		return configuration.CurrentConfig.Fan.HwMon.PwmPath
	}

	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	output, err := pers.LoadPwmOutput()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			ui.Debug("Unable to read persisted pwm output: %v", err)
		}
		return ""
	}
	return output.PwmPath
}

func sensorTypeName(config configuration.SensorConfig) string {
	switch {
	case config.CPU != nil:
		return "cpu"
	case config.Disk != nil:
		return "disk"
	case config.HwMon != nil:
		return "hwmon"
	case config.Cmd != nil:
		return "cmd"
	case config.File != nil:
		return "file"
	default:
		return "unknown"
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
