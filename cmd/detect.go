package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/markusressel/fanloop/cmd/global"
	"github.com/markusressel/fanloop/internal/hwmon"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all pwm outputs and temperature sensors and prints them as a list`,
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()

		candidates := hwmon.FindPwmOutputs()
		tempInputs := hwmon.FindTempInputs()

		if len(candidates) <= 0 && len(tempInputs) <= 0 {
			ui.Printfln("No hwmon devices found.")
			return
		}

		// === Print detected devices ===
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

		var fanRows [][]string
		for _, candidate := range candidates {
			pwmText := "N/A"
			if pwm, err := util.ReadIntFromFile(candidate.PwmPath); err == nil {
				pwmText = strconv.Itoa(pwm)
			}

			rpmText := "N/A"
			if len(candidate.RpmInput) > 0 {
				if rpm, err := util.ReadIntFromFile(candidate.RpmInput); err == nil {
					rpmText = strconv.Itoa(rpm)
				}
			}

			_, file := filepath.Split(candidate.PwmPath)
			fanRows = append(fanRows, []string{
				"", candidate.Name, file, rpmText, pwmText, fmt.Sprintf("%v", candidate.Writable),
			})
		}
		var fanHeaders = []string{"Outputs", "Device", "PWM Channel", "RPM", "PWM", "Writable"}

		fanTable := table.Table{
			Headers: fanHeaders,
			Rows:    fanRows,
		}

		var sensorRows [][]string
		for _, tempInput := range tempInputs {
			valueText := strconv.Itoa(int(tempInput.Value))

			_, file := filepath.Split(tempInput.Path)
			labelAndFile := fmt.Sprintf("%s (%s)", tempInput.Label, file)

			sensorRows = append(sensorRows, []string{
				"", tempInput.Name, labelAndFile, valueText,
			})
		}
		var sensorHeaders = []string{"Sensors", "Device", "Label", "Value"}

		sensorTable := table.Table{
			Headers: sensorHeaders,
			Rows:    sensorRows,
		}

		tables := []table.Table{fanTable, sensorTable}

		for idx, tab := range tables {
			if tab.Rows == nil {
				continue
			}
			var buf bytes.Buffer
			tableErr := tab.WriteTable(&buf, tableConfig)
			if tableErr != nil {
				ui.Fatal("Error printing table: %v", tableErr)
			}
			tableString := buf.String()
			if idx < (len(tables) - 1) {
				ui.Printf(tableString)
			} else {
				ui.Printfln(tableString)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
