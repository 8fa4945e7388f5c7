package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/fanloop/cmd/global"
	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/curves"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured fan curve to console",
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		err := configuration.Validate(configPath)
		if err != nil {
			ui.FatalWithoutStacktrace("%v", err)
		}

		controllerConfig := configuration.CurrentConfig.Controller
		curve := curves.NewSpeedCurve(controllerConfig)

		var curveType string
		switch curve.(type) {
		case *curves.LinearSpeedCurve:
			curveType = "Linear"
		case *curves.PidSpeedCurve:
			curveType = "PID"
		default:
			curveType = "Unknown"
		}

		// print table
		tab := table.Table{
			Headers: []string{"", ""},
			Rows: [][]string{
				{"Type", curveType},
				{"Temp Min", fmt.Sprintf("%.1f", controllerConfig.TempMin)},
				{"Temp Target", fmt.Sprintf("%.1f", controllerConfig.TempTarget)},
				{"Temp Max", fmt.Sprintf("%.1f", controllerConfig.TempMax)},
				{"Fan Speed Min", strconv.Itoa(controllerConfig.FanSpeedMin)},
				{"Fan Speed Max", strconv.Itoa(controllerConfig.FanSpeedMax)},
				{"Hysteresis", fmt.Sprintf("%.1f", controllerConfig.Hysteresis)},
				{"Max Step", strconv.Itoa(controllerConfig.MaxStep)},
			},
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			panic(tableErr)
		}
		tableString := buf.String()
		ui.Printfln(tableString)

		// a pid curve output depends on time, only the static
		// mapping of a linear curve can be plotted
		if curveType != "Linear" {
			return
		}

		start := int(controllerConfig.TempMin) - 5
		stop := int(controllerConfig.TempMax) + 5

		values := make([]float64, 0, stop-start+1)
		for temp := start; temp <= stop; temp++ {
			values = append(values, float64(curve.Evaluate(float64(temp))))
		}

		caption := fmt.Sprintf("PWM / Temp (%d..%d)", start, stop)
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)
	},
}

func init() {
	rootCmd.AddCommand(curveCmd)
}
