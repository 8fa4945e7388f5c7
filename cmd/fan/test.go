package fan

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/markusressel/fanloop/cmd/global"
	"github.com/markusressel/fanloop/internal/fans"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var testStep int

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Sweeps the fan across its duty range and reports the result",
	Long: `Writes increasing PWM values to the fan, verifies each write by
reading it back and measures the resulting RPM where available.
The previous fan state is restored afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if testStep <= 0 || testStep > fans.MaxPwmValue {
			return fmt.Errorf("invalid step size: %d", testStep)
		}

		fan, err := getFan()
		if err != nil {
			return err
		}

		// save the current state so it can be restored afterwards
		originalPwm, err := fan.GetPwm()
		if err != nil {
			return err
		}
		originalPwmEnabled := 0
		hasControlMode := fan.Supports(fans.FeatureControlMode)
		if hasControlMode {
			originalPwmEnabled, err = fan.GetPwmEnabled()
			if err != nil {
				return err
			}
			if err = fan.SetPwmEnabled(fans.ControlModePWM); err != nil {
				return err
			}
		}
		defer func() {
			if restoreErr := fan.SetPwm(originalPwm); restoreErr != nil {
				ui.Warning("Unable to restore pwm of %s: %v", fan.GetId(), restoreErr)
			}
			if hasControlMode {
				if restoreErr := fan.SetPwmEnabled(fans.ControlMode(originalPwmEnabled)); restoreErr != nil {
					ui.Warning("Unable to restore pwm mode of %s: %v", fan.GetId(), restoreErr)
				}
			}
		}()

		hasRpm := fan.Supports(fans.FeatureRpmSensor)

		ui.Info("Sweeping %s from %d to %d in steps of %d...", fan.GetId(), fans.MinPwmValue, fans.MaxPwmValue, testStep)

		var rows [][]string
		for pwm := fans.MinPwmValue; pwm <= fans.MaxPwmValue; pwm += testStep {
			if err = fan.SetPwm(pwm); err != nil {
				return err
			}

			// most rpm sensors update only about once a second
			time.Sleep(2 * time.Second)

			readBack, err := fan.GetPwm()
			if err != nil {
				return err
			}

			rpmText := "N/A"
			if hasRpm {
				if rpm, err := fan.GetRpm(); err == nil {
					rpmText = strconv.Itoa(rpm)
				}
			}

			rows = append(rows, []string{
				"", strconv.Itoa(pwm), strconv.Itoa(readBack), fmt.Sprintf("%v", readBack == pwm), rpmText,
			})
		}

		tab := table.Table{
			Headers: []string{"Sweep  ", "PWM", "Read", "OK", "RPM"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		if tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}); tableErr != nil {
			return tableErr
		}
		ui.Printfln(buf.String())

		ui.Success("Done!")
		return nil
	},
}

func init() {
	testCmd.Flags().IntVarP(&testStep, "step", "s", 51, "PWM step size between measurements")

	Command.AddCommand(testCmd)
}
