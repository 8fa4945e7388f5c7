package cmd

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/fans"
	"github.com/markusressel/fanloop/internal/hwmon"
	"github.com/markusressel/fanloop/internal/persistence"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	// rpm changes below this threshold count as settled
	settleRpmDiffThreshold = 10.0
	settleWindowSize       = 5
	maxSettleChecks        = 10
	settleFallbackDelay    = 3 * time.Second
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Interactively find and persist the pwm output of the fan",
	Long: `Probes each detected pwm output one at a time by forcing it to full
speed and asking whether the fan reacted. The first confirmed output
is persisted and used by the daemon from then on.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setupUi()

		if os.Geteuid() != 0 {
			ui.FatalWithoutStacktrace("Probing fan outputs requires root permissions, please run fanloop configure as root")
		}

		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		candidates := hwmon.FindPwmOutputs()
		if len(candidates) <= 0 {
			ui.FatalWithoutStacktrace("No pwm outputs found, nothing to configure.")
		}

		pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
		if err := pers.Init(); err != nil {
			return err
		}

		for _, candidate := range candidates {
			if !candidate.Writable {
				ui.Warning("Skipping %s (%s): not writable", candidate.PwmPath, candidate.Name)
				continue
			}

			confirmed, err := probeCandidate(candidate)
			if err != nil {
				ui.Warning("Unable to probe %s: %v", candidate.PwmPath, err)
				continue
			}
			if !confirmed {
				continue
			}

			output := hwmon.DiscoveredOutput{
				PwmPath:      candidate.PwmPath,
				Name:         candidate.Name,
				RpmInput:     candidate.RpmInput,
				DiscoveredAt: time.Now(),
			}
			if err := pers.SavePwmOutput(output); err != nil {
				return err
			}
			ui.Success("Saved %s (%s) as the controlled pwm output.", output.PwmPath, output.Name)
			return nil
		}

		return fmt.Errorf("no pwm output was confirmed, the fan of this machine does not seem to be controllable via hwmon")
	},
}

// probeCandidate forces the given output to full speed and asks the
// operator whether the fan reacted. The previous pwm and pwm_enable
// values are restored no matter what the answer is.
func probeCandidate(candidate hwmon.Candidate) (confirmed bool, err error) {
	ui.Printfln("Probing %s (%s)...", candidate.PwmPath, candidate.Name)

	originalPwm, err := util.ReadIntFromFile(candidate.PwmPath)
	if err != nil {
		return false, err
	}

	enablePath := candidate.PwmPath + "_enable"
	originalEnabled, enableErr := util.ReadIntFromFile(enablePath)
	if enableErr == nil {
		if err = util.WriteIntToFile(int(fans.ControlModePWM), enablePath); err != nil {
			return false, err
		}
	}
	defer func() {
		if writeErr := util.WriteIntToFile(originalPwm, candidate.PwmPath); writeErr != nil {
			ui.Warning("Unable to restore pwm of %s: %v", candidate.PwmPath, writeErr)
		}
		if enableErr == nil {
			if writeErr := util.WriteIntToFile(originalEnabled, enablePath); writeErr != nil {
				ui.Warning("Unable to restore pwm mode of %s: %v", candidate.PwmPath, writeErr)
			}
		}
	}()

	if err = util.WriteIntToFile(fans.MaxPwmValue, candidate.PwmPath); err != nil {
		return false, err
	}

	waitForFanToSettle(candidate.RpmInput)

	return pterm.DefaultInteractiveConfirm.Show("Did the fan speed up audibly or visibly?")
}

// waitForFanToSettle blocks until the rpm reading stops changing, or
// for a fixed delay when no rpm input is available.
func waitForFanToSettle(rpmInput string) {
	spinner, _ := pterm.DefaultSpinner.Start("Waiting for the fan to react...")

	if rpmInput == "" {
		time.Sleep(settleFallbackDelay)
	} else {
		diffWindow := util.CreateRollingWindow(settleWindowSize)
		util.FillWindow(diffWindow, settleWindowSize, 2*settleRpmDiffThreshold)
		oldRpm := 0
		for i := 0; i < maxSettleChecks; i++ {
			time.Sleep(1 * time.Second)
			currentRpm, err := util.ReadIntFromFile(rpmInput)
			if err != nil {
				break
			}
			diffWindow.Append(math.Abs(float64(currentRpm - oldRpm)))
			oldRpm = currentRpm
			if math.Ceil(util.GetWindowMax(diffWindow)) < settleRpmDiffThreshold {
				break
			}
		}
	}

	if spinner != nil {
		_ = spinner.Stop()
	}
}

func init() {
	rootCmd.AddCommand(configureCmd)
}
