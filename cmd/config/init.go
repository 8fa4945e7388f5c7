package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/markusressel/fanloop/internal/ui"
	"github.com/markusressel/fanloop/internal/util"
	"github.com/spf13/cobra"
)

var (
	initPath  string
	initForce bool
)

const defaultConfig = `# fanloop configuration
# see 'fanloop detect' for the pwm outputs and temp inputs of this machine

# dbPath: /etc/fanloop/fanloop.db
# pollInterval: 5s
# sensorTimeout: 2s

sensors:
  - id: cpu
    cpu: {}
    # chip match for the 'sensors -j' output, defaults to coretemp:
    # cpu:
    #   chip: k10temp
    #   label: Tctl

  # - id: nvme
  #   disk:
  #     devices:
  #       - /dev/nvme0n1

fan:
  neverStop: true
  # pin the fan explicitly instead of relying on discovery:
  # hwmon:
  #   pwmPath: /sys/class/hwmon/hwmon4/pwm1

controller:
  tempMin: 35
  tempTarget: 55
  tempMax: 70
  fanSpeedMin: 80
  fanSpeedMax: 255
  hysteresis: 2
  maxStep: 20
  # what to do when no sensor delivers data: hold | max
  fallback: max

statistics:
  enabled: false
  port: 9000

api:
  enabled: false
  host: localhost
  port: 9001
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a default configuration file",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(initPath); err == nil && !initForce {
			return fmt.Errorf("config file %s already exists, use --force to overwrite it", initPath)
		}

		if err := os.MkdirAll(filepath.Dir(initPath), 0755); err != nil {
			return err
		}
		if err := util.WriteTextToFileAtomic(defaultConfig, initPath); err != nil {
			return err
		}

		ui.Success("Wrote default configuration to %s", initPath)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initPath, "output", "o", "/etc/fanloop/fanloop.yaml", "Path of the config file to write")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")

	Command.AddCommand(initCmd)
}
