package fan

import (
	"github.com/markusressel/fanloop/internal/configuration"
	"github.com/markusressel/fanloop/internal/persistence"
	"github.com/markusressel/fanloop/internal/ui"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the persisted pwm output",
	Long: `Deletes the pwm output confirmed by 'fanloop configure' from the database.
The next daemon start falls back to auto-discovery.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectAndReadConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		dbPath := configuration.CurrentConfig.DbPath
		ui.Info("Using persistence at: %s", dbPath)

		p := persistence.NewPersistence(dbPath)
		err := p.DeletePwmOutput()
		if err == nil {
			ui.Success("Done!")
		}

		return err
	},
}

func init() {
	Command.AddCommand(resetCmd)
}
