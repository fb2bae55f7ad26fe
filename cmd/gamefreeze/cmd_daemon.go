package gamefreeze

import (
	"github.com/sjzar/gamefreeze/internal/gamefreeze"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run monitoring daemon without UI",
	Run: func(cmd *cobra.Command, args []string) {
		m := gamefreeze.New()
		if err := m.CommandDaemon(ConfigPath); err != nil {
			log.Err(err).Msg("failed to run daemon")
		}
	},
}
