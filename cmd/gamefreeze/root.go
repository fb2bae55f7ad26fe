package gamefreeze

import (
	"github.com/sjzar/gamefreeze/internal/gamefreeze"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	// windows only
	cobra.MousetrapHelpText = ""

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "debug")
	rootCmd.PersistentFlags().StringVar(&ConfigPath, "config", "", "config dir")
	rootCmd.PersistentPreRun = initLog
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command execution failed")
	}
}

var rootCmd = &cobra.Command{
	Use:     "gamefreeze",
	Short:   "gamefreeze",
	Long:    `自动冻结后台进程，为游戏腾出资源`,
	Example: `gamefreeze`,
	Args:    cobra.MinimumNArgs(0),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PreRun: initTuiLog,
	Run:    Root,
}

func Root(cmd *cobra.Command, args []string) {
	m := gamefreeze.New()
	if err := m.Run(ConfigPath); err != nil {
		log.Err(err).Msg("failed to run gamefreeze instance")
	}
}
