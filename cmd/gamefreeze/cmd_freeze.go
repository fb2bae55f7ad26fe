package gamefreeze

import (
	"fmt"

	"github.com/sjzar/gamefreeze/internal/gamefreeze"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(freezeCmd)
	freezeCmd.Flags().Uint32VarP(&freezePID, "pid", "p", 0, "process id")
	freezeCmd.MarkFlagRequired("pid")
}

var freezePID uint32

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Freeze a process by pid",
	Run: func(cmd *cobra.Command, args []string) {
		m := gamefreeze.New()
		if err := m.CommandFreeze(ConfigPath, freezePID); err != nil {
			log.Err(err).Msg("failed to freeze process")
			return
		}
		fmt.Printf("frozen pid %d\n", freezePID)
	},
}
