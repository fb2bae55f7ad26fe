package gamefreeze

import (
	"fmt"

	"github.com/sjzar/gamefreeze/internal/gamefreeze"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.Flags().Uint32VarP(&resumePID, "pid", "p", 0, "process id")
	resumeCmd.MarkFlagRequired("pid")
}

var resumePID uint32

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a process by pid",
	Run: func(cmd *cobra.Command, args []string) {
		m := gamefreeze.New()
		if err := m.CommandResume(ConfigPath, resumePID); err != nil {
			log.Err(err).Msg("failed to resume process")
			return
		}
		fmt.Printf("resumed pid %d\n", resumePID)
	},
}
