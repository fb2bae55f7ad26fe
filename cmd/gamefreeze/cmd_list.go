package gamefreeze

import (
	"fmt"

	"github.com/sjzar/gamefreeze/internal/gamefreeze"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listKind, "kind", "k", "candidates", "candidates / gaming / protected / all")
	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "table / json / csv")
}

var (
	listKind   string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List processes without freezing anything",
	Run: func(cmd *cobra.Command, args []string) {
		m := gamefreeze.New()
		out, err := m.CommandList(ConfigPath, listKind, listFormat)
		if err != nil {
			log.Err(err).Msg("failed to list processes")
			return
		}
		fmt.Print(out)
	},
}
