package gamefreeze

import (
	"fmt"

	"github.com/sjzar/gamefreeze/internal/autostart"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(autostartCmd)
	autostartCmd.AddCommand(autostartInstallCmd)
	autostartCmd.AddCommand(autostartUninstallCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
}

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage start-on-login registration",
}

var autostartInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register daemon to start on login",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := autostart.NewService()
		if err != nil {
			log.Err(err).Msg("failed to init autostart")
			return
		}
		if err := s.Install(); err != nil {
			log.Err(err).Msg("failed to install autostart")
			return
		}
		fmt.Println("autostart installed")
	},
}

var autostartUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove start-on-login registration",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := autostart.NewService()
		if err != nil {
			log.Err(err).Msg("failed to init autostart")
			return
		}
		if err := s.Uninstall(); err != nil {
			log.Err(err).Msg("failed to uninstall autostart")
			return
		}
		fmt.Println("autostart removed")
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show start-on-login registration status",
	Run: func(cmd *cobra.Command, args []string) {
		s, err := autostart.NewService()
		if err != nil {
			log.Err(err).Msg("failed to init autostart")
			return
		}
		installed, err := s.Installed()
		if err != nil {
			log.Err(err).Msg("failed to query autostart")
			return
		}
		if installed {
			fmt.Println("autostart: installed")
		} else {
			fmt.Println("autostart: not installed")
		}
	},
}
