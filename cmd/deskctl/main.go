package main

import (
	"os"

	"newsdesk/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfg config.Cfg

var rootCmd = &cobra.Command{
	Use:   "deskctl",
	Short: "Browse and manage newsdesk content lists from the terminal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if api, _ := cmd.Flags().GetString("api"); api != "" {
			cfg.Client.APIURL = api
		}
		if tok, _ := cmd.Flags().GetString("token"); tok != "" {
			cfg.Client.Token = tok
		}
		level := zerolog.WarnLevel
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().String("api", "", "Dashboard API base URL (default $DESK_API_URL)")
	rootCmd.PersistentFlags().String("token", "", "Session token (default $DESK_TOKEN)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log requests and fetches")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	cfg = config.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
