// Package cli holds the portal's cobra commands.
package cli

import (
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/config"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagEnvFile   string
	flagLogLevel  string
	flagLogFormat string

	cfg config.Config
)

// NewRootCmd creates the root cobra command for the portal binary.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portal",
		Short: "Bookfair staff portal",
		Long:  "Runs the bookfair staff portal and, for local development, stand-in backends.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(flagEnvFile); err != nil {
				return err
			}
			loaded, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			cfg = loaded

			level, format := cfg.GetLogLevel(), cfg.GetLogFormat()
			if cmd.Flags().Changed("log-level") {
				level = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				format = flagLogFormat
			}
			logging.Install(logging.NewWithWriter(level, format, cmd.ErrOrStderr()))
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML file of KEY: value settings (environment wins)")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before the config (missing is fine)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "Log format (console, json)")

	root.AddCommand(
		newServeCmd(),
		newMockCmd(),
		newConfigCmd(),
	)

	return root
}
