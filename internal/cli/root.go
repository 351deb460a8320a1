// Package cli implements the inspect command line tool.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inspectme/internal/ai"
	"inspectme/internal/app"
	"inspectme/internal/config"
	"inspectme/internal/logging"
)

type generatorFactory func(cfg *config.Config, log logrus.FieldLogger) (ai.TextGenerator, error)

// NewRootCmd creates the root command for inspect.
func NewRootCmd() *cobra.Command {
	return newRootCmd(app.NewGenerator)
}

func newRootCmd(newGenerator generatorFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "inspect",
		Short:         "Turn dictated inspection transcripts into room spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(newRunCmd(newGenerator))
	rootCmd.AddCommand(newTabulateCmd())
	rootCmd.AddCommand(newSchemaCmd())

	return rootCmd
}

// setup loads .env and configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	log, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
