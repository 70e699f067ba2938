package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/logger"
)

var version = "dev"

type rootOptions struct {
	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "timetable",
		Short:         "Generate weekly school timetables from subject sheets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logger.New(config.EnvDevelopment, config.LogConfig{Level: opts.logLevel, Format: opts.logFormat})
			if err != nil {
				return err
			}
			opts.logger = l
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = opts.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.logLevel, "log-level", "l", "warn",
		"logging level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "log encoding (console or json)")

	cmd.AddCommand(
		newRunCmd(opts),
		newGroupsCmd(opts),
		newTokenCmd(),
		newMigrateCmd(opts),
	)
	return cmd
}
