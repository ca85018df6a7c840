package main

import (
	"fmt"
	"os"

	"github.com/Kotlang/sampledataGo/config"
	"github.com/Kotlang/sampledataGo/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		logger.Error("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the sampledata command tree. Configuration is read once the
// subcommand is known so every run gets its own logger tags.
func NewRootCommand() *cobra.Command {
	inject := &Inject{}

	cmd := &cobra.Command{
		Use:           "sampledata",
		Short:         "Grow and repair the local MongoDB sample data set",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envErr := config.LoadDotEnv()
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.LogLevel); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			logger.With(zap.String("runId", uuid.NewString()), zap.String("command", cmd.Name()))
			if envErr != nil {
				logger.Debug("No .env file loaded", zap.Error(envErr))
			}
			logger.Info("Using sample data directory", zap.String("dir", cfg.DataDir))

			*inject = *NewInject(cfg)
			return nil
		},
	}

	cmd.AddCommand(newAugmentCommand(inject))
	cmd.AddCommand(newEnsureRepliesCommand(inject))
	cmd.AddCommand(newRecomputeStatsCommand(inject))
	return cmd
}

func newAugmentCommand(inject *Inject) *cobra.Command {
	return &cobra.Command{
		Use:   "augment",
		Short: "Add event and discussion pins with their bookmarks, replies and chat activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := inject.AugmentService.Run()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
}

func newEnsureRepliesCommand(inject *Inject) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-replies",
		Short: "Give every pin at least the minimum number of replies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := inject.ReplyService.Run()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.String())
			return nil
		},
	}
}

func newRecomputeStatsCommand(inject *Inject) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-stats",
		Short: "Recompute every derived counter from the relation records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := inject.StatsService.Run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recomputed stats for %d users and %d pins.\n", report.Users, report.Pins)
			return nil
		},
	}
}
