/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/poseidon-capital/console/config"
	"github.com/poseidon-capital/console/internal/observability"
)

// cfg is loaded once before any subcommand runs.
var cfg config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "poseidon",
	Short: "Poseidon trading back-office console",
	Long: `Poseidon serves the back-office console for bid lists, curve points,
ratings, rules and trades, and provides the tooling to operate it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.LoadConfig()
		slog.SetDefault(observability.InitSlog(cfg.LogLevel, cfg.Env == "dev"))
	},
}

// Execute adds all child commands to the root command and runs it with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
