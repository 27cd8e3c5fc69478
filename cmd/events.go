/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/poseidon-capital/console/internal/mq"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect record change events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Log change events as they arrive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		backend, err := mq.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if backend == nil {
			return errors.New("EVENTS_BACKEND is none; nothing to tail")
		}
		defer backend.Close()

		slog.Info("tailing change events", "backend", cfg.Events.Backend, "channel", cfg.Events.Channel)
		err = mq.Subscribe(ctx, backend, cfg.Events.Channel, slog.Default(), func(ev mq.Event) error {
			slog.Info("change event",
				"kind", ev.Kind,
				"action", ev.Action,
				"id", ev.ID,
				"actor", ev.Actor,
				"at", ev.At,
			)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
