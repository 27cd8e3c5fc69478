/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/poseidon-capital/console/internal/db"
	"github.com/poseidon-capital/console/internal/export"
	"github.com/poseidon-capital/console/internal/forms"
	"github.com/poseidon-capital/console/internal/storage"
	"github.com/poseidon-capital/console/internal/store"
)

type snapshotFunc func(ctx context.Context, dst storage.ObjectStorage, conn *sql.DB, at time.Time) (export.Result, error)

var snapshots = map[string]snapshotFunc{
	forms.BidLists.Name: func(ctx context.Context, dst storage.ObjectStorage, conn *sql.DB, at time.Time) (export.Result, error) {
		return export.Snapshot(ctx, dst, forms.BidLists, store.NewBidListRepository(conn), at)
	},
	forms.CurvePoints.Name: func(ctx context.Context, dst storage.ObjectStorage, conn *sql.DB, at time.Time) (export.Result, error) {
		return export.Snapshot(ctx, dst, forms.CurvePoints, store.NewCurvePointRepository(conn), at)
	},
	forms.Ratings.Name: func(ctx context.Context, dst storage.ObjectStorage, conn *sql.DB, at time.Time) (export.Result, error) {
		return export.Snapshot(ctx, dst, forms.Ratings, store.NewRatingRepository(conn), at)
	},
	forms.RuleNames.Name: func(ctx context.Context, dst storage.ObjectStorage, conn *sql.DB, at time.Time) (export.Result, error) {
		return export.Snapshot(ctx, dst, forms.RuleNames, store.NewRuleNameRepository(conn), at)
	},
	forms.Trades.Name: func(ctx context.Context, dst storage.ObjectStorage, conn *sql.DB, at time.Time) (export.Result, error) {
		return export.Snapshot(ctx, dst, forms.Trades, store.NewTradeRepository(conn), at)
	},
}

func resourceNames() []string {
	names := make([]string, 0, len(snapshots))
	for name := range snapshots {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export RESOURCE...",
	Short: "Upload CSV snapshots of records to object storage",
	Long: `Uploads one CSV snapshot per named resource to the configured object
store. Resources: ` + strings.Join(resourceNames(), ", ") + `, or "all".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(args) == 1 && args[0] == "all" {
			names = resourceNames()
		}
		for _, name := range names {
			if _, ok := snapshots[name]; !ok {
				return fmt.Errorf("unknown resource %q", name)
			}
		}

		ctx := cmd.Context()
		conn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		dst, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer dst.Close()

		at := time.Now()
		for _, name := range names {
			res, err := snapshots[name](ctx, dst, conn, at)
			if err != nil {
				return err
			}
			slog.Info("snapshot uploaded", "bucket", res.Bucket, "key", res.Key, "records", res.Records, "bytes", res.Bytes)
		}
		return nil
	},
}

var exportListCmd = &cobra.Command{
	Use:   "list [RESOURCE]",
	Short: "List uploaded snapshots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := "exports/"
		if len(args) == 1 {
			if _, ok := snapshots[args[0]]; !ok {
				return fmt.Errorf("unknown resource %q", args[0])
			}
			prefix += args[0] + "/"
		}

		dst, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dst.Close()

		objects, err := dst.List(cmd.Context(), prefix)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
		for _, obj := range objects {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.UTC().Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportListCmd)
}
