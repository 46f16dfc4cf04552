package cli

import (
	"encoding/json"
	"fmt"

	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/pkg/snapshot"
	"github.com/spf13/cobra"
)

const timestampLayout = "2006-01-02 15:04"

func newSnapshotCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Browse saved reports",
	}

	cmd.AddCommand(
		newSnapshotListCmd(a),
		newSnapshotShowCmd(a),
		newSnapshotDeleteCmd(a),
	)

	return cmd
}

func newSnapshotListCmd(a *App) *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshots, err := a.deps.SnapshotService.List(cmd.Context(), kind, limit)
			if err != nil {
				return err
			}
			dtos := make([]snapshot.SnapshotDTO, 0, len(snapshots))
			rows := make([][]string, 0, len(snapshots))
			for _, s := range snapshots {
				dtos = append(dtos, snapshot.SummaryDTO(s))
				rows = append(rows, []string{s.Id.String(), s.Kind, formatDate(s.From), formatDate(s.To), s.GeneratedAt.Local().Format(timestampLayout)})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Kind", "From", "To", "Generated"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No snapshots saved yet. Use --save on a report.",
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only snapshots of this report kind")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of snapshots")

	return cmd
}

func newSnapshotShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.deps.SnapshotService.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			payload, err := json.MarshalIndent(s.Payload, "", "  ")
			if err != nil {
				return err
			}
			var decoded any
			if err := json.Unmarshal(s.Payload, &decoded); err != nil {
				return fmt.Errorf("failed to decode snapshot payload: %w", err)
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Field", "Value"},
				Rows: [][]string{
					{"Id", s.Id.String()},
					{"Kind", s.Kind},
					{"From", formatDate(s.From)},
					{"To", formatDate(s.To)},
					{"Generated", s.GeneratedAt.Local().Format(timestampLayout)},
					{"Payload", string(payload)},
				},
				Value: map[string]any{
					"id":          s.Id.String(),
					"kind":        s.Kind,
					"from":        s.From,
					"to":          s.To,
					"generatedAt": s.GeneratedAt,
					"payload":     decoded,
				},
			})
		},
	}
}

func newSnapshotDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.SnapshotService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.println(cmd, "Deleted snapshot %s", args[0])
			return nil
		},
	}
}
