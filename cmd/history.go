/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/tmtune/internal/jsonl"
)

var (
	historyShowLimit  int
	historyExportPath string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded conversion runs",
	Long: `List, inspect, export and clear the conversion runs recorded in the
SQLite history database. Recording is enabled with --db or history.db.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tFORMAT\tSOURCE\tTARGET\tPAIRS\tSTATUS\tINPUT")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\t%s (%s)\t%d\t%s\t%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Format,
				r.SourceLang, r.SourceKey, r.TargetLang, r.TargetKey,
				r.PairCount, r.Status, truncate(r.InputFile, 40))
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show history statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total runs:     %d\n", stats.TotalRuns)
		fmt.Fprintf(out, "Empty runs:     %d\n", stats.EmptyRuns)
		fmt.Fprintf(out, "Total pairs:    %d\n", stats.TotalPairs)
		fmt.Fprintf(out, "Distinct pairs: %d\n", stats.DistinctPairs)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its pairs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		run, err := db.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		pairs, err := db.GetRunPairs(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to load pairs: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:      %s\n", run.ID)
		fmt.Fprintf(out, "Created: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Format:  %s\n", run.Format)
		fmt.Fprintf(out, "Input:   %s\n", run.InputFile)
		fmt.Fprintf(out, "Output:  %s\n", run.OutputFile)
		fmt.Fprintf(out, "Source:  %s (%s)\n", run.SourceLang, run.SourceKey)
		fmt.Fprintf(out, "Target:  %s (%s)\n", run.TargetLang, run.TargetKey)
		fmt.Fprintf(out, "Status:  %s\n", run.Status)
		fmt.Fprintf(out, "Pairs:   %d\n", run.PairCount)

		if len(pairs) == 0 {
			return nil
		}
		fmt.Fprintln(out)

		shown := pairs
		if historyShowLimit > 0 && len(shown) > historyShowLimit {
			shown = shown[:historyShowLimit]
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tSOURCE\tTARGET")
		for i, p := range shown {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, truncate(p.Source, 50), truncate(p.Target, 50))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(shown) < len(pairs) {
			fmt.Fprintf(out, "... %d more\n", len(pairs)-len(shown))
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write the pairs of a recorded run to a JSONL file again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		run, err := db.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		pairs, err := db.GetRunPairs(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to load pairs: %w", err)
		}

		path := cleanPath(historyExportPath)
		n, err := jsonl.NewEmitter(logger).Write(path, pairs, run.SourceLang, run.TargetLang)
		if err != nil {
			return fmt.Errorf("failed to export run: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", n, path)
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteRun(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run: %s\n", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearRuns(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d runs from history.\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyShowCmd.Flags().IntVarP(&historyShowLimit, "limit", "n", 20, "Maximum number of pairs to print (0 for all)")
	historyExportCmd.Flags().StringVarP(&historyExportPath, "output", "o", "", "Output JSONL file")
	historyExportCmd.MarkFlagRequired("output")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}
