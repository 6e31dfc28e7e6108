package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/nclpost/foundation/utils/stringx"
	"github.com/msto63/nclpost/internal/store"
)

var (
	historyLimit    int
	historyErrors   bool
	historySource   string
	historySince    time.Duration
	historyOutput   string
	historyUnknowns bool
	historyKind     string
	historyDays     int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Gespeicherte Läufe anzeigen",
	Long: `Listet die im Run-Store (store.path) gespeicherten Parse-Läufe.

Beispiele:
  nclpost history
  nclpost history --errors --limit 5
  nclpost history show <run-id> --unknowns
  nclpost history stats
  nclpost history prune --days 30`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Details eines Laufs anzeigen",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Statistik über alle Läufe",
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Alte Läufe löschen",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.PersistentFlags().StringVarP(&historyOutput, "output", "o", "text", "Ausgabeformat (text, json, yaml)")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Max. Anzahl Läufe")
	historyCmd.Flags().BoolVar(&historyErrors, "errors", false, "Nur Läufe mit unbekannten Zeilen")
	historyCmd.Flags().StringVar(&historySource, "source", "", "Nur Läufe dieser Datei")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "Nur Läufe der letzten Zeitspanne (z.B. 24h)")

	historyShowCmd.Flags().BoolVar(&historyUnknowns, "unknowns", false, "Unbekannte Zeilen anzeigen")
	historyShowCmd.Flags().StringVar(&historyKind, "kind", "", "Befehle dieser Art anzeigen (z.B. goto)")

	historyPruneCmd.Flags().IntVar(&historyDays, "days", 0, "Läufe älter als N Tage löschen (default: store.retention_days)")
}

func withStore(fn func(ctx context.Context, st store.RunStore) error) error {
	if err := validateOutput(historyOutput); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(context.Background(), st)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, st store.RunStore) error {
		filter := store.RunFilter{
			Source:     historySource,
			WithErrors: historyErrors,
			Limit:      historyLimit,
		}
		if historySince > 0 {
			filter.Since = time.Now().Add(-historySince)
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyOutput != "text" {
			return writeStructured(out, historyOutput, runs)
		}

		if len(runs) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("Keine gespeicherten Läufe."))
			return nil
		}
		fmt.Fprintln(out, headerStyle.Render("Gespeicherte Läufe"))
		for _, r := range runs {
			fmt.Fprintf(out, "  %s %s  %s  %-30s %5d Zeilen %3d Fehler %3d Seq.\n",
				statusIcon(r.ErrorCount == 0),
				mutedStyle.Render(stringx.Truncate(r.ID, 8, "")),
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				stringx.Truncate(r.Source, 30, "..."),
				r.LineCount, r.ErrorCount, r.SequenceCount)
		}
		return nil
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, st store.RunStore) error {
		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		seqs, err := st.Sequences(ctx, run.ID)
		if err != nil {
			return err
		}

		type detail struct {
			*store.Run `yaml:",inline"`
			Sequences  []store.StoredSequence `json:"sequences,omitempty" yaml:"sequences,omitempty"`
			Commands   interface{}            `json:"commands,omitempty" yaml:"commands,omitempty"`
		}
		d := detail{Run: run, Sequences: seqs}

		kind := historyKind
		if historyUnknowns {
			kind = "unknown"
		}
		if kind != "" {
			records, err := st.Commands(ctx, run.ID, kind)
			if err != nil {
				return err
			}
			d.Commands = records

			out := cmd.OutOrStdout()
			if historyOutput == "text" {
				printRunText(cmd, run, seqs)
				fmt.Fprintln(out)
				printRecordsText(out, records)
				return nil
			}
		}

		if historyOutput != "text" {
			return writeStructured(cmd.OutOrStdout(), historyOutput, d)
		}
		printRunText(cmd, run, seqs)
		return nil
	})
}

func printRunText(cmd *cobra.Command, run *store.Run, seqs []store.StoredSequence) {
	out := cmd.OutOrStdout()
	body := fmt.Sprintf("Lauf:     %s\nQuelle:   %s\nZeit:     %s\nTeil:     %s\nMaschine: %s %s\nEinheit:  %s\nZeilen:   %d (%d Fehler)",
		run.ID, run.Source, run.CreatedAt.Local().Format(time.RFC3339),
		orDash(run.PartNo), orDash(run.PostProc), run.MachineNo, run.Units,
		run.LineCount, run.ErrorCount)
	fmt.Fprintln(out, boxStyle.Render(body))

	for _, s := range seqs {
		tool := ""
		if s.HasToolCall {
			tool = okStyle.Render(" [Werkzeug]")
		}
		fmt.Fprintf(out, "    %3d  FEATNO %-6s %-24s %4d Zeilen%s\n",
			s.Index, orDash(s.FeatureNumber), stringx.Truncate(s.Name, 24, "..."), s.LineCount, tool)
	}
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, st store.RunStore) error {
		stats, err := st.Stats(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyOutput != "text" {
			return writeStructured(out, historyOutput, stats)
		}

		fmt.Fprintln(out, headerStyle.Render("Run-Store Statistik"))
		fmt.Fprintf(out, "  Läufe:  %d\n  Zeilen: %d\n  Fehler: %d\n\n",
			stats["total_runs"], stats["total_lines"], stats["total_errors"])

		byKind, _ := stats["by_kind"].(map[string]int64)
		kinds := make([]string, 0, len(byKind))
		for k := range byKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(out, "  %s %8d\n", kindStyle.Render(k), byKind[k])
		}
		return nil
	})
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	return withStore(func(ctx context.Context, st store.RunStore) error {
		days := cfg.Store.RetentionDays
		if historyDays > 0 {
			days = historyDays
		}

		n, err := st.Prune(ctx, time.Duration(days)*24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d Läufe älter als %d Tage gelöscht.\n", n, days)
		return nil
	})
}

func orDash(s string) string {
	if stringx.IsBlank(s) {
		return "-"
	}
	return s
}
