package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/internal/batch"
	"github.com/msto63/nclpost/internal/store"
	"github.com/msto63/nclpost/internal/watch"
)

var (
	watchDebounce time.Duration
	watchSave     bool
	watchMaxGoto  int
)

var watchCmd = &cobra.Command{
	Use:   "watch [dateien|verzeichnisse...]",
	Short: "Dateien beobachten und bei Änderung neu einlesen",
	Long: `Beobachtet NCL-Dateien oder Verzeichnisse und liest jede geänderte
Datei nach einer Ruhezeit (watch.debounce) neu ein. Beenden mit Ctrl+C.

Beispiele:
  nclpost watch teil.ncl
  nclpost watch --save --debounce 1s programme/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Ruhezeit vor dem Neueinlesen (default: watch.debounce)")
	watchCmd.Flags().BoolVar(&watchSave, "save", false, "Jeden Lauf im Run-Store speichern")
	watchCmd.Flags().IntVar(&watchMaxGoto, "max-goto", -1, "Max. GOTO pro Sequenz (0 = unbegrenzt, -1 = sequence.max_goto_count)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := batchOptions(watchMaxGoto, 1)
	if err != nil {
		return err
	}

	var st *store.SQLiteRunStore
	if shouldSave(watchSave, false) {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
	}

	debounce := cfg.Watch.Debounce.Duration
	if watchDebounce > 0 {
		debounce = watchDebounce
	}

	out := cmd.OutOrStdout()
	handler := func(r *batch.Result) {
		fmt.Fprintf(out, "%s ", mutedStyle.Render(time.Now().Format("15:04:05")))
		printReportText(out, newFileReport(r, false, false))
		if st != nil && r.Err == nil {
			if _, err := st.SaveRun(ctx, r.Session, r.Sequences); err != nil {
				logger.ErrorWithErr("Failed to save run", err, mdwlog.Fields{"path": r.Path})
			}
		}
	}

	w, err := watch.New(handler, watch.Options{
		Logger:   logger,
		Parse:    opts,
		Debounce: debounce,
	})
	if err != nil {
		return err
	}

	for _, path := range args {
		if err := w.Add(path); err != nil {
			w.Stop()
			return err
		}
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, titleStyle.Render("Beobachte "+fmt.Sprint(args))+mutedStyle.Render("  (Ctrl+C zum Beenden)"))

	<-ctx.Done()
	w.Stop()

	stats := w.Stats()
	logger.Info("Watch stopped", mdwlog.Fields{
		"events":   stats.Events,
		"parses":   stats.Parses,
		"failures": stats.Failures,
	})
	return nil
}
