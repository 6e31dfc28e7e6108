package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/internal/batch"
	"github.com/msto63/nclpost/internal/store"
)

var (
	parseOutput      string
	parseFailOnError bool
	parseSave        bool
	parseNoSave      bool
	parseCommands    bool
	parseMaxGoto     int
	parseWorkers     int
)

var parseCmd = &cobra.Command{
	Use:   "parse [dateien|verzeichnisse|muster...]",
	Short: "NCL-Dateien einlesen",
	Long: `Liest NCL/APT Dateien ein, klassifiziert jede logische Zeile und
zerlegt das Programm in Feature-Sequenzen.

Verzeichnisse werden nach *.ncl, *.apt und *.cl durchsucht. Mehrere Dateien
werden parallel gelesen.

Beispiele:
  nclpost parse teil.ncl
  nclpost parse --commands teil.ncl
  nclpost parse --output json programme/
  nclpost parse --fail-on-error --max-goto 500 "programme/*.ncl"
  nclpost parse --save teil.ncl`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "text", "Ausgabeformat (text, json, yaml)")
	parseCmd.Flags().BoolVar(&parseFailOnError, "fail-on-error", false, "Exit-Code 2 bei unbekannten Zeilen")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Lauf im Run-Store speichern")
	parseCmd.Flags().BoolVar(&parseNoSave, "no-save", false, "Nicht speichern, auch wenn store.enabled gesetzt ist")
	parseCmd.Flags().BoolVarP(&parseCommands, "commands", "c", false, "Alle Befehle ausgeben")
	parseCmd.Flags().IntVar(&parseMaxGoto, "max-goto", -1, "Max. GOTO pro Sequenz (0 = unbegrenzt, -1 = sequence.max_goto_count)")
	parseCmd.Flags().IntVarP(&parseWorkers, "workers", "w", 0, "Parallele Dateien (default: batch.workers)")
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := validateOutput(parseOutput); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	paths, err := batch.Collect(args, nil)
	if err != nil {
		return err
	}

	opts, err := batchOptions(parseMaxGoto, parseWorkers)
	if err != nil {
		return err
	}

	results, err := batch.ParseFiles(ctx, paths, opts)
	if err != nil {
		return err
	}

	if shouldSave(parseSave, parseNoSave) {
		if err := saveResults(ctx, results); err != nil {
			return err
		}
	}

	reports := make([]fileReport, 0, len(results))
	for _, r := range results {
		reports = append(reports, newFileReport(r, parseCommands, false))
	}

	out := cmd.OutOrStdout()
	if parseOutput == "text" {
		for i, rep := range reports {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printReportText(out, rep)
		}
	} else {
		var v interface{} = reports
		if len(reports) == 1 {
			v = reports[0]
		}
		if err := writeStructured(out, parseOutput, v); err != nil {
			return err
		}
	}

	return resultStatus(results, parseFailOnError)
}

// batchOptions builds the parse options from config and flag overrides;
// negative / zero flag values mean "use the config"
func batchOptions(maxGoto, workers int) (batch.Options, error) {
	reg, err := newRegistry()
	if err != nil {
		return batch.Options{}, err
	}
	opts := batch.Options{
		Logger:       logger,
		Registry:     reg,
		Workers:      cfg.Batch.Workers,
		MaxGotoCount: cfg.Sequence.MaxGotoCount,
		LogUnknowns:  true,
	}
	if maxGoto >= 0 {
		opts.MaxGotoCount = maxGoto
	}
	if workers > 0 {
		opts.Workers = workers
	}
	return opts, nil
}

func shouldSave(save, noSave bool) bool {
	if noSave {
		return false
	}
	return save || cfg.Store.Enabled
}

func openStore() (*store.SQLiteRunStore, error) {
	return store.NewSQLiteRunStore(store.SQLiteRunConfig{Path: cfg.Store.Path})
}

// saveResults stores every successfully read file as a run
func saveResults(ctx context.Context, results []*batch.Result) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		run, err := st.SaveRun(ctx, r.Session, r.Sequences)
		if err != nil {
			return err
		}
		logger.Debug("Run saved", mdwlog.Fields{"run": run.ID, "path": r.Path})
	}
	return nil
}

// resultStatus turns read failures into exit code 1 and, with
// failOnError, unknown lines into exit code 2
func resultStatus(results []*batch.Result, failOnError bool) error {
	unknown := false
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
		if r.Session.ErrorCount() > 0 {
			unknown = true
		}
	}
	if unknown && failOnError {
		return errUnknownLines
	}
	return nil
}
