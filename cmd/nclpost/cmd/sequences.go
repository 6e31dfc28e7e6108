package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/nclpost/foundation/ncl/ast"
	"github.com/msto63/nclpost/internal/batch"
)

var (
	seqOutput   string
	seqMaxGoto  int
	seqCommands bool
)

var sequencesCmd = &cobra.Command{
	Use:     "sequences [datei]",
	Aliases: []string{"seq"},
	Short:   "Feature-Sequenzen einer Datei anzeigen",
	Long: `Zerlegt eine NCL-Datei an den konfigurierten Feature-Markern
(parser.markers) in Sequenzen. Mit --max-goto wird jede Sequenz nach der
angegebenen Anzahl GOTO-Bewegungen abgeschnitten, --max-goto 0 schneidet
nicht ab.

Beispiele:
  nclpost sequences teil.ncl
  nclpost sequences --max-goto 100 --commands teil.ncl
  nclpost sequences --output yaml teil.ncl`,
	Args: cobra.ExactArgs(1),
	RunE: runSequences,
}

func init() {
	rootCmd.AddCommand(sequencesCmd)

	sequencesCmd.Flags().StringVarP(&seqOutput, "output", "o", "text", "Ausgabeformat (text, json, yaml)")
	sequencesCmd.Flags().IntVar(&seqMaxGoto, "max-goto", -1, "Max. GOTO pro Sequenz (0 = unbegrenzt, -1 = sequence.max_goto_count)")
	sequencesCmd.Flags().BoolVarP(&seqCommands, "commands", "c", false, "Befehle jeder Sequenz ausgeben")
}

func runSequences(cmd *cobra.Command, args []string) error {
	if err := validateOutput(seqOutput); err != nil {
		return err
	}

	opts, err := batchOptions(seqMaxGoto, 1)
	if err != nil {
		return err
	}

	r := batch.ParseFile(context.Background(), args[0], opts)
	if r.Err != nil {
		return r.Err
	}

	records := make([]ast.SequenceRecord, 0, len(r.Sequences))
	for i, seq := range r.Sequences {
		records = append(records, ast.ToSequenceRecord(i, seq, seqCommands))
	}

	out := cmd.OutOrStdout()
	if seqOutput != "text" {
		return writeStructured(out, seqOutput, records)
	}

	fmt.Fprintln(out, titleStyle.Render(r.Path))
	if len(records) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("    Keine Feature-Sequenzen gefunden (parser.markers konfiguriert?)"))
		return nil
	}
	for _, rec := range records {
		printSequenceText(out, rec)
	}
	return nil
}
