package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/nclpost/foundation/core/error"
	mdwlog "github.com/msto63/nclpost/foundation/core/log"
	"github.com/msto63/nclpost/foundation/ncl/registry"
	"github.com/msto63/nclpost/pkg/core/config"
	"github.com/msto63/nclpost/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	cfg    *config.Config
	logger *mdwlog.Logger
)

// errUnknownLines signals that parsing succeeded but some input lines
// could not be classified
var errUnknownLines = errors.New("unbekannte NCL-Zeilen gefunden")

var rootCmd = &cobra.Command{
	Use:   "nclpost",
	Short: "NCL/APT Postprozessor-Leser",
	Long: `nclpost liest NCL/APT Werkzeugwege (CL-Daten) aus CAM-Systemen,
klassifiziert jede Zeile und zerlegt das Programm in Feature-Sequenzen.

Befehle:
  parse      - NCL-Dateien einlesen und ausgeben
  sequences  - Feature-Sequenzen einer Datei anzeigen
  watch      - Dateien beobachten und bei Änderung neu einlesen
  history    - Gespeicherte Läufe anzeigen und bereinigen
  config     - Effektive Konfiguration anzeigen`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errUnknownLines) {
		printError("Befehl fehlgeschlagen", err)
	}
	return err
}

// ExitCode maps a command error to the process exit code: 2 for inputs
// with unknown lines, 1 for everything else
func ExitCode(err error) int {
	if errors.Is(err, errUnknownLines) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: $"+config.EnvConfigPath+" oder ./configs/nclpost.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose Output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log-Format (text, json)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return err
	}
	logger = logging.FromConfig(cfg, verbose, logFormat, os.Stderr)
	mdwlog.SetDefault(logger)
	return nil
}

// loadConfig reads --config, then the environment and default paths, and
// falls back to built-in defaults when no file exists
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	c, err := config.LoadFromEnv()
	if mdwerror.HasCode(err, mdwerror.CodeNotFound) && os.Getenv(config.EnvConfigPath) == "" {
		return config.Default(), nil
	}
	return c, err
}

func newRegistry() (*registry.Registry, error) {
	return cfg.NewRegistry(logger)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s %s: %v\n", errorStyle.Render("Fehler:"), msg, err)
}
