package cmd

import (
	"github.com/spf13/cobra"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Effektive Konfiguration anzeigen",
	Long: `Gibt die effektive Konfiguration aus (Datei plus Defaults).

Beispiele:
  nclpost config
  nclpost config --format yaml > nclpost.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cfg.Write(cmd.OutOrStdout(), configFormat)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVarP(&configFormat, "format", "f", "toml", "Format (toml, yaml)")
}
