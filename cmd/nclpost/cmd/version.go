package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/msto63/nclpost/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Zeigt die Version an",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nclpost v%s\n", version.Version)
		fmt.Printf("  Git Commit:   %s\n", version.Commit)
		fmt.Printf("  Build Date:   %s\n", version.BuildDate)
		fmt.Printf("  Store Schema: %d\n", version.StoreSchema)
		fmt.Printf("  Go Version:   %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
