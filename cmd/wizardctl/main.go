// Command wizardctl runs the Ikigai scoring engine and the summary exporter
// outside the HTTP API, for support staff and fixture checks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var outputFormat string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "wizardctl",
	Short:         "Offline tools for the TedRed internship wizard",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json or yaml")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
