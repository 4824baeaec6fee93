// Command ecoscan is a terminal front end for the scan core: look up a
// barcode, print the environmental assessment, browse the local history.
// It stands in for the mobile app's scan and history screens.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "ecoscan",
	Short:         "Scan product barcodes and assess their environmental impact",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
