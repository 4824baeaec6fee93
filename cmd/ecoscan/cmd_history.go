package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously scanned products",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, history, err := buildCore()
	if err != nil {
		return err
	}

	records := history.Load(cmd.Context())
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No scan history available")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printRecord(out, &record)
	}
	return nil
}
