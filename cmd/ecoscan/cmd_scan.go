package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/ecoscan/backend/config"
	"github.com/ecoscan/backend/internal/domain"
	"github.com/ecoscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/ecoscan/backend/internal/infrastructure/storage"
	"github.com/ecoscan/backend/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanSymbology string

var scanCmd = &cobra.Command{
	Use:   "scan <barcode>",
	Short: "Look up a barcode and print its environmental assessment",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanSymbology, "symbology", "", "barcode symbology reported by the scanner (passed through)")
}

// buildCore wires the same stack the server uses, minus the router.
func buildCore() (*usecase.ScanService, *usecase.HistoryService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := zap.NewNop()
	backend, err := storage.Open(cfg.Storage.Type, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}

	client := openfoodfacts.NewClient(
		cfg.OpenFoodFacts.BaseURL,
		cfg.OpenFoodFacts.UserAgent,
		cfg.OpenFoodFacts.Timeout,
		logger,
	)
	history := usecase.NewHistoryService(backend, cfg.Storage.HistorySlot, logger)
	scans := usecase.NewScanService(client, history, usecase.ScanServiceConfig{
		DebounceWindow: cfg.Scan.DebounceWindow,
	}, logger)

	return scans, history, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	scans, _, err := buildCore()
	if err != nil {
		return err
	}
	// The append is fire-and-forget; in a one-shot process, drain it
	// before exiting so the scan actually lands in history.
	defer scans.Wait()

	session, err := scans.Scan(cmd.Context(), args[0], scanSymbology)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBarcode) {
			return fmt.Errorf("barcode must not be empty")
		}
		return err
	}

	out := cmd.OutOrStdout()
	switch session.State {
	case usecase.StateReady:
		printRecord(out, session.Record)
		fmt.Fprintln(out)
		fmt.Fprintln(out, session.Assessment.EcoScore)
		fmt.Fprintln(out, session.Assessment.Packaging)
		if session.Assessment.CarbonFootprint != "" {
			fmt.Fprintln(out, session.Assessment.CarbonFootprint)
		}
	case usecase.StateNotFound:
		fmt.Fprintf(out, "No product found for barcode %s\n", session.Barcode)
	default:
		return fmt.Errorf("lookup failed: %v", session.Err)
	}
	return nil
}

func printRecord(out io.Writer, record *domain.ProductRecord) {
	fmt.Fprintf(out, "Product Name: %s\n", record.ProductName)
	if record.Brands != "" {
		fmt.Fprintf(out, "Brand: %s\n", record.Brands)
	}
	if record.Categories != "" {
		fmt.Fprintf(out, "Category: %s\n", record.Categories)
	}
	if record.Packaging != "" {
		fmt.Fprintf(out, "Packaging: %s\n", record.Packaging)
	}
	if grade := record.Grade(); grade != "" {
		fmt.Fprintf(out, "Eco-Score: %s\n", grade)
	}
	if record.CarbonFootprintValue != nil {
		fmt.Fprintf(out, "Carbon Footprint: %g %s\n", *record.CarbonFootprintValue, record.CarbonFootprintUnit)
	}
}
