package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coldcall/internal/observability"
	"github.com/jonathan/coldcall/internal/scanner"
	"github.com/jonathan/coldcall/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a candidate record for missing fields",
	Long:  "Loads a candidate record JSON file, scans it for missing or empty fields, and prints the ordered field list a cold-call session would work through.",
	RunE:  runScan,
}

var (
	scanInputFile string
	scanJSON      bool
)

func init() {
	scanCmd.Flags().StringVarP(&scanInputFile, "in", "i", "", "Path to candidate record JSON file (required)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit the field list as JSON instead of a summary")

	if err := scanCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(scanCmd)
}

func runScan(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(scanInputFile)
	if err != nil {
		return fmt.Errorf("failed to read candidate file: %w", err)
	}

	var rec types.CandidateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("failed to parse candidate JSON: %w", err)
	}

	fields := scanner.Scan(&rec)

	if scanJSON {
		out, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal field list: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(out))
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintScanSummary(rec.ID, fields)
	return nil
}
