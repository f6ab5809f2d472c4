// Package main provides the entry point for the cold-call verification service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coldcall",
	Short: "Cold-Call Field Verification Service",
	Long:  "Coldcall scans candidate records for missing or unverified fields, generates interview questions for them, and tracks a caller's verification progress with a durable audit trail.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
