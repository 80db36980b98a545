// Package main provides the entry point for the ATS résumé CLI and HTTP server.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var rootCmd = &cobra.Command{
	Use:   "ats_resume",
	Short: "ATS résumé renderer and PDF exporter",
	Long:  "ats_resume renders a structured résumé into a single-column ATS-friendly HTML page and prints it to PDF through headless Chrome, from the command line or over HTTP.",
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (optional)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Export pool size derives from GOMAXPROCS; respect container CPU quotas
	if _, err := maxprocs.Set(maxprocs.Logger(log.Printf)); err != nil {
		log.Printf("[main] failed to set GOMAXPROCS: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
