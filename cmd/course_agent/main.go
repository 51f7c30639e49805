// Package main provides the entry point for the Course Designer CLI and API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "course_agent",
	Short: "Course Designer pipeline agent",
	Long:  "Course Designer turns source documents and an SME interview into a scored, strategy-ranked learning map, step by step or end to end, via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
