// Package main is the entry point for the mentor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentor",
		Short: "University course and major chatbot server",
		Long: `Mentor answers questions about Korean university courses and recommends
majors, grounding every reply in documents retrieved from RediSearch
vector indices.`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(indexCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}
