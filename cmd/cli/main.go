package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/memora-app/memora/cmd/cli/photos"
	"github.com/spf13/cobra"
)

func init() {
	// A .env file is optional for the CLI, flags carry the server address.
	_ = godotenv.Load()
	rootCmd.AddGroup(photos.Group)
	rootCmd.AddCommand(photos.Seed)
	rootCmd.AddCommand(photos.Quiz)
}

var rootCmd = &cobra.Command{
	Use:  "memora-cli",
	Long: `Command line utilities for Memora, the shared photo-memory app.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
