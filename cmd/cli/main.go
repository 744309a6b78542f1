package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	user   string
	dryRun bool
)

var rootCmd = &cobra.Command{
	Use:   "tennis-cli",
	Short: "A CLI to interact with the tennis-ledger server",
	Long: `A command-line interface for recording tennis matches and reading
stats from a running tennis-ledger server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&user, "user", os.Getenv("TENNIS_USER"), "The user id sent in the X-User-ID header")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server to log notifications instead of sending them")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
