package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	session string
)

var rootCmd = &cobra.Command{
	Use:   "courtline-cli",
	Short: "A CLI to interact with the courtline server",
	Long: `A command-line interface for making requests to the various endpoints
of the courtline application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&session, "session", "", "Session id to authenticate API requests with")
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
