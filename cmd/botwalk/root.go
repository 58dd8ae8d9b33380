package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botwalk",
	Short: "Botwalk simulates chatbot flows from the terminal",
	Long: `Botwalk interprets flow documents (graphs of messages, buttons and
conditions exported by a visual editor) as state machines, letting you
walk a conversation exactly as a contact would see it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}
