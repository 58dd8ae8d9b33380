package main

import (
	"fmt"

	"github.com/botwalk/botwalk"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of botwalk",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("botwalk version %s\n", botwalk.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
