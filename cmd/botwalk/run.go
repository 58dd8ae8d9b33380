package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/botwalk/botwalk"
	"github.com/botwalk/botwalk/internal/logging"
	"github.com/botwalk/botwalk/internal/presentation/tui"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <flow-file>",
	Short: "Walk a flow interactively",
	Long: `Starts an interactive simulation of the given flow document.
Bot messages print to stdout; whenever the flow waits for input, answer
with free text, a button number, or a button label.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plain, _ := cmd.Flags().GetBool("plain")
		simulationID, _ := cmd.Flags().GetString("id")
		level, _ := cmd.Flags().GetString("log-level")

		f, err := botwalk.LoadFlow(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if warnings, err := botwalk.Validate(f.Graph); err != nil {
			fmt.Printf("Invalid flow: %v\n", err)
			os.Exit(1)
		} else {
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}
		}

		sim := botwalk.New(botwalk.WithLogger(logging.New(logging.ParseLevel(level))))

		runner := botwalk.NewRunner()
		runner.Input = os.Stdin
		runner.Output = os.Stdout
		runner.SimulationID = simulationID

		interactive := term.IsTerminal(int(os.Stdout.Fd())) && !plain
		if interactive {
			tui.PrintBanner()
			runner.Renderer = tui.NewRenderer()
		}

		if err := runner.Run(context.Background(), sim, f); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("id", "local", "Simulation id for this session")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")
}
