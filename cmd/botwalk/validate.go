package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/botwalk/botwalk"
	"github.com/botwalk/botwalk/internal/loader"
	"github.com/botwalk/botwalk/internal/presentation/graph"
	"github.com/botwalk/botwalk/pkg/variables"
)

var validateCmd = &cobra.Command{
	Use:   "validate <flow-file>",
	Short: "Check a flow document for consistency",
	Long: `Parses the flow and reports structural defects: missing or duplicated
start nodes, edges pointing at unknown nodes, shadowed handles and
unreachable nodes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showVars, _ := cmd.Flags().GetBool("variables")
		mermaid, _ := cmd.Flags().GetBool("mermaid")

		doc, err := loader.Load(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		warnings, err := botwalk.Validate(doc.Graph)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		if mermaid {
			fmt.Print(graph.GenerateMermaid(doc.Graph, nil))
			return
		}

		if showVars {
			printVariables(doc)
		}

		fmt.Println("Flow is valid! ✅")
	},
}

func printVariables(doc *loader.Document) {
	for _, n := range doc.Graph.Nodes {
		available := variables.Available(n.ID, doc.Graph)
		if len(available) == 0 {
			continue
		}
		fmt.Printf("%s:\n", n.ID)
		for _, d := range available {
			fmt.Printf("  {{%s}}  %s\n", d.Name, d.Label)
		}
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("variables", false, "Print the variables available at each node")
	validateCmd.Flags().Bool("mermaid", false, "Print the flow as a Mermaid flowchart and exit")
}
