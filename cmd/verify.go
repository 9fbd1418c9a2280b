package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/lucidconv/internal/graphml"
)

// newVerifyCmd creates the `verify` command, which prints diagnostics for a
// GraphML file without modifying it.
func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <input>",
		Short: "Inspects a GraphML file and reports parse diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diag := graphml.Verify(args[0])

			fmt.Println("GraphML File Diagnostics:")
			fmt.Printf("  file: %s\n", diag.File)
			fmt.Printf("  exists: %t\n", diag.Exists)
			fmt.Printf("  size: %d\n", diag.Size)
			fmt.Printf("  can_parse: %t\n", diag.CanParse)
			if diag.ParseError != "" {
				fmt.Printf("  parse_errors: %s\n", diag.ParseError)
			}
			fmt.Printf("  node_count: %d\n", diag.NodeCount)
			fmt.Printf("  edge_count: %d\n", diag.EdgeCount)
			if len(diag.Problems) > 0 {
				fmt.Println("  problematic_content:")
				for _, p := range diag.Problems {
					fmt.Printf("    - %s\n", p)
				}
			}
			return nil
		},
	}
}
