package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/lucidconv/internal/graphml"
	"github.com/xkilldash9x/lucidconv/internal/observability"
	"github.com/xkilldash9x/lucidconv/internal/xmlrepair"
)

// newFixCmd creates the `fix` command, which repairs a GraphML file without
// converting it.
func newFixCmd() *cobra.Command {
	var (
		outputPath string
		noBackup   bool
	)

	fixCmd := &cobra.Command{
		Use:   "fix <input>",
		Short: "Repairs common XML defects in a GraphML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			inputPath := args[0]

			// With --no-backup and no explicit output, write a sibling file
			// instead of overwriting the original.
			if noBackup && outputPath == "" {
				ext := filepath.Ext(inputPath)
				outputPath = strings.TrimSuffix(inputPath, ext) + "_fixed" + ext
			}

			loader := xmlrepair.NewLoader(logger)
			fixedPath, err := loader.FixFile(inputPath, outputPath)
			if err != nil {
				return err
			}

			// GraphML-specific structure repair on top of the XML fixes.
			content, err := os.ReadFile(fixedPath)
			if err != nil {
				return err
			}
			fixed := graphml.FixStructureContent(string(content))
			if err := os.WriteFile(fixedPath, []byte(fixed), 0o644); err != nil {
				return err
			}

			fmt.Printf("Fixed GraphML file saved to: %s\n", fixedPath)
			if fixedPath == inputPath {
				fmt.Printf("Backup of original file created at: %s.bak\n", inputPath)
			}

			diag := graphml.Verify(fixedPath)
			if diag.CanParse {
				fmt.Printf("Verified: file contains %d nodes and %d edges\n",
					diag.NodeCount, diag.EdgeCount)
			} else {
				fmt.Printf("Warning: fixed file still has parsing issues: %s\n", diag.ParseError)
			}
			return nil
		},
	}

	fixCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"Output path (default: backup the original and overwrite it)")
	fixCmd.Flags().BoolVarP(&noBackup, "no-backup", "b", false,
		"Write to a _fixed sibling file instead of overwriting the original")

	return fixCmd
}
