package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/lucidconv/internal/converter"
	"github.com/xkilldash9x/lucidconv/internal/observability"
)

// newConvertCmd creates and configures the `convert` command.
func newConvertCmd() *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Converts a workflow JSON or GraphML file to the target format",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so command-line values override config file and
			// environment with the right precedence.
			if err := viper.BindPFlag("converter.diagram_type", cmd.Flags().Lookup("type")); err != nil {
				return err
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg := appConfig.Converter
			if viper.GetBool("no-fix") {
				cfg.AutoFix = false
			}

			conv, err := converter.New(cfg, logger)
			if err != nil {
				return err
			}

			opts := converter.Options{
				OutputPath:  viper.GetString("output"),
				DiagramType: viper.GetString("converter.diagram_type"),
				NoFix:       viper.GetBool("no-fix"),
			}

			outputPath, err := conv.Convert(cmd.Context(), args[0], viper.GetString("format"), opts)
			if err != nil {
				return err
			}

			fmt.Printf("Successfully converted to %s: %s\n", viper.GetString("format"), outputPath)
			return nil
		},
	}

	convertCmd.Flags().StringP("format", "f", converter.TargetGraphML,
		"Target format: graphml, uml, csv or puml")
	convertCmd.Flags().StringP("output", "o", "",
		"Output file path (default: input path with the target extension)")
	convertCmd.Flags().StringP("type", "t", "",
		"Diagram type: sequence or flowchart for uml, class or activity for puml")
	convertCmd.Flags().Bool("no-fix", false,
		"Disable automatic repair of malformed GraphML input")

	return convertCmd
}
