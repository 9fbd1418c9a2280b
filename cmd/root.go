// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lucidconv/internal/config"
	"github.com/xkilldash9x/lucidconv/internal/observability"
)

var cfgFile string

// appConfig holds the configuration loaded by the root PersistentPreRunE
// for use by the subcommands.
var appConfig *config.Config

// NewRootCommand builds the base command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lucidconv",
		Short: "lucidconv converts workflow definitions between diagram formats.",
		Long: `lucidconv converts JSON workflow definitions and GraphML graph files
into Lucidchart-compatible UML markup, CSV import tables and PlantUML,
repairing common XML defects in hand-exported GraphML along the way.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				// Initialize a fallback logger so the error is still visible.
				observability.InitializeLogger(config.LoggerConfig{
					Level: "info", Format: "console", ServiceName: "lucidconv",
				})
				return err
			}
			appConfig = cfg
			observability.InitializeLogger(cfg.Logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command within the given context.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}
