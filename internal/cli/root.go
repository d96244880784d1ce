// Package cli implements the csvinsights command line tool.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"csvinsights/internal/ingest"
	"csvinsights/internal/logging"
	"csvinsights/internal/model"
	"csvinsights/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	logLevel string
	maxBytes int64
	rowCap   int
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "csvinsights",
		Short:         "Profile CSV files and ask questions about them",
		Long:          `csvinsights profiles a CSV file locally (types, missing values, top values, quartiles and outliers) and can answer questions about it with the configured language model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			logging.Setup(opts.logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().Int64Var(&opts.maxBytes, "max-bytes", 100<<20, "largest CSV text accepted, in bytes")
	root.PersistentFlags().IntVar(&opts.rowCap, "rows", 5000, "number of rows to profile")

	root.AddCommand(newProfileCmd(opts), newAskCmd(opts))
	return root
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

// loadReport parses and profiles a local file the same way uploads are handled
func loadReport(path string, opts *options) (*model.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(path)
	table, err := ingest.Parse(name, f, opts.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if opts.rowCap <= 0 {
		return nil, fmt.Errorf("--rows must be positive")
	}
	return service.BuildReport(name, table, service.ReportLimits{
		ProfileRowCap: opts.rowCap,
		SampleRowCap:  0,
	}), nil
}
