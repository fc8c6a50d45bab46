package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sentra-hq/minerva/pkg/cli"
	"sentra-hq/minerva/pkg/compliance"
	"sentra-hq/minerva/pkg/compliance/export"
)

var reportFlags struct {
	windowDays int
	format     string
	output     string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a compliance evidence report",
	Long: `Generate an ISO/IEC 42001 compliance evidence report from the decision log.

The report covers a sliding window ending now: decision counts, compliance
rate, per-category action breakdown, and evidence per mapped control with
capped sample events.

Examples:
  # Report on the last 30 days
  minerva report --window-days 30

  # Export as CSV for an audit package
  minerva report --window-days 90 --format csv --output evidence.csv

  # JSON to stdout
  minerva report --format json`,
	RunE: generateComplianceReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVar(&reportFlags.windowDays, "window-days", 30, "report window in days")
	reportCmd.Flags().StringVar(&reportFlags.format, "format", "json", "output format: json, csv")
	reportCmd.Flags().StringVarP(&reportFlags.output, "output", "o", "", "output file (default: stdout)")
}

func generateComplianceReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	storage, err := openDecisionLog(cfg)
	if err != nil {
		return cli.NewCommandError("report", err)
	}
	defer storage.Close()

	aggregator := compliance.NewAggregator(nil)

	ctx := cmd.Context()
	summary, err := aggregator.Report(ctx, storage, reportFlags.windowDays, time.Now().UTC())
	if err != nil {
		return cli.NewCommandError("report", err)
	}

	output, err := cli.OpenOutput(reportFlags.output)
	if err != nil {
		return err
	}
	defer output.Close()

	switch reportFlags.format {
	case "json", "":
		exporter := export.NewJSONExporter(true)
		return exporter.Export(ctx, summary, output)
	case "csv":
		exporter := export.NewCSVExporter(true)
		return exporter.Export(ctx, summary, output)
	default:
		return fmt.Errorf("unsupported output format %q (supported: json, csv)", reportFlags.format)
	}
}
