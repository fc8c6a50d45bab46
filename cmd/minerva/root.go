package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "minerva",
	Short: "Minerva - AI interaction governance decision core",
	Long: `Minerva is a policy decision core for AI interaction governance.

It evaluates interaction events against tiered risk thresholds, providing:
  - Multi-category risk classification with pluggable detectors
  - Tier-aware allow/redact/block/escalate decisions
  - ASL capability triggers that escalate regardless of tier
  - An SLA-bound escalation queue for human review
  - An append-only decision log and ISO/IEC 42001 compliance reporting`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
