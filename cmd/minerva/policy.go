package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sentra-hq/minerva/pkg/cli"
	"sentra-hq/minerva/pkg/policy"
)

var policyFlags struct {
	format string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate threshold documents",
	Long: `Inspect and validate threshold documents.

Subcommands:
  validate - Validate a threshold YAML document
  show     - Show the active threshold document

Examples:
  # Validate a threshold document before deploying it
  minerva policy validate thresholds.yaml

  # Show the active thresholds
  minerva policy show

  # Show as JSON
  minerva policy show --format json`,
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a threshold document",
	Long: `Validate a threshold YAML document.

All structural and range errors are collected and reported together, so a
single run surfaces every problem in the document. With no argument, the
document named by policy.path in the config is validated.

Examples:
  # Validate a specific document
  minerva policy validate thresholds.yaml

  # Validate the configured document
  minerva policy validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateThresholds,
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active threshold document",
	Long: `Show the threshold document the decision core would run with.

This is the document named by policy.path in the config, or the built-in
defaults when no path is configured.`,
	RunE: showThresholds,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyValidateCmd, policyShowCmd)

	policyCmd.PersistentFlags().StringVar(&policyFlags.format, "format", "yaml", "output format: yaml, json")
}

func validateThresholds(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadRuntimeConfig()
		if err != nil {
			return err
		}
		path = cfg.Policy.Path
	}
	if path == "" {
		return fmt.Errorf("no threshold document: pass a file or set policy.path in the config")
	}

	thresholds, err := policy.Load(path)
	if err != nil {
		fmt.Printf("✗ %s is invalid\n\n%v\n", path, err)
		return cli.NewCommandError("policy validate", err)
	}

	fmt.Printf("✓ %s is valid\n", path)
	fmt.Printf("  Version:    %s\n", thresholds.Version)
	fmt.Printf("  Tiers:      %d\n", len(thresholds.Tiers))
	fmt.Printf("  Categories: %d\n", len(thresholds.Categories()))
	fmt.Printf("  Triggers:   %d\n", len(thresholds.ASLTriggers))
	return nil
}

func showThresholds(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	store, err := buildPolicyStore(cfg)
	if err != nil {
		return cli.NewCommandError("policy show", err)
	}
	thresholds := store.Active()

	switch policyFlags.format {
	case "json":
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, thresholds)
	case "yaml", "":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(thresholds)
	default:
		return fmt.Errorf("unsupported output format %q (supported: yaml, json)", policyFlags.format)
	}
}
