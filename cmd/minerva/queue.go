package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sentra-hq/minerva/pkg/cli"
	"sentra-hq/minerva/pkg/escalation"
	"sentra-hq/minerva/pkg/policy/engine"
	"sentra-hq/minerva/pkg/telemetry/metrics"
)

var queueFlags struct {
	state    string
	resolver string
	action   string
	format   string
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Operate the escalation queue",
	Long: `Operate the escalation review queue.

Queue commands work against the durable ticket store, so queue.store_path
must be set in the config.

Subcommands:
  list    - List tickets, optionally filtered by state
  claim   - Claim a ticket for review
  resolve - Resolve a claimed ticket with a final action
  sweep   - Expire tickets past their SLA deadline

Examples:
  # List open tickets
  minerva queue list --state pending

  # Claim a ticket
  minerva queue claim 7f3c... --resolver reviewer-1

  # Resolve it
  minerva queue resolve 7f3c... --action block

  # Run one SLA sweep
  minerva queue sweep`,
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List escalation tickets",
	Long: `List escalation tickets, oldest first.

Without --state, tickets in every state are listed. Expired tickets remain
workable: they can still be claimed and resolved, with the SLA breach
preserved for reporting.`,
	RunE: listTickets,
}

var queueClaimCmd = &cobra.Command{
	Use:   "claim <ticket-id>",
	Short: "Claim a ticket for review",
	Long: `Claim a ticket for review.

A ticket can be claimed from the pending or expired state. Exactly one
claim succeeds per ticket; a second claim is rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: claimTicket,
}

var queueResolveCmd = &cobra.Command{
	Use:   "resolve <ticket-id>",
	Short: "Resolve a claimed ticket",
	Long: `Resolve a claimed ticket with a final action.

The resolution action must be one of: allow, redact, block, escalate.`,
	Args: cobra.ExactArgs(1),
	RunE: resolveTicket,
}

var queueSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire tickets past their SLA deadline",
	Long: `Run one SLA sweep, moving overdue pending and in-review tickets to the
expired state and marking the breach. The sweep is idempotent.`,
	RunE: sweepQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.AddCommand(queueListCmd, queueClaimCmd, queueResolveCmd, queueSweepCmd)

	queueCmd.PersistentFlags().StringVar(&queueFlags.format, "format", "text", "output format: text, json")

	queueListCmd.Flags().StringVar(&queueFlags.state, "state", "", "filter by state: pending, in_review, resolved, expired")
	queueClaimCmd.Flags().StringVar(&queueFlags.resolver, "resolver", "", "reviewer ID claiming the ticket")
	_ = queueClaimCmd.MarkFlagRequired("resolver")
	queueResolveCmd.Flags().StringVar(&queueFlags.action, "action", "", "resolution action: allow, redact, block, escalate")
	_ = queueResolveCmd.MarkFlagRequired("action")
}

// openQueue builds the queue over the durable store for queue subcommands.
func openQueue(cmd *cobra.Command) (*escalation.Queue, error) {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return nil, err
	}
	if _, err := initLogging(cfg); err != nil {
		return nil, err
	}
	if cfg.Queue.StorePath == "" {
		return nil, fmt.Errorf("queue commands require a durable ticket store (set queue.store_path)")
	}
	return buildQueue(cmd.Context(), cfg, metrics.NewCollector(&cfg.Metrics, nil))
}

func listTickets(cmd *cobra.Command, args []string) error {
	queue, err := openQueue(cmd)
	if err != nil {
		return err
	}

	var states []escalation.State
	if queueFlags.state != "" {
		state := escalation.State(queueFlags.state)
		if !state.Valid() {
			return fmt.Errorf("unknown state %q (supported: pending, in_review, resolved, expired)", queueFlags.state)
		}
		states = append(states, state)
	}

	tickets, err := queue.List(cmd.Context(), states...)
	if err != nil {
		return cli.NewCommandError("queue list", err)
	}

	if queueFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, map[string]any{
			"total_tickets": len(tickets),
			"tickets":       tickets,
		})
	}

	if len(tickets) == 0 {
		fmt.Println("No tickets found.")
		return nil
	}

	fmt.Printf("Total tickets: %d\n\n", len(tickets))
	for _, ticket := range tickets {
		fmt.Printf("Ticket:   %s\n", ticket.ID)
		fmt.Printf("  State:    %s\n", ticket.State)
		fmt.Printf("  Decision: %s\n", ticket.DecisionRef)
		fmt.Printf("  Queue:    %s\n", ticket.Queue)
		fmt.Printf("  Created:  %s\n", ticket.CreatedAt.Format(time.RFC3339))
		fmt.Printf("  Deadline: %s\n", ticket.SLADeadline.Format(time.RFC3339))
		if ticket.SLABreached {
			fmt.Printf("  SLA:      breached\n")
		}
		if ticket.ResolverID != "" {
			fmt.Printf("  Resolver: %s\n", ticket.ResolverID)
		}
		if ticket.ResolutionAction != "" {
			fmt.Printf("  Resolved: %s\n", ticket.ResolutionAction)
		}
		fmt.Println()
	}
	return nil
}

func claimTicket(cmd *cobra.Command, args []string) error {
	queue, err := openQueue(cmd)
	if err != nil {
		return err
	}

	ticket, err := queue.Claim(cmd.Context(), args[0], queueFlags.resolver)
	if err != nil {
		return cli.NewCommandError("queue claim", err)
	}

	if queueFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, ticket)
	}

	fmt.Printf("✓ Ticket %s claimed by %s\n", ticket.ID, ticket.ResolverID)
	fmt.Printf("  Deadline: %s\n", ticket.SLADeadline.Format(time.RFC3339))
	return nil
}

func resolveTicket(cmd *cobra.Command, args []string) error {
	queue, err := openQueue(cmd)
	if err != nil {
		return err
	}

	action := engine.Action(queueFlags.action)
	ticket, err := queue.Resolve(cmd.Context(), args[0], action)
	if err != nil {
		return cli.NewCommandError("queue resolve", err)
	}

	if queueFlags.format == "json" {
		formatter := &cli.JSONFormatter{Indent: true}
		return formatter.FormatTo(os.Stdout, ticket)
	}

	fmt.Printf("✓ Ticket %s resolved: %s\n", ticket.ID, ticket.ResolutionAction)
	if ticket.SLABreached {
		fmt.Println("  Note: resolved after SLA breach")
	}
	return nil
}

func sweepQueue(cmd *cobra.Command, args []string) error {
	queue, err := openQueue(cmd)
	if err != nil {
		return err
	}

	expired, err := queue.ExpireOverdue(cmd.Context(), time.Now().UTC())
	if err != nil {
		return cli.NewCommandError("queue sweep", err)
	}

	fmt.Printf("✓ Sweep complete: %d ticket(s) expired\n", expired)
	return nil
}
