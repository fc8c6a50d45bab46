package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sentra-hq/minerva/pkg/cli"
	"sentra-hq/minerva/pkg/event"
	"sentra-hq/minerva/pkg/pipeline"
	"sentra-hq/minerva/pkg/policy/engine"
)

var evaluateFlags struct {
	format string
	output string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [file]",
	Short: "Evaluate a batch of interaction events",
	Long: `Evaluate a batch of interaction events against the active thresholds.

Events are read from the given file, or from stdin when no file is given.
Both a JSON array and newline-delimited JSON objects are accepted. Every
event yields exactly one result: a decision, or a validation error for
malformed events. Malformed events never fail the batch.

Decisions are appended to the configured decision log, and Escalate
decisions enqueue a review ticket.

Examples:
  # Evaluate events from a file
  minerva evaluate events.json

  # Evaluate events from stdin
  cat events.ndjson | minerva evaluate

  # Write results as JSON to a file
  minerva evaluate events.json --format json --output results.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: evaluateBatch,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "text", "output format: text, json")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.output, "output", "o", "", "output file (default: stdout)")
}

// evaluateResult is the per-event output row.
type evaluateResult struct {
	EventID  string           `json:"event_id"`
	Decision *engine.Decision `json:"decision,omitempty"`
	TicketID string           `json:"ticket_id,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Batches at or above the threshold show a progress bar on stderr, updated
// once per processed chunk.
const (
	evaluateChunkSize         = 100
	evaluateProgressThreshold = 2 * evaluateChunkSize
)

func evaluateBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	// Catch a --format typo before any event is processed.
	formatter, err := cli.NewFormatter(cli.OutputFormat(evaluateFlags.format))
	if err != nil {
		return err
	}

	// Read input
	input := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		input = f
	}

	events, err := readEvents(input)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no events in input")
	}

	ctx := cmd.Context()
	core, err := buildPipeline(ctx, cfg, nil)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}
	defer core.decisions.Close()

	results := processBatchWithProgress(ctx, core.pipeline, events, cli.NewProgressReporter(nil))

	rows := make([]evaluateResult, len(results))
	for i, r := range results {
		rows[i] = evaluateResult{
			EventID:  r.EventID,
			Decision: r.Decision,
		}
		if r.Ticket != nil {
			rows[i].TicketID = r.Ticket.ID
		}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
		}
	}

	output, err := cli.OpenOutput(evaluateFlags.output)
	if err != nil {
		return err
	}
	defer output.Close()

	if _, ok := formatter.(*cli.TextFormatter); ok {
		return printEvaluateText(output, rows)
	}
	return formatter.FormatTo(output, map[string]any{
		"total_events": len(rows),
		"results":      rows,
	})
}

// processBatchWithProgress runs events through the pipeline chunk by chunk,
// reporting completion after each chunk. Small batches skip the bar: one
// update for a near-instant run is noise. Result order matches input order.
func processBatchWithProgress(ctx context.Context, p *pipeline.Pipeline, events []*event.InteractionEvent, reporter cli.ProgressReporter) []pipeline.Result {
	if reporter == nil || len(events) < evaluateProgressThreshold {
		return p.ProcessBatch(ctx, events)
	}

	reporter.Start(int64(len(events)))
	results := make([]pipeline.Result, 0, len(events))
	for start := 0; start < len(events); start += evaluateChunkSize {
		end := start + evaluateChunkSize
		if end > len(events) {
			end = len(events)
		}
		results = append(results, p.ProcessBatch(ctx, events[start:end])...)
		reporter.Update(int64(len(results)))
	}
	reporter.Finish()
	return results
}

func printEvaluateText(output io.Writer, rows []evaluateResult) error {
	counts := make(map[engine.Action]int)
	rejected := 0

	for _, row := range rows {
		switch {
		case row.Error != "":
			rejected++
			fmt.Fprintf(output, "%-20s rejected: %s\n", orUnknown(row.EventID), row.Error)
		case row.Decision != nil:
			counts[row.Decision.Action]++
			line := fmt.Sprintf("%-20s %-8s tier=%s policy=%s",
				row.EventID, row.Decision.Action, row.Decision.Tier, row.Decision.PolicyVersion)
			if row.Decision.ASLTriggered {
				line += fmt.Sprintf(" asl=%s", row.Decision.ASLSeverity)
			}
			if row.TicketID != "" {
				line += fmt.Sprintf(" ticket=%s", row.TicketID)
			}
			fmt.Fprintln(output, line)
		}
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Total: %d events\n", len(rows))
	for _, action := range []engine.Action{engine.ActionAllow, engine.ActionRedact, engine.ActionBlock, engine.ActionEscalate} {
		if counts[action] > 0 {
			fmt.Fprintf(output, "  %s: %d\n", action, counts[action])
		}
	}
	if rejected > 0 {
		fmt.Fprintf(output, "  rejected: %d\n", rejected)
	}
	return nil
}

func orUnknown(id string) string {
	if id == "" {
		return "(no id)"
	}
	return id
}
