/*
Package cli provides command-line utilities for the minerva command.

The package includes output formatters, a progress reporter for batch
evaluation, and signal handling helpers shared across subcommands.

Output Formatting:

Command results render as plain text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

Batch evaluation reports progress for large inputs:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(int64(len(events)))
	for i := range events {
		// process events[i]
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
