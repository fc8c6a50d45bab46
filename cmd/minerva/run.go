package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sentra-hq/minerva/pkg/cli"
	"sentra-hq/minerva/pkg/escalation"
	"sentra-hq/minerva/pkg/event"
	"sentra-hq/minerva/pkg/policy"
	"sentra-hq/minerva/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Stream events from stdin through the decision core",
	Long: `Stream interaction events from stdin through the decision core.

Events arrive as newline-delimited JSON objects on stdin; one result per
event is written to stdout in arrival order. Decisions are appended to the
configured decision log and Escalate decisions enqueue review tickets.

While running:
  - the threshold document is hot-reloaded when policy.watch is enabled
  - the SLA sweeper expires overdue tickets on the configured schedule

The process stops on EOF or SIGINT/SIGTERM.

Examples:
  # Stream events through the core
  minerva run < events.ndjson

  # Run with a custom config
  minerva run --config /etc/minerva/config.yaml`,
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	logger, err := initLogging(cfg)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	collector := metrics.NewCollector(&cfg.Metrics, nil)

	core, err := buildPipeline(ctx, cfg, collector)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer core.decisions.Close()

	// Threshold hot reload
	if cfg.Policy.Watch && cfg.Policy.Path != "" {
		watcher, err := policy.NewWatcher(core.policies, &policy.WatcherConfig{
			Path:             cfg.Policy.Path,
			DebounceInterval: cfg.Policy.ReloadDebounce,
		})
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer watcher.Stop()
	}

	// Metrics endpoint
	if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: cfg.Metrics.ListenAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics endpoint failed",
					"addr", cfg.Metrics.ListenAddr,
					"error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics endpoint shutdown failed", "error", err)
			}
		}()
		logger.Info("metrics endpoint started", "addr", cfg.Metrics.ListenAddr)
	}

	// SLA sweeper
	if cfg.Queue.SweepSchedule != "" {
		sweeper := escalation.NewSweeper(core.queue, &escalation.SweeperConfig{
			Schedule: cfg.Queue.SweepSchedule,
		})
		if err := sweeper.Start(ctx); err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to start sweeper: %w", err))
		}
		defer sweeper.Stop()
	}

	logger.Info("decision core started",
		"policy_watch", cfg.Policy.Watch,
		"queue", cfg.Queue.Name,
		"decision_log", cfg.DecisionLog.Backend,
	)

	encoder := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	processed := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "events_processed", processed)
			return nil
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev event.InteractionEvent
		row := evaluateResult{}
		if err := json.Unmarshal(line, &ev); err != nil {
			row.Error = fmt.Sprintf("malformed event: %v", err)
		} else {
			result := core.pipeline.ProcessBatch(ctx, []*event.InteractionEvent{&ev})[0]
			row.EventID = result.EventID
			row.Decision = result.Decision
			if result.Ticket != nil {
				row.TicketID = result.Ticket.ID
			}
			if result.Err != nil {
				row.Error = result.Err.Error()
			}
		}

		if err := encoder.Encode(row); err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to write result: %w", err))
		}
		processed++
	}
	if err := scanner.Err(); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to read input: %w", err))
	}

	logger.Info("input drained", "events_processed", processed)
	return nil
}
