package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/cli"
	"sentra-hq/minerva/pkg/config"
	"sentra-hq/minerva/pkg/decisionlog"
	"sentra-hq/minerva/pkg/escalation"
	"sentra-hq/minerva/pkg/event"
	"sentra-hq/minerva/pkg/pipeline"
	"sentra-hq/minerva/pkg/policy"
	"sentra-hq/minerva/pkg/telemetry/logging"
	"sentra-hq/minerva/pkg/telemetry/metrics"
)

// loadRuntimeConfig loads the config file named by --config. When the flag is
// left at its default and no file exists, the built-in defaults apply so the
// CLI works out of the box.
func loadRuntimeConfig() (*config.Config, error) {
	if cfgFile == "config.yaml" {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			return config.DefaultConfig(), nil
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg, nil
}

// initLogging builds the process logger from config and installs it as the
// slog default so component loggers inherit it. Logs go to stderr; stdout is
// reserved for command output.
func initLogging(cfg *config.Config) (*logging.Logger, error) {
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}

// buildPolicyStore loads the threshold document, falling back to the built-in
// defaults when no path is configured.
func buildPolicyStore(cfg *config.Config) (*policy.Store, error) {
	if cfg.Policy.Path == "" {
		return policy.NewStore(policy.Default()), nil
	}

	thresholds, err := policy.Load(cfg.Policy.Path)
	if err != nil {
		return nil, err
	}
	return policy.NewStore(thresholds), nil
}

// buildClassifier creates the classifier with the built-in detector set.
func buildClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	classifierConfig := classifier.DefaultConfig()
	if cfg.Classifier.FailSafeConfidence != nil {
		classifierConfig.FailSafeConfidence = *cfg.Classifier.FailSafeConfidence
	}
	return classifier.NewDefault(classifierConfig)
}

// openDecisionLog opens the configured decision log backend.
func openDecisionLog(cfg *config.Config) (decisionlog.Storage, error) {
	switch cfg.DecisionLog.Backend {
	case "sqlite":
		sqliteConfig := decisionlog.DefaultSQLiteConfig()
		sqliteConfig.Path = cfg.DecisionLog.Path
		return decisionlog.NewSQLiteStorage(sqliteConfig)
	case "memory", "":
		return decisionlog.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported decision log backend: %s (supported: memory, sqlite)", cfg.DecisionLog.Backend)
	}
}

// buildQueue creates the escalation queue, restoring open tickets from the
// durable store when one is configured. The collector, when given, observes
// every ticket transition.
func buildQueue(ctx context.Context, cfg *config.Config, collector *metrics.Collector) (*escalation.Queue, error) {
	var store escalation.TicketStore
	if cfg.Queue.StorePath != "" {
		sqliteStore, err := escalation.NewSQLiteStore(cfg.Queue.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open ticket store: %w", err)
		}
		store = sqliteStore
	} else {
		store = escalation.NewMemoryStore()
	}

	queueConfig := &escalation.QueueConfig{
		Name:  cfg.Queue.Name,
		SLA:   cfg.Queue.SLA,
		Store: store,
	}
	if collector != nil {
		queueConfig.Metrics = collector
	}
	queue := escalation.NewQueue(queueConfig)
	if _, err := queue.Restore(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore queue: %w", err)
	}
	return queue, nil
}

// runtimeComponents bundles the assembled decision core for a command.
type runtimeComponents struct {
	pipeline  *pipeline.Pipeline
	policies  *policy.Store
	decisions decisionlog.Storage
	queue     *escalation.Queue
}

// buildPipeline assembles the full processing pipeline.
func buildPipeline(ctx context.Context, cfg *config.Config, collector *metrics.Collector) (*runtimeComponents, error) {
	cls, err := buildClassifier(cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildPolicyStore(cfg)
	if err != nil {
		return nil, err
	}

	decisions, err := openDecisionLog(cfg)
	if err != nil {
		return nil, err
	}

	queue, err := buildQueue(ctx, cfg, collector)
	if err != nil {
		decisions.Close()
		return nil, err
	}

	p, err := pipeline.New(cls, store, queue, decisions, &pipeline.Config{
		Workers: cfg.Pipeline.Workers,
		Metrics: collector,
	})
	if err != nil {
		decisions.Close()
		return nil, err
	}
	return &runtimeComponents{
		pipeline:  p,
		policies:  store,
		decisions: decisions,
		queue:     queue,
	}, nil
}

// readEvents decodes events from r. Both a JSON array and newline-delimited
// JSON objects are accepted.
func readEvents(r io.Reader) ([]*event.InteractionEvent, error) {
	br := bufio.NewReader(r)

	// Sniff the first non-space byte to pick the encoding.
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.Discard(1); err != nil {
				return nil, err
			}
			continue
		case '[':
			var events []*event.InteractionEvent
			if err := json.NewDecoder(br).Decode(&events); err != nil {
				return nil, fmt.Errorf("failed to parse event array: %w", err)
			}
			return events, nil
		default:
			return readNDJSON(br)
		}
	}
}

func readNDJSON(r io.Reader) ([]*event.InteractionEvent, error) {
	var events []*event.InteractionEvent

	decoder := json.NewDecoder(r)
	for {
		var ev event.InteractionEvent
		if err := decoder.Decode(&ev); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return nil, fmt.Errorf("failed to parse event %d: %w", len(events)+1, err)
		}
		events = append(events, &ev)
	}
}
