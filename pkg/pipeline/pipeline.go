package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sentra-hq/minerva/pkg/classifier"
	"sentra-hq/minerva/pkg/decisionlog"
	"sentra-hq/minerva/pkg/escalation"
	"sentra-hq/minerva/pkg/event"
	"sentra-hq/minerva/pkg/policy"
	"sentra-hq/minerva/pkg/policy/engine"
	"sentra-hq/minerva/pkg/telemetry/metrics"
)

// Config configures the processing pipeline.
type Config struct {
	// Workers is the number of concurrent event workers.
	// Default: 8
	Workers int

	// Logger is the structured logger. Defaults to slog.Default.
	Logger *slog.Logger

	// Metrics is an optional metrics collector.
	Metrics *metrics.Collector
}

// Result is the per-event outcome of a batch. Exactly one of Decision or
// Err is set.
type Result struct {
	// EventID identifies the input event. Empty when the input carried no
	// ID.
	EventID string

	// Decision is the enforcement decision for an accepted event.
	Decision *engine.Decision

	// Ticket is the escalation ticket, set only when Decision.Action is
	// Escalate.
	Ticket *escalation.Ticket

	// Err is the structured per-item error for a rejected event.
	Err error
}

// Pipeline processes interaction events through classification, decision,
// logging and escalation.
type Pipeline struct {
	classifier *classifier.Classifier
	policies   *policy.Store
	queue      *escalation.Queue
	decisions  decisionlog.Storage

	workers int
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a pipeline over the given components.
func New(cls *classifier.Classifier, policies *policy.Store, queue *escalation.Queue, decisions decisionlog.Storage, config *Config) (*Pipeline, error) {
	if cls == nil || policies == nil || queue == nil || decisions == nil {
		return nil, fmt.Errorf("classifier, policy store, queue and decision log are all required")
	}
	if config == nil {
		config = &Config{}
	}

	workers := config.Workers
	if workers <= 0 {
		workers = 8
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		classifier: cls,
		policies:   policies,
		queue:      queue,
		decisions:  decisions,
		workers:    workers,
		logger:     logger.With("component", "pipeline"),
		metrics:    config.Metrics,
	}, nil
}

// ProcessBatch evaluates a batch of events concurrently and returns one
// Result per input, in input order. Malformed events produce a per-item
// error; they never fail the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, events []*event.InteractionEvent) []Result {
	results := make([]Result, len(events))
	if len(events) == 0 {
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(events) {
		workers = len(events)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.processOne(ctx, events[idx])
			}
		}()
	}

	for idx := range events {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if p.metrics != nil {
		p.metrics.UpdateQueueDepth(p.queue.StateCounts())
	}

	return results
}

// processOne runs the classify, decide, log, escalate sequence for a single
// event.
func (p *Pipeline) processOne(ctx context.Context, ev *event.InteractionEvent) Result {
	result := Result{}
	if ev != nil {
		result.EventID = ev.ID
	}

	if err := validate(ev); err != nil {
		if p.metrics != nil {
			p.metrics.RecordValidationFailure()
		}
		p.logger.Warn("event rejected", "event_id", result.EventID, "error", err)
		result.Err = err
		return result
	}

	start := time.Now()
	scores, err := p.classifier.Classify(ctx, ev)
	if p.metrics != nil {
		p.metrics.RecordClassification(time.Since(start))
	}
	if err != nil {
		// Classification fails only on malformed input; detector
		// failures already degraded to fail-safe scores inside the
		// classifier.
		if p.metrics != nil {
			p.metrics.RecordValidationFailure()
		}
		p.logger.Warn("event rejected", "event_id", ev.ID, "error", err)
		result.Err = err
		return result
	}

	decision := engine.Decide(ev.ID, scores, ev.Tier, p.policies.Active())
	result.Decision = decision

	if p.metrics != nil {
		p.metrics.RecordDecision(decision)
	}
	p.logger.Info("decision made",
		"event_id", ev.ID,
		"action", string(decision.Action),
		"tier", decision.Tier,
		"asl_triggered", decision.ASLTriggered,
		"policy_version", decision.PolicyVersion)

	if err := p.decisions.Append(ctx, decision); err != nil {
		// The decision stands; persistence is an operator condition.
		p.logger.Error("failed to append decision", "event_id", ev.ID, "error", err)
	}

	if decision.Action == engine.ActionEscalate {
		ticket, err := p.queue.Enqueue(ctx, decision)
		if err != nil {
			p.logger.Error("failed to enqueue escalation", "event_id", ev.ID, "error", err)
		} else {
			result.Ticket = ticket
		}
	}

	return result
}

// validate applies the ingestion contract checks.
func validate(ev *event.InteractionEvent) error {
	if ev == nil {
		return event.NewValidationError("", []string{"event"})
	}
	return ev.Validate()
}
