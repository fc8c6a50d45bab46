package event

import (
	"time"
)

// Tier is an access classification with its own risk-tolerance thresholds.
type Tier string

const (
	// TierGeneral is the default consumer-facing tier with the strictest thresholds.
	TierGeneral Tier = "general"

	// TierEnterprise is the managed-deployment tier.
	TierEnterprise Tier = "enterprise"

	// TierResearchSandbox is the monitored research tier with the most
	// permissive thresholds.
	TierResearchSandbox Tier = "research_sandbox"
)

// KnownTiers returns the tiers the engine ships defaults for, ordered from
// most to least restrictive.
func KnownTiers() []Tier {
	return []Tier{TierGeneral, TierEnterprise, TierResearchSandbox}
}

// Surface identifies the deployment surface an interaction arrived through.
type Surface string

const (
	SurfaceWeb     Surface = "web"
	SurfaceAPI     Surface = "api"
	SurfaceBedrock Surface = "aws_bedrock"
)

// InteractionEvent represents a single AI interaction to be evaluated.
//
// Events are immutable once created. The pipeline owns an event for the
// duration of processing and hands it to storage afterwards.
type InteractionEvent struct {
	// ID uniquely identifies the event (assigned by ingestion).
	ID string `json:"event_id"`

	// Timestamp is when the interaction occurred.
	Timestamp time.Time `json:"timestamp"`

	// UserID identifies the end user.
	UserID string `json:"user_id"`

	// OrgID identifies the owning organization.
	OrgID string `json:"org_id"`

	// Surface is the deployment surface ("web", "api", "aws_bedrock").
	Surface Surface `json:"surface"`

	// Tier is the access tier the event is evaluated under.
	Tier Tier `json:"tier"`

	// PromptText is the user prompt.
	PromptText string `json:"prompt_text"`

	// CompletionText is the model completion (may be empty for
	// pre-completion evaluation).
	CompletionText string `json:"completion_text"`

	// ModelVersion is the model that produced the completion.
	ModelVersion string `json:"model_version"`
}

// Validate checks that the event carries the fields required for policy
// evaluation. It returns a *ValidationError describing every missing field,
// or nil if the event is well-formed.
//
// CompletionText is optional: pre-completion evaluation sees prompt-only
// events. An event with neither prompt nor completion text is rejected.
func (e *InteractionEvent) Validate() error {
	var missing []string

	if e.ID == "" {
		missing = append(missing, "event_id")
	}
	if e.Tier == "" {
		missing = append(missing, "tier")
	}
	if e.PromptText == "" && e.CompletionText == "" {
		missing = append(missing, "prompt_text")
	}

	if len(missing) > 0 {
		return NewValidationError(e.ID, missing)
	}
	return nil
}

// Text returns the combined prompt and completion text used for
// classification.
func (e *InteractionEvent) Text() string {
	if e.CompletionText == "" {
		return e.PromptText
	}
	if e.PromptText == "" {
		return e.CompletionText
	}
	return e.PromptText + " " + e.CompletionText
}
