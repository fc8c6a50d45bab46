// Package event defines the interaction event model consumed by the
// governance pipeline.
//
// An InteractionEvent is an immutable record of a single AI interaction
// (prompt and completion) together with the identity and access-tier context
// needed for policy evaluation. Events are created by the ingestion
// collaborator and are never mutated after creation.
package event
