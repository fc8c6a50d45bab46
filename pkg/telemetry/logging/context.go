package logging

import "context"

// Context keys for common log fields.
type contextKey string

const (
	// EventIDKey is the context key for interaction event IDs.
	EventIDKey contextKey = "event_id"

	// TicketIDKey is the context key for escalation ticket IDs.
	TicketIDKey contextKey = "ticket_id"

	// OrgIDKey is the context key for organization identifiers.
	OrgIDKey contextKey = "org_id"

	// TierKey is the context key for access tiers.
	TierKey contextKey = "tier"
)

// WithEventID adds an event ID to the context.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, EventIDKey, eventID)
}

// GetEventID retrieves the event ID from the context.
func GetEventID(ctx context.Context) string {
	if eventID, ok := ctx.Value(EventIDKey).(string); ok {
		return eventID
	}
	return ""
}

// WithTicketID adds a ticket ID to the context.
func WithTicketID(ctx context.Context, ticketID string) context.Context {
	return context.WithValue(ctx, TicketIDKey, ticketID)
}

// GetTicketID retrieves the ticket ID from the context.
func GetTicketID(ctx context.Context) string {
	if ticketID, ok := ctx.Value(TicketIDKey).(string); ok {
		return ticketID
	}
	return ""
}

// WithOrgID adds an organization identifier to the context.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, OrgIDKey, orgID)
}

// GetOrgID retrieves the organization identifier from the context.
func GetOrgID(ctx context.Context) string {
	if orgID, ok := ctx.Value(OrgIDKey).(string); ok {
		return orgID
	}
	return ""
}

// WithTier adds an access tier to the context.
func WithTier(ctx context.Context, tier string) context.Context {
	return context.WithValue(ctx, TierKey, tier)
}

// GetTier retrieves the access tier from the context.
func GetTier(ctx context.Context) string {
	if tier, ok := ctx.Value(TierKey).(string); ok {
		return tier
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if eventID := GetEventID(ctx); eventID != "" {
		fields = append(fields, "event_id", eventID)
	}
	if ticketID := GetTicketID(ctx); ticketID != "" {
		fields = append(fields, "ticket_id", ticketID)
	}
	if orgID := GetOrgID(ctx); orgID != "" {
		fields = append(fields, "org_id", orgID)
	}
	if tier := GetTier(ctx); tier != "" {
		fields = append(fields, "tier", tier)
	}

	return fields
}
