package escalation

import "fmt"

// ErrorCode classifies expected queue conditions. Callers receive these as
// explicit statuses; none of them indicates a bug or aborts processing.
type ErrorCode string

const (
	// CodeNotFound means no ticket with the given ID exists.
	CodeNotFound ErrorCode = "not_found"

	// CodeAlreadyClaimed means another reviewer holds the ticket.
	CodeAlreadyClaimed ErrorCode = "already_claimed"

	// CodeInvalidState means the requested transition is not legal from
	// the ticket's current state. No state change occurs.
	CodeInvalidState ErrorCode = "invalid_state"
)

// QueueStateError reports a rejected queue operation.
type QueueStateError struct {
	Code     ErrorCode // Condition class
	TicketID string    // Ticket the operation targeted
	Op       string    // Operation ("claim", "resolve")
	State    State     // Ticket state at rejection time, if known
}

// Error implements the error interface.
func (e *QueueStateError) Error() string {
	if e.State != "" {
		return fmt.Sprintf("queue %s rejected [ticket=%s, state=%s]: %s",
			e.Op, e.TicketID, e.State, e.Code)
	}
	return fmt.Sprintf("queue %s rejected [ticket=%s]: %s", e.Op, e.TicketID, e.Code)
}

// NewQueueStateError creates a new QueueStateError.
func NewQueueStateError(code ErrorCode, ticketID, op string, state State) *QueueStateError {
	return &QueueStateError{Code: code, TicketID: ticketID, Op: op, State: state}
}

// IsNotFound reports whether the error is a missing-ticket condition.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsAlreadyClaimed reports whether the error is a lost claim race.
func IsAlreadyClaimed(err error) bool { return hasCode(err, CodeAlreadyClaimed) }

// IsInvalidState reports whether the error is an illegal transition.
func IsInvalidState(err error) bool { return hasCode(err, CodeInvalidState) }

func hasCode(err error, code ErrorCode) bool {
	qerr, ok := err.(*QueueStateError)
	return ok && qerr.Code == code
}
