package domain

// kindError is the root of one error family. Specific errors unwrap to it so
// callers can branch on errors.Is(err, ErrValidation) without knowing the
// exact rule that failed.
type kindError struct{ name string }

func (e *kindError) Error() string { return e.name }

var (
	// Input failed a domain rule. Buffers are left untouched.
	ErrValidation = &kindError{name: "validation error"}
	// Operation is not valid in the current state.
	ErrState = &kindError{name: "state error"}
	// Commit would duplicate a committed route name.
	ErrConflict = &kindError{name: "conflict error"}
)

type ruleError struct {
	kind *kindError
	msg  string
}

func (e *ruleError) Error() string { return e.msg }
func (e *ruleError) Unwrap() error { return e.kind }

func newRuleError(kind *kindError, msg string) error {
	return &ruleError{kind: kind, msg: msg}
}

var (
	ErrInvalidStop    = newRuleError(ErrValidation, "stop is not part of the graph")
	ErrRouteClosed    = newRuleError(ErrValidation, "route is closed")
	ErrUnreachable    = newRuleError(ErrValidation, "stop is not reachable from the last stop")
	ErrDuplicateLimit = newRuleError(ErrValidation, "stop already appears twice in the route")
	ErrEmptyName      = newRuleError(ErrValidation, "name must not be empty")
	ErrHeadwayRange   = newRuleError(ErrValidation, "headway must be between 1 and 1439 minutes")
	ErrHourRange      = newRuleError(ErrValidation, "hours must be between 0 and 23")
	ErrMinuteRange    = newRuleError(ErrValidation, "minutes must be between 0 and 59")
	ErrTimeFormat     = newRuleError(ErrValidation, "time of day must be written as H:MM")
	ErrInvalidGraph   = newRuleError(ErrValidation, "invalid stop graph")

	ErrNotReachable = newRuleError(ErrState, "no edge between stops")
	ErrStopNotFound = newRuleError(ErrState, "stop not found")

	ErrEmptyChain      = newRuleError(ErrState, "chain is empty or index is out of range")
	ErrValueNotFound   = newRuleError(ErrState, "no element matches")
	ErrNothingToRemove = newRuleError(ErrState, "route holds only the station")
	ErrNothingToUndo   = newRuleError(ErrState, "nothing to undo")
	ErrNoRouteSelected = newRuleError(ErrState, "no route selected")

	ErrNameConflict = newRuleError(ErrConflict, "route name already in use")
)
