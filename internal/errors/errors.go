// Package errors provides the error taxonomy for grid path planning.
//
// Every failure a planning run can produce maps onto one sentinel so callers
// can branch with errors.Is, while the typed errors carry the context needed
// for a useful message (which cell, which agent, how many rounds).
//
//	_, err := coord.Solve(ctx, inst)
//	switch {
//	case errors.Is(err, errors.ErrUnreachableGoal):
//		// no path exists for some agent
//	case errors.Is(err, errors.ErrRoundLimitExceeded):
//		// the resolution heuristic did not converge
//	}
//
//	var ue *errors.UnreachableGoalError
//	if errors.As(err, &ue) {
//		fmt.Println("agent", ue.Agent)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers import only this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrInvalidCell indicates a coordinate outside the grid bounds.
	ErrInvalidCell = New("invalid cell")
	// ErrBlockedEndpoint indicates an agent start or goal on a blocked cell.
	ErrBlockedEndpoint = New("blocked endpoint")
	// ErrUnreachableGoal indicates that no path connects start to goal.
	ErrUnreachableGoal = New("unreachable goal")
	// ErrRoundLimitExceeded indicates that conflict resolution did not converge.
	ErrRoundLimitExceeded = New("round limit exceeded")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrCanceled indicates that a planning run was canceled or timed out.
	ErrCanceled = New("planning canceled")
)

// -----------------------------------------------------------------------------
// Typed Errors
// -----------------------------------------------------------------------------

// CellError reports a coordinate that falls outside a grid.
type CellError struct {
	Op            string // operation that rejected the cell, e.g. "set obstacle"
	X, Y          int
	Width, Height int
}

// NewCellError creates a CellError.
func NewCellError(op string, x, y, width, height int) *CellError {
	return &CellError{Op: op, X: x, Y: y, Width: width, Height: height}
}

func (e *CellError) Error() string {
	return fmt.Sprintf("%s: cell (%d,%d) outside %dx%d grid", e.Op, e.X, e.Y, e.Width, e.Height)
}

// Unwrap returns ErrInvalidCell.
func (e *CellError) Unwrap() error { return ErrInvalidCell }

// EndpointError reports an agent whose start or goal is unusable.
type EndpointError struct {
	Agent int
	Which string // "start" or "goal"
	X, Y  int
	cause error
}

// NewEndpointError creates an EndpointError. cause is normally
// ErrBlockedEndpoint, or a *CellError when the endpoint is out of bounds.
func NewEndpointError(agent int, which string, x, y int, cause error) *EndpointError {
	return &EndpointError{Agent: agent, Which: which, X: x, Y: y, cause: cause}
}

func (e *EndpointError) Error() string {
	if e.Agent < 0 {
		return fmt.Sprintf("%s (%d,%d): %v", e.Which, e.X, e.Y, e.cause)
	}
	return fmt.Sprintf("agent %d %s (%d,%d): %v", e.Agent, e.Which, e.X, e.Y, e.cause)
}

// Unwrap returns the underlying cause.
func (e *EndpointError) Unwrap() error { return e.cause }

// UnreachableGoalError reports that the search exhausted its open set.
// Agent is -1 when the search ran outside a multi-agent run.
type UnreachableGoalError struct {
	Agent          int
	StartX, StartY int
	GoalX, GoalY   int
	Expanded       int
}

func (e *UnreachableGoalError) Error() string {
	if e.Agent < 0 {
		return fmt.Sprintf("unreachable goal: no path from (%d,%d) to (%d,%d) after %d expansions",
			e.StartX, e.StartY, e.GoalX, e.GoalY, e.Expanded)
	}
	return fmt.Sprintf("unreachable goal for agent %d: no path from (%d,%d) to (%d,%d) after %d expansions",
		e.Agent, e.StartX, e.StartY, e.GoalX, e.GoalY, e.Expanded)
}

// Unwrap returns ErrUnreachableGoal.
func (e *UnreachableGoalError) Unwrap() error { return ErrUnreachableGoal }

// WithAgent returns a copy attributed to agent.
func (e *UnreachableGoalError) WithAgent(agent int) *UnreachableGoalError {
	cp := *e
	cp.Agent = agent
	return &cp
}

// RoundLimitError reports a resolution loop that hit its round cap.
type RoundLimitError struct {
	Rounds    int
	Conflicts int // conflicts left in the last round
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("round limit exceeded: %d rounds, %d conflicts remaining", e.Rounds, e.Conflicts)
}

// Unwrap returns ErrRoundLimitExceeded.
func (e *RoundLimitError) Unwrap() error { return ErrRoundLimitExceeded }

// ScenarioError reports a malformed scenario document.
type ScenarioError struct {
	Path    string
	Message string
	cause   error
}

// NewScenarioError creates a ScenarioError. A nil cause defaults to
// ErrInvalidInput.
func NewScenarioError(path, message string, cause error) *ScenarioError {
	if cause == nil {
		cause = ErrInvalidInput
	}
	return &ScenarioError{Path: path, Message: message, cause: cause}
}

func (e *ScenarioError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("scenario: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("scenario %s: %s: %v", e.Path, e.Message, e.cause)
}

// Unwrap returns the underlying cause.
func (e *ScenarioError) Unwrap() error { return e.cause }

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsPlanningFailure reports whether err ended a planning run without a
// solution, as opposed to rejecting malformed input.
func IsPlanningFailure(err error) bool {
	return Is(err, ErrUnreachableGoal) || Is(err, ErrRoundLimitExceeded) || Is(err, ErrCanceled)
}

// Reason returns a short machine-readable label for a planning error.
func Reason(err error) string {
	switch {
	case err == nil:
		return "solved"
	case Is(err, ErrUnreachableGoal):
		return "unreachable-goal"
	case Is(err, ErrRoundLimitExceeded):
		return "round-limit-exceeded"
	case Is(err, ErrCanceled):
		return "canceled"
	case Is(err, ErrBlockedEndpoint):
		return "blocked-endpoint"
	case Is(err, ErrInvalidCell):
		return "invalid-cell"
	default:
		return "error"
	}
}
