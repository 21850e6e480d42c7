package core

import "github.com/elektrokombinacija/gridmapf/internal/errors"

// AgentID is the stable index of an agent within an instance.
type AgentID int

// Agent is a mover with a fixed start and goal.
type Agent struct {
	ID    AgentID
	Start Cell
	Goal  Cell
}

// NewAgent creates an agent after checking that both endpoints are in bounds
// and unblocked on g.
func NewAgent(g *Grid, id AgentID, start, goal Cell) (*Agent, error) {
	if err := CheckEndpoint(g, int(id), "start", start); err != nil {
		return nil, err
	}
	if err := CheckEndpoint(g, int(id), "goal", goal); err != nil {
		return nil, err
	}
	return &Agent{ID: id, Start: start, Goal: goal}, nil
}

// CheckEndpoint validates a start or goal cell. agent may be -1 when the
// endpoint does not belong to an agent.
func CheckEndpoint(g *Grid, agent int, which string, c Cell) error {
	if !g.InBounds(c) {
		return errors.NewEndpointError(agent, which, c.X, c.Y,
			errors.NewCellError("endpoint", c.X, c.Y, g.Width(), g.Height()))
	}
	if g.Blocked(c) {
		return errors.NewEndpointError(agent, which, c.X, c.Y, errors.ErrBlockedEndpoint)
	}
	return nil
}
