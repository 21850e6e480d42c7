package core

// Instance represents a planning problem: terrain plus ordered agents.
type Instance struct {
	Grid   *Grid
	Agents []*Agent
}

// NewInstance creates an instance with no agents.
func NewInstance(g *Grid) *Instance {
	return &Instance{Grid: g}
}

// AddAgent appends an agent with the next free ID.
func (inst *Instance) AddAgent(start, goal Cell) (*Agent, error) {
	a, err := NewAgent(inst.Grid, AgentID(len(inst.Agents)), start, goal)
	if err != nil {
		return nil, err
	}
	inst.Agents = append(inst.Agents, a)
	return a, nil
}

// Validate re-checks agent endpoints against the current grid. Obstacles
// may have been added after agents were created.
func (inst *Instance) Validate() error {
	for i, a := range inst.Agents {
		if err := CheckEndpoint(inst.Grid, i, "start", a.Start); err != nil {
			return err
		}
		if err := CheckEndpoint(inst.Grid, i, "goal", a.Goal); err != nil {
			return err
		}
	}
	return nil
}

// AgentByID finds an agent by ID.
func (inst *Instance) AgentByID(id AgentID) *Agent {
	for _, a := range inst.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Endpoints returns every start and goal cell.
func (inst *Instance) Endpoints() []Cell {
	out := make([]Cell, 0, 2*len(inst.Agents))
	for _, a := range inst.Agents {
		out = append(out, a.Start, a.Goal)
	}
	return out
}

// Starts returns every agent's start cell in agent order.
func (inst *Instance) Starts() []Cell {
	out := make([]Cell, len(inst.Agents))
	for i, a := range inst.Agents {
		out[i] = a.Start
	}
	return out
}
