package orcaswarm

// AgentParams contains the avoidance parameters of an agent.
// The simulator keeps one as the template for AddAgent.
type AgentParams struct {
	NeighborDist    float64 // maximum distance to other agents taken into account
	MaxNeighbors    int     // maximum number of other agents taken into account
	TimeHorizon     float64 // lookahead for agent-agent collisions
	TimeHorizonObst float64 // lookahead for agent-obstacle collisions
	Radius          float64 // radius of the agent's disc
	MaxSpeed        float64 // maximum speed
	Velocity        Vec2    // initial velocity
}

// An Agent is a disc moving on the plane.
// Its embedded Velocity is the last resolved velocity.
type Agent struct {
	AgentParams
	ID           int
	Position     Vec2
	PrefVelocity Vec2

	newVelocity       Vec2
	agentNeighbors    []agentNeighbor    // ascending by distSq, at most MaxNeighbors
	obstacleNeighbors []obstacleNeighbor // ascending by distSq
	orcaLines         []Line             // rebuilt every step
	projLines         []Line             // scratch space for the relaxation fallback
	relaxed           bool               // last solve needed the relaxation fallback
	removed           bool
}

type agentNeighbor struct {
	distSq float64
	agent  int
}

type obstacleNeighbor struct {
	distSq   float64
	obstacle int
}

// computeNeighbors refreshes both neighbor lists from the simulator's trees.
func (a *Agent) computeNeighbors(s *Simulator) {
	a.obstacleNeighbors = a.obstacleNeighbors[:0]
	rangeSq := sqr(a.TimeHorizonObst*a.MaxSpeed + a.Radius)
	s.tree.computeObstacleNeighbors(s, a, rangeSq)

	a.agentNeighbors = a.agentNeighbors[:0]
	if a.MaxNeighbors > 0 {
		rangeSq = sqr(a.NeighborDist)
		s.tree.computeAgentNeighbors(s, a, &rangeSq)
	}
}

// insertAgentNeighbor inserts agent j in sorted position if it lies within rangeSq.
// Once the list is full, the farthest entry is evicted and rangeSq shrinks
// to the distance of the new farthest entry.
func (a *Agent) insertAgentNeighbor(s *Simulator, j int, rangeSq *float64) {
	other := s.agents[j]
	if other == a {
		return
	}
	distSq := a.Position.Sub(other.Position).AbsSq()
	if distSq >= *rangeSq {
		return
	}

	if len(a.agentNeighbors) < a.MaxNeighbors {
		a.agentNeighbors = append(a.agentNeighbors, agentNeighbor{})
	}
	i := len(a.agentNeighbors) - 1
	for i != 0 && distSq < a.agentNeighbors[i-1].distSq {
		a.agentNeighbors[i] = a.agentNeighbors[i-1]
		i--
	}
	a.agentNeighbors[i] = agentNeighbor{distSq: distSq, agent: j}

	if len(a.agentNeighbors) == a.MaxNeighbors {
		*rangeSq = a.agentNeighbors[len(a.agentNeighbors)-1].distSq
	}
}

// insertObstacleNeighbor inserts the edge starting at id in sorted position
// if it lies within rangeSq.
func (a *Agent) insertObstacleNeighbor(s *Simulator, id int, rangeSq float64) {
	o := &s.obstacles[id]
	distSq := DistSqPointLineSegment(o.point, s.obstacles[o.next].point, a.Position)
	if distSq >= rangeSq {
		return
	}

	a.obstacleNeighbors = append(a.obstacleNeighbors, obstacleNeighbor{})
	i := len(a.obstacleNeighbors) - 1
	for i != 0 && distSq < a.obstacleNeighbors[i-1].distSq {
		a.obstacleNeighbors[i] = a.obstacleNeighbors[i-1]
		i--
	}
	a.obstacleNeighbors[i] = obstacleNeighbor{distSq: distSq, obstacle: id}
}

// update integrates the velocity computed during the current step.
func (a *Agent) update(timeStep float64) {
	a.Velocity = a.newVelocity
	a.Position = a.Position.Add(a.Velocity.Scale(timeStep))
}
