package orcaswarm

// Per-agent accessors. All of them panic with an error wrapping ErrAgentIndex
// on an unknown index.

// AgentPosition returns the position of agent i.
func (s *Simulator) AgentPosition(i int) Vec2 { return s.agent(i).Position }

// AgentVelocity returns the velocity agent i moved with during the last step.
func (s *Simulator) AgentVelocity(i int) Vec2 { return s.agent(i).Velocity }

// AgentPrefVelocity returns the velocity agent i would take without neighbors.
func (s *Simulator) AgentPrefVelocity(i int) Vec2 { return s.agent(i).PrefVelocity }

// AgentRadius returns the radius of agent i.
func (s *Simulator) AgentRadius(i int) float64 { return s.agent(i).Radius }

// AgentMaxSpeed returns the maximum speed of agent i.
func (s *Simulator) AgentMaxSpeed(i int) float64 { return s.agent(i).MaxSpeed }

// AgentMaxNeighbors returns how many agents agent i takes into account.
func (s *Simulator) AgentMaxNeighbors(i int) int { return s.agent(i).MaxNeighbors }

// AgentNeighborDist returns the distance within which agent i sees other agents.
func (s *Simulator) AgentNeighborDist(i int) float64 { return s.agent(i).NeighborDist }

// AgentTimeHorizon returns the lookahead of agent i against other agents.
func (s *Simulator) AgentTimeHorizon(i int) float64 { return s.agent(i).TimeHorizon }

// AgentTimeHorizonObst returns the lookahead of agent i against obstacles.
func (s *Simulator) AgentTimeHorizonObst(i int) float64 { return s.agent(i).TimeHorizonObst }

// AgentGoal returns the goal of agent i, its initial position unless set.
func (s *Simulator) AgentGoal(i int) Vec2 {
	s.agent(i)
	return s.goals[i]
}

// AgentRelaxed reports whether the last velocity of agent i came from the
// relaxation fallback, in which case it may violate some of its ORCA lines.
func (s *Simulator) AgentRelaxed(i int) bool { return s.agent(i).relaxed }

// AgentOrcaLines returns a copy of the ORCA lines of agent i from the last step,
// obstacle lines first.
func (s *Simulator) AgentOrcaLines(i int) []Line {
	return append([]Line(nil), s.agent(i).orcaLines...)
}

// AgentNumOrcaLines returns the number of ORCA lines of agent i from the last step.
func (s *Simulator) AgentNumOrcaLines(i int) int { return len(s.agent(i).orcaLines) }

// AgentNumAgentNeighbors returns the number of agents agent i avoided during the last step.
func (s *Simulator) AgentNumAgentNeighbors(i int) int { return len(s.agent(i).agentNeighbors) }

// AgentAgentNeighbor returns the index of the n-th nearest agent neighbor of agent i.
func (s *Simulator) AgentAgentNeighbor(i, n int) int {
	return s.agent(i).agentNeighbors[n].agent
}

// AgentNumObstacleNeighbors returns the number of obstacle edges agent i avoided
// during the last step.
func (s *Simulator) AgentNumObstacleNeighbors(i int) int { return len(s.agent(i).obstacleNeighbors) }

// AgentObstacleNeighbor returns the first vertex id of the n-th nearest
// obstacle edge of agent i.
func (s *Simulator) AgentObstacleNeighbor(i, n int) int {
	return s.agent(i).obstacleNeighbors[n].obstacle
}

// SetAgentPosition moves agent i.
func (s *Simulator) SetAgentPosition(i int, p Vec2) { s.agent(i).Position = p }

// SetAgentVelocity sets the current velocity of agent i.
func (s *Simulator) SetAgentVelocity(i int, v Vec2) { s.agent(i).Velocity = v }

// SetAgentPrefVelocity sets the velocity agent i tries to keep at the next step.
func (s *Simulator) SetAgentPrefVelocity(i int, v Vec2) { s.agent(i).PrefVelocity = v }

// SetAgentRadius sets the radius of agent i.
func (s *Simulator) SetAgentRadius(i int, r float64) { s.agent(i).Radius = r }

// SetAgentMaxSpeed sets the maximum speed of agent i.
func (s *Simulator) SetAgentMaxSpeed(i int, v float64) { s.agent(i).MaxSpeed = v }

// SetAgentMaxNeighbors sets how many agents agent i takes into account.
func (s *Simulator) SetAgentMaxNeighbors(i int, n int) { s.agent(i).MaxNeighbors = n }

// SetAgentNeighborDist sets the distance within which agent i sees other agents.
func (s *Simulator) SetAgentNeighborDist(i int, d float64) { s.agent(i).NeighborDist = d }

// SetAgentTimeHorizon sets the lookahead of agent i against other agents.
func (s *Simulator) SetAgentTimeHorizon(i int, t float64) { s.agent(i).TimeHorizon = t }

// SetAgentTimeHorizonObst sets the lookahead of agent i against obstacles.
func (s *Simulator) SetAgentTimeHorizonObst(i int, t float64) { s.agent(i).TimeHorizonObst = t }

// SetAgentGoal sets the position ReachedGoal measures agent i against.
func (s *Simulator) SetAgentGoal(i int, g Vec2) {
	s.agent(i)
	s.goals[i] = g
}
