package orcaswarm

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// GoalEpsilonSq is the squared distance under which an agent has reached its goal.
const GoalEpsilonSq = 0.01

var (
	// ErrNoAgentDefaults is the panic value of AddAgent when
	// SetAgentDefaults was never called.
	ErrNoAgentDefaults = errors.New("orcaswarm: agent defaults not set")

	// ErrAgentIndex wraps the panic value of accessors given an unknown agent.
	ErrAgentIndex = errors.New("orcaswarm: agent index out of range")
)

// A Simulator contains the agents and obstacles of a simulation
// and advances them one time step at a time.
type Simulator struct {
	agents    []*Agent
	goals     []Vec2
	obstacles []obstacle
	defaults  *AgentParams
	tree      kdTree

	globalTime float64
	timeStep   float64

	workers int
	log     *zap.Logger
}

// An Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger receiving debug records from the simulator.
func WithLogger(l *zap.Logger) Option {
	return func(s *Simulator) {
		s.log = l
	}
}

// WithWorkers spreads the velocity computation of each step over n goroutines.
// Values below 2 keep the step single-threaded.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		s.workers = n
	}
}

// NewSimulator returns an empty simulator advancing by timeStep at each Step.
func NewSimulator(timeStep float64, opts ...Option) *Simulator {
	s := &Simulator{
		timeStep: timeStep,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAgentDefaults sets the template cloned by AddAgent.
func (s *Simulator) SetAgentDefaults(neighborDist float64, maxNeighbors int, timeHorizon, timeHorizonObst, radius, maxSpeed float64, velocity Vec2) {
	s.defaults = &AgentParams{
		NeighborDist:    neighborDist,
		MaxNeighbors:    maxNeighbors,
		TimeHorizon:     timeHorizon,
		TimeHorizonObst: timeHorizonObst,
		Radius:          radius,
		MaxSpeed:        maxSpeed,
		Velocity:        velocity,
	}
}

// AddAgent adds an agent at the given position with the default parameters
// and returns its index. It panics with ErrNoAgentDefaults if
// SetAgentDefaults has not been called.
func (s *Simulator) AddAgent(position Vec2) int {
	if s.defaults == nil {
		panic(ErrNoAgentDefaults)
	}
	return s.AddAgentWith(position, *s.defaults)
}

// AddAgentWith adds an agent at the given position with explicit parameters
// and returns its index.
func (s *Simulator) AddAgentWith(position Vec2, p AgentParams) int {
	id := len(s.agents)
	s.agents = append(s.agents, &Agent{
		AgentParams: p,
		ID:          id,
		Position:    position,
	})
	s.goals = append(s.goals, position)
	return id
}

// RemoveAgent takes agent i out of the simulation. Its index is never reused
// and its accessors keep returning its last state.
func (s *Simulator) RemoveAgent(i int) {
	s.agent(i).removed = true
}

// AgentRemoved reports whether agent i was removed.
func (s *Simulator) AgentRemoved(i int) bool {
	return s.agent(i).removed
}

// ProcessObstacles builds the obstacle tree. It must be called after the
// last AddObstacle and before any Step that should account for obstacles.
func (s *Simulator) ProcessObstacles() {
	n := s.tree.buildObstacleTree(s)
	s.log.Debug("obstacle tree built",
		zap.Int("vertices", len(s.obstacles)),
		zap.Int("split", n))
}

// Step computes the new velocity of every agent, then moves all of them
// and advances the global time by one time step.
func (s *Simulator) Step() {
	s.tree.buildAgentTree(s)

	if s.workers > 1 && len(s.agents) > 1 {
		s.computeParallel()
	} else {
		for _, a := range s.agents {
			if !a.removed {
				s.compute(a)
			}
		}
	}

	// every velocity must be computed before any agent moves
	relaxed := 0
	for _, a := range s.agents {
		if a.removed {
			continue
		}
		if a.relaxed {
			relaxed++
		}
		a.update(s.timeStep)
	}
	s.globalTime += s.timeStep

	if relaxed > 0 {
		s.log.Debug("relaxed infeasible programs",
			zap.Float64("time", s.globalTime),
			zap.Int("agents", relaxed))
	}
}

func (s *Simulator) compute(a *Agent) {
	a.computeNeighbors(s)
	a.computeNewVelocity(s)
}

// computeParallel runs compute over contiguous chunks of agents.
func (s *Simulator) computeParallel() {
	var wg sync.WaitGroup
	n := len(s.agents)
	chunk := (n + s.workers - 1) / s.workers
	for begin := 0; begin < n; begin += chunk {
		end := min(begin+chunk, n)
		wg.Add(1)
		go func(agents []*Agent) {
			defer wg.Done()
			for _, a := range agents {
				if !a.removed {
					s.compute(a)
				}
			}
		}(s.agents[begin:end])
	}
	wg.Wait()
}

// QueryVisibility reports whether a disc of the given radius can move
// in a straight line from q1 to q2 without hitting an obstacle.
// Only obstacles processed by ProcessObstacles are considered.
func (s *Simulator) QueryVisibility(q1, q2 Vec2, radius float64) bool {
	return s.tree.queryVisibility(s, q1, q2, radius)
}

// ReachedGoal reports whether every active agent lies within
// sqrt(GoalEpsilonSq) of its goal.
func (s *Simulator) ReachedGoal() bool {
	for i, a := range s.agents {
		if a.removed {
			continue
		}
		if a.Position.Sub(s.goals[i]).AbsSq() > GoalEpsilonSq {
			return false
		}
	}
	return true
}

// agent returns agent i or panics with ErrAgentIndex.
func (s *Simulator) agent(i int) *Agent {
	if i < 0 || i >= len(s.agents) {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrAgentIndex, i, len(s.agents)))
	}
	return s.agents[i]
}

// NumAgents returns the number of agents ever added, removed ones included.
func (s *Simulator) NumAgents() int { return len(s.agents) }

// GlobalTime returns the simulated time elapsed.
func (s *Simulator) GlobalTime() float64 { return s.globalTime }

// TimeStep returns the duration of a step.
func (s *Simulator) TimeStep() float64 { return s.timeStep }

// SetTimeStep sets the duration of the following steps.
func (s *Simulator) SetTimeStep(dt float64) { s.timeStep = dt }

// AgentDefaults returns the template used by AddAgent, if any.
func (s *Simulator) AgentDefaults() (AgentParams, bool) {
	if s.defaults == nil {
		return AgentParams{}, false
	}
	return *s.defaults, true
}
