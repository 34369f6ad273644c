// Package orcaswarm computes collision-free velocities for disc-shaped agents
// moving on a 2D plane among static polygonal obstacles.
//
// Each step, every agent gathers its nearby agents and obstacle edges from
// two KD-trees and turns each of them into a half-plane of permitted
// velocities (an ORCA line). A small linear program then picks the velocity
// closest to the agent's preferred velocity that satisfies all the lines and
// the agent's maximum speed. When no such velocity exists, the one that
// violates the agent lines the least is used instead.
//
// Agents only see each other's state from the previous step, so the outcome
// of a step does not depend on the order in which agents are processed.
//
// A typical driver:
//
//	sim := orcaswarm.NewSimulator(0.25)
//	sim.SetAgentDefaults(15, 10, 10, 10, 1.5, 2, orcaswarm.Vec2{})
//	i := sim.AddAgent(orcaswarm.Vec2{X: -10})
//	sim.SetAgentGoal(i, orcaswarm.Vec2{X: 10})
//	sim.AddObstacle([]orcaswarm.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}})
//	sim.ProcessObstacles()
//	for !sim.ReachedGoal() {
//		toGoal := sim.AgentGoal(i).Sub(sim.AgentPosition(i))
//		if toGoal.AbsSq() > 1 {
//			toGoal = toGoal.Normalize()
//		}
//		sim.SetAgentPrefVelocity(i, toGoal)
//		sim.Step()
//	}
package orcaswarm
