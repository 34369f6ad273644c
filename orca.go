package orcaswarm

import "math"

// computeNewVelocity builds the ORCA lines of the agent from its current
// neighbor lists and solves for the velocity closest to its preferred one.
// It only reads other agents, so agents may run it concurrently.
func (a *Agent) computeNewVelocity(s *Simulator) {
	a.orcaLines = a.orcaLines[:0]
	a.addObstacleLines(s)
	numObstLines := len(a.orcaLines)
	a.addAgentLines(s)

	v, fail := linearProgram2(a.orcaLines, a.MaxSpeed, a.PrefVelocity, optClosest)
	a.relaxed = fail < len(a.orcaLines)
	if a.relaxed {
		v, a.projLines = linearProgram3(a.orcaLines, numObstLines, fail, a.MaxSpeed, v, a.projLines)
	}
	a.newVelocity = v
}

// legs returns the left and right tangent directions from the agent to a
// disc of the agent's radius centered at relative position p.
func (a *Agent) legs(p Vec2, distSq float64) (left, right Vec2) {
	leg := math.Sqrt(distSq - sqr(a.Radius))
	left = Vec2{p.X*leg - p.Y*a.Radius, p.X*a.Radius + p.Y*leg}.Scale(1 / distSq)
	right = Vec2{p.X*leg + p.Y*a.Radius, -p.X*a.Radius + p.Y*leg}.Scale(1 / distSq)
	return left, right
}

// addObstacleLines appends one ORCA line per obstacle neighbor not already
// covered by a previous obstacle line.
func (a *Agent) addObstacleLines(s *Simulator) {
	invTimeHorizonObst := 1 / a.TimeHorizonObst
	radiusSq := sqr(a.Radius)

	for _, n := range a.obstacleNeighbors {
		o1 := &s.obstacles[n.obstacle]
		o2 := &s.obstacles[o1.next]

		relPos1 := o1.point.Sub(a.Position)
		relPos2 := o2.point.Sub(a.Position)

		// skip if the velocity obstacle is already taken care of
		covered := false
		for _, l := range a.orcaLines {
			if Det(relPos1.Scale(invTimeHorizonObst).Sub(l.Point), l.Direction)-invTimeHorizonObst*a.Radius >= -epsilon &&
				Det(relPos2.Scale(invTimeHorizonObst).Sub(l.Point), l.Direction)-invTimeHorizonObst*a.Radius >= -epsilon {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		distSq1 := relPos1.AbsSq()
		distSq2 := relPos2.AbsSq()
		obstacleVector := o2.point.Sub(o1.point)
		obstacleLenSq := obstacleVector.AbsSq()
		if obstacleLenSq == 0 {
			continue
		}
		t := relPos1.Neg().Dot(obstacleVector) / obstacleLenSq
		distSqLine := relPos1.Neg().Sub(obstacleVector.Scale(t)).AbsSq()

		// present collision
		switch {
		case t < 0 && distSq1 <= radiusSq:
			// with left vertex, ignored if non-convex
			if o1.isConvex {
				a.appendLine(Line{Direction: Vec2{-relPos1.Y, relPos1.X}.Normalize()})
			}
			continue
		case t > 1 && distSq2 <= radiusSq:
			// with right vertex, ignored if non-convex or if the next edge handles it
			if o2.isConvex && Det(relPos2, o2.unitDir) >= 0 {
				a.appendLine(Line{Direction: Vec2{-relPos2.Y, relPos2.X}.Normalize()})
			}
			continue
		case t >= 0 && t < 1 && distSqLine <= radiusSq:
			// with the segment itself
			a.appendLine(Line{Direction: o1.unitDir.Neg()})
			continue
		}

		// No collision: compute the legs. When viewed obliquely both legs
		// can come from a single vertex. At a non-convex vertex the leg
		// extends the cutoff line.
		var leftLeg, rightLeg Vec2
		switch {
		case t < 0 && distSqLine <= radiusSq:
			// the left vertex defines the velocity obstacle
			if !o1.isConvex {
				continue
			}
			o2 = o1
			leftLeg, rightLeg = a.legs(relPos1, distSq1)
		case t > 1 && distSqLine <= radiusSq:
			// the right vertex defines the velocity obstacle
			if !o2.isConvex {
				continue
			}
			o1 = o2
			leftLeg, rightLeg = a.legs(relPos2, distSq2)
		default:
			if o1.isConvex {
				leftLeg, _ = a.legs(relPos1, distSq1)
			} else {
				leftLeg = o1.unitDir.Neg()
			}
			if o2.isConvex {
				_, rightLeg = a.legs(relPos2, distSq2)
			} else {
				rightLeg = o1.unitDir
			}
		}

		// A leg never points into the neighboring edge at a convex vertex;
		// it is replaced by that edge's cutoff line and marked foreign.
		// Velocities projecting on a foreign leg add no constraint.
		leftNeighbor := &s.obstacles[o1.prev]
		leftForeign, rightForeign := false, false
		if o1.isConvex && Det(leftLeg, leftNeighbor.unitDir.Neg()) >= 0 {
			leftLeg = leftNeighbor.unitDir.Neg()
			leftForeign = true
		}
		if o2.isConvex && Det(rightLeg, o2.unitDir) <= 0 {
			rightLeg = o2.unitDir
			rightForeign = true
		}

		leftCutoff := o1.point.Sub(a.Position).Scale(invTimeHorizonObst)
		rightCutoff := o2.point.Sub(a.Position).Scale(invTimeHorizonObst)
		cutoffVec := rightCutoff.Sub(leftCutoff)
		sameVertex := o1 == o2

		// project the current velocity on the velocity obstacle
		tCut := 0.5
		if !sameVertex {
			tCut = a.Velocity.Sub(leftCutoff).Dot(cutoffVec) / cutoffVec.AbsSq()
		}
		tLeft := a.Velocity.Sub(leftCutoff).Dot(leftLeg)
		tRight := a.Velocity.Sub(rightCutoff).Dot(rightLeg)

		switch {
		case (tCut < 0 && tLeft < 0) || (sameVertex && tLeft < 0 && tRight < 0):
			// left cutoff circle
			unitW := a.Velocity.Sub(leftCutoff).Normalize()
			a.appendLine(Line{
				Direction: Vec2{unitW.Y, -unitW.X},
				Point:     leftCutoff.Add(unitW.Scale(a.Radius * invTimeHorizonObst)),
			})
			continue
		case tCut > 1 && tRight < 0:
			// right cutoff circle
			unitW := a.Velocity.Sub(rightCutoff).Normalize()
			a.appendLine(Line{
				Direction: Vec2{unitW.Y, -unitW.X},
				Point:     rightCutoff.Add(unitW.Scale(a.Radius * invTimeHorizonObst)),
			})
			continue
		}

		// project on the left leg, the right leg or the cutoff segment,
		// whichever is closest to the velocity
		distSqCutoff, distSqLeft, distSqRight := math.Inf(1), math.Inf(1), math.Inf(1)
		if tCut >= 0 && tCut <= 1 && !sameVertex {
			distSqCutoff = a.Velocity.Sub(leftCutoff.Add(cutoffVec.Scale(tCut))).AbsSq()
		}
		if tLeft >= 0 {
			distSqLeft = a.Velocity.Sub(leftCutoff.Add(leftLeg.Scale(tLeft))).AbsSq()
		}
		if tRight >= 0 {
			distSqRight = a.Velocity.Sub(rightCutoff.Add(rightLeg.Scale(tRight))).AbsSq()
		}

		switch {
		case distSqCutoff <= distSqLeft && distSqCutoff <= distSqRight:
			dir := o1.unitDir.Neg()
			a.appendLine(Line{
				Direction: dir,
				Point:     leftCutoff.Add(dir.Perp().Scale(a.Radius * invTimeHorizonObst)),
			})
		case distSqLeft <= distSqRight:
			if leftForeign {
				continue
			}
			a.appendLine(Line{
				Direction: leftLeg,
				Point:     leftCutoff.Add(leftLeg.Perp().Scale(a.Radius * invTimeHorizonObst)),
			})
		default:
			if rightForeign {
				continue
			}
			dir := rightLeg.Neg()
			a.appendLine(Line{
				Direction: dir,
				Point:     rightCutoff.Add(dir.Perp().Scale(a.Radius * invTimeHorizonObst)),
			})
		}
	}
}

// addAgentLines appends one ORCA line per agent neighbor. Each agent takes
// half of the correction needed to avoid the other.
func (a *Agent) addAgentLines(s *Simulator) {
	invTimeHorizon := 1 / a.TimeHorizon

	for _, n := range a.agentNeighbors {
		other := s.agents[n.agent]

		relPos := other.Position.Sub(a.Position)
		relVel := a.Velocity.Sub(other.Velocity)
		distSq := relPos.AbsSq()
		combinedRadius := a.Radius + other.Radius
		combinedRadiusSq := sqr(combinedRadius)

		var line Line
		var u Vec2

		if distSq > combinedRadiusSq {
			// no collision
			w := relVel.Sub(relPos.Scale(invTimeHorizon))
			wLengthSq := w.AbsSq()
			dot1 := w.Dot(relPos)

			if dot1 < 0 && sqr(dot1) > combinedRadiusSq*wLengthSq {
				// project on cutoff circle
				wLength := math.Sqrt(wLengthSq)
				unitW := w.Scale(1 / wLength)
				line.Direction = Vec2{unitW.Y, -unitW.X}
				u = unitW.Scale(combinedRadius*invTimeHorizon - wLength)
			} else {
				// project on legs
				leg := math.Sqrt(distSq - combinedRadiusSq)
				if Det(relPos, w) > 0 {
					line.Direction = Vec2{
						relPos.X*leg - relPos.Y*combinedRadius,
						relPos.X*combinedRadius + relPos.Y*leg,
					}.Scale(1 / distSq)
				} else {
					line.Direction = Vec2{
						relPos.X*leg + relPos.Y*combinedRadius,
						-relPos.X*combinedRadius + relPos.Y*leg,
					}.Scale(-1 / distSq)
				}
				u = line.Direction.Scale(relVel.Dot(line.Direction)).Sub(relVel)
			}
		} else {
			// collision: separate within one time step
			invTimeStep := 1 / s.timeStep
			w := relVel.Sub(relPos.Scale(invTimeStep))
			wLength := w.Abs()
			if wLength == 0 {
				continue
			}
			unitW := w.Scale(1 / wLength)
			line.Direction = Vec2{unitW.Y, -unitW.X}
			u = unitW.Scale(combinedRadius*invTimeStep - wLength)
		}

		line.Point = a.Velocity.Add(u.Scale(0.5))
		a.appendLine(line)
	}
}

// appendLine adds l unless it is degenerate.
func (a *Agent) appendLine(l Line) {
	if l.Point.IsNaN() || l.Direction.IsNaN() || l.Direction == (Vec2{}) {
		return
	}
	a.orcaLines = append(a.orcaLines, l)
}
