package orcaswarm

import "math"

// maxLeafSize is the largest number of agents kept in an agent tree leaf.
const maxLeafSize = 10

// An agentTreeNode covers agents[begin:end] of the kdTree and their bounding box.
type agentTreeNode struct {
	begin, end  int
	left, right int
	min, max    Vec2
}

// An obstacleTreeNode splits the plane along the obstacle edge it holds.
type obstacleTreeNode struct {
	obstacle    int
	left, right *obstacleTreeNode
}

// A kdTree holds the two spatial indexes of a simulator: agents, rebuilt
// every step, and obstacles, built by ProcessObstacles.
type kdTree struct {
	agents    []int // ids of active agents, permuted by the build
	agentTree []agentTreeNode
	obstacles *obstacleTreeNode
}

// buildAgentTree rebuilds the agent tree from the simulator's active agents.
func (t *kdTree) buildAgentTree(s *Simulator) {
	t.agents = t.agents[:0]
	for i, a := range s.agents {
		if !a.removed {
			t.agents = append(t.agents, i)
		}
	}
	if len(t.agents) == 0 {
		t.agentTree = t.agentTree[:0]
		return
	}
	if n := 2*len(t.agents) - 1; cap(t.agentTree) < n {
		t.agentTree = make([]agentTreeNode, n)
	} else {
		t.agentTree = t.agentTree[:n]
	}
	t.buildAgentTreeRecursive(s, 0, len(t.agents), 0)
}

func (t *kdTree) buildAgentTreeRecursive(s *Simulator, begin, end, node int) {
	n := &t.agentTree[node]
	n.begin, n.end = begin, end
	n.min = s.agents[t.agents[begin]].Position
	n.max = n.min
	for _, id := range t.agents[begin+1 : end] {
		p := s.agents[id].Position
		n.min = Vec2{math.Min(n.min.X, p.X), math.Min(n.min.Y, p.Y)}
		n.max = Vec2{math.Max(n.max.X, p.X), math.Max(n.max.Y, p.Y)}
	}
	if end-begin <= maxLeafSize {
		return
	}

	// split at the middle of the larger extent
	vertical := n.max.X-n.min.X > n.max.Y-n.min.Y
	coord := func(id int) float64 {
		if vertical {
			return s.agents[id].Position.X
		}
		return s.agents[id].Position.Y
	}
	split := 0.5 * (n.max.Y + n.min.Y)
	if vertical {
		split = 0.5 * (n.max.X + n.min.X)
	}

	left, right := begin, end
	for left < right {
		for left < right && coord(t.agents[left]) < split {
			left++
		}
		for right > left && coord(t.agents[right-1]) >= split {
			right--
		}
		if left < right {
			t.agents[left], t.agents[right-1] = t.agents[right-1], t.agents[left]
			left++
			right--
		}
	}
	if left == begin {
		left++
	}

	n.left = node + 1
	n.right = node + 2*(left-begin)
	t.buildAgentTreeRecursive(s, begin, left, n.left)
	t.buildAgentTreeRecursive(s, left, end, n.right)
}

// computeAgentNeighbors fills the agent neighbor list of a.
// rangeSq shrinks as the list fills up.
func (t *kdTree) computeAgentNeighbors(s *Simulator, a *Agent, rangeSq *float64) {
	if len(t.agentTree) == 0 {
		return
	}
	t.queryAgentTreeRecursive(s, a, rangeSq, 0)
}

// distSqBox returns the squared distance from p to the node's bounding box.
func (n *agentTreeNode) distSqBox(p Vec2) float64 {
	return sqr(math.Max(0, n.min.X-p.X)) + sqr(math.Max(0, p.X-n.max.X)) +
		sqr(math.Max(0, n.min.Y-p.Y)) + sqr(math.Max(0, p.Y-n.max.Y))
}

func (t *kdTree) queryAgentTreeRecursive(s *Simulator, a *Agent, rangeSq *float64, node int) {
	n := &t.agentTree[node]
	if n.end-n.begin <= maxLeafSize {
		for _, id := range t.agents[n.begin:n.end] {
			a.insertAgentNeighbor(s, id, rangeSq)
		}
		return
	}

	distSqLeft := t.agentTree[n.left].distSqBox(a.Position)
	distSqRight := t.agentTree[n.right].distSqBox(a.Position)

	// nearer child first, farther one only if still in range
	if distSqLeft < distSqRight {
		if distSqLeft < *rangeSq {
			t.queryAgentTreeRecursive(s, a, rangeSq, n.left)
			if distSqRight < *rangeSq {
				t.queryAgentTreeRecursive(s, a, rangeSq, n.right)
			}
		}
	} else if distSqRight < *rangeSq {
		t.queryAgentTreeRecursive(s, a, rangeSq, n.right)
		if distSqLeft < *rangeSq {
			t.queryAgentTreeRecursive(s, a, rangeSq, n.left)
		}
	}
}

// buildObstacleTree rebuilds the obstacle tree from all obstacle edges of s.
// Edges straddling a split line are split, which appends new edges to s.
// It returns the number of edges created.
func (t *kdTree) buildObstacleTree(s *Simulator) int {
	before := len(s.obstacles)
	ids := make([]int, len(s.obstacles))
	for i := range ids {
		ids[i] = i
	}
	t.obstacles = t.buildObstacleTreeRecursive(s, ids)
	return len(s.obstacles) - before
}

// splitCost orders candidate splits lexicographically by their worst and best side.
func splitCost(left, right int) (int, int) {
	return max(left, right), min(left, right)
}

func lessCost(a1, a2, b1, b2 int) bool {
	return a1 < b1 || (a1 == b1 && a2 < b2)
}

func (t *kdTree) buildObstacleTreeRecursive(s *Simulator, ids []int) *obstacleTreeNode {
	if len(ids) == 0 {
		return nil
	}

	// pick the edge that splits the others most evenly
	optimal := 0
	minLeft, minRight := len(ids), len(ids)
	for i, idI := range ids {
		leftSize, rightSize := 0, 0
		p1, p2 := s.obstacles[idI].point, s.obstacles[s.obstacles[idI].next].point
		best1, best2 := splitCost(minLeft, minRight)

		for j, idJ := range ids {
			if i == j {
				continue
			}
			q1, q2 := s.obstacles[idJ].point, s.obstacles[s.obstacles[idJ].next].point
			j1 := LeftOf(p1, p2, q1)
			j2 := LeftOf(p1, p2, q2)
			switch {
			case j1 >= -epsilon && j2 >= -epsilon:
				leftSize++
			case j1 <= epsilon && j2 <= epsilon:
				rightSize++
			default:
				leftSize++
				rightSize++
			}
			if c1, c2 := splitCost(leftSize, rightSize); !lessCost(c1, c2, best1, best2) {
				break
			}
		}

		if c1, c2 := splitCost(leftSize, rightSize); lessCost(c1, c2, best1, best2) {
			minLeft, minRight = leftSize, rightSize
			optimal = i
		}
	}

	// partition the other edges around the chosen one
	leftIDs := make([]int, 0, minLeft)
	rightIDs := make([]int, 0, minRight)
	idI := ids[optimal]
	p1, p2 := s.obstacles[idI].point, s.obstacles[s.obstacles[idI].next].point
	for j, idJ := range ids {
		if j == optimal {
			continue
		}
		q1, q2 := s.obstacles[idJ].point, s.obstacles[s.obstacles[idJ].next].point
		j1 := LeftOf(p1, p2, q1)
		j2 := LeftOf(p1, p2, q2)
		switch {
		case j1 >= -epsilon && j2 >= -epsilon:
			leftIDs = append(leftIDs, idJ)
		case j1 <= epsilon && j2 <= epsilon:
			rightIDs = append(rightIDs, idJ)
		default:
			// split edge j at its crossing with the line through edge i
			d := p2.Sub(p1)
			u := Det(d, q1.Sub(p1)) / Det(d, q1.Sub(q2))
			nid := s.splitObstacle(idJ, q1.Add(q2.Sub(q1).Scale(u)))
			if j1 > 0 {
				leftIDs = append(leftIDs, idJ)
				rightIDs = append(rightIDs, nid)
			} else {
				rightIDs = append(rightIDs, idJ)
				leftIDs = append(leftIDs, nid)
			}
		}
	}

	return &obstacleTreeNode{
		obstacle: idI,
		left:     t.buildObstacleTreeRecursive(s, leftIDs),
		right:    t.buildObstacleTreeRecursive(s, rightIDs),
	}
}

// computeObstacleNeighbors fills the obstacle neighbor list of a.
func (t *kdTree) computeObstacleNeighbors(s *Simulator, a *Agent, rangeSq float64) {
	t.queryObstacleTreeRecursive(s, a, rangeSq, t.obstacles)
}

func (t *kdTree) queryObstacleTreeRecursive(s *Simulator, a *Agent, rangeSq float64, node *obstacleTreeNode) {
	if node == nil {
		return
	}
	o1 := &s.obstacles[node.obstacle]
	o2 := &s.obstacles[o1.next]

	agentLeftOfLine := LeftOf(o1.point, o2.point, a.Position)
	near, far := node.left, node.right
	if agentLeftOfLine < 0 {
		near, far = far, near
	}
	t.queryObstacleTreeRecursive(s, a, rangeSq, near)

	distSqLine := sqr(agentLeftOfLine) / o2.point.Sub(o1.point).AbsSq()
	if distSqLine < rangeSq {
		if agentLeftOfLine < 0 {
			// the edge is only seen from its right side
			a.insertObstacleNeighbor(s, node.obstacle, rangeSq)
		}
		t.queryObstacleTreeRecursive(s, a, rangeSq, far)
	}
}

// queryVisibility reports whether a disc of the given radius can travel
// straight from q1 to q2 without crossing an obstacle edge.
func (t *kdTree) queryVisibility(s *Simulator, q1, q2 Vec2, radius float64) bool {
	return t.queryVisibilityRecursive(s, q1, q2, radius, t.obstacles)
}

func (t *kdTree) queryVisibilityRecursive(s *Simulator, q1, q2 Vec2, radius float64, node *obstacleTreeNode) bool {
	if node == nil {
		return true
	}
	o1 := &s.obstacles[node.obstacle]
	o2 := &s.obstacles[o1.next]

	q1Left := LeftOf(o1.point, o2.point, q1)
	q2Left := LeftOf(o1.point, o2.point, q2)
	invLengthI := 1 / o2.point.Sub(o1.point).AbsSq()
	radiusSq := sqr(radius)
	clear := sqr(q1Left)*invLengthI >= radiusSq && sqr(q2Left)*invLengthI >= radiusSq

	switch {
	case q1Left >= 0 && q2Left >= 0:
		return t.queryVisibilityRecursive(s, q1, q2, radius, node.left) &&
			(clear || t.queryVisibilityRecursive(s, q1, q2, radius, node.right))
	case q1Left <= 0 && q2Left <= 0:
		return t.queryVisibilityRecursive(s, q1, q2, radius, node.right) &&
			(clear || t.queryVisibilityRecursive(s, q1, q2, radius, node.left))
	case q1Left >= 0 && q2Left <= 0:
		// one can see through the edge from left to right
		return t.queryVisibilityRecursive(s, q1, q2, radius, node.left) &&
			t.queryVisibilityRecursive(s, q1, q2, radius, node.right)
	}

	p1Left := LeftOf(q1, q2, o1.point)
	p2Left := LeftOf(q1, q2, o2.point)
	invLengthQ := 1 / q2.Sub(q1).AbsSq()
	return p1Left*p2Left >= 0 &&
		sqr(p1Left)*invLengthQ > radiusSq &&
		sqr(p2Left)*invLengthQ > radiusSq &&
		t.queryVisibilityRecursive(s, q1, q2, radius, node.left) &&
		t.queryVisibilityRecursive(s, q1, q2, radius, node.right)
}
