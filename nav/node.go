package nav

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/physics"
)

// Status is the cached obstruction state of a node.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusObstructed
	// StatusEdge marks a free node neighbouring an obstructed one.
	StatusEdge
	StatusFree
)

func (s Status) String() string {
	switch s {
	case StatusObstructed:
		return "obstructed"
	case StatusEdge:
		return "edge"
	case StatusFree:
		return "free"
	default:
		return "unknown"
	}
}

// NodeID indexes a node inside its Graph.
type NodeID int32

// NoNode is the null node index.
const NoNode NodeID = -1

// findDepth bounds the adjacency walk used to detect existing nodes.
const findDepth = 3

// Node is a grid point of the search graph. Links are indices into the
// owning Graph.
type Node struct {
	Position  mgl64.Vec3
	Weight    float64
	Ancestor  NodeID
	Connected []NodeID
	status    Status
}

// Graph is a lazily grown 6-connected grid graph rooted at the search start.
// It is owned by a single search and discarded with it.
type Graph struct {
	nodes   []Node
	goal    mgl64.Vec3
	spacing float64
	offsets [6]mgl64.Vec3
	query   physics.Query
	mask    physics.LayerMask
}

// NewGraph creates a graph holding only the root node at start.
func NewGraph(query physics.Query, start, goal mgl64.Vec3, spacing float64, mask physics.LayerMask) *Graph {
	g := &Graph{
		goal:    goal,
		spacing: spacing,
		query:   query,
		mask:    mask,
		offsets: [6]mgl64.Vec3{
			{spacing, 0, 0},
			{-spacing, 0, 0},
			{0, spacing, 0},
			{0, -spacing, 0},
			{0, 0, spacing},
			{0, 0, -spacing},
		},
	}
	g.nodes = append(g.nodes, Node{
		Position: start,
		Weight:   common.Distance(start, goal),
		Ancestor: NoNode,
	})
	return g
}

// Root is always the first node.
func (g *Graph) Root() NodeID {
	return 0
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

func (g *Graph) Goal() mgl64.Vec3 {
	return g.goal
}

func (g *Graph) Spacing() float64 {
	return g.spacing
}

// Node returns a copy of the node at id.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

func (g *Graph) Position(id NodeID) mgl64.Vec3 {
	return g.nodes[id].Position
}

func (g *Graph) Weight(id NodeID) float64 {
	return g.nodes[id].Weight
}

func (g *Graph) Ancestor(id NodeID) NodeID {
	return g.nodes[id].Ancestor
}

// CachedStatus returns the status without evaluating it.
func (g *Graph) CachedStatus(id NodeID) Status {
	return g.nodes[id].status
}

func (g *Graph) newFrom(position mgl64.Vec3, ancestor NodeID) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		Position:  position,
		Weight:    common.Distance(position, g.goal),
		Ancestor:  ancestor,
		Connected: []NodeID{ancestor},
	})
	g.nodes[ancestor].Connected = append(g.nodes[ancestor].Connected, id)
	return id
}

func (g *Graph) samePosition(a, b mgl64.Vec3) bool {
	return common.SamePoint(a, b, g.spacing*1e-4)
}

// FindNear walks adjacency from `from` for at most maxHops links looking for a
// node at position, never stepping straight back to `excluding`. Nodes
// further away are not found even if they exist.
func (g *Graph) FindNear(from NodeID, position mgl64.Vec3, maxHops int, excluding NodeID) NodeID {
	if g.samePosition(g.nodes[from].Position, position) {
		return from
	}
	if maxHops == 0 {
		return NoNode
	}
	for _, next := range g.nodes[from].Connected {
		if next == excluding {
			continue
		}
		if found := g.FindNear(next, position, maxHops-1, from); found != NoNode {
			return found
		}
	}
	return NoNode
}

func (g *Graph) linked(a, b NodeID) bool {
	for _, c := range g.nodes[a].Connected {
		if c == b {
			return true
		}
	}
	return false
}

// Expand finds or creates the six neighbours of id and links them. It returns
// every neighbour and, separately, the newly created ones that are not
// obstructed; only those need further expansion.
func (g *Graph) Expand(id NodeID, halfExtents mgl64.Vec3, rotation mgl64.Quat) ([6]NodeID, []NodeID) {
	var adjacent [6]NodeID
	created := make([]NodeID, 0, len(g.offsets))

	for i, off := range g.offsets {
		pos := g.nodes[id].Position.Add(off)
		n := g.FindNear(id, pos, findDepth, id)
		if n == NoNode {
			n = g.newFrom(pos, id)
			created = append(created, n)
		}
		adjacent[i] = n
	}

	for _, n := range adjacent {
		if n == id || g.linked(id, n) {
			continue
		}
		g.nodes[id].Connected = append(g.nodes[id].Connected, n)
		g.nodes[n].Connected = append(g.nodes[n].Connected, id)
	}

	expandable := created[:0]
	for _, n := range created {
		if g.Status(n, halfExtents, rotation) != StatusObstructed {
			expandable = append(expandable, n)
		}
	}
	return adjacent, expandable
}

// Status evaluates the obstruction state once and caches it for the lifetime
// of the graph.
func (g *Graph) Status(id NodeID, halfExtents mgl64.Vec3, rotation mgl64.Quat) Status {
	n := &g.nodes[id]
	if n.status != StatusUnknown {
		return n.status
	}
	if g.query != nil && len(g.query.OverlapBox(n.Position, halfExtents, rotation, g.mask)) > 0 {
		n.status = StatusObstructed
	} else {
		n.status = StatusFree
	}
	return n.status
}

// IsGoal reports whether the node is within one cell of the goal.
func (g *Graph) IsGoal(id NodeID) bool {
	return common.Distance(g.nodes[id].Position, g.goal) < g.spacing
}

// IsEdge reports whether the node is the root or touches an obstructed node,
// marking it as an edge in the latter case.
func (g *Graph) IsEdge(id NodeID) bool {
	n := &g.nodes[id]
	if n.Ancestor == NoNode {
		return true
	}
	for _, c := range n.Connected {
		if g.nodes[c].status == StatusObstructed {
			n.status = StatusEdge
			return true
		}
	}
	return false
}
