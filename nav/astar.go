package nav

import (
	"context"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/physics"
)

// DefaultCollapseFactor scales the spacing when eliding redundant waypoints.
const DefaultCollapseFactor = 1.5

// Reason explains why a search stopped.
type Reason uint8

const (
	ReasonGoalReached Reason = iota
	ReasonUnreachable
	ReasonBudgetExceeded
	ReasonCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonGoalReached:
		return "complete"
	case ReasonUnreachable:
		return "unreachable"
	case ReasonBudgetExceeded:
		return "budget_exceeded"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Request describes one pathfinding query. HalfExtents and Rotation define the
// box used for obstruction tests at every node.
type Request struct {
	Start         mgl64.Vec3
	Goal          mgl64.Vec3
	MaxExpansions int
	Spacing       float64
	HalfExtents   mgl64.Vec3
	Rotation      mgl64.Quat
	Simplify      bool
	// CollapseFactor defaults to DefaultCollapseFactor when zero.
	CollapseFactor float64
	// Mask defaults to every layer except physics.LayerSelf when zero.
	Mask physics.LayerMask
}

// Route is a chain of nodes from the goal (index 0) back to the start.
type Route []NodeID

// Pathfinder runs a single A* search over a lazily built Graph.
type Pathfinder struct {
	req        Request
	graph      *Graph
	frontier   []NodeID
	closest    NodeID
	expansions int
}

// NewPathfinder prepares a search; the frontier holds only the root.
func NewPathfinder(query physics.Query, req Request) *Pathfinder {
	if req.Mask == 0 {
		req.Mask = physics.AllLayers.Without(physics.LayerSelf)
	}
	if req.CollapseFactor <= 0 {
		req.CollapseFactor = DefaultCollapseFactor
	}
	g := NewGraph(query, req.Start, req.Goal, req.Spacing, req.Mask)
	return &Pathfinder{
		req:      req,
		graph:    g,
		frontier: []NodeID{g.Root()},
		closest:  g.Root(),
	}
}

func (p *Pathfinder) Graph() *Graph {
	return p.graph
}

// Expansions is the number of nodes expanded so far.
func (p *Pathfinder) Expansions() int {
	return p.expansions
}

// Frontier returns a copy of the open list in expansion order.
func (p *Pathfinder) Frontier() []NodeID {
	return append([]NodeID(nil), p.frontier...)
}

// Closest is the lowest-weight node seen during the search.
func (p *Pathfinder) Closest() NodeID {
	return p.closest
}

// push inserts id after every node of lower or equal weight, so equal weights
// keep their insertion order.
func (p *Pathfinder) push(id NodeID) {
	w := p.graph.Weight(id)
	i := sort.Search(len(p.frontier), func(i int) bool {
		return p.graph.Weight(p.frontier[i]) > w
	})
	p.frontier = append(p.frontier, NoNode)
	copy(p.frontier[i+1:], p.frontier[i:])
	p.frontier[i] = id
}

// Search runs until the goal is reached, the frontier empties, the expansion
// budget runs out or ctx is done. Every outcome except reaching the goal
// returns the route to the closest node seen.
func (p *Pathfinder) Search(ctx context.Context) (Route, Reason) {
	for {
		if len(p.frontier) == 0 {
			return p.Trace(p.closest), ReasonUnreachable
		}
		if p.graph.IsGoal(p.frontier[0]) {
			return p.Trace(p.frontier[0]), ReasonGoalReached
		}
		if p.expansions >= p.req.MaxExpansions {
			return p.Trace(p.closest), ReasonBudgetExceeded
		}
		if ctx.Err() != nil {
			return p.Trace(p.closest), ReasonCancelled
		}

		head := p.frontier[0]
		p.frontier = p.frontier[1:]

		_, expandable := p.graph.Expand(head, p.req.HalfExtents, p.req.Rotation)
		for _, n := range expandable {
			p.push(n)
			if p.graph.Weight(n) <= p.graph.Weight(p.closest) {
				p.closest = n
			}
		}
		p.expansions++
	}
}

// Trace follows ancestors from id back to the root.
func (p *Pathfinder) Trace(id NodeID) Route {
	var route Route
	for cur := id; cur != NoNode; cur = p.graph.Ancestor(cur) {
		route = append(route, cur)
	}
	return route
}

// Points converts a route to positions ordered from start to goal.
func (p *Pathfinder) Points(route Route) []mgl64.Vec3 {
	if len(route) == 0 {
		return nil
	}
	points := make([]mgl64.Vec3, len(route))
	for i, id := range route {
		points[len(route)-1-i] = p.graph.Position(id)
	}
	return points
}

// Result is the outcome of Pathfind.
type Result struct {
	// Points runs from the start to the goal (or the closest reachable node).
	Points     []mgl64.Vec3
	Complete   bool
	Reason     Reason
	Expansions int
	Nodes      int
}

// Pathfind runs a full search and converts the route to points, simplifying
// it when requested.
func Pathfind(ctx context.Context, query physics.Query, req Request) Result {
	p := NewPathfinder(query, req)
	route, reason := p.Search(ctx)
	if p.req.Simplify {
		route = p.Simplify(route)
	}
	observeSearch(reason, p.expansions)
	return Result{
		Points:     p.Points(route),
		Complete:   reason == ReasonGoalReached,
		Reason:     reason,
		Expansions: p.expansions,
		Nodes:      p.graph.Len(),
	}
}
