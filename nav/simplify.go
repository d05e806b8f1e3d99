package nav

import "github.com/milk9111/lumen/common"

// Simplify drops free-space waypoints and then elides waypoints whose
// neighbours two steps apart are already close. Both passes are greedy and
// single-pass. The route's first (goal end) and last (start) nodes are kept.
func (p *Pathfinder) Simplify(route Route) Route {
	if len(route) == 0 {
		return nil
	}
	out := make(Route, 0, len(route))
	for i, id := range route {
		if i == 0 || i == len(route)-1 || p.graph.IsEdge(id) || p.graph.IsGoal(id) {
			out = append(out, id)
		}
	}

	limit := p.req.CollapseFactor * p.graph.Spacing()
	for i := len(out) - 1; i >= 2; i-- {
		if common.Distance(p.graph.Position(out[i]), p.graph.Position(out[i-2])) <= limit {
			out = append(out[:i-1], out[i:]...)
		}
	}
	return out
}
