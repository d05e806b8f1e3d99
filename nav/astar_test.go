package nav

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/physics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var probe = mgl64.Vec3{0.25, 0.25, 0.25}

func request(start, goal mgl64.Vec3, max int, simplify bool) Request {
	return Request{
		Start:         start,
		Goal:          goal,
		MaxExpansions: max,
		Spacing:       1,
		HalfExtents:   probe,
		Rotation:      mgl64.QuatIdent(),
		Simplify:      simplify,
	}
}

func cube(x, y, z float64) physics.Box {
	return physics.Box{Center: mgl64.Vec3{x, y, z}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}, Rotation: mgl64.QuatIdent()}
}

func enclosedWorld() *physics.World {
	w := physics.NewWorld()
	for _, off := range []mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}} {
		w.Add(cube(off.X(), off.Y(), off.Z()), physics.LayerDefault)
	}
	return w
}

func TestPathfindStartAtGoal(t *testing.T) {
	res := Pathfind(context.Background(), physics.NewWorld(), request(mgl64.Vec3{}, mgl64.Vec3{0.3, 0, 0}, 20, true))

	assert.True(t, res.Complete)
	assert.Equal(t, ReasonGoalReached, res.Reason)
	assert.Equal(t, 0, res.Expansions)
	require.Len(t, res.Points, 1)
	assert.Equal(t, mgl64.Vec3{}, res.Points[0])
}

func TestPathfindEnclosedStart(t *testing.T) {
	res := Pathfind(context.Background(), enclosedWorld(), request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 20, false))

	assert.False(t, res.Complete)
	assert.Equal(t, ReasonUnreachable, res.Reason)
	assert.Equal(t, 1, res.Expansions)
	require.Len(t, res.Points, 1)
	assert.Equal(t, mgl64.Vec3{}, res.Points[0])
}

func TestPathfindStraightLine(t *testing.T) {
	res := Pathfind(context.Background(), physics.NewWorld(), request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 20, true))

	require.True(t, res.Complete)
	require.Len(t, res.Points, 2)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, res.Points[0])
	assert.Equal(t, mgl64.Vec3{5, 0, 0}, res.Points[1])
	assert.Equal(t, 5, res.Expansions)
}

func TestPathfindStraightLineUnsimplified(t *testing.T) {
	res := Pathfind(context.Background(), physics.NewWorld(), request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 20, false))

	require.True(t, res.Complete)
	require.Len(t, res.Points, 6)
	for i, p := range res.Points {
		assert.Equal(t, mgl64.Vec3{float64(i), 0, 0}, p)
	}
}

func TestPathfindAroundWall(t *testing.T) {
	w := physics.NewWorld()
	wall := physics.NewAABB(mgl64.Vec3{1.75, -100, -1.5}, mgl64.Vec3{2.25, 100, 1.5})
	w.Add(wall, physics.LayerStatic)

	p := NewPathfinder(w, request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 200, false))
	route, reason := p.Search(context.Background())
	require.Equal(t, ReasonGoalReached, reason)

	points := p.Points(route)
	assert.Equal(t, mgl64.Vec3{}, points[0])
	assert.Less(t, points[len(points)-1].Sub(mgl64.Vec3{5, 0, 0}).Len(), 1.0)
	for _, pt := range points {
		assert.False(t, wall.Intersects(physics.Box{Center: pt, HalfExtents: probe}), "route crosses the wall at %v", pt)
	}

	simplified := p.Simplify(route)
	assert.LessOrEqual(t, len(simplified), len(route))
	assert.Equal(t, route[0], simplified[0])
	assert.Equal(t, route[len(route)-1], simplified[len(simplified)-1])
	assert.Greater(t, len(simplified), 2, "edge nodes along the wall survive")
}

func TestSimplifyKeepsEdgesBeforeCollapsing(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.NewAABB(mgl64.Vec3{1.75, -100, -1.5}, mgl64.Vec3{2.25, 100, 1.5}), physics.LayerStatic)

	p := NewPathfinder(w, request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 200, false))
	route, reason := p.Search(context.Background())
	require.Equal(t, ReasonGoalReached, reason)

	var kept Route
	for i, id := range route {
		if i == 0 || i == len(route)-1 || p.Graph().IsEdge(id) || p.Graph().IsGoal(id) {
			kept = append(kept, id)
		}
	}
	require.Greater(t, len(kept), 2)

	// A collapse distance below spacing elides nothing: only the filter runs.
	p.req.CollapseFactor = 0.5
	assert.Equal(t, kept, p.Simplify(route))

	// The collapse pass may elide edge nodes but only ever removes from the
	// filtered route, in order, keeping both ends.
	p.req.CollapseFactor = DefaultCollapseFactor
	collapsed := p.Simplify(route)
	assert.LessOrEqual(t, len(collapsed), len(kept))
	assert.Equal(t, kept[0], collapsed[0])
	assert.Equal(t, kept[len(kept)-1], collapsed[len(collapsed)-1])
	j := 0
	for _, id := range kept {
		if j < len(collapsed) && collapsed[j] == id {
			j++
		}
	}
	assert.Equal(t, len(collapsed), j, "collapsed route is a subsequence of the filtered one")
}

func TestPathfindBudgetFallsBackToClosest(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.NewAABB(mgl64.Vec3{1.75, -50, -50}, mgl64.Vec3{2.25, 50, 50}), physics.LayerStatic)

	res := Pathfind(context.Background(), w, request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 30, false))

	assert.False(t, res.Complete)
	assert.Equal(t, ReasonBudgetExceeded, res.Reason)
	require.Len(t, res.Points, 2)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, res.Points[1])
}

func TestPathfindCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Pathfind(ctx, physics.NewWorld(), request(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}, 20, false))
	assert.False(t, res.Complete)
	assert.Equal(t, ReasonCancelled, res.Reason)
	assert.Len(t, res.Points, 1)
}

func TestSelfLayerIsIgnored(t *testing.T) {
	w := enclosedWorld()
	for id := physics.BodyID(1); int(id) <= w.Len(); id++ {
		w.SetLayer(id, physics.LayerSelf)
	}

	res := Pathfind(context.Background(), w, request(mgl64.Vec3{}, mgl64.Vec3{3, 0, 0}, 20, false))
	assert.True(t, res.Complete)
}

func TestFrontierStaysSorted(t *testing.T) {
	w := physics.NewWorld()
	w.Add(cube(2, 0, 0), physics.LayerStatic)
	w.Add(cube(1, 1, 1), physics.LayerStatic)

	for budget := 1; budget <= 12; budget++ {
		p := NewPathfinder(w, request(mgl64.Vec3{}, mgl64.Vec3{6, 2, -1}, budget, false))
		p.Search(context.Background())

		frontier := p.Frontier()
		for i := 1; i < len(frontier); i++ {
			require.LessOrEqual(t, p.Graph().Weight(frontier[i-1]), p.Graph().Weight(frontier[i]), "budget %d index %d", budget, i)
		}
	}
}

func TestFrontierKeepsInsertionOrderForTies(t *testing.T) {
	p := NewPathfinder(nil, request(mgl64.Vec3{}, mgl64.Vec3{}, 10, false))
	g := p.Graph()
	a := g.newFrom(mgl64.Vec3{1, 0, 0}, g.Root())
	b := g.newFrom(mgl64.Vec3{0, 1, 0}, g.Root())
	c := g.newFrom(mgl64.Vec3{0, 0, 1}, g.Root())
	far := g.newFrom(mgl64.Vec3{2, 0, 0}, a)

	p.push(far)
	p.push(a)
	p.push(b)
	p.push(c)

	assert.Equal(t, []NodeID{g.Root(), a, b, c, far}, p.Frontier())
}

func TestTraceIsRepeatable(t *testing.T) {
	p := NewPathfinder(physics.NewWorld(), request(mgl64.Vec3{}, mgl64.Vec3{3, 2, 1}, 50, false))
	route, reason := p.Search(context.Background())
	require.Equal(t, ReasonGoalReached, reason)

	again := p.Trace(route[0])
	assert.Equal(t, route, again)
	assert.Equal(t, p.Points(route), p.Points(again))
	assert.Equal(t, p.Graph().Root(), route[len(route)-1])
}

func TestSearchMetrics(t *testing.T) {
	before := testutil.ToFloat64(searchTotal.WithLabelValues("complete"))
	Pathfind(context.Background(), physics.NewWorld(), request(mgl64.Vec3{}, mgl64.Vec3{2, 0, 0}, 20, false))
	after := testutil.ToFloat64(searchTotal.WithLabelValues("complete"))
	assert.Equal(t, before+1, after)
}
