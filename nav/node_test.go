package nav

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNearIsBounded(t *testing.T) {
	g := NewGraph(nil, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, 1, physics.AllLayers)
	prev := g.Root()
	chain := []NodeID{prev}
	for i := 1; i <= 4; i++ {
		prev = g.newFrom(mgl64.Vec3{float64(i), 0, 0}, prev)
		chain = append(chain, prev)
	}

	assert.Equal(t, chain[3], g.FindNear(g.Root(), mgl64.Vec3{3, 0, 0}, 3, NoNode))
	assert.Equal(t, NoNode, g.FindNear(g.Root(), mgl64.Vec3{4, 0, 0}, 3, NoNode))
	assert.Equal(t, chain[4], g.FindNear(chain[1], mgl64.Vec3{4, 0, 0}, 3, NoNode))
	assert.Equal(t, chain[2], g.FindNear(chain[2], mgl64.Vec3{2, 0, 0}, 0, NoNode))
}

func TestExpandReusesNeighbours(t *testing.T) {
	g := NewGraph(physics.NewWorld(), mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, 1, physics.AllLayers)

	adjacent, created := g.Expand(g.Root(), probe, mgl64.QuatIdent())
	require.Len(t, created, 6)
	right := adjacent[0]
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, g.Position(right))

	back, fresh := g.Expand(right, probe, mgl64.QuatIdent())
	assert.Equal(t, g.Root(), back[1], "expanding back toward the root finds it")
	assert.Len(t, fresh, 5)
	assert.Equal(t, 12, g.Len())

	// (1,1,0) is reachable from the root via (0,1,0) within findDepth hops
	up := adjacent[2]
	upAdjacent, upFresh := g.Expand(up, probe, mgl64.QuatIdent())
	assert.Equal(t, back[2], upAdjacent[0])
	assert.Len(t, upFresh, 4)
}

func TestStatusIsCached(t *testing.T) {
	w := physics.NewWorld()
	id := w.Add(physics.Box{Center: mgl64.Vec3{1, 0, 0}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, physics.LayerStatic)
	g := NewGraph(w, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, 1, physics.AllLayers)

	adjacent, created := g.Expand(g.Root(), probe, mgl64.QuatIdent())
	assert.Len(t, created, 5)
	assert.Equal(t, StatusObstructed, g.CachedStatus(adjacent[0]))

	w.Remove(id)
	assert.Equal(t, StatusObstructed, g.Status(adjacent[0], probe, mgl64.QuatIdent()))
	assert.Equal(t, StatusFree, g.CachedStatus(adjacent[1]))
}

func TestIsEdge(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.Box{Center: mgl64.Vec3{2, 0, 0}, HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}, physics.LayerStatic)
	g := NewGraph(w, mgl64.Vec3{}, mgl64.Vec3{10, 0, 0}, 1, physics.AllLayers)

	adjacent, _ := g.Expand(g.Root(), probe, mgl64.QuatIdent())
	assert.True(t, g.IsEdge(g.Root()), "root is always an edge")
	assert.False(t, g.IsEdge(adjacent[0]), "unexpanded node has no obstructed links yet")

	g.Expand(adjacent[0], probe, mgl64.QuatIdent())
	assert.True(t, g.IsEdge(adjacent[0]))
	assert.Equal(t, StatusEdge, g.CachedStatus(adjacent[0]))
	assert.False(t, g.IsEdge(adjacent[1]))
}
