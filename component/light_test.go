package component

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roofedWorld has a ceiling over everything and a wall at x=5.
func roofedWorld() *physics.World {
	w := physics.NewWorld()
	w.Add(physics.NewAABB(mgl64.Vec3{-20, 3, -20}, mgl64.Vec3{20, 4, 20}), physics.LayerStatic)
	w.Add(physics.NewAABB(mgl64.Vec3{4.5, -1, -20}, mgl64.Vec3{5.5, 3, 20}), physics.LayerStatic)
	return w
}

func TestCollectorNeedsSkyOrSun(t *testing.T) {
	open := NewLightGraph(physics.NewWorld())
	c := &Crystal{ID: 1, Kind: Collector}
	open.Register(c)
	open.Update()
	assert.Equal(t, FullLight, c.Level)

	roofed := NewLightGraph(roofedWorld())
	dark := &Crystal{ID: 1, Kind: Collector}
	roofed.Register(dark)
	roofed.Update()
	assert.Equal(t, 0.0, dark.Level)

	roofed.Register(&Crystal{ID: 2, Kind: Sun, Position: mgl64.Vec3{2, 0, 0}})
	roofed.Update()
	assert.Equal(t, FullLight, dark.Level)
}

func TestTransmitterChain(t *testing.T) {
	g := NewLightGraph(roofedWorld())
	sun := &Crystal{ID: 1, Kind: Sun, Position: mgl64.Vec3{-4, 0, 0}}
	collector := &Crystal{ID: 2, Kind: Collector, Position: mgl64.Vec3{0, 0, 0}}
	near := &Crystal{ID: 3, Kind: Transmitter, Position: mgl64.Vec3{2, 0, 0}}
	behindWall := &Crystal{ID: 4, Kind: Transmitter, Position: mgl64.Vec3{8, 0, 0}}
	for _, c := range []*Crystal{near, behindWall, collector, sun} {
		g.Register(c)
	}

	// levels propagate one hop per update
	g.Update()
	g.Update()
	assert.Equal(t, FullLight, collector.Level)
	assert.Equal(t, FullLight, near.Level)
	assert.Equal(t, 0.0, behindWall.Level)

	collector.Held = true
	sun.Held = true
	g.Update()
	g.Update()
	assert.Equal(t, 0.0, near.Level, "held crystals do not feed the chain")
}

func TestPhosphorescentDrifts(t *testing.T) {
	g := NewLightGraph(physics.NewWorld())
	p := &Crystal{ID: 1, Kind: Phosphorescent}
	src := &Crystal{ID: 2, Kind: Phosphorescent, Position: mgl64.Vec3{1, 0, 0}, Level: 0.05}
	g.Register(p)
	g.Register(src)

	g.Update()
	assert.InDelta(t, PhosphorStep, p.Level, 1e-12)
	assert.InDelta(t, 0.05-PhosphorStep, src.Level, 1e-12)

	for i := 0; i < 10; i++ {
		g.Update()
	}
	assert.InDelta(t, p.Level, src.Level, PhosphorStep)
}

func TestUpstream(t *testing.T) {
	g := NewLightGraph(roofedWorld())
	a := &Crystal{ID: 1, Position: mgl64.Vec3{0, 0, 0}, Level: 10}
	b := &Crystal{ID: 2, Position: mgl64.Vec3{2, 0, 0}, Level: 50}
	c := &Crystal{ID: 3, Position: mgl64.Vec3{-2, 0, 0}, Level: 80}
	hidden := &Crystal{ID: 4, Position: mgl64.Vec3{8, 0, 0}, Level: 100}
	for _, x := range []*Crystal{a, b, c, hidden} {
		g.Register(x)
	}
	g.Register(a)
	require.Equal(t, 4, g.Len())

	assert.Same(t, c, g.Upstream(a))
	assert.Nil(t, g.Upstream(c), "nothing visible is brighter")

	c.Held = true
	assert.Same(t, b, g.Upstream(a))
	assert.Same(t, b, g.Closest(mgl64.Vec3{1.5, 0, 0}))

	g.Unregister(b.ID)
	assert.Nil(t, g.Upstream(a))
	assert.Nil(t, g.Active(b.ID))
}

func TestCharge(t *testing.T) {
	c := NewCharge(0.5, 0.25)
	died := 0
	c.OnDepleted = func(*Charge) { died++ }

	assert.False(t, c.Tick(1, false))
	assert.InDelta(t, 0.75, c.Level, 1e-12)
	assert.False(t, c.Tick(10, true))
	assert.Equal(t, 1.0, c.Level)

	for i := 0; i < 3; i++ {
		assert.False(t, c.Tick(1, false))
	}
	assert.True(t, c.Tick(1, false))
	assert.False(t, c.IsAlive())
	assert.False(t, c.Tick(1, true), "depleted charge stays dead")
	assert.Equal(t, 1, died)

	c.Reset()
	assert.True(t, c.IsAlive())
}
