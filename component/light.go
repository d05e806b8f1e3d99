package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/physics"
)

const (
	FullLight = 100.0
	// PhosphorStep is how far a phosphorescent crystal moves toward the
	// brightest visible level per update.
	PhosphorStep = 0.02

	skyOffset    = 0.3
	skyReach     = 10.0
	litThreshold = 0.01 * FullLight
)

// CrystalKind selects how a crystal computes its light level.
type CrystalKind uint8

const (
	// Collector is fully lit while the sky or a sun is visible.
	Collector CrystalKind = iota
	// Transmitter is fully lit while a fully lit collector or transmitter
	// is visible.
	Transmitter
	// Phosphorescent drifts toward the brightest visible level.
	Phosphorescent
	// Sun is always fully lit.
	Sun
)

func (k CrystalKind) String() string {
	switch k {
	case Collector:
		return "collector"
	case Transmitter:
		return "transmitter"
	case Phosphorescent:
		return "phosphorescent"
	case Sun:
		return "sun"
	default:
		return "unknown"
	}
}

// ParseCrystalKind maps a level file name to a kind.
func ParseCrystalKind(s string) (CrystalKind, bool) {
	switch s {
	case "collector":
		return Collector, true
	case "transmitter":
		return Transmitter, true
	case "phosphorescent":
		return Phosphorescent, true
	case "sun":
		return Sun, true
	}
	return Collector, false
}

// Crystal is one node of the light graph.
type Crystal struct {
	ID       uint64
	Kind     CrystalKind
	Position mgl64.Vec3
	Level    float64
	Held     bool
}

// Lit reports any light at all.
func (c *Crystal) Lit() bool {
	return c != nil && c.Level > litThreshold
}

// LightGraph is the registry of active crystals. Line of sight is a raycast
// through the query, ignoring crystals and held objects.
type LightGraph struct {
	query    physics.Query
	mask     physics.LayerMask
	crystals []*Crystal
	next     []float64
}

func NewLightGraph(query physics.Query) *LightGraph {
	return &LightGraph{
		query: query,
		mask:  physics.AllLayers.Without(physics.LayerCrystal, physics.LayerHeld, physics.LayerSelf),
	}
}

// Register activates a crystal. Registering twice is a no-op.
func (g *LightGraph) Register(c *Crystal) {
	if c == nil || g.Active(c.ID) != nil {
		return
	}
	g.crystals = append(g.crystals, c)
}

// Unregister removes a crystal by id.
func (g *LightGraph) Unregister(id uint64) {
	for i, c := range g.crystals {
		if c.ID == id {
			g.crystals = append(g.crystals[:i], g.crystals[i+1:]...)
			return
		}
	}
}

// Active returns the registered crystal with id, or nil.
func (g *LightGraph) Active(id uint64) *Crystal {
	for _, c := range g.crystals {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (g *LightGraph) Len() int {
	return len(g.crystals)
}

func (g *LightGraph) visible(from, to mgl64.Vec3) bool {
	if g.query == nil {
		return true
	}
	d := to.Sub(from)
	dist := d.Len()
	if dist < 1e-9 {
		return true
	}
	_, blocked := g.query.Raycast(from, d.Mul(1/dist), dist, g.mask)
	return !blocked
}

// InLineOfSight lists the other active crystals c can see. Held crystals
// see nothing and are seen by nothing.
func (g *LightGraph) InLineOfSight(c *Crystal) []*Crystal {
	if c == nil || c.Held {
		return nil
	}
	var out []*Crystal
	for _, o := range g.crystals {
		if o == c || o.Held {
			continue
		}
		if g.visible(c.Position, o.Position) {
			out = append(out, o)
		}
	}
	return out
}

// Upstream returns the brightest crystal c can see when it is brighter than
// c itself, otherwise nil.
func (g *LightGraph) Upstream(c *Crystal) *Crystal {
	brightest := c
	for _, o := range g.InLineOfSight(c) {
		if o.Level > brightest.Level {
			brightest = o
		}
	}
	if brightest == c {
		return nil
	}
	return brightest
}

// SkyVisible casts straight up from just above the crystal.
func (g *LightGraph) SkyVisible(c *Crystal) bool {
	if g.query == nil {
		return true
	}
	_, blocked := g.query.Raycast(c.Position.Add(common.Up.Mul(skyOffset)), common.Up, skyReach, g.mask)
	return !blocked
}

// Closest returns the active crystal nearest to p.
func (g *LightGraph) Closest(p mgl64.Vec3) *Crystal {
	var best *Crystal
	bestDist := math.Inf(1)
	for _, c := range g.crystals {
		if d := common.Distance(c.Position, p); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Update recomputes every level from the previous levels, so the result
// does not depend on registration order.
func (g *LightGraph) Update() {
	g.next = g.next[:0]
	for _, c := range g.crystals {
		g.next = append(g.next, g.levelFor(c))
	}
	for i, c := range g.crystals {
		c.Level = g.next[i]
	}
}

func (g *LightGraph) levelFor(c *Crystal) float64 {
	switch c.Kind {
	case Sun:
		return FullLight
	case Collector:
		if g.SkyVisible(c) {
			return FullLight
		}
		for _, o := range g.InLineOfSight(c) {
			if o.Kind == Sun {
				return FullLight
			}
		}
		return 0
	case Transmitter:
		for _, o := range g.InLineOfSight(c) {
			if (o.Kind == Collector || o.Kind == Transmitter || o.Kind == Sun) && o.Level >= FullLight {
				return FullLight
			}
		}
		return 0
	case Phosphorescent:
		target := 0.0
		for _, o := range g.InLineOfSight(c) {
			target = math.Max(target, o.Level)
		}
		switch {
		case target > c.Level:
			return math.Min(target, c.Level+PhosphorStep)
		case target < c.Level:
			return math.Max(target, c.Level-PhosphorStep)
		}
		return c.Level
	}
	return c.Level
}
