package host

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/ecs/system"
	"github.com/milk9111/lumen/physics"
)

const debugScale = 24.0

var layerColors = map[physics.Layer]color.RGBA{
	physics.LayerStatic:    {R: 120, G: 120, B: 120, A: 200},
	physics.LayerHeld:      {R: 80, G: 160, B: 255, A: 220},
	physics.LayerSelf:      {R: 80, G: 160, B: 255, A: 220},
	physics.LayerCrystal:   {R: 255, G: 220, B: 60, A: 220},
	physics.LayerInventory: {R: 160, G: 90, B: 220, A: 200},
	physics.LayerStacked:   {R: 200, G: 120, B: 255, A: 200},
}

// DebugOverlaySystem draws a top-down view of the physics world around the
// player plus a text panel. Update does nothing; it is a Renderer.
type DebugOverlaySystem struct {
	world    *physics.World
	crystals *system.CrystalSystem
}

func NewDebugOverlaySystem(world *physics.World, crystals *system.CrystalSystem) *DebugOverlaySystem {
	return &DebugOverlaySystem{world: world, crystals: crystals}
}

func (s *DebugOverlaySystem) Update(w *ecs.World) {}

func (s *DebugOverlaySystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if s == nil || w == nil || screen == nil {
		return
	}

	center := mgl64.Vec3{}
	player, hasPlayer := ecs.First(w, component.PlayerTagComponent.Kind())
	if hasPlayer {
		if t, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
			center = t.Position
		}
	}
	bounds := screen.Bounds()
	ox := float64(bounds.Dx()) / 2
	oy := float64(bounds.Dy()) / 2
	toScreen := func(x, z float64) (float32, float32) {
		return float32(ox + (x-center.X())*debugScale), float32(oy - (z-center.Z())*debugScale)
	}

	if s.world != nil {
		s.world.Each(func(_ physics.BodyID, box physics.Box, layer physics.Layer, trigger bool) {
			clr, ok := layerColors[layer]
			if !ok {
				clr = color.RGBA{R: 60, G: 200, B: 90, A: 200}
			}
			if trigger {
				clr.A = 90
			}
			bb := gameplay.FootprintOf(box.Center, box.HalfExtents, box.Rotation).BB()
			x, y := toScreen(bb.L, bb.T)
			vector.StrokeRect(screen, x, y, float32((bb.R-bb.L)*debugScale), float32((bb.T-bb.B)*debugScale), 1, clr, false)
		})
	}

	ecs.ForEach(w, component.ManipulatorComponent.Kind(), func(_ ecs.Entity, m *component.Manipulator) {
		if m.Path == nil {
			return
		}
		pts := m.Path.Points()
		for i := 1; i < len(pts); i++ {
			x0, y0 := toScreen(pts[i-1].X(), pts[i-1].Z())
			x1, y1 := toScreen(pts[i].X(), pts[i].Z())
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, color.RGBA{R: 255, G: 120, B: 40, A: 255}, true)
		}
	})

	if hasPlayer {
		x, y := toScreen(center.X(), center.Z())
		vector.DrawFilledRect(screen, x-3, y-3, 6, 6, color.RGBA{R: 255, G: 255, B: 255, A: 255}, false)
	}

	ebitenutil.DebugPrintAt(screen, s.status(w, player, hasPlayer, center), 10, 10)
}

func (s *DebugOverlaySystem) status(w *ecs.World, player ecs.Entity, hasPlayer bool, pos mgl64.Vec3) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %0.1f  ticks: %d\n", ebiten.ActualTPS(), w.Clock().Ticks)
	if !hasPlayer {
		return b.String()
	}
	fmt.Fprintf(&b, "pos: %.2f %.2f %.2f\n", pos.X(), pos.Y(), pos.Z())
	if c, ok := ecs.Get(w, player, component.ChargeComponent.Kind()); ok {
		fmt.Fprintf(&b, "charge: %.2f depleted=%v\n", c.Level, c.Depleted)
	}
	if it, ok := ecs.Get(w, player, component.InteractorComponent.Kind()); ok {
		if it.Holding != 0 {
			fmt.Fprintf(&b, "holding: %s\n", system.EntityName(w, ecs.Entity(it.Holding)))
		} else if it.Target != 0 {
			progress := 0.0
			if p, ok := w.Tasks().Progress(ecs.TaskID(it.Pickup)); ok {
				progress = p
			}
			fmt.Fprintf(&b, "target: %s %.0f%%\n", system.EntityName(w, ecs.Entity(it.Target)), progress*100)
		}
	}
	if m, ok := ecs.Get(w, player, component.ManipulatorComponent.Kind()); ok && m.Held != 0 {
		fmt.Fprintf(&b, "path: %s points=%d expansions=%d\n", m.Last.Reason, len(m.Last.Points), m.Last.Expansions)
	}
	if s.crystals != nil {
		if c := s.crystals.Graph().Closest(pos); c != nil {
			fmt.Fprintf(&b, "crystal: %s %.0f\n", c.Kind, c.Level)
		}
	}
	return b.String()
}
