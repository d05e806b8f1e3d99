package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/lumen/ecs"
)

// Renderer is a scheduled system that also draws each frame.
type Renderer interface {
	Draw(w *ecs.World, screen *ebiten.Image)
}

// Draw calls every Renderer among the scheduler's systems, in scheduler order.
func Draw(s *ecs.Scheduler, w *ecs.World, screen *ebiten.Image) {
	if s == nil || w == nil || screen == nil {
		return
	}
	for _, sys := range s.Systems() {
		if r, ok := sys.(Renderer); ok && r != nil {
			r.Draw(w, screen)
		}
	}
}
