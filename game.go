package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/ecs/entity"
	"github.com/milk9111/lumen/ecs/system"
	"github.com/milk9111/lumen/host"
	"github.com/milk9111/lumen/levels"
	"github.com/milk9111/lumen/physics"
	"github.com/milk9111/lumen/prefabs"
	"go.uber.org/zap"
)

// Game hosts one level: the ECS world, its physics world and the scheduler
// driving every system.
type Game struct {
	ctx    context.Context
	spec   *prefabs.GameSpec
	logger *zap.Logger

	world     *ecs.World
	physics   *physics.World
	scheduler *ecs.Scheduler
	slots     *system.SlotActionSystem
	player    ecs.Entity

	watcher *prefabs.Watcher
	paused  bool
	reload  bool
	quit    bool
}

func NewGame(ctx context.Context, spec *prefabs.GameSpec, logger *zap.Logger) (*Game, error) {
	g := &Game{ctx: ctx, spec: spec, logger: logger}
	if err := g.load(); err != nil {
		return nil, err
	}

	if spec.HotReload {
		w, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			logger.Warn("hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load builds a fresh world from the level named in the spec.
func (g *Game) load() error {
	lvl, err := levels.LoadLevelFromFS(g.spec.Level)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	w := ecs.NewWorld()
	w.SetLogger(g.logger)
	player, err := entity.LoadLevelToWorld(w, lvl)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if !player.Valid() {
		return fmt.Errorf("game: level %q has no player", g.spec.Level)
	}

	pw := physics.NewWorld()
	crystals := system.NewCrystalSystem(pw, g.logger)
	slots := system.NewSlotActionSystem(g.logger)

	s := ecs.NewScheduler(g.spec.TickRate)
	s.AddFixed(
		system.NewColliderSyncSystem(pw),
		system.NewKinematicSystem(pw),
		system.NewManipulationSystem(g.ctx, pw, g.logger),
		crystals,
		system.NewChargeSystem(g.logger),
		system.NewRespawnSystem(g.logger),
	)
	s.AddFrame(
		host.NewInputSystem(),
		system.NewKinematicInputSystem(),
		slots,
		system.NewInteractionSystem(pw, g.logger),
		system.NewTaskSystem(),
		system.NewManipulationAnimator(),
		system.NewKinematicInterpolationSystem(),
	)
	if g.spec.Debug {
		s.AddFrame(host.NewDebugOverlaySystem(pw, crystals))
	}

	w.Bus().Subscribe(player, "", func(evt ecs.Event) {
		g.logger.Debug("event", zap.String("type", evt.Type))
	})

	g.world, g.physics, g.scheduler, g.slots, g.player = w, pw, s, slots, player
	g.logger.Info("level loaded", zap.String("level", g.spec.Level), zap.Int("entities", len(ecs.Entities(w))))
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.world.Clock().Paused = paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	g.scheduler.Resume()
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

func (g *Game) Update() error {
	if g.quit || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	g.drainWatcher()

	if g.reload {
		g.reload = false
		if err := g.load(); err != nil {
			g.logger.Error("reload level", zap.Error(err))
		}
		g.setPaused(false)
	}

	if g.paused {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			g.reload = true
		case inpututil.IsKeyJustPressed(ebiten.KeyQ):
			g.quit = true
		}
		return nil
	}
	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			switch change.Kind {
			case prefabs.ChangeScript:
				g.slots.Reload()
				g.logger.Info("scripts reloaded", zap.String("file", change.Path))
			case prefabs.ChangePrefab:
				g.logger.Info("prefab changed, reloading level", zap.String("file", change.Path))
				g.reload = true
			}
		case err, ok := <-g.watcher.Errors:
			if ok && err != nil {
				g.logger.Warn("watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	host.Draw(g.scheduler, g.world, screen)

	status := fmt.Sprintf("FPS %.0f", ebiten.ActualFPS())
	if c, ok := ecs.Get(g.world, g.player, component.ChargeComponent.Kind()); ok {
		status += fmt.Sprintf("  charge %.2f", c.Level)
		if c.Depleted {
			status += "  (out of light)"
		}
	}
	ebitenutil.DebugPrintAt(screen, status, 8, g.spec.Height-20)

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "paused  [esc] resume  [r] reload level  [q] quit", 8, g.spec.Height/2)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.spec.Width, g.spec.Height
}

func (g *Game) Close() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Close(); err != nil {
		g.logger.Warn("close watcher", zap.Error(err))
	}
}
