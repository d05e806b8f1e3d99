// Command pathbench runs pathfinding searches against a level headlessly and
// reports route quality and timing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/entity"
	"github.com/milk9111/lumen/ecs/system"
	"github.com/milk9111/lumen/levels"
	"github.com/milk9111/lumen/nav"
	"github.com/milk9111/lumen/physics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type vecFlag struct {
	v mgl64.Vec3
}

func (f *vecFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", f.v[0], f.v[1], f.v[2])
}

func (f *vecFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		f.v[i] = n
	}
	return nil
}

func main() {
	from := &vecFlag{v: mgl64.Vec3{0, 1, 0}}
	to := &vecFlag{v: mgl64.Vec3{0, 1, 5}}
	half := &vecFlag{v: mgl64.Vec3{0.25, 0.25, 0.25}}

	levelName := flag.String("level", "sandbox.yaml", "level in levels/")
	flag.Var(from, "from", "start point x,y,z")
	flag.Var(to, "to", "goal point x,y,z")
	flag.Var(half, "half", "half extents of the moved box x,y,z")
	spacing := flag.Float64("spacing", 0.25, "grid spacing")
	budget := flag.Int("budget", 2000, "maximum node expansions")
	simplify := flag.Bool("simplify", true, "collapse collinear nodes")
	runs := flag.Int("runs", 1, "number of searches")
	metricsAddr := flag.String("metrics", "", "serve /metrics on this address and wait for a signal")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, err := common.NewLogger(common.LogConfig{Level: *logLevel})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world, err := loadPhysics(*levelName)
	if err != nil {
		logger.Fatal("load level", zap.String("level", *levelName), zap.Error(err))
	}
	logger.Info("level loaded", zap.String("level", *levelName), zap.Int("bodies", world.Len()))

	req := nav.Request{
		Start:         from.v,
		Goal:          to.v,
		MaxExpansions: *budget,
		Spacing:       *spacing,
		HalfExtents:   half.v,
		Rotation:      mgl64.QuatIdent(),
		Simplify:      *simplify,
	}

	b := bench(ctx, world, req, *runs)
	if b.runs > 0 {
		res := b.last
		logger.Info("search finished",
			zap.Stringer("reason", res.Reason),
			zap.Bool("complete", res.Complete),
			zap.Int("expansions", res.Expansions),
			zap.Int("nodes", res.Nodes),
			zap.Int("points", len(res.Points)),
			zap.Float64("length", nav.NewPath(res.Points).TotalLength()),
			zap.Int("runs", b.runs),
			zap.Duration("mean", b.mean()),
		)
		for _, p := range res.Points {
			fmt.Printf("%.3f,%.3f,%.3f\n", p[0], p[1], p[2])
		}
	}

	if *metricsAddr == "" {
		return
	}
	if err := serveMetrics(ctx, *metricsAddr, logger); err != nil {
		logger.Fatal("metrics server", zap.Error(err))
	}
}

type benchResult struct {
	last  nav.Result
	runs  int
	total time.Duration
}

func (b benchResult) mean() time.Duration {
	if b.runs == 0 {
		return 0
	}
	return b.total / time.Duration(b.runs)
}

// bench repeats the search up to runs times. Searches cut short by ctx are
// not counted.
func bench(ctx context.Context, q physics.Query, req nav.Request, runs int) benchResult {
	var b benchResult
	for i := 0; i < runs && ctx.Err() == nil; i++ {
		start := time.Now()
		res := nav.Pathfind(ctx, q, req)
		elapsed := time.Since(start)
		if res.Reason == nav.ReasonCancelled {
			break
		}
		b.last = res
		b.runs++
		b.total += elapsed
	}
	return b
}

// loadPhysics builds the level into a world and returns its synced colliders.
func loadPhysics(name string) (*physics.World, error) {
	lvl, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return nil, err
	}
	w := ecs.NewWorld()
	if _, err := entity.LoadLevelToWorld(w, lvl); err != nil {
		return nil, err
	}
	pw := physics.NewWorld()
	system.NewColliderSyncSystem(pw).Update(w)
	return pw, nil
}

func serveMetrics(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("serving metrics", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
