package main

import (
	"context"
	"go/build"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/nav"
	"github.com/milk9111/lumen/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/milk9111/lumen"

func openRequest() nav.Request {
	return nav.Request{
		Start:         mgl64.Vec3{0, 1, 0},
		Goal:          mgl64.Vec3{0, 1, 3},
		MaxExpansions: 200,
		Spacing:       0.5,
		HalfExtents:   mgl64.Vec3{0.2, 0.2, 0.2},
		Rotation:      mgl64.QuatIdent(),
		Simplify:      true,
	}
}

func TestBenchCountsCompletedRuns(t *testing.T) {
	b := bench(context.Background(), physics.NewWorld(), openRequest(), 3)

	assert.Equal(t, 3, b.runs)
	assert.Equal(t, nav.ReasonGoalReached, b.last.Reason)
	assert.Equal(t, b.total/3, b.mean())
}

func TestBenchStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := bench(ctx, physics.NewWorld(), openRequest(), 5)

	assert.Zero(t, b.runs)
	assert.Zero(t, b.mean())
}

func TestLoadPhysicsSandbox(t *testing.T) {
	w, err := loadPhysics("sandbox.yaml")
	require.NoError(t, err)
	assert.Positive(t, w.Len())
}

// The bench must build on machines without a display stack, so nothing it
// reaches inside this module may import ebiten.
func TestNoDisplayDependencies(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	seen := map[string]bool{}
	var walk func(dir, path string)
	walk = func(dir, path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		pkg, err := build.ImportDir(dir, 0)
		require.NoError(t, err, path)
		for _, imp := range pkg.Imports {
			require.False(t, strings.HasPrefix(imp, "github.com/hajimehoshi/ebiten"), "%s imports %s", path, imp)
			if rel, ok := strings.CutPrefix(imp, modulePath+"/"); ok {
				walk(filepath.Join(root, filepath.FromSlash(rel)), imp)
			}
		}
	}
	walk(".", modulePath+"/cmd/pathbench")

	for _, pkg := range []string{"nav", "physics", "ecs", "ecs/system", "ecs/entity"} {
		assert.True(t, seen[modulePath+"/"+pkg], "%s not reached", pkg)
	}
}
