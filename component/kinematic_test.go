package component

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/physics"
	"github.com/stretchr/testify/assert"
)

func wallWorld() *physics.World {
	w := physics.NewWorld()
	w.Add(physics.NewAABB(mgl64.Vec3{1, -5, -5}, mgl64.Vec3{3, 5, 5}), physics.LayerStatic)
	return w
}

func floorWorld() *physics.World {
	w := physics.NewWorld()
	w.Add(physics.NewAABB(mgl64.Vec3{-50, -1, -50}, mgl64.Vec3{50, 0, 50}), physics.LayerStatic)
	return w
}

func slopeWorld(degrees float64) *physics.World {
	rot := mgl64.QuatRotate(mgl64.DegToRad(degrees), mgl64.Vec3{0, 0, 1})
	normal := rot.Rotate(mgl64.Vec3{0, 1, 0})
	w := physics.NewWorld()
	w.Add(physics.Box{Center: normal.Mul(-1), HalfExtents: mgl64.Vec3{10, 1, 10}, Rotation: rot}, physics.LayerStatic)
	return w
}

func assertVecInDelta(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestResolveMovementWithoutObstacles(t *testing.T) {
	m := NewMover(physics.NewWorld(), 0.5)

	for _, v := range []mgl64.Vec3{{1, 0, 0}, {0.3, -2, 7}, {0, 0, 0}, {-1e-4, 1e-4, 0}} {
		if got := m.ResolveMovement(v, mgl64.Vec3{4, 5, 6}); got != v {
			t.Fatalf("ResolveMovement(%v) = %v, want exact", v, got)
		}
	}
}

func TestResolveMovementBelowSkinIntoWall(t *testing.T) {
	m := NewMover(wallWorld(), 0.5)

	got := m.ResolveMovement(mgl64.Vec3{0.01, 0, 0}, mgl64.Vec3{0.49, 0, 0})
	assertVecInDelta(t, mgl64.Vec3{}, got, 1e-9)
}

func TestResolveMovementHeadOnWall(t *testing.T) {
	m := NewMover(wallWorld(), 0.5)

	got := m.ResolveMovement(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
	assertVecInDelta(t, mgl64.Vec3{0.5 - DefaultSkinWidth, 0, 0}, got, 1e-9)
}

func TestResolveMovementSlidesAlongWall(t *testing.T) {
	m := NewMover(wallWorld(), 0.5)

	got := m.ResolveMovement(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{})
	snap := (0.5*math.Sqrt2 - DefaultSkinWidth) / math.Sqrt2

	assert.Less(t, got.X(), 0.5, "never reaches the wall")
	assert.InDelta(t, snap, got.X(), 1e-9)
	assert.Greater(t, got.Z(), snap, "leftover slides along the wall")
	assert.Less(t, got.Z(), 1.0, "grazing slide is scaled down")
	assert.InDelta(t, 0, got.Y(), 1e-9)
}

func TestResolveGravityStopsOnWalkableGround(t *testing.T) {
	m := NewMover(floorWorld(), 0.5)

	got := m.ResolveGravity(mgl64.Vec3{0, -2, 0}, mgl64.Vec3{0, 1, 0})
	assertVecInDelta(t, mgl64.Vec3{0, -0.5 + DefaultSkinWidth, 0}, got, 1e-9)
}

func TestResolveGravityOnSlopes(t *testing.T) {
	tests := []struct {
		name    string
		degrees float64
		slides  bool
	}{
		{"gentle slope holds", 30, false},
		{"steep slope slides", 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := slopeWorld(tt.degrees)
			normal := mgl64.QuatRotate(mgl64.DegToRad(tt.degrees), mgl64.Vec3{0, 0, 1}).Rotate(mgl64.Vec3{0, 1, 0})
			m := NewMover(w, 0.5)

			got := m.ResolveGravity(mgl64.Vec3{0, -1, 0}, normal.Mul(0.6))
			if tt.slides {
				assert.Less(t, got.X(), -0.1)
			} else {
				assert.InDelta(t, 0, got.X(), 1e-9)
				assert.Less(t, got.Y(), 0.0)
			}
		})
	}
}

func TestStepWalksThenFalls(t *testing.T) {
	m := NewMover(floorWorld(), 0.5)

	got := m.Step(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0.6, 0}, mgl64.Vec3{0, -1, 0})
	assertVecInDelta(t, mgl64.Vec3{1, 0.5 + DefaultSkinWidth, 0}, got, 1e-9)
}

func TestMoverIgnoresSelfLayer(t *testing.T) {
	w := physics.NewWorld()
	w.Add(physics.NewAABB(mgl64.Vec3{1, -5, -5}, mgl64.Vec3{3, 5, 5}), physics.LayerSelf)
	w.Add(physics.NewAABB(mgl64.Vec3{1, -5, -5}, mgl64.Vec3{3, 5, 5}), physics.LayerHeld)
	m := NewMover(w, 0.5)

	v := mgl64.Vec3{2, 0, 0}
	assert.Equal(t, v, m.ResolveMovement(v, mgl64.Vec3{}))
}
