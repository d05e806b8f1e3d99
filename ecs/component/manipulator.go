package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/nav"
)

// Manipulator moves a hovering held object along a freshly searched path
// every fixed tick.
type Manipulator struct {
	Spacing        float64
	MaxExpansions  int
	TimeToTarget   float64
	Simplify       bool
	CollapseFactor float64
	// RotateStep is the yaw per scroll notch in degrees.
	RotateStep float64

	Held          uint64
	Path          *nav.Path
	Walker        *nav.Walker
	Elapsed       float64
	StartRotation mgl64.Quat
	EndRotation   mgl64.Quat
	Yaw           float64
	Last          nav.Result
	Searches      int
}

// Reset forgets the current path and rotation.
func (m *Manipulator) Reset() {
	m.Held = 0
	m.Path = nil
	m.Walker = nil
	m.Elapsed = 0
	m.Yaw = 0
	m.Last = nav.Result{}
}

var ManipulatorComponent = NewComponent[Manipulator]()
