package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the world-space pose of an entity.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Rot returns the rotation, treating the zero quaternion as identity.
func (t *Transform) Rot() mgl64.Quat {
	if t == nil || t.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

// Forward is the rotated +Z axis.
func (t *Transform) Forward() mgl64.Vec3 {
	return t.Rot().Rotate(mgl64.Vec3{0, 0, 1})
}

var TransformComponent = NewComponent[Transform]()

// Name lets level data and scripts refer to an entity.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
