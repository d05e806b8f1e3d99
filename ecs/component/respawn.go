package component

import "github.com/go-gl/mathgl/mgl64"

// Respawn brings a depleted entity back at Point after Delay seconds.
type Respawn struct {
	Point mgl64.Vec3
	Delay float64

	Elapsed float64
}

var RespawnComponent = NewComponent[Respawn]()
