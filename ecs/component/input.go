package component

// Input stores per-frame input state for an entity.
type Input struct {
	// MoveX strafes, MoveZ moves forward; both in [-1, 1].
	MoveX float64
	MoveZ float64
	// Yaw and Pitch are the look angles in radians.
	Yaw   float64
	Pitch float64
	// Scroll is the number of rotate notches this frame.
	Scroll float64

	Interact        bool
	InteractPressed bool
}

var InputComponent = NewComponent[Input]()
