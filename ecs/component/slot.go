package component

import "github.com/go-gl/mathgl/mgl64"

// SlotActionKind selects what a slot does when an item is placed.
type SlotActionKind string

const (
	SlotActionNone   SlotActionKind = ""
	SlotActionMove   SlotActionKind = "move"
	SlotActionScript SlotActionKind = "script"
)

// SlotAction runs once an accepted item is placed. Require, when set, must
// equal the item's AdditionalInfo.
type SlotAction struct {
	Kind     SlotActionKind
	Require  string
	Target   string
	Offset   mgl64.Vec3
	Duration float64
	Script   string
	Once     bool

	Fired bool
}

// Slot accepts items by identifier and snaps them to Offset.
type Slot struct {
	Accepts     []string
	Offset      mgl64.Vec3
	UseRotation bool
	Rotation    mgl64.Quat
	Action      SlotAction

	Occupant     uint64
	Subscription uint64
}

// Allows reports whether an item with identifier fits an empty slot. The
// identifier must be listed in Accepts; an empty list takes nothing.
func (s *Slot) Allows(identifier string) bool {
	if s == nil || s.Occupant != 0 {
		return false
	}
	for _, a := range s.Accepts {
		if a == identifier {
			return true
		}
	}
	return false
}

var SlotComponent = NewComponent[Slot]()
