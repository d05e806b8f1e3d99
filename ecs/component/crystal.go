package component

import gameplay "github.com/milk9111/lumen/component"

// Crystal binds an entity to its node in the light graph. Inactive crystals
// join the graph the first time they are picked up.
type Crystal struct {
	Node   *gameplay.Crystal
	Active bool
	WasLit bool
}

var CrystalComponent = NewComponent[Crystal]()
