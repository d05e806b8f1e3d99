package component

import gameplay "github.com/milk9111/lumen/component"

// Inventory is a tetris grid attached to an entity. Grid positions are in
// the entity's local space.
type Inventory struct {
	Grid     *gameplay.Grid
	Contents []uint64
}

// Remove drops item from Contents.
func (i *Inventory) Remove(item uint64) {
	for n, c := range i.Contents {
		if c == item {
			i.Contents = append(i.Contents[:n], i.Contents[n+1:]...)
			return
		}
	}
}

var InventoryComponent = NewComponent[Inventory]()
