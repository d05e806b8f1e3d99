package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/lumen/common"
)

// SnapCutoff is the furthest a snap position may be from the requested point.
const SnapCutoff = 10.0

// CellRect is a block of inventory cells.
type CellRect struct {
	X, Z          int
	Width, Height int
}

// SnapPosition is a free block of cells and its center in the inventory's
// local space.
type SnapPosition struct {
	Cells    CellRect
	Position mgl64.Vec3
}

// Grid is a tetris-style inventory: a cellsX by cellsZ occupancy grid laid
// over a rectangular area.
type Grid struct {
	cellsX, cellsZ int
	cells          []bool
	unitX, unitZ   float64
	origin         mgl64.Vec3

	// Stack grids accept a single 1x1 item whose own grid has the same
	// signature.
	Stack     bool
	Signature string
	OnStack   bool
	StackBase bool
}

// NewGrid spans area (a ground rectangle in local space) at baseHeight.
// Non-positive cell counts are raised to one. An area without positive
// width and depth gives a grid nothing fits in.
func NewGrid(cellsX, cellsZ int, area cp.BB, baseHeight float64) *Grid {
	if cellsX < 1 {
		cellsX = 1
	}
	if cellsZ < 1 {
		cellsZ = 1
	}
	return &Grid{
		cellsX: cellsX,
		cellsZ: cellsZ,
		cells:  make([]bool, cellsX*cellsZ),
		unitX:  (area.R - area.L) / float64(cellsX),
		unitZ:  (area.T - area.B) / float64(cellsZ),
		origin: mgl64.Vec3{area.L, baseHeight, area.B},
	}
}

func (g *Grid) Size() (int, int) {
	return g.cellsX, g.cellsZ
}

// Occupied reports a single cell; cells outside the grid count as occupied.
func (g *Grid) Occupied(x, z int) bool {
	if x < 0 || z < 0 || x >= g.cellsX || z >= g.cellsZ {
		return true
	}
	return g.cells[x*g.cellsZ+z]
}

// CellFootprint returns the block of cells a footprint needs. Stack grids
// always use a single cell.
func (g *Grid) CellFootprint(f Footprint) CellRect {
	if g.Stack {
		return CellRect{Width: 1, Height: 1}
	}
	return CellRect{
		Width:  cellSpan(f.Width, g.unitX, g.cellsX),
		Height: cellSpan(f.Depth, g.unitZ, g.cellsZ),
	}
}

// cellSpan is how many cells of size unit a length covers. Anything that
// cannot be measured against unit spans more than the grid's cells.
func cellSpan(length, unit float64, cells int) int {
	n := length / unit
	if !(unit > 0) || math.IsNaN(n) || n >= float64(cells) {
		return cells + 1
	}
	if n < 0 {
		n = 0
	}
	return int(n) + 1
}

// RectCenter is the local-space center of a block of cells.
func (g *Grid) RectCenter(r CellRect) mgl64.Vec3 {
	x := float64(r.X) * g.unitX
	z := float64(r.Z) * g.unitZ
	w := float64(r.Width) * g.unitX
	h := float64(r.Height) * g.unitZ
	return g.origin.Add(mgl64.Vec3{x + w/2, 0, z + h/2})
}

// IsFree reports whether every cell of r is free. Blocks reaching outside
// the grid are never free.
func (g *Grid) IsFree(r CellRect) bool {
	if r.Width < 1 || r.Height < 1 || r.X < 0 || r.Z < 0 || r.X+r.Width > g.cellsX || r.Z+r.Height > g.cellsZ {
		return false
	}
	for x := r.X; x < r.X+r.Width; x++ {
		for z := r.Z; z < r.Z+r.Height; z++ {
			if g.cells[x*g.cellsZ+z] {
				return false
			}
		}
	}
	return true
}

// FreePositions lists every position the footprint fits, scanning X then Z.
func (g *Grid) FreePositions(f Footprint) []SnapPosition {
	block := g.CellFootprint(f)
	var out []SnapPosition
	for x := 0; x < g.cellsX; x++ {
		for z := 0; z < g.cellsZ; z++ {
			block.X, block.Z = x, z
			if g.IsFree(block) {
				out = append(out, SnapPosition{Cells: block, Position: g.RectCenter(block)})
			}
		}
	}
	return out
}

// Apply marks the block occupied. Cells outside the grid are skipped.
func (g *Grid) Apply(r CellRect) {
	g.fill(r, true)
}

// Free marks the block free.
func (g *Grid) Free(r CellRect) {
	g.fill(r, false)
}

func (g *Grid) fill(r CellRect, v bool) {
	for x := r.X; x < r.X+r.Width; x++ {
		for z := r.Z; z < r.Z+r.Height; z++ {
			if x < 0 || z < 0 || x >= g.cellsX || z >= g.cellsZ {
				continue
			}
			g.cells[x*g.cellsZ+z] = v
		}
	}
}

// Closest returns the free position for f nearest to local, ignoring any
// further than SnapCutoff.
func (g *Grid) Closest(local mgl64.Vec3, f Footprint) (SnapPosition, bool) {
	best := SnapPosition{}
	bestDist := SnapCutoff
	found := false
	for _, sp := range g.FreePositions(f) {
		if d := common.Distance(sp.Position, local); d < bestDist {
			best, bestDist, found = sp, d, true
		}
	}
	return best, found
}

// Accepts reports whether a stack grid can take an item carrying other as
// its own grid. Plain grids accept anything.
func (g *Grid) Accepts(other *Grid) bool {
	if !g.Stack {
		return true
	}
	if other == nil || !other.Stack {
		return false
	}
	return !g.OnStack && !other.StackBase && other.Signature == g.Signature
}
