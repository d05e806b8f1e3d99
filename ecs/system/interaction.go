package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/common"
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
	"go.uber.org/zap"
)

const (
	defaultPlaceTime = 0.2
	slotSnapDistance = 1.0
	dropReach        = 50.0
	dropPadding      = 0.05
	// clearance shrinks overlap probes so resting on a surface is not a hit.
	clearance = 0.01
)

var quarterTurn = mgl64.QuatRotate(math.Pi/2, common.Up)

// InteractionSystem targets holdables in front of each Interactor, runs the
// hold-to-pickup task and places released items into slots, inventories or
// onto the ground.
type InteractionSystem struct {
	query  physics.Query
	logger *zap.Logger
}

func NewInteractionSystem(query physics.Query, logger *zap.Logger) *InteractionSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InteractionSystem{query: query, logger: logger.Named("interaction")}
}

func (s *InteractionSystem) Update(w *ecs.World) {
	if s == nil || s.query == nil || w == nil {
		return
	}

	ecs.ForEach3(w, component.InteractorComponent.Kind(), component.TransformComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, it *component.Interactor, t *component.Transform, in *component.Input) {
		if it.Holding != 0 {
			item := ecs.Entity(it.Holding)
			if !ecs.IsAlive(w, item) {
				s.detach(w, e, it, item)
				return
			}
			s.carry(w, it, t, in, item)
			if in.InteractPressed {
				s.release(w, e, it, t, in, item)
			}
			return
		}

		it.Target = s.target(w, it, t, in)
		if it.Pickup != 0 || it.Target == 0 || !in.Interact {
			return
		}
		s.startPickup(w, e, it, in)
	})
}

// target returns the holdable the interactor looks at, or zero.
func (s *InteractionSystem) target(w *ecs.World, it *component.Interactor, t *component.Transform, in *component.Input) uint64 {
	hit, ok := s.query.Raycast(it.Eye(t), in.Look(), it.Reach, solidMask)
	if !ok || hit.Collider.Owner == 0 {
		return 0
	}
	h, ok := ecs.Get(w, ecs.Entity(hit.Collider.Owner), component.HoldableComponent.Kind())
	if !ok || h.Held() || h.Placing {
		return 0
	}
	return hit.Collider.Owner
}

func (s *InteractionSystem) startPickup(w *ecs.World, e ecs.Entity, it *component.Interactor, in *component.Input) {
	target := it.Target
	h, ok := ecs.Get(w, ecs.Entity(target), component.HoldableComponent.Kind())
	if !ok {
		return
	}

	hold := &ecs.HoldTask{
		Duration: h.PickupTime,
		Hold: func() bool {
			return in.Interact && it.Target == target && it.Holding == 0
		},
	}
	it.PickupOf = target
	it.Pickup = uint64(w.Tasks().Start(e, hold, func(completed bool) {
		it.Pickup, it.PickupOf = 0, 0
		if completed {
			s.pickUp(w, e, ecs.Entity(target))
		}
	}))
}

// pickUp hands item to holder, taking it out of any slot or inventory.
func (s *InteractionSystem) pickUp(w *ecs.World, holder, item ecs.Entity) {
	it, ok := ecs.Get(w, holder, component.InteractorComponent.Kind())
	if !ok {
		return
	}
	h, ok := ecs.Get(w, item, component.HoldableComponent.Kind())
	if !ok || h.Held() {
		return
	}
	t, ok := ecs.Get(w, item, component.TransformComponent.Kind())
	if !ok {
		return
	}

	if h.Slot != 0 {
		s.leaveSlot(w, holder, item, h)
	}
	if h.Inventory != 0 {
		s.leaveInventory(w, item, h)
	}

	h.Holder = uint64(holder)
	it.Holding = uint64(item)
	it.Target = 0
	setLayer(w, item, physics.LayerHeld)

	if h.Link {
		if m, ok := ecs.Get(w, holder, component.ManipulatorComponent.Kind()); ok {
			m.Reset()
			m.Held = uint64(item)
			m.StartRotation = t.Rot()
			m.EndRotation = t.Rot()
		}
	}

	s.logger.Debug("picked up", zap.String("item", EntityName(w, item)), zap.Bool("link", h.Link))
	w.Bus().Publish(ecs.Event{Type: ecs.EventPickedUp, Data: ecs.ItemEvent{Item: item, Holder: holder}})
}

func (s *InteractionSystem) leaveSlot(w *ecs.World, holder, item ecs.Entity, h *component.Holdable) {
	slotEntity := ecs.Entity(h.Slot)
	h.Slot = 0
	if slot, ok := ecs.Get(w, slotEntity, component.SlotComponent.Kind()); ok && slot.Occupant == uint64(item) {
		slot.Occupant = 0
	}
	w.Bus().Publish(ecs.Event{Type: ecs.EventReleased, Data: ecs.ItemEvent{Item: item, Holder: holder, Slot: slotEntity}})
}

func (s *InteractionSystem) leaveInventory(w *ecs.World, item ecs.Entity, h *component.Holdable) {
	invEntity := ecs.Entity(h.Inventory)
	h.Inventory = 0
	inv, ok := ecs.Get(w, invEntity, component.InventoryComponent.Kind())
	if !ok || inv.Grid == nil {
		return
	}
	inv.Grid.Free(h.Snap.Cells)
	inv.Remove(uint64(item))
	if inv.Grid.Stack {
		inv.Grid.StackBase = false
		if own, ok := ecs.Get(w, item, component.InventoryComponent.Kind()); ok && own.Grid != nil {
			own.Grid.OnStack = false
		}
	}
	h.Snap = gameplay.SnapPosition{}
}

// carry keeps locked items at the hold point. Linked items are moved by the
// manipulation systems.
func (s *InteractionSystem) carry(w *ecs.World, it *component.Interactor, t *component.Transform, in *component.Input, item ecs.Entity) {
	h, ok := ecs.Get(w, item, component.HoldableComponent.Kind())
	if !ok || h.Link {
		return
	}
	if it2, ok := ecs.Get(w, item, component.TransformComponent.Kind()); ok {
		it2.Position = it.HoldPoint(t, in)
		it2.Rotation = in.YawRotation()
	}
}

func (s *InteractionSystem) release(w *ecs.World, holder ecs.Entity, it *component.Interactor, t *component.Transform, in *component.Input, item ecs.Entity) {
	h, ok := ecs.Get(w, item, component.HoldableComponent.Kind())
	if !ok {
		s.detach(w, holder, it, item)
		return
	}
	itemT, ok := ecs.Get(w, item, component.TransformComponent.Kind())
	if !ok {
		s.detach(w, holder, it, item)
		return
	}

	if slotEntity, ok := s.findSlot(w, itemT.Position, h); ok {
		s.placeInSlot(w, holder, it, item, h, itemT, slotEntity)
		return
	}
	if s.placeInInventory(w, holder, it, t, in, item, h, itemT) {
		return
	}
	s.drop(w, holder, it, item, h, itemT)
}

func (s *InteractionSystem) detach(w *ecs.World, holder ecs.Entity, it *component.Interactor, item ecs.Entity) {
	it.Holding = 0
	if h, ok := ecs.Get(w, item, component.HoldableComponent.Kind()); ok {
		h.Holder = 0
	}
	if m, ok := ecs.Get(w, holder, component.ManipulatorComponent.Kind()); ok && m.Held == uint64(item) {
		m.Reset()
	}
}

// findSlot returns the nearest free slot accepting h within snap distance.
func (s *InteractionSystem) findSlot(w *ecs.World, p mgl64.Vec3, h *component.Holdable) (ecs.Entity, bool) {
	var best ecs.Entity
	bestDist := slotSnapDistance
	found := false
	ecs.ForEach2(w, component.SlotComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, slot *component.Slot, st *component.Transform) {
		if !slot.Allows(h.Identifier) {
			return
		}
		d := common.Distance(slotPosition(slot, st), p)
		if d <= bestDist {
			best, bestDist, found = e, d, true
		}
	})
	return best, found
}

func slotPosition(slot *component.Slot, st *component.Transform) mgl64.Vec3 {
	return st.Position.Add(st.Rot().Rotate(slot.Offset))
}

func (s *InteractionSystem) placeInSlot(w *ecs.World, holder ecs.Entity, it *component.Interactor, item ecs.Entity, h *component.Holdable, itemT *component.Transform, slotEntity ecs.Entity) {
	slot, _ := ecs.Get(w, slotEntity, component.SlotComponent.Kind())
	st, _ := ecs.Get(w, slotEntity, component.TransformComponent.Kind())

	rotation := itemT.Rot()
	if slot.UseRotation {
		rotation = st.Rot().Mul(slot.Rotation)
	}
	slot.Occupant = uint64(item)
	h.Slot = uint64(slotEntity)
	s.detach(w, holder, it, item)

	s.settle(w, it, item, h, itemT, slotPosition(slot, st), rotation, func() {
		w.Bus().Publish(ecs.Event{Type: ecs.EventPlaced, Data: ecs.ItemEvent{Item: item, Holder: holder, Slot: slotEntity}})
	})
	s.logger.Debug("placed in slot", zap.String("item", EntityName(w, item)), zap.String("slot", EntityName(w, slotEntity)))
}

// placeInInventory snaps the item into the inventory the interactor looks
// at. It reports false when there is no inventory or no room.
func (s *InteractionSystem) placeInInventory(w *ecs.World, holder ecs.Entity, it *component.Interactor, t *component.Transform, in *component.Input, item ecs.Entity, h *component.Holdable, itemT *component.Transform) bool {
	hit, ok := s.query.Raycast(it.Eye(t), in.Look(), it.Reach, solidMask)
	if !ok || hit.Collider.Owner == 0 {
		return false
	}
	invEntity := ecs.Entity(hit.Collider.Owner)
	if invEntity == item {
		return false
	}
	inv, ok := ecs.Get(w, invEntity, component.InventoryComponent.Kind())
	if !ok || inv.Grid == nil {
		return false
	}
	invT, ok := ecs.Get(w, invEntity, component.TransformComponent.Kind())
	if !ok {
		return false
	}

	var own *component.Inventory
	if inv.Grid.Stack {
		own, ok = ecs.Get(w, item, component.InventoryComponent.Kind())
		if !ok || !inv.Grid.Accepts(own.Grid) {
			return false
		}
	}

	local := hit.Point.Sub(invT.Position)
	rotation := itemT.Rot()
	f := gameplay.FootprintOf(local, h.HalfExtents, rotation)
	snap, ok := inv.Grid.Closest(local, f)
	if !ok {
		rotation = rotation.Mul(quarterTurn)
		f = gameplay.FootprintOf(local, h.HalfExtents, rotation)
		if snap, ok = inv.Grid.Closest(local, f); !ok {
			return false
		}
	}

	inv.Grid.Apply(snap.Cells)
	inv.Contents = append(inv.Contents, uint64(item))
	h.Inventory = uint64(invEntity)
	h.Snap = snap
	layer := physics.LayerInventory
	if inv.Grid.Stack {
		inv.Grid.StackBase = true
		own.Grid.OnStack = true
		layer = physics.LayerStacked
	}
	s.detach(w, holder, it, item)

	target := invT.Position.Add(snap.Position).Add(common.Up.Mul(f.FromGround))
	s.settleOn(w, it, item, h, itemT, target, rotation, layer, nil)
	s.logger.Debug("stored", zap.String("item", EntityName(w, item)), zap.Int("cellX", snap.Cells.X), zap.Int("cellZ", snap.Cells.Z))
	return true
}

// drop lowers the item onto the static surface below it. A blocked spot is
// retried beside the blocking holdable; otherwise the item stays held.
func (s *InteractionSystem) drop(w *ecs.World, holder ecs.Entity, it *component.Interactor, item ecs.Entity, h *component.Holdable, itemT *component.Transform) bool {
	hit, ok := s.query.Raycast(itemT.Position, common.Down, dropReach, physics.MaskOf(physics.LayerStatic))
	if !ok {
		s.logger.Debug("drop refused: no surface", zap.String("item", EntityName(w, item)))
		return false
	}

	rotation := itemT.Rot()
	f := h.Footprint(itemT)
	target := f.WorldPosition(hit.Point.Y())
	blockers := s.overlapping(target, h.HalfExtents, rotation)
	if len(blockers) > 0 {
		aligned, ok := s.besideBlocker(w, blockers, f, itemT.Position)
		if !ok {
			s.logger.Debug("drop refused: blocked", zap.String("item", EntityName(w, item)))
			return false
		}
		rotation = rotation.Mul(aligned.Rotation())
		target = aligned.WorldPosition(hit.Point.Y())
		if len(s.overlapping(target, h.HalfExtents, rotation)) > 0 {
			s.logger.Debug("drop refused: no room beside blocker", zap.String("item", EntityName(w, item)))
			return false
		}
	}

	s.detach(w, holder, it, item)
	s.settle(w, it, item, h, itemT, target, rotation, nil)
	w.Bus().Publish(ecs.Event{Type: ecs.EventDropped, Data: ecs.ItemEvent{Item: item, Holder: holder}})
	return true
}

func (s *InteractionSystem) overlapping(center, halfExtents mgl64.Vec3, rotation mgl64.Quat) []physics.Collider {
	probe := halfExtents.Sub(mgl64.Vec3{clearance, clearance, clearance})
	return s.query.OverlapBox(center, probe, rotation, solidMask)
}

// besideBlocker aligns f against the side of the first blocking holdable
// facing from.
func (s *InteractionSystem) besideBlocker(w *ecs.World, blockers []physics.Collider, f gameplay.Footprint, from mgl64.Vec3) (gameplay.Footprint, bool) {
	for _, b := range blockers {
		if b.Owner == 0 {
			continue
		}
		bh, ok := ecs.Get(w, ecs.Entity(b.Owner), component.HoldableComponent.Kind())
		if !ok {
			continue
		}
		bt, ok := ecs.Get(w, ecs.Entity(b.Owner), component.TransformComponent.Kind())
		if !ok {
			continue
		}
		datum := bh.Footprint(bt)
		f.AlignCenterOn(datum, facingSide(bt.Position, from), dropPadding)
		return f, true
	}
	return f, false
}

// facingSide is the side of a footprint centered at center that faces p.
func facingSide(center, p mgl64.Vec3) gameplay.Side {
	dx := p.X() - center.X()
	dz := p.Z() - center.Z()
	if math.Abs(dz) >= math.Abs(dx) {
		if dz >= 0 {
			return gameplay.North
		}
		return gameplay.South
	}
	if dx >= 0 {
		return gameplay.East
	}
	return gameplay.West
}

// settle lerps the item into place and restores its resting layer.
func (s *InteractionSystem) settle(w *ecs.World, it *component.Interactor, item ecs.Entity, h *component.Holdable, itemT *component.Transform, to mgl64.Vec3, rotation mgl64.Quat, done func()) {
	s.settleOn(w, it, item, h, itemT, to, rotation, h.RestLayer, done)
}

func (s *InteractionSystem) settleOn(w *ecs.World, it *component.Interactor, item ecs.Entity, h *component.Holdable, itemT *component.Transform, to mgl64.Vec3, rotation mgl64.Quat, layer physics.Layer, done func()) {
	duration := it.PlaceTime
	if duration <= 0 {
		duration = defaultPlaceTime
	}
	from := itemT.Rot()
	lerp := &ecs.LerpTask{
		From:     itemT.Position,
		To:       to,
		Duration: duration,
	}
	lerp.Apply = func(p mgl64.Vec3) {
		itemT.Position = p
		itemT.Rotation = mgl64.QuatSlerp(from, rotation, lerp.Progress())
	}

	h.Placing = true
	w.Tasks().Start(item, lerp, func(completed bool) {
		h.Placing = false
		itemT.Position = to
		itemT.Rotation = rotation
		setLayer(w, item, layer)
		if completed && done != nil {
			done()
		}
	})
}
