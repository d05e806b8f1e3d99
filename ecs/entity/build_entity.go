package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	gameplay "github.com/milk9111/lumen/component"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/physics"
	"github.com/milk9111/lumen/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":      addPlayerTag,
	"sky_anchor_tag":  addSkyAnchorTag,
	"input":           addInput,
	"transform":       addTransform,
	"collider":        addCollider,
	"kinematic_actor": addKinematicActor,
	"interactor":      addInteractor,
	"manipulator":     addManipulator,
	"charge":          addCharge,
	"respawn":         addRespawn,
	"holdable":        addHoldable,
	"crystal":         addCrystal,
	"slot":            addSlot,
	"inventory":       addInventory,
}

// componentBuildOrder lists components that read others at build time after
// the ones they read.
var componentBuildOrder = []string{
	"player_tag",
	"sky_anchor_tag",
	"input",
	"transform",
	"collider",
	"kinematic_actor",
	"interactor",
	"manipulator",
	"charge",
	"respawn",
	"holdable",
	"crystal",
	"slot",
	"inventory",
}

// BuildEntity creates an entity from the prefab at prefabPath. A failed
// build leaves no entity behind.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec is BuildEntity for an already decoded prefab.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return buildRank(names[i]) < buildRank(names[j]) })

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}
	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	return e, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

// SetEntityTransform places e, moving kinematic bodies without
// interpolation and updating their respawn point.
func SetEntityTransform(w *ecs.World, e ecs.Entity, pos mgl64.Vec3, yawDeg float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = pos
	t.Rotation = yawQuat(yawDeg)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), t); err != nil {
		return err
	}
	if k, ok := ecs.Get(w, e, component.KinematicActorComponent.Kind()); ok {
		k.Place(pos)
	}
	if r, ok := ecs.Get(w, e, component.RespawnComponent.Kind()); ok {
		r.Point = pos
	}
	return nil
}

func vec(v prefabs.Vec3Spec) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func yawQuat(deg float64) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(deg), mgl64.Vec3{0, 1, 0})
}

func positive(v mgl64.Vec3) bool {
	return v.X() > 0 && v.Y() > 0 && v.Z() > 0
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addSkyAnchorTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SkyAnchorTagComponent.Kind(), &component.SkyAnchorTag{})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: vec(spec.Position),
		Rotation: yawQuat(spec.Yaw),
	})
}

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ColliderComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	half := vec(spec.HalfExtents)
	if !positive(half) {
		return fmt.Errorf("collider half_extents must be positive, got %v", spec.HalfExtents)
	}
	layer, ok := physics.ParseLayer(spec.Layer)
	if !ok {
		return fmt.Errorf("unknown collider layer %q", spec.Layer)
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		HalfExtents: half,
		Layer:       layer,
		Trigger:     spec.Trigger,
	})
}

func addKinematicActor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.KinematicActorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode kinematic_actor spec: %w", err)
	}
	if spec.Radius <= 0 {
		return fmt.Errorf("kinematic_actor radius must be positive")
	}
	k := &component.KinematicActor{
		Radius:    spec.Radius,
		Height:    spec.Height,
		Speed:     spec.Speed,
		SkinWidth: spec.SkinWidth,
		MaxSlope:  spec.MaxSlope,
		Gravity:   spec.Gravity,
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		k.Place(t.Position)
	}
	return ecs.Add(w, e, component.KinematicActorComponent.Kind(), k)
}

func addInteractor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.InteractorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode interactor spec: %w", err)
	}
	return ecs.Add(w, e, component.InteractorComponent.Kind(), &component.Interactor{
		Reach:        spec.Reach,
		EyeHeight:    spec.EyeHeight,
		HoldDistance: spec.HoldDistance,
		PlaceTime:    spec.PlaceTime,
	})
}

func addManipulator(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ManipulatorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode manipulator spec: %w", err)
	}
	return ecs.Add(w, e, component.ManipulatorComponent.Kind(), &component.Manipulator{
		Spacing:        spec.Spacing,
		MaxExpansions:  spec.MaxExpansions,
		TimeToTarget:   spec.TimeToTarget,
		Simplify:       spec.Simplify,
		CollapseFactor: spec.CollapseFactor,
		RotateStep:     spec.RotateStep,
	})
}

func addCharge(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ChargeComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode charge spec: %w", err)
	}
	if spec.ChargeRate < 0 || spec.DischargeRate < 0 {
		return fmt.Errorf("charge rates must not be negative")
	}
	return ecs.Add(w, e, component.ChargeComponent.Kind(), &component.Charge{
		Charge:            *gameplay.NewCharge(spec.ChargeRate, spec.DischargeRate),
		ChargeDistance:    spec.ChargeDistance,
		SkyAnchorDistance: spec.SkyAnchorDistance,
	})
}

func addRespawn(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RespawnComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode respawn spec: %w", err)
	}
	r := &component.Respawn{Delay: spec.Delay}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		r.Point = t.Position
	}
	return ecs.Add(w, e, component.RespawnComponent.Kind(), r)
}

func addHoldable(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HoldableComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode holdable spec: %w", err)
	}
	half := vec(spec.HalfExtents)
	if !positive(half) {
		return fmt.Errorf("holdable half_extents must be positive, got %v", spec.HalfExtents)
	}
	col, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok {
		return fmt.Errorf("holdable requires a collider on the same entity")
	}
	return ecs.Add(w, e, component.HoldableComponent.Kind(), &component.Holdable{
		RestLayer:      col.Layer,
		HalfExtents:    half,
		PickupTime:     spec.PickupTime,
		Link:           spec.Link,
		Identifier:     spec.Identifier,
		AdditionalInfo: spec.AdditionalInfo,
		Message:        spec.Message,
	})
}

func addCrystal(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CrystalComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode crystal spec: %w", err)
	}
	kind, ok := gameplay.ParseCrystalKind(spec.Kind)
	if !ok {
		return fmt.Errorf("unknown crystal kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.CrystalComponent.Kind(), &component.Crystal{
		Node:   &gameplay.Crystal{ID: uint64(e), Kind: kind},
		Active: spec.Active,
	})
}

func addSlot(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SlotComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode slot spec: %w", err)
	}
	kind := component.SlotActionKind(spec.Action.Kind)
	switch kind {
	case component.SlotActionNone:
	case component.SlotActionMove:
		if spec.Action.Target == "" {
			return fmt.Errorf("slot move action needs a target")
		}
	case component.SlotActionScript:
		if spec.Action.Script == "" {
			return fmt.Errorf("slot script action needs a script")
		}
	default:
		return fmt.Errorf("unknown slot action %q", spec.Action.Kind)
	}
	if len(spec.Accepts) == 0 {
		return fmt.Errorf("slot accepts no identifiers")
	}

	slot := &component.Slot{
		Accepts: spec.Accepts,
		Offset:  vec(spec.Offset),
		Action: component.SlotAction{
			Kind:     kind,
			Require:  spec.Action.Require,
			Target:   spec.Action.Target,
			Offset:   vec(spec.Action.Offset),
			Duration: spec.Action.Duration,
			Script:   spec.Action.Script,
			Once:     spec.Action.Once,
		},
	}
	if spec.Yaw != nil {
		slot.UseRotation = true
		slot.Rotation = yawQuat(*spec.Yaw)
	}
	return ecs.Add(w, e, component.SlotComponent.Kind(), slot)
}

func addInventory(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.InventoryComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode inventory spec: %w", err)
	}
	if spec.Size[0] <= 0 || spec.Size[1] <= 0 {
		return fmt.Errorf("inventory size must be positive, got %v", spec.Size)
	}
	hx, hz := spec.Size[0]/2, spec.Size[1]/2
	grid := gameplay.NewGrid(spec.CellsX, spec.CellsZ, cp.BB{L: -hx, B: -hz, R: hx, T: hz}, spec.BaseHeight)
	grid.Stack = spec.Stack
	grid.Signature = spec.Signature
	return ecs.Add(w, e, component.InventoryComponent.Kind(), &component.Inventory{Grid: grid})
}
