package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/lumen/ecs"
	"github.com/milk9111/lumen/ecs/component"
	"github.com/milk9111/lumen/prefabs"
	"go.uber.org/zap"
)

const slotDispatchScript = `
on_placed(__engine, __item)
`

// SlotActionSystem subscribes every slot to placement events and runs its
// action when an item it requires lands in it.
type SlotActionSystem struct {
	logger  *zap.Logger
	load    func(name string) ([]byte, error)
	scripts map[string]*tengo.Compiled
}

func NewSlotActionSystem(logger *zap.Logger) *SlotActionSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotActionSystem{
		logger:  logger.Named("slot"),
		load:    prefabs.LoadScript,
		scripts: map[string]*tengo.Compiled{},
	}
}

// Reload drops cached scripts so the next action recompiles them.
func (s *SlotActionSystem) Reload() {
	s.scripts = map[string]*tengo.Compiled{}
}

func (s *SlotActionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.SlotComponent.Kind(), func(e ecs.Entity, slot *component.Slot) {
		if slot.Subscription != 0 || slot.Action.Kind == component.SlotActionNone {
			return
		}
		owner := e
		slot.Subscription = uint64(w.Bus().Subscribe(owner, ecs.EventPlaced, func(evt ecs.Event) {
			s.onPlaced(w, owner, evt)
		}))
	})
}

func (s *SlotActionSystem) onPlaced(w *ecs.World, slotEntity ecs.Entity, evt ecs.Event) {
	placed, ok := evt.Data.(ecs.ItemEvent)
	if !ok || placed.Slot != slotEntity {
		return
	}
	slot, ok := ecs.Get(w, slotEntity, component.SlotComponent.Kind())
	if !ok {
		return
	}
	act := &slot.Action
	if act.Once && act.Fired {
		return
	}
	info := ""
	if h, ok := ecs.Get(w, placed.Item, component.HoldableComponent.Kind()); ok {
		info = h.AdditionalInfo
	}
	if act.Require != "" && act.Require != info {
		return
	}
	act.Fired = true

	switch act.Kind {
	case component.SlotActionMove:
		if !s.move(w, slotEntity, act.Target, act.Offset, act.Duration) {
			s.logger.Warn("slot move target not found", zap.String("slot", EntityName(w, slotEntity)), zap.String("target", act.Target))
		}
	case component.SlotActionScript:
		if err := s.runScript(w, slotEntity, placed.Item, act.Script); err != nil {
			s.logger.Error("slot script failed", zap.String("slot", EntityName(w, slotEntity)), zap.String("script", act.Script), zap.Error(err))
		}
	}
}

// move slides the named entity by offset over duration seconds.
func (s *SlotActionSystem) move(w *ecs.World, owner ecs.Entity, name string, offset mgl64.Vec3, duration float64) bool {
	target, ok := entityByName(w, name)
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	lerp := &ecs.LerpTask{
		From:     t.Position,
		To:       t.Position.Add(offset),
		Duration: duration,
		Apply: func(p mgl64.Vec3) {
			t.Position = p
			if k, ok := ecs.Get(w, target, component.KinematicActorComponent.Kind()); ok {
				k.Place(p)
			}
		},
	}
	w.Tasks().Start(owner, lerp, nil)
	return true
}

func (s *SlotActionSystem) compile(name string) (*tengo.Compiled, error) {
	if c, ok := s.scripts[name]; ok {
		return c.Clone(), nil
	}
	src, err := s.load(name)
	if err != nil {
		return nil, fmt.Errorf("slot: load %s: %w", name, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + slotDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__item", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("slot: compile %s: %w", name, err)
	}
	s.scripts[name] = compiled
	return compiled.Clone(), nil
}

func (s *SlotActionSystem) runScript(w *ecs.World, slotEntity, item ecs.Entity, name string) error {
	compiled, err := s.compile(name)
	if err != nil {
		return err
	}

	itemInfo := map[string]tengo.Object{
		"name": &tengo.String{Value: EntityName(w, item)},
	}
	if h, ok := ecs.Get(w, item, component.HoldableComponent.Kind()); ok {
		itemInfo["identifier"] = &tengo.String{Value: h.Identifier}
		itemInfo["info"] = &tengo.String{Value: h.AdditionalInfo}
	}

	if err := compiled.Set("__engine", s.engine(w, slotEntity)); err != nil {
		return err
	}
	if err := compiled.Set("__item", &tengo.ImmutableMap{Value: itemInfo}); err != nil {
		return err
	}
	return compiled.Run()
}

// engine builds the functions a slot script can call.
func (s *SlotActionSystem) engine(w *ecs.World, slotEntity ecs.Entity) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 5 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		var v [4]float64
		for i := range v {
			f, ok := tengo.ToFloat64(args[i+1])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "offset", Expected: "float", Found: args[i+1].TypeName()}
			}
			v[i] = f
		}
		if s.move(w, slotEntity, name, mgl64.Vec3{v[0], v[1], v[2]}, v[3]) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		kind := strings.TrimSpace(objectAsString(args[0]))
		if kind == "" {
			return tengo.FalseValue, nil
		}
		w.Bus().Publish(ecs.Event{Type: kind, Data: slotEntity})
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.logger.Info(strings.Join(parts, " "), zap.String("slot", EntityName(w, slotEntity)))
		return tengo.UndefinedValue, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		e, ok := entityByName(w, objectAsString(args[0]))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: t.Position.X()},
			&tengo.Float{Value: t.Position.Y()},
			&tengo.Float{Value: t.Position.Z()},
		}}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
