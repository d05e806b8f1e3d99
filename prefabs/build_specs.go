package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name plus raw component specs keyed by
// component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes a raw component spec into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// Vec3Spec is an [x, y, z] triple.
type Vec3Spec [3]float64

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	// Yaw is in degrees.
	Yaw float64 `yaml:"yaw"`
}

type ColliderComponentSpec struct {
	HalfExtents Vec3Spec `yaml:"half_extents"`
	Layer       string   `yaml:"layer"`
	Trigger     bool     `yaml:"trigger"`
}

type KinematicActorComponentSpec struct {
	Radius    float64 `yaml:"radius"`
	Height    float64 `yaml:"height"`
	Speed     float64 `yaml:"speed"`
	SkinWidth float64 `yaml:"skin_width"`
	MaxSlope  float64 `yaml:"max_slope"`
	Gravity   float64 `yaml:"gravity"`
}

type InteractorComponentSpec struct {
	Reach        float64 `yaml:"reach"`
	EyeHeight    float64 `yaml:"eye_height"`
	HoldDistance float64 `yaml:"hold_distance"`
	PlaceTime    float64 `yaml:"place_time"`
}

type ManipulatorComponentSpec struct {
	Spacing        float64 `yaml:"spacing"`
	MaxExpansions  int     `yaml:"max_expansions"`
	TimeToTarget   float64 `yaml:"time_to_target"`
	Simplify       bool    `yaml:"simplify"`
	CollapseFactor float64 `yaml:"collapse_factor"`
	RotateStep     float64 `yaml:"rotate_step"`
}

type ChargeComponentSpec struct {
	ChargeRate        float64 `yaml:"charge_rate"`
	DischargeRate     float64 `yaml:"discharge_rate"`
	ChargeDistance    float64 `yaml:"charge_distance"`
	SkyAnchorDistance float64 `yaml:"sky_anchor_distance"`
}

type RespawnComponentSpec struct {
	Delay float64 `yaml:"delay"`
}

type HoldableComponentSpec struct {
	HalfExtents    Vec3Spec `yaml:"half_extents"`
	PickupTime     float64  `yaml:"pickup_time"`
	Link           bool     `yaml:"link"`
	Identifier     string   `yaml:"identifier"`
	AdditionalInfo string   `yaml:"additional_info"`
	Message        string   `yaml:"message"`
}

type CrystalComponentSpec struct {
	Kind   string `yaml:"kind"`
	Active bool   `yaml:"active"`
}

type SlotActionSpec struct {
	Kind     string   `yaml:"kind"`
	Require  string   `yaml:"require"`
	Target   string   `yaml:"target"`
	Offset   Vec3Spec `yaml:"offset"`
	Duration float64  `yaml:"duration"`
	Script   string   `yaml:"script"`
	Once     bool     `yaml:"once"`
}

type SlotComponentSpec struct {
	Accepts []string `yaml:"accepts"`
	Offset  Vec3Spec `yaml:"offset"`
	// Yaw, when set, overrides the placed item's rotation (degrees).
	Yaw    *float64       `yaml:"yaw"`
	Action SlotActionSpec `yaml:"action"`
}

type InventoryComponentSpec struct {
	CellsX     int        `yaml:"cells_x"`
	CellsZ     int        `yaml:"cells_z"`
	Size       [2]float64 `yaml:"size"`
	BaseHeight float64    `yaml:"base_height"`
	Stack      bool       `yaml:"stack"`
	Signature  string     `yaml:"signature"`
}
