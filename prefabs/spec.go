package prefabs

import (
	"fmt"

	"github.com/milk9111/lumen/common"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// GameSpec configures the host: window, tick rate, starting level and
// ambient services.
type GameSpec struct {
	Title       string           `yaml:"title"`
	Width       int              `yaml:"width"`
	Height      int              `yaml:"height"`
	TickRate    float64          `yaml:"tick_rate"`
	Level       string           `yaml:"level"`
	MetricsAddr string           `yaml:"metrics_addr"`
	Debug       bool             `yaml:"debug"`
	HotReload   bool             `yaml:"hot_reload"`
	Log         common.LogConfig `yaml:"log"`
}

// LoadGameSpec reads filename and fills the defaults of unset fields.
func LoadGameSpec(filename string) (*GameSpec, error) {
	spec, err := LoadSpec[GameSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Title == "" {
		spec.Title = "lumen"
	}
	if spec.Width <= 0 {
		spec.Width = 960
	}
	if spec.Height <= 0 {
		spec.Height = 540
	}
	if spec.TickRate <= 0 {
		spec.TickRate = 50
	}
	if spec.Level == "" {
		spec.Level = "sandbox.yaml"
	}
	return &spec, nil
}
