package levels

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Level is static geometry plus prefab placements.
type Level struct {
	Name     string   `yaml:"name"`
	Statics  []Static `yaml:"statics"`
	Entities []Entity `yaml:"entities"`
}

// Static is an immovable box. Layer defaults to static.
type Static struct {
	Center      [3]float64 `yaml:"center"`
	HalfExtents [3]float64 `yaml:"half_extents"`
	Yaw         float64    `yaml:"yaw"`
	Layer       string     `yaml:"layer"`
}

// Entity places a prefab. Name overrides the prefab's name so scripts and
// slot actions can find it.
type Entity struct {
	Prefab   string     `yaml:"prefab"`
	Name     string     `yaml:"name"`
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return ParseLevel(data)
}

func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	for i, e := range lvl.Entities {
		if e.Prefab == "" {
			return nil, fmt.Errorf("level entity %d has no prefab", i)
		}
	}
	return &lvl, nil
}
