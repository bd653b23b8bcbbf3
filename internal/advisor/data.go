package advisor

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecosnap/ecosnap/internal/model"
)

//go:embed guidance.yaml
var defaultGuidance []byte

// Data is the externalized guidance configuration the Advisor consumes.
type Data struct {
	Guidance   map[model.WasteCategory][]string `yaml:"guidance"`
	Defaults   []string                         `yaml:"defaults"`
	Facilities []model.Facility                 `yaml:"facilities"`
}

// DefaultData returns the built-in guidance tables and facility list.
func DefaultData() (Data, error) {
	return parseData(defaultGuidance)
}

// LoadData reads guidance data from path, falling back to the built-in data
// when path is empty.
func LoadData(path string) (Data, error) {
	if path == "" {
		return DefaultData()
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return Data{}, fmt.Errorf("failed to read guidance data: %w", err)
	}
	return parseData(raw)
}

func parseData(raw []byte) (Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("failed to parse guidance data: %w", err)
	}
	if len(data.Guidance) == 0 {
		return Data{}, fmt.Errorf("guidance data defines no categories")
	}
	return data, nil
}
