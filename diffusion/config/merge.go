package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// MergeAbsorption merges an absorption curve from a JSON file with the
// inline one. The file maps frequency strings to coefficients, e.g.
// {"125": 0.1, "1000": 0.3}. Inline entries take precedence.
func (m *Material) MergeAbsorption() error {
	if m.FromFile == "" {
		return nil
	}

	data, err := os.ReadFile(m.FromFile)
	if err != nil {
		return fmt.Errorf("reading absorption file: %w", err)
	}

	var fileCurve map[string]float64
	if err := json.Unmarshal(data, &fileCurve); err != nil {
		return fmt.Errorf("parsing absorption file: %w", err)
	}

	if m.Absorption == nil {
		m.Absorption = make(map[float64]float64)
	}

	for key, alpha := range fileCurve {
		frequency, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return fmt.Errorf("parsing absorption file frequency %q: %w", key, err)
		}
		if _, exists := m.Absorption[frequency]; !exists {
			m.Absorption[frequency] = alpha
		}
	}

	return nil
}

// LoadAndMerge loads all external files and merges their contents
func (c *ExperimentConfig) LoadAndMerge() error {
	if err := c.Material.MergeAbsorption(); err != nil {
		return fmt.Errorf("merging material: %w", err)
	}
	return nil
}
