package experiment

import (
	"math/rand"
	"time"
)

var (
	materials = []string{
		"oak", "birch", "maple", "cedar", "walnut", "spruce", "ash", "cherry",
		"felt", "wool", "cork", "slate", "granite", "marble", "plaster", "brick",
		"linen", "velvet", "bamboo", "basalt", "clay", "copper", "brass", "pine",
	}

	shapes = []string{
		"skyline", "lattice", "prism", "ridge", "wedge", "column", "groove",
		"dome", "arch", "fin", "well", "step", "ripple", "slat", "facet", "comb",
		"terrace", "canyon", "pyramid", "spiral", "fractal", "cluster", "vault",
	}
)

// GenerateExperimentName creates a memorable identifier in the format
// "material-shape"
func GenerateExperimentName(rng *rand.Rand) string {
	return materials[rng.Intn(len(materials))] + "-" + shapes[rng.Intn(len(shapes))]
}

// GenerateExperimentID appends a UTC timestamp to a memorable name so that
// directories sort by creation time
func GenerateExperimentID(rng *rand.Rand, now time.Time) string {
	return GenerateExperimentName(rng) + "-" + now.UTC().Format("20060102-150405")
}
