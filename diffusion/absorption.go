package diffusion

import (
	"fmt"
	"math"
	"sort"

	lin "github.com/sgreben/piecewiselinear"
)

// Absorption is the fraction of incident energy a surface absorbs, as a
// function of frequency. Between the given frequencies it is interpolated
// linearly; outside them it is held at the nearest given value.
type Absorption struct {
	curve lin.Function
}

// NewAbsorption builds an absorption curve from a map of frequency in Hz to
// absorption coefficient in [0, 1].
func NewAbsorption(coefficients map[float64]float64) (Absorption, error) {
	if len(coefficients) == 0 {
		return Absorption{}, ValidationError{Field: "absorption", Message: "at least one frequency is required"}
	}
	frequencies := make([]float64, 0, len(coefficients))
	for f, alpha := range coefficients {
		if alpha < 0 || alpha > 1 {
			return Absorption{}, ValidationError{
				Field:   fmt.Sprintf("absorption.%g", f),
				Message: fmt.Sprintf("coefficient must be between 0.0 and 1.0, got %v", alpha),
			}
		}
		frequencies = append(frequencies, f)
	}
	sort.Float64s(frequencies)

	alphas := make([]float64, len(frequencies))
	for i, f := range frequencies {
		alphas[i] = coefficients[f]
	}
	return Absorption{curve: lin.Function{X: frequencies, Y: alphas}}, nil
}

// ConstantAbsorption absorbs the same fraction at every frequency
func ConstantAbsorption(alpha float64) (Absorption, error) {
	return NewAbsorption(map[float64]float64{0: alpha})
}

// At returns the absorption coefficient at frequency
func (a Absorption) At(frequency float64) float64 {
	xs, ys := a.curve.X, a.curve.Y
	switch {
	case len(xs) == 0:
		return 0
	case len(xs) == 1 || frequency <= xs[0]:
		return ys[0]
	case frequency >= xs[len(xs)-1]:
		return ys[len(ys)-1]
	}
	return math.Min(1, math.Max(0, a.curve.At(frequency)))
}

// Reflectance is the fraction of energy kept after one reflection
func (a Absorption) Reflectance(frequency float64) float64 {
	return 1 - a.At(frequency)
}
