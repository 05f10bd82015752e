package diffusion

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// AcousticParameter reduces the sound pressure levels recorded by a
// collector array at one frequency to a single value.
type AcousticParameter interface {
	Name() string
	Calculate(levels []float64) (float64, error)
}

// DiffusionCoefficient is the ISO 17497-2 measure of how uniformly reflected
// energy spreads over the collector array. 1 means perfectly uniform, 0
// means every level but one is zero.
type DiffusionCoefficient struct{}

func (DiffusionCoefficient) Name() string {
	return "Acoustic Diffusion Coefficient"
}

// Calculate evaluates ((sum L)^2 - sum L^2) / ((n-1) * sum L^2).
//
// Fewer than two levels, or levels that are all zero, make the denominator
// zero and return ErrDegenerateLevels.
func (DiffusionCoefficient) Calculate(levels []float64) (float64, error) {
	if len(levels) < 2 {
		return 0, fmt.Errorf("diffusion coefficient over %d levels: %w", len(levels), ErrDegenerateLevels)
	}
	alpha := math.Pow(floats.Sum(levels), 2)
	beta := floats.Dot(levels, levels)
	gamma := float64(len(levels)-1) * beta
	if gamma == 0 {
		return 0, fmt.Errorf("diffusion coefficient over all-zero levels: %w", ErrDegenerateLevels)
	}
	return (alpha - beta) / gamma, nil
}

// FrequencyResult holds everything computed for one frequency
type FrequencyResult struct {
	Frequency float64
	Value     float64
	// Sound pressure level per collector, in collector order, in dB
	Levels []float64
}

// Results maps frequency to the parameter computed at that frequency
type Results map[float64]FrequencyResult

// Frequencies returns every frequency in increasing order
func (r Results) Frequencies() []float64 {
	out := make([]float64, 0, len(r))
	for f := range r {
		out = append(out, f)
	}
	sort.Float64s(out)
	return out
}

// Values returns the plain frequency -> parameter mapping
func (r Results) Values() map[float64]float64 {
	out := make(map[float64]float64, len(r))
	for f, res := range r {
		out[f] = res.Value
	}
	return out
}

// LevelsFor rebuilds the collector signals at sampleRate and returns their
// sound pressure levels, in collector order.
func LevelsFor(collectors CollectorArray, sampleRate int) ([]float64, error) {
	waves, err := CreateWaveObjects(collectors, sampleRate)
	if err != nil {
		return nil, err
	}
	return SoundPressureLevels(waves), nil
}

// GetResults computes param for every frequency's collector array
func GetResults(param AcousticParameter, collectorsPerFrequency map[float64]CollectorArray, sampleRate int) (Results, error) {
	results := make(Results, len(collectorsPerFrequency))
	for frequency, collectors := range collectorsPerFrequency {
		levels, err := LevelsFor(collectors, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("computing levels at %g Hz: %w", frequency, err)
		}
		value, err := param.Calculate(levels)
		if err != nil {
			return nil, fmt.Errorf("computing %s at %g Hz: %w", param.Name(), frequency, err)
		}
		results[frequency] = FrequencyResult{
			Frequency: frequency,
			Value:     value,
			Levels:    levels,
		}
	}
	return results, nil
}

// NormalizedDiffusion compares the coefficient of a sample with the
// coefficient of the flat reference plate measured the same way:
// (d - dRef) / (1 - dRef). A perfectly diffusing reference leaves nothing to
// compare against and returns ErrDegenerateLevels.
func NormalizedDiffusion(sample, reference float64) (float64, error) {
	if reference == 1 {
		return 0, fmt.Errorf("normalizing against a reference coefficient of 1: %w", ErrDegenerateLevels)
	}
	return (sample - reference) / (1 - reference), nil
}

// NormalizeResults normalizes every frequency present in both sample and
// reference
func NormalizeResults(sample, reference Results) (map[float64]float64, error) {
	out := make(map[float64]float64, len(sample))
	for _, f := range sample.Frequencies() {
		ref, ok := reference[f]
		if !ok {
			continue
		}
		n, err := NormalizedDiffusion(sample[f].Value, ref.Value)
		if err != nil {
			return nil, fmt.Errorf("normalizing %g Hz: %w", f, err)
		}
		out[f] = n
	}
	return out, nil
}
