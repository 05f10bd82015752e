package diffusion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
)

// Samples every wave starts with, so the integral always has a span
const DATA_MARGIN = 2

// WaveObject is a sampled energy-over-time signal, similar to a recording
// taken by a microphone at a collector position.
type WaveObject struct {
	sampleRate int
	data       []float64
}

func NewWaveObject(sampleRate int) (*WaveObject, error) {
	if sampleRate <= 0 {
		return nil, ValidationError{Field: "sampleRate", Message: fmt.Sprintf("must be positive, got %d", sampleRate)}
	}
	return &WaveObject{
		sampleRate: sampleRate,
		data:       make([]float64, DATA_MARGIN),
	}, nil
}

// NewWaveObjectFromCollector folds every energy sample recorded by c into a
// new wave.
func NewWaveObjectFromCollector(c *EnergyCollector, sampleRate int) (*WaveObject, error) {
	w, err := NewWaveObject(sampleRate)
	if err != nil {
		return nil, err
	}
	for _, t := range c.Times() {
		if err := w.AddEnergyAtTime(t, c.energy[t]); err != nil {
			return nil, fmt.Errorf("building wave for %s: %w", c, err)
		}
	}
	return w, nil
}

// timeIndex returns the sample containing time, false past math.MaxInt32
// samples
func (w *WaveObject) timeIndex(time float64) (int, bool) {
	index := math.Floor(time * float64(w.sampleRate))
	if index >= math.MaxInt32 {
		return 0, false
	}
	return int(index), true
}

// AddEnergyAtTime adds energy to the sample containing time. Energy is not
// spread across neighbouring samples.
func (w *WaveObject) AddEnergyAtTime(time, energy float64) error {
	if err := checkTime(time); err != nil {
		return fmt.Errorf("adding energy to %s at %gs: %w", w, time, err)
	}
	index, ok := w.timeIndex(time)
	if !ok {
		return fmt.Errorf("adding energy to %s at %gs: sample index overflows", w, time)
	}
	if index >= len(w.data) {
		grown := make([]float64, index+1)
		copy(grown, w.data)
		w.data = grown
	}
	w.data[index] += energy
	return nil
}

// EnergyAtTime returns the energy stored in the sample containing time, or 0
// outside the recorded range.
func (w *WaveObject) EnergyAtTime(time float64) float64 {
	if checkTime(time) != nil {
		return 0
	}
	index, ok := w.timeIndex(time)
	if !ok || index >= len(w.data) {
		return 0
	}
	return w.data[index]
}

// TotalPressureLevel integrates the signal with the trapezoidal rule and
// returns it in dB.
func (w *WaveObject) TotalPressureLevel() float64 {
	times := make([]float64, len(w.data))
	for i := range times {
		times[i] = float64(i) / float64(w.sampleRate)
	}
	return PressureToDecibels(integrate.Trapezoidal(times, w.data))
}

func (w *WaveObject) Data() []float64 {
	return append([]float64(nil), w.data...)
}

func (w *WaveObject) Len() int {
	return len(w.data)
}

func (w *WaveObject) SampleRate() int {
	return w.sampleRate
}

func (w *WaveObject) String() string {
	return fmt.Sprintf("Wave Object, sample rate: %d Hz, data size: %d", w.sampleRate, len(w.data))
}

// CreateWaveObjects builds one wave per collector, in collector order
func CreateWaveObjects(collectors CollectorArray, sampleRate int) ([]*WaveObject, error) {
	waves := make([]*WaveObject, 0, len(collectors))
	for _, c := range collectors {
		w, err := NewWaveObjectFromCollector(c, sampleRate)
		if err != nil {
			return nil, err
		}
		waves = append(waves, w)
	}
	return waves, nil
}

func SoundPressureLevels(waves []*WaveObject) []float64 {
	levels := make([]float64, len(waves))
	for i, w := range waves {
		levels[i] = w.TotalPressureLevel()
	}
	return levels
}
