package diffusion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveObject(t *testing.T) {
	assert := assert.New(t)
	w, err := NewWaveObject(SAMPLE_RATE)
	require.NoError(t, err)
	assert.Equal(DATA_MARGIN, w.Len())
	assert.Zero(w.TotalPressureLevel())

	assert.ErrorIs(w.AddEnergyAtTime(-1, 10), ErrNegativeTime)
	assert.Equal(DATA_MARGIN, w.Len())

	require.NoError(t, w.AddEnergyAtTime(0.5, 10))
	assert.Equal(SAMPLE_RATE/2+1, w.Len())
	assert.Equal(10.0, w.EnergyAtTime(0.5))
	assert.Zero(w.EnergyAtTime(0.25))
	assert.Zero(w.EnergyAtTime(2))

	// the only nonzero sample is the last one, so its trapezoid is halved
	total := 10.0 / 2 / SAMPLE_RATE
	assert.InDelta(120+10*math.Log10(total), w.TotalPressureLevel(), 1e-9)
	assert.Greater(w.TotalPressureLevel(), 0.0)
}

func TestWaveObjectNonFiniteTime(t *testing.T) {
	assert := assert.New(t)
	w, err := NewWaveObject(SAMPLE_RATE)
	require.NoError(t, err)

	for _, time := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.ErrorIs(w.AddEnergyAtTime(time, 1), ErrNonFiniteTime, "time %g", time)
		assert.Zero(w.EnergyAtTime(time), "time %g", time)
	}
	assert.Equal(DATA_MARGIN, w.Len())

	// finite but too late to index
	assert.Error(w.AddEnergyAtTime(math.MaxFloat64, 1))
	assert.Equal(DATA_MARGIN, w.Len())
}

func TestWaveObjectAccumulates(t *testing.T) {
	assert := assert.New(t)
	w, err := NewWaveObject(10)
	require.NoError(t, err)

	require.NoError(t, w.AddEnergyAtTime(0.11, 1))
	require.NoError(t, w.AddEnergyAtTime(0.19, 2))
	require.NoError(t, w.AddEnergyAtTime(0.05, 4))
	assert.Equal([]float64{4, 3}, w.Data())

	_, err = NewWaveObject(0)
	assert.Error(err)
}

func TestWaveObjectFromCollector(t *testing.T) {
	assert := assert.New(t)
	c, err := NewEnergyCollector(V(0, 0, 4), 1, DefaultParams())
	require.NoError(t, err)
	require.NoError(t, c.AddEnergy(0.25, 2))
	require.NoError(t, c.AddEnergy(0.1, 1))

	w, err := NewWaveObjectFromCollector(c, 10)
	require.NoError(t, err)
	assert.Equal([]float64{0, 1, 2}, w.Data())

	waves, err := CreateWaveObjects(CollectorArray{c, c}, 10)
	require.NoError(t, err)
	levels := SoundPressureLevels(waves)
	require.Len(t, levels, 2)
	assert.Equal(levels[0], levels[1])
	assert.Equal(w.TotalPressureLevel(), levels[0])
}

func TestPressureToDecibels(t *testing.T) {
	assert := assert.New(t)
	assert.Zero(PressureToDecibels(0))
	assert.Zero(PressureToDecibels(-1))
	assert.InDelta(120, PressureToDecibels(1), 1e-12)
	assert.InDelta(100, PressureToDecibels(0.01), 1e-9)
}
