package diffusion

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCollectorsToJSON(t *testing.T) {
	assert := assert.New(t)
	collectors, err := BuildCollectors(referenceModel(t, 1), 5, DefaultParams())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "collectors.json")
	require.NoError(t, SaveCollectorsToJSON(path, collectors))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		EnergyCollectors []CollectorJSON `json:"energyCollectors"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.EnergyCollectors, 5)
	for i, c := range got.EnergyCollectors {
		assert.Equal(i, c.Number)
		assert.Equal(collectors[i].Radius, c.Radius)
	}
	assert.Equal(CollectorJSON{Number: 0, Z: 4, Radius: collectors[0].Radius}, got.EnergyCollectors[0])
}

func TestSaveModelToJSON(t *testing.T) {
	model := referenceModel(t, 1)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, SaveModelToJSON(path, model))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Model []TriangleJSON `json:"model"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	want := []TriangleJSON{
		{Point1: PointJSON{-1, -1, 0}, Point2: PointJSON{1, -1, 0}, Point3: PointJSON{1, 1, 0}},
		{Point1: PointJSON{-1, -1, 0}, Point2: PointJSON{1, 1, 0}, Point3: PointJSON{-1, 1, 0}},
	}
	if diff := cmp.Diff(want, got.Model); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, SaveModelToJSON(path, nil))
}

func TestResultsJSONRoundTrip(t *testing.T) {
	results := Results{
		1000: {Frequency: 1000, Value: 0.5, Levels: []float64{80, 70}},
		125:  {Frequency: 125, Value: 0.9, Levels: []float64{60, 61}},
	}
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, SaveResultsToJSON(path, results, nil))

	got, err := LoadResultsFromJSON(path)
	require.NoError(t, err)
	want := ResultsJSON{Results: []FrequencyResultJSON{
		{Frequency: 125, Coefficient: 0.9, Data: []float64{60, 61}},
		{Frequency: 1000, Coefficient: 0.5, Data: []float64{80, 70}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	_, err = LoadResultsFromJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestResultsJSONWithReference(t *testing.T) {
	assert := assert.New(t)
	results := Results{500: {Frequency: 500, Value: 0.4, Levels: []float64{70, 75}}}
	reference := Results{500: {Frequency: 500, Value: 0.1, Levels: []float64{90, 40}}}
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, SaveResultsToJSON(path, results, reference))

	got, err := LoadResultsFromJSON(path)
	require.NoError(t, err)
	want := ResultsJSON{
		Results:          []FrequencyResultJSON{{Frequency: 500, Coefficient: 0.4, Data: []float64{70, 75}}},
		ReferenceResults: []FrequencyResultJSON{{Frequency: 500, Coefficient: 0.1, Data: []float64{90, 40}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	// without a reference run the key is left out
	require.NoError(t, SaveResultsToJSON(path, results, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(string(data), "referenceResults")
}

func TestSaveTrackingToJSON(t *testing.T) {
	assert := assert.New(t)
	runs := []FrequencyRun{{
		Frequency: 1000,
		Trackings: []Tracking{{
			Ray: 4,
			Segments: []Segment{
				{Origin: V(0, 0, 8), Direction: V(0, 0, -1), Energy: 100, Length: 8},
				{Origin: V(0, 0, 0), Direction: V(0, 0, 1), Energy: 80, Length: 3.5},
			},
		}},
	}}
	reference := []FrequencyRun{{Frequency: 1000}}
	path := filepath.Join(t.TempDir(), "tracking.json")
	require.NoError(t, SaveTrackingToJSON(path, runs, reference))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got TrackingDataJSON
	require.NoError(t, json.Unmarshal(data, &got))
	want := TrackingDataJSON{
		TrackingData: []FrequencyTrackingJSON{{
			Frequency: 1000,
			Trackings: []TrackingJSON{{
				Ray: 4,
				Segments: []SegmentJSON{
					{Origin: PointJSON{0, 0, 8}, Direction: PointJSON{0, 0, -1}, Energy: 100, Length: 8},
					{Origin: PointJSON{0, 0, 0}, Direction: PointJSON{0, 0, 1}, Energy: 80, Length: 3.5},
				},
			}},
		}},
		ReferenceTrackingData: []FrequencyTrackingJSON{{Frequency: 1000, Trackings: []TrackingJSON{}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tracking mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, SaveTrackingToJSON(path, nil, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(`{"trackingData": []}`, string(data))
}
