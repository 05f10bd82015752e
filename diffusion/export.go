package diffusion

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fogleman/pt/pt"
)

// JSON schema types
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type CollectorJSON struct {
	Number int     `json:"number"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
}

type TriangleJSON struct {
	Point1 PointJSON `json:"point1"`
	Point2 PointJSON `json:"point2"`
	Point3 PointJSON `json:"point3"`
}

type FrequencyResultJSON struct {
	Frequency   float64   `json:"frequency"`
	Coefficient float64   `json:"coefficient"`
	Data        []float64 `json:"data"` // sound pressure level per collector, dB
}

type ResultsJSON struct {
	Results []FrequencyResultJSON `json:"results"`
	// Same simulation run against the flat reference plate, when requested
	ReferenceResults []FrequencyResultJSON `json:"referenceResults,omitempty"`
}

type SegmentJSON struct {
	Origin    PointJSON `json:"origin"`
	Direction PointJSON `json:"direction"`
	Energy    float64   `json:"energy"`
	Length    float64   `json:"length"`
}

type TrackingJSON struct {
	Ray      int           `json:"ray"`
	Segments []SegmentJSON `json:"segments"`
}

type FrequencyTrackingJSON struct {
	Frequency float64        `json:"frequency"`
	Trackings []TrackingJSON `json:"trackings"`
}

type TrackingDataJSON struct {
	TrackingData          []FrequencyTrackingJSON `json:"trackingData"`
	ReferenceTrackingData []FrequencyTrackingJSON `json:"referenceTrackingData,omitempty"`
}

// Conversion functions
func VectorToJSON(v pt.Vector) PointJSON {
	return PointJSON{X: v.X, Y: v.Y, Z: v.Z}
}

func CollectorToJSON(number int, c *EnergyCollector) CollectorJSON {
	return CollectorJSON{
		Number: number,
		X:      c.Origin.X,
		Y:      c.Origin.Y,
		Z:      c.Origin.Z,
		Radius: c.Radius,
	}
}

func TriangleToJSON(t Triangle) TriangleJSON {
	p1, p2, p3 := t.Points()
	return TriangleJSON{
		Point1: VectorToJSON(p1),
		Point2: VectorToJSON(p2),
		Point3: VectorToJSON(p3),
	}
}

func frequencyResultsToJSON(r Results) []FrequencyResultJSON {
	if r == nil {
		return nil
	}
	out := make([]FrequencyResultJSON, 0, len(r))
	for _, f := range r.Frequencies() {
		res := r[f]
		out = append(out, FrequencyResultJSON{
			Frequency:   f,
			Coefficient: res.Value,
			Data:        res.Levels,
		})
	}
	return out
}

// ResultsToJSON lists results by increasing frequency. reference may be nil.
func ResultsToJSON(r, reference Results) ResultsJSON {
	results := frequencyResultsToJSON(r)
	if results == nil {
		results = []FrequencyResultJSON{}
	}
	return ResultsJSON{
		Results:          results,
		ReferenceResults: frequencyResultsToJSON(reference),
	}
}

func SegmentToJSON(s Segment) SegmentJSON {
	return SegmentJSON{
		Origin:    VectorToJSON(s.Origin),
		Direction: VectorToJSON(s.Direction),
		Energy:    s.Energy,
		Length:    s.Length,
	}
}

func trackingsToJSON(runs []FrequencyRun) []FrequencyTrackingJSON {
	if runs == nil {
		return nil
	}
	out := make([]FrequencyTrackingJSON, 0, len(runs))
	for _, run := range runs {
		f := FrequencyTrackingJSON{Frequency: run.Frequency, Trackings: make([]TrackingJSON, 0, len(run.Trackings))}
		for _, tracking := range run.Trackings {
			t := TrackingJSON{Ray: tracking.Ray, Segments: make([]SegmentJSON, 0, len(tracking.Segments))}
			for _, segment := range tracking.Segments {
				t.Segments = append(t.Segments, SegmentToJSON(segment))
			}
			f.Trackings = append(f.Trackings, t)
		}
		out = append(out, f)
	}
	return out
}

func saveJSON(filename string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", filename, err)
	}
	return os.WriteFile(filename, data, 0644)
}

// SaveCollectorsToJSON saves collector positions and radii, numbered in array order
func SaveCollectorsToJSON(filename string, collectors CollectorArray) error {
	container := struct {
		EnergyCollectors []CollectorJSON `json:"energyCollectors"`
	}{
		EnergyCollectors: make([]CollectorJSON, 0, len(collectors)),
	}
	for i, c := range collectors {
		container.EnergyCollectors = append(container.EnergyCollectors, CollectorToJSON(i, c))
	}
	return saveJSON(filename, container)
}

// SaveModelToJSON saves the vertices of every model triangle
func SaveModelToJSON(filename string, model Model) error {
	if model == nil {
		return fmt.Errorf("saving model to %s: model cannot be nil", filename)
	}
	container := struct {
		Model []TriangleJSON `json:"model"`
	}{
		Model: make([]TriangleJSON, 0, len(model.Triangles())),
	}
	for _, t := range model.Triangles() {
		container.Model = append(container.Model, TriangleToJSON(t))
	}
	return saveJSON(filename, container)
}

// SaveResultsToJSON saves the results and, when reference is not nil, the
// reference plate results next to them
func SaveResultsToJSON(filename string, r, reference Results) error {
	return saveJSON(filename, ResultsToJSON(r, reference))
}

// SaveTrackingToJSON saves the sampled ray paths of every run, per frequency
// in run order. referenceRuns may be nil.
func SaveTrackingToJSON(filename string, runs, referenceRuns []FrequencyRun) error {
	data := TrackingDataJSON{
		TrackingData:          trackingsToJSON(runs),
		ReferenceTrackingData: trackingsToJSON(referenceRuns),
	}
	if data.TrackingData == nil {
		data.TrackingData = []FrequencyTrackingJSON{}
	}
	return saveJSON(filename, data)
}

func LoadResultsFromJSON(filename string) (ResultsJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return ResultsJSON{}, fmt.Errorf("reading results file: %w", err)
	}
	var out ResultsJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return ResultsJSON{}, fmt.Errorf("parsing results file: %w", err)
	}
	return out, nil
}
