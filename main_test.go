package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-diffusion/diffusion"
	"github.com/jdginn/go-diffusion/diffusion/config"
)

const plateConfig = `
input:
  reference_model:
    side_size: 1
material:
  absorption:
    1000: 0.2
simulation:
  frequencies: [1000]
  source_power: 100
  collectors: 37
  rays_per_axis: 3
  max_tracking: 4
  reference_run: true
  tracked_rays_per_axis: 3
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSimulateWritesExperiment(t *testing.T) {
	assert := assert.New(t)
	cmd := SimulateCmd{Config: writeConfig(t, plateConfig), OutDir: t.TempDir(), Workers: 2}

	dir, summary, err := cmd.simulate(context.Background(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	for _, name := range []string{"config.yaml", "collectors.json", "model.json", "results.json", "tracking.json", "model.stl"} {
		assert.FileExists(dir.GetFilePath(name))
	}

	// the saved config is the resolved one, stamped with when it ran
	saved, err := config.LoadFromFile(dir.GetFilePath("config.yaml"), config.LoadOptions{ValidateImmediately: true})
	require.NoError(t, err)
	assert.NotEmpty(saved.Metadata.Timestamp)
	assert.NotEmpty(saved.Metadata.GitCommit)
	assert.True(saved.Simulation.ReferenceRun)

	results, err := diffusion.LoadResultsFromJSON(dir.GetFilePath("results.json"))
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	require.Len(t, results.ReferenceResults, 1)
	// the model is the reference plate, so both runs agree
	assert.Equal(results.Results[0], results.ReferenceResults[0])
	assert.Contains(summary, "normalized 0.0000")

	data, err := os.ReadFile(dir.GetFilePath("tracking.json"))
	require.NoError(t, err)
	var tracking diffusion.TrackingDataJSON
	require.NoError(t, json.Unmarshal(data, &tracking))
	require.Len(t, tracking.TrackingData, 1)
	require.Len(t, tracking.ReferenceTrackingData, 1)
	assert.NotEmpty(tracking.TrackingData[0].Trackings)
	for _, tr := range tracking.TrackingData[0].Trackings {
		assert.Greater(len(tr.Segments), 1)
	}
}

func TestSimulateWithoutReference(t *testing.T) {
	assert := assert.New(t)
	content := `
input:
  reference_model:
    side_size: 1
material:
  absorption:
    1000: 0.2
simulation:
  frequencies: [1000]
  source_power: 100
  collectors: 37
  rays_per_axis: 3
  max_tracking: 4
`
	cmd := SimulateCmd{Config: writeConfig(t, content), OutDir: t.TempDir()}
	dir, summary, err := cmd.simulate(context.Background(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.NoFileExists(dir.GetFilePath("tracking.json"))
	assert.NotContains(summary, "normalized")

	results, err := diffusion.LoadResultsFromJSON(dir.GetFilePath("results.json"))
	require.NoError(t, err)
	assert.Empty(results.ReferenceResults)
}

func TestValidateChecksEnclosure(t *testing.T) {
	params := diffusion.DefaultParams()
	assert.NoError(t, ValidateCmd{Config: writeConfig(t, plateConfig)}.Run())

	// a 3 m tall pyramid lifts the source to 24 m, past the 16 m wall
	apex := diffusion.V(0, 0, 3)
	corners := []struct{ x, y float64 }{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var triangles []diffusion.Triangle
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		tri, err := diffusion.NewTriangle(diffusion.V(a.x, a.y, 0), diffusion.V(b.x, b.y, 0), apex, params)
		require.NoError(t, err)
		triangles = append(triangles, tri)
	}
	dir := t.TempDir()
	require.NoError(t, diffusion.NewMesh(triangles).ToPT().SaveSTL(filepath.Join(dir, "tall.stl")))

	content := `
input:
  mesh:
    path: tall.stl
material:
  absorption:
    1000: 0.2
simulation:
  frequencies: [1000]
  source_power: 100
  collectors: 37
  rays_per_axis: 3
  max_tracking: 4
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	assert.ErrorContains(t, ValidateCmd{Config: path}.Run(), "wallRadius")
}
