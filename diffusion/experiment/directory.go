package experiment

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
)

const (
	ExperimentsDir = "experiments"
	LatestSymlink  = "latest"
)

// ExperimentDir is one run's output directory
type ExperimentDir struct {
	Path      string
	ID        string
	Timestamp time.Time
}

// CreateExperimentDirectory creates root/<id> and points root/latest at it.
// An empty root means ExperimentsDir in the working directory.
func CreateExperimentDirectory(root string, rng *rand.Rand) (*ExperimentDir, error) {
	if root == "" {
		root = ExperimentsDir
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating experiments directory: %w", err)
	}

	now := time.Now().UTC()
	id := GenerateExperimentID(rng, now)

	absPath, err := filepath.Abs(filepath.Join(root, id))
	if err != nil {
		return nil, fmt.Errorf("getting absolute path: %w", err)
	}
	if err := os.Mkdir(absPath, 0755); err != nil {
		return nil, fmt.Errorf("creating experiment directory: %w", err)
	}

	latestPath := filepath.Join(root, LatestSymlink)
	_ = os.Remove(latestPath)
	if err := os.Symlink(id, latestPath); err != nil {
		glog.Warningf("failed to create latest symlink: %v", err)
	}

	return &ExperimentDir{
		Path:      absPath,
		ID:        id,
		Timestamp: now,
	}, nil
}

// GetFilePath returns the absolute path for a file in the experiment directory
func (e *ExperimentDir) GetFilePath(filename string) string {
	return filepath.Join(e.Path, filename)
}
