package config

import (
	"os/exec"
	"strings"
	"time"

	"github.com/golang/glog"
)

// UnknownCommit is recorded when the commit cannot be read, e.g. outside a
// git checkout
const UnknownCommit = "unknown"

// MetadataCollector stamps a config with when and from which commit it was
// run
type MetadataCollector struct {
	timestamp time.Time
	gitCommit string
}

// NewMetadataCollector stamps with now and the commit revParse reports.
// A failing revParse is logged and recorded as UnknownCommit.
func NewMetadataCollector(now time.Time, revParse func() (string, error)) *MetadataCollector {
	commit, err := revParse()
	if err != nil || commit == "" {
		glog.Warningf("recording git commit as %q: %v", UnknownCommit, err)
		commit = UnknownCommit
	}
	return &MetadataCollector{
		timestamp: now.UTC(),
		gitCommit: commit,
	}
}

// CurrentGitCommit is the HEAD commit of the working directory's checkout
func CurrentGitCommit() (string, error) {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// PopulateMetadata fills in the metadata fields of the config
func (mc *MetadataCollector) PopulateMetadata(config *ExperimentConfig) {
	config.Metadata.Timestamp = mc.timestamp.Format("2006-01-02 15:04:05")
	config.Metadata.GitCommit = mc.gitCommit
}
