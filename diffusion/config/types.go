package config

// ExperimentConfig represents the complete configuration for a diffusion
// coefficient simulation
type ExperimentConfig struct {
	Metadata   Metadata   `yaml:"metadata"`
	Input      Input      `yaml:"input"`
	Material   Material   `yaml:"material"`
	Simulation Simulation `yaml:"simulation"`
	Constants  Constants  `yaml:"constants,omitempty"`
}

// Metadata is filled in when a config is saved next to its results
type Metadata struct {
	Timestamp string `yaml:"timestamp,omitempty"` // YYYY-MM-DD HH:MM:SS in UTC
	GitCommit string `yaml:"git_commit,omitempty"`
}

// Input selects the model under test. Exactly one of Mesh.Path and
// ReferenceModel.SideSize must be set.
type Input struct {
	Mesh struct {
		Path  string  `yaml:"path,omitempty"`
		Scale float64 `yaml:"scale,omitempty"` // model units per meter, defaults to 1
	} `yaml:"mesh,omitempty"`
	ReferenceModel struct {
		SideSize float64 `yaml:"side_size,omitempty"` // meters
	} `yaml:"reference_model,omitempty"`
}

// Material is the absorption curve of the model surface
type Material struct {
	Absorption map[float64]float64 `yaml:"absorption,omitempty"` // frequency in Hz -> coefficient
	FromFile   string              `yaml:"from_file,omitempty"`
}

type Simulation struct {
	Frequencies       []float64 `yaml:"frequencies"`
	SourcePower       float64   `yaml:"source_power"`
	Collectors        int       `yaml:"collectors"`
	RaysPerAxis       int       `yaml:"rays_per_axis"`
	MaxTracking       int       `yaml:"max_tracking"`
	Workers           int       `yaml:"workers,omitempty"`
	RecordDirectSound bool      `yaml:"record_direct_sound,omitempty"`
	// Repeat the simulation against the flat reference plate of the same size
	ReferenceRun bool `yaml:"reference_run,omitempty"`
	// Export the paths of a tracked_rays_per_axis^2 subgrid of rays
	TrackedRaysPerAxis int `yaml:"tracked_rays_per_axis,omitempty"`
}

// Constants override diffusion.DefaultParams. Zero values keep the default.
type Constants struct {
	Accuracy         float64 `yaml:"accuracy,omitempty"`
	HitAccuracy      float64 `yaml:"hit_accuracy,omitempty"`
	SoundSpeed       float64 `yaml:"sound_speed,omitempty"`
	SimulationRadius float64 `yaml:"simulation_radius,omitempty"`
	SimulationHeight float64 `yaml:"simulation_height,omitempty"`
	WallRadius       float64 `yaml:"wall_radius,omitempty"`
	SampleRate       int     `yaml:"sample_rate,omitempty"`
}
