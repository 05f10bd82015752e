package config

import (
	"fmt"

	"github.com/jdginn/go-diffusion/diffusion"
)

// Params overlays the configured constants on diffusion.DefaultParams
func (c *Constants) Params() diffusion.Params {
	p := diffusion.DefaultParams()
	if c.Accuracy != 0 {
		p.Accuracy = c.Accuracy
	}
	if c.HitAccuracy != 0 {
		p.HitAccuracy = c.HitAccuracy
	}
	if c.SoundSpeed != 0 {
		p.SoundSpeed = c.SoundSpeed
	}
	if c.SimulationRadius != 0 {
		p.SimulationRadius = c.SimulationRadius
		// keep the derived defaults in proportion unless overridden
		p.SimulationHeight = 2 * c.SimulationRadius
		p.WallRadius = 4 * c.SimulationRadius
	}
	if c.SimulationHeight != 0 {
		p.SimulationHeight = c.SimulationHeight
	}
	if c.WallRadius != 0 {
		p.WallRadius = c.WallRadius
	}
	if c.SampleRate != 0 {
		p.SampleRate = c.SampleRate
	}
	return p
}

func (s *Simulation) Properties() diffusion.SimulationProperties {
	return diffusion.SimulationProperties{
		Frequencies:        s.Frequencies,
		SourcePower:        s.SourcePower,
		NumCollectors:      s.Collectors,
		RaysPerAxis:        s.RaysPerAxis,
		MaxTracking:        s.MaxTracking,
		Workers:            s.Workers,
		RecordDirectSound:  s.RecordDirectSound,
		TrackedRaysPerAxis: s.TrackedRaysPerAxis,
	}
}

func (m *Material) Create() (diffusion.Absorption, error) {
	return diffusion.NewAbsorption(m.Absorption)
}

// CreateModel loads the configured mesh, or builds the reference plate
func (i *Input) CreateModel(params diffusion.Params) (*diffusion.Mesh, error) {
	if i.ReferenceModel.SideSize != 0 {
		return diffusion.NewReferenceModel(i.ReferenceModel.SideSize, params)
	}
	scale := i.Mesh.Scale
	if scale == 0 {
		scale = 1
	}
	m, err := diffusion.LoadModel(i.Mesh.Path, scale, params)
	if err != nil {
		return nil, fmt.Errorf("creating model: %w", err)
	}
	return m, nil
}
