package diffusion

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

// PointSource emits a raysPerAxis x raysPerAxis grid of rays from a point
// above the model, spread across the model's footprint.
type PointSource struct {
	origin          pt.Vector
	targetReference pt.Vector
	raysPerAxis     int
	sideSize        float64
	energyPerRay    float64
	current         int
}

func NewPointSource(raysPerAxis int, sourcePower float64, model Model, params Params) (*PointSource, error) {
	if raysPerAxis <= 0 {
		return nil, ValidationError{
			Field:   "raysPerAxis",
			Message: fmt.Sprintf("cannot be equal or less than zero, got %d", raysPerAxis),
		}
	}
	if sourcePower < 0 {
		return nil, ValidationError{
			Field:   "sourcePower",
			Message: fmt.Sprintf("cannot be less than zero, got %v", sourcePower),
		}
	}
	if model == nil || model.Empty() {
		return nil, fmt.Errorf("building point source: %w", ErrEmptyModel)
	}

	// ISO 17497-2 places the source at least twice as high as the collector
	// array radius
	origin := V(0, 0, math.Max(params.SimulationHeight, params.SimulationHeight*model.Height()))
	side := model.SideSize()

	return &PointSource{
		origin:          origin,
		targetReference: V(-side, -side, model.Height()).Sub(origin),
		raysPerAxis:     raysPerAxis,
		sideSize:        side,
		energyPerRay:    sourcePower / float64(raysPerAxis*raysPerAxis),
	}, nil
}

// Next returns the next ray of the grid. Once every ray has been produced it
// returns false; the source never wraps around.
func (s *PointSource) Next() (Ray, bool) {
	if s.Remaining() == 0 {
		return Ray{}, false
	}
	ray := NewRay(s.origin, s.direction(s.current), s.energyPerRay)
	s.current++
	return ray, true
}

// Remaining is the number of rays Next will still produce
func (s *PointSource) Remaining() int {
	return s.raysPerAxis*s.raysPerAxis - s.current
}

func (s *PointSource) Origin() pt.Vector {
	return s.origin
}

func (s *PointSource) EnergyPerRay() float64 {
	return s.energyPerRay
}

// direction interpolates linearly over the footprint, x index first
func (s *PointSource) direction(index int) pt.Vector {
	if s.raysPerAxis == 1 {
		return V(0, 0, -1)
	}
	xIndex := index % s.raysPerAxis
	yIndex := index / s.raysPerAxis
	steps := float64(s.raysPerAxis - 1)

	u := 2 * float64(xIndex) / steps * s.sideSize
	v := 2 * float64(yIndex) / steps * s.sideSize
	return s.targetReference.Add(V(u, v, 0))
}

func (s *PointSource) String() string {
	return fmt.Sprintf("Point source origin: %s, rays per axis: %d, current ray: %d, energy per ray: %g, target reference direction: %s",
		formatVector(s.origin), s.raysPerAxis, s.current, s.energyPerRay, formatVector(s.targetReference))
}
