package diffusion

import (
	"fmt"
	"math"
	"sort"

	"github.com/fogleman/pt/pt"
)

// EnergyCollector is a spherical sensor. Energy from rays that strike it is
// accumulated by arrival time, in seconds since emission.
type EnergyCollector struct {
	Sphere
	energy     map[float64]float64
	soundSpeed float64
}

func NewEnergyCollector(origin pt.Vector, radius float64, params Params) (*EnergyCollector, error) {
	s, err := NewSphere(origin, radius, params)
	if err != nil {
		return nil, fmt.Errorf("building energy collector: %w", err)
	}
	return &EnergyCollector{
		Sphere:     s,
		energy:     map[float64]float64{},
		soundSpeed: params.SoundSpeed,
	}, nil
}

// CollectEnergy records the hit's energy at the time the ray arrived. The
// ray's Traveled distance must cover every segment before the hit one.
func (c *EnergyCollector) CollectEnergy(hit HitRecord) error {
	return c.AddEnergy(hit.ArrivalTime(c.soundSpeed), hit.Energy())
}

// AddEnergy accumulates energy at the given arrival time
func (c *EnergyCollector) AddEnergy(time, energy float64) error {
	if err := checkTime(time); err != nil {
		return fmt.Errorf("adding energy to %s at %gs: %w", c, time, err)
	}
	if c.energy == nil {
		c.energy = map[float64]float64{}
	}
	c.energy[time] += energy
	return nil
}

func checkTime(time float64) error {
	switch {
	case math.IsNaN(time) || math.IsInf(time, 0):
		return ErrNonFiniteTime
	case time < 0:
		return ErrNegativeTime
	}
	return nil
}

// Energy returns a copy of the arrival time to energy mapping
func (c *EnergyCollector) Energy() map[float64]float64 {
	out := make(map[float64]float64, len(c.energy))
	for t, e := range c.energy {
		out[t] = e
	}
	return out
}

// Times returns the recorded arrival times in increasing order
func (c *EnergyCollector) Times() []float64 {
	times := make([]float64, 0, len(c.energy))
	for t := range c.energy {
		times = append(times, t)
	}
	sort.Float64s(times)
	return times
}

func (c *EnergyCollector) TotalEnergy() float64 {
	total := 0.0
	for _, e := range c.energy {
		total += e
	}
	return total
}

func (c *EnergyCollector) Reset() {
	c.energy = map[float64]float64{}
}

// DistanceAt returns the distance between the collector origin and point
func (c *EnergyCollector) DistanceAt(point pt.Vector) float64 {
	return c.Origin.Sub(point).Length()
}

func (c *EnergyCollector) String() string {
	return fmt.Sprintf("Energy Collector. Origin: %s, Radius: %g", formatVector(c.Origin), c.Radius)
}

// CollectorArray is an ordered ring of collectors around the world origin.
// Order is stable; exported visualizations refer to collectors by index.
type CollectorArray []*EnergyCollector

// quarter-arc azimuths, listed so that every coordinate is exact
var collectorAzimuths = []pt.Vector{V(1, 0, 0), V(0, 1, 0), V(-1, 0, 0), V(0, -1, 0)}

// BuildCollectors places numCollectors collectors on a sphere of radius
// params.SimulationRadius.
//
// Collectors are spread along four quarter-arcs rising from the horizon
// towards +Z at azimuths +X, +Y, -X and -Y, spaced by a central angle theta.
// Each collector's radius is the chord length for theta, so neighbours
// overlap and leave no gaps along the arcs.
//
// For an odd count one collector sits on the pole, theta is
// 2*pi/(numCollectors-1), and the highest arc collectors sit theta below it.
// For an even count there is no pole collector, theta is
// 2*pi/(numCollectors-2), and the two highest collectors of each great
// circle straddle the pole theta/2 either side of it.
func BuildCollectors(model Model, numCollectors int, params Params) (CollectorArray, error) {
	if model == nil || model.Empty() {
		return nil, fmt.Errorf("building collectors: %w", ErrEmptyModel)
	}
	if numCollectors < 4 {
		return nil, ValidationError{
			Field:   "numCollectors",
			Message: fmt.Sprintf("%d is less than 4", numCollectors),
		}
	}
	if numCollectors%4 != 0 && (numCollectors-1)%4 != 0 {
		return nil, ValidationError{
			Field:   "numCollectors",
			Message: fmt.Sprintf("numCollectors or numCollectors-1 has to be divisible by 4, got numCollectors = %d", numCollectors),
		}
	}

	R := params.SimulationRadius
	odd := numCollectors%2 == 1
	perArc := numCollectors / 4

	var theta float64
	if odd {
		theta = 2 * math.Pi / float64(numCollectors-1)
	} else {
		theta = 2 * math.Pi / float64(numCollectors-2)
	}
	radius := CollectorRadius(R, theta)

	collectors := make(CollectorArray, 0, numCollectors)
	add := func(origin pt.Vector) error {
		c, err := NewEnergyCollector(origin, radius, params)
		if err != nil {
			return err
		}
		collectors = append(collectors, c)
		return nil
	}

	if odd {
		if err := add(V(0, 0, R)); err != nil {
			return nil, err
		}
	}
	for _, azimuth := range collectorAzimuths {
		for k := 0; k < perArc; k++ {
			elevation := float64(k) * theta
			horizontal := R * math.Cos(elevation)
			origin := V(azimuth.X*horizontal, azimuth.Y*horizontal, R*math.Sin(elevation))
			if err := add(origin); err != nil {
				return nil, err
			}
		}
	}
	return collectors, nil
}

// CollectorRadius is the chord length between two points on a sphere of
// radius R separated by the central angle theta.
func CollectorRadius(R, theta float64) float64 {
	return R * math.Sqrt(2-2*math.Cos(theta))
}

// Hit returns the nearest collector hit along the ray and the index of the
// collector that was hit.
func (a CollectorArray) Hit(ray Ray, frequency float64) (HitRecord, int, bool) {
	nearest := HitRecord{Time: math.Inf(1)}
	index := -1
	for i, c := range a {
		if hit, ok := c.Hit(ray, frequency); ok && hit.Time < nearest.Time {
			nearest = hit
			index = i
		}
	}
	if index < 0 {
		return HitRecord{}, -1, false
	}
	return nearest, index, true
}

// TotalEnergy sums the energy recorded by every collector
func (a CollectorArray) TotalEnergy() float64 {
	total := 0.0
	for _, c := range a {
		total += c.TotalEnergy()
	}
	return total
}
