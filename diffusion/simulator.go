package diffusion

import (
	"context"
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// SimulationProperties contains parameters to guide a simulation
type SimulationProperties struct {
	// Frequencies to simulate, processed in this order
	Frequencies []float64
	// Total energy emitted by the source per frequency
	SourcePower float64
	// Number of collectors in the array, see BuildCollectors
	NumCollectors int
	// The source emits RaysPerAxis^2 rays
	RaysPerAxis int
	// Maximum number of segments traced per ray
	MaxTracking int
	// Number of goroutines tracing rays. Values below 1 mean 1.
	Workers int
	// Record energy arriving at collectors straight from the source
	RecordDirectSound bool
	// Record the path of every ray on a TrackedRaysPerAxis^2 subgrid of the
	// source. 0 tracks nothing.
	TrackedRaysPerAxis int
}

func (p SimulationProperties) Validate() []ValidationError {
	var errors []ValidationError
	if len(p.Frequencies) == 0 {
		errors = append(errors, ValidationError{Field: "frequencies", Message: "cannot be empty"})
	}
	for _, f := range p.Frequencies {
		if f <= 0 {
			errors = append(errors, ValidationError{Field: "frequencies", Message: fmt.Sprintf("must be positive, got %v", f)})
		}
	}
	if p.SourcePower < 0 {
		errors = append(errors, ValidationError{Field: "sourcePower", Message: fmt.Sprintf("cannot be less than zero, got %v", p.SourcePower)})
	}
	if p.NumCollectors < 4 {
		errors = append(errors, ValidationError{Field: "numCollectors", Message: fmt.Sprintf("%d is less than 4", p.NumCollectors)})
	} else if p.NumCollectors%4 != 0 && (p.NumCollectors-1)%4 != 0 {
		errors = append(errors, ValidationError{Field: "numCollectors", Message: fmt.Sprintf("numCollectors or numCollectors-1 has to be divisible by 4, got numCollectors = %d", p.NumCollectors)})
	}
	if p.RaysPerAxis < 1 {
		errors = append(errors, ValidationError{Field: "raysPerAxis", Message: fmt.Sprintf("must be greater than 0, got %d", p.RaysPerAxis)})
	}
	if p.MaxTracking < 1 {
		errors = append(errors, ValidationError{Field: "maxTracking", Message: fmt.Sprintf("must be greater than 0, got %d", p.MaxTracking)})
	}
	if p.TrackedRaysPerAxis < 0 || p.TrackedRaysPerAxis > p.RaysPerAxis {
		errors = append(errors, ValidationError{Field: "trackedRaysPerAxis", Message: fmt.Sprintf("must be between 0 and raysPerAxis %d, got %d", p.RaysPerAxis, p.TrackedRaysPerAxis)})
	}
	return errors
}

// Simulator runs the ray tracing loop for every configured frequency.
type Simulator struct {
	model      Model
	absorption Absorption
	props      SimulationProperties
	params     Params
	wall       SphereWall
}

func NewSimulator(model Model, absorption Absorption, props SimulationProperties, params Params) (*Simulator, error) {
	if model == nil || model.Empty() {
		return nil, fmt.Errorf("building simulator: %w", ErrEmptyModel)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("building simulator: %w", err)
	}
	if errs := props.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("building simulator: %w", errs[0])
	}
	if err := ValidateEnclosure(model, params); err != nil {
		return nil, err
	}
	wall, err := NewSphereWall(params)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		model:      model,
		absorption: absorption,
		props:      props,
		params:     params,
		wall:       wall,
	}, nil
}

// ValidateEnclosure checks that the sphere wall encloses the point source
// that model gets, so every ray starts inside the simulated space.
func ValidateEnclosure(model Model, params Params) error {
	sourceHeight := math.Max(params.SimulationHeight, params.SimulationHeight*model.Height())
	if params.WallRadius <= sourceHeight {
		return ValidationError{
			Field:   "wallRadius",
			Message: fmt.Sprintf("must enclose the source at height %v, got %v", sourceHeight, params.WallRadius),
		}
	}
	return nil
}

// FrequencyRun holds the collectors filled at one frequency
type FrequencyRun struct {
	Frequency  float64
	Collectors CollectorArray
	Stats      TraceStats
	// Paths of the sampled rays, in ray order
	Trackings []Tracking
}

// Segment is one straight piece of a ray path, from its origin to the
// surface that ended it
type Segment struct {
	Origin    pt.Vector
	Direction pt.Vector
	Energy    float64
	Length    float64
}

// Tracking is the path of one sampled ray
type Tracking struct {
	Ray      int
	Segments []Segment
}

// isTracked reports whether ray index falls on the tracked subgrid
func (p SimulationProperties) isTracked(index int) bool {
	if p.TrackedRaysPerAxis < 1 {
		return false
	}
	step := p.RaysPerAxis / p.TrackedRaysPerAxis
	return (index%p.RaysPerAxis)%step == 0 && (index/p.RaysPerAxis)%step == 0
}

// TraceStats counts how the rays of one frequency ended
type TraceStats struct {
	Rays      int
	Collected int
	Escaped   int
	Exhausted int
}

// Run simulates every frequency in order. Each frequency gets a fresh point
// source and collector array, so no energy leaks between frequencies.
func (s *Simulator) Run(ctx context.Context) ([]FrequencyRun, error) {
	runs := make([]FrequencyRun, 0, len(s.props.Frequencies))
	for _, frequency := range s.props.Frequencies {
		run, err := s.RunFrequency(ctx, frequency)
		if err != nil {
			return nil, err
		}
		glog.Infof("%g Hz: %d rays, %d collected, %d escaped, %d exhausted, total energy %g",
			frequency, run.Stats.Rays, run.Stats.Collected, run.Stats.Escaped, run.Stats.Exhausted, run.Collectors.TotalEnergy())
		for i, c := range run.Collectors {
			glog.V(1).Infof("%g Hz: collector %d at %s received %g over %d arrivals", frequency, i, formatVector(c.Origin), c.TotalEnergy(), len(c.Times()))
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// CollectorsPerFrequency indexes runs by frequency, as GetResults expects
func CollectorsPerFrequency(runs []FrequencyRun) map[float64]CollectorArray {
	out := make(map[float64]CollectorArray, len(runs))
	for _, run := range runs {
		out[run.Frequency] = run.Collectors
	}
	return out
}

type ending int

const (
	endCollected ending = iota
	endEscaped
	endExhausted
)

type struck int

const (
	struckWall struck = iota
	struckTriangle
	struckCollector
)

// deposit is energy bound for one collector, kept per ray until every
// worker has finished so collectors have a single writer
type deposit struct {
	collector int
	time      float64
	energy    float64
}

type traced struct {
	deposits []deposit
	ending   ending
	segments []Segment
}

// RunFrequency traces every ray of a fresh point source at frequency.
func (s *Simulator) RunFrequency(ctx context.Context, frequency float64) (FrequencyRun, error) {
	source, err := NewPointSource(s.props.RaysPerAxis, s.props.SourcePower, s.model, s.params)
	if err != nil {
		return FrequencyRun{}, fmt.Errorf("building source at %g Hz: %w", frequency, err)
	}
	collectors, err := BuildCollectors(s.model, s.props.NumCollectors, s.params)
	if err != nil {
		return FrequencyRun{}, fmt.Errorf("building collectors at %g Hz: %w", frequency, err)
	}

	rays := make([]Ray, 0, source.Remaining())
	for ray, ok := source.Next(); ok; ray, ok = source.Next() {
		rays = append(rays, ray)
	}

	workers := s.props.Workers
	if workers < 1 {
		workers = 1
	}
	results := make([]traced, len(rays))
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			for i := w; i < len(rays); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = s.trace(rays[i], frequency, collectors, s.props.isTracked(i))
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return FrequencyRun{}, fmt.Errorf("tracing rays at %g Hz: %w", frequency, err)
	}

	stats := TraceStats{Rays: len(rays)}
	var trackings []Tracking
	for i, r := range results {
		// a path that never left the source is not worth drawing
		if len(r.segments) > 1 {
			trackings = append(trackings, Tracking{Ray: i, Segments: r.segments})
		}
		for _, d := range r.deposits {
			if err := collectors[d.collector].AddEnergy(d.time, d.energy); err != nil {
				return FrequencyRun{}, err
			}
		}
		switch r.ending {
		case endCollected:
			stats.Collected++
		case endEscaped:
			stats.Escaped++
		case endExhausted:
			stats.Exhausted++
		}
	}
	return FrequencyRun{Frequency: frequency, Collectors: collectors, Stats: stats, Trackings: trackings}, nil
}

// trace follows one ray until it reaches a collector, leaves through the
// sphere wall, or runs out of segments. It only reads shared state. With
// track set every segment that ends on a surface is recorded.
func (s *Simulator) trace(ray Ray, frequency float64, collectors CollectorArray, track bool) traced {
	var out traced
	record := func(hit HitRecord) {
		if track {
			out.segments = append(out.segments, Segment{
				Origin:    hit.Ray.Origin,
				Direction: hit.Ray.Direction,
				Energy:    hit.Ray.Power,
				Length:    hit.CollisionPoint().Sub(hit.Ray.Origin).Length(),
			})
		}
	}

	current := ray
	reflectance := s.absorption.Reflectance(frequency)
	for order := 0; order < s.props.MaxTracking; order++ {
		nearest, ok := s.wall.Hit(current, frequency)
		if !ok {
			nearest = HitRecord{Time: math.Inf(1)}
		}
		target := struckWall
		collector := -1

		if hit, _, ok := s.model.Hit(current, frequency); ok && hit.Time < nearest.Time {
			nearest = hit
			target = struckTriangle
		}
		if order > 0 || s.props.RecordDirectSound {
			if hit, i, ok := collectors.Hit(current, frequency); ok && hit.Time < nearest.Time {
				nearest = hit
				target = struckCollector
				collector = i
			}
		}

		switch target {
		case struckCollector:
			record(nearest)
			out.deposits = []deposit{{collector: collector, time: nearest.ArrivalTime(s.params.SoundSpeed), energy: nearest.Energy()}}
			out.ending = endCollected
			return out
		case struckWall:
			// left through the wall, or hit nothing at all
			if !math.IsInf(nearest.Time, 1) {
				record(nearest)
			}
			out.ending = endEscaped
			return out
		}

		record(nearest)
		// specular reflection off a model triangle
		d := current.Direction
		n := nearest.Normal
		current = Ray{
			Ray: pt.Ray{
				Origin:    nearest.CollisionPoint(),
				Direction: d.Sub(n.MulScalar(2 * d.Dot(n))),
			},
			Power:    current.Power * reflectance,
			Traveled: nearest.Distance(),
		}
	}
	out.ending = endExhausted
	return out
}

func (s *Simulator) String() string {
	return fmt.Sprintf("Simulator model: %v, frequencies: %v, collectors: %d, rays per axis: %d, max tracking: %d",
		s.model, s.props.Frequencies, s.props.NumCollectors, s.props.RaysPerAxis, s.props.MaxTracking)
}
