package diffusion

import (
	"errors"
	"fmt"
)

// Params holds the physical and numeric constants shared by every component
// of a simulation. It is passed by value and never mutated after
// construction.
type Params struct {
	// Tolerance used to reject self-intersections and near-parallel rays
	Accuracy float64
	// Minimum hit time for triangles, slightly larger than Accuracy so that a
	// reflected ray does not immediately re-hit its own surface
	HitAccuracy float64
	// Speed of sound in m/s
	SoundSpeed float64
	// Radius of the collector array, in meters
	SimulationRadius float64
	// Minimum height of the point source, in meters. ISO 17497-2 asks for at
	// least twice the collector array radius.
	SimulationHeight float64
	// Radius of the enclosing sphere wall, in meters
	WallRadius float64
	// Sample rate used to rebuild collector signals, in Hz
	SampleRate int
}

const (
	ACCURACY          = 0.00000001
	HIT_ACCURACY      = 0.0001
	SPEED_OF_SOUND    = 343.216 // 20'C at 1000 hPa
	SIMULATION_RADIUS = 4.0
	SAMPLE_RATE       = 96_000
	COLLECTORS        = 37
)

// DefaultParams returns the constants used by the reference simulation.
func DefaultParams() Params {
	return Params{
		Accuracy:         ACCURACY,
		HitAccuracy:      HIT_ACCURACY,
		SoundSpeed:       SPEED_OF_SOUND,
		SimulationRadius: SIMULATION_RADIUS,
		SimulationHeight: 2 * SIMULATION_RADIUS,
		WallRadius:       4 * SIMULATION_RADIUS,
		SampleRate:       SAMPLE_RATE,
	}
}

// Validate checks that every constant is usable.
func (p Params) Validate() error {
	switch {
	case p.Accuracy <= 0:
		return ValidationError{Field: "accuracy", Message: fmt.Sprintf("must be positive, got %v", p.Accuracy)}
	case p.HitAccuracy <= 0:
		return ValidationError{Field: "hitAccuracy", Message: fmt.Sprintf("must be positive, got %v", p.HitAccuracy)}
	case p.SoundSpeed <= 0:
		return ValidationError{Field: "soundSpeed", Message: fmt.Sprintf("must be positive, got %v", p.SoundSpeed)}
	case p.SimulationRadius <= 0:
		return ValidationError{Field: "simulationRadius", Message: fmt.Sprintf("must be positive, got %v", p.SimulationRadius)}
	case p.SimulationHeight < 2*p.SimulationRadius:
		return ValidationError{Field: "simulationHeight", Message: fmt.Sprintf("must be at least twice the simulation radius %v, got %v", p.SimulationRadius, p.SimulationHeight)}
	case p.WallRadius <= p.SimulationRadius:
		return ValidationError{Field: "wallRadius", Message: fmt.Sprintf("must exceed the simulation radius %v, got %v", p.SimulationRadius, p.WallRadius)}
	case p.SampleRate <= 0:
		return ValidationError{Field: "sampleRate", Message: fmt.Sprintf("must be positive, got %d", p.SampleRate)}
	}
	return nil
}

// ValidationError reports which invariant a constructor rejected, and why.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	ErrZeroVector       = errors.New("cannot normalize a zero-length vector")
	ErrNegativeTime     = errors.New("time cannot be negative")
	ErrNonFiniteTime    = errors.New("time must be finite")
	ErrEmptyModel       = errors.New("model cannot be empty")
	ErrDegenerateLevels = errors.New("sound pressure levels are degenerate")
)
