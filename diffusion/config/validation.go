package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jdginn/go-diffusion/diffusion"
)

// ValidationError is the config flavour of diffusion.ValidationError; Field
// is a dotted path into the YAML document
type ValidationError = diffusion.ValidationError

// Validation helper functions
func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be positive",
		}}
	}
	return nil
}

func validateNonNegative(field string, value float64) []ValidationError {
	if value < 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be non-negative",
		}}
	}
	return nil
}

func validateInRange(field string, value, min, max float64) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
		}}
	}
	return nil
}

// FormatValidationErrors groups errors by top-level section
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")

	categories := map[string][]ValidationError{}
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		categories[category] = append(categories[category], err)
	}
	names := make([]string, 0, len(categories))
	for category := range categories {
		names = append(names, category)
	}
	sort.Strings(names)

	for _, category := range names {
		b.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(category)))
		for _, err := range categories[category] {
			// Remove category prefix from field for cleaner display
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s\n", field, err.Message))
		}
	}

	return b.String()
}

// Validate performs validation on the entire configuration
func (c *ExperimentConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Input.Validate()...)
	errors = append(errors, c.Material.Validate()...)
	errors = append(errors, c.Simulation.Validate()...)
	errors = append(errors, c.Constants.Validate()...)
	return errors
}

// ValidateFiles checks that every file the config points at exists.
// Relative paths are taken relative to resolver's base directory.
func (c *ExperimentConfig) ValidateFiles(resolver *PathResolver) []ValidationError {
	var errors []ValidationError
	if c.Input.Mesh.Path != "" && !resolver.FileExists(c.Input.Mesh.Path) {
		errors = append(errors, ValidationError{
			Field:   "input.mesh.path",
			Message: fmt.Sprintf("file %q does not exist", c.Input.Mesh.Path),
		})
	}
	return errors
}

func (i *Input) Validate() []ValidationError {
	var errors []ValidationError

	hasMesh := i.Mesh.Path != ""
	hasReference := i.ReferenceModel.SideSize != 0
	switch {
	case hasMesh && hasReference:
		errors = append(errors, ValidationError{
			Field:   "input",
			Message: "only one of mesh.path and reference_model may be specified",
		})
	case !hasMesh && !hasReference:
		errors = append(errors, ValidationError{
			Field:   "input",
			Message: "either mesh.path or reference_model.side_size must be specified",
		})
	case hasReference:
		errors = append(errors, validatePositive("input.reference_model.side_size", i.ReferenceModel.SideSize)...)
	}
	errors = append(errors, validateNonNegative("input.mesh.scale", i.Mesh.Scale)...)

	return errors
}

func (m *Material) Validate() []ValidationError {
	var errors []ValidationError

	if m.Absorption == nil && m.FromFile == "" {
		errors = append(errors, ValidationError{
			Field:   "material",
			Message: "either absorption or from_file must be specified",
		})
		return errors
	}

	for frequency, alpha := range m.Absorption {
		errors = append(errors, validateNonNegative(fmt.Sprintf("material.absorption.%g", frequency), frequency)...)
		errors = append(errors, validateInRange(fmt.Sprintf("material.absorption.%g", frequency), alpha, 0, 1)...)
	}

	return errors
}

func (s *Simulation) Validate() []ValidationError {
	var errors []ValidationError
	for _, err := range s.Properties().Validate() {
		err.Field = "simulation." + err.Field
		errors = append(errors, err)
	}
	errors = append(errors, validateNonNegative("simulation.workers", float64(s.Workers))...)
	return errors
}

func (c *Constants) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validateNonNegative("constants.accuracy", c.Accuracy)...)
	errors = append(errors, validateNonNegative("constants.hit_accuracy", c.HitAccuracy)...)
	errors = append(errors, validateNonNegative("constants.sound_speed", c.SoundSpeed)...)
	errors = append(errors, validateNonNegative("constants.simulation_radius", c.SimulationRadius)...)
	errors = append(errors, validateNonNegative("constants.simulation_height", c.SimulationHeight)...)
	errors = append(errors, validateNonNegative("constants.wall_radius", c.WallRadius)...)
	errors = append(errors, validateNonNegative("constants.sample_rate", float64(c.SampleRate))...)
	if len(errors) > 0 {
		return errors
	}
	if err := c.Params().Validate(); err != nil {
		if ve, ok := err.(ValidationError); ok {
			ve.Field = "constants." + ve.Field
			return []ValidationError{ve}
		}
		return []ValidationError{{Field: "constants", Message: err.Error()}}
	}
	return nil
}
