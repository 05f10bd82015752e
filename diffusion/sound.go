package diffusion

import (
	"math"
)

// Reference offset for converting integrated energy to dB
const REFERENCE_LEVEL_DB = 120.0

func toDB(energy float64) float64 {
	return 10 * math.Log10(energy)
}

// PressureToDecibels converts an integrated energy to a sound pressure
// level. Zero or negative energy maps to 0 dB.
func PressureToDecibels(total float64) float64 {
	if total > 0 {
		return REFERENCE_LEVEL_DB + toDB(total)
	}
	return 0
}
