package diffusion

import (
	"fmt"

	"github.com/fogleman/pt/pt"
)

// V is a shorthand constructor for pt.Vector
func V(X, Y, Z float64) pt.Vector {
	return pt.Vector{X: X, Y: Y, Z: Z}
}

var (
	UnitX = V(1, 0, 0)
	UnitY = V(0, 1, 0)
	UnitZ = V(0, 0, 1)
)

// Normalize returns the unit vector pointing along v. pt.Vector.Normalize
// divides by zero on a zero vector, so that case is rejected here.
func Normalize(v pt.Vector) (pt.Vector, error) {
	if v.Length() == 0 {
		return pt.Vector{}, ErrZeroVector
	}
	return v.Normalize(), nil
}

func formatVector(v pt.Vector) string {
	return fmt.Sprintf("{%g, %g, %g}", v.X, v.Y, v.Z)
}
