package diffusion

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

type Sphere struct {
	Origin   pt.Vector
	Radius   float64
	accuracy float64
}

func NewSphere(origin pt.Vector, radius float64, params Params) (Sphere, error) {
	if radius <= 0 {
		return Sphere{}, ValidationError{Field: "radius", Message: fmt.Sprintf("sphere radius must be positive, got %v", radius)}
	}
	return Sphere{Origin: origin, Radius: radius, accuracy: params.Accuracy}, nil
}

// NormalAt returns the outward unit normal at a point on the surface
func (s Sphere) NormalAt(surfacePoint pt.Vector) pt.Vector {
	return surfacePoint.Sub(s.Origin).DivScalar(s.Radius)
}

// Hit solves |o + t*d - c|^2 = r^2 for t.
//
// A ray starting inside the sphere hits on its way out. A ray starting
// outside hits at the nearer root. Roots within accuracy of zero are the
// ray's own starting surface and are ignored.
func (s Sphere) Hit(ray Ray, frequency float64) (HitRecord, bool) {
	offset := ray.Origin.Sub(s.Origin)

	alpha := ray.Direction.Dot(ray.Direction)
	if alpha == 0 {
		return HitRecord{}, false
	}
	beta := 2 * offset.Dot(ray.Direction)
	gamma := offset.Dot(offset) - s.Radius*s.Radius
	discriminant := beta*beta - 4*alpha*gamma
	if discriminant < 0 {
		return HitRecord{}, false
	}

	root := math.Sqrt(discriminant)
	time1 := (-beta - root) / (2 * alpha)
	time2 := (-beta + root) / (2 * alpha)

	var time float64
	switch {
	case time1 < -s.accuracy && time2 > s.accuracy:
		time = time2
	case time1 > s.accuracy && time2 > s.accuracy:
		time = math.Min(time1, time2)
	default:
		return HitRecord{}, false
	}

	return HitRecord{
		Time:      time,
		Normal:    s.NormalAt(ray.At(time)),
		Ray:       ray,
		Frequency: frequency,
	}, true
}

func (s Sphere) String() string {
	return fmt.Sprintf("Sphere origin: %s, radius: %g [m]", formatVector(s.Origin), s.Radius)
}

// SphereWall is the enclosure every ray eventually escapes through. It is
// always centered on the world origin.
type SphereWall struct {
	Sphere
}

func NewSphereWall(params Params) (SphereWall, error) {
	s, err := NewSphere(pt.Vector{}, params.WallRadius, params)
	if err != nil {
		return SphereWall{}, fmt.Errorf("building sphere wall: %w", err)
	}
	return SphereWall{s}, nil
}

func (w SphereWall) String() string {
	return fmt.Sprintf("SphereWall origin: %s, radius: %g [m]", formatVector(w.Origin), w.Radius)
}
