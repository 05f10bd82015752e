package diffusion

import (
	"fmt"

	"github.com/fogleman/pt/pt"
)

// Ray is a pt.Ray that carries acoustic energy
type Ray struct {
	pt.Ray
	// Energy carried by the ray
	Power float64
	// Distance in meters the ray travelled since emission, before Origin
	Traveled float64
}

// NewRay builds a ray leaving origin along direction. direction does not
// need to be unit length.
func NewRay(origin, direction pt.Vector, power float64) Ray {
	return Ray{
		Ray:   pt.Ray{Origin: origin, Direction: direction},
		Power: power,
	}
}

// At returns origin + direction*t
func (r Ray) At(t float64) pt.Vector {
	return r.Position(t)
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray origin: %s, direction: %s, power: %g", formatVector(r.Origin), formatVector(r.Direction), r.Power)
}

// HitRecord describes a successful ray intersection
type HitRecord struct {
	// Parametric distance along Ray at which the hit occurred
	Time float64
	// Unit normal at the collision point
	Normal pt.Vector
	// The ray that produced this hit
	Ray Ray
	// Frequency of the simulation the ray belongs to, in Hz
	Frequency float64
}

// CollisionPoint is the position of the hit
func (h HitRecord) CollisionPoint() pt.Vector {
	return h.Ray.At(h.Time)
}

// Energy carried by the ray when it hit
func (h HitRecord) Energy() float64 {
	return h.Ray.Power
}

// Distance is the total path length from emission to the collision point
func (h HitRecord) Distance() float64 {
	return h.Ray.Traveled + h.Time*h.Ray.Direction.Length()
}

// ArrivalTime is the time in seconds between emission and the hit
func (h HitRecord) ArrivalTime(soundSpeed float64) float64 {
	return h.Distance() / soundSpeed
}

func (h HitRecord) String() string {
	return fmt.Sprintf("HitRecord time: %g, collision: %s, normal: %s, frequency: %g Hz", h.Time, formatVector(h.CollisionPoint()), formatVector(h.Normal), h.Frequency)
}

// Hittable is implemented by every geometry a ray can be tested against.
// Hit never mutates the receiver or the ray.
type Hittable interface {
	Hit(ray Ray, frequency float64) (HitRecord, bool)
	String() string
}
