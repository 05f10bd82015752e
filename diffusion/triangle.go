package diffusion

import (
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

// Triangle is a flat-shaded, one-sided-normal triangle. Area, normal and
// centroid are cached and recomputed whenever the vertices change.
type Triangle struct {
	p1, p2, p3 pt.Vector

	area     float64
	normal   pt.Vector
	centroid pt.Vector

	accuracy    float64
	hitAccuracy float64
}

func NewTriangle(p1, p2, p3 pt.Vector, params Params) (Triangle, error) {
	t := Triangle{accuracy: params.Accuracy, hitAccuracy: params.HitAccuracy}
	if err := t.SetPoints(p1, p2, p3); err != nil {
		return Triangle{}, err
	}
	return t, nil
}

// SetPoints replaces all three vertices. On error the triangle is left
// unchanged.
func (t *Triangle) SetPoints(p1, p2, p3 pt.Vector) error {
	if err := validatePoints(p1, p2, p3, t.accuracy); err != nil {
		return err
	}
	t.p1, t.p2, t.p3 = p1, p2, p3
	t.refresh()
	return nil
}

func validatePoints(p1, p2, p3 pt.Vector, accuracy float64) error {
	if p1 == p2 || p1 == p3 || p2 == p3 {
		return ValidationError{
			Field:   "triangle",
			Message: fmt.Sprintf("one point is a duplicate of another: %s, %s, %s", formatVector(p1), formatVector(p2), formatVector(p3)),
		}
	}
	perpendicular := p1.Sub(p2).Cross(p1.Sub(p3))
	if area := perpendicular.Length() / 2; area < accuracy {
		return ValidationError{
			Field:   "triangle",
			Message: fmt.Sprintf("area of triangle is too small: %g", area),
		}
	}
	if perpendicular == (pt.Vector{}) {
		return ValidationError{
			Field:   "triangle",
			Message: fmt.Sprintf("points cannot be on the same line: %s, %s, %s", formatVector(p1), formatVector(p2), formatVector(p3)),
		}
	}
	return nil
}

func (t *Triangle) refresh() {
	perpendicular := t.p1.Sub(t.p2).Cross(t.p1.Sub(t.p3))
	t.area = perpendicular.Length() / 2
	t.normal = perpendicular.Normalize()
	t.centroid = t.p1.Add(t.p2).Add(t.p3).DivScalar(3)
}

func (t Triangle) Points() (pt.Vector, pt.Vector, pt.Vector) {
	return t.p1, t.p2, t.p3
}

func (t Triangle) Area() float64 {
	return t.area
}

func (t Triangle) Normal() pt.Vector {
	return t.normal
}

// Centroid is the triangle's origin
func (t Triangle) Centroid() pt.Vector {
	return t.centroid
}

// Equal reports whether both triangles share the same vertices, in any order
func (t Triangle) Equal(other Triangle) bool {
	mine := []pt.Vector{t.p1, t.p2, t.p3}
outer:
	for _, v := range []pt.Vector{other.p1, other.p2, other.p3} {
		for _, m := range mine {
			if m == v {
				continue outer
			}
		}
		return false
	}
	return true
}

// Hit intersects the ray with the triangle's plane, then checks the
// collision point against the triangle with the sub-triangle area method.
func (t Triangle) Hit(ray Ray, frequency float64) (HitRecord, bool) {
	parallel := ray.Direction.Dot(t.normal)
	if math.Abs(parallel) <= t.accuracy {
		return HitRecord{}, false
	}

	time := t.p3.Sub(ray.Origin).Dot(t.normal) / parallel
	if time < t.hitAccuracy {
		return HitRecord{}, false
	}

	if !t.contains(ray.At(time)) {
		return HitRecord{}, false
	}
	return HitRecord{
		Time:      time,
		Normal:    t.normal,
		Ray:       ray,
		Frequency: frequency,
	}, true
}

// contains assumes point lies on the triangle's plane
func (t Triangle) contains(point pt.Vector) bool {
	a := t.p1.Sub(point)
	b := t.p2.Sub(point)
	c := t.p3.Sub(point)

	alpha := b.Cross(c).Length() / 2
	beta := c.Cross(a).Length() / 2
	gamma := a.Cross(b).Length() / 2

	return alpha+beta+gamma <= t.area+t.hitAccuracy
}

func (t Triangle) String() string {
	return fmt.Sprintf("Triangle vertices: %s, %s, %s", formatVector(t.p1), formatVector(t.p2), formatVector(t.p3))
}
