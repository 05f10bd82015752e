package diffusion

import (
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSphere(t *testing.T, origin pt.Vector, radius float64) Sphere {
	t.Helper()
	s, err := NewSphere(origin, radius, DefaultParams())
	require.NoError(t, err)
	return s
}

func TestNewSphere(t *testing.T) {
	for _, radius := range []float64{0, -1} {
		_, err := NewSphere(V(0, 0, 0), radius, DefaultParams())
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	}
}

func TestSphereHit(t *testing.T) {
	assert := assert.New(t)
	hits := func(s Sphere, r Ray, wantTime float64, wantPoint pt.Vector) {
		t.Helper()
		hit, ok := s.Hit(r, 1000)
		require.True(t, ok, "%v should hit %v", r, s)
		assert.InDelta(wantTime, hit.Time, 1e-9)
		assert.InDelta(0, hit.CollisionPoint().Sub(wantPoint).Length(), 1e-9)
		assert.Equal(1000.0, hit.Frequency)
	}
	misses := func(s Sphere, r Ray) {
		t.Helper()
		_, ok := s.Hit(r, 1000)
		assert.False(ok, "%v should miss %v", r, s)
	}

	ahead := mustSphere(t, V(0, 0, 5), 1)
	hits(ahead, NewRay(V(0, 0, 0), V(0, 0, 1), 1), 4, V(0, 0, 4))
	// non-unit directions scale the parametric time
	hits(ahead, NewRay(V(0, 0, 0), V(0, 0, 2), 1), 2, V(0, 0, 4))
	// both roots negative
	misses(ahead, NewRay(V(0, 0, 0), V(0, 0, -1), 1))
	// negative discriminant
	misses(mustSphere(t, V(5, 5, 0), 1), NewRay(V(0, 0, 0), V(0, 0, 1), 1))
	misses(ahead, NewRay(V(0, 0, 0), V(0, 0, 0), 1))

	// from inside the ray leaves through the far side
	around := mustSphere(t, V(0, 0, 0), 2)
	hits(around, NewRay(V(0, 0, 0), V(1, 0, 0), 1), 2, V(2, 0, 0))
	// a root at the ray origin is the ray's own surface, whichever way it points
	misses(around, NewRay(V(2, 0, 0), V(1, 0, 0), 1))
	misses(around, NewRay(V(2, 0, 0), V(-1, 0, 0), 1))
}

func TestSphereNormal(t *testing.T) {
	s := mustSphere(t, V(0, 0, 5), 1)
	hit, ok := s.Hit(NewRay(V(0, 0, 0), V(0, 0, 1), 1), 500)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Normal.Sub(V(0, 0, -1)).Length(), 1e-12)
}

func TestSphereWall(t *testing.T) {
	params := DefaultParams()
	w, err := NewSphereWall(params)
	require.NoError(t, err)
	assert.Equal(t, params.WallRadius, w.Radius)

	hit, ok := w.Hit(NewRay(V(0, 0, 8), V(0, 0, -1), 1), 1000)
	require.True(t, ok)
	assert.InDelta(t, 8+params.WallRadius, hit.Time, 1e-9)
}
