package diffusion

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/pt/pt"
	"github.com/golang/glog"
	"github.com/hpinc/go3mf"
)

// Model is the sample under test. It stands on the z = 0 plane, centered on
// the Z axis.
type Model interface {
	Triangles() []Triangle
	Height() float64
	SideSize() float64
	Empty() bool
	// Hit returns the nearest triangle hit and the triangle's index
	Hit(ray Ray, frequency float64) (HitRecord, int, bool)
}

// Mesh stores its triangles contiguously; other structures refer to a
// triangle by its index.
type Mesh struct {
	triangles []Triangle
	height    float64
	sideSize  float64
}

// NewMesh builds a model from triangles and derives its height and side size
// from their bounds.
func NewMesh(triangles []Triangle) *Mesh {
	m := &Mesh{triangles: triangles}
	for _, t := range triangles {
		p1, p2, p3 := t.Points()
		for _, p := range []pt.Vector{p1, p2, p3} {
			m.height = math.Max(m.height, p.Z)
			m.sideSize = math.Max(m.sideSize, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	return m
}

// NewReferenceModel builds the flat square plate, spanning [-sideSize,
// sideSize] on X and Y, that measured samples are compared against.
func NewReferenceModel(sideSize float64, params Params) (*Mesh, error) {
	if sideSize <= 0 {
		return nil, ValidationError{Field: "sideSize", Message: fmt.Sprintf("must be positive, got %v", sideSize)}
	}
	s := sideSize
	t1, err := NewTriangle(V(-s, -s, 0), V(s, -s, 0), V(s, s, 0), params)
	if err != nil {
		return nil, err
	}
	t2, err := NewTriangle(V(-s, -s, 0), V(s, s, 0), V(-s, s, 0), params)
	if err != nil {
		return nil, err
	}
	m := NewMesh([]Triangle{t1, t2})
	return m, nil
}

// LoadModel reads a mesh from an .obj, .stl or .3mf file. Coordinates are
// divided by scale, so a file in millimeters wants a scale of 1000.
// Degenerate triangles are skipped.
func LoadModel(path string, scale float64, params Params) (*Mesh, error) {
	if scale <= 0 {
		return nil, ValidationError{Field: "scale", Message: fmt.Sprintf("must be positive, got %v", scale)}
	}

	var vertices [][3]pt.Vector
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		vertices, err = loadPT(pt.LoadOBJ(path, pt.Material{}))
	case ".stl":
		vertices, err = loadPT(pt.LoadSTL(path, pt.Material{}))
	case ".3mf":
		vertices, err = load3MF(path)
	default:
		return nil, fmt.Errorf("loading model %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}

	triangles := make([]Triangle, 0, len(vertices))
	for i, v := range vertices {
		t, err := NewTriangle(v[0].DivScalar(scale), v[1].DivScalar(scale), v[2].DivScalar(scale), params)
		if err != nil {
			glog.Warningf("skipping triangle %d of %s: %v", i, path, err)
			continue
		}
		triangles = append(triangles, t)
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("loading model %s: %w", path, ErrEmptyModel)
	}
	glog.V(1).Infof("loaded %d of %d triangles from %s", len(triangles), len(vertices), path)
	return NewMesh(triangles), nil
}

func loadPT(mesh *pt.Mesh, err error) ([][3]pt.Vector, error) {
	if err != nil {
		return nil, err
	}
	out := make([][3]pt.Vector, 0, len(mesh.Triangles))
	for _, t := range mesh.Triangles {
		out = append(out, [3]pt.Vector{t.V1, t.V2, t.V3})
	}
	return out, nil
}

func load3MF(path string) ([][3]pt.Vector, error) {
	var model go3mf.Model
	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding 3mf: %w", err)
	}

	var out [][3]pt.Vector
	for _, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		vertex := func(i uint32) pt.Vector {
			v := obj.Mesh.Vertices.Vertex[i]
			return V(float64(v.X()), float64(v.Y()), float64(v.Z()))
		}
		for _, t := range obj.Mesh.Triangles.Triangle {
			out = append(out, [3]pt.Vector{vertex(t.V1), vertex(t.V2), vertex(t.V3)})
		}
	}
	return out, nil
}

func (m *Mesh) Triangles() []Triangle {
	return m.triangles
}

// Triangle returns the triangle stored at index i
func (m *Mesh) Triangle(i int) *Triangle {
	return &m.triangles[i]
}

func (m *Mesh) Height() float64 {
	return m.height
}

func (m *Mesh) SideSize() float64 {
	return m.sideSize
}

func (m *Mesh) Empty() bool {
	return len(m.triangles) == 0
}

func (m *Mesh) Hit(ray Ray, frequency float64) (HitRecord, int, bool) {
	nearest := HitRecord{Time: math.Inf(1)}
	index := -1
	for i := range m.triangles {
		if hit, ok := m.triangles[i].Hit(ray, frequency); ok && hit.Time < nearest.Time {
			nearest = hit
			index = i
		}
	}
	if index < 0 {
		return HitRecord{}, -1, false
	}
	return nearest, index, true
}

// ToPT converts the model to a pt.Mesh, e.g. to save it as STL
func (m *Mesh) ToPT() *pt.Mesh {
	triangles := make([]*pt.Triangle, 0, len(m.triangles))
	for _, t := range m.triangles {
		p1, p2, p3 := t.Points()
		ptTri := pt.NewTriangle(p1, p2, p3, pt.Vector{}, pt.Vector{}, pt.Vector{}, pt.Material{})
		triangles = append(triangles, ptTri)
	}
	return pt.NewMesh(triangles)
}

func (m *Mesh) String() string {
	return fmt.Sprintf("Mesh: %d triangles, height: %g [m], side size: %g [m]", len(m.triangles), m.height, m.sideSize)
}
