package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Shape is a collision shape centered on its body origin.
type Shape interface {
	Type() BodyType
	// Bounds returns the body-space axis-aligned bounds.
	Bounds() (mgl64.Vec3, mgl64.Vec3)
	// RayTest intersects a body-space segment with the shape.
	RayTest(from, to mgl64.Vec3, interpolate bool) (shapeHit, bool)

	footprint(body *cp.Body) *cp.Shape
	moment(mass float64) float64
}

type shapeHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Fraction float64
	Triangle int

	u, v float64
}

// planar maps a body-space X/Z pair onto the simulator plane.
func planar(x, z float64) cp.Vector {
	return cp.Vector{X: x, Y: z}
}

// startInside reports a hit at the ray origin for segments that begin
// inside a solid shape.
func startInside(from, to mgl64.Vec3) shapeHit {
	return shapeHit{Point: from, Normal: safeNormalize(from.Sub(to)), Fraction: 0, Triangle: -1}
}

type SphereShape struct {
	Radius float64
}

func (s *SphereShape) Type() BodyType { return BodySphere }

func (s *SphereShape) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	r := s.Radius
	return mgl64.Vec3{-r, -r, -r}, mgl64.Vec3{r, r, r}
}

func (s *SphereShape) RayTest(from, to mgl64.Vec3, _ bool) (shapeHit, bool) {
	r2 := s.Radius * s.Radius
	c := from.Dot(from) - r2
	if c <= 0 {
		return startInside(from, to), true
	}
	d := to.Sub(from)
	a := d.Dot(d)
	if a < rayEpsilon {
		return shapeHit{}, false
	}
	b := 2 * from.Dot(d)
	disc := b*b - 4*a*c
	if disc < 0 {
		return shapeHit{}, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return shapeHit{}, false
	}
	p := from.Add(d.Mul(t))
	return shapeHit{Point: p, Normal: safeNormalize(p), Fraction: t, Triangle: -1}, true
}

func (s *SphereShape) footprint(body *cp.Body) *cp.Shape {
	return cp.NewCircle(body, s.Radius, cp.Vector{})
}

func (s *SphereShape) moment(mass float64) float64 {
	return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
}

type BoxShape struct {
	HalfExtents mgl64.Vec3
}

func (b *BoxShape) Type() BodyType { return BodyBox }

func (b *BoxShape) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return b.HalfExtents.Mul(-1), b.HalfExtents
}

func (b *BoxShape) RayTest(from, to mgl64.Vec3, _ bool) (shapeHit, bool) {
	h := b.HalfExtents
	if math.Abs(from[0]) <= h[0] && math.Abs(from[1]) <= h[1] && math.Abs(from[2]) <= h[2] {
		return startInside(from, to), true
	}
	d := to.Sub(from)
	tEnter, tExit := 0.0, 1.0
	enterAxis := -1
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < rayEpsilon {
			if from[i] < -h[i] || from[i] > h[i] {
				return shapeHit{}, false
			}
			continue
		}
		t1 := (-h[i] - from[i]) / d[i]
		t2 := (h[i] - from[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
			enterAxis = i
		}
		tExit = math.Min(tExit, t2)
		if tEnter > tExit {
			return shapeHit{}, false
		}
	}
	if enterAxis < 0 {
		return shapeHit{}, false
	}
	var n mgl64.Vec3
	if d[enterAxis] > 0 {
		n[enterAxis] = -1
	} else {
		n[enterAxis] = 1
	}
	return shapeHit{Point: from.Add(d.Mul(tEnter)), Normal: n, Fraction: tEnter, Triangle: -1}, true
}

func (b *BoxShape) footprint(body *cp.Body) *cp.Shape {
	return cp.NewBox(body, 2*b.HalfExtents[0], 2*b.HalfExtents[2], 0)
}

func (b *BoxShape) moment(mass float64) float64 {
	return cp.MomentForBox(mass, 2*b.HalfExtents[0], 2*b.HalfExtents[2])
}

const roundSegments = 24

// RoundShape is a cylinder or a cone along one principal axis. The cone apex
// points to the positive end of the axis. Ray tests run against a
// tessellated surface.
type RoundShape struct {
	Kind   BodyType
	Radius float64
	Height float64

	surface *TriangleMesh
}

func newRoundShape(kind BodyType, radius, height float64) *RoundShape {
	s := &RoundShape{Kind: kind, Radius: radius, Height: height}
	s.surface = s.tessellate()
	return s
}

func (s *RoundShape) Type() BodyType { return s.Kind }

func (s *RoundShape) isCone() bool {
	return s.Kind == BodyConeX || s.Kind == BodyConeY || s.Kind == BodyConeZ
}

// local builds a body-space point from axial and radial coordinates.
func (s *RoundShape) local(axial, u, w float64) mgl64.Vec3 {
	switch s.Kind.axis() {
	case 0:
		return mgl64.Vec3{axial, w, u}
	case 2:
		return mgl64.Vec3{w, u, axial}
	default:
		return mgl64.Vec3{u, axial, w}
	}
}

func (s *RoundShape) split(p mgl64.Vec3) (axial, radial float64) {
	switch s.Kind.axis() {
	case 0:
		return p[0], math.Hypot(p[1], p[2])
	case 2:
		return p[2], math.Hypot(p[0], p[1])
	default:
		return p[1], math.Hypot(p[0], p[2])
	}
}

func (s *RoundShape) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	half := s.Height / 2
	return s.local(-half, -s.Radius, -s.Radius), s.local(half, s.Radius, s.Radius)
}

func (s *RoundShape) contains(p mgl64.Vec3) bool {
	half := s.Height / 2
	axial, radial := s.split(p)
	if axial < -half || axial > half {
		return false
	}
	if !s.isCone() {
		return radial <= s.Radius
	}
	return radial <= s.Radius*(half-axial)/s.Height
}

func (s *RoundShape) tessellate() *TriangleMesh {
	half := s.Height / 2
	data := &MeshData{}
	bottomCenter := len(data.Vertices)
	data.Vertices = append(data.Vertices, s.local(-half, 0, 0))
	top := len(data.Vertices)
	data.Vertices = append(data.Vertices, s.local(half, 0, 0))
	ring := len(data.Vertices)
	for i := 0; i < roundSegments; i++ {
		a := 2 * math.Pi * float64(i) / roundSegments
		u, w := s.Radius*math.Cos(a), s.Radius*math.Sin(a)
		data.Vertices = append(data.Vertices, s.local(-half, u, w))
		if !s.isCone() {
			data.Vertices = append(data.Vertices, s.local(half, u, w))
		}
	}
	stride := 2
	if s.isCone() {
		stride = 1
	}
	for i := 0; i < roundSegments; i++ {
		j := (i + 1) % roundSegments
		b0 := ring + i*stride
		b1 := ring + j*stride
		// wound counter-clockwise seen from outside
		data.Indices = append(data.Indices, bottomCenter, b0, b1)
		if s.isCone() {
			data.Indices = append(data.Indices, b0, top, b1)
			continue
		}
		t0, t1 := b0+1, b1+1
		data.Indices = append(data.Indices, top, t1, t0)
		data.Indices = append(data.Indices, b0, t1, b1, b0, t0, t1)
	}
	return NewTriangleMesh(data, mgl64.Vec3{1, 1, 1})
}

func (s *RoundShape) RayTest(from, to mgl64.Vec3, interpolate bool) (shapeHit, bool) {
	if s.contains(from) {
		return startInside(from, to), true
	}
	return s.surface.rayTest(from, to, interpolate)
}

func (s *RoundShape) footprint(body *cp.Body) *cp.Shape {
	switch s.Kind.axis() {
	case 0:
		return cp.NewBox(body, s.Height, 2*s.Radius, 0)
	case 2:
		return cp.NewBox(body, 2*s.Radius, s.Height, 0)
	default:
		return cp.NewCircle(body, s.Radius, cp.Vector{})
	}
}

func (s *RoundShape) moment(mass float64) float64 {
	switch s.Kind.axis() {
	case 0:
		return cp.MomentForBox(mass, s.Height, 2*s.Radius)
	case 2:
		return cp.MomentForBox(mass, 2*s.Radius, s.Height)
	default:
		return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
	}
}

// MeshShape wraps an exact triangle mesh.
type MeshShape struct {
	Mesh *TriangleMesh
}

func (m *MeshShape) Type() BodyType { return BodyExact }

func (m *MeshShape) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return m.Mesh.Bounds()
}

func (m *MeshShape) RayTest(from, to mgl64.Vec3, interpolate bool) (shapeHit, bool) {
	return m.Mesh.rayTest(from, to, interpolate)
}

func (m *MeshShape) footprint(body *cp.Body) *cp.Shape {
	verts := make([]cp.Vector, 0, len(m.Mesh.vertices))
	for _, v := range m.Mesh.vertices {
		verts = append(verts, planar(v[0], v[2]))
	}
	lo, hi := m.Mesh.Bounds()
	w, d := hi[0]-lo[0], hi[2]-lo[2]
	if len(verts) < 3 || w < rayEpsilon || d < rayEpsilon {
		// flat or empty in the plane: keep a thin box so the body stays solid
		return cp.NewBox(body, math.Max(w, 0.01), math.Max(d, 0.01), 0)
	}
	return cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
}

func (m *MeshShape) moment(mass float64) float64 {
	lo, hi := m.Mesh.Bounds()
	return cp.MomentForBox(mass, math.Max(hi[0]-lo[0], 0.01), math.Max(hi[2]-lo[2], 0.01))
}
