package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MeshData is render geometry handed over by the scene side. Indices holds
// three entries per triangle; Normals and Materials are optional.
type MeshData struct {
	Name      string
	Vertices  []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []int
	Materials []string
}

// Bounds returns the axis-aligned bounds of the vertices.
func (m *MeshData) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	if m == nil || len(m.Vertices) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	return boundsOf(m.Vertices)
}

func boundsOf(verts []mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	lo := verts[0]
	hi := verts[0]
	for _, v := range verts[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], v[i])
			hi[i] = math.Max(hi[i], v[i])
		}
	}
	return lo, hi
}

// TriangleMesh is an exact collision shape built from triangles.
type TriangleMesh struct {
	vertices  []mgl64.Vec3
	normals   []mgl64.Vec3
	tris      [][3]int
	materials []string
	lo, hi    mgl64.Vec3
}

// NewTriangleMesh scales data by scale and builds per-vertex normals when
// the data carries none. Degenerate index lists are truncated to whole
// triangles and out-of-range triangles are skipped.
func NewTriangleMesh(data *MeshData, scale mgl64.Vec3) *TriangleMesh {
	tm := &TriangleMesh{}
	if data == nil || len(data.Vertices) == 0 {
		return tm
	}
	tm.vertices = make([]mgl64.Vec3, len(data.Vertices))
	for i, v := range data.Vertices {
		tm.vertices[i] = mgl64.Vec3{v[0] * scale[0], v[1] * scale[1], v[2] * scale[2]}
	}
	n := len(data.Indices) / 3
	for t := 0; t < n; t++ {
		tri := [3]int{data.Indices[3*t], data.Indices[3*t+1], data.Indices[3*t+2]}
		if !tm.inRange(tri) {
			continue
		}
		tm.tris = append(tm.tris, tri)
		name := ""
		if t < len(data.Materials) {
			name = data.Materials[t]
		}
		tm.materials = append(tm.materials, name)
	}
	if len(data.Normals) == len(data.Vertices) {
		tm.normals = make([]mgl64.Vec3, len(data.Normals))
		for i, nv := range data.Normals {
			tm.normals[i] = safeNormalize(nv)
		}
	} else {
		tm.computeNormals()
	}
	tm.lo, tm.hi = boundsOf(tm.vertices)
	return tm
}

func (tm *TriangleMesh) inRange(tri [3]int) bool {
	for _, idx := range tri {
		if idx < 0 || idx >= len(tm.vertices) {
			return false
		}
	}
	return true
}

func (tm *TriangleMesh) computeNormals() {
	tm.normals = make([]mgl64.Vec3, len(tm.vertices))
	for _, tri := range tm.tris {
		face := tm.faceNormal(tri)
		for _, idx := range tri {
			tm.normals[idx] = tm.normals[idx].Add(face)
		}
	}
	for i := range tm.normals {
		tm.normals[i] = safeNormalize(tm.normals[i])
	}
}

func (tm *TriangleMesh) faceNormal(tri [3]int) mgl64.Vec3 {
	a, b, c := tm.vertices[tri[0]], tm.vertices[tri[1]], tm.vertices[tri[2]]
	return safeNormalize(b.Sub(a).Cross(c.Sub(a)))
}

func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.tris)
}

// Material returns the material name of triangle i.
func (tm *TriangleMesh) Material(i int) string {
	if i < 0 || i >= len(tm.materials) {
		return ""
	}
	return tm.materials[i]
}

func (tm *TriangleMesh) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return tm.lo, tm.hi
}

// rayTest finds the closest triangle hit on the segment from→to.
func (tm *TriangleMesh) rayTest(from, to mgl64.Vec3, interpolate bool) (shapeHit, bool) {
	dir := to.Sub(from)
	best := shapeHit{Fraction: math.Inf(1), Triangle: -1}
	for i, tri := range tm.tris {
		t, u, v, ok := intersectTriangle(from, dir, tm.vertices[tri[0]], tm.vertices[tri[1]], tm.vertices[tri[2]])
		if !ok || t >= best.Fraction {
			continue
		}
		best.Fraction = t
		best.Triangle = i
		best.u, best.v = u, v
	}
	if best.Triangle < 0 {
		return shapeHit{}, false
	}
	tri := tm.tris[best.Triangle]
	best.Point = from.Add(dir.Mul(best.Fraction))
	if interpolate {
		n0, n1, n2 := tm.normals[tri[0]], tm.normals[tri[1]], tm.normals[tri[2]]
		w := 1 - best.u - best.v
		best.Normal = safeNormalize(n0.Mul(w).Add(n1.Mul(best.u)).Add(n2.Mul(best.v)))
	} else {
		best.Normal = tm.faceNormal(tri)
	}
	if best.Normal.Dot(dir) > 0 {
		best.Normal = best.Normal.Mul(-1)
	}
	return best, true
}

const rayEpsilon = 1e-12

// intersectTriangle is the Möller–Trumbore segment test. t is the fraction
// along dir; u, v are the barycentric weights of b and c.
func intersectTriangle(origin, dir, a, b, c mgl64.Vec3) (t, u, v float64, ok bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < rayEpsilon {
		return 0, 0, 0, false
	}
	inv := 1 / det
	s := origin.Sub(a)
	u = s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(e1)
	v = dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	t = e2.Dot(q) * inv
	if t < 0 || t > 1 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < rayEpsilon {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// MeshCache shares exact collision meshes between objects using the same
// geometry at the same scale.
type MeshCache struct {
	meshes map[meshKey]*TriangleMesh
}

type meshKey struct {
	name  string
	scale mgl64.Vec3
}

func NewMeshCache() *MeshCache {
	return &MeshCache{meshes: make(map[meshKey]*TriangleMesh)}
}

// Get returns the cached mesh for data, building it on first use. Unnamed
// meshes are never cached.
func (c *MeshCache) Get(data *MeshData, scale mgl64.Vec3) *TriangleMesh {
	if c == nil || data == nil || data.Name == "" {
		return NewTriangleMesh(data, scale)
	}
	key := meshKey{name: data.Name, scale: scale}
	if tm, ok := c.meshes[key]; ok {
		return tm
	}
	tm := NewTriangleMesh(data, scale)
	c.meshes[key] = tm
	return tm
}

func (c *MeshCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.meshes)
}
