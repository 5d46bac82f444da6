package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriangleMeshSkipsBrokenTriangles(t *testing.T) {
	data := &MeshData{
		Vertices:  []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}},
		Indices:   []int{0, 1, 2, 0, 1, 7, 2, 1},
		Materials: []string{"asphalt", "grass"},
	}
	tm := NewTriangleMesh(data, mgl64.Vec3{2, 2, 2})

	assert.Equal(t, 1, tm.TriangleCount())
	assert.Equal(t, "asphalt", tm.Material(0))
	assert.Equal(t, "", tm.Material(1))
	assert.Equal(t, "", tm.Material(-1))

	lo, hi := tm.Bounds()
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, lo)
	assert.Equal(t, mgl64.Vec3{2, 0, 2}, hi)
}

func TestTriangleMeshEmpty(t *testing.T) {
	tm := NewTriangleMesh(nil, mgl64.Vec3{1, 1, 1})
	assert.Equal(t, 0, tm.TriangleCount())
	_, ok := tm.rayTest(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}, false)
	assert.False(t, ok)
}

func TestTriangleMeshRayTest(t *testing.T) {
	tm := NewTriangleMesh(cubeMesh("cube", 1), mgl64.Vec3{1, 1, 1})

	cases := []struct {
		name     string
		from, to mgl64.Vec3
		hit      bool
		fraction float64
		normal   mgl64.Vec3
	}{
		{"top_down", mgl64.Vec3{0.3, 3, 0.2}, mgl64.Vec3{0.3, -3, 0.2}, true, 2.0 / 6, mgl64.Vec3{0, 1, 0}},
		{"right_to_left", mgl64.Vec3{4, 0.1, 0.3}, mgl64.Vec3{-4, 0.1, 0.3}, true, 3.0 / 8, mgl64.Vec3{1, 0, 0}},
		{"stops_short", mgl64.Vec3{0.3, 3, 0.2}, mgl64.Vec3{0.3, 1.5, 0.2}, false, 0, mgl64.Vec3{}},
		{"passes_beside", mgl64.Vec3{2, 3, 0}, mgl64.Vec3{2, -3, 0}, false, 0, mgl64.Vec3{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := tm.rayTest(c.from, c.to, false)
			require.Equal(t, c.hit, ok)
			if !ok {
				return
			}
			assert.InDelta(t, c.fraction, hit.Fraction, 1e-12)
			assert.True(t, hit.Normal.ApproxEqual(c.normal), "normal %v", hit.Normal)
		})
	}
}

func TestTriangleMeshUsesGivenNormals(t *testing.T) {
	data := &MeshData{
		Vertices: []mgl64.Vec3{{-1, 0, -1}, {1, 0, -1}, {0, 0, 1}},
		Normals:  []mgl64.Vec3{{0, 2, 0}, {0, 2, 0}, {0, 2, 0}},
		Indices:  []int{0, 2, 1},
	}
	tm := NewTriangleMesh(data, mgl64.Vec3{1, 1, 1})
	hit, ok := tm.rayTest(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -1, 0}, true)
	require.True(t, ok)
	assert.True(t, hit.Normal.ApproxEqual(mgl64.Vec3{0, 1, 0}), "normal %v", hit.Normal)
}

func TestMeshCache(t *testing.T) {
	c := NewMeshCache()
	cube := cubeMesh("cube", 1)

	a := c.Get(cube, mgl64.Vec3{1, 1, 1})
	b := c.Get(cube, mgl64.Vec3{1, 1, 1})
	scaled := c.Get(cube, mgl64.Vec3{2, 2, 2})
	assert.Same(t, a, b)
	assert.NotSame(t, a, scaled)
	assert.Equal(t, 2, c.Len())

	unnamed := cubeMesh("", 1)
	assert.NotSame(t, c.Get(unnamed, mgl64.Vec3{1, 1, 1}), c.Get(unnamed, mgl64.Vec3{1, 1, 1}))
	assert.Equal(t, 2, c.Len())

	var nilCache *MeshCache
	assert.Equal(t, 12, nilCache.Get(cube, mgl64.Vec3{1, 1, 1}).TriangleCount())
	assert.Equal(t, 0, nilCache.Len())
}

func TestExactObjectsShareMeshes(t *testing.T) {
	space := zeroGravitySpace()
	m := NewManager(space)
	for _, x := range []float64{0, 5} {
		node := unitNode(mgl64.Vec3{x, 0, 0})
		node.mesh = cubeMesh("rock", 1)
		_, _, err := m.Add(false, NewSettings(BodyExact, -1, 0), node)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, m.MeshCache().Len())
}

func TestRoundShapeBounds(t *testing.T) {
	cases := []struct {
		kind   BodyType
		lo, hi mgl64.Vec3
	}{
		{BodyCylinderY, mgl64.Vec3{-1, -2, -1}, mgl64.Vec3{1, 2, 1}},
		{BodyCylinderX, mgl64.Vec3{-2, -1, -1}, mgl64.Vec3{2, 1, 1}},
		{BodyConeZ, mgl64.Vec3{-1, -1, -2}, mgl64.Vec3{1, 1, 2}},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			s := newRoundShape(c.kind, 1, 4)
			lo, hi := s.Bounds()
			assert.Equal(t, c.lo, lo)
			assert.Equal(t, c.hi, hi)

			slo, shi := s.surface.Bounds()
			assert.True(t, slo.ApproxEqual(lo), "surface %v", slo)
			assert.True(t, shi[s.Kind.axis()] <= hi[s.Kind.axis()]+1e-12)
		})
	}
}

func TestRoundShapeSurfaceFacesOutward(t *testing.T) {
	for _, kind := range []BodyType{BodyConeX, BodyConeY, BodyConeZ, BodyCylinderX, BodyCylinderY, BodyCylinderZ} {
		s := newRoundShape(kind, 1, 2)
		tm := s.surface
		for i, tri := range tm.tris {
			a, b, c := tm.vertices[tri[0]], tm.vertices[tri[1]], tm.vertices[tri[2]]
			centroid := a.Add(b).Add(c).Mul(1.0 / 3)
			n := tm.faceNormal(tri)
			// shapes are convex and centered, so outward normals point away from the origin
			assert.Greater(t, n.Dot(centroid), 0.0, "%s triangle %d", kind, i)
		}
	}
}

func TestParseBodyType(t *testing.T) {
	cases := map[string]BodyType{
		"cone":      BodyConeY,
		"coneX":     BodyConeX,
		"CONEZ":     BodyConeZ,
		"cylinder":  BodyCylinderY,
		"cylinderX": BodyCylinderX,
		"cylinderZ": BodyCylinderZ,
		"box":       BodyBox,
		" sphere ":  BodySphere,
		"exact":     BodyExact,
		"none":      BodyNone,
	}
	for name, want := range cases {
		got, ok := ParseBodyType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	got, ok := ParseBodyType("capsule")
	assert.False(t, ok)
	assert.Equal(t, BodyNone, got)
	assert.False(t, BodyType(42).Valid())
	assert.Equal(t, "unknown", BodyType(42).String())
}
