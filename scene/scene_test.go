package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/milk9111/kartphysics/material"
	"github.com/milk9111/kartphysics/physics"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallScene = `
name: small
route:
  - [0, 0, 0]
  - [0, 0, 10]
objects:
  - name: post
    transform:
      position: [1, 2, 3]
      rotation: [90, 0, 0]
    bounds:
      min: [-0.25, -1, -0.25]
      max: [0.25, 1, 0.25]
    physics:
      id: post-1
      shape: cylinder
      material: rubber
  - transform:
      scale: [2, 2, 2]
karts:
  - name: tux
    player: p1
    transform:
      position: [0, 0.3, -2]
      rotation: [180, 0, 0]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(smallScene), zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "small", s.Name)
	require.Len(t, s.Route, 2)
	require.Len(t, s.Objects, 2)
	require.Len(t, s.Karts, 1)

	post := s.Objects[0]
	assert.Equal(t, "post", post.Name)
	assert.False(t, post.Dynamic)
	assert.Equal(t, "post-1", post.Settings.ID)
	assert.Equal(t, physics.BodyCylinderY, post.Settings.BodyType)
	assert.Equal(t, "rubber", post.Settings.Material)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, post.Position())
	assert.InDelta(t, math.Pi/2, post.Rotation()[0], 1e-9)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, post.Scale())
	lo, hi := post.Bounds()
	assert.Equal(t, mgl64.Vec3{-0.25, -1, -0.25}, lo)
	assert.Equal(t, mgl64.Vec3{0.25, 1, 0.25}, hi)

	bare := s.Objects[1]
	assert.Equal(t, physics.BodyNone, bare.Settings.BodyType)
	assert.Equal(t, 1.0, bare.Settings.Mass)
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, bare.Scale())
	_, err = uuid.Parse(bare.Name)
	assert.NoError(t, err, "objects without a name get a generated id")
	assert.Equal(t, bare.Name, bare.Settings.ID)

	kart := s.Karts[0]
	assert.Equal(t, "tux", kart.Name)
	assert.Equal(t, "p1", kart.Player)
	assert.Equal(t, mgl64.Vec3{0, 0.3, -2}, kart.Start.Origin)
	assert.InDelta(t, math.Pi, kart.Start.HPR[0], 1e-9)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "objects: [\n"},
		{"short position", "objects:\n  - transform:\n      position: [1, 2]\n"},
		{"unknown mesh", "objects:\n  - mesh: nope\n"},
		{"bad triangle", "meshes:\n  - name: m\n    vertices: [[0,0,0],[1,0,0],[0,1,0]]\n    triangles: [[0, 1]]\n"},
		{"unnamed mesh", "meshes:\n  - vertices: [[0,0,0]]\n"},
		{"bad route", "route:\n  - [1]\n"},
		{"bad physics", "objects:\n  - physics: [1, 2]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml), zerolog.Nop())
			assert.Error(t, err)
		})
	}
}

func TestParseMeshObject(t *testing.T) {
	const data = `
meshes:
  - name: ramp
    vertices: [[-1, 0, -1], [1, 0, -1], [0, 1, 1]]
    triangles: [[0, 1, 2]]
    materials: [grass]
objects:
  - name: ramp
    mesh: ramp
    physics:
      shape: exact
`
	s, err := Parse([]byte(data), zerolog.Nop())
	require.NoError(t, err)
	obj, ok := s.Object("ramp")
	require.True(t, ok)
	require.NotNil(t, obj.Mesh())
	assert.Equal(t, []int{0, 1, 2}, obj.Mesh().Indices)
	assert.Equal(t, []string{"grass"}, obj.Mesh().Materials)

	lo, hi := obj.Bounds()
	assert.Equal(t, mgl64.Vec3{-1, 0, -1}, lo)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, hi)

	_, ok = s.Object("missing")
	assert.False(t, ok)
}

func TestLoadDemoScene(t *testing.T) {
	s, err := LoadScene("demo", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	assert.Len(t, s.Route, 4)
	assert.Len(t, s.Karts, 2)
	assert.Len(t, s.Objects, 12)

	space := physics.NewSpace(physics.SpaceConfig{Gravity: -9.8, Iterations: 10}, zerolog.Nop())
	mats, err := material.Load("", zerolog.Nop())
	require.NoError(t, err)
	m := physics.NewManager(space, physics.WithMaterials(mats))
	require.NoError(t, s.Build(m))
	assert.Equal(t, 12, m.Len())

	tests := []struct {
		name  string
		check func(t *testing.T, o *physics.Object)
	}{
		{"ball", func(t *testing.T, o *physics.Object) {
			assert.True(t, o.IsSoccerBall())
			assert.True(t, o.IsDynamic())
			assert.InDelta(t, 0.5, o.Radius(), 1e-9)
		}},
		{"lava-pit", func(t *testing.T, o *physics.Object) {
			assert.True(t, o.IsCrashReset())
			require.NotNil(t, o.Material())
			assert.Equal(t, material.ReactionReset, o.Material().Reaction)
		}},
		{"crusher", func(t *testing.T, o *physics.Object) { assert.True(t, o.IsFlattenKartObject()) }},
		{"mine", func(t *testing.T, o *physics.Object) { assert.True(t, o.IsExplodeKartObject()) }},
		{"arch", func(t *testing.T, o *physics.Object) { assert.True(t, o.Passable()) }},
		{"rock", func(t *testing.T, o *physics.Object) { assert.Equal(t, physics.BodyExact, o.BodyType()) }},
		{"boulder", func(t *testing.T, o *physics.Object) { assert.Equal(t, "bump", o.ScriptName()) }},
		{"flower-bed", func(t *testing.T, o *physics.Object) { assert.Equal(t, physics.BodyNone, o.BodyType()) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node, ok := s.Object(tc.name)
			require.True(t, ok)
			assert.True(t, node.Handle().Valid())
			o, ok := m.Get(node.Handle())
			require.True(t, ok)
			tc.check(t, o)
		})
	}
}

func TestLoadSceneMissing(t *testing.T) {
	_, err := LoadScene("does-not-exist", zerolog.Nop())
	assert.Error(t, err)
}

func TestBuildWithoutManager(t *testing.T) {
	s, err := Parse([]byte(smallScene), zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, s.Build(nil))
}

func TestList(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.Contains(t, names, "demo.yaml")
}

func TestCleanScenePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"demo", "demo.yaml"},
		{"scenes/demo.yaml", "demo.yaml"},
		{"sub/track.yml", "sub/track.yml"},
		{"", ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, cleanScenePath(tc.in))
		})
	}
}

func TestRouteHeadingAt(t *testing.T) {
	loop := Route{{0, 0, 0}, {0, 0, 10}, {10, 0, 10}, {10, 0, 0}}
	tests := []struct {
		name string
		pos  mgl64.Vec3
		want float64
	}{
		{"first leg", mgl64.Vec3{-1, 0, 5}, 0},
		{"second leg", mgl64.Vec3{5, 3, 11}, math.Pi / 2},
		{"third leg", mgl64.Vec3{11, 0, 5}, math.Pi},
		{"closing leg", mgl64.Vec3{5, 0, -1}, -math.Pi / 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, loop.HeadingAt(tc.pos), 1e-9)
		})
	}

	assert.Equal(t, 0.0, Route{}.HeadingAt(mgl64.Vec3{}))
	line := Route{{0, 0, 0}, {10, 0, 0}}
	assert.InDelta(t, math.Pi/2, line.HeadingAt(mgl64.Vec3{-5, 0, -5}), 1e-9)
}


func TestRouteProject(t *testing.T) {
	loop := Route{{0, 0, 0}, {0, 0, 10}, {10, 0, 10}, {10, 0, 0}}

	p, heading := loop.Project(mgl64.Vec3{-2, 1, 4})
	assert.Equal(t, mgl64.Vec3{0, 1, 4}, p)
	assert.Equal(t, 0.0, heading)

	p, heading = loop.Project(mgl64.Vec3{12, 0, 20})
	assert.Equal(t, mgl64.Vec3{10, 0, 10}, p)
	assert.InDelta(t, math.Pi/2, heading, 1e-9)

	p, _ = Route{{3, 0, 3}}.Project(mgl64.Vec3{0, 2, 0})
	assert.Equal(t, mgl64.Vec3{3, 2, 3}, p)

	p, _ = Route{}.Project(mgl64.Vec3{1, 2, 3})
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, p)
}
