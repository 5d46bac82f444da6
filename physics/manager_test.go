package physics

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/material"
	"github.com/milk9111/kartphysics/registry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	space := zeroGravitySpace()
	m := NewManager(space)

	s := NewSettings(BodySphere, 1, 1)
	s.ID = "ball"
	h, o, err := m.Add(true, s, unitNode(mgl64.Vec3{}))
	require.NoError(t, err)
	require.True(t, h.Valid())
	assert.Equal(t, h, o.Handle())
	assert.Equal(t, UserPointer{Kind: UserPointerPhysicalObject, Handle: h}, o.Body().UserPointer())

	got, ok := m.Resolve(o.Body().UserPointer())
	require.True(t, ok)
	assert.Same(t, o, got)

	byID, ok := m.FindByID("ball")
	require.True(t, ok)
	assert.Same(t, o, byID)
	_, ok = m.FindByID("crate")
	assert.False(t, ok)

	require.True(t, m.Remove(h))
	assert.False(t, m.Remove(h))
	assert.True(t, o.Destroyed())
	assert.Equal(t, 0, space.BodyCount())

	_, ok = m.Resolve(UserPointer{Kind: UserPointerPhysicalObject, Handle: h})
	assert.False(t, ok, "stale handles do not resolve")

	h2, _, err := m.Add(false, NewSettings(BodyBox, -1, 0), unitNode(mgl64.Vec3{}))
	require.NoError(t, err)
	assert.NotEqual(t, h, h2)
	_, ok = m.Get(h)
	assert.False(t, ok)
}

func TestManagerResolveRejectsOtherKinds(t *testing.T) {
	m := NewManager(zeroGravitySpace())
	h, _, err := m.Add(false, NewSettings(BodyBox, -1, 0), unitNode(mgl64.Vec3{}))
	require.NoError(t, err)

	_, ok := m.Resolve(UserPointer{Kind: UserPointerKart, Handle: h})
	assert.False(t, ok)
	_, ok = m.Resolve(UserPointer{})
	assert.False(t, ok)
}

func TestManagerNilWorld(t *testing.T) {
	m := NewManager(nil)
	_, _, err := m.Add(false, NewSettings(BodyBox, -1, 0), unitNode(mgl64.Vec3{}))
	assert.ErrorIs(t, err, ErrNilWorld)
	assert.Equal(t, 0, m.Len())
}

func TestManagerMaterials(t *testing.T) {
	var buf bytes.Buffer
	table := material.NewTable(&material.Material{Name: "rubber", Friction: 0.9, Restitution: 0.6})
	m := NewManager(zeroGravitySpace(), WithMaterials(table), WithManagerLogger(zerolog.New(&buf)))

	s := NewSettings(BodySphere, 1, 1)
	s.Material = "rubber"
	_, o, err := m.Add(true, s, unitNode(mgl64.Vec3{}))
	require.NoError(t, err)
	require.NotNil(t, o.Material())
	assert.Equal(t, 0.6, o.Material().Restitution)

	s.Material = "ice"
	_, o, err = m.Add(true, s, unitNode(mgl64.Vec3{}))
	require.NoError(t, err)
	assert.Nil(t, o.Material())
	assert.Equal(t, "ice", o.MaterialName())
	assert.Contains(t, buf.String(), "unknown material")
}

func TestManagerExplosionDirectHit(t *testing.T) {
	m := NewManager(zeroGravitySpace())
	hit, direct, err := m.Add(true, NewSettings(BodySphere, 1, 1), unitNode(mgl64.Vec3{}))
	require.NoError(t, err)
	_, splash, err := m.Add(true, NewSettings(BodySphere, 1, 1), unitNode(mgl64.Vec3{3, 0, 0}))
	require.NoError(t, err)

	m.HandleExplosion(mgl64.Vec3{1, 0, 0}, hit)

	assert.Greater(t, direct.Body().LinearVelocity()[1], 0.0)
	assert.Greater(t, splash.Body().LinearVelocity()[0], 0.0)
	assert.Greater(t, direct.Body().LinearVelocity().Len(), splash.Body().LinearVelocity().Len())

	m.Reset()
	assert.Equal(t, mgl64.Vec3{}, direct.Body().LinearVelocity())
	assert.Equal(t, mgl64.Vec3{}, splash.Body().LinearVelocity())
}

func TestManagerCastRayAndClear(t *testing.T) {
	space := zeroGravitySpace()
	m := NewManager(space)
	_, near, err := m.Add(false, NewSettings(BodySphere, 1, 0), unitNode(mgl64.Vec3{0, 0, 5}))
	require.NoError(t, err)
	_, _, err = m.Add(false, NewSettings(BodySphere, 1, 0), unitNode(mgl64.Vec3{0, 0, 9}))
	require.NoError(t, err)

	hit, o, ok := m.CastRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, false)
	require.True(t, ok)
	assert.Same(t, near, o)
	assert.InDelta(t, 4.0, hit.Point[2], 1e-9)

	_, o, ok = m.CastRay(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{5, 0, 20}, false)
	assert.False(t, ok)
	assert.Nil(t, o)

	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, space.BodyCount())
	var seen []registry.Handle
	m.Each(func(h registry.Handle, _ *Object) { seen = append(seen, h) })
	assert.Empty(t, seen)
}
