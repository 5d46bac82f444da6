package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/physics"
	"github.com/milk9111/kartphysics/registry"
)

// TrackObject is a placed piece of scenery. It is the scene node its
// physical object reads from and writes back to.
type TrackObject struct {
	Name     string
	Dynamic  bool
	Settings physics.Settings

	pos, hpr, scale mgl64.Vec3
	lo, hi          mgl64.Vec3
	mesh            *physics.MeshData
	handle          registry.Handle
}

var _ physics.SceneNode = (*TrackObject)(nil)

// NewTrackObject places a unit cube. hpr is in radians.
func NewTrackObject(name string, pos, hpr, scale mgl64.Vec3) *TrackObject {
	return &TrackObject{
		Name:  name,
		pos:   pos,
		hpr:   hpr,
		scale: scale,
		lo:    mgl64.Vec3{-0.5, -0.5, -0.5},
		hi:    mgl64.Vec3{0.5, 0.5, 0.5},
	}
}

func (t *TrackObject) SetBounds(lo, hi mgl64.Vec3) {
	t.lo, t.hi = lo, hi
}

// SetMesh attaches triangle data and takes the bounds from it.
func (t *TrackObject) SetMesh(m *physics.MeshData) {
	t.mesh = m
	if m != nil && len(m.Vertices) > 0 {
		t.lo, t.hi = m.Bounds()
	}
}

func (t *TrackObject) Position() mgl64.Vec3 { return t.pos }
func (t *TrackObject) Rotation() mgl64.Vec3 { return t.hpr }
func (t *TrackObject) Scale() mgl64.Vec3 { return t.scale }
func (t *TrackObject) Bounds() (mgl64.Vec3, mgl64.Vec3) { return t.lo, t.hi }
func (t *TrackObject) Mesh() *physics.MeshData { return t.mesh }
func (t *TrackObject) Handle() registry.Handle { return t.handle }

func (t *TrackObject) SetTransform(pos, hpr mgl64.Vec3) {
	t.pos = pos
	t.hpr = hpr
}
