package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/common"
)

// Transform places a body in the world. HPR is heading/pitch/roll in radians.
type Transform struct {
	Origin mgl64.Vec3
	HPR    mgl64.Vec3
}

func (t Transform) Quat() mgl64.Quat {
	return common.HPRToQuat(t.HPR)
}

// Apply maps a point from body space into world space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Quat().Rotate(p).Add(t.Origin)
}

// ApplyInverse maps a world-space point into body space.
func (t Transform) ApplyInverse(p mgl64.Vec3) mgl64.Vec3 {
	return t.Quat().Inverse().Rotate(p.Sub(t.Origin))
}

// RotateVector rotates a body-space direction into world space.
func (t Transform) RotateVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Quat().Rotate(v)
}

// MotionState mirrors a body's simulated transform for the scene side. The
// world writes it after every step; objects read it in Update.
type MotionState struct {
	world Transform
}

func NewMotionState(t Transform) *MotionState {
	return &MotionState{world: t}
}

func (m *MotionState) WorldTransform() Transform {
	if m == nil {
		return Transform{}
	}
	return m.world
}

func (m *MotionState) SetWorldTransform(t Transform) {
	if m == nil {
		return
	}
	m.world = t
}
