package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

type testNode struct {
	pos, hpr, scale mgl64.Vec3
	lo, hi          mgl64.Vec3
	mesh            *MeshData
	sets            int
}

func newTestNode(pos mgl64.Vec3, lo, hi mgl64.Vec3) *testNode {
	return &testNode{pos: pos, scale: mgl64.Vec3{1, 1, 1}, lo: lo, hi: hi}
}

func unitNode(pos mgl64.Vec3) *testNode {
	return newTestNode(pos, mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})
}

func (n *testNode) Position() mgl64.Vec3 { return n.pos }
func (n *testNode) Rotation() mgl64.Vec3 { return n.hpr }
func (n *testNode) Scale() mgl64.Vec3 { return n.scale }
func (n *testNode) Bounds() (mgl64.Vec3, mgl64.Vec3) { return n.lo, n.hi }
func (n *testNode) Mesh() *MeshData { return n.mesh }
func (n *testNode) SetTransform(pos, hpr mgl64.Vec3) {
	n.pos = pos
	n.hpr = hpr
	n.sets++
}

// cubeMesh is an axis-aligned cube spanning [-h, h] on every axis.
func cubeMesh(name string, h float64) *MeshData {
	v := []mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	idx := []int{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
	}
	mats := make([]string, len(idx)/3)
	for i := range mats {
		mats[i] = "asphalt"
	}
	mats[4] = "grass"
	mats[5] = "grass"
	return &MeshData{Name: name, Vertices: v, Indices: idx, Materials: mats}
}

func zeroGravitySpace() *Space {
	return NewSpace(SpaceConfig{Gravity: 0, Iterations: 10}, zerolog.Nop())
}
