package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera looks straight down on the track, centered on a world X/Z point.
// Screen up is +Z unless the camera is flipped to look back.
type Camera struct {
	PosX float64
	PosZ float64

	screenW int
	screenH int
	// zoom is screen pixels per metre.
	zoom float64
	// smooth is the follow factor per update, 0 snaps.
	smooth float64

	flipped bool
	shakeX  float64
	shakeY  float64
}

func NewCamera(screenW, screenH int, zoom float64) *Camera {
	return &Camera{screenW: screenW, screenH: screenH, zoom: zoom, smooth: 0.15}
}

func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.zoom = z
}

func (c *Camera) Zoom() float64 { return c.zoom }

func (c *Camera) SetSmooth(f float64) {
	c.smooth = math.Max(0, math.Min(f, 1))
}

// SetFlipped turns the view around so the track behind the kart is on top.
func (c *Camera) SetFlipped(v bool) { c.flipped = v }

// Shake offsets the view by up to amplitude metres. t drives the wobble.
func (c *Camera) Shake(amplitude, t float64) {
	if amplitude <= 0 {
		c.shakeX, c.shakeY = 0, 0
		return
	}
	c.shakeX = amplitude * math.Sin(t*47)
	c.shakeY = amplitude * math.Cos(t*53)
}

// Update moves the camera toward the target point.
func (c *Camera) Update(targetX, targetZ float64) {
	if c.smooth <= 0 {
		c.PosX = targetX
		c.PosZ = targetZ
		return
	}
	c.PosX += (targetX - c.PosX) * c.smooth
	c.PosZ += (targetZ - c.PosZ) * c.smooth
}

// WorldToScreen maps a world X/Z point to screen pixels.
func (c *Camera) WorldToScreen(x, z float64) (float64, float64) {
	dx := (x - c.PosX + c.shakeX) * c.zoom
	dz := (z - c.PosZ + c.shakeY) * c.zoom
	if c.flipped {
		dx, dz = -dx, -dz
	}
	return float64(c.screenW)/2 + dx, float64(c.screenH)/2 - dz
}

// ScreenAngle maps a world-plane angle to its on-screen angle.
func (c *Camera) ScreenAngle(a float64) float64 {
	if c.flipped {
		a += math.Pi
	}
	return -a
}

// Vec maps a world point to screen pixels, ignoring height.
func (c *Camera) Vec(v mgl64.Vec3) (float64, float64) {
	return c.WorldToScreen(v[0], v[2])
}
