package kart

import "math"

type CameraMode int

const (
	CameraNormal CameraMode = iota
	CameraReverse
)

func (m CameraMode) String() string {
	if m == CameraReverse {
		return "reverse"
	}
	return "normal"
}

// Camera follows one player kart. Only the state gameplay touches lives
// here; rendering reads it.
type Camera struct {
	mode       CameraMode
	shakeTime  float64
	shakeTotal float64
	shakeScale float64
}

func NewCamera() *Camera {
	return &Camera{}
}

func (c *Camera) Mode() CameraMode {
	if c == nil {
		return CameraNormal
	}
	return c.mode
}

func (c *Camera) SetMode(m CameraMode) {
	if c != nil {
		c.mode = m
	}
}

// Shake starts a shake of the given length and strength. A stronger shake
// replaces a weaker one still running.
func (c *Camera) Shake(duration, strength float64) {
	if c == nil || duration <= 0 {
		return
	}
	if c.shakeTime > 0 && strength < c.shakeScale {
		return
	}
	c.shakeTime = duration
	c.shakeTotal = duration
	c.shakeScale = strength
}

func (c *Camera) Shaking() bool {
	return c != nil && c.shakeTime > 0
}

// ShakeAmplitude fades linearly to zero over the shake.
func (c *Camera) ShakeAmplitude() float64 {
	if !c.Shaking() {
		return 0
	}
	return c.shakeScale * c.shakeTime / c.shakeTotal
}

func (c *Camera) Update(dt float64) {
	if c == nil {
		return
	}
	c.shakeTime = math.Max(0, c.shakeTime-dt)
}

func (c *Camera) Reset() {
	if c == nil {
		return
	}
	*c = Camera{}
}
