package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle maps an angle in radians to (-Pi, Pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// HPRToQuat composes heading (Y), pitch (X) and roll (Z) in radians.
func HPRToQuat(hpr mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(hpr[0], hpr[1], hpr[2], mgl64.YXZ)
}

// DegreesToHPR converts a heading/pitch/roll triple from degrees to radians.
func DegreesToHPR(deg mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{mgl64.DegToRad(deg[0]), mgl64.DegToRad(deg[1]), mgl64.DegToRad(deg[2])}
}

// HPRToDegrees is the inverse of DegreesToHPR.
func HPRToDegrees(hpr mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{mgl64.RadToDeg(hpr[0]), mgl64.RadToDeg(hpr[1]), mgl64.RadToDeg(hpr[2])}
}

// Forward returns the unit direction a heading faces in the ground plane.
// Heading 0 faces +Z.
func Forward(heading float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(heading), 0, math.Cos(heading)}
}

// MulElem multiplies two vectors component-wise.
func MulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
