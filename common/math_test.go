package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, WrapAngle(c.in), 1e-12, "in=%v", c.in)
	}
}

func TestForwardMatchesHeadingRotation(t *testing.T) {
	for _, h := range []float64{0, 0.3, math.Pi / 2, -2.1} {
		rotated := HPRToQuat(mgl64.Vec3{h, 0, 0}).Rotate(mgl64.Vec3{0, 0, 1})
		want := Forward(h)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, want[i], rotated[i], 1e-9, "heading %v axis %d", h, i)
		}
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.5, Clamp(0.5, -1, 1))
}

func TestHPRDegreesRoundTrip(t *testing.T) {
	deg := mgl64.Vec3{90, -45, 180}
	rad := DegreesToHPR(deg)
	assert.InDelta(t, math.Pi/2, rad[0], 1e-12)
	assert.True(t, HPRToDegrees(rad).ApproxEqualThreshold(deg, 1e-9))
}
