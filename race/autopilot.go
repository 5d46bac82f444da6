package race

import (
	"math"

	"github.com/milk9111/kartphysics/common"
	"github.com/milk9111/kartphysics/kart"
)

const (
	autopilotThrottle = 0.8
	// heading error that gives full steering lock
	autopilotLockAngle = math.Pi / 4
)

// Autopilot drives a kart without a player by following the track heading.
type Autopilot struct {
	*kart.Kart

	track   kart.Track
	holding func() bool
}

func NewAutopilot(k *kart.Kart, track kart.Track, holding func() bool) *Autopilot {
	return &Autopilot{Kart: k, track: track, holding: holding}
}

func (a *Autopilot) Update(dt float64) {
	if a.holding != nil && a.holding() {
		a.SetControls(kart.Controls{})
		return
	}
	c := kart.Controls{Accel: autopilotThrottle}
	if a.track != nil {
		diff := common.WrapAngle(a.Heading() - a.track.HeadingAt(a.Position()))
		c.Steer = common.Clamp(diff/autopilotLockAngle, -1, 1)
		if math.Abs(diff) > math.Pi/2 {
			c.Accel /= 2
		}
	}
	a.SetControls(c)
	a.Kart.Update(dt)
}
