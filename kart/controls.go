package kart

import "strings"

// MaxAxis is the magnitude of a fully pressed key or a fully deflected stick.
const MaxAxis = 32767

// Action is an input event kind sent to a PlayerKart.
type Action int

const (
	ActionNone Action = iota
	ActionSteerLeft
	ActionSteerRight
	ActionAccelerate
	ActionBrake
	ActionFire
	ActionNitro
	ActionSkid
	ActionRescue
	ActionLookBack
)

var actionNames = map[Action]string{
	ActionSteerLeft:  "steer-left",
	ActionSteerRight: "steer-right",
	ActionAccelerate: "accelerate",
	ActionBrake:      "brake",
	ActionFire:       "fire",
	ActionNitro:      "nitro",
	ActionSkid:       "skid",
	ActionRescue:     "rescue",
	ActionLookBack:   "look-back",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "none"
}

// ParseAction maps a binding name to an Action.
func ParseAction(s string) (Action, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return ActionNone, false
}

// Controls is what a kart is asked to do this frame.
type Controls struct {
	// Steer is in [-1, 1]; negative steers left.
	Steer float64
	// Accel is in [0, 1].
	Accel    float64
	Brake    bool
	Fire     bool
	Nitro    bool
	Skid     bool
	Rescue   bool
	LookBack bool
}
