package physics

import "strings"

// BodyType selects the collision shape built for an object.
type BodyType int

const (
	BodyNone BodyType = iota
	BodyConeY
	BodyConeX
	BodyConeZ
	BodyCylinderY
	BodyCylinderX
	BodyCylinderZ
	BodyBox
	BodySphere
	BodyExact
)

var bodyTypeNames = map[BodyType]string{
	BodyNone:      "none",
	BodyConeY:     "coneY",
	BodyConeX:     "coneX",
	BodyConeZ:     "coneZ",
	BodyCylinderY: "cylinderY",
	BodyCylinderX: "cylinderX",
	BodyCylinderZ: "cylinderZ",
	BodyBox:       "box",
	BodySphere:    "sphere",
	BodyExact:     "exact",
}

func (b BodyType) String() string {
	if s, ok := bodyTypeNames[b]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether b is one of the known shapes.
func (b BodyType) Valid() bool {
	_, ok := bodyTypeNames[b]
	return ok
}

// ParseBodyType maps a content shape name to a BodyType. Unknown or empty
// names return BodyNone with ok=false.
func ParseBodyType(s string) (BodyType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cone", "coney":
		return BodyConeY, true
	case "conex":
		return BodyConeX, true
	case "conez":
		return BodyConeZ, true
	case "cylinder", "cylindery":
		return BodyCylinderY, true
	case "cylinderx":
		return BodyCylinderX, true
	case "cylinderz":
		return BodyCylinderZ, true
	case "box":
		return BodyBox, true
	case "sphere":
		return BodySphere, true
	case "exact":
		return BodyExact, true
	case "none":
		return BodyNone, true
	default:
		return BodyNone, false
	}
}

// axis returns the principal axis index (0=X, 1=Y, 2=Z) of cones and cylinders.
func (b BodyType) axis() int {
	switch b {
	case BodyConeX, BodyCylinderX:
		return 0
	case BodyConeZ, BodyCylinderZ:
		return 2
	default:
		return 1
	}
}
