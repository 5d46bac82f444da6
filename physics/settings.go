package physics

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Kind is the gameplay category of a physical object.
type Kind int

const (
	KindScenery Kind = iota
	KindSoccerBall
	KindCrate
)

func (k Kind) String() string {
	switch k {
	case KindSoccerBall:
		return "soccer-ball"
	case KindCrate:
		return "crate"
	default:
		return "scenery"
	}
}

// ParseKind maps a content name to a Kind. Unknown names are scenery with ok=false.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scenery":
		return KindScenery, true
	case "soccer", "soccer-ball", "soccer_ball":
		return KindSoccerBall, true
	case "crate", "movable":
		return KindCrate, true
	default:
		return KindScenery, false
	}
}

// Settings is the construction bundle for an Object.
type Settings struct {
	ID       string
	Mass     float64
	Radius   float64
	BodyType BodyType
	Kind     Kind

	// CrashReset rescues karts touching the object.
	CrashReset bool
	// KnockKart makes karts touching the object explode.
	KnockKart bool
	// FlattenKart squashes karts touching the object.
	FlattenKart bool
	// ResetWhenTooLow puts the object back to its start position when it
	// falls below ResetHeight, e.g. a boulder rolling off the track.
	ResetWhenTooLow bool
	ResetHeight     float64

	Material        string
	Interaction     string
	OnKartCollision string
}

// NewSettings returns settings with the defaults used for content that
// leaves fields out. A radius <= 0 is derived from the mesh in Init.
func NewSettings(bodyType BodyType, radius, mass float64) Settings {
	return Settings{
		BodyType: bodyType,
		Radius:   radius,
		Mass:     mass,
	}
}

type settingsSpec struct {
	ID              string   `yaml:"id"`
	Mass            *float64 `yaml:"mass"`
	Radius          *float64 `yaml:"radius"`
	Shape           string   `yaml:"shape"`
	Kind            string   `yaml:"kind"`
	Reset           bool     `yaml:"reset"`
	Explode         bool     `yaml:"explode"`
	Flatten         bool     `yaml:"flatten"`
	ResetWhenBelow  *float64 `yaml:"reset_when_below"`
	Material        string   `yaml:"material"`
	Interaction     string   `yaml:"interaction"`
	OnKartCollision string   `yaml:"on_kart_collision"`
}

// SettingsFromNode decodes a content description. A missing or unknown
// shape yields BodyNone and is logged; only malformed yaml is an error.
func SettingsFromNode(node *yaml.Node, log zerolog.Logger) (Settings, error) {
	if node == nil {
		return Settings{}, eris.New("physics: nil settings node")
	}
	var spec settingsSpec
	if err := node.Decode(&spec); err != nil {
		return Settings{}, eris.Wrap(err, "physics: decode settings")
	}

	s := NewSettings(BodyNone, -1, 1)
	s.ID = spec.ID
	if spec.Mass != nil {
		s.Mass = *spec.Mass
	}
	if spec.Radius != nil {
		s.Radius = *spec.Radius
	}

	bodyType, ok := ParseBodyType(spec.Shape)
	if !ok {
		log.Warn().Str("id", spec.ID).Str("shape", spec.Shape).Msg("unknown physics shape, object will not collide")
	}
	s.BodyType = bodyType

	kind, ok := ParseKind(spec.Kind)
	if !ok {
		log.Warn().Str("id", spec.ID).Str("kind", spec.Kind).Msg("unknown object kind, using scenery")
	}
	s.Kind = kind

	s.CrashReset = spec.Reset
	s.KnockKart = spec.Explode
	s.FlattenKart = spec.Flatten
	if spec.ResetWhenBelow != nil {
		s.ResetWhenTooLow = true
		s.ResetHeight = *spec.ResetWhenBelow
	}
	s.Material = spec.Material
	s.Interaction = spec.Interaction
	s.OnKartCollision = spec.OnKartCollision
	return s, nil
}
