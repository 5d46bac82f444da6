package material

import (
	"embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Reaction is what happens to an object touched by a surface of this material.
type Reaction int

const (
	ReactionNone Reaction = iota
	ReactionReset
	ReactionPushSoccerBall
)

func (r Reaction) String() string {
	switch r {
	case ReactionReset:
		return "reset"
	case ReactionPushSoccerBall:
		return "push-soccer"
	default:
		return "none"
	}
}

// ParseReaction maps a content name to a Reaction. Unknown names map to
// ReactionNone with ok=false.
func ParseReaction(s string) (Reaction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ReactionNone, true
	case "reset", "rescue":
		return ReactionReset, true
	case "push-soccer", "push_soccer", "push-soccer-ball":
		return ReactionPushSoccerBall, true
	default:
		return ReactionNone, false
	}
}

type Material struct {
	Name         string
	Friction     float64
	Restitution  float64
	Reaction     Reaction
	PushStrength float64
}

type materialSpec struct {
	Name         string  `yaml:"name"`
	Friction     float64 `yaml:"friction"`
	Restitution  float64 `yaml:"restitution"`
	Reaction     string  `yaml:"reaction"`
	PushStrength float64 `yaml:"push_strength"`
}

type tableSpec struct {
	Materials []materialSpec `yaml:"materials"`
}

// Table indexes materials by name.
type Table struct {
	byName map[string]*Material
}

func NewTable(mats ...*Material) *Table {
	t := &Table{byName: make(map[string]*Material, len(mats))}
	for _, m := range mats {
		if m == nil || m.Name == "" {
			continue
		}
		t.byName[m.Name] = m
	}
	return t
}

// Lookup returns the material with the given name, or nil.
func (t *Table) Lookup(name string) *Material {
	if t == nil || name == "" {
		return nil
	}
	return t.byName[name]
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}

//go:embed materials.yaml
var defaultFS embed.FS

const defaultFile = "materials.yaml"

// Parse decodes a yaml material table.
func Parse(data []byte, log zerolog.Logger) (*Table, error) {
	var spec tableSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, eris.Wrap(err, "material: unmarshal")
	}
	t := NewTable()
	for _, ms := range spec.Materials {
		if strings.TrimSpace(ms.Name) == "" {
			return nil, eris.New("material: entry without name")
		}
		reaction, ok := ParseReaction(ms.Reaction)
		if !ok {
			log.Warn().Str("material", ms.Name).Str("reaction", ms.Reaction).Msg("unknown collision reaction, using none")
		}
		push := ms.PushStrength
		if push <= 0 {
			push = 10
		}
		t.byName[ms.Name] = &Material{
			Name:         ms.Name,
			Friction:     ms.Friction,
			Restitution:  ms.Restitution,
			Reaction:     reaction,
			PushStrength: push,
		}
	}
	return t, nil
}

// Load reads a material table from path, falling back to the embedded
// default table when path is empty or missing on disk.
func Load(path string, log zerolog.Logger) (*Table, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			return Parse(data, log)
		}
		if !os.IsNotExist(err) {
			return nil, eris.Wrapf(err, "material: read %s", path)
		}
		log.Debug().Str("path", path).Msg("material file not found, using embedded table")
	}
	data, err := defaultFS.ReadFile(defaultFile)
	if err != nil {
		return nil, eris.Wrap(err, "material: read embedded table")
	}
	return Parse(data, log)
}
