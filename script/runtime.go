package script

import (
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// maxAllocs bounds a single run so a broken script cannot stall a frame.
const maxAllocs = 100000

// Body is what a script can read about one side of a collision.
type Body struct {
	Name     string
	Kind     string
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64
	Speed    float64
	Heading  float64
	Dynamic  bool
}

// Collision is the input of a kart-collision script.
type Collision struct {
	Object Body
	Kart   Body
	// Normal points from the kart towards the object.
	Normal mgl64.Vec3
}

// Reaction is what a script asks for. Impulse is applied to the kart;
// Zipper boosts it and Herring names a herring it collects.
type Reaction struct {
	Impulse    mgl64.Vec3
	HasImpulse bool
	Message    string
	Zipper     bool
	Herring    string
}

type Option func(r *Runtime)

func WithLogger(log zerolog.Logger) Option {
	return func(r *Runtime) { r.log = log }
}

// WithLoader replaces the source lookup, Load by default.
func WithLoader(load func(name string) ([]byte, error)) Option {
	return func(r *Runtime) { r.load = load }
}

// Runtime compiles kart-collision scripts on first use and caches them by
// name.
type Runtime struct {
	cache map[string]*tengo.Compiled
	load  func(name string) ([]byte, error)
	log   zerolog.Logger
}

func New(opts ...Option) *Runtime {
	r := &Runtime{
		cache: map[string]*tengo.Compiled{},
		load:  Load,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register compiles src under name, replacing any cached script.
func (r *Runtime) Register(name string, src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return eris.Wrapf(err, "script: compile %s", name)
	}
	r.cache[name] = compiled
	return nil
}

// Invalidate drops a cached script so the next run reloads it.
func (r *Runtime) Invalidate(name string) {
	delete(r.cache, name)
}

func (r *Runtime) Cached(name string) bool {
	_, ok := r.cache[name]
	return ok
}

// Run executes the named script for one kart collision.
func (r *Runtime) Run(name string, c Collision) (Reaction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Reaction{}, eris.New("script: empty name")
	}
	compiled, err := r.get(name)
	if err != nil {
		return Reaction{}, err
	}

	globals := map[string]interface{}{
		"object":  bodyValue(c.Object),
		"kart":    bodyValue(c.Kart),
		"normal":  vecValue(c.Normal),
		"impulse": []interface{}{},
		"message": "",
		"zipper":  false,
		"herring": "",
	}
	for k, v := range globals {
		if err := compiled.Set(k, v); err != nil {
			return Reaction{}, eris.Wrapf(err, "script: set %s in %s", k, name)
		}
	}
	if err := compiled.Run(); err != nil {
		return Reaction{}, eris.Wrapf(err, "script: run %s", name)
	}

	var out Reaction
	out.Message = compiled.Get("message").String()
	out.Zipper = compiled.Get("zipper").Bool()
	out.Herring = compiled.Get("herring").String()
	if v, ok := toVec(compiled.Get("impulse").Array()); ok {
		out.Impulse = v
		out.HasImpulse = true
	}
	r.log.Debug().Str("script", name).Bool("impulse", out.HasImpulse).Str("message", out.Message).Msg("script ran")
	return out, nil
}

func (r *Runtime) get(name string) (*tengo.Compiled, error) {
	if c, ok := r.cache[name]; ok {
		return c, nil
	}
	src, err := r.load(name)
	if err != nil {
		return nil, eris.Wrapf(err, "script: load %s", name)
	}
	if err := r.Register(name, src); err != nil {
		return nil, err
	}
	return r.cache[name], nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	for _, name := range []string{"object", "kart", "normal", "impulse", "message", "zipper", "herring"} {
		if err := s.Add(name, nil); err != nil {
			return nil, err
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	s.SetMaxAllocs(maxAllocs)
	return s.Compile()
}

func bodyValue(b Body) map[string]interface{} {
	return map[string]interface{}{
		"name":     b.Name,
		"kind":     b.Kind,
		"position": vecValue(b.Position),
		"velocity": vecValue(b.Velocity),
		"mass":     b.Mass,
		"speed":    b.Speed,
		"heading":  b.Heading,
		"dynamic":  b.Dynamic,
	}
}

func vecValue(v mgl64.Vec3) []interface{} {
	return []interface{}{v[0], v[1], v[2]}
}

func toVec(values []interface{}) (mgl64.Vec3, bool) {
	if len(values) != 3 {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	for i, item := range values {
		switch n := item.(type) {
		case float64:
			v[i] = n
		case int64:
			v[i] = float64(n)
		case int:
			v[i] = float64(n)
		default:
			return mgl64.Vec3{}, false
		}
	}
	return v, true
}
