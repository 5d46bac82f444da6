package race

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/config"
	"github.com/milk9111/kartphysics/kart"
	"github.com/milk9111/kartphysics/material"
	"github.com/milk9111/kartphysics/physics"
	"github.com/milk9111/kartphysics/registry"
	"github.com/milk9111/kartphysics/scene"
	"github.com/milk9111/kartphysics/script"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Phase int

const (
	PhaseCountdown Phase = iota
	PhaseRunning
)

func (p Phase) String() string {
	if p == PhaseRunning {
		return "running"
	}
	return "countdown"
}

type Option func(w *World)

func WithLogger(log zerolog.Logger) Option {
	return func(w *World) { w.log = log }
}

func WithMaterials(t *material.Table) Option {
	return func(w *World) { w.materials = t }
}

func WithScripts(r *script.Runtime) Option {
	return func(w *World) { w.scripts = r }
}

// World ties the simulation together: the space, the track objects, the
// karts and the content they react with.
type World struct {
	cfg       config.Config
	space     *physics.Space
	objects   *physics.Manager
	karts     *registry.Registry[kart.Driver]
	materials *material.Table
	scripts   *script.Runtime

	scene  *scene.Scene
	source string
	route  scene.Route

	phase     Phase
	countdown float64
	elapsed   float64

	log zerolog.Logger
}

func New(cfg config.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:   cfg,
		karts: registry.New[kart.Driver](),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.materials == nil {
		t, err := material.Load(cfg.Materials, w.log)
		if err != nil {
			return nil, eris.Wrap(err, "race: materials")
		}
		w.materials = t
	}
	if w.scripts == nil {
		w.scripts = script.New(script.WithLogger(w.log))
	}
	w.space = physics.NewSpace(cfg.SpaceConfig(), w.log)
	w.objects = physics.NewManager(w.space,
		physics.WithManagerLogger(w.log),
		physics.WithMaterials(w.materials),
		physics.WithManagerTuning(cfg.Tuning()),
	)
	w.startCountdown()
	return w, nil
}

func (w *World) startCountdown() {
	w.countdown = w.cfg.Race.Countdown
	w.phase = PhaseCountdown
	if w.countdown <= 0 {
		w.countdown = 0
		w.phase = PhaseRunning
	}
}

// LoadScene builds the scene's objects and puts its karts on the grid.
func (w *World) LoadScene(s *scene.Scene) error {
	if err := s.Build(w.objects); err != nil {
		return err
	}
	w.scene = s
	w.route = s.Route
	for _, p := range s.Karts {
		if _, _, err := w.AddKart(p); err != nil {
			return err
		}
	}
	w.log.Info().
		Str("scene", s.Name).
		Int("objects", w.objects.Len()).
		Int("karts", w.karts.Len()).
		Msg("scene loaded")
	return nil
}

// ReloadScene replaces the track objects. Karts stay where they are.
func (w *World) ReloadScene(s *scene.Scene) error {
	w.objects.Clear()
	if err := s.Build(w.objects); err != nil {
		return err
	}
	w.scene = s
	w.route = s.Route
	w.log.Info().Str("scene", s.Name).Int("objects", w.objects.Len()).Msg("scene reloaded")
	return nil
}

// AddKart creates a kart at p. Placements with a player get a PlayerKart,
// the rest an Autopilot.
func (w *World) AddKart(p scene.KartPlacement) (registry.Handle, kart.Driver, error) {
	k := kart.New(w.cfg.KartProperties(p.Name), p.Start, kart.WithLogger(w.log))
	var d kart.Driver
	if p.Player != "" {
		d = kart.NewPlayerKart(k, kart.NewPlayer(p.Player),
			kart.WithCamera(kart.NewCamera()),
			kart.WithStartPhase(w.InStartPhase),
			kart.WithStartPenalty(w.cfg.Kart.StartPenalty),
			kart.WithPlayerLogger(w.log),
		)
	} else {
		d = NewAutopilot(k, w, w.InStartPhase)
	}
	h := w.karts.Insert(d)
	if err := k.Init(w.space, h); err != nil {
		w.karts.Remove(h)
		return 0, nil, eris.Wrapf(err, "race: add kart %s", p.Name)
	}
	return h, d, nil
}

func (w *World) RemoveKart(h registry.Handle) bool {
	d, ok := w.karts.Get(h)
	if !ok {
		return false
	}
	d.Base().Destroy()
	return w.karts.Remove(h)
}

// Step advances the race by dt: karts drive, the space steps, objects
// follow their bodies, then contacts and messages are handled.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.elapsed += dt
	if w.phase == PhaseCountdown {
		w.countdown -= dt
		if w.countdown <= 0 {
			w.countdown = 0
			w.phase = PhaseRunning
			w.log.Info().Float64("elapsed", w.elapsed).Msg("race started")
		}
	}

	w.karts.Each(func(_ registry.Handle, d kart.Driver) {
		d.Update(dt)
	})
	w.space.Step(dt)
	w.objects.Update(dt)
	for _, c := range w.space.Contacts() {
		w.dispatch(c)
	}

	if w.cfg.Race.WrongWayCheck && len(w.route) > 1 {
		for _, pk := range w.PlayerKarts() {
			pk.AddMessages(w.route)
		}
	}
}

// Reset puts every object and kart back to its start and restarts the
// countdown.
func (w *World) Reset() {
	w.objects.Reset()
	w.karts.Each(func(_ registry.Handle, d kart.Driver) {
		d.Reset()
	})
	w.space.Contacts()
	w.elapsed = 0
	w.startCountdown()
}

// HandleExplosion applies a blast at pos. hit is the object struck
// directly, if any. Karts within the blast radius explode.
func (w *World) HandleExplosion(pos mgl64.Vec3, hit registry.Handle) {
	w.objects.HandleExplosion(pos, hit)
	w.karts.Each(func(_ registry.Handle, d kart.Driver) {
		k := d.Base()
		if k.Position().Sub(pos).Len() <= blastRadius {
			k.Explode()
		}
	})
}

// CastRay returns the closest track object hit on the segment from→to.
func (w *World) CastRay(from, to mgl64.Vec3, interpolateNormal bool) (physics.RayHit, *physics.Object, bool) {
	return w.objects.CastRay(from, to, interpolateNormal)
}

// HeadingAt is the direction of travel at pos. Without a route it is 0.
func (w *World) HeadingAt(pos mgl64.Vec3) float64 {
	return w.route.HeadingAt(pos)
}

// Close destroys every kart and object.
func (w *World) Close() {
	for _, h := range w.karts.Handles() {
		w.RemoveKart(h)
	}
	w.objects.Clear()
}

func (w *World) InStartPhase() bool { return w.phase == PhaseCountdown }
func (w *World) Phase() Phase { return w.phase }
func (w *World) Countdown() float64 { return w.countdown }
func (w *World) Elapsed() float64 { return w.elapsed }
func (w *World) Config() config.Config { return w.cfg }
func (w *World) Space() *physics.Space { return w.space }
func (w *World) Objects() *physics.Manager { return w.objects }
func (w *World) Materials() *material.Table { return w.materials }
func (w *World) Scripts() *script.Runtime { return w.scripts }
func (w *World) Scene() *scene.Scene { return w.scene }
func (w *World) Route() scene.Route { return w.route }
func (w *World) KartCount() int { return w.karts.Len() }

func (w *World) Kart(h registry.Handle) (kart.Driver, bool) {
	return w.karts.Get(h)
}

// Karts returns every kart in registry order.
func (w *World) Karts() []kart.Driver {
	out := make([]kart.Driver, 0, w.karts.Len())
	w.karts.Each(func(_ registry.Handle, d kart.Driver) {
		out = append(out, d)
	})
	return out
}

func (w *World) PlayerKarts() []*kart.PlayerKart {
	var out []*kart.PlayerKart
	w.karts.Each(func(_ registry.Handle, d kart.Driver) {
		if pk, ok := d.(*kart.PlayerKart); ok {
			out = append(out, pk)
		}
	})
	return out
}
