package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/material"
	"github.com/milk9111/kartphysics/registry"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Manager owns every physical object of a track. Collision reports carry
// registry handles, which the manager resolves back to objects.
type Manager struct {
	world     World
	objects   *registry.Registry[*Object]
	meshes    *MeshCache
	materials *material.Table
	tuning    Tuning
	log       zerolog.Logger
}

type ManagerOption func(m *Manager)

func WithManagerLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

func WithMaterials(t *material.Table) ManagerOption {
	return func(m *Manager) { m.materials = t }
}

func WithManagerTuning(t Tuning) ManagerOption {
	return func(m *Manager) { m.tuning = t }
}

func NewManager(world World, opts ...ManagerOption) *Manager {
	m := &Manager{
		world:   world,
		objects: registry.New[*Object](),
		meshes:  NewMeshCache(),
		tuning:  DefaultTuning(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add creates, registers and initialises an object.
func (m *Manager) Add(isDynamic bool, s Settings, node SceneNode) (registry.Handle, *Object, error) {
	if m.world == nil {
		return 0, nil, ErrNilWorld
	}
	var mat *material.Material
	if s.Material != "" {
		mat = m.materials.Lookup(s.Material)
		if mat == nil {
			m.log.Warn().Str("id", s.ID).Str("material", s.Material).Msg("unknown material")
		}
	}
	o := NewObject(isDynamic, s, node,
		WithLogger(m.log),
		WithMeshCache(m.meshes),
		WithMaterial(mat),
		WithTuning(m.tuning),
	)
	h := m.objects.Insert(o)
	o.setHandle(h)
	if err := o.Init(m.world); err != nil {
		m.objects.Remove(h)
		return 0, nil, eris.Wrapf(err, "physics: init object %q", s.ID)
	}
	return h, o, nil
}

func (m *Manager) Get(h registry.Handle) (*Object, bool) {
	return m.objects.Get(h)
}

// Resolve maps a body's user pointer to its object.
func (m *Manager) Resolve(u UserPointer) (*Object, bool) {
	if !u.Is(UserPointerPhysicalObject) {
		return nil, false
	}
	return m.objects.Get(u.Handle)
}

// FindByID returns the first object with the given content id.
func (m *Manager) FindByID(id string) (*Object, bool) {
	var found *Object
	m.objects.Each(func(_ registry.Handle, o *Object) {
		if found == nil && o.id == id {
			found = o
		}
	})
	return found, found != nil
}

// Remove destroys the object and forgets its handle.
func (m *Manager) Remove(h registry.Handle) bool {
	o, ok := m.objects.Get(h)
	if !ok {
		return false
	}
	o.Destroy()
	return m.objects.Remove(h)
}

// Clear destroys every object.
func (m *Manager) Clear() {
	for _, h := range m.objects.Handles() {
		m.Remove(h)
	}
}

func (m *Manager) Update(dt float64) {
	m.objects.Each(func(_ registry.Handle, o *Object) {
		o.Update(dt)
	})
}

func (m *Manager) Reset() {
	m.objects.Each(func(_ registry.Handle, o *Object) {
		o.Reset()
	})
}

// HandleExplosion applies a blast at pos to every object. The object with
// handle hit, if any, takes the direct hit.
func (m *Manager) HandleExplosion(pos mgl64.Vec3, hit registry.Handle) {
	m.objects.Each(func(h registry.Handle, o *Object) {
		o.HandleExplosion(pos, h == hit)
	})
}

// CastRay returns the closest object hit on the segment from→to.
func (m *Manager) CastRay(from, to mgl64.Vec3, interpolateNormal bool) (RayHit, *Object, bool) {
	best := RayHit{Fraction: math.Inf(1)}
	var bestObj *Object
	m.objects.Each(func(_ registry.Handle, o *Object) {
		hit, ok := o.CastRay(from, to, interpolateNormal)
		if ok && hit.Fraction < best.Fraction {
			best = hit
			bestObj = o
		}
	})
	if bestObj == nil {
		return RayHit{}, nil, false
	}
	return best, bestObj, true
}

func (m *Manager) Each(fn func(h registry.Handle, o *Object)) {
	m.objects.Each(fn)
}

func (m *Manager) Len() int {
	return m.objects.Len()
}

func (m *Manager) MeshCache() *MeshCache {
	return m.meshes
}
