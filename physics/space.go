package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"
)

// World is the registration surface objects need. It is passed explicitly
// to every object instead of being looked up globally.
type World interface {
	AddBody(b *RigidBody) bool
	RemoveBody(b *RigidBody) bool
	ContainsBody(b *RigidBody) bool
}

type SpaceConfig struct {
	Gravity    float64
	Iterations int
	// Floor, when set, is a height dynamic bodies cannot sink below.
	Floor *float64
}

// Contact is reported when a kart starts touching a physical object.
type Contact struct {
	Kart   UserPointer
	Object UserPointer
	// Normal points from the kart towards the object.
	Normal mgl64.Vec3
	Point  mgl64.Vec3
}

// Space owns the Chipmunk space and every body registered with it.
type Space struct {
	space         *cp.Space
	cfg           SpaceConfig
	handlersReady bool

	bodies      []*RigidBody
	shapeToBody map[*cp.Shape]*RigidBody
	contacts    []Contact

	log zerolog.Logger
}

func NewSpace(cfg SpaceConfig, log zerolog.Logger) *Space {
	space := cp.NewSpace()
	if cfg.Iterations > 0 {
		space.Iterations = uint(cfg.Iterations)
	}
	// the simulator only sees the ground plane; gravity acts on the vertical axis
	space.SetGravity(cp.Vector{})

	s := &Space{
		space:       space,
		cfg:         cfg,
		shapeToBody: make(map[*cp.Shape]*RigidBody),
		log:         log,
	}
	s.setupHandlers()
	return s
}

// Space returns the underlying Chipmunk space.
func (s *Space) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *Space) Config() SpaceConfig {
	return s.cfg
}

// AddBody registers b. It returns false if b is nil or already registered
// with this or another world.
func (s *Space) AddBody(b *RigidBody) bool {
	if s == nil || b == nil || b.space != nil {
		return false
	}
	s.space.AddBody(b.body)
	if b.shape != nil {
		s.space.AddShape(b.shape)
		s.shapeToBody[b.shape] = b
	}
	b.space = s
	s.bodies = append(s.bodies, b)
	return true
}

// RemoveBody unregisters b. It returns false if b was not registered here.
func (s *Space) RemoveBody(b *RigidBody) bool {
	if s == nil || b == nil || b.space != s {
		return false
	}
	if b.shape != nil {
		s.space.RemoveShape(b.shape)
		delete(s.shapeToBody, b.shape)
	}
	s.space.RemoveBody(b.body)
	b.space = nil
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
	return true
}

func (s *Space) ContainsBody(b *RigidBody) bool {
	return s != nil && b != nil && b.space == s
}

// BodyForShape maps a simulator shape back to its body.
func (s *Space) BodyForShape(shape *cp.Shape) (*RigidBody, bool) {
	if s == nil || shape == nil {
		return nil, false
	}
	b, ok := s.shapeToBody[shape]
	return b, ok
}

func (s *Space) BodyCount() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}

// Step advances the simulation and refreshes every dynamic body's motion state.
func (s *Space) Step(dt float64) {
	if s == nil || dt < 0 {
		return
	}
	s.space.Step(dt)
	for _, b := range s.bodies {
		if b.kinematic {
			continue
		}
		b.integrateVertical(dt, s.cfg.Gravity, s.cfg.Floor)
		b.motion.SetWorldTransform(b.Transform())
	}
}

// Contacts drains the contacts reported since the last call.
func (s *Space) Contacts() []Contact {
	if s == nil || len(s.contacts) == 0 {
		return nil
	}
	out := s.contacts
	s.contacts = nil
	return out
}

// CastRay returns the closest hit on the segment from→to over all solid
// bodies. It does not modify the simulation.
func (s *Space) CastRay(from, to mgl64.Vec3, interpolate bool) (RayHit, bool) {
	if s == nil {
		return RayHit{}, false
	}
	const pad = 0.01
	bb := cp.BB{
		L: math.Min(from[0], to[0]) - pad,
		B: math.Min(from[2], to[2]) - pad,
		R: math.Max(from[0], to[0]) + pad,
		T: math.Max(from[2], to[2]) + pad,
	}
	candidates := map[*RigidBody]struct{}{}
	s.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		if b, ok := s.shapeToBody[shape]; ok {
			candidates[b] = struct{}{}
		}
	}, nil)

	best := RayHit{Fraction: math.Inf(1)}
	found := false
	// walk bodies in registration order so ties resolve deterministically
	for _, b := range s.bodies {
		if _, ok := candidates[b]; !ok {
			continue
		}
		hit, ok := b.CastRay(from, to, interpolate)
		if ok && hit.Fraction < best.Fraction {
			best = hit
			found = true
		}
	}
	return best, found
}

func (s *Space) setupHandlers() {
	if s == nil || s.handlersReady || s.space == nil {
		return
	}

	kartHandler := s.space.NewCollisionHandler(CollisionTypeKart, CollisionTypeObject)
	kartHandler.UserData = s
	kartHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*Space)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		kart, okA := world.shapeToBody[shapeA]
		obj, okB := world.shapeToBody[shapeB]
		if !okA || !okB {
			return true
		}
		n := arb.Normal()
		contact := Contact{
			Kart:   kart.user,
			Object: obj.user,
			Normal: mgl64.Vec3{n.X, 0, n.Y},
		}
		if set := arb.ContactPointSet(); set.Count > 0 {
			p := set.Points[0].PointA
			contact.Point = mgl64.Vec3{p.X, kart.height, p.Y}
		}
		world.contacts = append(world.contacts, contact)
		world.log.Debug().
			Str("kart", kart.user.Handle.String()).
			Str("object", obj.user.Handle.String()).
			Msg("kart contact")
		return true
	}

	s.handlersReady = true
}
