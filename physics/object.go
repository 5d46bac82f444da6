package physics

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/common"
	"github.com/milk9111/kartphysics/material"
	"github.com/milk9111/kartphysics/registry"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var ErrNilWorld = eris.New("physics: nil world")

// minExtent keeps derived primitive sizes positive for meshes that are flat
// or missing.
const minExtent = 0.01

// SceneNode is the scene-graph side of a physical object.
type SceneNode interface {
	Position() mgl64.Vec3
	// Rotation returns heading/pitch/roll in radians.
	Rotation() mgl64.Vec3
	Scale() mgl64.Vec3
	// Bounds returns the unscaled local mesh bounds.
	Bounds() (mgl64.Vec3, mgl64.Vec3)
	// Mesh returns triangle data for exact shapes, or nil.
	Mesh() *MeshData
	SetTransform(pos, hpr mgl64.Vec3)
}

// Tuning holds the gameplay constants objects react with.
type Tuning struct {
	ExplosionImpulse float64
	// SplashFactor scales splash impulses; it must stay below 1.
	SplashFactor   float64
	AngularDamping float64
	CrateSpin      float64
}

func DefaultTuning() Tuning {
	return Tuning{
		ExplosionImpulse: 50,
		SplashFactor:     0.5,
		AngularDamping:   0.5,
		CrateSpin:        0.2,
	}
}

type objectState int

const (
	stateConstructed objectState = iota
	stateActive
	stateRemoved
	stateDestroyed
)

// HitRecord is the last collision reported to an object.
type HitRecord struct {
	Material string
	Normal   mgl64.Vec3
}

type Option func(o *Object)

func WithLogger(log zerolog.Logger) Option {
	return func(o *Object) { o.log = log }
}

func WithMeshCache(c *MeshCache) Option {
	return func(o *Object) { o.meshCache = c }
}

func WithMaterial(m *material.Material) Option {
	return func(o *Object) { o.material = m }
}

func WithTuning(t Tuning) Option {
	return func(o *Object) { o.tuning = t }
}

// Object binds one scene node to one rigid body.
type Object struct {
	id       string
	kind     Kind
	behavior behavior

	initXYZ   mgl64.Vec3
	initHPR   mgl64.Vec3
	initScale mgl64.Vec3
	node      SceneNode

	bodyType BodyType
	shape    Shape
	body     *RigidBody
	motion   *MotionState
	mesh     *TriangleMesh

	mass      float64
	radius    float64
	isDynamic bool
	user      UserPointer

	initPos         Transform
	graphicalOffset mgl64.Vec3

	crashReset      bool
	explodeKart     bool
	flattenKart     bool
	resetWhenTooLow bool
	resetHeight     float64
	noContact       bool

	materialName string
	material     *material.Material
	interaction  string
	script       string

	world       World
	state       objectState
	lastHit     *HitRecord
	lastToucher UserPointer

	tuning    Tuning
	meshCache *MeshCache
	log       zerolog.Logger
}

// NewObject captures the node's placement. The body is created by Init.
func NewObject(isDynamic bool, s Settings, node SceneNode, opts ...Option) *Object {
	o := &Object{
		id:              s.ID,
		kind:            s.Kind,
		behavior:        behaviorFor(s.Kind),
		node:            node,
		bodyType:        s.BodyType,
		mass:            s.Mass,
		radius:          s.Radius,
		isDynamic:       isDynamic,
		crashReset:      s.CrashReset,
		explodeKart:     s.KnockKart,
		flattenKart:     s.FlattenKart,
		resetWhenTooLow: s.ResetWhenTooLow,
		resetHeight:     s.ResetHeight,
		materialName:    s.Material,
		interaction:     s.Interaction,
		script:          s.OnKartCollision,
		user:            UserPointer{Kind: UserPointerPhysicalObject},
		initScale:       mgl64.Vec3{1, 1, 1},
		tuning:          DefaultTuning(),
		log:             zerolog.Nop(),
	}
	if node != nil {
		o.initXYZ = node.Position()
		o.initHPR = node.Rotation()
		o.initScale = node.Scale()
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Object) setHandle(h registry.Handle) {
	o.user.Handle = h
	if o.body != nil {
		o.body.SetUserPointer(o.user)
	}
}

func (o *Object) scaledBounds() (mgl64.Vec3, mgl64.Vec3) {
	if o.node == nil {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo, hi := o.node.Bounds()
	a := common.MulElem(lo, o.initScale)
	b := common.MulElem(hi, o.initScale)
	for i := 0; i < 3; i++ {
		a[i], b[i] = math.Min(a[i], b[i]), math.Max(a[i], b[i])
	}
	return a, b
}

// Init builds the collision shape and body and registers the body with w.
// Calling Init on an object that already has a body does nothing.
func (o *Object) Init(w World) error {
	if o.state != stateConstructed {
		return nil
	}
	if w == nil {
		return ErrNilWorld
	}
	o.world = w

	lo, hi := o.scaledBounds()
	extend := hi.Sub(lo)
	o.graphicalOffset = lo.Add(hi).Mul(-0.5)

	switch o.bodyType {
	case BodyConeY, BodyConeX, BodyConeZ, BodyCylinderY, BodyCylinderX, BodyCylinderZ:
		axis := o.bodyType.axis()
		u, v := extend[(axis+1)%3], extend[(axis+2)%3]
		if o.radius <= 0 {
			o.radius = 0.5 * math.Hypot(u, v)
		}
		o.radius = o.positive(o.radius, "radius")
		o.shape = newRoundShape(o.bodyType, o.radius, o.positive(extend[axis], "height"))
	case BodyBox:
		half := extend.Mul(0.5)
		for i := range half {
			half[i] = o.positive(half[i], "half extent")
		}
		if o.radius <= 0 {
			o.radius = half.Len()
		}
		o.shape = &BoxShape{HalfExtents: half}
	case BodySphere:
		if o.radius <= 0 {
			o.radius = 0.5 * math.Max(extend[0], math.Max(extend[1], extend[2]))
		}
		o.radius = o.positive(o.radius, "radius")
		o.shape = &SphereShape{Radius: o.radius}
	case BodyExact:
		var data *MeshData
		if o.node != nil {
			data = o.node.Mesh()
		}
		mesh := o.meshCache.Get(data, o.initScale)
		if mesh.TriangleCount() == 0 {
			o.log.Warn().Str("id", o.id).Msg("exact shape without triangles, object will not collide")
			o.bodyType = BodyNone
			break
		}
		o.mesh = mesh
		o.shape = &MeshShape{Mesh: mesh}
		mlo, mhi := mesh.Bounds()
		if o.radius <= 0 {
			o.radius = 0.5 * mhi.Sub(mlo).Len()
		}
		// triangles are already in node space
		o.graphicalOffset = mgl64.Vec3{}
	case BodyNone:
	default:
		o.log.Warn().Str("id", o.id).Int("shape", int(o.bodyType)).Msg("unknown physics shape, object will not collide")
		o.bodyType = BodyNone
	}

	rot := common.HPRToQuat(o.initHPR)
	o.initPos = Transform{
		Origin: o.initXYZ.Sub(rot.Rotate(o.graphicalOffset)),
		HPR:    o.initHPR,
	}
	o.motion = NewMotionState(o.initPos)

	elasticity := 0.0
	friction := 0.8
	if o.material != nil {
		elasticity = o.material.Restitution
		friction = o.material.Friction
	}
	if o.mesh != nil {
		elasticity = 0.8
	}
	o.body = NewRigidBody(BodyConfig{
		Mass:           o.mass,
		Shape:          o.shape,
		Transform:      o.initPos,
		Kinematic:      !o.isDynamic,
		CollisionType:  CollisionTypeObject,
		Friction:       friction,
		Elasticity:     elasticity,
		AngularDamping: o.tuning.AngularDamping,
		MotionState:    o.motion,
		UserPointer:    o.user,
	})
	if o.interaction != "" {
		o.SetInteraction(o.interaction)
	}

	o.world.AddBody(o.body)
	o.state = stateActive
	o.log.Debug().
		Str("id", o.id).
		Str("shape", o.bodyType.String()).
		Float64("radius", o.radius).
		Bool("dynamic", o.isDynamic).
		Msg("physical object added")
	return nil
}

func (o *Object) positive(v float64, what string) float64 {
	if v > 0 {
		return v
	}
	o.log.Warn().Str("id", o.id).Str("field", what).Float64("value", v).Msg("non-positive size derived from mesh, clamping")
	return minExtent
}

// Update copies the simulated transform back to the scene node and resets
// the object once it has fallen below its reset height.
func (o *Object) Update(dt float64) {
	if o.state != stateActive {
		return
	}
	t := o.motion.WorldTransform()
	if !o.isDynamic {
		t = o.body.Transform()
	}
	if o.resetWhenTooLow && t.Origin[1] < o.resetHeight {
		o.Reset()
		return
	}
	if !o.isDynamic || o.node == nil {
		return
	}
	o.node.SetTransform(t.Origin.Add(t.RotateVector(o.graphicalOffset)), t.HPR)
}

// Reset puts the object back to where it was constructed, at rest.
func (o *Object) Reset() {
	if o.body == nil {
		return
	}
	o.behavior.reset(o)
}

func (o *Object) resetBody() {
	o.body.SetTransform(o.initPos)
	o.body.SetLinearVelocity(mgl64.Vec3{})
	o.body.SetAngularVelocity(mgl64.Vec3{})
	o.motion.SetWorldTransform(o.initPos)
}

// Move places the object outside the simulation. xyz and hpr describe the
// scene node, not the body.
func (o *Object) Move(xyz, hpr mgl64.Vec3) {
	if o.body == nil {
		return
	}
	t := Transform{
		Origin: xyz.Sub(common.HPRToQuat(hpr).Rotate(o.graphicalOffset)),
		HPR:    hpr,
	}
	o.motion.SetWorldTransform(t)
	o.body.SetTransform(t)
}

// Hit reacts to something touching the object with material m. A soccer
// ball touched by a pushing material is kicked along the contact normal.
func (o *Object) Hit(m *material.Material, normal mgl64.Vec3) {
	if o.state != stateActive {
		return
	}
	rec := &HitRecord{Normal: normal}
	if m != nil {
		rec.Material = m.Name
	}
	o.lastHit = rec

	if !o.IsSoccerBall() || m == nil || m.Reaction != material.ReactionPushSoccerBall {
		return
	}
	dir := safeNormalize(mgl64.Vec3{normal[0], 0, normal[2]})
	if dir.LenSqr() == 0 {
		return
	}
	o.body.ApplyCentralImpulse(dir.Mul(o.body.Mass() * m.PushStrength))
}

// HandleExplosion applies the blast at pos. directHit marks the object as
// the one the projectile hit.
func (o *Object) HandleExplosion(pos mgl64.Vec3, directHit bool) {
	if o.state != stateActive {
		return
	}
	o.behavior.handleExplosion(o, pos, directHit)
}

// CastRay intersects the segment from→to with this object's shape.
func (o *Object) CastRay(from, to mgl64.Vec3, interpolateNormal bool) (RayHit, bool) {
	if o.state != stateActive {
		return RayHit{}, false
	}
	hit, ok := o.body.CastRay(from, to, interpolateNormal)
	if !ok {
		return RayHit{}, false
	}
	hit.Material = o.materialName
	if o.mesh != nil {
		if name := o.mesh.Material(hit.Triangle); name != "" {
			hit.Material = name
		}
	}
	return hit, true
}

// AddBody puts a removed body back into the world.
func (o *Object) AddBody() bool {
	if o.state != stateRemoved {
		return false
	}
	if !o.world.AddBody(o.body) {
		return false
	}
	o.state = stateActive
	return true
}

// RemoveBody takes the body out of the world without destroying it.
func (o *Object) RemoveBody() bool {
	if o.state != stateActive {
		return false
	}
	o.world.RemoveBody(o.body)
	o.state = stateRemoved
	return true
}

// SetInteraction changes how karts are affected by the object.
func (o *Object) SetInteraction(name string) {
	o.interaction = name
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "flatten":
		o.flattenKart = true
	case "reset":
		o.crashReset = true
	case "explode":
		o.explodeKart = true
	case "none", "ghost":
		o.noContact = true
		if o.body != nil {
			o.body.SetSensor(true)
		}
	default:
		o.log.Warn().Str("id", o.id).Str("interaction", name).Msg("unknown interaction, ignored")
	}
}

// Destroy unregisters and releases the body. The object is unusable afterwards.
func (o *Object) Destroy() {
	if o.state == stateDestroyed {
		return
	}
	if o.body != nil && o.world != nil {
		o.world.RemoveBody(o.body)
	}
	o.body = nil
	o.shape = nil
	o.motion = nil
	o.mesh = nil
	o.state = stateDestroyed
}

func (o *Object) center() mgl64.Vec3 {
	return o.body.Transform().Origin
}

// Transform returns the body's current transform as last synchronised.
func (o *Object) Transform() Transform {
	if o.motion == nil {
		return Transform{}
	}
	if !o.isDynamic && o.body != nil {
		return o.body.Transform()
	}
	return o.motion.WorldTransform()
}

func (o *Object) InitialTransform() Transform { return o.initPos }
func (o *Object) ID() string { return o.id }
func (o *Object) Kind() Kind { return o.kind }
func (o *Object) Body() *RigidBody { return o.body }
func (o *Object) Shape() Shape { return o.shape }
func (o *Object) BodyType() BodyType { return o.bodyType }
func (o *Object) Radius() float64 { return o.radius }
func (o *Object) Mass() float64 { return o.mass }
func (o *Object) IsDynamic() bool { return o.isDynamic }
func (o *Object) GraphicalOffset() mgl64.Vec3 { return o.graphicalOffset }
func (o *Object) Node() SceneNode { return o.node }
func (o *Object) Handle() registry.Handle { return o.user.Handle }
func (o *Object) UserPointer() UserPointer { return o.user }
func (o *Object) LastHit() *HitRecord { return o.lastHit }
func (o *Object) LastToucher() UserPointer { return o.lastToucher }
func (o *Object) ScriptName() string { return o.script }
func (o *Object) MaterialName() string { return o.materialName }
func (o *Object) Material() *material.Material { return o.material }
func (o *Object) Active() bool { return o.state == stateActive }
func (o *Object) Destroyed() bool { return o.state == stateDestroyed }
func (o *Object) Passable() bool { return o.shape == nil || o.noContact }
func (o *Object) IsCrashReset() bool { return o.crashReset }
func (o *Object) IsExplodeKartObject() bool { return o.explodeKart }
func (o *Object) IsFlattenKartObject() bool { return o.flattenKart }
func (o *Object) IsSoccerBall() bool { return o.kind == KindSoccerBall }

// SetLastToucher records which kart touched the object last.
func (o *Object) SetLastToucher(u UserPointer) {
	o.lastToucher = u
}
