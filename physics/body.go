package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

const (
	CollisionTypeObject cp.CollisionType = iota + 1
	CollisionTypeKart
)

// BodyConfig describes a rigid body before it is created.
type BodyConfig struct {
	Mass           float64
	Shape          Shape
	Transform      Transform
	Kinematic      bool
	Sensor         bool
	CollisionType  cp.CollisionType
	Friction       float64
	Elasticity     float64
	AngularDamping float64
	MotionState    *MotionState
	UserPointer    UserPointer
}

// RigidBody couples a planar simulator body with the vertical axis, which
// is integrated by the Space. Pitch and roll are carried but not simulated.
type RigidBody struct {
	body     *cp.Body
	shape    *cp.Shape
	collider Shape

	mass      float64
	kinematic bool

	height  float64
	vy      float64
	forceY  float64
	pitch   float64
	roll    float64
	bottomY float64

	motion *MotionState
	user   UserPointer
	space  *Space
}

// NewRigidBody builds a body. Bodies with mass <= 0 or Kinematic set are
// immovable by forces and impulses. A nil Shape gives a body nothing can
// collide with.
func NewRigidBody(cfg BodyConfig) *RigidBody {
	rb := &RigidBody{
		collider:  cfg.Shape,
		mass:      cfg.Mass,
		kinematic: cfg.Kinematic || cfg.Mass <= 0,
		motion:    cfg.MotionState,
		user:      cfg.UserPointer,
	}
	if rb.motion == nil {
		rb.motion = NewMotionState(cfg.Transform)
	}
	if rb.kinematic {
		rb.body = cp.NewKinematicBody()
	} else {
		moment := 1.0
		if cfg.Shape != nil {
			moment = cfg.Shape.moment(cfg.Mass)
		}
		rb.body = cp.NewBody(cfg.Mass, moment)
		if damping := cfg.AngularDamping; damping > 0 {
			rb.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, linear float64, dt float64) {
				cp.BodyUpdateVelocity(body, gravity, linear, dt)
				body.SetAngularVelocity(body.AngularVelocity() * math.Pow(1-damping, dt))
			})
		}
	}
	if cfg.Shape != nil {
		lo, _ := cfg.Shape.Bounds()
		rb.bottomY = lo[1]
		rb.shape = cfg.Shape.footprint(rb.body)
		rb.shape.SetCollisionType(cfg.CollisionType)
		rb.shape.SetFriction(cfg.Friction)
		rb.shape.SetElasticity(cfg.Elasticity)
		rb.shape.SetSensor(cfg.Sensor)
	}
	rb.SetTransform(cfg.Transform)
	return rb
}

func (rb *RigidBody) Transform() Transform {
	p := rb.body.Position()
	return Transform{
		Origin: mgl64.Vec3{p.X, rb.height, p.Y},
		HPR:    mgl64.Vec3{-rb.body.Angle(), rb.pitch, rb.roll},
	}
}

// SetTransform teleports the body. It does not touch the motion state.
func (rb *RigidBody) SetTransform(t Transform) {
	rb.body.SetPosition(planar(t.Origin[0], t.Origin[2]))
	rb.body.SetAngle(-t.HPR[0])
	rb.height = t.Origin[1]
	rb.pitch = t.HPR[1]
	rb.roll = t.HPR[2]
	// Re-adding the shape refreshes its broadphase bounds.
	if rb.space != nil && rb.shape != nil && rb.space.space.ContainsShape(rb.shape) {
		rb.space.space.RemoveShape(rb.shape)
		rb.space.space.AddShape(rb.shape)
	}
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	v := rb.body.Velocity()
	return mgl64.Vec3{v.X, rb.vy, v.Y}
}

func (rb *RigidBody) SetLinearVelocity(v mgl64.Vec3) {
	rb.body.SetVelocityVector(planar(v[0], v[2]))
	rb.vy = v[1]
}

// AngularVelocity returns the heading rate about Y.
func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	return mgl64.Vec3{0, -rb.body.AngularVelocity(), 0}
}

// SetAngularVelocity sets the heading rate. Only the Y component is used.
func (rb *RigidBody) SetAngularVelocity(w mgl64.Vec3) {
	rb.body.SetAngularVelocity(-w[1])
}

// ApplyCentralImpulse changes momentum instantly. No-op on immovable bodies.
func (rb *RigidBody) ApplyCentralImpulse(impulse mgl64.Vec3) {
	if rb.kinematic {
		return
	}
	rb.body.ApplyImpulseAtWorldPoint(planar(impulse[0], impulse[2]), rb.body.Position())
	rb.vy += impulse[1] / rb.mass
}

// ApplyCentralForce accumulates a force for the next step.
func (rb *RigidBody) ApplyCentralForce(force mgl64.Vec3) {
	if rb.kinematic {
		return
	}
	rb.body.ApplyForceAtWorldPoint(planar(force[0], force[2]), rb.body.Position())
	rb.forceY += force[1]
}

func (rb *RigidBody) Mass() float64 {
	if rb.kinematic {
		return 0
	}
	return rb.mass
}

func (rb *RigidBody) Kinematic() bool { return rb.kinematic }

func (rb *RigidBody) Collider() Shape { return rb.collider }

// Solid reports whether the body has a shape that takes part in collisions.
func (rb *RigidBody) Solid() bool { return rb.shape != nil }

func (rb *RigidBody) InWorld() bool { return rb.space != nil }

func (rb *RigidBody) UserPointer() UserPointer { return rb.user }

func (rb *RigidBody) SetUserPointer(u UserPointer) {
	rb.user = u
}

func (rb *RigidBody) MotionState() *MotionState {
	return rb.motion
}

// SetSensor toggles contact response. Sensors still report contacts.
func (rb *RigidBody) SetSensor(on bool) {
	if rb.shape != nil {
		rb.shape.SetSensor(on)
	}
}

func (rb *RigidBody) Sensor() bool {
	return rb.shape != nil && rb.shape.Sensor()
}

// CastRay intersects a world-space segment with this body's shape.
func (rb *RigidBody) CastRay(from, to mgl64.Vec3, interpolate bool) (RayHit, bool) {
	if rb.collider == nil {
		return RayHit{}, false
	}
	t := rb.Transform()
	hit, ok := rb.collider.RayTest(t.ApplyInverse(from), t.ApplyInverse(to), interpolate)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{
		Point:       from.Add(to.Sub(from).Mul(hit.Fraction)),
		Normal:      t.RotateVector(hit.Normal),
		Fraction:    hit.Fraction,
		Triangle:    hit.Triangle,
		UserPointer: rb.user,
		Body:        rb,
	}, true
}

func (rb *RigidBody) integrateVertical(dt, gravity float64, floor *float64) {
	rb.vy += (gravity + rb.forceY/rb.mass) * dt
	rb.forceY = 0
	rb.height += rb.vy * dt
	if floor != nil && rb.height+rb.bottomY < *floor {
		rb.height = *floor - rb.bottomY
		if rb.vy < 0 {
			rb.vy = 0
		}
	}
}

// RayHit is the result of a successful ray query.
type RayHit struct {
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	Fraction    float64
	Triangle    int
	Material    string
	UserPointer UserPointer
	Body        *RigidBody
}
