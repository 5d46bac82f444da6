package kart

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/common"
	"github.com/milk9111/kartphysics/physics"
	"github.com/milk9111/kartphysics/registry"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var ErrNilWorld = eris.New("kart: nil world")

const (
	// below this forward speed the brake pedal reverses instead
	reverseThreshold = 0.5
	// steering reaches full authority at this speed
	fullSteerSpeed = 2.0
	nitroForce     = 0.5
	nitroBurnTime  = 1.0
	skidSteerGain  = 1.5
	skidGripFactor = 0.5
)

// Driver is a kart the race steps and reports events to.
type Driver interface {
	Base() *Kart
	Update(dt float64)
	ForceCrash()
	HandleZipper()
	CollectedHerring(h Herring)
	Reset()
	IsPlayerKart() bool
}

type Option func(k *Kart)

func WithLogger(log zerolog.Logger) Option {
	return func(k *Kart) { k.log = log }
}

// Kart is the simulated vehicle every driver controls.
type Kart struct {
	props    Properties
	start    physics.Transform
	rescueAt physics.Transform

	body   *physics.RigidBody
	world  physics.World
	handle registry.Handle

	controls Controls

	zipperTime     float64
	squashTime     float64
	squashSlowdown float64
	attachmentTime float64
	rescueTime     float64
	crashTime      float64
	nitroBurn      float64

	herrings int
	powerups int
	finished bool

	log zerolog.Logger
}

func New(props Properties, start physics.Transform, opts ...Option) *Kart {
	k := &Kart{
		props:    props,
		start:    start,
		rescueAt: start,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Init creates the chassis body and registers it with w under handle h.
func (k *Kart) Init(w physics.World, h registry.Handle) error {
	if k.body != nil {
		return nil
	}
	if w == nil {
		return ErrNilWorld
	}
	if k.props.Mass <= 0 {
		return eris.Errorf("kart: %s has non-positive mass %v", k.props.Name, k.props.Mass)
	}
	k.world = w
	k.handle = h
	k.body = physics.NewRigidBody(physics.BodyConfig{
		Mass:          k.props.Mass,
		Shape:         &physics.BoxShape{HalfExtents: k.props.Size.Mul(0.5)},
		Transform:     k.start,
		CollisionType: physics.CollisionTypeKart,
		Friction:      0.8,
		Elasticity:    0.2,
		UserPointer:   physics.UserPointer{Kind: physics.UserPointerKart, Handle: h},
	})
	w.AddBody(k.body)
	k.log.Debug().Str("kart", k.props.Name).Str("handle", h.String()).Msg("kart added")
	return nil
}

// Destroy takes the kart out of its world.
func (k *Kart) Destroy() {
	if k.body != nil && k.world != nil {
		k.world.RemoveBody(k.body)
	}
	k.body = nil
}

// Update drives the kart for one frame from its current controls.
func (k *Kart) Update(dt float64) {
	if k.body == nil || dt <= 0 {
		return
	}
	k.tick(dt)

	if k.rescueTime > 0 {
		k.rescueTime -= dt
		if k.rescueTime <= 0 {
			k.rescueTime = 0
			k.place(k.rescueAt)
		}
		return
	}

	t := k.body.Transform()
	fwd := common.Forward(t.HPR[0])
	v := k.body.LinearVelocity()
	speed := v.Dot(fwd)

	if k.crashTime <= 0 {
		k.body.ApplyCentralForce(fwd.Mul(k.engineForce(speed)))
		k.burnNitro(dt)
	}

	steerRate := k.props.SteerRate
	grip := k.props.Grip
	if k.controls.Skid {
		steerRate *= skidSteerGain
		grip *= skidGripFactor
	}
	authority := math.Min(1, math.Abs(speed)/fullSteerSpeed)
	if speed < 0 {
		authority = -authority
	}
	// positive steer turns right, which lowers the heading
	turn := -common.Clamp(k.controls.Steer, -1, 1) * steerRate * authority
	k.body.SetAngularVelocity(mgl64.Vec3{0, turn, 0})

	ground := mgl64.Vec3{v[0], 0, v[2]}
	lateral := ground.Sub(fwd.Mul(speed))
	ground = ground.Sub(lateral.Mul(math.Min(1, grip*dt)))

	if limit := k.MaxSpeed(); ground.Len() > limit {
		ground = ground.Mul(limit / ground.Len())
	}
	k.body.SetLinearVelocity(mgl64.Vec3{ground[0], v[1], ground[2]})
}

func (k *Kart) tick(dt float64) {
	dec := func(v *float64) {
		*v = math.Max(0, *v-dt)
	}
	dec(&k.zipperTime)
	dec(&k.squashTime)
	dec(&k.attachmentTime)
	dec(&k.crashTime)
}

func (k *Kart) engineForce(speed float64) float64 {
	c := k.controls
	switch {
	case c.Brake && speed > reverseThreshold:
		return -k.props.BrakeForce
	case c.Brake:
		return -k.props.EngineForce / 2
	}
	force := k.props.EngineForce * common.Clamp(c.Accel, 0, 1)
	if c.Nitro && k.herrings > 0 && c.Accel > 0 {
		force += k.props.EngineForce * nitroForce
	}
	return force
}

// MaxSpeed is the current speed limit with every boost and penalty applied.
func (k *Kart) MaxSpeed() float64 {
	limit := k.props.MaxSpeed
	if k.zipperTime > 0 {
		limit += k.props.ZipperSpeedGain
	}
	if k.controls.Nitro && k.herrings > 0 {
		limit += k.props.ZipperSpeedGain / 2
	}
	if k.squashTime > 0 {
		limit *= k.squashSlowdown
	}
	if k.attachmentTime > 0 {
		limit *= k.props.AttachmentSlowdown
	}
	return limit
}

// burnNitro spends one herring per second of nitro use.
func (k *Kart) burnNitro(dt float64) {
	if !k.controls.Nitro || k.herrings == 0 || k.controls.Accel <= 0 {
		return
	}
	k.nitroBurn += dt
	for k.nitroBurn >= nitroBurnTime && k.herrings > 0 {
		k.nitroBurn -= nitroBurnTime
		k.herrings--
	}
}

func (k *Kart) place(t physics.Transform) {
	k.body.SetTransform(t)
	k.body.MotionState().SetWorldTransform(t)
	k.body.SetLinearVelocity(mgl64.Vec3{})
	k.body.SetAngularVelocity(mgl64.Vec3{})
}

// ForceCrash stops the kart dead, e.g. after hitting a wall head on.
func (k *Kart) ForceCrash() {
	if k.body == nil {
		return
	}
	v := k.body.LinearVelocity()
	k.body.SetLinearVelocity(mgl64.Vec3{0, v[1], 0})
	k.crashTime = k.props.CrashTime
}

// HandleZipper gives a short burst of speed.
func (k *Kart) HandleZipper() {
	if k.body == nil {
		return
	}
	k.zipperTime = k.props.ZipperTime
	fwd := common.Forward(k.Heading())
	k.body.ApplyCentralImpulse(fwd.Mul(k.props.Mass * k.props.ZipperSpeedGain))
}

// CollectedHerring applies a herring picked up from the track.
func (k *Kart) CollectedHerring(h Herring) {
	switch h.Type {
	case HerringGreen:
		k.attachmentTime = k.props.AttachmentTime
	case HerringSilver:
		k.herrings++
	case HerringGold:
		k.herrings += 3
	case HerringRed:
		k.powerups += 1 + 4*k.herrings/MaxHerrings
	}
	if k.herrings > MaxHerrings {
		k.herrings = MaxHerrings
	}
}

// UsePowerup fires one collected powerup.
func (k *Kart) UsePowerup() bool {
	if k.powerups == 0 || k.Rescuing() {
		return false
	}
	k.powerups--
	return true
}

// Rescue lifts the kart back onto the track after RescueTime.
func (k *Kart) Rescue() {
	if k.body == nil || k.rescueTime > 0 {
		return
	}
	k.body.SetLinearVelocity(mgl64.Vec3{})
	k.body.SetAngularVelocity(mgl64.Vec3{})
	k.rescueTime = k.props.RescueTime
	if k.rescueTime <= 0 {
		k.place(k.rescueAt)
	}
}

// Explode throws the kart into the air and rescues it.
func (k *Kart) Explode() {
	if k.body == nil || k.rescueTime > 0 {
		return
	}
	k.rescueTime = k.props.RescueTime
	k.body.ApplyCentralImpulse(mgl64.Vec3{0, k.props.ExplosionImpulse, 0})
	k.log.Debug().Str("kart", k.props.Name).Msg("kart exploded")
}

// Squash flattens the kart, slowing it by slowdown for duration seconds.
// Non-positive arguments use the kart's properties.
func (k *Kart) Squash(duration, slowdown float64) {
	if duration <= 0 {
		duration = k.props.SquashDuration
	}
	if slowdown <= 0 {
		slowdown = k.props.SquashSlowdown
	}
	k.squashTime = duration
	k.squashSlowdown = slowdown
}

// Reset puts the kart back on its start position with nothing collected.
func (k *Kart) Reset() {
	k.controls = Controls{}
	k.zipperTime = 0
	k.squashTime = 0
	k.attachmentTime = 0
	k.rescueTime = 0
	k.crashTime = 0
	k.nitroBurn = 0
	k.herrings = 0
	k.powerups = 0
	k.finished = false
	k.rescueAt = k.start
	if k.body != nil {
		k.place(k.start)
	}
}

// SetRescuePoint changes where Rescue puts the kart.
func (k *Kart) SetRescuePoint(t physics.Transform) {
	k.rescueAt = t
}

func (k *Kart) Transform() physics.Transform {
	if k.body == nil {
		return k.start
	}
	return k.body.Transform()
}

func (k *Kart) Heading() float64 {
	return k.Transform().HPR[0]
}

func (k *Kart) Position() mgl64.Vec3 {
	return k.Transform().Origin
}

// Speed is the signed speed along the kart's heading.
func (k *Kart) Speed() float64 {
	if k.body == nil {
		return 0
	}
	return k.body.LinearVelocity().Dot(common.Forward(k.Heading()))
}

func (k *Kart) SetControls(c Controls) {
	k.controls = c
}

func (k *Kart) Base() *Kart { return k }
func (k *Kart) IsPlayerKart() bool { return false }
func (k *Kart) Controls() Controls { return k.controls }
func (k *Kart) Properties() Properties { return k.props }
func (k *Kart) Body() *physics.RigidBody { return k.body }
func (k *Kart) Handle() registry.Handle { return k.handle }
func (k *Kart) Name() string { return k.props.Name }
func (k *Kart) Herrings() int { return k.herrings }
func (k *Kart) Powerups() int { return k.powerups }
func (k *Kart) Crashed() bool { return k.crashTime > 0 }
func (k *Kart) Squashed() bool { return k.squashTime > 0 }
func (k *Kart) Rescuing() bool { return k.rescueTime > 0 }
func (k *Kart) ZipperActive() bool { return k.zipperTime > 0 }
func (k *Kart) HasAttachment() bool { return k.attachmentTime > 0 }
func (k *Kart) Finished() bool { return k.finished }
func (k *Kart) SetFinished(v bool) { k.finished = v }
func (k *Kart) UserPointer() physics.UserPointer {
	return physics.UserPointer{Kind: physics.UserPointerKart, Handle: k.handle}
}
