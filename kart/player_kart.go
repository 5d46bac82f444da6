package kart

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/common"
	"github.com/rs/zerolog"
)

const (
	// DefaultStartPenalty is how long a kart that jumped the start is held.
	DefaultStartPenalty = 1.0

	WrongWayMessage = "WRONG WAY!"
	wrongWayTTL     = 1.0
	wrongWayAngle   = 120 * math.Pi / 180

	crashShakeTime     = 0.4
	crashShakeStrength = 1.0
	zipperShakeTime    = 0.2
	zipperShake        = 0.3
	messageTTL         = 2.0
)

// Track reports the direction of travel along the course.
type Track interface {
	HeadingAt(pos mgl64.Vec3) float64
}

type PlayerOption func(pk *PlayerKart)

func WithCamera(c *Camera) PlayerOption {
	return func(pk *PlayerKart) { pk.camera = c }
}

// WithStartPhase tells the kart whether the race is still counting down.
func WithStartPhase(inStart func() bool) PlayerOption {
	return func(pk *PlayerKart) { pk.inStartPhase = inStart }
}

// WithPenalty starts the kart with a running penalty.
func WithPenalty(seconds float64) PlayerOption {
	return func(pk *PlayerKart) { pk.penaltyTime = math.Max(0, seconds) }
}

// WithStartPenalty sets how long a jumped start is penalised.
func WithStartPenalty(seconds float64) PlayerOption {
	return func(pk *PlayerKart) { pk.startPenalty = seconds }
}

func WithPlayerLogger(log zerolog.Logger) PlayerOption {
	return func(pk *PlayerKart) { pk.log = log }
}

// PlayerKart turns a player's input events into kart controls.
type PlayerKart struct {
	*Kart

	player *Player
	camera *Camera

	steerLeft  int
	steerRight int
	steer      float64
	accel      int
	brake      bool
	fire       bool
	nitro      bool
	skid       bool
	rescue     bool

	penaltyTime  float64
	startPenalty float64
	inStartPhase func() bool

	log zerolog.Logger
}

func NewPlayerKart(k *Kart, player *Player, opts ...PlayerOption) *PlayerKart {
	pk := &PlayerKart{
		Kart:         k,
		player:       player,
		startPenalty: DefaultStartPenalty,
		log:          zerolog.Nop(),
	}
	pk.clearInput()
	for _, opt := range opts {
		opt(pk)
	}
	return pk
}

// Action records one input event. Steering values are magnitudes up to
// MaxAxis; other actions treat any non-zero value as pressed.
func (pk *PlayerKart) Action(a Action, value int) {
	switch a {
	case ActionSteerLeft:
		pk.steerLeft = -absInt(value)
	case ActionSteerRight:
		pk.steerRight = absInt(value)
	case ActionAccelerate:
		pk.accel = absInt(value)
	case ActionBrake:
		pk.brake = value != 0
		if pk.brake {
			pk.accel = 0
		}
	case ActionFire:
		pk.fire = value != 0
	case ActionNitro:
		pk.nitro = value != 0
	case ActionSkid:
		pk.skid = value != 0
	case ActionRescue:
		pk.rescue = value != 0
	case ActionLookBack:
		if value != 0 {
			pk.camera.SetMode(CameraReverse)
		} else {
			pk.camera.SetMode(CameraNormal)
		}
	default:
		pk.log.Warn().Int("action", int(a)).Int("value", value).Msg("unknown kart action, ignored")
	}
}

// SteerTarget is the combined steering input. Opposing inputs cancel.
func (pk *PlayerKart) SteerTarget() int {
	v := pk.steerLeft + pk.steerRight
	if v > MaxAxis {
		return MaxAxis
	}
	if v < -MaxAxis {
		return -MaxAxis
	}
	return v
}

// updateSteer moves the steering towards value. Partial (analog) input is
// followed directly; full digital input ramps over TimeFullSteer, and no
// input relaxes back to straight.
func (pk *PlayerKart) updateSteer(dt float64, value int) {
	step := 1.0
	if tfs := pk.props.TimeFullSteer; tfs > 0 {
		step = dt / tfs
	}
	target := float64(value) / MaxAxis
	switch {
	case value == 0:
		if pk.steer > 0 {
			pk.steer = math.Max(0, pk.steer-step)
		} else {
			pk.steer = math.Min(0, pk.steer+step)
		}
	case absInt(value) < MaxAxis:
		pk.steer = target
	case value > 0:
		pk.steer = math.Min(pk.steer+step, target)
	default:
		pk.steer = math.Max(pk.steer-step, target)
	}
	pk.steer = common.Clamp(pk.steer, -1, 1)
}

// Update feeds this frame's input to the kart. Input during the start
// phase arms the early start penalty; while it runs the kart cannot
// accelerate.
func (pk *PlayerKart) Update(dt float64) {
	pk.updateSteer(dt, pk.SteerTarget())
	c := Controls{
		Steer:    pk.steer,
		Accel:    common.Clamp(float64(pk.accel)/MaxAxis, 0, 1),
		Brake:    pk.brake,
		Fire:     pk.fire,
		Nitro:    pk.nitro,
		Skid:     pk.skid,
		Rescue:   pk.rescue,
		LookBack: pk.camera.Mode() == CameraReverse,
	}
	pk.camera.Update(dt)
	if pk.player != nil {
		pk.player.Messages.Update(dt)
	}

	if pk.inStartPhase != nil && pk.inStartPhase() {
		if c.Steer != 0 || c.Accel != 0 || c.Brake || c.Fire || c.Nitro || c.Skid {
			if pk.penaltyTime == 0 {
				pk.log.Info().Str("kart", pk.Name()).Msg("early start")
			}
			pk.penaltyTime = pk.startPenalty
		}
		pk.Kart.SetControls(Controls{LookBack: c.LookBack})
		return
	}

	if pk.penaltyTime > 0 {
		pk.penaltyTime = math.Max(0, pk.penaltyTime-dt)
		c.Accel = 0
		c.Nitro = false
	}
	if c.Fire {
		pk.UsePowerup()
		pk.fire = false
	}
	if c.Rescue {
		pk.Rescue()
		pk.rescue = false
	}
	pk.Kart.SetControls(c)
	pk.Kart.Update(dt)
}

// EarlyStartPenalty reports whether the kart is still held for jumping
// the start.
func (pk *PlayerKart) EarlyStartPenalty() bool {
	return pk.penaltyTime > 0
}

func (pk *PlayerKart) PenaltyTime() float64 { return pk.penaltyTime }
func (pk *PlayerKart) Player() *Player { return pk.player }
func (pk *PlayerKart) Camera() *Camera { return pk.camera }
func (pk *PlayerKart) IsPlayerKart() bool { return true }

func (pk *PlayerKart) ForceCrash() {
	pk.Kart.ForceCrash()
	pk.camera.Shake(crashShakeTime, crashShakeStrength)
}

func (pk *PlayerKart) HandleZipper() {
	pk.Kart.HandleZipper()
	pk.camera.Shake(zipperShakeTime, zipperShake)
}

func (pk *PlayerKart) CollectedHerring(h Herring) {
	before := pk.Powerups()
	pk.Kart.CollectedHerring(h)
	switch h.Type {
	case HerringGreen:
		pk.addMessage("Parachute!")
	case HerringRed:
		if pk.Powerups() > before {
			pk.addMessage("Powerup!")
		}
	}
}

// AddMessages queues this frame's notifications on the player's own
// message queue.
func (pk *PlayerKart) AddMessages(track Track) {
	if pk.player == nil || track == nil || pk.Finished() || pk.Rescuing() {
		return
	}
	diff := common.WrapAngle(pk.Heading() - track.HeadingAt(pk.Position()))
	if math.Abs(diff) > wrongWayAngle && pk.Speed() > 0 {
		pk.player.Messages.Add(WrongWayMessage, wrongWayTTL)
	}
}

// Notify shows text to the kart's player.
func (pk *PlayerKart) Notify(text string) {
	pk.addMessage(text)
}

func (pk *PlayerKart) addMessage(text string) {
	if pk.player != nil {
		pk.player.Messages.Add(text, messageTTL)
	}
}

// Reset clears every input, the penalty and the camera, then resets the kart.
func (pk *PlayerKart) Reset() {
	pk.clearInput()
	pk.penaltyTime = 0
	pk.camera.Reset()
	if pk.player != nil {
		pk.player.Messages.Clear()
	}
	pk.Kart.Reset()
}

func (pk *PlayerKart) clearInput() {
	pk.steerLeft = 0
	pk.steerRight = 0
	pk.steer = 0
	pk.accel = 0
	pk.brake = false
	pk.fire = false
	pk.nitro = false
	pk.skid = false
	pk.rescue = false
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
