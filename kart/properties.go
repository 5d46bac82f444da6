package kart

import "github.com/go-gl/mathgl/mgl64"

// MaxHerrings is the most herrings a kart can carry.
const MaxHerrings = 20

// Properties are the per-kart driving constants.
type Properties struct {
	Name string
	Mass float64
	// Size is the full width, height and length of the chassis.
	Size mgl64.Vec3

	EngineForce float64
	BrakeForce  float64
	MaxSpeed    float64
	// SteerRate is the heading rate in radians per second at full lock.
	SteerRate float64
	// TimeFullSteer is how long a digital steer input takes to reach full lock.
	TimeFullSteer float64
	// Grip is the fraction of sideways velocity removed per second.
	Grip float64

	ZipperTime      float64
	ZipperSpeedGain float64

	SquashDuration float64
	SquashSlowdown float64

	// AttachmentTime and AttachmentSlowdown describe the parachute a green
	// herring hangs on the kart.
	AttachmentTime     float64
	AttachmentSlowdown float64

	RescueTime       float64
	ExplosionImpulse float64
	CrashTime        float64
}

func DefaultProperties() Properties {
	return Properties{
		Name:               "tux",
		Mass:               225,
		Size:               mgl64.Vec3{1, 0.6, 1.6},
		EngineForce:        3500,
		BrakeForce:         4500,
		MaxSpeed:           22,
		SteerRate:          2.2,
		TimeFullSteer:      0.3,
		Grip:               8,
		ZipperTime:         3,
		ZipperSpeedGain:    8,
		SquashDuration:     2,
		SquashSlowdown:     0.5,
		AttachmentTime:     4,
		AttachmentSlowdown: 0.6,
		RescueTime:         1.5,
		ExplosionImpulse:   2000,
		CrashTime:          0.5,
	}
}
