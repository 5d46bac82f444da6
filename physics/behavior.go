package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/common"
)

// behavior is the per-kind reaction to resets and explosions.
type behavior interface {
	reset(o *Object)
	handleExplosion(o *Object, pos mgl64.Vec3, directHit bool)
}

var behaviors = map[Kind]behavior{
	KindScenery:    sceneryBehavior{},
	KindSoccerBall: soccerBallBehavior{},
	KindCrate:      crateBehavior{},
}

func behaviorFor(k Kind) behavior {
	if b, ok := behaviors[k]; ok {
		return b
	}
	return sceneryBehavior{}
}

var up = mgl64.Vec3{0, 1, 0}

// explosionImpulse is full strength straight up for a direct hit. Splash
// pushes away from the blast and falls off with the squared distance; the
// splash factor is below one so a direct hit always wins.
func explosionImpulse(o *Object, pos mgl64.Vec3, directHit bool) mgl64.Vec3 {
	strength := o.tuning.ExplosionImpulse
	if directHit {
		return up.Mul(strength)
	}
	diff := o.center().Sub(pos)
	d2 := diff.LenSqr()
	dir := up
	if d2 > rayEpsilon {
		dir = diff.Mul(1 / math.Sqrt(d2))
	}
	return dir.Mul(strength * o.tuning.SplashFactor / (1 + d2))
}

type sceneryBehavior struct{}

func (sceneryBehavior) reset(o *Object) {
	o.resetBody()
}

func (sceneryBehavior) handleExplosion(o *Object, pos mgl64.Vec3, directHit bool) {
	o.body.ApplyCentralImpulse(explosionImpulse(o, pos, directHit))
}

// soccerBallBehavior keeps the ball on the ground: explosions only push it
// horizontally.
type soccerBallBehavior struct{}

func (soccerBallBehavior) reset(o *Object) {
	o.resetBody()
	o.lastToucher = UserPointer{}
}

func (soccerBallBehavior) handleExplosion(o *Object, pos mgl64.Vec3, directHit bool) {
	var impulse mgl64.Vec3
	if directHit {
		dir := o.center().Sub(pos)
		dir[1] = 0
		if dir.LenSqr() < rayEpsilon {
			dir = common.Forward(o.Transform().HPR[0])
		}
		impulse = safeNormalize(dir).Mul(o.tuning.ExplosionImpulse)
	} else {
		impulse = explosionImpulse(o, pos, false)
		impulse[1] = 0
	}
	o.body.ApplyCentralImpulse(impulse)
}

// crateBehavior tumbles: explosions also spin it around the vertical axis.
type crateBehavior struct{}

func (crateBehavior) reset(o *Object) {
	o.resetBody()
}

func (crateBehavior) handleExplosion(o *Object, pos mgl64.Vec3, directHit bool) {
	impulse := explosionImpulse(o, pos, directHit)
	o.body.ApplyCentralImpulse(impulse)
	if m := o.body.Mass(); m > 0 {
		spin := o.tuning.CrateSpin * impulse.Len() / m
		w := o.body.AngularVelocity()
		o.body.SetAngularVelocity(mgl64.Vec3{0, w[1] + spin, 0})
	}
}
