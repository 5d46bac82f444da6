package race

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/kartphysics/common"
	"github.com/milk9111/kartphysics/kart"
	"github.com/milk9111/kartphysics/material"
	"github.com/milk9111/kartphysics/physics"
	"github.com/milk9111/kartphysics/script"
)

const (
	kartMaterial   = "kart"
	soccerMaterial = "soccer-kart"

	// karts closer than this to a blast explode
	blastRadius = 4.0
	// head-on impacts with static scenery above this speed crash the kart
	crashSpeed  = 8.0
	crashFacing = 0.7
	// rescued karts are put this far back along the route
	rescueBackoff = 5.0
)

// dispatch reacts to a kart starting to touch a track object.
func (w *World) dispatch(c physics.Contact) {
	if !c.Kart.Is(physics.UserPointerKart) {
		return
	}
	d, ok := w.karts.Get(c.Kart.Handle)
	if !ok {
		return
	}
	obj, ok := w.objects.Resolve(c.Object)
	if !ok || obj.Passable() {
		return
	}
	k := d.Base()

	mat := kartMaterial
	if obj.IsSoccerBall() {
		mat = soccerMaterial
		obj.SetLastToucher(k.UserPointer())
	}
	obj.Hit(w.materials.Lookup(mat), c.Normal)

	switch {
	case obj.IsCrashReset():
		w.rescue(k)
	case obj.IsExplodeKartObject():
		k.Explode()
		w.objects.HandleExplosion(obj.Transform().Origin, obj.Handle())
	case obj.IsFlattenKartObject():
		k.Squash(0, 0)
	case !obj.IsDynamic() && k.Speed() > crashSpeed &&
		common.Forward(k.Heading()).Dot(c.Normal) > crashFacing:
		d.ForceCrash()
	}

	if m := obj.Material(); m != nil && m.Reaction == material.ReactionReset {
		w.rescue(k)
	}

	if name := obj.ScriptName(); name != "" {
		w.runScript(name, d, obj, c.Normal)
	}
}

// rescue sends k back onto the route, a little behind where it left it.
func (w *World) rescue(k *kart.Kart) {
	if k.Rescuing() {
		return
	}
	if len(w.route) > 1 {
		p, heading := w.route.Project(k.Position())
		p = p.Sub(common.Forward(heading).Mul(rescueBackoff))
		p[1] = k.Position()[1]
		k.SetRescuePoint(physics.Transform{Origin: p, HPR: mgl64.Vec3{heading, 0, 0}})
	}
	k.Rescue()
	w.log.Debug().Str("kart", k.Name()).Msg("kart rescued")
}

func (w *World) runScript(name string, d kart.Driver, obj *physics.Object, normal mgl64.Vec3) {
	k := d.Base()
	var objVel mgl64.Vec3
	if b := obj.Body(); b != nil {
		objVel = b.LinearVelocity()
	}
	var kartVel mgl64.Vec3
	if b := k.Body(); b != nil {
		kartVel = b.LinearVelocity()
	}
	out, err := w.scripts.Run(name, script.Collision{
		Object: script.Body{
			Name:     obj.ID(),
			Kind:     obj.Kind().String(),
			Position: obj.Transform().Origin,
			Velocity: objVel,
			Mass:     obj.Mass(),
			Dynamic:  obj.IsDynamic(),
		},
		Kart: script.Body{
			Name:     k.Name(),
			Kind:     "kart",
			Position: k.Position(),
			Velocity: kartVel,
			Mass:     k.Properties().Mass,
			Speed:    k.Speed(),
			Heading:  k.Heading(),
			Dynamic:  true,
		},
		Normal: normal,
	})
	if err != nil {
		w.log.Warn().Err(err).Str("script", name).Str("object", obj.ID()).Msg("script error")
		return
	}

	if out.HasImpulse && k.Body() != nil {
		k.Body().ApplyCentralImpulse(out.Impulse)
	}
	if out.Zipper {
		d.HandleZipper()
	}
	if out.Herring != "" {
		if t, ok := kart.ParseHerringType(out.Herring); ok {
			d.CollectedHerring(kart.Herring{Type: t})
		} else {
			w.log.Warn().Str("script", name).Str("herring", out.Herring).Msg("unknown herring, ignored")
		}
	}
	if out.Message != "" {
		if pk, ok := d.(*kart.PlayerKart); ok {
			pk.Notify(out.Message)
		}
	}
}
