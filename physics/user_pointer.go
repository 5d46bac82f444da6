package physics

import "github.com/milk9111/kartphysics/registry"

// UserPointerKind is the gameplay category a body belongs to.
type UserPointerKind int

const (
	UserPointerNone UserPointerKind = iota
	UserPointerPhysicalObject
	UserPointerKart
	UserPointerTrack
)

func (k UserPointerKind) String() string {
	switch k {
	case UserPointerPhysicalObject:
		return "physical-object"
	case UserPointerKart:
		return "kart"
	case UserPointerTrack:
		return "track"
	default:
		return "none"
	}
}

// UserPointer is stored with every body so collision reports can be
// resolved back to their owner through its registry.
type UserPointer struct {
	Kind   UserPointerKind
	Handle registry.Handle
}

func (u UserPointer) Is(kind UserPointerKind) bool {
	return u.Kind == kind && u.Handle.Valid()
}
