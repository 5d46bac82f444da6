package registry

import "strconv"

// Handle identifies a value in a Registry. The low 32 bits are the slot
// index (1-based), the high 32 bits the slot generation.
type Handle uint64

type slotIndex uint32
type generation uint32

const indexBits = 32

func makeHandle(idx slotIndex, gen generation) Handle {
	return Handle(uint64(gen)<<indexBits | uint64(idx))
}

func (h Handle) index() slotIndex {
	return slotIndex(uint32(h))
}

func (h Handle) generation() generation {
	return generation(uint32(uint64(h) >> indexBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Valid reports whether h could refer to a slot at all. It does not say
// whether the slot is still alive.
func (h Handle) Valid() bool {
	return h.index() > 0
}
