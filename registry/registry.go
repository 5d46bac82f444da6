package registry

import "github.com/rotisserie/eris"

var ErrStaleHandle = eris.New("registry: stale handle")

// Registry owns values addressed by generational handles. Removing a value
// bumps its slot generation so old handles never resolve to a new occupant.
type Registry[T any] struct {
	gens   []generation
	free   []slotIndex
	dense  []T
	owners []slotIndex
	sparse []int
}

func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Insert stores v and returns its handle.
func (r *Registry[T]) Insert(v T) Handle {
	var idx slotIndex
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.gens = append(r.gens, 0)
		r.sparse = append(r.sparse, -1)
		idx = slotIndex(len(r.gens))
	}
	r.dense = append(r.dense, v)
	r.owners = append(r.owners, idx)
	r.sparse[idx-1] = len(r.dense) - 1
	return makeHandle(idx, r.gens[idx-1])
}

func (r *Registry[T]) alive(h Handle) bool {
	if r == nil || !h.Valid() {
		return false
	}
	idx := int(h.index())
	if idx > len(r.gens) {
		return false
	}
	return r.gens[idx-1] == h.generation() && r.sparse[idx-1] >= 0
}

// Contains reports whether h refers to a live value.
func (r *Registry[T]) Contains(h Handle) bool {
	return r.alive(h)
}

// Get returns the value for h.
func (r *Registry[T]) Get(h Handle) (T, bool) {
	var zero T
	if !r.alive(h) {
		return zero, false
	}
	return r.dense[r.sparse[h.index()-1]], true
}

// Lookup is Get that reports a stale handle as ErrStaleHandle.
func (r *Registry[T]) Lookup(h Handle) (T, error) {
	v, ok := r.Get(h)
	if !ok {
		return v, eris.Wrapf(ErrStaleHandle, "handle %s", h)
	}
	return v, nil
}

// Remove deletes the value for h. It returns false for stale handles.
func (r *Registry[T]) Remove(h Handle) bool {
	if !r.alive(h) {
		return false
	}
	idx := h.index()
	pos := r.sparse[idx-1]
	last := len(r.dense) - 1

	// Shift the tail down so Each keeps insertion order.
	copy(r.dense[pos:], r.dense[pos+1:])
	copy(r.owners[pos:], r.owners[pos+1:])
	var zero T
	r.dense[last] = zero
	r.dense = r.dense[:last]
	r.owners = r.owners[:last]
	for i := pos; i < last; i++ {
		r.sparse[r.owners[i]-1] = i
	}
	r.sparse[idx-1] = -1

	r.gens[idx-1]++
	r.free = append(r.free, idx)
	return true
}

// Len returns the number of live values.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.dense)
}

// Each calls fn for every live value. fn must not insert or remove.
func (r *Registry[T]) Each(fn func(h Handle, v T)) {
	if r == nil || fn == nil {
		return
	}
	for i, v := range r.dense {
		idx := r.owners[i]
		fn(makeHandle(idx, r.gens[idx-1]), v)
	}
}

// Handles returns a snapshot of all live handles.
func (r *Registry[T]) Handles() []Handle {
	if r == nil {
		return nil
	}
	out := make([]Handle, 0, len(r.dense))
	for _, idx := range r.owners {
		out = append(out, makeHandle(idx, r.gens[idx-1]))
	}
	return out
}
