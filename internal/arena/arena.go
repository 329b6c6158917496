package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrCapacityExhausted is the panic value (wrapped) raised when a scope or a
// fixed-capacity buffer runs out of room. Running out is a sizing bug, not a
// runtime condition, so callers never recover from it.
var ErrCapacityExhausted = errors.New("arena: capacity exhausted")

// Scope is a bump-style allocation lifetime. Everything allocated from a scope
// is zeroed and stays valid until Reset. Two scopes are used by the engine: a
// frame scope reset at the start of every tick and a persistent scope reset
// only when the world is cleared.
type Scope struct {
	name     string
	limit    uintptr // bytes; 0 means unlimited
	used     uintptr
	buffers  []resetter
	onResets int
}

type resetter interface {
	reset()
}

// NewScope returns a scope that may hand out at most limit bytes between resets.
// A zero limit disables the byte budget (buffer capacities are still enforced).
func NewScope(name string, limit uintptr) *Scope {
	return &Scope{name: name, limit: limit}
}

// Name returns the label used in capacity panics.
func (s *Scope) Name() string {
	return s.name
}

// Used returns the number of bytes handed out since the last Reset.
func (s *Scope) Used() uintptr {
	return s.used
}

// Resets returns how many times the scope has been reset.
func (s *Scope) Resets() int {
	return s.onResets
}

// Reset invalidates everything allocated from the scope. Buffers created with
// NewBuffer keep their backing storage but are truncated and zeroed, so they can
// be reused by the next tick without allocating.
func (s *Scope) Reset() {
	s.used = 0
	s.onResets++
	for _, b := range s.buffers {
		b.reset()
	}
}

func (s *Scope) charge(n uintptr) {
	s.used += n
	if s.limit != 0 && s.used > s.limit {
		panic(fmt.Errorf("%w: scope %q over budget (%d > %d bytes)", ErrCapacityExhausted, s.name, s.used, s.limit))
	}
}

// MakeSlice allocates n zeroed elements from s.
func MakeSlice[T any](s *Scope, n int) []T {
	var zero T
	s.charge(uintptr(n) * unsafe.Sizeof(zero))
	return make([]T, n)
}

// New allocates a single zeroed T from s.
func New[T any](s *Scope) *T {
	var zero T
	s.charge(unsafe.Sizeof(zero))
	return new(T)
}
