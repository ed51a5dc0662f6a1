// Package controlled holds state that is either owned by the caller or kept
// internally, behind one accessor.
package controlled

// Value reads a caller-owned value when one is supplied and an internal
// fallback otherwise. Writes always go to the change callback; the internal
// copy is only updated when the value is not caller-owned.
//
// A write to a caller-owned value is held as pending and read back until
// Settle, so a batch of changes sees its own writes even when the callback
// has not run yet.
//
// Value is not safe for concurrent use; callers hold their own lock.
type Value[T any] struct {
	internal   T
	pending    T
	hasPending bool
	external   func() T
	onChange   func(T)
}

// New returns an internally owned value
func New[T any](initial T, onChange func(T)) *Value[T] {
	return &Value[T]{internal: initial, onChange: onChange}
}

// Controlled returns a caller-owned value. get is consulted on every read.
func Controlled[T any](get func() T, onChange func(T)) *Value[T] {
	return &Value[T]{external: get, onChange: onChange}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	if v.external != nil {
		if v.hasPending {
			return v.pending
		}
		return v.external()
	}
	return v.internal
}

// Set records next internally (when not caller-owned) and notifies
func (v *Value[T]) Set(next T) {
	if v.external == nil {
		v.internal = next
	} else {
		v.pending, v.hasPending = next, true
	}
	if v.onChange != nil {
		v.onChange(next)
	}
}

// Settle drops the pending write so reads go back to the caller
func (v *Value[T]) Settle() {
	var zero T
	v.pending, v.hasPending = zero, false
}

// IsControlled reports whether the caller owns the value
func (v *Value[T]) IsControlled() bool {
	return v.external != nil
}
