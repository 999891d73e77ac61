// Package ptr provides helper functions for working with pointers to
// basic types. The bumpfile schema uses pointer fields to tell a missing
// key apart from a zero value, so these helpers show up throughout the
// persistence layer and its tests.
package ptr

// Point returns a pointer to the given value.
func Point[T any](v T) *T {
	return &v
}

// Deref returns the value pointed to by p.
// If p is nil, it returns the zero value of type T.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Has reports whether p points to a value.
func Has[T any](p *T) bool {
	return p != nil
}
