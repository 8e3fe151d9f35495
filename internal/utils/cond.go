// Package utils holds the small generic helpers shared across the tool.
package utils

// Cond is a pending two-way choice. If starts it with the preferred
// value; Else resolves it with the alternative.
type Cond[T any] struct {
	hit   bool
	value T
}

func If[T any](cond bool, v T) Cond[T] {
	if cond {
		return Cond[T]{hit: true, value: v}
	}
	return Cond[T]{}
}

func (c Cond[T]) Else(v T) T {
	if c.hit {
		return c.value
	}
	return v
}
