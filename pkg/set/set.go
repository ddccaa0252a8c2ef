package set

import (
	"cmp"
	"slices"
)

// Set is a set of comparable items. It is not safe for concurrent use.
type Set[T comparable] struct {
	items map[T]struct{}
}

// New creates a Set holding elems
func New[T comparable](elems ...T) Set[T] {
	s := Set[T]{
		items: make(map[T]struct{}, len(elems)),
	}
	s.Append(elems...)
	return s
}

func (s Set[T]) Append(elems ...T) {
	for _, elem := range elems {
		s.items[elem] = struct{}{}
	}
}

func (s Set[T]) Contains(elem T) bool {
	_, ok := s.items[elem]
	return ok
}

func (s Set[T]) Len() int {
	return len(s.items)
}

// Values returns all elements as an unsorted slice
func (s Set[T]) Values() []T {
	v := make([]T, 0, len(s.items))
	for elem := range s.items {
		v = append(v, elem)
	}
	return v
}

// Ordered is a set whose Values are sorted
type Ordered[T cmp.Ordered] struct {
	Set[T]
}

func NewOrdered[T cmp.Ordered](elems ...T) Ordered[T] {
	return Ordered[T]{
		Set: New[T](elems...),
	}
}

func (s Ordered[T]) Values() []T {
	v := s.Set.Values()
	slices.Sort(v)
	return v
}
