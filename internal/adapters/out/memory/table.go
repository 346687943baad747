package memory

import (
	"maps"
	"slices"
)

// table is one keyed collection of the store. Values are cloned on the way in and on
// the way out so no caller ever holds an alias of a stored row.
type table[T any] struct {
	rows  map[string]T
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

// staged buffers the writes of one unit of work on top of a table.
type staged[T any] struct {
	base   *table[T]
	writes map[string]T
}

func stage[T any](base *table[T]) *staged[T] {
	return &staged[T]{base: base, writes: make(map[string]T)}
}

func (s *staged[T]) get(key string) (T, bool) {
	if v, ok := s.writes[key]; ok {
		return s.base.clone(v), true
	}
	if v, ok := s.base.rows[key]; ok {
		return s.base.clone(v), true
	}
	var zero T
	return zero, false
}

func (s *staged[T]) has(key string) bool {
	_, ok := s.get(key)
	return ok
}

func (s *staged[T]) put(key string, v T) {
	s.writes[key] = s.base.clone(v)
}

// all returns every row, staged writes included, in key order.
func (s *staged[T]) all() []T {
	merged := maps.Clone(s.base.rows)
	maps.Copy(merged, s.writes)

	keys := slices.Sorted(maps.Keys(merged))
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.base.clone(merged[k]))
	}
	return out
}

func (s *staged[T]) commit() {
	maps.Copy(s.base.rows, s.writes)
	clear(s.writes)
}
