package kv

import (
	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/lib/tree"
)

var _ SortedStorer[int, int] = (*OrderedMap[int, int])(nil)

// OrderedMap keeps unique keys in ascending order on top of a red-black
// tree of pairs. Values are mutated in place through the stored pair.
type OrderedMap[K infra.OrderedKey, V comparable] struct {
	tree tree.RBTree[*Pair[K, V]]
}

type OrderedMapOpt[K infra.OrderedKey, V comparable] func(m *orderedMapOpts[K, V])

type orderedMapOpts[K infra.OrderedKey, V comparable] struct {
	pairs  []Pair[K, V]
	isDesc bool
}

// WithOrderedMapPairs loads pairs in order. A later pair overwrites an
// earlier one with the same key.
func WithOrderedMapPairs[K infra.OrderedKey, V comparable](pairs ...Pair[K, V]) OrderedMapOpt[K, V] {
	return func(m *orderedMapOpts[K, V]) {
		m.pairs = append(m.pairs, pairs...)
	}
}

func WithOrderedMapDesc[K infra.OrderedKey, V comparable]() OrderedMapOpt[K, V] {
	return func(m *orderedMapOpts[K, V]) {
		m.isDesc = true
	}
}

func pairComparator[K infra.OrderedKey, V comparable]() infra.Comparator[*Pair[K, V]] {
	cmp := infra.OrderedKeyComparator[K]()
	return func(i, j *Pair[K, V]) int64 {
		return cmp(i.First, j.First)
	}
}

func NewOrderedMap[K infra.OrderedKey, V comparable](opts ...OrderedMapOpt[K, V]) *OrderedMap[K, V] {
	o := &orderedMapOpts[K, V]{}
	for _, opt := range opts {
		opt(o)
	}

	treeOpts := make([]tree.RBTreeOpt[*Pair[K, V]], 0, 1)
	if o.isDesc {
		treeOpts = append(treeOpts, tree.WithRBTreeDesc[*Pair[K, V]]())
	}
	m := &OrderedMap[K, V]{
		tree: tree.NewRBTreeFunc[*Pair[K, V]](pairComparator[K, V](), treeOpts...),
	}
	for _, p := range o.pairs {
		m.Set(p.First, p.Second)
	}
	return m
}

func (m *OrderedMap[K, V]) find(key K) *Pair[K, V] {
	it := m.tree.Find(&Pair[K, V]{First: key})
	if it.IsEnd() {
		return nil
	}
	return it.MustValue()
}

func (m *OrderedMap[K, V]) Len() int64 {
	return m.tree.Len()
}

// Set inserts or overwrites the value of key.
func (m *OrderedMap[K, V]) Set(key K, val V) (inserted bool) {
	it, inserted := m.tree.Insert(&Pair[K, V]{First: key, Second: val})
	if !inserted {
		it.MustValue().Second = val
	}
	return inserted
}

func (m *OrderedMap[K, V]) Get(key K) (val V, exists bool) {
	if p := m.find(key); p != nil {
		return p.Second, true
	}
	return val, false
}

// At is the checked read, a missing key is an error.
func (m *OrderedMap[K, V]) At(key K) (V, error) {
	p := m.find(key)
	if p == nil {
		var zero V
		return zero, ErrOrderedMapKeyNotFound
	}
	return p.Second, nil
}

// Upsert inserts the zero value for a missing key, then lets fn mutate
// the stored value in place.
//
//	m.Upsert("abc", func(v *int) { *v++ })
func (m *OrderedMap[K, V]) Upsert(key K, fn func(val *V)) (inserted bool) {
	it, inserted := m.tree.Insert(&Pair[K, V]{First: key})
	if fn != nil {
		fn(&it.MustValue().Second)
	}
	return inserted
}

func (m *OrderedMap[K, V]) Delete(key K) (val V, err error) {
	it := m.tree.Find(&Pair[K, V]{First: key})
	if it.IsEnd() {
		return val, ErrOrderedMapKeyNotFound
	}
	val = it.MustValue().Second
	if _, err = m.tree.RemoveAt(it); err != nil {
		return val, err
	}
	return val, nil
}

func (m *OrderedMap[K, V]) Foreach(action func(idx int64, key K, val V) bool) {
	m.tree.Foreach(func(idx int64, _ tree.RBColor, p *Pair[K, V]) bool {
		return action(idx, p.First, p.Second)
	})
}

// Keys lists the keys in order. Every filter has to accept a key.
func (m *OrderedMap[K, V]) Keys(filters ...KeyFilterFunc[K]) []K {
	realFilters := make([]KeyFilterFunc[K], 0, len(filters))
	for _, filter := range filters {
		if filter != nil {
			realFilters = append(realFilters, filter)
		}
	}
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	keys := make([]K, 0, m.Len())
	m.Foreach(func(_ int64, key K, _ V) bool {
		for _, filter := range realFilters {
			if !filter(key) {
				return true
			}
		}
		keys = append(keys, key)
		return true
	})
	return keys
}

func (m *OrderedMap[K, V]) Values() []V {
	vals := make([]V, 0, m.Len())
	m.Foreach(func(_ int64, _ K, val V) bool {
		vals = append(vals, val)
		return true
	})
	return vals
}

func (m *OrderedMap[K, V]) Pairs() []Pair[K, V] {
	pairs := make([]Pair[K, V], 0, m.Len())
	m.Foreach(func(_ int64, key K, val V) bool {
		pairs = append(pairs, Pair[K, V]{First: key, Second: val})
		return true
	})
	return pairs
}

// Equal compares both maps pair by pair in order.
func (m *OrderedMap[K, V]) Equal(other *OrderedMap[K, V]) bool {
	if other == nil || m.Len() != other.Len() {
		return false
	}
	l, r := m.tree.Begin(), other.tree.Begin()
	for ; !l.IsEnd() && !r.IsEnd(); l, r = next(l), next(r) {
		if *l.MustValue() != *r.MustValue() {
			return false
		}
	}
	return l.IsEnd() && r.IsEnd()
}

func next[T any](it tree.RBIterator[T]) tree.RBIterator[T] {
	n, _ := it.Next()
	return n
}

// Serialize dumps the underlying tree, each node value is a pair.
func (m *OrderedMap[K, V]) Serialize(compact bool) (string, error) {
	return m.tree.Serialize(compact)
}

// Clone deep copies the map, including the tree shape.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		tree: tree.CloneRBTreeFunc[*Pair[K, V]](m.tree, func(p *Pair[K, V]) *Pair[K, V] {
			c := *p
			return &c
		}),
	}
}

func (m *OrderedMap[K, V]) Clear() {
	m.tree.Release()
}
