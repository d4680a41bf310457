package kv

import (
	"errors"

	"github.com/benz9527/xrbtree/lib/infra"
)

var ErrOrderedMapKeyNotFound = errors.New("[kv] ordered map key not found")

type KeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

// Pair is the element stored by an ordered map. It serializes as
// {"first": key, "second": value}.
type Pair[K infra.OrderedKey, V any] struct {
	First  K `json:"first"`
	Second V `json:"second"`
}

type SortedStorer[K infra.OrderedKey, V comparable] interface {
	Len() int64
	Set(key K, val V) (inserted bool)
	Get(key K) (val V, exists bool)
	At(key K) (V, error)
	Upsert(key K, fn func(val *V)) (inserted bool)
	Delete(key K) (val V, err error)
	Keys(filters ...KeyFilterFunc[K]) []K
	Values() []V
	Foreach(action func(idx int64, key K, val V) bool)
	Serialize(compact bool) (string, error)
	Clear()
}
