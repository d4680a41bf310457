package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// NaN is not part of a total order, so trees keyed by floats
// must never receive it.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the new value.
// 1. i == j (return 0)
// 2. i > j (return 1), turn to right part.
// 3. i < j (return -1), turn to left part.
//
// A comparator must describe a strict total order. Two values
// comparing to 0 are the same key.
type Comparator[T any] func(i, j T) int64

// OrderedKeyComparator is the builtin ascending order of K.
func OrderedKeyComparator[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// ReverseComparator flips the order of cmp.
func ReverseComparator[T any](cmp Comparator[T]) Comparator[T] {
	return func(i, j T) int64 {
		return cmp(j, i)
	}
}

// LessComparator adapts a strict weak "less" predicate.
// Neither less(i, j) nor less(j, i) means equal.
func LessComparator[T any](less func(i, j T) bool) Comparator[T] {
	return func(i, j T) int64 {
		if less(i, j) {
			return -1
		} else if less(j, i) {
			return 1
		}
		return 0
	}
}
