package tree

import (
	"errors"
)

// RBColor is also the serialized color name.
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	default:
	}
	return "unknown"
}

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	ErrRBTreeInvalidIterator = errors.New("[rbtree] invalid iterator")
	ErrRBTreeInvalidIndex    = errors.New("[rbtree] invalid index")
	ErrRBTreeNotFound        = errors.New("[rbtree] value not found")
	ErrRBTreeEmpty           = errors.New("[rbtree] empty tree")
)

// RBNode is the read-only view of a tree cell. It exposes the
// balance metadata (color, leftCount) for inspection only.
type RBNode[T any] interface {
	Val() T
	Color() RBColor
	// LeftCount is the number of nodes in the left subtree.
	// Always 0 for the plain variant.
	LeftCount() int64
	Left() RBNode[T]
	Right() RBNode[T]
	Parent() RBNode[T]
}

type RBTree[T any] interface {
	Len() int64
	Root() RBNode[T]
	Indexed() bool
	// Insert returns the iterator positioned at val and whether
	// a new node was created. A duplicate leaves the tree unchanged
	// and returns the iterator of the present node.
	Insert(val T) (RBIterator[T], bool)
	Find(val T) RBIterator[T]
	Contains(val T) bool
	// Remove erases val and returns the iterator of the next value
	// in order. Missing values return End().
	Remove(val T) RBIterator[T]
	RemoveAt(it RBIterator[T]) (RBIterator[T], error)
	RemoveMin() (T, error)
	Min() (T, error)
	Max() (T, error)
	Begin() RBIterator[T]
	End() RBIterator[T]
	RBegin() RBIterator[T]
	REnd() RBIterator[T]
	Foreach(action func(idx int64, color RBColor, val T) bool)
	Equal(other RBTree[T]) bool
	Serialize(compact bool) (string, error)
	Release()

	self() *rbTree[T]
}

// IndexedRBTree is the order-statistics variant. Every index is
// 0-based in ascending comparator order.
type IndexedRBTree[T any] interface {
	RBTree[T]
	FindByIndex(idx int64) (RBIterator[T], error)
	GetByIndex(idx int64) (T, error)
	RemoveByIndex(idx int64) (RBIterator[T], error)
	IndexOf(it RBIterator[T]) (int64, error)
	Rank(val T) (int64, error)
}
