package tree

import (
	"errors"

	"github.com/benz9527/xrbtree/lib/infra"
)

var ErrRBTreeVariantMismatch = errors.New("[rbtree] plain and indexed variants mismatch")

type RBTreeOpt[T any] func(*rbTree[T])

// WithRBTreeDesc reverses the order of the comparator.
func WithRBTreeDesc[T any]() RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		tree.isDesc = true
	}
}

// WithRBTreeComparator replaces the comparator. It must be a strict
// total order.
func WithRBTreeComparator[T any](cmp infra.Comparator[T]) RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		if cmp != nil {
			tree.cmp = cmp
		}
	}
}

// WithRBTreeValues bulk loads vals in iteration order once the tree
// is built. Duplicates are ignored.
func WithRBTreeValues[T any](vals ...T) RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		tree.preload = append(tree.preload, vals...)
	}
}

func newRBTree[T any](cmp infra.Comparator[T], indexed bool, opts ...RBTreeOpt[T]) rbTree[T] {
	tree := rbTree[T]{
		cmp:     cmp,
		count:   0,
		isDesc:  false,
		indexed: indexed,
	}
	for _, o := range opts {
		o(&tree)
	}
	if tree.cmp == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil comparator")
	}
	if tree.isDesc {
		tree.cmp = infra.ReverseComparator(tree.cmp)
	}
	return tree
}

func (tree *rbTree[T]) load() {
	vals := tree.preload
	tree.preload = nil
	for _, v := range vals {
		tree.Insert(v)
	}
}

func NewRBTree[T infra.OrderedKey](opts ...RBTreeOpt[T]) RBTree[T] {
	return NewRBTreeFunc[T](infra.OrderedKeyComparator[T](), opts...)
}

func NewRBTreeFunc[T any](cmp infra.Comparator[T], opts ...RBTreeOpt[T]) RBTree[T] {
	tree := newRBTree[T](cmp, false, opts...)
	t := &tree
	t.load()
	return t
}

func NewIndexedRBTree[T infra.OrderedKey](opts ...RBTreeOpt[T]) IndexedRBTree[T] {
	return NewIndexedRBTreeFunc[T](infra.OrderedKeyComparator[T](), opts...)
}

func NewIndexedRBTreeFunc[T any](cmp infra.Comparator[T], opts ...RBTreeOpt[T]) IndexedRBTree[T] {
	t := &indexedRBTree[T]{
		rbTree: newRBTree[T](cmp, true, opts...),
	}
	t.load()
	return t
}

// RBTreeFrom builds a tree from a sequence, in sequence order.
func RBTreeFrom[T infra.OrderedKey](vals []T, opts ...RBTreeOpt[T]) RBTree[T] {
	return NewRBTree[T](append(opts, WithRBTreeValues(vals...))...)
}

func IndexedRBTreeFrom[T infra.OrderedKey](vals []T, opts ...RBTreeOpt[T]) IndexedRBTree[T] {
	return NewIndexedRBTree[T](append(opts, WithRBTreeValues(vals...))...)
}

// CloneRBTree deep copies src. The copy keeps the variant of src.
func CloneRBTree[T any](src RBTree[T]) RBTree[T] {
	return CloneRBTreeFunc[T](src, nil)
}

// CloneRBTreeFunc deep copies src and passes every value through fn,
// e.g. to duplicate pointer values. fn must not change the order.
func CloneRBTreeFunc[T any](src RBTree[T], fn func(T) T) RBTree[T] {
	s := src.self()
	t := rbTree[T]{
		cmp:     s.cmp,
		root:    s.root.copy(nil, fn),
		count:   s.count,
		indexed: s.indexed,
	}
	if s.indexed {
		return &indexedRBTree[T]{rbTree: t}
	}
	return &t
}

func CloneIndexedRBTree[T any](src IndexedRBTree[T]) IndexedRBTree[T] {
	return CloneRBTreeFunc[T](src, nil).(IndexedRBTree[T])
}

// MoveRBTree transfers the node graph of src into a new tree. src is
// left empty and iterators taken from src are no longer usable.
func MoveRBTree[T any](src RBTree[T]) RBTree[T] {
	s := src.self()
	if s.indexed {
		return MoveIndexedRBTree[T](src.(IndexedRBTree[T]))
	}
	dst := &rbTree[T]{}
	dst.moveFrom(s)
	return dst
}

func MoveIndexedRBTree[T any](src IndexedRBTree[T]) IndexedRBTree[T] {
	dst := &indexedRBTree[T]{}
	dst.moveFrom(src.self())
	return dst
}

func (tree *rbTree[T]) moveFrom(src *rbTree[T]) {
	tree.cmp = src.cmp
	tree.root = src.root
	tree.count = src.count
	tree.indexed = src.indexed
	src.root = nil
	src.count = 0
}

// CopyRBTreeInto replaces the content of dst with a deep copy of src.
// Both trees have to be the same variant.
func CopyRBTreeInto[T any](dst, src RBTree[T]) error {
	d, s := dst.self(), src.self()
	if d == s {
		return nil
	}
	if d.indexed != s.indexed {
		return ErrRBTreeVariantMismatch
	}
	d.Release()
	d.cmp = s.cmp
	d.root = s.root.copy(nil, nil)
	d.count = s.count
	return nil
}

// MoveRBTreeInto replaces the content of dst with the node graph of
// src, leaving src empty. Both trees have to be the same variant.
func MoveRBTreeInto[T any](dst, src RBTree[T]) error {
	d, s := dst.self(), src.self()
	if d == s {
		return nil
	}
	if d.indexed != s.indexed {
		return ErrRBTreeVariantMismatch
	}
	d.Release()
	d.moveFrom(s)
	return nil
}
