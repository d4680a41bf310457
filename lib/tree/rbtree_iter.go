package tree

// RBIterator is a bidirectional cursor over the live tree. The zero
// node is the end (one past the last) position.
//
// Inserts keep every iterator valid. A remove invalidates the
// iterator of the erased value and the iterator of the in-order
// neighbour whose value moves into the erased cell, so after a remove
// only the returned iterator is safe to use. Moving, advancing or
// erasing through an unlinked cell fails with ErrRBTreeInvalidIterator.
type RBIterator[T any] struct {
	tree *rbTree[T]
	node *rbNode[T]
}

func (it RBIterator[T]) IsEnd() bool {
	return it.node == nil
}

// detached reports a cell that a remove has unlinked from the tree.
func (it RBIterator[T]) detached() bool {
	return it.node != nil && it.node.parent == nil && it.node != it.tree.root
}

// Node exposes the current cell, nil at the end.
func (it RBIterator[T]) Node() RBNode[T] {
	if it.node == nil {
		return nil
	}
	return it.node
}

func (it RBIterator[T]) Value() (T, error) {
	if it.node == nil {
		var zero T
		return zero, ErrRBTreeInvalidIterator
	}
	return it.node.val, nil
}

// MustValue is Value for call sites that already checked IsEnd.
func (it RBIterator[T]) MustValue() T {
	val, err := it.Value()
	if err != nil {
		panic(err)
	}
	return val
}

// Next moves to the in-order successor. Advancing the end fails.
func (it RBIterator[T]) Next() (RBIterator[T], error) {
	if it.tree == nil || it.node == nil || it.detached() {
		return it, ErrRBTreeInvalidIterator
	}
	return RBIterator[T]{tree: it.tree, node: it.node.succ()}, nil
}

// Prev moves to the in-order predecessor. The predecessor of the end
// is the maximum, the predecessor of the minimum is the end.
func (it RBIterator[T]) Prev() (RBIterator[T], error) {
	if it.tree == nil || it.detached() {
		return it, ErrRBTreeInvalidIterator
	}
	if it.node == nil {
		_max := it.tree.root.maximum()
		if _max == nil {
			return it, ErrRBTreeInvalidIterator
		}
		return RBIterator[T]{tree: it.tree, node: _max}, nil
	}
	return RBIterator[T]{tree: it.tree, node: it.node.pred()}, nil
}
