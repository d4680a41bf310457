package tree

// Order statistics on top of leftCount.
//
// For node X with rank r (0-based):
//   r(X.left subtree nodes)  < r(X) == offset + X.leftCount
//   r(X.right subtree nodes) > r(X)
// where offset is the number of nodes ordered before X's subtree.

func (tree *indexedRBTree[T]) nodeAt(idx int64) *rbNode[T] {
	if idx < 0 || idx >= tree.count {
		return nil
	}
	for aux := tree.root; aux != nil; {
		if idx < aux.leftCount {
			aux = aux.left
		} else if idx == aux.leftCount {
			return aux
		} else {
			idx -= aux.leftCount + 1
			aux = aux.right
		}
	}
	// impossible run to here
	panic( /* debug assertion */ "[rbtree] left count out of sync")
}

func (tree *indexedRBTree[T]) FindByIndex(idx int64) (RBIterator[T], error) {
	node := tree.nodeAt(idx)
	if node == nil {
		return tree.End(), ErrRBTreeInvalidIndex
	}
	return RBIterator[T]{tree: &tree.rbTree, node: node}, nil
}

func (tree *indexedRBTree[T]) GetByIndex(idx int64) (T, error) {
	node := tree.nodeAt(idx)
	if node == nil {
		var zero T
		return zero, ErrRBTreeInvalidIndex
	}
	return node.val, nil
}

func (tree *indexedRBTree[T]) RemoveByIndex(idx int64) (RBIterator[T], error) {
	node := tree.nodeAt(idx)
	if node == nil {
		return tree.End(), ErrRBTreeInvalidIndex
	}
	return RBIterator[T]{tree: &tree.rbTree, node: tree.removeNode(node)}, nil
}

// IndexOf returns the rank of the iterator's node by walking up to
// the root. Each time the walk leaves a right child, the parent and
// its left subtree are ordered before.
func (tree *indexedRBTree[T]) IndexOf(it RBIterator[T]) (int64, error) {
	if it.tree != &tree.rbTree || it.node == nil || it.detached() {
		return -1, ErrRBTreeInvalidIterator
	}
	return rankOf(it.node), nil
}

func (tree *indexedRBTree[T]) Rank(val T) (int64, error) {
	node := tree.search(val)
	if node == nil {
		return -1, ErrRBTreeNotFound
	}
	return rankOf(node), nil
}

func rankOf[T any](node *rbNode[T]) int64 {
	r := node.leftCount
	for x, p := node, node.parent; p != nil; x, p = p, p.parent {
		if x == p.right {
			r += p.leftCount + 1
		}
	}
	return r
}
