package tree

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	ErrRBTreeRedViolation       = errors.New("[rbtree] red violation")
	ErrRBTreeBlackViolation     = errors.New("[rbtree] black violation")
	ErrRBTreeRootViolation      = errors.New("[rbtree] root violation")
	ErrRBTreeOrderViolation     = errors.New("[rbtree] order violation")
	ErrRBTreeParentViolation    = errors.New("[rbtree] parent link violation")
	ErrRBTreeLeftCountViolation = errors.New("[rbtree] left count violation")
	ErrRBTreeSizeViolation      = errors.New("[rbtree] size violation")
)

func blackDepthTo[T any](target, to *rbNode[T]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[T any](tree RBTree[T]) error {
	t := tree.self()
	aux := t.root
	if aux == nil {
		return nil
	}

	stack := make([]*rbNode[T], 0, t.count>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; aux.isRed() {
			if aux.parent.isRed() || aux.left.isRed() || aux.right.isRed() {
				return fmt.Errorf("%w at %v", ErrRBTreeRedViolation, aux.val)
			}
		}

		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes holding at least one nil leaf.
func bfsLeaves[T any](t *rbTree[T]) []*rbNode[T] {
	if t.root == nil {
		return nil
	}

	leaves := make([]*rbNode[T], 0, t.count>>1+1)
	queue := make([]*rbNode[T], 0, t.count>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, t.root)

	for len(queue) > 0 {
		aux := queue[0]
		l, r := aux.left, aux.right
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Every path from the root to a nil leaf meets the same number of black
nodes.
*/
func BlackViolationValidate[T any](tree RBTree[T]) error {
	t := tree.self()
	leaves := bfsLeaves[T](t)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[T](leaves[0], nil)
	for i := 1; i < len(leaves); i++ {
		if d := blackDepthTo[T](leaves[i], nil); d != blackDepth {
			return fmt.Errorf("%w at %v, black depth %d != %d",
				ErrRBTreeBlackViolation, leaves[i].val, d, blackDepth)
		}
	}
	return nil
}

func RootViolationValidate[T any](tree RBTree[T]) error {
	t := tree.self()
	if t.root == nil {
		return nil
	}
	if t.root.isRed() || t.root.parent != nil {
		return ErrRBTreeRootViolation
	}
	return nil
}

// OrderViolationValidate checks that every left subtree is strictly
// less and every right subtree strictly greater than its node.
func OrderViolationValidate[T any](tree RBTree[T]) error {
	t := tree.self()
	var (
		prev    T
		hasPrev bool
		err     error
	)
	for aux := t.root.minimum(); aux != nil; aux = aux.succ() {
		if hasPrev && t.cmp(prev, aux.val) >= 0 {
			err = fmt.Errorf("%w, %v is not less than %v", ErrRBTreeOrderViolation, prev, aux.val)
			break
		}
		prev, hasPrev = aux.val, true
	}
	return err
}

func ParentViolationValidate[T any](tree RBTree[T]) error {
	var check func(node *rbNode[T]) error
	check = func(node *rbNode[T]) error {
		if node == nil {
			return nil
		}
		if (node.left != nil && node.left.parent != node) ||
			(node.right != nil && node.right.parent != node) {
			return fmt.Errorf("%w at %v", ErrRBTreeParentViolation, node.val)
		}
		if err := check(node.left); err != nil {
			return err
		}
		return check(node.right)
	}
	return check(tree.self().root)
}

// LeftCountViolationValidate recounts every left subtree. The plain
// variant never maintains the counters and always passes.
func LeftCountViolationValidate[T any](tree RBTree[T]) error {
	t := tree.self()
	if !t.indexed {
		return nil
	}
	var check func(node *rbNode[T]) (int64, error)
	check = func(node *rbNode[T]) (int64, error) {
		if node == nil {
			return 0, nil
		}
		l, err := check(node.left)
		if err != nil {
			return 0, err
		}
		if l != node.leftCount {
			return 0, fmt.Errorf("%w at %v, recorded %d, actual %d",
				ErrRBTreeLeftCountViolation, node.val, node.leftCount, l)
		}
		r, err := check(node.right)
		if err != nil {
			return 0, err
		}
		return l + r + 1, nil
	}
	_, err := check(t.root)
	return err
}

func SizeViolationValidate[T any](tree RBTree[T]) error {
	t := tree.self()
	if n := t.root.size(); n != t.count {
		return fmt.Errorf("%w, recorded %d, actual %d", ErrRBTreeSizeViolation, t.count, n)
	}
	return nil
}

// Validate runs every rule and reports all violations at once.
func Validate[T any](tree RBTree[T]) error {
	return multierr.Combine(
		RootViolationValidate[T](tree),
		RedViolationValidate[T](tree),
		BlackViolationValidate[T](tree),
		OrderViolationValidate[T](tree),
		ParentViolationValidate[T](tree),
		LeftCountViolationValidate[T](tree),
		SizeViolationValidate[T](tree),
	)
}
