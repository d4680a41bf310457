package tree

import (
	"github.com/benz9527/xrbtree/lib/infra"
)

// rbNode owns left and right. The parent is a back reference for
// navigation only.
type rbNode[T any] struct {
	parent    *rbNode[T]
	left      *rbNode[T]
	right     *rbNode[T]
	val       T
	leftCount int64
	color     RBColor
}

func (node *rbNode[T]) Val() T {
	return node.val
}

func (node *rbNode[T]) Color() RBColor {
	return node.color
}

func (node *rbNode[T]) LeftCount() int64 {
	return node.leftCount
}

func (node *rbNode[T]) Left() RBNode[T] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[T]) Right() RBNode[T] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[T]) Parent() RBNode[T] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

// All nil leaves are black.
func (node *rbNode[T]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[T]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[T]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[T]) isLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *rbNode[T]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[T]) sibling() *rbNode[T] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[T]) uncle() *rbNode[T] {
	return node.parent.sibling()
}

func (node *rbNode[T]) grandpa() *rbNode[T] {
	return node.parent.parent
}

func (node *rbNode[T]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[T]) minimum() *rbNode[T] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[T]) maximum() *rbNode[T] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[T]) pred() *rbNode[T] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to the first ancestor holding x in its right subtree.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[T]) succ() *rbNode[T] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the first ancestor holding x in its left subtree.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

// copy clones the subtree rooted at node. Every cloned child is
// linked to its cloned parent, the clone root to parent. A non-nil fn
// rewrites each value on the way.
func (node *rbNode[T]) copy(parent *rbNode[T], fn func(T) T) *rbNode[T] {
	if node == nil {
		return nil
	}
	c := &rbNode[T]{
		parent:    parent,
		val:       node.val,
		leftCount: node.leftCount,
		color:     node.color,
	}
	if fn != nil {
		c.val = fn(node.val)
	}
	c.left = node.left.copy(c, fn)
	c.right = node.right.copy(c, fn)
	return c
}

// equal compares values and shapes. Colors and counters are
// balance details and do not take part.
func (node *rbNode[T]) equal(other *rbNode[T], cmp infra.Comparator[T]) bool {
	if node == nil || other == nil {
		return node == nil && other == nil
	}
	if cmp(node.val, other.val) != 0 {
		return false
	}
	return node.left.equal(other.left, cmp) && node.right.equal(other.right, cmp)
}

// size counts the subtree by traversal. Validation only.
func (node *rbNode[T]) size() int64 {
	if node == nil {
		return 0
	}
	return 1 + node.left.size() + node.right.size()
}
