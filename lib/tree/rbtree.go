package tree

import (
	"github.com/benz9527/xrbtree/lib/infra"
)

var (
	_ RBTree[int]        = (*rbTree[int])(nil)
	_ IndexedRBTree[int] = (*indexedRBTree[int])(nil)
)

type rbTree[T any] struct {
	cmp     infra.Comparator[T]
	root    *rbNode[T]
	count   int64
	preload []T
	isDesc  bool
	indexed bool
}

// indexedRBTree shares the engine. The indexed flag switches the
// leftCount bookkeeping on.
type indexedRBTree[T any] struct {
	rbTree[T]
}

func (tree *rbTree[T]) self() *rbTree[T] {
	return tree
}

func (tree *rbTree[T]) Len() int64 {
	return tree.count
}

func (tree *rbTree[T]) Root() RBNode[T] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[T]) Indexed() bool {
	return tree.indexed
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// A black node with exactly one child always has a red leaf child,
// otherwise p4 breaks.

// setChild replaces x in its owning slot (root slot or a parent's
// child slot) with y.
func (tree *rbTree[T]) setChild(dir RBDirection, p, y *rbNode[T]) {
	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction")
	}
	if y != nil {
		y.parent = p
	}
}

/*
	  |                          |
	  X                          Y
	 / \     leftRotate(X)      / \
	A   Y    ============>     X   C
	   / \                    / \
	  B   C                  A   B

Y takes over X's slot. Y's left subtree grows by X and A.
*/
func (tree *rbTree[T]) leftRotate(x *rbNode[T]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()
	tree.setChild(dir, p, y)

	if tree.indexed {
		y.leftCount += x.leftCount + 1
	}
}

/*
	    |                        |
	    X                        Y
	   / \    rightRotate(X)    / \
	  Y   C   ============>    A   X
	 / \                          / \
	A   B                        B   C

Y takes over X's slot. X's left subtree shrinks by Y and A.
*/
func (tree *rbTree[T]) rightRotate(x *rbNode[T]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()
	tree.setChild(dir, p, y)

	if tree.indexed {
		x.leftCount -= y.leftCount + 1
	}
}

func (tree *rbTree[T]) Insert(val T) (RBIterator[T], bool) {
	z, inserted := tree.insertAsBST(val)
	if inserted {
		tree.count++
		tree.insertRebalance(z)
	}
	return RBIterator[T]{tree: tree, node: z}, inserted
}

// insertAsBST attaches val as a red leaf. The indexed variant counts
// the new node into every ancestor it passes on the left during the
// same descent. A duplicate rolls the counters back and returns the
// present node.
func (tree *rbTree[T]) insertAsBST(val T) (*rbNode[T], bool) {
	if tree.root == nil {
		tree.root = &rbNode[T]{
			val:   val,
			color: Black,
		}
		return tree.root, true
	}

	for x := tree.root; ; {
		res := tree.cmp(val, x.val)
		if /* equal */ res == 0 {
			tree.rollbackLeftCount(x)
			return x, false
		} else /* less */ if res < 0 {
			if tree.indexed {
				x.leftCount++
			}
			if x.left == nil {
				x.left = &rbNode[T]{
					val:    val,
					color:  Red,
					parent: x,
				}
				return x.left, true
			}
			x = x.left
		} else /* greater */ {
			if x.right == nil {
				x.right = &rbNode[T]{
					val:    val,
					color:  Red,
					parent: x,
				}
				return x.right, true
			}
			x = x.right
		}
	}
}

func (tree *rbTree[T]) rollbackLeftCount(x *rbNode[T]) {
	if !tree.indexed {
		return
	}
	for p := x.parent; p != nil; x, p = p, p.parent {
		if x == p.left {
			p.leftCount--
		}
	}
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X is the root. Paint it black.

im2: X's parent P is black. Nothing is violated.

im3: Both the parent P and the uncle U are red, so grandpa G is black.
Swap the colors of the two levels, G may now red-violate with its own
parent. Continue from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: P is red, U is black and X is an inner grandchild (zig-zag).
Rotate P away from X so that the old P becomes the outer child of X,
then continue with im5 where X and P exchange roles.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: P is red, U is black and X is an outer grandchild.
Repaint P black and G red, then rotate G toward U.

	    [G]                 [P]
	    / \    rotate(G)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]
*/
func (tree *rbTree[T]) insertRebalance(x *rbNode[T]) {
	for x != nil {
		if /* im1 */ x.isRoot() {
			x.color = Black
			return
		}

		p := x.parent
		if /* im2 */ p.isBlack() {
			return
		}

		gp := x.grandpa()
		if gp == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] red parent without grandpa")
		}

		if u := x.uncle(); /* im3 */ u.isRed() {
			p.color = Black
			u.color = Black
			gp.color = Red
			x = gp
			continue
		}

		if /* im4 */ x == p.right && p == gp.left {
			tree.leftRotate(p)
			x, p = p, x
		} else if x == p.left && p == gp.right {
			tree.rightRotate(p)
			x, p = p, x
		}

		/* im5 */
		p.color = Black
		gp.color = Red
		switch dir := p.Direction(); dir {
		case Left:
			tree.rightRotate(gp)
		case Right:
			tree.leftRotate(gp)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}
		return
	}
}

func (tree *rbTree[T]) Find(val T) RBIterator[T] {
	return RBIterator[T]{tree: tree, node: tree.search(val)}
}

func (tree *rbTree[T]) Contains(val T) bool {
	return tree.search(val) != nil
}

func (tree *rbTree[T]) search(val T) *rbNode[T] {
	for aux := tree.root; aux != nil; {
		res := tree.cmp(val, aux.val)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return nil
}

func (tree *rbTree[T]) Remove(val T) RBIterator[T] {
	it, _ := tree.RemoveAt(tree.Find(val))
	return it
}

func (tree *rbTree[T]) RemoveAt(it RBIterator[T]) (RBIterator[T], error) {
	if it.tree != tree || it.detached() {
		return tree.End(), ErrRBTreeInvalidIterator
	}
	if it.node == nil {
		return tree.End(), nil
	}
	return RBIterator[T]{tree: tree, node: tree.removeNode(it.node)}, nil
}

func (tree *rbTree[T]) RemoveMin() (T, error) {
	_min := tree.root.minimum()
	if _min == nil {
		var zero T
		return zero, ErrRBTreeEmpty
	}
	val := _min.val
	tree.removeNode(_min)
	return val, nil
}

func (tree *rbTree[T]) Min() (T, error) {
	_min := tree.root.minimum()
	if _min == nil {
		var zero T
		return zero, ErrRBTreeEmpty
	}
	return _min.val, nil
}

func (tree *rbTree[T]) Max() (T, error) {
	_max := tree.root.maximum()
	if _max == nil {
		var zero T
		return zero, ErrRBTreeEmpty
	}
	return _max.val, nil
}

/*
removeNode erases z and returns the node holding the next value in
order (nil means end).

r1: z has a left child. Borrow the pred y (the right-most node of the
left subtree), move its value into z and splice y out.

	  |                    |
	  Z                    Y
	 / \                  / \
	L  ..   move(Y, Z)   L  ..
	 \      =========>    \
	  Y                   (y removed)

r2: z has only a right child. That child is a red leaf (see p4), it
is the succ. Move its value into z, z itself is the next position.

r3: z has no child. z itself is spliced out.

After the value move, y has at most one child:

 1. y is red: it must be a leaf, remove directly.
 2. y is black with a red child: the child takes y's slot and is
    repainted black.
 3. y is a black leaf: remove it, then rebalance the black-violation
    from y's parent.
*/
func (tree *rbTree[T]) removeNode(z *rbNode[T]) *rbNode[T] {
	tree.count--
	next := z.succ()

	if tree.indexed {
		for x, p := z, z.parent; p != nil; x, p = p, p.parent {
			if x == p.left {
				p.leftCount--
			}
		}
	}

	y := z
	if /* r1 */ z.left != nil {
		if tree.indexed {
			z.leftCount--
		}
		y = z.left.maximum()
	} else if /* r2 */ z.right != nil {
		for y = z.right; y.left != nil; y = y.left {
			if tree.indexed {
				y.leftCount--
			}
		}
		next = z
	}
	z.val = y.val

	p := y.parent
	isLeft := p == nil || y == p.left
	dir := y.Direction()

	if /* 1 */ y.isRed() {
		if !y.isLeaf() {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] red node to remove is not a leaf")
		}
		tree.setChild(dir, p, nil)
		y.parent = nil
		return next
	}

	child := y.left
	if child == nil {
		child = y.right
	}
	if /* 2 */ child.isRed() {
		child.color = Black
		tree.setChild(dir, p, child)
		y.parent, y.left, y.right = nil, nil, nil
		return next
	}

	if /* 3 */ !y.isLeaf() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] black node to remove with a black child")
	}
	tree.setChild(dir, p, nil)
	y.parent = nil
	tree.removeRebalance(p, isLeft)
	return next
}

/*
The removed black leaf was the isLeft child of P. The path through
that slot is short by one black node.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the sibling's child near the removed slot, Sd the far one.

rm1: Sibling S is red, so P, Sc and Sd are black. Repaint P red and S
black, rotate P toward the removed slot. The new sibling is black.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  =====>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: P, S, Sc and Sd are all black. Repaint S red, the whole subtree
of P is now short by one. Continue from P.

rm3: P is red, S, Sc and Sd are black. Swap the colors of P and S.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: S is black, Sc is red and Sd is black. Rotate S away from the
removed slot and swap the colors of S and Sc. Sd is red now, enter rm5.

	  {P}                   {P}
	  / \    r-rotate(S)    / \
	[X] [S]  ==========>  [X] [Sc]
	    / \                     \
	  <Sc> [Sd]                 <S>
	                              \
	                              [Sd]

rm5: S is black and Sd is red. S takes P's color, P and Sd are painted
black, rotate P toward the removed slot.

	  {P}                   {S}
	  / \    l-rotate(P)    / \
	[X] [S]  ==========>  [P] [Sd]
	    / \               / \
	 {Sc} <Sd>          [X] {Sc}
*/
func (tree *rbTree[T]) removeRebalance(p *rbNode[T], isLeft bool) {
	for p != nil {
		sibling := p.child(!isLeft)
		if sibling == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove rebalance without sibling")
		}

		if /* rm1 */ sibling.isRed() {
			p.color = Red
			sibling.color = Black
			if isLeft {
				tree.leftRotate(p)
			} else {
				tree.rightRotate(p)
			}
			sibling = p.child(!isLeft)
		}

		sc, sd := sibling.child(isLeft), sibling.child(!isLeft)
		if sc.isBlack() && sd.isBlack() {
			if /* rm2 */ p.isBlack() {
				sibling.color = Red
				gp := p.parent
				isLeft = gp == nil || p == gp.left
				p = gp
				continue
			}
			/* rm3 */
			sibling.color = Red
			p.color = Black
			return
		}

		if /* rm4 */ sd.isBlack() {
			sibling.color = Red
			sc.color = Black
			if isLeft {
				tree.rightRotate(sibling)
			} else {
				tree.leftRotate(sibling)
			}
			sibling = p.child(!isLeft)
			sd = sibling.child(!isLeft)
		}

		/* rm5 */
		sibling.color = p.color
		p.color = Black
		sd.color = Black
		if isLeft {
			tree.leftRotate(p)
		} else {
			tree.rightRotate(p)
		}
		return
	}
}

func (node *rbNode[T]) child(left bool) *rbNode[T] {
	if left {
		return node.left
	}
	return node.right
}

func (tree *rbTree[T]) Begin() RBIterator[T] {
	return RBIterator[T]{tree: tree, node: tree.root.minimum()}
}

func (tree *rbTree[T]) End() RBIterator[T] {
	return RBIterator[T]{tree: tree}
}

// RBegin is the first position of the reverse view (the maximum).
// Walk it with Prev until REnd.
func (tree *rbTree[T]) RBegin() RBIterator[T] {
	return RBIterator[T]{tree: tree, node: tree.root.maximum()}
}

func (tree *rbTree[T]) REnd() RBIterator[T] {
	return tree.End()
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[T]) Foreach(action func(idx int64, color RBColor, val T) bool) {
	size := tree.count
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[T], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		if aux.right != nil {
			for aux = aux.right; aux != nil; aux = aux.left {
				stack = append(stack, aux)
			}
		}
	}
}

// Equal reports whether both trees hold the same values in the same
// shape. The comparator of the receiver decides value equality.
func (tree *rbTree[T]) Equal(other RBTree[T]) bool {
	if other == nil {
		return false
	}
	that := other.self()
	if tree.count != that.count {
		return false
	}
	if tree.count == 0 {
		return true
	}
	return tree.root.equal(that.root, tree.cmp)
}

// Release drops the node graph and resets the size to 0.
func (tree *rbTree[T]) Release() {
	aux := tree.root
	tree.root = nil
	tree.count = 0
	if aux == nil {
		return
	}

	stack := make([]*rbNode[T], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		stack = stack[:size-1]
		for aux = r; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}
