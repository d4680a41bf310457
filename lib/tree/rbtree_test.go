package tree

import (
	randv2 "math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/benz9527/xrbtree/lib/infra"
)

type checkData struct {
	color RBColor
	val   uint64
}

func requireShape(t *testing.T, tree RBTree[uint64], expected []checkData) {
	t.Helper()
	require.Equal(t, int64(len(expected)), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, expected[idx].color, color)
		require.Equal(t, expected[idx].val, val)
		return true
	})
	require.NoError(t, Validate[uint64](tree))
}

func TestNilNode(t *testing.T) {
	var nilNode RBNode[uint64] = nil
	require.True(t, nilNode == nil)

	var nilNode2 *rbNode[uint64] = nil
	nilNode = nilNode2
	require.True(t, nilNode != nil)
	require.Nil(t, nilNode)

	tree := NewRBTree[uint64]()
	require.Nil(t, tree.Root())
	require.True(t, tree.Root() == nil)
}

func TestRBColor_String(t *testing.T) {
	require.Equal(t, "black", Black.String())
	require.Equal(t, "red", Red.String())
	require.Equal(t, "unknown", RBColor(7).String())
}

func TestRBTreeLeftAndRightRotate_Pred(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		var tree RBTree[uint64]
		if indexed {
			tree = NewIndexedRBTree[uint64]()
		} else {
			tree = NewRBTree[uint64]()
		}

		_, ok := tree.Insert(52)
		require.True(t, ok)
		requireShape(t, tree, []checkData{{Black, 52}})

		tree.Insert(47)
		requireShape(t, tree, []checkData{{Red, 47}, {Black, 52}})

		tree.Insert(3)
		requireShape(t, tree, []checkData{{Red, 3}, {Black, 47}, {Red, 52}})

		tree.Insert(35)
		requireShape(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

		tree.Insert(24)
		requireShape(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

		// remove

		it := tree.Remove(24)
		require.Equal(t, uint64(35), it.MustValue())
		requireShape(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

		it = tree.Remove(47)
		require.Equal(t, uint64(52), it.MustValue())
		requireShape(t, tree, []checkData{{Black, 3}, {Black, 35}, {Black, 52}})

		it = tree.Remove(52)
		require.True(t, it.IsEnd())
		requireShape(t, tree, []checkData{{Red, 3}, {Black, 35}})

		it = tree.Remove(3)
		require.Equal(t, uint64(35), it.MustValue())
		requireShape(t, tree, []checkData{{Black, 35}})

		it = tree.Remove(35)
		require.True(t, it.IsEnd())
		require.Equal(t, int64(0), tree.Len())
		require.Nil(t, tree.Root())
	}
}

func TestRBTree_RemoveMin(t *testing.T) {
	tree := NewIndexedRBTree[uint64](WithRBTreeValues[uint64](52, 47, 3, 35, 24))
	requireShape(t, tree, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	x, err := tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(3), x)
	requireShape(t, tree, []checkData{{Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(24), x)
	requireShape(t, tree, []checkData{{Black, 35}, {Black, 47}, {Black, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(35), x)
	requireShape(t, tree, []checkData{{Black, 47}, {Red, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(47), x)
	requireShape(t, tree, []checkData{{Black, 52}})

	x, err = tree.RemoveMin()
	require.NoError(t, err)
	require.Equal(t, uint64(52), x)
	require.Equal(t, int64(0), tree.Len())

	_, err = tree.RemoveMin()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
}

func TestRBTree_MinMax(t *testing.T) {
	tree := NewRBTree[int]()
	_, err := tree.Min()
	require.ErrorIs(t, err, ErrRBTreeEmpty)
	_, err = tree.Max()
	require.ErrorIs(t, err, ErrRBTreeEmpty)

	for _, v := range []int{5, -3, 17, 8, 0} {
		tree.Insert(v)
	}
	_min, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, -3, _min)
	_max, err := tree.Max()
	require.NoError(t, err)
	require.Equal(t, 17, _max)
}

func rbtreeInsertAndRemoveSequentialNumberRunCore(t *testing.T, indexed bool) {
	total := uint64(1000)
	insertTotal := uint64(float64(total) * 0.8)
	removeTotal := uint64(float64(total) * 0.2)

	var tree RBTree[uint64]
	if indexed {
		tree = NewIndexedRBTree[uint64]()
	} else {
		tree = NewRBTree[uint64]()
	}

	for i := uint64(0); i < insertTotal+removeTotal; i++ {
		_, ok := tree.Insert(i)
		require.True(t, ok)
		require.NoError(t, Validate[uint64](tree))
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})

	for i := insertTotal; i < removeTotal+insertTotal; i++ {
		if i == 92 {
			require.True(t, tree.Contains(92))
		}
		it := tree.Remove(i)
		if i == removeTotal+insertTotal-1 {
			require.True(t, it.IsEnd())
		} else {
			require.Equal(t, i+1, it.MustValue())
		}
		require.NoError(t, Validate[uint64](tree))
	}
	require.Equal(t, int64(insertTotal), tree.Len())
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})
}

func TestRBTreeInsertAndRemove_SequentialNumber(t *testing.T) {
	testcases := []struct {
		name    string
		indexed bool
	}{
		{name: "plain"},
		{name: "indexed", indexed: true},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeInsertAndRemoveSequentialNumberRunCore(tt, tc.indexed)
		})
	}
}

func TestRBTreeInsert_SequentialNumber_Release(t *testing.T) {
	insertTotal := uint64(100_000)
	tree := NewIndexedRBTree[uint64]()

	rand := uint64(randv2.Uint32() % 1_000)
	for i := uint64(0); i < insertTotal; i++ {
		tree.Insert(i)
		if i%10_000 == rand {
			require.NoError(t, Validate[uint64](tree))
		}
	}
	tree.Foreach(func(idx int64, color RBColor, val uint64) bool {
		require.Equal(t, uint64(idx), val)
		return true
	})
	tree.Release()
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
	require.True(t, tree.Begin().IsEnd())

	// A released tree is reusable.
	tree.Insert(1)
	require.Equal(t, int64(1), tree.Len())
	require.NoError(t, Validate[uint64](tree))
}

func TestRBTreeInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := int64(10000)
	insertTotal := int64(float64(total) * 0.8)
	removeTotal := int64(float64(total) * 0.2)

	tree := NewIndexedRBTree[int64](WithRBTreeDesc[int64]())

	for i := insertTotal - 1; i >= 0; i-- {
		tree.Insert(i)
	}
	require.NoError(t, Validate[int64](tree))
	tree.Foreach(func(idx int64, color RBColor, val int64) bool {
		require.Equal(t, insertTotal-1-idx, val)
		return true
	})

	for i := removeTotal + insertTotal - 1; i >= insertTotal; i-- {
		tree.Insert(i)
	}
	tree.Foreach(func(idx int64, color RBColor, val int64) bool {
		require.Equal(t, removeTotal+insertTotal-1-idx, val)
		return true
	})

	for i := removeTotal + insertTotal - 1; i >= insertTotal; i-- {
		it := tree.Remove(i)
		require.Equal(t, i-1, it.MustValue())
	}
	require.NoError(t, Validate[int64](tree))
	tree.Foreach(func(idx int64, color RBColor, val int64) bool {
		require.Equal(t, insertTotal-1-idx, val)
		return true
	})
	first, err := tree.GetByIndex(0)
	require.NoError(t, err)
	require.Equal(t, insertTotal-1, first)
}

func rbtreeRandomEraseRunCore(t *testing.T, total, bound int, indexed bool) {
	tree, elements := createRandomTree(t, total, bound, indexed)
	require.NoError(t, Validate[int](tree))

	uniq := lo.Uniq(elements)
	require.Equal(t, int64(len(uniq)), tree.Len())
	sorted := slices.Clone(uniq)
	slices.Sort(sorted)
	require.Equal(t, sorted, collect[int](tree))

	logger := zaptest.NewLogger(t)
	for i, v := range lo.Shuffle(elements) {
		existed := tree.Contains(v)
		size := tree.Len()
		it := tree.Remove(v)
		if existed {
			require.Equal(t, size-1, tree.Len())
			// The returned position holds the smallest remaining value above v.
			if next, ok := lo.Find(sorted, func(x int) bool {
				return x > v && tree.Contains(x)
			}); ok {
				require.False(t, it.IsEnd())
				require.Equal(t, next, it.MustValue())
			} else {
				require.True(t, it.IsEnd())
			}
		} else {
			require.True(t, it.IsEnd())
			require.Equal(t, size, tree.Len())
		}
		require.False(t, tree.Contains(v))
		if err := Validate[int](tree); err != nil {
			dump, _ := tree.Serialize(true)
			logger.Error("validate failed",
				zap.Int("step", i),
				zap.Int("erased", v),
				zap.String("tree", dump),
				zap.Error(err),
			)
			require.NoError(t, err)
		}
	}
	require.Equal(t, int64(0), tree.Len())
	require.Nil(t, tree.Root())
}

func TestRBTreeRandomErase(t *testing.T) {
	testcases := []struct {
		name    string
		total   int
		bound   int
		indexed bool
	}{
		{name: "plain dense", total: 1000, bound: 200},
		{name: "plain sparse", total: 1000, bound: 1_000_000},
		{name: "indexed dense", total: 1000, bound: 200, indexed: true},
		{name: "indexed sparse", total: 1000, bound: 1_000_000, indexed: true},
		{name: "indexed tiny", total: 30, bound: 10, indexed: true},
	}
	t.Parallel()
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rbtreeRandomEraseRunCore(tt, tc.total, tc.bound, tc.indexed)
		})
	}
}

func TestRBTreeRemove_ReturnsSuccessor(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		n := 512
		tree := createPermutationTree(t, n, indexed)
		remaining := lo.Range(n)

		for _, v := range lo.Shuffle(lo.Range(n)) {
			idx := slices.Index(remaining, v)
			it := tree.Remove(v)
			remaining = slices.Delete(remaining, idx, idx+1)
			if idx == len(remaining) {
				require.True(t, it.IsEnd())
			} else {
				require.Equal(t, remaining[idx], it.MustValue())
			}
			require.NoError(t, Validate[int](tree))
		}
	}
}

func TestRBTreeInsert_Duplicate(t *testing.T) {
	tree := NewIndexedRBTree[int](WithRBTreeValues(lo.Range(64)...))
	before, err := tree.Serialize(true)
	require.NoError(t, err)

	for _, v := range lo.Shuffle(lo.Range(64)) {
		it, ok := tree.Insert(v)
		require.False(t, ok)
		require.Equal(t, v, it.MustValue())
		require.Equal(t, tree.Find(v), it)
	}
	require.Equal(t, int64(64), tree.Len())
	require.NoError(t, Validate[int](tree))

	after, err := tree.Serialize(true)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRBTree_FindAndContains(t *testing.T) {
	tree := NewRBTree[int](WithRBTreeValues(1, 3, 5, 7))

	it := tree.Find(5)
	require.False(t, it.IsEnd())
	require.Equal(t, 5, it.MustValue())
	require.Equal(t, 5, it.Node().Val())

	it = tree.Find(4)
	require.True(t, it.IsEnd())
	require.Equal(t, tree.End(), it)
	require.Nil(t, it.Node())
	_, err := it.Value()
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
	require.Panics(t, func() {
		it.MustValue()
	})

	require.True(t, tree.Contains(7))
	require.False(t, tree.Contains(8))

	it = tree.Remove(4)
	require.True(t, it.IsEnd())
	require.Equal(t, int64(4), tree.Len())
}

func TestRBTreeIterator(t *testing.T) {
	tree := createPermutationTree(t, 100, false)
	require.Equal(t, lo.Range(100), collect[int](tree))

	reversed := lo.Range(100)
	slices.Reverse(reversed)
	require.Equal(t, reversed, collectReverse[int](tree))

	// End is one past the last element.
	it, err := tree.End().Next()
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
	require.True(t, it.IsEnd())

	it, err = tree.End().Prev()
	require.NoError(t, err)
	require.Equal(t, 99, it.MustValue())

	it, err = tree.Begin().Prev()
	require.NoError(t, err)
	require.True(t, it.IsEnd())

	it, err = tree.Find(42).Next()
	require.NoError(t, err)
	require.Equal(t, 43, it.MustValue())
	it, err = it.Prev()
	require.NoError(t, err)
	require.Equal(t, 42, it.MustValue())

	empty := NewRBTree[int]()
	require.Equal(t, empty.End(), empty.Begin())
	require.Equal(t, empty.REnd(), empty.RBegin())
	_, err = empty.End().Prev()
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)

	_, err = RBIterator[int]{}.Next()
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
	_, err = RBIterator[int]{}.Prev()
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
}

func TestRBTreeIterator_SurvivesInserts(t *testing.T) {
	tree := NewRBTree[int](WithRBTreeValues(lo.Range(32)...))
	it := tree.Find(10)
	for _, v := range lo.Shuffle(lo.Range(1000)) {
		tree.Insert(v + 32)
	}
	require.Equal(t, 10, it.MustValue())
	next, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, 11, next.MustValue())
	require.NoError(t, Validate[int](tree))
}

func TestRBTreeIterator_UnlinkedByRemove(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		t.Run(map[bool]string{false: "plain", true: "indexed"}[indexed], func(tt *testing.T) {
			tree := buildTree(tt, lo.RangeFrom(1, 7), indexed)
			rootVal := tree.Root().Val()
			require.NotNil(tt, tree.Root().Left())

			// The pred value moves into the root cell, its own cell is unlinked.
			pred, err := tree.Find(rootVal).Prev()
			require.NoError(tt, err)
			predVal := pred.MustValue()
			next := tree.Remove(rootVal)
			require.Equal(tt, rootVal+1, next.MustValue())
			require.Equal(tt, int64(6), tree.Len())

			_, err = pred.Next()
			require.ErrorIs(tt, err, ErrRBTreeInvalidIterator)
			_, err = pred.Prev()
			require.ErrorIs(tt, err, ErrRBTreeInvalidIterator)
			it, err := tree.RemoveAt(pred)
			require.ErrorIs(tt, err, ErrRBTreeInvalidIterator)
			require.True(tt, it.IsEnd())
			if indexed {
				_, err = tree.(IndexedRBTree[int]).IndexOf(pred)
				require.ErrorIs(tt, err, ErrRBTreeInvalidIterator)
			}

			require.Equal(tt, int64(6), tree.Len())
			require.NoError(tt, Validate[int](tree))
			require.True(tt, tree.Contains(predVal))
			require.Equal(tt, lo.Without(lo.RangeFrom(1, 7), rootVal), collect[int](tree))

			// Fresh iterators to the moved value work as usual.
			moved, err := tree.Find(predVal).Next()
			require.NoError(tt, err)
			require.Equal(tt, rootVal+1, moved.MustValue())
		})
	}
}

func TestRBTreeIterator_UnlinkedByRelease(t *testing.T) {
	tree := NewRBTree[int](WithRBTreeValues(1, 2, 3))
	it := tree.Find(2)
	tree.Release()
	_, err := it.Next()
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
	_, err = tree.RemoveAt(it)
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
	require.Equal(t, int64(0), tree.Len())
}

func TestRBTreeRemoveAt(t *testing.T) {
	tree := NewRBTree[int](WithRBTreeValues(1, 2, 3))
	other := NewRBTree[int](WithRBTreeValues(1, 2, 3))

	it, err := tree.RemoveAt(other.Find(2))
	require.ErrorIs(t, err, ErrRBTreeInvalidIterator)
	require.True(t, it.IsEnd())
	require.Equal(t, int64(3), tree.Len())

	it, err = tree.RemoveAt(tree.End())
	require.NoError(t, err)
	require.True(t, it.IsEnd())

	it, err = tree.RemoveAt(tree.Begin())
	require.NoError(t, err)
	require.Equal(t, 2, it.MustValue())

	it, err = tree.RemoveAt(it)
	require.NoError(t, err)
	require.Equal(t, 3, it.MustValue())
	require.Equal(t, []int{3}, collect[int](tree))
}

func TestRBTreeForeach_Break(t *testing.T) {
	tree := NewRBTree[int](WithRBTreeValues(lo.Range(10)...))
	visited := make([]int, 0, 4)
	tree.Foreach(func(idx int64, color RBColor, val int) bool {
		visited = append(visited, val)
		return idx < 3
	})
	require.Equal(t, []int{0, 1, 2, 3}, visited)

	NewRBTree[int]().Foreach(func(int64, RBColor, int) bool {
		require.FailNow(t, "empty tree visited")
		return true
	})
}

type person struct {
	name string
	age  int
}

func TestRBTree_CustomComparator(t *testing.T) {
	byAge := infra.LessComparator[person](func(i, j person) bool {
		return i.age < j.age
	})
	tree := NewIndexedRBTreeFunc[person](byAge, WithRBTreeValues(
		person{"carol", 41},
		person{"alice", 23},
		person{"bob", 35},
		person{"dave", 23},
	))
	// dave equals alice under the comparator.
	require.Equal(t, int64(3), tree.Len())
	require.Equal(t, []string{"alice", "bob", "carol"}, lo.Map(collect[person](tree),
		func(p person, _ int) string {
			return p.name
		},
	))

	byName := NewRBTreeFunc[string](func(i, j string) int64 {
		return int64(strings.Compare(strings.ToLower(i), strings.ToLower(j)))
	}, WithRBTreeValues("b", "A", "c", "a"))
	require.Equal(t, []string{"A", "b", "c"}, collect[string](byName))

	desc := NewRBTreeFunc[string](byName.self().cmp, WithRBTreeDesc[string](), WithRBTreeValues("b", "A", "c"))
	require.Equal(t, []string{"c", "b", "A"}, collect[string](desc))

	require.Panics(t, func() {
		NewRBTreeFunc[int](nil)
	})
}

func TestRBTree_EqualCloneMove(t *testing.T) {
	for _, indexed := range []bool{false, true} {
		src := createPermutationTree(t, 200, indexed)

		clone := CloneRBTree[int](src)
		require.Equal(t, indexed, clone.Indexed())
		require.True(t, src.Equal(clone))
		require.True(t, clone.Equal(src))
		require.NoError(t, Validate[int](clone))

		// Deep copy, mutations do not leak.
		clone.Remove(0)
		require.False(t, src.Equal(clone))
		require.True(t, src.Contains(0))

		dump, err := src.Serialize(true)
		require.NoError(t, err)
		moved := MoveRBTree[int](src)
		require.Equal(t, int64(0), src.Len())
		require.Nil(t, src.Root())
		require.Equal(t, int64(200), moved.Len())
		movedDump, err := moved.Serialize(true)
		require.NoError(t, err)
		require.Equal(t, dump, movedDump)
		require.NoError(t, Validate[int](moved))

		// The moved-from tree stays usable.
		src.Insert(7)
		require.Equal(t, []int{7}, collect[int](src))
	}
}

func TestRBTree_EqualShape(t *testing.T) {
	a := NewRBTree[int](WithRBTreeValues(1, 2, 3))
	b := NewRBTree[int](WithRBTreeValues(2, 1, 3))
	require.True(t, a.Equal(b))

	// Same values, different shape.
	c := NewRBTree[int](WithRBTreeValues(lo.Range(10)...))
	d := NewRBTree[int](WithRBTreeValues(9, 8, 7, 6, 5, 4, 3, 2, 1, 0))
	require.Equal(t, collect[int](c), collect[int](d))
	require.False(t, c.Equal(d))

	require.True(t, NewRBTree[int]().Equal(NewIndexedRBTree[int]()))
	require.False(t, a.Equal(nil))
}

func TestRBTree_CopyAndMoveInto(t *testing.T) {
	src := NewIndexedRBTree[int](WithRBTreeValues(lo.Range(50)...))
	dst := NewIndexedRBTree[int](WithRBTreeValues(100, 200))

	require.NoError(t, CopyRBTreeInto[int](dst, src))
	require.True(t, dst.Equal(src))
	require.NoError(t, Validate[int](dst))
	v, err := dst.GetByIndex(49)
	require.NoError(t, err)
	require.Equal(t, 49, v)

	require.NoError(t, CopyRBTreeInto[int](dst, dst))
	require.Equal(t, int64(50), dst.Len())

	other := NewIndexedRBTree[int](WithRBTreeValues(-1))
	require.NoError(t, MoveRBTreeInto[int](other, src))
	require.Equal(t, int64(0), src.Len())
	require.True(t, other.Equal(dst))

	plain := NewRBTree[int](WithRBTreeValues(1))
	require.ErrorIs(t, CopyRBTreeInto[int](plain, other), ErrRBTreeVariantMismatch)
	require.ErrorIs(t, MoveRBTreeInto[int](plain, other), ErrRBTreeVariantMismatch)
	require.Equal(t, int64(50), other.Len())
	require.Equal(t, []int{1}, collect[int](plain))
}

func TestRBTreeValidate_DetectsCorruption(t *testing.T) {
	tree := NewIndexedRBTree[int](WithRBTreeValues(1, 2, 3))
	require.NoError(t, Validate[int](tree))

	root := tree.self().root
	root.color = Red
	err := Validate[int](tree)
	require.ErrorIs(t, err, ErrRBTreeRootViolation)
	require.ErrorIs(t, err, ErrRBTreeRedViolation)
	root.color = Black

	root.leftCount = 5
	require.ErrorIs(t, Validate[int](tree), ErrRBTreeLeftCountViolation)
	root.leftCount = 1

	root.left.val, root.right.val = root.right.val, root.left.val
	require.ErrorIs(t, Validate[int](tree), ErrRBTreeOrderViolation)
	root.left.val, root.right.val = root.right.val, root.left.val

	root.left.color = Black
	require.ErrorIs(t, Validate[int](tree), ErrRBTreeBlackViolation)
	root.left.color = Red

	tree.self().count++
	require.ErrorIs(t, Validate[int](tree), ErrRBTreeSizeViolation)
	tree.self().count--

	root.right.parent = nil
	require.ErrorIs(t, Validate[int](tree), ErrRBTreeParentViolation)
	root.right.parent = root

	require.NoError(t, Validate[int](tree))
}
