package tree

import (
	randv2 "math/rand/v2"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// createRandomTree inserts n values drawn from [0, bound) and dumps the
// drawn sequence and the tree shape into the test log.
func createRandomTree(t testing.TB, n, bound int, indexed bool) (RBTree[int], []int) {
	t.Helper()
	elements := lo.Times(n, func(int) int {
		return randv2.IntN(bound)
	})
	return buildTree(t, elements, indexed), elements
}

// createPermutationTree inserts every value of [0, n) in random order.
func createPermutationTree(t testing.TB, n int, indexed bool) RBTree[int] {
	t.Helper()
	return buildTree(t, lo.Shuffle(lo.Range(n)), indexed)
}

func buildTree(t testing.TB, elements []int, indexed bool) RBTree[int] {
	t.Helper()
	var tree RBTree[int]
	if indexed {
		tree = NewIndexedRBTree[int](WithRBTreeValues(elements...))
	} else {
		tree = NewRBTree[int](WithRBTreeValues(elements...))
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
	if len(elements) <= 64 {
		dump, err := tree.Serialize(true)
		require.NoError(t, err)
		logger.Debug("random tree",
			zap.Ints("elements", elements),
			zap.Int64("len", tree.Len()),
			zap.String("tree", dump),
		)
	} else {
		logger.Debug("random tree",
			zap.Int("elements", len(elements)),
			zap.Int64("len", tree.Len()),
		)
	}
	return tree
}

func collect[T any](tree RBTree[T]) []T {
	res := make([]T, 0, tree.Len())
	for it := tree.Begin(); !it.IsEnd(); it, _ = it.Next() {
		res = append(res, it.MustValue())
	}
	return res
}

func collectReverse[T any](tree RBTree[T]) []T {
	res := make([]T, 0, tree.Len())
	for it := tree.RBegin(); it != tree.REnd(); it, _ = it.Prev() {
		res = append(res, it.MustValue())
	}
	return res
}

func stripLeftCount(doc string) string {
	lines := strings.Split(doc, "\n")
	return strings.Join(lo.Reject(lines, func(line string, _ int) bool {
		return strings.Contains(line, `"leftCount"`)
	}), "\n")
}
