package infra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedKeyComparator(t *testing.T) {
	cmp := OrderedKeyComparator[int]()
	assert.Equal(t, int64(0), cmp(3, 3))
	assert.Equal(t, int64(-1), cmp(1, 3))
	assert.Equal(t, int64(1), cmp(5, 3))

	scmp := OrderedKeyComparator[string]()
	assert.Equal(t, int64(-1), scmp("abba", "bomba"))
	assert.Equal(t, int64(1), scmp("xyz", "moloko"))
}

func TestReverseComparator(t *testing.T) {
	cmp := ReverseComparator(OrderedKeyComparator[uint64]())
	require.Equal(t, int64(1), cmp(1, 3))
	require.Equal(t, int64(-1), cmp(3, 1))
	require.Equal(t, int64(0), cmp(7, 7))
}

func TestLessComparator(t *testing.T) {
	type pair struct {
		first  string
		second int
	}
	cmp := LessComparator(func(i, j pair) bool {
		return strings.Compare(i.first, j.first) < 0
	})
	require.Equal(t, int64(0), cmp(pair{"One", 1}, pair{"One", 2}))
	require.Equal(t, int64(-1), cmp(pair{"One", 1}, pair{"Two", 1}))
	require.Equal(t, int64(1), cmp(pair{"Two", 1}, pair{"One", 1}))
}
