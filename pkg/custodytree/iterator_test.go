package custodytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, tr *Tree, pop, rebalance bool) []Range {
	t.Helper()

	it, err := First(tr)
	require.NoError(t, err)

	var out []Range
	for !it.Done() {
		r, err := it.Next(pop, rebalance)
		require.NoError(t, err)
		out = append(out, r)

		if pop && rebalance {
			checkInvariants(t, tr)
		}
	}

	_, err = it.Next(pop, rebalance)
	assert.ErrorIs(t, err, ErrNullNode)

	return out
}

func TestIteratorPlainWalk(t *testing.T) {
	tr := mustCreate(t, 8)
	for _, v := range []uint32{1, 5, 10, 20, 21, 22} {
		require.NoError(t, tr.Insert(v))
	}

	got := collect(t, tr, false, false)
	want := []Range{
		{Value: 1, Offset: 0},
		{Value: 5, Offset: 0},
		{Value: 10, Offset: 0},
		{Value: 20, Offset: 2},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 4, tr.Len())
}

func TestIteratorEmptyTree(t *testing.T) {
	tr := mustCreate(t, 4)

	it, err := First(tr)
	require.NoError(t, err)
	assert.True(t, it.Done())

	_, err = it.Next(false, false)
	assert.ErrorIs(t, err, ErrNullNode)
}

func TestIteratorPopWithRebalance(t *testing.T) {
	tr := mustCreate(t, 16)
	vals := []uint32{1, 5, 10, 20, 21, 22, 50, 51, 99}
	for _, v := range vals {
		require.NoError(t, tr.Insert(v))
	}

	got := collect(t, tr, true, true)
	assert.Len(t, got, 6)
	assert.True(t, tr.IsEmpty())

	_, ok := tr.Find(1)
	assert.False(t, ok)
}

func TestIteratorPopWithoutRebalanceDrain(t *testing.T) {
	tr := mustCreate(t, 16)
	vals := []uint32{1, 5, 10, 20, 21, 22, 50, 51, 99}
	for _, v := range vals {
		require.NoError(t, tr.Insert(v))
	}

	got := collect(t, tr, true, false)
	assert.Len(t, got, 6)
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, uint32(16), tr.arena.freeCount())
}

func TestIteratorPopOrderMatchesPlainOrder(t *testing.T) {
	tr1 := mustCreate(t, 16)
	tr2 := mustCreate(t, 16)
	vals := []uint32{3, 4, 8, 9, 10, 40, 41, 70}

	for _, v := range vals {
		require.NoError(t, tr1.Insert(v))
		require.NoError(t, tr2.Insert(v))
	}

	plain := collect(t, tr1, false, false)
	popped := collect(t, tr2, true, false)

	assert.Equal(t, plain, popped)
}
