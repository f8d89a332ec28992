package custodytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants walks the whole tree and asserts every structural
// invariant: root is black, no red node has a red child, every path from
// a node to its NIL descendants crosses the same number of black nodes,
// in-order values strictly increase with a gap of at least one between
// consecutive ranges, and the live node count matches the arena's
// bookkeeping.
func checkInvariants(tb testing.TB, tr *Tree) {
	tb.Helper()

	if tr.root == 0 {
		assert.Zero(tb, tr.arena.size)

		return
	}

	ns := tr.arena.nodes
	assert.True(tb, ns[tr.root].black, "root must be black")

	count := 0
	var prevEnd uint64
	havePrev := false

	var blackHeight = -1

	var walk func(idx uint32, blacks int)
	walk = func(idx uint32, blacks int) {
		if idx == 0 {
			if blackHeight == -1 {
				blackHeight = blacks
			} else {
				assert.Equal(tb, blackHeight, blacks, "black height mismatch")
			}

			return
		}

		n := &ns[idx]
		count++

		if !n.black {
			assert.True(tb, getColor(n.left, ns), "red node %d has red left child", idx)
			assert.True(tb, getColor(n.right, ns), "red node %d has red right child", idx)
		}

		if n.left != 0 {
			assert.Equal(tb, idx, ns[n.left].parent)
		}

		if n.right != 0 {
			assert.Equal(tb, idx, ns[n.right].parent)
		}

		nb := blacks
		if n.black {
			nb++
		}

		walk(n.left, nb)

		assert.LessOrEqual(tb, uint64(n.value), n.rangeOf().End())

		if havePrev {
			assert.Greater(tb, uint64(n.value), prevEnd+1, "ranges must not be adjacent or overlapping")
		}

		prevEnd = n.rangeOf().End()
		havePrev = true

		walk(n.right, nb)
	}

	walk(tr.root, 0)

	assert.Equal(tb, int(tr.arena.size), count)
}

func mustCreate(tb testing.TB, maxSize uint64) *Tree {
	tb.Helper()

	tr, err := Create(maxSize)
	require.NoError(tb, err)

	return tr
}

func TestCreate(t *testing.T) {
	t.Run("zero size", func(t *testing.T) {
		_, err := Create(0)
		assert.ErrorIs(t, err, ErrSizeZero)
	})

	t.Run("exceeds ceiling", func(t *testing.T) {
		_, err := Create(1 << 32)
		assert.ErrorIs(t, err, ErrExceededMaxSize)
	})

	t.Run("at ceiling", func(t *testing.T) {
		_, err := Create(MaxTreeSize)
		assert.NoError(t, err)
	})

	t.Run("ordinary size", func(t *testing.T) {
		tr := mustCreate(t, 16)
		assert.True(t, tr.IsEmpty())
		assert.False(t, tr.IsFull())
	})
}

func TestDestroyedTree(t *testing.T) {
	tr := mustCreate(t, 4)
	tr.Destroy()

	assert.ErrorIs(t, tr.Insert(1), ErrNullTree)
	assert.ErrorIs(t, tr.Delete(1), ErrNullTree)
	assert.ErrorIs(t, tr.Clear(), ErrNullTree)

	_, ok := tr.Find(1)
	assert.False(t, ok)
}

func TestInsertSingleton(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(5))

	r, ok := tr.Find(5)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 5, Offset: 0}, r)

	checkInvariants(t, tr)
}

func TestInsertDuplicate(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(5))

	err := tr.Insert(5)
	assert.ErrorIs(t, err, ErrInsertDuplicate)
	assert.Equal(t, 1, tr.Len())
}

func TestInsertMergesAdjacent(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(5))
	require.NoError(t, tr.Insert(6))
	require.NoError(t, tr.Insert(4))

	r, ok := tr.Find(5)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 4, Offset: 2}, r)
	assert.Equal(t, 1, tr.Len())

	checkInvariants(t, tr)
}

func TestInsertFusesTwoRangesAcrossGap(t *testing.T) {
	tr := mustCreate(t, 8)
	require.NoError(t, tr.Insert(1))
	require.NoError(t, tr.Insert(2))
	require.NoError(t, tr.Insert(10))
	require.NoError(t, tr.Insert(11))
	require.NoError(t, tr.Insert(12))
	assert.Equal(t, 2, tr.Len())

	require.NoError(t, tr.Insert(3))

	r, ok := tr.Find(2)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 1, Offset: 2}, r)

	require.NoError(t, tr.Insert(4))
	require.NoError(t, tr.Insert(5))
	require.NoError(t, tr.Insert(6))
	require.NoError(t, tr.Insert(7))
	require.NoError(t, tr.Insert(8))
	require.NoError(t, tr.Insert(9))

	assert.Equal(t, 1, tr.Len())

	r, ok = tr.Find(6)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 1, Offset: 11}, r)

	checkInvariants(t, tr)
}

func TestInsertAtZeroBoundary(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(0))

	r, ok := tr.Find(0)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 0, Offset: 0}, r)

	require.NoError(t, tr.Insert(1))

	r, ok = tr.Find(0)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 0, Offset: 1}, r)

	checkInvariants(t, tr)
}

func TestInsertAtMaxUint32Boundary(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(0xFFFFFFFF))

	r, ok := tr.Find(0xFFFFFFFF)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 0xFFFFFFFF, Offset: 0}, r)

	checkInvariants(t, tr)
}

func TestInsertTreeFull(t *testing.T) {
	tr := mustCreate(t, 2)
	require.NoError(t, tr.Insert(1))
	require.NoError(t, tr.Insert(100))

	err := tr.Insert(50)
	assert.ErrorIs(t, err, ErrTreeFull)
	assert.Equal(t, 2, tr.Len())

	checkInvariants(t, tr)
}

func TestDeleteSingleton(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(5))
	require.NoError(t, tr.Delete(5))

	_, ok := tr.Find(5)
	assert.False(t, ok)
	assert.True(t, tr.IsEmpty())
}

func TestDeleteNotFound(t *testing.T) {
	tr := mustCreate(t, 4)
	require.NoError(t, tr.Insert(5))

	err := tr.Delete(100)
	assert.ErrorIs(t, err, ErrValueNotFound)
}

func TestDeleteShrinksFromLowEnd(t *testing.T) {
	tr := mustCreate(t, 4)
	for v := uint32(1); v <= 5; v++ {
		require.NoError(t, tr.Insert(v))
	}

	require.NoError(t, tr.Delete(1))

	r, ok := tr.Find(2)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 2, Offset: 3}, r)

	checkInvariants(t, tr)
}

func TestDeleteShrinksFromHighEnd(t *testing.T) {
	tr := mustCreate(t, 4)
	for v := uint32(1); v <= 5; v++ {
		require.NoError(t, tr.Insert(v))
	}

	require.NoError(t, tr.Delete(5))

	r, ok := tr.Find(2)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 1, Offset: 3}, r)

	checkInvariants(t, tr)
}

func TestDeleteSplitsRange(t *testing.T) {
	tr := mustCreate(t, 4)
	for v := uint32(1); v <= 5; v++ {
		require.NoError(t, tr.Insert(v))
	}

	require.NoError(t, tr.Delete(3))
	assert.Equal(t, 2, tr.Len())

	r, ok := tr.Find(1)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 1, Offset: 1}, r)

	r, ok = tr.Find(5)
	require.True(t, ok)
	assert.Equal(t, Range{Value: 4, Offset: 1}, r)

	_, ok = tr.Find(3)
	assert.False(t, ok)

	checkInvariants(t, tr)
}

func TestDeleteSplitAtomicWhenArenaFull(t *testing.T) {
	tr := mustCreate(t, 1)
	for v := uint32(1); v <= 5; v++ {
		require.NoError(t, tr.Insert(v))
	}

	before, _ := tr.Find(3)

	err := tr.Delete(3)
	assert.ErrorIs(t, err, ErrTreeFull)

	after, ok := tr.Find(3)
	require.True(t, ok)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, tr.Len())

	checkInvariants(t, tr)
}

func TestClear(t *testing.T) {
	tr := mustCreate(t, 8)
	for v := uint32(1); v < 16; v += 2 {
		require.NoError(t, tr.Insert(v))
	}

	require.NoError(t, tr.Clear())
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, uint32(0), tr.arena.size)
	assert.Equal(t, uint32(8), tr.arena.freeCount())
}

func TestFromRanges(t *testing.T) {
	ranges := []Range{{Value: 1, Offset: 2}, {Value: 10, Offset: 0}, {Value: 20, Offset: 5}}

	tr, err := FromRanges(8, ranges)
	require.NoError(t, err)
	checkInvariants(t, tr)
	assert.Equal(t, 3, tr.Len())

	for _, r := range ranges {
		got, ok := tr.Find(r.Value)
		require.True(t, ok)
		assert.Equal(t, r, got)
	}
}

func TestFromRangesTreeFull(t *testing.T) {
	ranges := []Range{{Value: 1, Offset: 0}, {Value: 5, Offset: 0}, {Value: 10, Offset: 0}}

	_, err := FromRanges(2, ranges)
	assert.ErrorIs(t, err, ErrTreeFull)
}

func TestInsertDeleteStress(t *testing.T) {
	tr := mustCreate(t, 64)

	for round := 0; round < 5; round++ {
		for v := uint32(0); v < 64; v++ {
			val := (v*37 + uint32(round)*13) % 200
			_ = tr.Insert(val)
			checkInvariants(t, tr)
		}

		for v := uint32(0); v < 64; v++ {
			val := (v*37 + uint32(round)*13) % 200
			_ = tr.Delete(val)
			checkInvariants(t, tr)
		}
	}

	assert.True(t, tr.IsEmpty())
}
