package custodytree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodesMatchesFind(t *testing.T) {
	tr := mustCreate(t, 8)
	for _, v := range []uint32{1, 2, 10, 20, 21} {
		require.NoError(t, tr.Insert(v))
	}

	nodes := Nodes(tr)
	assert.Len(t, nodes, 3)

	for _, dn := range nodes {
		r, ok := tr.Find(dn.Range.Value)
		require.True(t, ok)
		assert.Equal(t, r, dn.Range)
	}
}

func TestNodesEmptyTree(t *testing.T) {
	tr := mustCreate(t, 4)
	assert.Nil(t, Nodes(tr))
}
