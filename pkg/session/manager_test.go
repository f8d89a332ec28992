package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bplib-go/custodytree/pkg/custodytree"
	"github.com/bplib-go/custodytree/pkg/session"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(t.TempDir())
	ranges := []custodytree.Range{{Value: 1, Offset: 2}, {Value: 10, Offset: 0}}

	require.NoError(t, mgr.Save("default", ranges))
	assert.True(t, mgr.Exists("default"))

	got, err := mgr.Load("default")
	require.NoError(t, err)
	assert.Equal(t, ranges, got)
}

func TestLoadMissingSession(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(t.TempDir())

	_, err := mgr.Load("missing")
	assert.Error(t, err)
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(t.TempDir())
	require.NoError(t, mgr.Save("default", nil))

	require.NoError(t, mgr.Clear("default"))
	assert.False(t, mgr.Exists("default"))
	require.NoError(t, mgr.Clear("default"))
}

func TestSaveLoadMeta(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(t.TempDir())
	require.NoError(t, mgr.SaveMeta("default", session.Meta{MaxSize: 1024}))

	got, err := mgr.LoadMeta("default")
	require.NoError(t, err)
	assert.Equal(t, uint64(1024), got.MaxSize)
}

func TestClearRemovesMetaToo(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager(t.TempDir())
	require.NoError(t, mgr.Save("default", nil))
	require.NoError(t, mgr.SaveMeta("default", session.Meta{MaxSize: 4}))

	require.NoError(t, mgr.Clear("default"))

	_, err := mgr.LoadMeta("default")
	assert.Error(t, err)
}

func TestPathUsesRangeTableExtension(t *testing.T) {
	t.Parallel()

	mgr := session.NewManager("/tmp/x")
	assert.Equal(t, filepath.Join("/tmp/x", "default.rt"), mgr.Path("default"))
}
