package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectionFixture builds base/{a.txt, sub/{b.txt, c.txt}} and returns base.
func selectionFixture(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "sub"), 0o755))
	for _, f := range []string{"a.txt", "sub/b.txt", "sub/c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(base, f), []byte("x\n"), 0o644))
	}
	return base
}

// assertTriStateInvariant checks that every directory with children reflects
// them (checked iff all checked, unchecked iff all unchecked, else partial)
// and that files never hold Partial.
func assertTriStateInvariant(t *testing.T, tree *SelectionTree) {
	t.Helper()
	for _, n := range tree.nodes {
		if !n.IsDir {
			assert.NotEqual(t, Partial, n.State, "file %s must be binary", n.Path)
			continue
		}
		if len(n.children) > 0 {
			assert.Equal(t, tree.stateFromChildren(n), n.State, "dir %s", n.Path)
		}
	}
}

func TestFreshTreeSnapshotIsEmpty(t *testing.T) {
	tree := NewSelectionTree(selectionFixture(t), nil)
	assert.Empty(t, tree.Snapshot(), "no explicit pre-selection means no restriction")
}

func TestExpandDiscoversChildrenChecked(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, nil)
	tree.Expand(base)
	tree.Expand(filepath.Join(base, "sub"))

	for _, p := range []string{"a.txt", "sub", "sub/b.txt"} {
		n := tree.Node(filepath.Join(base, p))
		require.NotNil(t, n, "node %s", p)
		assert.Equal(t, Checked, n.State)
	}
	assertTriStateInvariant(t, tree)
	assert.Empty(t, tree.Snapshot(), "everything checked collapses to the empty set")
}

func TestToggleLeafRoundTrip(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, nil)
	tree.Expand(base)
	tree.Expand(filepath.Join(base, "sub"))

	b := filepath.Join(base, "sub", "b.txt")
	require.NoError(t, tree.Toggle(b))
	assert.Equal(t, Unchecked, tree.Node(b).State)
	assert.Equal(t, Partial, tree.Node(filepath.Join(base, "sub")).State)
	assert.Equal(t, Partial, tree.Node(base).State)
	assertTriStateInvariant(t, tree)

	require.NoError(t, tree.Toggle(b))
	assert.Equal(t, Checked, tree.Node(b).State)
	assert.Equal(t, Checked, tree.Node(base).State)
	assertTriStateInvariant(t, tree)
	assert.Empty(t, tree.Snapshot())
}

func TestToggleDirectoryForcesDescendants(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, nil)
	tree.Expand(base)
	sub := filepath.Join(base, "sub")
	tree.Expand(sub)

	require.NoError(t, tree.Toggle(sub))
	assert.Equal(t, Unchecked, tree.Node(sub).State)
	assert.Equal(t, Unchecked, tree.Node(filepath.Join(sub, "b.txt")).State)
	assert.Equal(t, Unchecked, tree.Node(filepath.Join(sub, "c.txt")).State)
	assert.Equal(t, Partial, tree.Node(base).State)
	assertTriStateInvariant(t, tree)
}

func TestTogglePartialDrivesToChecked(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, nil)
	tree.Expand(base)
	sub := filepath.Join(base, "sub")
	tree.Expand(sub)

	require.NoError(t, tree.Toggle(filepath.Join(sub, "b.txt")))
	require.Equal(t, Partial, tree.Node(sub).State)

	require.NoError(t, tree.Toggle(sub))
	assert.Equal(t, Checked, tree.Node(sub).State)
	assert.Equal(t, Checked, tree.Node(filepath.Join(sub, "b.txt")).State)
	assertTriStateInvariant(t, tree)
}

func TestToggleUnknownPath(t *testing.T) {
	tree := NewSelectionTree(selectionFixture(t), nil)
	assert.ErrorIs(t, tree.Toggle("/no/such/path"), ErrNotFound)
}

func TestSelectAllDeselectAllInvert(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, nil)
	tree.Expand(base)
	sub := filepath.Join(base, "sub")
	tree.Expand(sub)

	tree.DeselectAll()
	assertTriStateInvariant(t, tree)
	assert.Equal(t, Unchecked, tree.Node(base).State)
	assert.Empty(t, tree.Snapshot())

	require.NoError(t, tree.Toggle(filepath.Join(base, "a.txt")))
	tree.Invert()
	assertTriStateInvariant(t, tree)
	assert.Equal(t, Unchecked, tree.Node(filepath.Join(base, "a.txt")).State)
	assert.Equal(t, Checked, tree.Node(filepath.Join(sub, "b.txt")).State)
	assert.Equal(t, Checked, tree.Node(sub).State)
	assert.Equal(t, Partial, tree.Node(base).State)

	tree.SelectAll()
	assertTriStateInvariant(t, tree)
	assert.Empty(t, tree.Snapshot())
}

func TestPreselectedSubtree(t *testing.T) {
	base := selectionFixture(t)
	sub := filepath.Join(base, "sub")
	tree := NewSelectionTree(base, []string{sub})
	tree.Expand(base)
	tree.Expand(sub)

	assert.Equal(t, Unchecked, tree.Node(filepath.Join(base, "a.txt")).State)
	assert.Equal(t, Checked, tree.Node(sub).State)
	assert.Equal(t, Checked, tree.Node(filepath.Join(sub, "b.txt")).State)
	assert.Equal(t, Partial, tree.Node(base).State)
	assertTriStateInvariant(t, tree)

	snap := tree.Snapshot()
	assert.Contains(t, snap, canonicalPath(sub))
	assert.NotContains(t, snap, canonicalPath(filepath.Join(base, "a.txt")))
}

func TestExpandMissingDirLeavesSubtreeEmpty(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, nil)
	tree.Expand(base)
	sub := filepath.Join(base, "sub")
	require.NoError(t, os.RemoveAll(sub))

	// The node was discovered before the directory vanished; expanding it
	// now must not fail, just leave it childless.
	tree.Expand(sub)
	assert.Empty(t, tree.Node(sub).children)
	assertTriStateInvariant(t, tree)
}

func TestRevealExpandsAncestors(t *testing.T) {
	base := selectionFixture(t)
	tree := NewSelectionTree(base, []string{filepath.Join(base, "sub", "b.txt")})
	tree.Reveal(filepath.Join(base, "sub", "b.txt"))

	require.NotNil(t, tree.Node(filepath.Join(base, "sub", "b.txt")))
	assert.Equal(t, Checked, tree.Node(filepath.Join(base, "sub", "b.txt")).State)
	assert.Equal(t, Partial, tree.Node(filepath.Join(base, "sub")).State)
	assertTriStateInvariant(t, tree)
}
