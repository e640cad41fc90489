package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SelectionNode is one entry in the selection tree. Nodes are owned by the
// tree and addressed by canonical path; children are discovered lazily via
// Expand.
type SelectionNode struct {
	Path  string
	IsDir bool
	State TriState

	parent   string
	children []string
	expanded bool
}

// SelectionTree mirrors a filesystem subtree with a tri-state checkbox per
// node. Invariant after every mutation: a directory is Checked iff all of
// its discovered children are Checked, Unchecked iff all are Unchecked, and
// Partial otherwise.
type SelectionTree struct {
	root        string
	nodes       map[string]*SelectionNode
	preselected map[string]struct{}
}

// canonicalPath resolves a path to its symlink-free absolute form so that
// selection membership can be compared reliably.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// NewSelectionTree creates a tree rooted at base. Paths in preselected mark
// the initial checked subtrees; an empty preselection means everything
// starts checked.
func NewSelectionTree(base string, preselected []string) *SelectionTree {
	t := &SelectionTree{
		root:        canonicalPath(base),
		nodes:       make(map[string]*SelectionNode),
		preselected: make(map[string]struct{}, len(preselected)),
	}
	for _, p := range preselected {
		t.preselected[canonicalPath(p)] = struct{}{}
	}
	t.insert(t.root, true, "")
	return t
}

// Root returns the canonical base path of the tree.
func (t *SelectionTree) Root() string { return t.root }

// Node returns the node for a path, or nil if it has not been discovered.
func (t *SelectionTree) Node(path string) *SelectionNode {
	return t.nodes[canonicalPath(path)]
}

func (t *SelectionTree) underPreselected(path string) bool {
	for p := range t.preselected {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (t *SelectionTree) insert(path string, isDir bool, parent string) *SelectionNode {
	if n, ok := t.nodes[path]; ok {
		return n
	}
	state := Unchecked
	switch {
	case len(t.preselected) == 0:
		state = Checked
	case t.underPreselected(path):
		state = Checked
	default:
		if p, ok := t.nodes[parent]; ok && p.State == Checked {
			state = Checked
		}
	}
	n := &SelectionNode{Path: path, IsDir: isDir, State: state, parent: parent}
	t.nodes[path] = n
	if p, ok := t.nodes[parent]; ok {
		p.children = append(p.children, path)
	}
	t.updateAncestors(parent)
	return n
}

// Expand discovers the direct children of a directory node. Enumeration
// errors (permission denied, vanished entries) are swallowed: the subtree
// stays empty and the rest of the tree is unaffected.
func (t *SelectionTree) Expand(path string) {
	key := canonicalPath(path)
	n, ok := t.nodes[key]
	if !ok || !n.IsDir || n.expanded {
		return
	}
	n.expanded = true
	entries, err := os.ReadDir(key)
	if err != nil {
		log.Debug().Err(err).Str("path", key).Msg("expand failed, leaving subtree empty")
		return
	}
	for _, e := range entries {
		t.insert(filepath.Join(key, e.Name()), e.IsDir(), key)
	}
}

// Reveal expands every directory on the way from the root to path so that
// the node for path exists in the tree.
func (t *SelectionTree) Reveal(path string) {
	p := canonicalPath(path)
	if p != t.root && !strings.HasPrefix(p, t.root+string(filepath.Separator)) {
		return
	}
	rel, err := filepath.Rel(t.root, p)
	if err != nil || rel == "." {
		return
	}
	cur := t.root
	t.Expand(cur)
	parts := strings.Split(rel, string(filepath.Separator))
	for _, part := range parts[:len(parts)-1] {
		cur = filepath.Join(cur, part)
		t.Expand(cur)
	}
}

// Toggle flips a node between Checked and Unchecked. A Partial node is
// driven to Checked. The new binary state is forced onto every discovered
// descendant, then ancestor states are recomputed bottom-up.
func (t *SelectionTree) Toggle(path string) error {
	n, ok := t.nodes[canonicalPath(path)]
	if !ok {
		return ErrNotFound
	}
	next := Checked
	if n.State == Checked {
		next = Unchecked
	}
	return t.Set(path, next == Checked)
}

// Set forces a node and all of its discovered descendants to a binary state.
func (t *SelectionTree) Set(path string, checked bool) error {
	n, ok := t.nodes[canonicalPath(path)]
	if !ok {
		return ErrNotFound
	}
	state := Unchecked
	if checked {
		state = Checked
	}
	t.forceDown(n, state)
	t.updateAncestors(n.parent)
	return nil
}

func (t *SelectionTree) forceDown(n *SelectionNode, state TriState) {
	n.State = state
	for _, c := range n.children {
		t.forceDown(t.nodes[c], state)
	}
}

// updateAncestors recomputes directory states from path upward until a state
// stops changing.
func (t *SelectionTree) updateAncestors(path string) {
	for path != "" {
		n, ok := t.nodes[path]
		if !ok {
			return
		}
		next := t.stateFromChildren(n)
		if next == n.State {
			return
		}
		n.State = next
		path = n.parent
	}
}

func (t *SelectionTree) stateFromChildren(n *SelectionNode) TriState {
	if len(n.children) == 0 {
		return n.State
	}
	checked, unchecked := 0, 0
	for _, c := range n.children {
		switch t.nodes[c].State {
		case Checked:
			checked++
		case Unchecked:
			unchecked++
		}
	}
	switch {
	case checked == len(n.children):
		return Checked
	case unchecked == len(n.children):
		return Unchecked
	default:
		return Partial
	}
}

// SelectAll marks every discovered node checked.
func (t *SelectionTree) SelectAll() { _ = t.Set(t.root, true) }

// DeselectAll marks every discovered node unchecked.
func (t *SelectionTree) DeselectAll() { _ = t.Set(t.root, false) }

// Invert flips every binary node state independently, then recomputes
// directory states from their children.
func (t *SelectionTree) Invert() {
	for _, n := range t.nodes {
		if !n.IsDir || len(n.children) == 0 {
			switch n.State {
			case Checked:
				n.State = Unchecked
			case Unchecked:
				n.State = Checked
			}
		}
	}
	t.recomputeAll()
}

// recomputeAll rebuilds every directory state bottom-up. Deeper paths are
// processed first so parents always see settled children.
func (t *SelectionTree) recomputeAll() {
	dirs := make([]*SelectionNode, 0, len(t.nodes))
	for _, n := range t.nodes {
		if n.IsDir && len(n.children) > 0 {
			dirs = append(dirs, n)
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		return len(dirs[i].Path) > len(dirs[j].Path)
	})
	for _, d := range dirs {
		d.State = t.stateFromChildren(d)
	}
}

// Snapshot returns the paths currently checked, sorted. A root that is fully
// checked collapses to nil: downstream an empty selection means "no
// restriction", so "everything checked" and "nothing marked" share the same
// canonical form.
func (t *SelectionTree) Snapshot() []string {
	if root, ok := t.nodes[t.root]; ok && root.State == Checked {
		return nil
	}
	var out []string
	for p, n := range t.nodes {
		if n.State == Checked {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
