package main

import (
	"sort"
	"strings"
)

// IndexTree is the structural index of a scan: a recursive mapping from
// directory name to subtree plus the file names at each level. What appears
// here is independent of whether a file's content made it into the report
// body (ghost entries are indexed but not exported).
type IndexTree struct {
	dirs  map[string]*IndexTree
	files []string
}

func newIndexTree() *IndexTree {
	return &IndexTree{dirs: make(map[string]*IndexTree)}
}

// Insert adds a file at its slash-separated path relative to the scan base,
// creating intermediate directory nodes as needed.
func (t *IndexTree) Insert(rel string) {
	parts := strings.Split(rel, "/")
	node := t
	for _, dir := range parts[:len(parts)-1] {
		child, ok := node.dirs[dir]
		if !ok {
			child = newIndexTree()
			node.dirs[dir] = child
		}
		node = child
	}
	node.files = append(node.files, parts[len(parts)-1])
}

// Empty reports whether the index holds no entries at all.
func (t *IndexTree) Empty() bool {
	return len(t.files) == 0 && len(t.dirs) == 0
}

// Lines renders the index as indented text: "[name]/" for directories,
// "- name" for files, both sorted lexicographically at each level, four
// spaces of indent per depth.
func (t *IndexTree) Lines() []string {
	var out []string
	t.render(&out, 0)
	return out
}

func (t *IndexTree) render(out *[]string, depth int) {
	indent := strings.Repeat(" ", depth*4)

	names := make([]string, 0, len(t.dirs)+len(t.files))
	for d := range t.dirs {
		names = append(names, d)
	}
	names = append(names, t.files...)
	sort.Strings(names)

	for _, name := range names {
		if child, ok := t.dirs[name]; ok {
			*out = append(*out, indent+"["+name+"]/")
			child.render(out, depth+1)
		} else {
			*out = append(*out, indent+"- "+name)
		}
	}
}
