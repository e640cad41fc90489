package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterSpecMatchEverything(t *testing.T) {
	for _, raw := range []string{"*", "", "   ", "all", "todos", "TODOS", "!,.", ",,,"} {
		spec := ParseFilterSpec(raw)
		assert.True(t, spec.MatchAll(), "spec %q should match everything", raw)
		assert.True(t, spec.Matches("whatever.bin"))
	}
}

func TestParseFilterSpecMixedRules(t *testing.T) {
	spec := ParseFilterSpec(".py,.md,!pdf")

	tests := []struct {
		path string
		want bool
	}{
		{"a.py", true},
		{"b.md", true},
		{"c.pdf", false},
		{"d.txt", false},
		{"sub/dir/e.PY", true}, // extension matching is case-insensitive
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, spec.Matches(tt.path), "path %s", tt.path)
	}
}

func TestParseFilterSpecExclusionWins(t *testing.T) {
	// Same extension on both sides: the exclusion must win.
	spec := ParseFilterSpec(".go,!go")
	assert.False(t, spec.Matches("main.go"))
}

func TestParseFilterSpecExcludeOnly(t *testing.T) {
	spec := ParseFilterSpec("!jpg,!png")
	assert.True(t, spec.Matches("notes.txt"))
	assert.False(t, spec.Matches("photo.jpg"))
	assert.False(t, spec.Matches("logo.png"))
}

func TestParsePatterns(t *testing.T) {
	assert.Empty(t, parsePatterns(""))
	assert.Equal(t, []string{"node_modules", ".git"}, parsePatterns("node_modules, .git"))
	assert.Equal(t, []string{"*.pyc", "dist", "build"}, parsePatterns("*.pyc\ndist,build\n"))
}

func TestIsIgnored(t *testing.T) {
	base := filepath.Join("/", "proj")
	patterns := []string{".git", "node_modules", "*.lock"}

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(base, "a.txt"), false},
		{filepath.Join(base, "sub", ".git", "config"), true},
		{filepath.Join(base, ".git"), true},
		{filepath.Join(base, "node_modules", "pkg", "index.js"), true},
		{filepath.Join(base, "yarn.lock"), true},
		{filepath.Join(base, "src", "main.go"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isIgnored(tt.path, base, patterns), "path %s", tt.path)
	}

	assert.False(t, isIgnored(filepath.Join(base, ".git"), base, nil), "no patterns ignores nothing")
}
