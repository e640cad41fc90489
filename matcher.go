package main

import (
	"path/filepath"
	"strings"
)

// parsePatterns splits a raw ignore-pattern string into a slice of glob
// patterns. Commas and newlines both act as separators so the value can come
// from a flag or a multi-line config entry.
func parsePatterns(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	patterns := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			patterns = append(patterns, f)
		}
	}
	return patterns
}

// isIgnored reports whether the entry's own name, or any directory segment
// between base and the entry, matches one of the shell-glob patterns.
// Ignored entries are excluded from both the index and the content list.
func isIgnored(path, base string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		for _, p := range patterns {
			if ok, _ := filepath.Match(p, part); ok {
				return true
			}
		}
	}
	return false
}

// FilterSpec is a parsed extension rule: either "match everything" or a pair
// of include/exclude extension sets. The zero value matches everything.
type FilterSpec struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// MatchAll reports whether the spec places no restriction on extensions.
func (s FilterSpec) MatchAll() bool {
	return len(s.include) == 0 && len(s.exclude) == 0
}

// Matches decides whether a file's content should be emitted. Exclusion wins
// over inclusion: a path whose extension is in the exclude set is rejected
// even if the include set names it too.
func (s FilterSpec) Matches(path string) bool {
	if s.MatchAll() {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := s.exclude[ext]; ok {
		return false
	}
	if len(s.include) == 0 {
		return true
	}
	_, ok := s.include[ext]
	return ok
}

// ParseFilterSpec parses the extension filter grammar: comma-separated
// tokens, "!tok" marking an exclusion, everything normalized to a single
// leading dot and lower case. "*", "", "all" and "todos" all mean "match
// everything", as does a spec whose tokens normalize to nothing.
func ParseFilterSpec(text string) FilterSpec {
	trimmed := strings.TrimSpace(text)
	switch strings.ToLower(trimmed) {
	case "", "*", "all", "todos":
		return FilterSpec{}
	}

	spec := FilterSpec{
		include: make(map[string]struct{}),
		exclude: make(map[string]struct{}),
	}
	for _, tok := range strings.Split(trimmed, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		target := spec.include
		if strings.HasPrefix(tok, "!") {
			tok = tok[1:]
			target = spec.exclude
		}
		ext := strings.ToLower(strings.TrimLeft(tok, "."))
		if ext == "" {
			continue
		}
		target["."+ext] = struct{}{}
	}
	if spec.MatchAll() {
		return FilterSpec{}
	}
	return spec
}
