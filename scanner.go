package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/rs/zerolog/log"
)

// scanOptions bundles the inputs of one scan invocation. Selection paths are
// compared in canonical form; an empty Selection means "no restriction".
type scanOptions struct {
	Base           string
	Selection      []string
	IgnorePatterns []string
	IncludeGhosts  bool
	UseIgnoreFile  bool
}

// scanTree walks the filesystem under opts.Base once and produces the index
// tree plus the ordered content list. Extension filtering is deliberately
// not applied here: the same ScanResult can be exported several times with
// different filters without rescanning.
//
// Progress on the emitter covers 0-20%; the export phase owns the rest.
func scanTree(opts scanOptions, em *emitter) (*ScanResult, error) {
	base := canonicalPath(opts.Base)
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, opts.Base)
	}

	selection := make([]string, 0, len(opts.Selection))
	for _, s := range opts.Selection {
		selection = append(selection, canonicalPath(s))
	}

	var ignoreFile gitignore.IgnoreMatcher
	if opts.UseIgnoreFile {
		if m, err := gitignore.NewGitIgnore(filepath.Join(base, ".gitignore"), base); err == nil {
			ignoreFile = m
		}
	}

	em.logf("scanning %s", base)
	result := &ScanResult{Base: base, Index: newIndexTree()}

	// Enumerate first so progress can be reported against a known total.
	var files []string
	walkErr := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission errors and vanished entries cost that subtree only.
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}
		if path == base {
			return nil
		}
		if isIgnored(path, base, opts.IgnorePatterns) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ignoreFile != nil && ignoreFile.Match(path, d.IsDir()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("enumerating %s: %w", base, walkErr)
	}

	for i, path := range files {
		if i%200 == 0 {
			em.progress(float64(i) / float64(len(files)) * 20)
		}

		selected := isSelected(path, selection)
		if !selected && !opts.IncludeGhosts {
			continue
		}

		rel, err := filepath.Rel(base, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		result.Index.Insert(rel)

		if selected {
			result.Entries = append(result.Entries, ContentEntry{
				RelPath: rel,
				Lines:   readFileLines(path),
			})
		}
	}

	em.progress(20)
	em.logf("scan finished: %d files with content", len(result.Entries))
	return result, nil
}

// isSelected reports whether path, or one of its ancestor directories, is a
// member of the selection. An empty selection selects everything.
func isSelected(path string, selection []string) bool {
	if len(selection) == 0 {
		return true
	}
	p := canonicalPath(path)
	for _, s := range selection {
		if p == s || strings.HasPrefix(p, s+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// readFileLines reads a file for content inclusion. Invalid UTF-8 falls back
// to a Latin-1 decode, which cannot fail; an I/O error yields a single
// sentinel line. A single unreadable file never aborts the scan, and raw
// binary bytes never reach a text export.
func readFileLines(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not read file")
		return []string{fmt.Sprintf("[read error: %v]", err)}
	}
	if isBinary(data) {
		return []string{"[binary file omitted]"}
	}
	text := string(data)
	if !utf8.Valid(data) {
		text = decodeLatin1(data)
	}
	return splitLines(text)
}

// isBinary uses the usual NUL-byte heuristic.
func isBinary(data []byte) bool {
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}

// decodeLatin1 maps every byte to the rune with the same code point. Lossy
// for text that was never Latin-1, but total: it never fails.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// splitLines splits text into lines without trailing newlines. A final
// newline does not produce an empty trailing line.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
