package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// runInteractivePicker walks the base directory and opens a fuzzy finder so
// the user can multi-select files and directories. The picked paths seed the
// selection tree. Returns (nil, nil) when the user aborts.
func runInteractivePicker(base string, ignorePatterns []string) ([]string, error) {
	var candidates []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == base {
			return nil
		}
		if isIgnored(path, base, ignorePatterns) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing candidates under %s: %w", base, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("nothing to select under %s", base)
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			rel, err := filepath.Rel(base, candidates[i])
			if err != nil {
				return candidates[i]
			}
			return rel
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Tab to multi-select, Enter to confirm, Esc to abort."
			}
			info, statErr := os.Stat(candidates[i])
			if statErr != nil {
				return fmt.Sprintf("%s\n(stat failed: %v)", candidates[i], statErr)
			}
			kind := "file"
			if info.IsDir() {
				kind = "directory"
			}
			return fmt.Sprintf("%s\n%s, %d bytes", candidates[i], kind, info.Size())
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder: %w", err)
	}

	picks := make([]string, len(idx))
	for i, n := range idx {
		picks[i] = candidates[n]
	}
	return picks, nil
}
