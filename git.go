package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog/log"
)

// isGitURL reports whether the base argument looks like a git repository
// rather than a local directory.
func isGitURL(input string) bool {
	return strings.HasSuffix(input, ".git") || strings.HasPrefix(input, "git@")
}

// cloneRepo clones the default branch of a repository into a temporary
// directory so it can be scanned like any local tree. The caller owns the
// returned directory and must remove it.
func cloneRepo(url string) (string, error) {
	tempDir, err := os.MkdirTemp("", "folio-git-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}

	log.Info().Str("url", url).Str("dir", tempDir).Msg("cloning repository")
	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.HEAD,
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		_ = os.RemoveAll(tempDir)
		return "", fmt.Errorf("cloning %s: %w", url, err)
	}
	return tempDir, nil
}
