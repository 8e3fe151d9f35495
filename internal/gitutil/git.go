// Package gitutil shells out to git for the historical snapshots the
// split operation needs.
package gitutil

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// RepoRoot resolves the repository top level containing dir.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %s", dir)
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolveCommit resolves ref (HEAD when empty) to a full hash, or
// "unknown" when the repository cannot answer.
func ResolveCommit(repoRoot, ref string) string {
	if ref == "" {
		ref = "HEAD"
	}
	cmd := exec.Command("git", "-C", repoRoot, "rev-parse", ref)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out.String())
}

// RelToRoot converts a path to the repository-relative form git show
// expects.
func RelToRoot(repoRoot, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(repoRoot, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// ShowFile returns the content of relPath at ref.
func ShowFile(repoRoot, ref, relPath string) ([]byte, error) {
	relPath = filepath.ToSlash(relPath)
	cmd := exec.Command("git", "-C", repoRoot, "show", ref+":"+relPath)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git show %s:%s: %w", ref, relPath, err)
	}
	return out, nil
}
