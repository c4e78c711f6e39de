package version

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReleaseMarker in the latest commit message stops the pre-commit hook
// from bumping again on release commits.
const ReleaseMarker = "[release]"

const preCommitHook = `#!/bin/sh
# Managed by install-hooks; edits will be overwritten.
branch="$(git rev-parse --abbrev-ref HEAD)"
case "$branch" in
  main|master) ;;
  *) exit 0 ;;
esac
last="$(git log -1 --pretty=%B 2>/dev/null)"
case "$last" in
  *"` + ReleaseMarker + `"*) exit 0 ;;
esac
go run ./cmd/version-bump patch || exit 1
git add VERSION version.json
`

// InstallPreCommitHook writes the pre-commit hook into the repository's
// hooks directory. Installing over an existing managed hook is a no-op
// rewrite, so the installer can run on every checkout.
func InstallPreCommitHook(dir string) (string, error) {
	if !IsRepo(dir) {
		return "", fmt.Errorf("%s: %w", dir, ErrNotARepository)
	}
	hooksDir := filepath.Join(dir, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("create hooks directory: %w", err)
	}
	hookPath := filepath.Join(hooksDir, "pre-commit")
	if err := os.WriteFile(hookPath, []byte(preCommitHook), 0755); err != nil {
		return "", fmt.Errorf("write pre-commit hook: %w", err)
	}
	return hookPath, nil
}
