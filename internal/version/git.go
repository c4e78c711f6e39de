package version

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotARepository is returned when a git operation is attempted outside
// a version-control repository.
var ErrNotARepository = errors.New("not a git repository")

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// TagVersion creates the annotated release tag v<version>.
func TagVersion(dir, version string) error {
	_, err := git(dir, "tag", "-a", "v"+version, "-m", "Release v"+version)
	return err
}

// BumpRepo runs the whole bump workflow: read VERSION, increment it,
// regenerate version.json, and tag the release. It fails without touching
// any file when dir is not a git repository or VERSION is malformed.
func BumpRepo(dir string, level Level, environment string) (Stamp, error) {
	if !IsRepo(dir) {
		return Stamp{}, fmt.Errorf("%s: %w", dir, ErrNotARepository)
	}

	versionFile := filepath.Join(dir, "VERSION")
	current, err := ReadDeclared(versionFile)
	if err != nil {
		return Stamp{}, err
	}
	next, err := Bump(current, level)
	if err != nil {
		return Stamp{}, err
	}

	if err := WriteDeclared(versionFile, next); err != nil {
		return Stamp{}, err
	}

	stamp := NewStamp(next, environment, time.Now())
	if err := stamp.Write(filepath.Join(dir, "version.json"), filepath.Join(dir, "dist")); err != nil {
		return Stamp{}, err
	}

	if err := TagVersion(dir, next); err != nil {
		return Stamp{}, err
	}
	return stamp, nil
}
