package version

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Level selects which semantic-version field a bump increments.
type Level string

const (
	Major Level = "major"
	Minor Level = "minor"
	Patch Level = "patch"
)

// ParseLevel maps a CLI argument to a Level; empty defaults to patch.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Patch, nil
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return "", fmt.Errorf("unknown bump level %q: must be major, minor, or patch", s)
	}
}

var errMalformed = errors.New("malformed semantic version")

// Bump increments one field of an X.Y.Z version string, resetting the
// lower fields.
func Bump(version string, level Level) (string, error) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", errMalformed, version)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: %q", errMalformed, version)
		}
		nums[i] = n
	}

	switch level {
	case Major:
		nums[0]++
		nums[1] = 0
		nums[2] = 0
	case Minor:
		nums[1]++
		nums[2] = 0
	case Patch:
		nums[2]++
	default:
		return "", fmt.Errorf("unknown bump level %q", level)
	}
	return fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2]), nil
}

// ReadDeclared reads the declared version from a VERSION file.
func ReadDeclared(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read version file: %w", err)
	}
	v := strings.TrimSpace(string(data))
	if _, err := Bump(v, Patch); err != nil {
		return "", fmt.Errorf("version file %s: %w", path, errMalformed)
	}
	return v, nil
}

// WriteDeclared writes the declared version back to a VERSION file.
func WriteDeclared(path, version string) error {
	if err := os.WriteFile(path, []byte(version+"\n"), 0644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}
