// Package version implements build-time version stamping and the
// semantic-version bump workflow. Nothing here runs in the serving path;
// the application only reads the stamped file back for display.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Stamp is the version record written at build time and reported by the
// running application.
type Stamp struct {
	Version     string `json:"version"`
	BuildTime   int64  `json:"buildTime"` // epoch milliseconds
	Hash        string `json:"hash"`      // 12-character lowercase hex
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"` // ISO-8601
}

// NewStamp computes the stamp for a version at a given build instant.
// The hash is deterministic for identical inputs.
func NewStamp(version, environment string, at time.Time) Stamp {
	ms := at.UnixMilli()
	return Stamp{
		Version:     version,
		BuildTime:   ms,
		Hash:        computeHash(version, ms, environment),
		Environment: environment,
		Timestamp:   at.UTC().Format(time.RFC3339),
	}
}

func computeHash(version string, buildTime int64, environment string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", version, buildTime, environment)))
	return hex.EncodeToString(sum[:])[:12]
}

// Write persists the stamp to path. When prodDir already exists, a copy
// is written there too so production builds ship the same record.
func (s Stamp) Write(path, prodDir string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stamp: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if prodDir != "" {
		if info, err := os.Stat(prodDir); err == nil && info.IsDir() {
			prodPath := filepath.Join(prodDir, filepath.Base(path))
			if err := os.WriteFile(prodPath, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", prodPath, err)
			}
		}
	}
	return nil
}

// Read loads a stamp previously written to path.
func Read(path string) (Stamp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Stamp{}, fmt.Errorf("read %s: %w", path, err)
	}
	var s Stamp
	if err := json.Unmarshal(data, &s); err != nil {
		return Stamp{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}
