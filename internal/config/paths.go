package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Paths centralizes filesystem path resolution. All relative paths are
// anchored at the executable's directory so the binary behaves the same
// regardless of the working directory it was launched from.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string
}

var (
	pathsMu sync.Mutex
	paths   *Paths
)

// GetPaths returns the process-wide resolved paths. Load stores the paths
// it resolved from the configuration; before Load runs, the defaults apply.
func GetPaths() (*Paths, error) {
	pathsMu.Lock()
	defer pathsMu.Unlock()
	if paths == nil {
		p, err := NewPaths(PathsConfig{})
		if err != nil {
			return nil, err
		}
		paths = p
	}
	return paths, nil
}

func setPaths(p *Paths) {
	pathsMu.Lock()
	defer pathsMu.Unlock()
	paths = p
}

// NewPaths resolves the configured directories. Relative paths are anchored
// at the executable's directory; absolute paths are taken as given.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dir, err := baseDir()
	if err != nil {
		return nil, err
	}

	resolve := func(configured, fallback string) string {
		if configured == "" {
			configured = fallback
		}
		if filepath.IsAbs(configured) {
			return configured
		}
		return filepath.Join(dir, configured)
	}

	return &Paths{
		ExecutableDir: dir,
		DataDir:       resolve(cfg.DataDir, "data"),
		ReportsDir:    resolve(cfg.ReportsDir, filepath.Join("data", "reports")),
		LogsDir:       resolve(cfg.LogsDir, "logs"),
	}, nil
}

func baseDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	dir := filepath.Dir(exe)

	// Tests and `go run` execute from temp directories; fall back to the
	// working directory when the executable lives under the build cache.
	if isTempDir(dir) {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	return dir, nil
}

func isTempDir(dir string) bool {
	return strings.HasPrefix(dir, os.TempDir()) || strings.Contains(dir, "go-build")
}

// EnsureDirectories creates the directories the application writes to.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath resolves a report file name inside the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath resolves a log file name inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
