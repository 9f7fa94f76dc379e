// Package manifest loads and validates the optional .vouch YAML file.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for verification configuration.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxOutput = 1 << 20 // 1 MB
)

// DefaultVersionArgs is the version-query invocation used when a tool
// does not specify its own.
var DefaultVersionArgs = []string{"--version"}

// Manifest holds the parsed .vouch configuration.
// All fields are optional; zero values represent defaults.
type Manifest struct {
	Version      int      `yaml:"version"`
	RawTimeout   string   `yaml:"timeout"`      // e.g. "30s", "2m"
	RawMaxOutput int      `yaml:"max_output"`   // bytes
	RawArgs      []string `yaml:"version_args"` // default version-query args
	Tools        []Tool   `yaml:"tools"`
}

// Tool describes a single executable to verify.
type Tool struct {
	Name       string   `yaml:"name"`
	Executable string   `yaml:"executable"` // path or bare name; defaults to Name
	Args       []string `yaml:"args"`       // version-query args; defaults to manifest-level
	Marker     string   `yaml:"marker"`     // expected substring of the version output
	RawTimeout string   `yaml:"timeout"`    // per-tool override
}

// Timeout returns the configured invocation timeout or the default.
func (m *Manifest) Timeout() time.Duration {
	if m.RawTimeout != "" {
		d, err := time.ParseDuration(m.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured output cap or the default.
func (m *Manifest) MaxOutputBytes() int {
	if m.RawMaxOutput > 0 {
		return m.RawMaxOutput
	}
	return DefaultMaxOutput
}

// VersionArgs returns the manifest-level version-query args or the default.
func (m *Manifest) VersionArgs() []string {
	if len(m.RawArgs) > 0 {
		return m.RawArgs
	}
	return DefaultVersionArgs
}

// FindTool returns the named tool, or nil if the manifest does not list it.
func (m *Manifest) FindTool(name string) *Tool {
	for i := range m.Tools {
		if m.Tools[i].Name == name {
			return &m.Tools[i]
		}
	}
	return nil
}

// Command returns the executable to invoke, falling back to the tool name.
func (t *Tool) Command() string {
	if t.Executable != "" {
		return t.Executable
	}
	return t.Name
}

// Timeout returns the per-tool timeout, falling back to the given default.
func (t *Tool) Timeout(fallback time.Duration) time.Duration {
	if t.RawTimeout != "" {
		d, err := time.ParseDuration(t.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

// VersionArgs returns the tool's version-query args, falling back to the
// manifest-level default.
func (t *Tool) VersionArgs(m *Manifest) []string {
	if len(t.Args) > 0 {
		return t.Args
	}
	return m.VersionArgs()
}

// Validate checks that every listed tool can actually be verified:
// a name and a non-empty marker are required.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Tools))
	for i, t := range m.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool %d: name is required", i)
		}
		if t.Marker == "" {
			return fmt.Errorf("tool %q: marker is required", t.Name)
		}
		if seen[t.Name] {
			return fmt.Errorf("tool %q: duplicate name", t.Name)
		}
		seen[t.Name] = true
	}
	return nil
}

// LoadResult holds the parsed manifest and the directory it was found in.
type LoadResult struct {
	Manifest *Manifest
	Root     string // directory containing .vouch; falls back to workspace
}

// Load reads the .vouch file, discovered by walking upward from workspace.
// If no .vouch file exists, a default Manifest with no tools is returned.
func Load(workspace string) (*LoadResult, error) {
	root, err := findManifestRoot(workspace)
	if err != nil {
		// No manifest found anywhere; use workspace with defaults.
		return &LoadResult{Manifest: &Manifest{}, Root: workspace}, nil
	}

	path := filepath.Join(root, ".vouch")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading .vouch: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing .vouch: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid .vouch: %w", err)
	}
	return &LoadResult{Manifest: m, Root: root}, nil
}

// findManifestRoot walks upward from dir looking for a directory
// containing a .vouch file.
func findManifestRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".vouch")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf(".vouch not found")
		}
		dir = parent
	}
}
