// Package manifest handles stackvm.toml suite configuration.
//
// A suite manifest names a set of program files to assemble and run in
// sequence, with optional expectations on the final top-of-stack value and
// the output string.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents a stackvm.toml suite configuration.
type Manifest struct {
	Suite    Suite     `toml:"suite"`
	Programs []Program `toml:"program"`

	// Dir is the directory containing the stackvm.toml file (set at load time).
	Dir string `toml:"-"`
}

// Suite contains suite metadata.
type Suite struct {
	Name string `toml:"name"`
}

// Program names one program file, with optional post-run expectations.
type Program struct {
	Name         string  `toml:"name"`
	Path         string  `toml:"path"`
	ExpectTop    *int64  `toml:"expect-top"`
	ExpectOutput *string `toml:"expect-output"`
}

// Load parses a stackvm.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "stackvm.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if len(m.Programs) == 0 {
		return nil, fmt.Errorf("%s lists no programs", path)
	}
	for i, p := range m.Programs {
		if p.Path == "" {
			return nil, fmt.Errorf("%s: program %d has no path", path, i)
		}
	}

	return &m, nil
}

// SourcePath returns the absolute path of a program file.
func (m *Manifest) SourcePath(p Program) string {
	if filepath.IsAbs(p.Path) {
		return p.Path
	}
	return filepath.Join(m.Dir, p.Path)
}
