// Package manifest reads a project's package.json.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spkg/bom"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "package.json"

// Package holds the parts of package.json hearth cares about. Fields are
// decoded independently, so an unexpected shape in one of them never hides
// the others.
type Package struct {
	Name            string
	Version         string
	Scripts         map[string]string
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// Path returns the manifest path for a project directory.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Read loads and decodes <dir>/package.json.
func Read(dir string) (*Package, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty project path")
	}
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bom.Clean(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", Path(dir), err)
	}

	// A field of the wrong type is treated as absent.
	var pkg Package
	decodeField(fields, "name", &pkg.Name)
	decodeField(fields, "version", &pkg.Version)
	decodeField(fields, "scripts", &pkg.Scripts)
	decodeField(fields, "dependencies", &pkg.Dependencies)
	decodeField(fields, "devDependencies", &pkg.DevDependencies)
	return &pkg, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

// Name returns the top-level name field of <dir>/package.json.
// Every failure degrades to ok=false.
func Name(dir string) (string, bool) {
	pkg, err := Read(dir)
	if err != nil || pkg.Name == "" {
		return "", false
	}
	return pkg.Name, true
}

// UsesEmberCLI reports whether ember-cli is listed as a dependency.
func (p *Package) UsesEmberCLI() bool {
	if _, ok := p.DevDependencies["ember-cli"]; ok {
		return true
	}
	_, ok := p.Dependencies["ember-cli"]
	return ok
}
