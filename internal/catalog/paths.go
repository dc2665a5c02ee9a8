package catalog

import (
	"os"
	"path/filepath"
)

// SearchPaths returns template directories in precedence order.
func SearchPaths(projectDir string) []string {
	paths := make([]string, 0, 2)
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, ".promptchain", "templates"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "promptchain", "templates"))
	}
	return paths
}

// Load builds a catalog from dirs, in precedence order, followed by the
// built-in templates. A user template shadows a built-in of the same name.
func Load(dirs ...string) (*Catalog, error) {
	var defs []*Definition
	for _, dir := range dirs {
		loaded, err := LoadDir(dir)
		if err != nil {
			return nil, err
		}
		defs = append(defs, loaded...)
	}

	builtins, err := BuiltinDefinitions()
	if err != nil {
		return nil, err
	}
	defs = append(defs, builtins...)

	return New(defs...)
}
