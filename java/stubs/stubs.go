// Package stubs carries declaration-only Java sources for the platform, GWT
// and Errai types that templated classes build on. A project checkout rarely
// contains their sources, yet widget and event checks need their hierarchy.
package stubs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/dhamidi/errai-ls/java"
)

//go:embed src/*.java
var sources embed.FS

var (
	loadOnce sync.Once
	loaded   []*java.ClassModel
	loadErr  error
)

// Load parses the embedded stubs once and returns their class models, marked
// as library classes. Callers must not modify the returned models.
func Load() ([]*java.ClassModel, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parseAll(sources)
	})
	return loaded, loadErr
}

func parseAll(fsys fs.FS) ([]*java.ClassModel, error) {
	paths, err := fs.Glob(fsys, "src/*.java")
	if err != nil {
		return nil, fmt.Errorf("list stubs: %w", err)
	}
	sort.Strings(paths)

	var result []*java.ClassModel
	for _, path := range paths {
		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read stub %s: %w", path, err)
		}
		models, err := java.ClassModelsFromSource(content, java.WithPath("stubs/"+path))
		if err != nil {
			return nil, fmt.Errorf("parse stub %s: %w", path, err)
		}
		for _, m := range models {
			m.IsLibrary = true
		}
		result = append(result, models...)
	}
	return result, nil
}
