// Package project assembles the code intelligence services for one checkout:
// the codebase with its configuration and the resolvers, inspections and
// reference adapters working on it.
package project

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/tliron/commonlog"
	"github.com/viant/afs"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/binding"
	"github.com/dhamidi/errai-ls/errai/inspect"
	"github.com/dhamidi/errai-ls/errai/refs"
	"github.com/dhamidi/errai-ls/errai/template"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/java/codebase"
)

var log = commonlog.GetLogger("errai-ls.project")

// Project represents an Errai application checkout.
type Project struct {
	RootDir   string
	Config    *errai.Config
	Codebase  *codebase.Codebase
	Templates *template.Resolver
	Bindings  *binding.Resolver
	Inspector *inspect.Inspector
	Refs      *refs.Adapter
}

// New wires the services for rootDir without reading any file.
func New(rootDir string, cfg *errai.Config, fs afs.Service) *Project {
	if cfg == nil {
		cfg = errai.DefaultConfig()
	}
	cb := codebase.New(rootDir, codebase.WithConfig(cfg), codebase.WithFS(fs))
	templates := template.NewResolver(cb, cfg.TemplateExtension)
	bindings := binding.NewResolver(cb)
	return &Project{
		RootDir:   cb.RootDir(),
		Config:    cfg,
		Codebase:  cb,
		Templates: templates,
		Bindings:  bindings,
		Inspector: inspect.New(cb, templates, bindings),
		Refs:      refs.New(cb, templates, bindings),
	}
}

// LoadFrom reads the configuration file of rootDir, when present, and scans
// every source and template file below it.
func LoadFrom(ctx context.Context, rootDir string) (*Project, error) {
	fs := afs.New()
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rootDir, err)
	}
	cfg, err := errai.LoadConfig(ctx, fs, filepath.Join(abs, errai.ConfigFile))
	if err != nil {
		return nil, err
	}

	p := New(abs, cfg, fs)
	if err := p.Codebase.ScanAll(ctx); err != nil {
		return nil, err
	}
	log.Infof("loaded project %s", abs)
	return p, nil
}

// AffectedFiles returns the Java files whose problems may change when path
// changes or disappears. A Java file affects itself, the subclasses and
// supertypes of its classes and the views bound to them; when its classes
// are bindable every bound view is included. A removed Java file affects
// every Java file. A markup file affects the classes using it as template
// and a properties file affects every Java file.
func (p *Project) AffectedFiles(path string) []string {
	switch p.Codebase.KindOf(path) {
	case codebase.JavaFile:
		if p.Codebase.GetFile(path) == nil {
			return append([]string{path}, p.Codebase.Files(codebase.JavaFile)...)
		}
		return p.dependents(path)
	case codebase.MarkupFile:
		return sourceFiles(nil, p.Templates.ClassesForTemplate(path))
	case codebase.PropertiesFile:
		return p.Codebase.Files(codebase.JavaFile)
	}
	return nil
}

func (p *Project) dependents(path string) []string {
	var declared []*java.ClassModel
	changed := make(map[string]bool)
	bindable := false
	for _, c := range p.Codebase.Classes() {
		if c.SourceFile != path {
			continue
		}
		declared = append(declared, c)
		changed[c.Name] = true
		bindable = bindable || p.Bindings.IsBindable(c)
	}

	result := []string{path}
	for _, c := range declared {
		result = sourceFiles(result, java.Hierarchy(p.Codebase, c))
	}
	var related []*java.ClassModel
	for _, c := range p.Codebase.Classes() {
		if p.dependsOn(c, changed, bindable) {
			related = append(related, c)
		}
	}
	return sourceFiles(result, related)
}

// dependsOn reports whether the problems of class may change with the
// classes in changed.
func (p *Project) dependsOn(class *java.ClassModel, changed map[string]bool, bindable bool) bool {
	for _, c := range java.Hierarchy(p.Codebase, class) {
		if changed[c.Name] {
			return true
		}
	}
	meta := p.Bindings.Binding(class)
	if meta.BoundType == "" {
		return false
	}
	return changed[meta.BoundType] || meta.BoundClass == nil || (bindable && meta.IsBound())
}

// sourceFiles appends the source files of classes to files, skipping library
// classes and files already present.
func sourceFiles(files []string, classes []*java.ClassModel) []string {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f] = true
	}
	for _, c := range classes {
		if c.IsLibrary || c.SourceFile == "" || seen[c.SourceFile] {
			continue
		}
		seen[c.SourceFile] = true
		files = append(files, c.SourceFile)
	}
	return files
}
