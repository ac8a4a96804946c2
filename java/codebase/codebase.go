// Package codebase keeps the parsed state of a project checkout: Java
// declarations, template markup and the ErraiApp.properties allow-lists, each
// file carrying a modification stamp.
package codebase

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	furl "github.com/viant/afs/url"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/java/stubs"
	"github.com/dhamidi/errai-ls/markup"
)

var log = commonlog.GetLogger("errai-ls.codebase")

type FileKind int

const (
	OtherFile FileKind = iota
	JavaFile
	MarkupFile
	PropertiesFile
)

type FileInfo struct {
	Path     string
	Kind     FileKind
	Content  []byte
	Stamp    int64
	Classes  []*java.ClassModel
	Markup   *markup.Document
	Bindable []string
	ParseErr error
}

type Codebase struct {
	mu       sync.RWMutex
	rootDir  string
	config   *errai.Config
	fs       afs.Service
	files    map[string]*FileInfo
	classes  []*java.ClassModel
	byName   map[string]*java.ClassModel
	library  map[string]*java.ClassModel
	bindable map[string]bool
	stamp    int64
	fields   *markup.FieldCache
}

type Option func(*Codebase)

func WithConfig(cfg *errai.Config) Option {
	return func(c *Codebase) { c.config = cfg }
}

func WithFS(fs afs.Service) Option {
	return func(c *Codebase) { c.fs = fs }
}

func New(rootDir string, opts ...Option) *Codebase {
	if abs, err := filepath.Abs(rootDir); err == nil {
		rootDir = abs
	}
	c := &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
		byName:  make(map[string]*java.ClassModel),
		library: make(map[string]*java.ClassModel),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.config == nil {
		c.config = errai.DefaultConfig()
	}
	if c.fs == nil {
		c.fs = afs.New()
	}
	c.fields = markup.NewFieldCache(c.config.DataFieldAttribute)

	models, err := stubs.Load()
	if err != nil {
		log.Warningf("loading library stubs: %s", err)
	}
	for _, m := range models {
		c.library[m.Name] = m
	}
	c.rebuildBindableLocked()
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *errai.Config {
	return c.config
}

// ScanAll loads every Java, markup and properties file below the root
// directory. Java files are resolved a second time once all classes are
// known so that on-demand imports find classes declared later in the walk.
func (c *Codebase) ScanAll(ctx context.Context) error {
	var javaFiles []string
	err := c.walk(ctx, c.rootDir, func(path string, _ storage.Object) {
		if c.kindOf(path) == OtherFile {
			return
		}
		if err := c.ScanFile(ctx, path); err != nil {
			log.Warningf("scanning %s: %s", path, err)
			return
		}
		if c.kindOf(path) == JavaFile {
			javaFiles = append(javaFiles, path)
		}
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", c.rootDir, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range javaFiles {
		if f := c.files[p]; f != nil {
			c.updateFileLocked(p, f.Content)
		}
	}
	log.Infof("scanned %d files, %d classes", len(c.files), len(c.classes))
	return nil
}

// walk visits the files below dir, skipping excluded directories.
func (c *Codebase) walk(ctx context.Context, dir string, visit func(path string, obj storage.Object)) error {
	objects, err := c.fs.List(ctx, dir)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		p := filepath.Clean(furl.Path(obj.URL()))
		if p == filepath.Clean(dir) {
			continue
		}
		if obj.IsDir() {
			if c.config.IsExcluded(obj.Name()) {
				continue
			}
			if err := c.walk(ctx, p, visit); err != nil {
				log.Warningf("listing %s: %s", p, err)
			}
			continue
		}
		visit(p, obj)
	}
	return nil
}

// KindOf classifies path by its name. The file need not be known.
func (c *Codebase) KindOf(path string) FileKind {
	return c.kindOf(path)
}

func (c *Codebase) kindOf(p string) FileKind {
	switch {
	case strings.HasSuffix(p, ".java"):
		return JavaFile
	case strings.HasSuffix(p, c.config.TemplateExtension):
		return MarkupFile
	case path.Base(filepath.ToSlash(p)) == c.config.PropertiesFile:
		return PropertiesFile
	}
	return OtherFile
}

func (c *Codebase) ScanFile(ctx context.Context, path string) error {
	content, err := c.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the content of path and reparses it. Files of other
// kinds are ignored.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateFileLocked(path, content)
}

func (c *Codebase) updateFileLocked(path string, content []byte) error {
	kind := c.kindOf(path)
	if kind == OtherFile {
		return nil
	}
	c.stamp++
	f := &FileInfo{
		Path:    path,
		Kind:    kind,
		Content: content,
		Stamp:   c.stamp,
	}

	switch kind {
	case JavaFile:
		f.Classes, f.ParseErr = java.ClassModelsFromSource(content, java.WithPath(path), java.WithKnownTypes(c.isKnownLocked))
		java.ResolveInnerClassReferences(c.classes, f.Classes)
	case MarkupFile:
		f.Markup, f.ParseErr = markup.Parse(path, f.Stamp, content)
		c.fields.Evict(path)
	case PropertiesFile:
		var props map[string]string
		props, f.ParseErr = errai.ParseProperties(content)
		f.Bindable = errai.BindableTypes(props)
	}
	if f.ParseErr != nil {
		log.Warningf("parsing %s: %s", path, f.ParseErr)
	}

	old := c.files[path]
	c.files[path] = f
	if kind == JavaFile || (old != nil && old.Kind == JavaFile) {
		c.rebuildClassesLocked()
	}
	if kind == PropertiesFile {
		c.rebuildBindableLocked()
	}
	return nil
}

func (c *Codebase) isKnownLocked(name string) bool {
	if _, ok := c.byName[name]; ok {
		return true
	}
	_, ok := c.library[name]
	return ok
}

func (c *Codebase) rebuildClassesLocked() {
	var all []*java.ClassModel
	byName := make(map[string]*java.ClassModel)
	for _, f := range c.sortedFilesLocked() {
		for _, cls := range f.Classes {
			all = append(all, cls)
			if _, dup := byName[cls.Name]; !dup {
				byName[cls.Name] = cls
			}
		}
	}
	c.classes = all
	c.byName = byName
}

func (c *Codebase) rebuildBindableLocked() {
	bindable := make(map[string]bool)
	for _, name := range c.config.BindableTypes {
		bindable[name] = true
	}
	for _, f := range c.files {
		for _, name := range f.Bindable {
			bindable[name] = true
		}
	}
	c.bindable = bindable
}

func (c *Codebase) sortedFilesLocked() []*FileInfo {
	files := make([]*FileInfo, 0, len(c.files))
	for _, f := range c.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.files[path]
	if f == nil {
		return
	}
	delete(c.files, path)
	switch f.Kind {
	case JavaFile:
		c.rebuildClassesLocked()
	case MarkupFile:
		c.fields.Evict(path)
	case PropertiesFile:
		c.rebuildBindableLocked()
	}
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the paths of the files of kind, sorted.
func (c *Codebase) Files(kind FileKind) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []string
	for p, f := range c.files {
		if f.Kind == kind {
			result = append(result, p)
		}
	}
	sort.Strings(result)
	return result
}

func (c *Codebase) Classes() []*java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

// FindClass looks up a project class first and a library stub second.
func (c *Codebase) FindClass(name string) *java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cls, ok := c.byName[name]; ok {
		return cls
	}
	return c.library[name]
}

func (c *Codebase) Markup(path string) *markup.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f := c.files[path]; f != nil && f.Kind == MarkupFile {
		return f.Markup
	}
	return nil
}

func (c *Codebase) MarkupFiles(dir string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var result []string
	for p, f := range c.files {
		if f.Kind == MarkupFile && path.Dir(p) == path.Clean(dir) {
			result = append(result, p)
		}
	}
	sort.Strings(result)
	return result
}

// Stamp returns the modification stamp of path, or zero for unknown files.
func (c *Codebase) Stamp(path string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f := c.files[path]; f != nil {
		return f.Stamp
	}
	return 0
}

func (c *Codebase) IsListedBindable(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bindable[name]
}

func (c *Codebase) FieldCache() *markup.FieldCache {
	return c.fields
}

var _ errai.Project = (*Codebase)(nil)
