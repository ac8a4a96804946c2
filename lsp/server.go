// Package lsp serves the project services over the Language Server
// Protocol.
package lsp

import (
	"context"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/errai-ls/java/codebase"
	"github.com/dhamidi/errai-ls/project"
	"github.com/dhamidi/errai-ls/source"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "errai-ls"

var log = commonlog.GetLogger("errai-ls.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string
	watch   bool

	mu      sync.Mutex
	project *project.Project
	watcher *codebase.FileWatcher
	open    map[string]bool
}

type Option func(*Server)

// WithWatcher polls the project directory for changes made outside the
// editor.
func WithWatcher(watch bool) Option {
	return func(s *Server) { s.watch = watch }
}

func NewServer(version string, opts ...Option) *Server {
	s := &Server{
		version: version,
		open:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handler = protocol.Handler{
		Initialize:                s.initialize,
		Initialized:               s.initialized,
		Shutdown:                  s.shutdown,
		SetTrace:                  s.setTrace,
		TextDocumentDidOpen:       s.textDocumentDidOpen,
		TextDocumentDidChange:     s.textDocumentDidChange,
		TextDocumentDidClose:      s.textDocumentDidClose,
		TextDocumentDidSave:       s.textDocumentDidSave,
		TextDocumentCompletion:    s.textDocumentCompletion,
		TextDocumentDefinition:    s.textDocumentDefinition,
		TextDocumentRename:        s.textDocumentRename,
		TextDocumentPrepareRename: s.textDocumentPrepareRename,
	}

	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	p, err := project.LoadFrom(context.Background(), rootDir)
	if err != nil {
		log.Errorf("loading %s: %s", rootDir, err)
		return nil, err
	}
	s.mu.Lock()
	s.project = p
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{`"`, ".", "#"},
	}
	capabilities.DefinitionProvider = true
	capabilities.RenameProvider = protocol.RenameOptions{PrepareProvider: boolPtr(true)}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	p := s.current()
	if p == nil {
		return nil
	}
	s.publish(ctx, p.Codebase.Files(codebase.JavaFile))

	if s.watch {
		w := codebase.NewFileWatcher(p.Codebase)
		w.Ignore = s.isOpen
		w.OnChange = func(paths []string) {
			var affected []string
			for _, path := range paths {
				affected = append(affected, p.AffectedFiles(path)...)
			}
			s.publish(ctx, affected)
		}
		w.Start()
		s.mu.Lock()
		s.watcher = w
		s.mu.Unlock()
	}
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		s.watcher.Stop()
		s.watcher = nil
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) current() *project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

func (s *Server) isOpen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[path]
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	s.open[path] = true
	s.mu.Unlock()
	s.update(ctx, path, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	delete(s.open, path)
	s.mu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		s.update(ctx, path, []byte(*params.Text))
		return nil
	}
	p := s.current()
	if p == nil {
		return nil
	}
	if err := p.Codebase.ScanFile(context.Background(), path); err != nil {
		log.Warningf("rescanning %s: %s", path, err)
		return nil
	}
	s.publish(ctx, p.AffectedFiles(path))
	return nil
}

func (s *Server) update(ctx *glsp.Context, path string, content []byte) {
	p := s.current()
	if p == nil {
		return
	}
	if err := p.Codebase.UpdateFile(path, content); err != nil {
		log.Warningf("updating %s: %s", path, err)
		return
	}
	s.publish(ctx, p.AffectedFiles(path))
}

// lines returns the line index of the current content of path.
func (s *Server) lines(path string) *source.LineIndex {
	p := s.current()
	if p == nil {
		return nil
	}
	f := p.Codebase.GetFile(path)
	if f == nil {
		return nil
	}
	return source.NewLineIndex(f.Content)
}

// publish sends the problems of each Java file in paths, an empty list
// clearing earlier ones.
func (s *Server) publish(ctx *glsp.Context, paths []string) {
	p := s.current()
	if p == nil {
		return
	}
	for _, path := range paths {
		params := protocol.PublishDiagnosticsParams{
			URI:         pathToURI(path),
			Diagnostics: toDiagnostics(s.lines(path), p.Inspector.InspectFile(path)),
		}
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, params)
	}
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	p := s.current()
	path, err := uriToPath(params.TextDocument.URI)
	if p == nil || err != nil {
		return nil, nil
	}
	lines := s.lines(path)
	variants := p.Refs.Variants(path, toPosition(lines, params.Position))
	if len(variants) == 0 {
		return nil, nil
	}
	return toCompletionItems(lines, variants), nil
}

func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	p := s.current()
	path, err := uriToPath(params.TextDocument.URI)
	if p == nil || err != nil {
		return nil, nil
	}
	targets := p.Refs.Resolve(path, toPosition(s.lines(path), params.Position))
	if len(targets) == 0 {
		return nil, nil
	}
	return toLocations(s.lines, targets), nil
}

func (s *Server) textDocumentPrepareRename(ctx *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	p := s.current()
	path, err := uriToPath(params.TextDocument.URI)
	if p == nil || err != nil {
		return nil, nil
	}
	lines := s.lines(path)
	span, _, ok := p.Refs.CanRename(path, toPosition(lines, params.Position))
	if !ok {
		return nil, nil
	}
	return toRange(lines, span), nil
}

func (s *Server) textDocumentRename(ctx *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	p := s.current()
	path, err := uriToPath(params.TextDocument.URI)
	if p == nil || err != nil {
		return nil, nil
	}
	edits := p.Refs.Rename(path, toPosition(s.lines(path), params.Position), params.NewName)
	if len(edits) == 0 {
		return nil, nil
	}
	return toWorkspaceEdit(s.lines, edits), nil
}
