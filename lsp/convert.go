package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/errai-ls/errai/inspect"
	"github.com/dhamidi/errai-ls/errai/refs"
	"github.com/dhamidi/errai-ls/source"
)

// The protocol counts columns in UTF-16 code units and the codebase in
// bytes. A nil line index passes columns through unchanged.

// lineIndexes returns the line index of a file, or nil for unknown files.
type lineIndexes func(path string) *source.LineIndex

func toPosition(lines *source.LineIndex, p protocol.Position) source.Position {
	pos := source.Position{Line: int(p.Line), Column: int(p.Character)}
	if lines == nil {
		return pos
	}
	return lines.FromUTF16(pos)
}

func fromPosition(lines *source.LineIndex, p source.Position) protocol.Position {
	if lines != nil {
		p = lines.ToUTF16(p)
	}
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(p.Column)}
}

func toRange(lines *source.LineIndex, span source.Span) protocol.Range {
	return protocol.Range{Start: fromPosition(lines, span.Start), End: fromPosition(lines, span.End)}
}

func toLocations(index lineIndexes, targets []refs.Target) []protocol.Location {
	locations := make([]protocol.Location, 0, len(targets))
	for _, t := range targets {
		locations = append(locations, protocol.Location{URI: pathToURI(t.File), Range: toRange(index(t.File), t.Span)})
	}
	return locations
}

func toCompletionItems(lines *source.LineIndex, variants []refs.Variant) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(variants))
	for _, v := range variants {
		kind := toProtocolKind(v.Kind)
		item := protocol.CompletionItem{
			Label: v.Label,
			Kind:  &kind,
			TextEdit: protocol.TextEdit{
				Range:   toRange(lines, v.Span),
				NewText: v.Label,
			},
		}
		if v.Detail != "" {
			detail := v.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items
}

func toProtocolKind(kind refs.VariantKind) protocol.CompletionItemKind {
	switch kind {
	case refs.VariantFile:
		return protocol.CompletionItemKindFile
	case refs.VariantField:
		return protocol.CompletionItemKindField
	case refs.VariantProperty:
		return protocol.CompletionItemKindProperty
	default:
		return protocol.CompletionItemKindText
	}
}

func toWorkspaceEdit(index lineIndexes, edits []refs.Edit) *protocol.WorkspaceEdit {
	changes := make(map[protocol.DocumentUri][]protocol.TextEdit)
	for _, e := range edits {
		uri := pathToURI(e.File)
		changes[uri] = append(changes[uri], protocol.TextEdit{Range: toRange(index(e.File), e.Span), NewText: e.NewText})
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}

func toDiagnostics(lines *source.LineIndex, problems []inspect.Problem) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(problems))
	for _, p := range problems {
		severity := protocol.DiagnosticSeverityError
		if p.Severity == inspect.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		src := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(lines, p.Span),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: p.Code.String()},
			Source:   &src,
			Message:  p.Message,
		})
	}
	return diagnostics
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentUri(u.String())
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
