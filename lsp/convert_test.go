package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/errai-ls/errai/inspect"
	"github.com/dhamidi/errai-ls/errai/refs"
	"github.com/dhamidi/errai-ls/source"
)

func span(l1, c1, l2, c2 int) source.Span {
	return source.Span{
		Start: source.Position{Line: l1, Column: c1},
		End:   source.Position{Line: l2, Column: c2},
	}
}

func TestURIRoundTrip(t *testing.T) {
	uri := pathToURI("/home/me/my project/View.java")
	assert.Equal(t, "file:///home/me/my%20project/View.java", string(uri))

	path, err := uriToPath(string(uri))
	require.NoError(t, err)
	assert.Equal(t, "/home/me/my project/View.java", path)

	path, err = uriToPath("/plain/path.java")
	require.NoError(t, err)
	assert.Equal(t, "/plain/path.java", path)
}

func TestToDiagnostics(t *testing.T) {
	diagnostics := toDiagnostics(nil, []inspect.Problem{
		{Span: span(3, 4, 3, 9), Severity: inspect.SeverityError, Code: inspect.TemplateNotFound, Message: "missing"},
		{Span: span(5, 0, 5, 2), Severity: inspect.SeverityWarning, Code: inspect.BindabilityMismatch, Message: "mismatch"},
	})
	require.Len(t, diagnostics, 2)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diagnostics[0].Severity)
	assert.Equal(t, protocol.UInteger(3), diagnostics[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(9), diagnostics[0].Range.End.Character)
	assert.Equal(t, "TemplateNotFound", diagnostics[0].Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *diagnostics[1].Severity)
	assert.Equal(t, "mismatch", diagnostics[1].Message)

	assert.NotNil(t, toDiagnostics(nil, nil))
}

func TestToWorkspaceEdit(t *testing.T) {
	noLines := func(string) *source.LineIndex { return nil }
	edit := toWorkspaceEdit(noLines, []refs.Edit{
		{File: "/p/View.html", Span: span(1, 2, 1, 5), NewText: "new"},
		{File: "/p/View.java", Span: span(4, 1, 4, 4), NewText: "new"},
		{File: "/p/View.java", Span: span(8, 1, 8, 4), NewText: "new"},
	})
	require.Len(t, edit.Changes, 2)
	assert.Len(t, edit.Changes["file:///p/View.java"], 2)
	assert.Equal(t, "new", edit.Changes["file:///p/View.html"][0].NewText)
}

func TestToCompletionItems(t *testing.T) {
	items := toCompletionItems(nil, []refs.Variant{
		{Kind: refs.VariantFile, Label: "View.html", Span: span(2, 11, 2, 15)},
		{Kind: refs.VariantProperty, Label: "address.zip", Detail: "java.lang.String", Span: span(3, 1, 3, 3)},
	})
	require.Len(t, items, 2)
	assert.Equal(t, protocol.CompletionItemKindFile, *items[0].Kind)
	assert.Nil(t, items[0].Detail)
	assert.Equal(t, "java.lang.String", *items[1].Detail)
	textEdit, ok := items[1].TextEdit.(protocol.TextEdit)
	require.True(t, ok)
	assert.Equal(t, "address.zip", textEdit.NewText)
	assert.Equal(t, protocol.UInteger(3), textEdit.Range.End.Character)
}

func TestPositionsCountUTF16Units(t *testing.T) {
	lines := source.NewLineIndex([]byte("<p title=\"café\" data-field=\"name\">"))

	// "name" starts at byte 29 and UTF-16 unit 28.
	r := toRange(lines, span(0, 29, 0, 33))
	assert.Equal(t, protocol.UInteger(28), r.Start.Character)
	assert.Equal(t, protocol.UInteger(32), r.End.Character)

	pos := toPosition(lines, protocol.Position{Line: 0, Character: 28})
	assert.Equal(t, source.Position{Line: 0, Column: 29}, pos)

	assert.Equal(t, protocol.UInteger(29), toRange(nil, span(0, 29, 0, 33)).Start.Character)
}
