// Package refs answers editor requests at a position: where a reference
// points to, which values complete it and which edits a rename implies.
package refs

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/annotation"
	"github.com/dhamidi/errai-ls/errai/binding"
	"github.com/dhamidi/errai-ls/errai/template"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/markup"
	"github.com/dhamidi/errai-ls/source"
)

var log = commonlog.GetLogger("errai-ls.refs")

type ContextKind int

const (
	NoContext ContextKind = iota
	// TemplateReference is the value of @Templated.
	TemplateReference
	// DataFieldValue is the value of @DataField.
	DataFieldValue
	// EventHandlerValue is one of the names of @EventHandler.
	EventHandlerValue
	// BoundProperty is the property path of @Bound.
	BoundProperty
	// MarkupDataField is the value of a data-field attribute in a template.
	MarkupDataField
	// DeclarationName is the name of a field or parameter carrying @DataField.
	DeclarationName
	// AccessorName is the name of a method.
	AccessorName
)

// Context describes what is at a position.
type Context struct {
	Kind ContextKind
	File string

	// Java contexts.
	Class       *java.ClassModel
	Declaration *annotation.Declaration
	Annotation  *java.AnnotationModel
	Value       java.AnnotationValue
	// Offset is the cursor position within Value.Text.
	Offset int

	// Markup contexts.
	Document *markup.Document
	Node     *markup.Node
	Attr     *markup.Attr
}

// Span returns the span of the text the context covers.
func (c Context) Span() source.Span {
	switch c.Kind {
	case MarkupDataField:
		return c.Attr.ValueSpan
	case DeclarationName, AccessorName:
		return c.Declaration.NameSpan()
	}
	return c.Value.Span
}

// Text returns the text the context covers.
func (c Context) Text() string {
	switch c.Kind {
	case MarkupDataField:
		return c.Attr.Value
	case DeclarationName, AccessorName:
		return c.Declaration.Name()
	}
	return c.Value.Text
}

// Prefix returns the covered text up to the cursor.
func (c Context) Prefix() string {
	text := c.Text()
	if c.Offset > len(text) {
		return text
	}
	return text[:c.Offset]
}

type Adapter struct {
	project   errai.Project
	templates *template.Resolver
	bindings  *binding.Resolver
}

func New(project errai.Project, templates *template.Resolver, bindings *binding.Resolver) *Adapter {
	return &Adapter{project: project, templates: templates, bindings: bindings}
}

// ContextAt classifies the position pos of the file at path.
func (a *Adapter) ContextAt(path string, pos source.Position) Context {
	if doc := a.project.Markup(path); doc != nil {
		return a.markupContext(doc, pos)
	}
	for _, class := range a.project.Classes() {
		if class.SourceFile != path || !class.Span.Contains(pos) {
			continue
		}
		if ctx, ok := a.javaContext(class, pos); ok {
			return ctx
		}
	}
	return Context{File: path}
}

func (a *Adapter) markupContext(doc *markup.Document, pos source.Position) Context {
	ctx := Context{File: doc.Path, Document: doc}
	node, attr := doc.AttrAt(pos)
	if attr == nil || attr.Key != a.project.FieldCache().Attribute() || !attr.ValueSpan.Contains(pos) {
		return ctx
	}
	ctx.Kind = MarkupDataField
	ctx.Node = node
	ctx.Attr = attr
	ctx.Offset = offsetIn(attr.ValueSpan, pos, len(attr.Value))
	return ctx
}

func (a *Adapter) javaContext(class *java.ClassModel, pos source.Position) (Context, bool) {
	for _, d := range declarations(class) {
		anns := d.Annotations()
		for i := range anns {
			ann := &anns[i]
			kind, name := valueKind(ann.Type)
			if kind == NoContext {
				continue
			}
			v, ok := ann.Value(name)
			if !ok {
				continue
			}
			for _, s := range v.Strings() {
				if !s.Span.Contains(pos) {
					continue
				}
				return Context{
					Kind:        kind,
					File:        class.SourceFile,
					Class:       class,
					Declaration: d,
					Annotation:  ann,
					Value:       s,
					Offset:      offsetIn(s.Span, pos, len(s.Text)),
				}, true
			}
		}
		if !d.NameSpan().Contains(pos) {
			continue
		}
		ctx := Context{File: class.SourceFile, Class: class, Declaration: d}
		switch {
		case d.Kind == annotation.KindMethod:
			ctx.Kind = AccessorName
		case d.Kind == annotation.KindField || d.Kind == annotation.KindParameter:
			ann := d.Annotation(errai.DataField)
			if ann == nil {
				continue
			}
			ctx.Kind = DeclarationName
			ctx.Annotation = ann
		default:
			continue
		}
		ctx.Offset = offsetIn(d.NameSpan(), pos, len(d.Name()))
		return ctx, true
	}
	return Context{}, false
}

func valueKind(annotationType string) (ContextKind, string) {
	switch annotationType {
	case errai.Templated:
		return TemplateReference, "value"
	case errai.DataField:
		return DataFieldValue, "value"
	case errai.EventHandler:
		return EventHandlerValue, "value"
	case errai.Bound:
		return BoundProperty, "property"
	}
	return NoContext, ""
}

// declarations lists the declarations written in class itself: the class,
// its fields, its methods and constructors, and their parameters.
func declarations(class *java.ClassModel) []*annotation.Declaration {
	result := []*annotation.Declaration{{Kind: annotation.KindClass, Class: class}}
	for i := range class.Fields {
		result = append(result, &annotation.Declaration{Kind: annotation.KindField, Class: class, Field: &class.Fields[i]})
	}
	for i := range class.Methods {
		m := &class.Methods[i]
		kind := annotation.KindMethod
		if m.IsConstructor() {
			kind = annotation.KindConstructor
		}
		result = append(result, &annotation.Declaration{Kind: kind, Class: class, Method: m})
		for j := range m.Parameters {
			result = append(result, &annotation.Declaration{
				Kind:       annotation.KindParameter,
				Class:      class,
				Method:     m,
				Parameter:  &m.Parameters[j],
				ParamIndex: j,
			})
		}
	}
	return result
}

// offsetIn converts pos to an offset into the single-line text covered by
// span.
func offsetIn(span source.Span, pos source.Position, length int) int {
	if pos.Line != span.Start.Line {
		if pos.Line > span.Start.Line {
			return length
		}
		return 0
	}
	off := pos.Column - span.Start.Column
	if off < 0 {
		return 0
	}
	if off > length {
		return length
	}
	return off
}

// tokenAt returns the index of the path token containing offset and the
// span of that token within span.
func tokenAt(path string, span source.Span, offset int) (int, source.Span) {
	index, start := 0, 0
	for i := 0; i < len(path); i++ {
		if path[i] != '.' {
			continue
		}
		if offset <= i {
			break
		}
		index++
		start = i + 1
	}
	end := len(path)
	for i := start; i < len(path); i++ {
		if path[i] == '.' {
			end = i
			break
		}
	}
	return index, columnSpan(span, start, end)
}

func columnSpan(span source.Span, start, end int) source.Span {
	if span.Start.Line != span.End.Line {
		return span
	}
	line := span.Start.Line
	col := span.Start.Column
	return source.Span{
		Start: source.Position{Line: line, Column: col + start},
		End:   source.Position{Line: line, Column: col + end},
	}
}

// tokenSpans returns the span of every token of the single-line path
// literal covered by span.
func tokenSpans(path string, span source.Span) []source.Span {
	var result []source.Span
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			result = append(result, columnSpan(span, start, i))
			start = i + 1
		}
	}
	return result
}
