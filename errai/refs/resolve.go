package refs

import (
	"strings"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/annotation"
	"github.com/dhamidi/errai-ls/errai/binding"
	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/source"
)

type TargetKind int

const (
	TargetFile TargetKind = iota
	TargetNode
	TargetDeclaration
)

// Target is a location a reference resolves to. Span is zero for whole
// files.
type Target struct {
	Kind TargetKind
	File string
	Span source.Span
	Name string
}

// Resolve returns the targets of the reference at pos. It returns nil when
// there is no reference or it does not resolve.
func (a *Adapter) Resolve(path string, pos source.Position) []Target {
	ctx := a.ContextAt(path, pos)
	switch ctx.Kind {
	case TemplateReference:
		return a.resolveTemplate(ctx)
	case DataFieldValue:
		return a.resolveDataField(ctx)
	case EventHandlerValue:
		return a.resolveEventHandler(ctx)
	case BoundProperty:
		return a.resolveBoundProperty(ctx)
	case MarkupDataField:
		return a.resolveMarkupDataField(ctx)
	}
	return nil
}

func (a *Adapter) resolveTemplate(ctx Context) []Target {
	meta := a.templates.Resolve(ctx.Class)
	if meta == nil || meta.MarkupFile == nil {
		return nil
	}
	if i := strings.Index(ctx.Value.Text, naming.TemplateSeparator); i >= 0 && ctx.Offset > i {
		if meta.RootNode == nil {
			return nil
		}
		return []Target{nodeTarget(meta.Path, meta.RootNode.TagSpan, meta.Reference.RootNodeName)}
	}
	return []Target{{Kind: TargetFile, File: meta.Path, Name: meta.Reference.FileName}}
}

func (a *Adapter) resolveDataField(ctx Context) []Target {
	meta := a.templates.Resolve(ctx.Class)
	if meta == nil {
		return nil
	}
	node := meta.TemplateFields()[ctx.Value.Text]
	if node == nil {
		return nil
	}
	return []Target{nodeTarget(meta.Path, node.TagSpan, ctx.Value.Text)}
}

func (a *Adapter) resolveEventHandler(ctx Context) []Target {
	meta := a.templates.Resolve(ctx.Class)
	if meta == nil {
		return nil
	}
	entry := meta.Fields()[ctx.Value.Text]
	if entry == nil {
		return nil
	}
	var result []Target
	if entry.Declaration != nil {
		result = append(result, declarationTarget(entry.Declaration))
	}
	if entry.Node != nil {
		result = append(result, nodeTarget(meta.Path, entry.Node.TagSpan, entry.Name))
	}
	return result
}

func (a *Adapter) resolveBoundProperty(ctx Context) []Target {
	props := a.pathProperties(ctx.Class, ctx.Value.Text)
	index, _ := tokenAt(ctx.Value.Text, ctx.Value.Span, ctx.Offset)
	if index >= len(props) {
		return nil
	}
	prop := props[index]
	var result []Target
	for _, m := range []*java.MethodModel{prop.Getter, prop.Setter} {
		if m == nil {
			continue
		}
		if owner := methodClass(a.project, prop.Owner, m); owner != nil {
			result = append(result, Target{Kind: TargetDeclaration, File: owner.SourceFile, Span: m.NameSpan, Name: m.Name})
		}
	}
	return result
}

func (a *Adapter) resolveMarkupDataField(ctx Context) []Target {
	name := ctx.Attr.Value
	var result []Target
	for _, class := range a.templates.ClassesForTemplate(ctx.File) {
		meta := a.templates.Resolve(class)
		if entry := meta.Fields()[name]; entry != nil && entry.DeclaredInClass {
			result = append(result, declarationTarget(entry.Declaration))
		}
		for _, r := range eventHandlers(a.project, class, name) {
			result = append(result, declarationTarget(r.Owner))
		}
	}
	return result
}

// pathProperties resolves the tokens of path against the model bound in
// class, stopping at the first token that does not resolve or whose parent
// is not bindable.
func (a *Adapter) pathProperties(class *java.ClassModel, path string) []*binding.PropertyInfo {
	meta := a.bindings.Binding(class)
	if !meta.IsBound() {
		return nil
	}
	return a.bindings.ResolvePath(meta.BoundClass, path).Path
}

// eventHandlers returns the @EventHandler methods of class naming the
// data-field name.
func eventHandlers(lookup java.ClassLookup, class *java.ClassModel, name string) []annotation.SearchResult {
	var result []annotation.SearchResult
	for _, r := range annotation.FindAll(lookup, class, errai.EventHandler) {
		v, ok := r.Annotation.Value("value")
		if !ok {
			continue
		}
		for _, s := range v.Strings() {
			if s.Text == name {
				result = append(result, r)
				break
			}
		}
	}
	return result
}

// methodClass returns the class in the hierarchy of class declaring m.
func methodClass(lookup java.ClassLookup, class *java.ClassModel, m *java.MethodModel) *java.ClassModel {
	for _, c := range java.Hierarchy(lookup, class) {
		for i := range c.Methods {
			if &c.Methods[i] == m {
				return c
			}
		}
	}
	return nil
}

func nodeTarget(file string, span source.Span, name string) Target {
	return Target{Kind: TargetNode, File: file, Span: span, Name: name}
}

func declarationTarget(d *annotation.Declaration) Target {
	return Target{Kind: TargetDeclaration, File: d.File(), Span: d.NameSpan(), Name: d.Name()}
}
