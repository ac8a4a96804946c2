package refs

import (
	"path"
	"sort"
	"strings"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/binding"
	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/errai/template"
	"github.com/dhamidi/errai-ls/source"
)

type VariantKind int

const (
	VariantFile VariantKind = iota
	VariantField
	VariantProperty
)

// Variant is a completion candidate. Label replaces the whole text at Span.
type Variant struct {
	Kind   VariantKind
	Label  string
	Detail string
	Span   source.Span
}

// Variants returns the completion candidates at pos, sorted by label.
func (a *Adapter) Variants(file string, pos source.Position) []Variant {
	ctx := a.ContextAt(file, pos)
	var result []Variant
	switch ctx.Kind {
	case TemplateReference:
		result = a.templateVariants(ctx)
	case DataFieldValue:
		result = a.dataFieldVariants(ctx)
	case EventHandlerValue:
		result = a.eventHandlerVariants(ctx)
	case BoundProperty:
		result = a.propertyVariants(ctx)
	case MarkupDataField:
		result = a.markupVariants(ctx)
	default:
		return nil
	}
	span := ctx.Span()
	for i := range result {
		result[i].Span = span
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	log.Debugf("%d variants at %s:%d:%d", len(result), file, pos.Line, pos.Column)
	return result
}

// templateVariants lists the markup files next to the class and the
// file#node forms for their tagged nodes. Once a # has been typed only the
// nodes of that file are offered.
func (a *Adapter) templateVariants(ctx Context) []Variant {
	dir := path.Dir(ctx.Class.SourceFile)
	var files []string
	if name, _, ok := strings.Cut(ctx.Prefix(), naming.TemplateSeparator); ok {
		if name == "" {
			name = naming.DefaultTemplateReference(ctx.Class, a.templates.Extension()).FileName
		}
		files = []string{errai.Sibling(ctx.Class.SourceFile, name)}
	} else {
		files = a.project.MarkupFiles(dir)
	}

	var result []Variant
	for _, f := range files {
		base := path.Base(f)
		if !strings.Contains(ctx.Prefix(), naming.TemplateSeparator) {
			result = append(result, Variant{Kind: VariantFile, Label: base})
		}
		doc := a.project.Markup(f)
		if doc == nil {
			continue
		}
		for name, node := range a.project.FieldCache().FindOrCompute(doc, doc.Root, true) {
			ref := naming.TemplateReference{FileName: base, RootNodeName: name}
			result = append(result, Variant{Kind: VariantField, Label: ref.String(), Detail: "<" + node.Tag + ">"})
		}
	}
	return result
}

func (a *Adapter) dataFieldVariants(ctx Context) []Variant {
	meta := a.templates.Resolve(ctx.Class)
	if meta == nil {
		return nil
	}
	var result []Variant
	for name, node := range meta.TemplateFields() {
		result = append(result, Variant{Kind: VariantField, Label: name, Detail: "<" + node.Tag + ">"})
	}
	return result
}

func (a *Adapter) eventHandlerVariants(ctx Context) []Variant {
	meta := a.templates.Resolve(ctx.Class)
	if meta == nil {
		return nil
	}
	var result []Variant
	for _, entry := range meta.Fields() {
		v := Variant{Kind: VariantField, Label: entry.Name}
		switch {
		case entry.Declaration != nil:
			v.Detail = naming.SimpleName(entry.Declaration.Type().Name)
		case entry.Node != nil:
			v.Detail = "<" + entry.Node.Tag + ">"
		}
		result = append(result, v)
	}
	return result
}

// propertyVariants lists the properties below the path typed so far.
func (a *Adapter) propertyVariants(ctx Context) []Variant {
	meta := a.bindings.Binding(ctx.Class)
	if !meta.IsBound() {
		return nil
	}
	parent := ""
	if i := strings.LastIndexByte(ctx.Prefix(), '.'); i >= 0 {
		parent = ctx.Prefix()[:i]
	}
	props := a.bindings.Properties(meta.BoundClass, parent)
	var result []Variant
	for _, name := range binding.SortedNames(props) {
		result = append(result, Variant{Kind: VariantProperty, Label: name, Detail: props[name].Type.String()})
	}
	return result
}

// markupVariants lists the data-field names the classes of a template
// declare.
func (a *Adapter) markupVariants(ctx Context) []Variant {
	seen := make(map[string]bool)
	var result []Variant
	for _, class := range a.templates.ClassesForTemplate(ctx.File) {
		for _, r := range a.templates.DataFields(class) {
			name := template.FieldName(r)
			if seen[name] {
				continue
			}
			seen[name] = true
			result = append(result, Variant{Kind: VariantField, Label: name, Detail: r.Owner.Class.SimpleName})
		}
	}
	return result
}
