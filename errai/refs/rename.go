package refs

import (
	"sort"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/annotation"
	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/errai/template"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/markup"
	"github.com/dhamidi/errai-ls/source"
)

// Edit replaces the text at Span in File.
type Edit struct {
	File    string
	Span    source.Span
	NewText string
}

// CanRename returns the span of the renameable element at pos and its
// current text.
func (a *Adapter) CanRename(path string, pos source.Position) (source.Span, string, bool) {
	ctx := a.ContextAt(path, pos)
	switch ctx.Kind {
	case DataFieldValue, EventHandlerValue, MarkupDataField, DeclarationName:
		return ctx.Span(), ctx.Text(), true
	case AccessorName:
		if kind, _ := naming.SplitAccessor(ctx.Text()); kind != naming.NotAccessor {
			return ctx.Span(), ctx.Text(), true
		}
	case BoundProperty:
		index, span := tokenAt(ctx.Value.Text, ctx.Value.Span, ctx.Offset)
		if index < len(a.pathProperties(ctx.Class, ctx.Value.Text)) {
			return span, naming.SplitPath(ctx.Value.Text)[index], true
		}
	}
	return source.Span{}, "", false
}

// PrepareRenaming returns the edits that must accompany renaming the element
// at pos to newName. Renaming a data-field carries the markup attributes and
// the @DataField and @EventHandler literals along; renaming an accessor or
// a bound property carries the @Bound property paths and the other accessor
// along.
func (a *Adapter) PrepareRenaming(path string, pos source.Position, newName string) []Edit {
	ctx := a.ContextAt(path, pos)
	var edits []Edit
	switch ctx.Kind {
	case DataFieldValue, EventHandlerValue, DeclarationName:
		tc := template.TemplatedClass(a.project, ctx.Class)
		if tc == nil {
			return nil
		}
		name := ctx.Text()
		if ctx.Kind == DeclarationName {
			if v, ok := naming.AttributeText(ctx.Annotation, "value"); ok && v.Text != "" {
				return nil
			}
		}
		edits = a.dataFieldEdits(tc, name, newName)
	case MarkupDataField:
		for _, class := range a.templates.ClassesForTemplate(ctx.File) {
			edits = append(edits, a.dataFieldEdits(class, ctx.Attr.Value, newName)...)
		}
	case AccessorName:
		kind, _ := naming.SplitAccessor(ctx.Text())
		newKind, newProp := naming.SplitAccessor(newName)
		if kind == naming.NotAccessor || newKind == naming.NotAccessor {
			return nil
		}
		edits = a.propertyEdits(ctx.Class, ctx.Declaration.Method, newProp)
	case BoundProperty:
		props := a.pathProperties(ctx.Class, ctx.Value.Text)
		index, _ := tokenAt(ctx.Value.Text, ctx.Value.Span, ctx.Offset)
		if index >= len(props) {
			return nil
		}
		prop := props[index]
		m := prop.Getter
		if m == nil {
			m = prop.Setter
		}
		edits = a.propertyEdits(prop.Owner, m, newName)
	}
	return dedupe(edits)
}

// Rename returns the edit of the element at pos together with the edits
// PrepareRenaming reports.
func (a *Adapter) Rename(path string, pos source.Position, newName string) []Edit {
	span, _, ok := a.CanRename(path, pos)
	if !ok {
		return nil
	}
	edits := append([]Edit{{File: path, Span: span, NewText: newName}}, a.PrepareRenaming(path, pos, newName)...)
	return dedupe(edits)
}

// dataFieldEdits renames the data-field name of the templated class tc.
// Declarations binding the name implicitly are renamed as well.
func (a *Adapter) dataFieldEdits(tc *java.ClassModel, name, newName string) []Edit {
	var edits []Edit
	meta := a.templates.Resolve(tc)
	if meta != nil && meta.RootNode != nil {
		attr := a.project.FieldCache().Attribute()
		meta.RootNode.Walk(func(n *markup.Node) bool {
			if at := n.Attr(attr); at != nil && at.HasValue && at.Value == name {
				edits = append(edits, Edit{File: meta.Path, Span: at.ValueSpan, NewText: newName})
			}
			return true
		})
	}

	for _, r := range a.templates.DataFields(tc) {
		if template.FieldName(r) != name {
			continue
		}
		if v, ok := naming.AttributeText(r.Annotation, "value"); ok && v.Text != "" {
			edits = append(edits, Edit{File: r.Owner.File(), Span: v.Span, NewText: newName})
		} else {
			edits = append(edits, Edit{File: r.Owner.File(), Span: r.Owner.NameSpan(), NewText: newName})
		}
	}

	for _, r := range annotation.FindAll(a.project, tc, errai.EventHandler) {
		v, ok := r.Annotation.Value("value")
		if !ok {
			continue
		}
		for _, s := range v.Strings() {
			if s.Text == name {
				edits = append(edits, Edit{File: r.Owner.File(), Span: s.Span, NewText: newName})
			}
		}
	}
	return edits
}

// propertyEdits renames the bean property accessed by m, declared in the
// hierarchy of owner, to newProp: the @Bound path tokens that resolve to it
// and the accessors of the property.
func (a *Adapter) propertyEdits(owner *java.ClassModel, m *java.MethodModel, newProp string) []Edit {
	if m == nil {
		return nil
	}
	targets := map[*java.MethodModel]bool{m: true}
	var edits []Edit
	if prop := a.bindings.Property(owner, naming.PropertyName(m.Name)); prop != nil {
		for _, accessor := range []*java.MethodModel{prop.Getter, prop.Setter} {
			if accessor == nil {
				continue
			}
			targets[accessor] = true
			c := methodClass(a.project, owner, accessor)
			if c == nil || c.IsLibrary {
				continue
			}
			kind, _ := naming.SplitAccessor(accessor.Name)
			edits = append(edits, Edit{File: c.SourceFile, Span: accessor.NameSpan, NewText: naming.AccessorName(kind, newProp)})
		}
	}

	for _, class := range a.project.Classes() {
		if !a.bindings.Binding(class).IsBound() {
			continue
		}
		for _, r := range annotation.FindAll(a.project, class, errai.Bound) {
			if r.Owner.Class != class {
				continue
			}
			v, ok := naming.AttributeText(r.Annotation, "property")
			if !ok || v.Text == "" {
				continue
			}
			spans := tokenSpans(v.Text, v.Span)
			for i, p := range a.pathProperties(class, v.Text) {
				if (p.Getter != nil && targets[p.Getter]) || (p.Setter != nil && targets[p.Setter]) {
					edits = append(edits, Edit{File: class.SourceFile, Span: spans[i], NewText: newProp})
				}
			}
		}
	}
	log.Debugf("renaming property of %s to %q touches %d places", m.Name, newProp, len(edits))
	return edits
}

func dedupe(edits []Edit) []Edit {
	seen := make(map[Edit]bool)
	var result []Edit
	for _, e := range edits {
		key := Edit{File: e.File, Span: e.Span}
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].File != result[j].File {
			return result[i].File < result[j].File
		}
		return result[i].Span.Start.Before(result[j].Span.Start)
	})
	return result
}
