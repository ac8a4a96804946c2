// Package binding resolves the data binding of templated classes: which
// model type a class is bound to, the bean properties of that model and
// whether a property can be bound to a given widget.
package binding

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/annotation"
	"github.com/dhamidi/errai-ls/errai/cache"
	"github.com/dhamidi/errai-ls/java"
)

var log = commonlog.GetLogger("errai-ls.binding")

// MetaData describes the model binding of one class.
type MetaData struct {
	TemplateClass *java.ClassModel
	// BoundType is the erased model type name when exactly one model
	// annotation was found. BoundClass is its model, nil when the type is
	// unknown.
	BoundType  string
	BoundClass *java.ClassModel
	// Annotations holds every @AutoBound and @Model site.
	Annotations []annotation.SearchResult
	Stamp       int64
}

func (m *MetaData) IsBound() bool {
	return m != nil && m.BoundClass != nil
}

func (m *MetaData) IsAmbiguous() bool {
	return m != nil && len(m.Annotations) > 1
}

type Resolver struct {
	project  errai.Project
	bindings cache.Cache[string, *MetaData]
}

func NewResolver(project errai.Project) *Resolver {
	return &Resolver{project: project}
}

// Binding returns the model binding of class. Results are cached while the
// class hierarchy and the bound model class are unchanged; unbound results
// are always recomputed so a model class appearing later is picked up.
func (r *Resolver) Binding(class *java.ClassModel) *MetaData {
	if class == nil {
		return &MetaData{}
	}
	stamp := errai.HierarchyStamp(r.project, class)
	if meta, ok := r.bindings.Lookup(class.Name, stamp, class); ok && meta.IsBound() &&
		r.project.FindClass(meta.BoundType) == meta.BoundClass {
		return meta
	}

	meta := &MetaData{TemplateClass: class, Stamp: stamp}
	meta.Annotations = append(meta.Annotations, annotation.FindAll(r.project, class, errai.AutoBound)...)
	meta.Annotations = append(meta.Annotations, annotation.FindAll(r.project, class, errai.Model)...)
	if len(meta.Annotations) == 1 {
		meta.BoundType = boundType(meta.Annotations[0])
		if meta.BoundType != "" {
			meta.BoundClass = r.project.FindClass(meta.BoundType)
		}
	}
	log.Debugf("binding of %s: %q (%d model annotations)", class.Name, meta.BoundType, len(meta.Annotations))
	r.bindings.Store(class.Name, stamp, class, meta)
	return meta
}

// boundType reads the model type off a model annotation site: the type
// argument of an @AutoBound DataBinder<T>, or the declared type of a @Model.
func boundType(site annotation.SearchResult) string {
	t := site.Owner.Type()
	if site.Annotation.Type == errai.Model {
		return t.Name
	}
	arg, ok := t.FirstTypeArgument()
	if !ok {
		return ""
	}
	return arg.Name
}

// IsBindable reports whether class is a valid binding model: it carries
// @Bindable or is listed in the project's bindable types.
func (r *Resolver) IsBindable(class *java.ClassModel) bool {
	if class == nil {
		return false
	}
	return class.Annotation(errai.Bindable) != nil || r.project.IsListedBindable(class.Name)
}

// IsBindableType is IsBindable by name, for types the project may not know.
func (r *Resolver) IsBindableType(name string) bool {
	if c := r.project.FindClass(name); c != nil {
		return r.IsBindable(c)
	}
	return r.project.IsListedBindable(name)
}
