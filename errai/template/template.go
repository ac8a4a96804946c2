// Package template resolves the markup template of an Errai UI templated
// class and merges its data-field elements with the class's @DataField
// declarations.
package template

import (
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/annotation"
	"github.com/dhamidi/errai-ls/errai/cache"
	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/markup"
)

var log = commonlog.GetLogger("errai-ls.template")

// MetaData is the outcome of resolving one templated class. MarkupFile is nil
// when the template file does not exist and RootNode is nil when the named
// root element does not.
type MetaData struct {
	Reference          naming.TemplateReference
	IsDefaultReference bool
	// SourceAttribute is the @Templated value the reference was read from;
	// nil for default references.
	SourceAttribute *java.AnnotationValue
	Annotation      *java.AnnotationModel
	TemplateClass   *java.ClassModel
	// Path is where the template file is expected, whether or not it exists.
	Path       string
	MarkupFile *markup.Document
	RootNode   *markup.Node

	resolver *Resolver
}

// FieldEntry is one name of the consolidated data-field index. Declaration
// is nil for names that only appear in the markup; Node is nil for names
// that only appear in the class.
type FieldEntry struct {
	Name            string
	DeclaringClass  string
	Declaration     *annotation.Declaration
	Annotation      *java.AnnotationModel
	Node            *markup.Node
	DeclaredInClass bool
}

type Resolver struct {
	project   errai.Project
	extension string
	dataField cache.Cache[string, []annotation.SearchResult]
}

func NewResolver(project errai.Project, extension string) *Resolver {
	if extension == "" {
		extension = ".html"
	}
	return &Resolver{project: project, extension: extension}
}

func (r *Resolver) Project() errai.Project {
	return r.project
}

// Extension is the file extension of default template references.
func (r *Resolver) Extension() string {
	return r.extension
}

// TemplatedClass returns class or the nearest enclosing class carrying
// @Templated, or nil.
func TemplatedClass(lookup java.ClassLookup, class *java.ClassModel) *java.ClassModel {
	seen := make(map[string]bool)
	for c := class; c != nil && !seen[c.Name]; c = lookup.FindClass(c.EnclosingClass) {
		seen[c.Name] = true
		if c.Annotation(errai.Templated) != nil {
			return c
		}
		if c.EnclosingClass == "" {
			break
		}
	}
	return nil
}

// Resolve locates the template of class. It returns nil when neither class
// nor an enclosing class is templated.
func (r *Resolver) Resolve(class *java.ClassModel) *MetaData {
	tc := TemplatedClass(r.project, class)
	if tc == nil {
		return nil
	}
	meta := &MetaData{
		Annotation:    tc.Annotation(errai.Templated),
		TemplateClass: tc,
		resolver:      r,
	}

	if v, ok := naming.AttributeText(meta.Annotation, "value"); ok && v.Text != "" {
		meta.SourceAttribute = &v
		meta.Reference = naming.ParseTemplateReference(v.Text)
		if meta.Reference.FileName == "" {
			meta.Reference.FileName = naming.DefaultTemplateReference(tc, r.extension).FileName
		}
	} else {
		meta.IsDefaultReference = true
		meta.Reference = naming.DefaultTemplateReference(tc, r.extension)
	}

	meta.Path = errai.Sibling(tc.SourceFile, meta.Reference.FileName)
	meta.MarkupFile = r.project.Markup(meta.Path)
	if meta.MarkupFile == nil {
		log.Debugf("template %s of %s not found", meta.Path, tc.Name)
		return meta
	}

	if meta.Reference.RootNodeName == "" {
		meta.RootNode = meta.MarkupFile.RootElement()
		return meta
	}
	all := r.project.FieldCache().FindOrCompute(meta.MarkupFile, meta.MarkupFile.Root, true)
	meta.RootNode = all[meta.Reference.RootNodeName]
	if meta.RootNode == nil {
		log.Debugf("root node %q not found in %s", meta.Reference.RootNodeName, meta.Path)
	}
	return meta
}

// DataFields returns the @DataField declarations of class and its
// supertypes, cached per hierarchy stamp.
func (r *Resolver) DataFields(class *java.ClassModel) []annotation.SearchResult {
	if class == nil {
		return []annotation.SearchResult{}
	}
	stamp := errai.HierarchyStamp(r.project, class)
	return r.dataField.FindOrCompute(class.Name, stamp, class, func() []annotation.SearchResult {
		return annotation.FindAll(r.project, class, errai.DataField)
	})
}

// FieldName returns the data-field name a declaration is bound to: the
// annotation value when given, the declared name otherwise.
func FieldName(result annotation.SearchResult) string {
	if v, ok := naming.AttributeText(result.Annotation, "value"); ok && v.Text != "" {
		return v.Text
	}
	return result.Owner.Name()
}

// TemplateFields returns the data-field elements below the root node,
// excluding the root node itself.
func (m *MetaData) TemplateFields() map[string]*markup.Node {
	if m.MarkupFile == nil || m.RootNode == nil {
		return map[string]*markup.Node{}
	}
	return m.resolver.project.FieldCache().FindOrCompute(m.MarkupFile, m.RootNode, false)
}

// Fields returns the consolidated data-field index. Names declared in the
// class take priority over markup elements of the same name, and among class
// declarations the one closest to the templated class wins.
func (m *MetaData) Fields() map[string]*FieldEntry {
	markupFields := m.TemplateFields()
	result := make(map[string]*FieldEntry)
	for _, r := range m.resolver.DataFields(m.TemplateClass) {
		name := FieldName(r)
		if _, exists := result[name]; exists {
			continue
		}
		result[name] = &FieldEntry{
			Name:            name,
			DeclaringClass:  r.Owner.Class.Name,
			Declaration:     r.Owner,
			Annotation:      r.Annotation,
			Node:            markupFields[name],
			DeclaredInClass: true,
		}
	}
	for name, node := range markupFields {
		if _, exists := result[name]; exists {
			continue
		}
		result[name] = &FieldEntry{
			Name:           name,
			DeclaringClass: m.TemplateClass.Name,
			Node:           node,
		}
	}
	return result
}

// Names returns the names of the consolidated index, sorted.
func (m *MetaData) Names() []string {
	fields := m.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassesForTemplate returns the templated classes whose template resolves
// to path.
func (r *Resolver) ClassesForTemplate(path string) []*java.ClassModel {
	var result []*java.ClassModel
	for _, c := range r.project.Classes() {
		if c.Annotation(errai.Templated) == nil {
			continue
		}
		if meta := r.Resolve(c); meta != nil && meta.Path == path {
			result = append(result, c)
		}
	}
	return result
}
