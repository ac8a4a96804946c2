// Package annotation finds the declarations of a class hierarchy that carry
// a given annotation.
package annotation

import (
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/source"
)

type Kind int

const (
	KindClass Kind = iota
	KindField
	KindMethod
	KindConstructor
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindField:
		return "field"
	case KindMethod:
		return "method"
	case KindConstructor:
		return "constructor"
	case KindParameter:
		return "parameter"
	}
	return "unknown"
}

// Declaration is one annotatable element of a class. Class is always set;
// Field, Method and Parameter are set according to Kind. Parameters also
// carry the method or constructor declaring them.
type Declaration struct {
	Kind       Kind
	Class      *java.ClassModel
	Field      *java.FieldModel
	Method     *java.MethodModel
	Parameter  *java.ParameterModel
	ParamIndex int
}

func (d *Declaration) Name() string {
	switch d.Kind {
	case KindField:
		return d.Field.Name
	case KindMethod:
		return d.Method.Name
	case KindConstructor:
		return d.Class.SimpleName
	case KindParameter:
		return d.Parameter.Name
	}
	return d.Class.SimpleName
}

// Type returns the declared type of fields and parameters, the return type
// of methods and the class itself otherwise.
func (d *Declaration) Type() java.TypeModel {
	switch d.Kind {
	case KindField:
		return d.Field.Type
	case KindMethod:
		return d.Method.ReturnType
	case KindParameter:
		return d.Parameter.Type
	}
	return java.TypeModel{Name: d.Class.Name}
}

func (d *Declaration) Annotations() []java.AnnotationModel {
	switch d.Kind {
	case KindField:
		return d.Field.Annotations
	case KindMethod, KindConstructor:
		return d.Method.Annotations
	case KindParameter:
		return d.Parameter.Annotations
	}
	return d.Class.Annotations
}

func (d *Declaration) Annotation(fqn string) *java.AnnotationModel {
	anns := d.Annotations()
	for i := range anns {
		if anns[i].Type == fqn {
			return &anns[i]
		}
	}
	return nil
}

func (d *Declaration) HasAnnotation(fqn string) bool {
	return d.Annotation(fqn) != nil
}

// Span covers the whole declaration.
func (d *Declaration) Span() source.Span {
	switch d.Kind {
	case KindField:
		return d.Field.Span
	case KindMethod, KindConstructor:
		return d.Method.Span
	case KindParameter:
		return d.Parameter.Span
	}
	return d.Class.Span
}

// NameSpan covers the declared name.
func (d *Declaration) NameSpan() source.Span {
	switch d.Kind {
	case KindField:
		return d.Field.NameSpan
	case KindMethod, KindConstructor:
		return d.Method.NameSpan
	case KindParameter:
		return d.Parameter.NameSpan
	}
	return d.Class.NameSpan
}

// File returns the source file of the declaring class.
func (d *Declaration) File() string {
	return d.Class.SourceFile
}

// Visitor receives each declaration of a class. Returning false stops the
// walk.
type Visitor interface {
	Visit(d *Declaration) bool
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(d *Declaration) bool

func (f VisitorFunc) Visit(d *Declaration) bool { return f(d) }

// Walk visits the declarations of class and its supertypes in a fixed order:
// all fields, then all methods each followed by its parameters, then the
// constructors of class each followed by its parameters. Inherited members
// come after the members of class.
func Walk(lookup java.ClassLookup, class *java.ClassModel, v Visitor) {
	if class == nil {
		return
	}
	for _, f := range java.AllFields(lookup, class) {
		owner := declaringClass(lookup, class, func(c *java.ClassModel) bool { return containsField(c, f) })
		if !v.Visit(&Declaration{Kind: KindField, Class: owner, Field: f}) {
			return
		}
	}
	for _, m := range java.AllMethods(lookup, class) {
		owner := declaringClass(lookup, class, func(c *java.ClassModel) bool { return containsMethod(c, m) })
		if !visitCallable(v, KindMethod, owner, m) {
			return
		}
	}
	for _, m := range class.Constructors() {
		if !visitCallable(v, KindConstructor, class, m) {
			return
		}
	}
}

func visitCallable(v Visitor, kind Kind, owner *java.ClassModel, m *java.MethodModel) bool {
	if !v.Visit(&Declaration{Kind: kind, Class: owner, Method: m}) {
		return false
	}
	for i := range m.Parameters {
		d := &Declaration{Kind: KindParameter, Class: owner, Method: m, Parameter: &m.Parameters[i], ParamIndex: i}
		if !v.Visit(d) {
			return false
		}
	}
	return true
}

func declaringClass(lookup java.ClassLookup, class *java.ClassModel, has func(*java.ClassModel) bool) *java.ClassModel {
	for _, c := range java.Hierarchy(lookup, class) {
		if has(c) {
			return c
		}
	}
	return class
}

func containsField(c *java.ClassModel, f *java.FieldModel) bool {
	for i := range c.Fields {
		if &c.Fields[i] == f {
			return true
		}
	}
	return false
}

func containsMethod(c *java.ClassModel, m *java.MethodModel) bool {
	for i := range c.Methods {
		if &c.Methods[i] == m {
			return true
		}
	}
	return false
}
