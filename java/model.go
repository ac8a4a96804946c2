package java

import "github.com/dhamidi/errai-ls/source"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

// ObjectClass is the root of every class hierarchy.
const ObjectClass = "java.lang.Object"

// StringClass is the platform string type.
const StringClass = "java.lang.String"

type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	SuperClass     string
	Interfaces     []TypeModel
	SuperType      *TypeModel
	Visibility     Visibility
	Kind           ClassKind
	IsFinal        bool
	IsAbstract     bool
	IsStatic       bool
	IsLibrary      bool
	SourceFile     string
	EnclosingClass string
	InnerClasses   []string
	Annotations    []AnnotationModel
	Fields         []FieldModel
	Methods        []MethodModel
	TypeParameters []TypeParameterModel
	Span           source.Span
	NameSpan       source.Span
}

// Constructors returns the methods named <init>.
func (c *ClassModel) Constructors() []*MethodModel {
	var result []*MethodModel
	for i := range c.Methods {
		if c.Methods[i].IsConstructor() {
			result = append(result, &c.Methods[i])
		}
	}
	return result
}

func (c *ClassModel) Annotation(typeName string) *AnnotationModel {
	return findAnnotation(c.Annotations, typeName)
}

func (c *ClassModel) Field(name string) *FieldModel {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

type FieldModel struct {
	Name        string
	Type        TypeModel
	Visibility  Visibility
	IsStatic    bool
	IsFinal     bool
	Annotations []AnnotationModel
	Span        source.Span
	NameSpan    source.Span
}

func (f *FieldModel) Annotation(typeName string) *AnnotationModel {
	return findAnnotation(f.Annotations, typeName)
}

type MethodModel struct {
	Name           string
	ReturnType     TypeModel
	Parameters     []ParameterModel
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsNative       bool
	IsDefault      bool
	Annotations    []AnnotationModel
	Exceptions     []string
	TypeParameters []TypeParameterModel
	Span           source.Span
	NameSpan       source.Span
}

func (m *MethodModel) IsConstructor() bool {
	return m.Name == "<init>"
}

func (m *MethodModel) Annotation(typeName string) *AnnotationModel {
	return findAnnotation(m.Annotations, typeName)
}

// Erasure returns the method name followed by its erased parameter types,
// which identifies an override across a class hierarchy.
func (m *MethodModel) Erasure() string {
	key := m.Name + "("
	for i, p := range m.Parameters {
		if i > 0 {
			key += ","
		}
		key += p.Type.String()
	}
	return key + ")"
}

type ParameterModel struct {
	Name        string
	Type        TypeModel
	IsFinal     bool
	Annotations []AnnotationModel
	Span        source.Span
	NameSpan    source.Span
}

func (p *ParameterModel) Annotation(typeName string) *AnnotationModel {
	return findAnnotation(p.Annotations, typeName)
}

type TypeModel struct {
	Name          string
	ArrayDepth    int
	TypeArguments []TypeArgumentModel
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

func (t TypeModel) IsZero() bool {
	return t.Name == ""
}

// String returns the erased type name including array brackets.
func (t TypeModel) String() string {
	s := t.Name
	for i := 0; i < t.ArrayDepth; i++ {
		s += "[]"
	}
	return s
}

// FirstTypeArgument returns the type of the first type argument, following
// the bound of a wildcard.
func (t TypeModel) FirstTypeArgument() (TypeModel, bool) {
	if len(t.TypeArguments) == 0 {
		return TypeModel{}, false
	}
	arg := t.TypeArguments[0]
	switch {
	case arg.Type != nil:
		return *arg.Type, true
	case arg.Bound != nil && arg.BoundKind == "extends":
		return *arg.Bound, true
	}
	return TypeModel{}, false
}

type TypeArgumentModel struct {
	Type       *TypeModel
	IsWildcard bool
	BoundKind  string // "extends", "super", or "" for unbounded
	Bound      *TypeModel
}

type TypeParameterModel struct {
	Name   string
	Bounds []TypeModel
}

type AnnotationModel struct {
	Type   string
	Values map[string]AnnotationValue
	Span   source.Span
}

// Value returns the named attribute. The single-element shorthand
// @Foo("x") is stored under "value".
func (a *AnnotationModel) Value(name string) (AnnotationValue, bool) {
	if a == nil || a.Values == nil {
		return AnnotationValue{}, false
	}
	v, ok := a.Values[name]
	return v, ok
}

type AnnotationValueKind int

const (
	ValueOther AnnotationValueKind = iota
	ValueString
	ValueClass
	ValueArray
)

type AnnotationValue struct {
	Kind AnnotationValueKind
	// Text holds the unquoted content for strings, the resolved type name
	// for class literals and the raw source for everything else.
	Text     string
	Elements []AnnotationValue
	// Span covers the string content without quotes for string literals and
	// the whole expression otherwise.
	Span source.Span
}

// Strings flattens a string or an array of strings.
func (v AnnotationValue) Strings() []AnnotationValue {
	switch v.Kind {
	case ValueString:
		return []AnnotationValue{v}
	case ValueArray:
		var result []AnnotationValue
		for _, e := range v.Elements {
			result = append(result, e.Strings()...)
		}
		return result
	}
	return nil
}

func findAnnotation(anns []AnnotationModel, typeName string) *AnnotationModel {
	for i := range anns {
		if anns[i].Type == typeName {
			return &anns[i]
		}
	}
	return nil
}
