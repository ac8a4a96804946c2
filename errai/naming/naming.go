// Package naming holds the string conventions shared by the resolvers: bean
// accessor names, template references and type name handling.
package naming

import (
	"strings"

	"github.com/dhamidi/errai-ls/java"
)

// PropertyName derives the bean property name of an accessor. "getName" and
// "isActive" yield "name" and "active"; names without a get, set or is
// prefix are returned unchanged.
func PropertyName(method string) string {
	_, name := SplitAccessor(method)
	return name
}

type AccessorKind int

const (
	NotAccessor AccessorKind = iota
	Getter
	Setter
	BooleanGetter
)

// SplitAccessor classifies a method name by its accessor prefix, which is
// matched case-insensitively, and returns the derived property name.
func SplitAccessor(method string) (AccessorKind, string) {
	if len(method) > 3 {
		switch strings.ToLower(method[:3]) {
		case "get":
			return Getter, Decapitalize(method[3:])
		case "set":
			return Setter, Decapitalize(method[3:])
		}
	}
	if len(method) > 2 && strings.EqualFold(method[:2], "is") {
		return BooleanGetter, Decapitalize(method[2:])
	}
	return NotAccessor, method
}

// Decapitalize lowers the first character when it is an ASCII capital.
// Only that character changes, so "URL" becomes "uRL".
func Decapitalize(s string) string {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return s
	}
	return string(s[0]+('a'-'A')) + s[1:]
}

// Capitalize raises the first character when it is an ASCII lower case
// letter.
func Capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}

// AccessorName rebuilds an accessor name for property, keeping the prefix of
// kind.
func AccessorName(kind AccessorKind, property string) string {
	switch kind {
	case Getter:
		return "get" + Capitalize(property)
	case Setter:
		return "set" + Capitalize(property)
	case BooleanGetter:
		return "is" + Capitalize(property)
	}
	return property
}

// TemplateSeparator splits a template file name from its root node name.
const TemplateSeparator = "#"

// TemplateReference points at a markup file and optionally at the element
// tagged RootNodeName inside it.
type TemplateReference struct {
	FileName     string
	RootNodeName string
}

// ParseTemplateReference splits raw on its first '#'.
func ParseTemplateReference(raw string) TemplateReference {
	file, root, _ := strings.Cut(raw, TemplateSeparator)
	return TemplateReference{FileName: file, RootNodeName: root}
}

// DefaultTemplateReference names the markup file after the class.
func DefaultTemplateReference(class *java.ClassModel, extension string) TemplateReference {
	return TemplateReference{FileName: class.SimpleName + extension}
}

func (r TemplateReference) String() string {
	if r.RootNodeName == "" {
		return r.FileName
	}
	return r.FileName + TemplateSeparator + r.RootNodeName
}

// AttributeText returns the string content of an annotation attribute. The
// first element is used for arrays. ok is false when the attribute is absent
// or not a string.
func AttributeText(ann *java.AnnotationModel, name string) (java.AnnotationValue, bool) {
	v, ok := ann.Value(name)
	if !ok {
		return java.AnnotationValue{}, false
	}
	strs := v.Strings()
	if len(strs) == 0 {
		return java.AnnotationValue{}, false
	}
	return strs[0], true
}

// Erase strips type arguments from a written type, "List<String>" becoming
// "List".
func Erase(typeName string) string {
	return java.Erase(typeName)
}

// SimpleName returns the part of a qualified name after the last dot.
func SimpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PackageName returns the part of a qualified name before the last dot.
func PackageName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// SplitPath splits a dotted property path into its tokens.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
