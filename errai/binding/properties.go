package binding

import (
	"sort"

	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/java"
)

// PropertyInfo is one bean property derived from accessor methods.
type PropertyInfo struct {
	Name   string
	Type   java.TypeModel
	Getter *java.MethodModel
	Setter *java.MethodModel
	Owner  *java.ClassModel
}

// BeanProperties derives the bean properties of class from the public
// accessors in its full method set. java.lang.Object contributes nothing.
func BeanProperties(lookup java.ClassLookup, class *java.ClassModel) map[string]*PropertyInfo {
	result := make(map[string]*PropertyInfo)
	if class == nil {
		return result
	}
	for _, m := range java.AllMethods(lookup, class) {
		if m.IsStatic || m.Visibility != java.VisibilityPublic {
			continue
		}
		kind, name := naming.SplitAccessor(m.Name)
		var propType java.TypeModel
		switch {
		case (kind == naming.Getter || kind == naming.BooleanGetter) && len(m.Parameters) == 0 && !m.ReturnType.IsVoid():
			propType = m.ReturnType
		case kind == naming.Setter && len(m.Parameters) == 1:
			propType = m.Parameters[0].Type
		default:
			continue
		}

		prop := result[name]
		if prop == nil {
			prop = &PropertyInfo{Name: name, Type: propType, Owner: class}
			result[name] = prop
		}
		if kind == naming.Setter {
			if prop.Setter == nil {
				prop.Setter = m
			}
		} else if prop.Getter == nil {
			prop.Getter = m
		}
	}
	return result
}

// Properties returns the bean properties reachable under prefix, keyed by
// their full dotted path. An empty prefix lists the properties of class
// itself; an unresolvable prefix yields an empty map.
func (r *Resolver) Properties(class *java.ClassModel, prefix string) map[string]*PropertyInfo {
	target := class
	if prefix != "" {
		v := r.ResolvePath(class, prefix)
		if !v.Resolved() {
			return map[string]*PropertyInfo{}
		}
		target = r.project.FindClass(v.BoundType.Name)
	}
	props := BeanProperties(r.project, target)
	if prefix == "" {
		return props
	}
	result := make(map[string]*PropertyInfo, len(props))
	for name, p := range props {
		result[prefix+"."+name] = p
	}
	return result
}

// Property returns the bean property name of class, or nil.
func (r *Resolver) Property(class *java.ClassModel, name string) *PropertyInfo {
	return BeanProperties(r.project, class)[name]
}

// SortedNames returns the keys of props in order.
func SortedNames(props map[string]*PropertyInfo) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
