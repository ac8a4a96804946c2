package java

// ClassLookup finds a class model by its fully qualified name. It returns nil
// for unknown classes.
type ClassLookup interface {
	FindClass(name string) *ClassModel
}

// DirectSupertypes returns the declared superclass and interfaces of class,
// in that order. Interfaces without an explicit superclass report none.
func DirectSupertypes(class *ClassModel) []TypeModel {
	var result []TypeModel
	switch {
	case class.SuperType != nil:
		result = append(result, *class.SuperType)
	case class.SuperClass != "":
		result = append(result, TypeModel{Name: class.SuperClass})
	}
	return append(result, class.Interfaces...)
}

// Supertypes returns t followed by every type it extends or implements,
// breadth first. Type arguments are substituted along the way, so the
// supertypes of TextBox include HasValue<java.lang.String> when TextBox
// extends ValueBoxBase<String> and ValueBoxBase<T> implements HasValue<T>.
// Types that cannot be looked up are reported but not walked.
func Supertypes(lookup ClassLookup, t TypeModel) []TypeModel {
	seen := map[string]bool{t.Name: true}
	result := []TypeModel{t}
	for i := 0; i < len(result); i++ {
		current := result[i]
		class := lookup.FindClass(current.Name)
		if class == nil {
			continue
		}
		bindings := typeBindings(class, current)
		for _, super := range DirectSupertypes(class) {
			super = substitute(super, bindings)
			if seen[super.Name] {
				continue
			}
			seen[super.Name] = true
			result = append(result, super)
		}
	}
	return result
}

// FindSupertype returns the parameterization of name among the supertypes of t.
func FindSupertype(lookup ClassLookup, t TypeModel, name string) (TypeModel, bool) {
	for _, super := range Supertypes(lookup, t) {
		if super.Name == name {
			return super, true
		}
	}
	return TypeModel{}, false
}

// IsAssignableFrom reports whether a value of the class named sub can be
// assigned to the type named super: the names are equal, or one of the
// interfaces of sub is assignable, or its superclass is. Unknown classes are
// only assignable to themselves and java.lang.Object.
func IsAssignableFrom(lookup ClassLookup, sub, super string) bool {
	return isAssignable(lookup, sub, super, make(map[string]bool))
}

func isAssignable(lookup ClassLookup, sub, super string, visited map[string]bool) bool {
	if sub == "" {
		return false
	}
	if sub == super || super == ObjectClass {
		return true
	}
	if visited[sub] {
		return false
	}
	visited[sub] = true
	class := lookup.FindClass(sub)
	if class == nil {
		return false
	}
	for _, iface := range class.Interfaces {
		if isAssignable(lookup, iface.Name, super, visited) {
			return true
		}
	}
	return isAssignable(lookup, class.SuperClass, super, visited)
}

type typeBinding map[string]TypeModel

func typeBindings(class *ClassModel, t TypeModel) typeBinding {
	if len(class.TypeParameters) == 0 {
		return nil
	}
	bindings := make(typeBinding, len(class.TypeParameters))
	for i, param := range class.TypeParameters {
		var bound TypeModel
		if i < len(t.TypeArguments) {
			arg := t.TypeArguments[i]
			switch {
			case arg.Type != nil:
				bound = *arg.Type
			case arg.Bound != nil && arg.BoundKind == "extends":
				bound = *arg.Bound
			}
		}
		if bound.IsZero() {
			// Raw or unbounded: erase to the declared bound.
			bound = TypeModel{Name: ObjectClass}
			if len(param.Bounds) > 0 {
				bound = TypeModel{Name: param.Bounds[0].Name}
			}
		}
		bindings[param.Name] = bound
	}
	return bindings
}

func substitute(t TypeModel, bindings typeBinding) TypeModel {
	if len(bindings) == 0 {
		return t
	}
	if bound, ok := bindings[t.Name]; ok && len(t.TypeArguments) == 0 {
		bound.ArrayDepth += t.ArrayDepth
		return bound
	}
	if len(t.TypeArguments) == 0 {
		return t
	}
	args := make([]TypeArgumentModel, len(t.TypeArguments))
	for i, arg := range t.TypeArguments {
		if arg.Type != nil {
			sub := substitute(*arg.Type, bindings)
			arg.Type = &sub
		}
		if arg.Bound != nil {
			sub := substitute(*arg.Bound, bindings)
			arg.Bound = &sub
		}
		args[i] = arg
	}
	t.TypeArguments = args
	return t
}

// Hierarchy returns class followed by the models of all its supertypes that
// lookup knows, breadth first. class need not be known to lookup.
func Hierarchy(lookup ClassLookup, class *ClassModel) []*ClassModel {
	lookup = withClass{lookup, class}
	var result []*ClassModel
	for _, t := range Supertypes(lookup, TypeModel{Name: class.Name}) {
		if c := lookup.FindClass(t.Name); c != nil {
			result = append(result, c)
		}
	}
	return result
}

// AllFields returns the fields of class and its superclasses. A field hides
// fields of the same name declared further up. java.lang.Object contributes
// nothing.
func AllFields(lookup ClassLookup, class *ClassModel) []*FieldModel {
	var result []*FieldModel
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	for c := class; c != nil && c.Name != ObjectClass && !visited[c.Name]; c = lookup.FindClass(c.SuperClass) {
		visited[c.Name] = true
		for i := range c.Fields {
			f := &c.Fields[i]
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			result = append(result, f)
		}
		if c.SuperClass == "" {
			break
		}
	}
	return result
}

// AllMethods returns the non-constructor methods of class, its superclasses
// and its interfaces. An override shadows the methods with the same erasure
// declared in supertypes. java.lang.Object contributes nothing.
func AllMethods(lookup ClassLookup, class *ClassModel) []*MethodModel {
	var result []*MethodModel
	seen := make(map[string]bool)
	for _, c := range Hierarchy(lookup, class) {
		if c.Name == ObjectClass {
			continue
		}
		for i := range c.Methods {
			m := &c.Methods[i]
			if m.IsConstructor() {
				continue
			}
			key := m.Erasure()
			if seen[key] {
				continue
			}
			seen[key] = true
			result = append(result, m)
		}
	}
	return result
}

// withClass makes a class visible to lookups even when it is not part of the
// codebase, such as a model parsed from an unsaved buffer.
type withClass struct {
	ClassLookup
	class *ClassModel
}

func (w withClass) FindClass(name string) *ClassModel {
	if name == w.class.Name {
		return w.class
	}
	return w.ClassLookup.FindClass(name)
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// Box returns the wrapper type of a primitive and any other type unchanged.
func Box(t TypeModel) TypeModel {
	if !t.IsPrimitive() {
		return t
	}
	return TypeModel{Name: boxes[t.Name]}
}
