package java

import "strings"

// ResolveInnerClassReferences rewrites the references of targets of the form
// pkg.Simple to pkg.Outer.Simple when Simple is only known as a nested class
// of that package among known.
//
// A single compilation unit cannot see nested classes declared in sibling
// files, so the source builder falls back to the package-qualified name. Once
// the other files of a codebase are parsed the fallback can be corrected.
func ResolveInnerClassReferences(known, targets []*ClassModel) {
	nested := nestedClassesByPackage(known)
	if len(nested) == 0 {
		return
	}
	declared := make(map[string]bool, len(known))
	for _, c := range known {
		declared[c.Name] = true
	}
	fix := func(name string) string {
		if declared[name] {
			return name
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			return name
		}
		if full, ok := nested[name[:i]][name[i+1:]]; ok {
			return full
		}
		return name
	}
	for _, c := range targets {
		fixClassModelTypes(c, fix)
	}
}

func nestedClassesByPackage(classes []*ClassModel) map[string]map[string]string {
	result := make(map[string]map[string]string)
	for _, c := range classes {
		if c.EnclosingClass == "" || c.Package == "" {
			continue
		}
		if result[c.Package] == nil {
			result[c.Package] = make(map[string]string)
		}
		if _, exists := result[c.Package][c.SimpleName]; !exists {
			result[c.Package][c.SimpleName] = c.Name
		}
	}
	return result
}

func fixClassModelTypes(model *ClassModel, fix func(string) string) {
	if model.SuperClass != "" {
		model.SuperClass = fix(model.SuperClass)
	}
	if model.SuperType != nil {
		fixTypeModel(model.SuperType, fix)
	}
	for i := range model.Interfaces {
		fixTypeModel(&model.Interfaces[i], fix)
	}
	for i := range model.Fields {
		fixTypeModel(&model.Fields[i].Type, fix)
	}
	for i := range model.Methods {
		m := &model.Methods[i]
		fixTypeModel(&m.ReturnType, fix)
		for j := range m.Parameters {
			fixTypeModel(&m.Parameters[j].Type, fix)
		}
		for j := range m.Exceptions {
			m.Exceptions[j] = fix(m.Exceptions[j])
		}
	}
}

func fixTypeModel(t *TypeModel, fix func(string) string) {
	t.Name = fix(t.Name)
	for i := range t.TypeArguments {
		if arg := t.TypeArguments[i]; arg.Type != nil {
			fixTypeModel(arg.Type, fix)
		} else if arg.Bound != nil {
			fixTypeModel(arg.Bound, fix)
		}
	}
}
