package java

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/dhamidi/errai-ls/source"
)

// ClassModelsFromSource parses a compilation unit and returns one model per
// declared type, nested types included. Syntax errors do not fail the parse;
// tree-sitter recovers and the declarations it could make sense of are kept.
func ClassModelsFromSource(content []byte, opts ...Option) ([]*ClassModel, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse java source: %w", err)
	}
	defer tree.Close()

	cu := tree.RootNode()
	b := &builder{
		content: content,
		path:    o.path,
	}
	b.resolver = newTypeResolver(packageFromCompilationUnit(cu, content), importsFromCompilationUnit(cu, content), o.known)

	for i := 0; i < int(cu.NamedChildCount()); i++ {
		if child := cu.NamedChild(i); isTypeDecl(child) {
			b.registerNested(child, b.resolver.qualify(b.text(child.ChildByFieldName("name"))))
		}
	}
	for i := 0; i < int(cu.NamedChildCount()); i++ {
		if child := cu.NamedChild(i); isTypeDecl(child) {
			b.classFromDecl(child, nil)
		}
	}
	return b.models, nil
}

func isTypeDecl(n *sitter.Node) bool {
	switch n.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"annotation_type_declaration", "record_declaration":
		return true
	}
	return false
}

type builder struct {
	content  []byte
	path     string
	resolver *typeResolver
	models   []*ClassModel
}

func (b *builder) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(b.content)
}

func span(n *sitter.Node) source.Span {
	if n == nil {
		return source.Span{}
	}
	s, e := n.StartPoint(), n.EndPoint()
	return source.Span{
		Start: source.Position{Line: int(s.Row), Column: int(s.Column)},
		End:   source.Position{Line: int(e.Row), Column: int(e.Column)},
	}
}

func packageFromCompilationUnit(cu *sitter.Node, content []byte) string {
	for i := 0; i < int(cu.NamedChildCount()); i++ {
		child := cu.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			n := child.NamedChild(j)
			if n.Type() == "scoped_identifier" || n.Type() == "identifier" {
				return n.Content(content)
			}
		}
	}
	return ""
}

type importInfo struct {
	qualifiedName string
	isStatic      bool
	isWildcard    bool
}

func importsFromCompilationUnit(cu *sitter.Node, content []byte) []importInfo {
	var imports []importInfo
	for i := 0; i < int(cu.NamedChildCount()); i++ {
		child := cu.NamedChild(i)
		if child.Type() != "import_declaration" {
			continue
		}
		var imp importInfo
		for j := 0; j < int(child.ChildCount()); j++ {
			n := child.Child(j)
			switch n.Type() {
			case "static":
				imp.isStatic = true
			case "asterisk":
				imp.isWildcard = true
			case "scoped_identifier", "identifier":
				imp.qualifiedName = n.Content(content)
			}
		}
		imports = append(imports, imp)
	}
	return imports
}

// registerNested makes nested type names resolvable before any member of the
// compilation unit is converted.
func (b *builder) registerNested(decl *sitter.Node, fullName string) {
	body := decl.ChildByFieldName("body")
	if body == nil {
		return
	}
	for _, member := range classBodyMembers(body) {
		if !isTypeDecl(member) {
			continue
		}
		simple := b.text(member.ChildByFieldName("name"))
		if simple == "" {
			continue
		}
		nested := fullName + "." + simple
		b.resolver.registerInnerClass(simple, nested)
		b.registerNested(member, nested)
	}
}

// classBodyMembers flattens class, interface, enum and annotation bodies into
// their member declarations.
func classBodyMembers(body *sitter.Node) []*sitter.Node {
	var members []*sitter.Node
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() == "enum_body_declarations" {
			members = append(members, classBodyMembers(child)...)
			continue
		}
		members = append(members, child)
	}
	return members
}

func (b *builder) classFromDecl(node *sitter.Node, outer *ClassModel) *ClassModel {
	nameNode := node.ChildByFieldName("name")
	model := &ClassModel{
		SimpleName: b.text(nameNode),
		Package:    b.resolver.pkg,
		Visibility: VisibilityPackage,
		SourceFile: b.path,
		Span:       span(node),
		NameSpan:   span(nameNode),
	}
	if outer != nil {
		model.Name = outer.Name + "." + model.SimpleName
		model.EnclosingClass = outer.Name
		outer.InnerClasses = append(outer.InnerClasses, model.Name)
	} else {
		model.Name = b.resolver.qualify(model.SimpleName)
	}
	b.models = append(b.models, model)

	switch node.Type() {
	case "class_declaration":
		model.Kind = ClassKindClass
	case "interface_declaration":
		model.Kind = ClassKindInterface
		model.IsAbstract = true
	case "enum_declaration":
		model.Kind = ClassKindEnum
		model.SuperClass = "java.lang.Enum"
	case "annotation_type_declaration":
		model.Kind = ClassKindAnnotation
		model.IsAbstract = true
	case "record_declaration":
		model.Kind = ClassKindRecord
		model.SuperClass = "java.lang.Record"
		model.IsFinal = true
	}

	resolver := b.resolver
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		model.TypeParameters = b.typeParameters(tp, resolver)
		resolver = resolver.withTypeParameters(model.TypeParameters)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "modifiers":
			b.applyModifiers(child, resolver, modifierTarget{
				visibility:  &model.Visibility,
				isStatic:    &model.IsStatic,
				isFinal:     &model.IsFinal,
				isAbstract:  &model.IsAbstract,
				annotations: &model.Annotations,
			})
		case "superclass":
			if t := firstNamedChild(child); t != nil {
				st := b.typeModel(t, resolver)
				model.SuperType = &st
				model.SuperClass = st.Name
			}
		case "super_interfaces", "extends_interfaces":
			model.Interfaces = append(model.Interfaces, b.typeList(child, resolver)...)
		}
	}

	if model.Kind == ClassKindAnnotation {
		model.Interfaces = append(model.Interfaces, TypeModel{Name: "java.lang.annotation.Annotation"})
	}
	if model.SuperClass == "" && model.Kind == ClassKindClass && model.Name != ObjectClass {
		model.SuperClass = ObjectClass
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for _, member := range classBodyMembers(body) {
			b.member(member, model, resolver)
		}
	}
	return model
}

func (b *builder) member(node *sitter.Node, model *ClassModel, resolver *typeResolver) {
	switch node.Type() {
	case "field_declaration", "constant_declaration":
		fields := b.fields(node, resolver)
		if model.Kind == ClassKindInterface {
			for i := range fields {
				fields[i].IsStatic = true
				fields[i].IsFinal = true
				fields[i].Visibility = VisibilityPublic
			}
		}
		model.Fields = append(model.Fields, fields...)
	case "method_declaration", "annotation_type_element_declaration":
		method := b.method(node, resolver)
		if model.Kind == ClassKindInterface || model.Kind == ClassKindAnnotation {
			if !method.IsStatic && !method.IsDefault {
				method.IsAbstract = true
			}
			method.Visibility = VisibilityPublic
		}
		model.Methods = append(model.Methods, method)
	case "constructor_declaration":
		model.Methods = append(model.Methods, b.constructor(node, resolver))
	case "enum_constant":
		nameNode := node.ChildByFieldName("name")
		model.Fields = append(model.Fields, FieldModel{
			Name:       b.text(nameNode),
			Type:       TypeModel{Name: model.Name},
			Visibility: VisibilityPublic,
			IsStatic:   true,
			IsFinal:    true,
			Span:       span(node),
			NameSpan:   span(nameNode),
		})
	default:
		if isTypeDecl(node) {
			b.classFromDecl(node, model)
		}
	}
}

type modifierTarget struct {
	visibility  *Visibility
	isStatic    *bool
	isFinal     *bool
	isAbstract  *bool
	isNative    *bool
	isDefault   *bool
	annotations *[]AnnotationModel
}

func setFlag(flag *bool) {
	if flag != nil {
		*flag = true
	}
}

func (b *builder) applyModifiers(modifiers *sitter.Node, resolver *typeResolver, target modifierTarget) {
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(i)
		switch child.Type() {
		case "annotation", "marker_annotation":
			if target.annotations != nil {
				*target.annotations = append(*target.annotations, b.annotation(child, resolver))
			}
		case "public":
			*target.visibility = VisibilityPublic
		case "protected":
			*target.visibility = VisibilityProtected
		case "private":
			*target.visibility = VisibilityPrivate
		case "static":
			setFlag(target.isStatic)
		case "final":
			setFlag(target.isFinal)
		case "abstract":
			setFlag(target.isAbstract)
		case "native":
			setFlag(target.isNative)
		case "default":
			setFlag(target.isDefault)
		}
	}
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	if n == nil || n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

func (b *builder) typeList(n *sitter.Node, resolver *typeResolver) []TypeModel {
	var types []TypeModel
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "type_list" {
			types = append(types, b.typeList(child, resolver)...)
			continue
		}
		types = append(types, b.typeModel(child, resolver))
	}
	return types
}

// typeModel converts a type node by parsing its source text as a signature,
// so the node kinds of generic, scoped and array types need no special casing.
func (b *builder) typeModel(n *sitter.Node, resolver *typeResolver) TypeModel {
	text := stripTypeAnnotations(b.text(n))
	sig, err := ParseSignature(text)
	if err != nil {
		return TypeModel{Name: resolver.resolve(Erase(text))}
	}
	return sig.TypeModel(resolver.resolve)
}

// stripTypeAnnotations drops leading type annotations such as "@Nullable ".
func stripTypeAnnotations(text string) string {
	text = strings.TrimSpace(text)
	for strings.HasPrefix(text, "@") {
		i := strings.IndexAny(text, " \t\n")
		if i < 0 {
			return text
		}
		text = strings.TrimSpace(text[i:])
	}
	return text
}

func (b *builder) typeParameters(n *sitter.Node, resolver *typeResolver) []TypeParameterModel {
	var params []TypeParameterModel
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "type_parameter" {
			continue
		}
		var param TypeParameterModel
		for j := 0; j < int(child.NamedChildCount()); j++ {
			c := child.NamedChild(j)
			switch c.Type() {
			case "identifier", "type_identifier":
				if param.Name == "" {
					param.Name = b.text(c)
				}
			case "type_bound":
				param.Bounds = b.typeList(c, resolver)
			}
		}
		params = append(params, param)
	}
	return params
}

func (b *builder) fields(node *sitter.Node, resolver *typeResolver) []FieldModel {
	base := FieldModel{
		Visibility: VisibilityPackage,
		Span:       span(node),
	}
	if mods := childOfType(node, "modifiers"); mods != nil {
		b.applyModifiers(mods, resolver, modifierTarget{
			visibility:  &base.Visibility,
			isStatic:    &base.IsStatic,
			isFinal:     &base.IsFinal,
			annotations: &base.Annotations,
		})
	}
	fieldType := b.typeModel(node.ChildByFieldName("type"), resolver)

	var fields []FieldModel
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		field := base
		field.Name = b.text(nameNode)
		field.NameSpan = span(nameNode)
		field.Type = fieldType
		if dims := child.ChildByFieldName("dimensions"); dims != nil {
			field.Type.ArrayDepth += strings.Count(b.text(dims), "[")
		}
		fields = append(fields, field)
	}
	return fields
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == typ {
			return child
		}
	}
	return nil
}

func (b *builder) method(node *sitter.Node, resolver *typeResolver) MethodModel {
	nameNode := node.ChildByFieldName("name")
	model := MethodModel{
		Name:       b.text(nameNode),
		Visibility: VisibilityPackage,
		Span:       span(node),
		NameSpan:   span(nameNode),
	}
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		model.TypeParameters = b.typeParameters(tp, resolver)
		resolver = resolver.withTypeParameters(model.TypeParameters)
	}
	b.methodCommon(node, &model, resolver)
	if t := node.ChildByFieldName("type"); t != nil {
		model.ReturnType = b.typeModel(t, resolver)
	} else {
		model.ReturnType = TypeModel{Name: "void"}
	}
	if dims := node.ChildByFieldName("dimensions"); dims != nil {
		model.ReturnType.ArrayDepth += strings.Count(b.text(dims), "[")
	}
	return model
}

func (b *builder) constructor(node *sitter.Node, resolver *typeResolver) MethodModel {
	model := MethodModel{
		Name:       "<init>",
		ReturnType: TypeModel{Name: "void"},
		Visibility: VisibilityPackage,
		Span:       span(node),
		NameSpan:   span(node.ChildByFieldName("name")),
	}
	if tp := node.ChildByFieldName("type_parameters"); tp != nil {
		model.TypeParameters = b.typeParameters(tp, resolver)
		resolver = resolver.withTypeParameters(model.TypeParameters)
	}
	b.methodCommon(node, &model, resolver)
	return model
}

func (b *builder) methodCommon(node *sitter.Node, model *MethodModel, resolver *typeResolver) {
	if mods := childOfType(node, "modifiers"); mods != nil {
		b.applyModifiers(mods, resolver, modifierTarget{
			visibility:  &model.Visibility,
			isStatic:    &model.IsStatic,
			isFinal:     &model.IsFinal,
			isAbstract:  &model.IsAbstract,
			isNative:    &model.IsNative,
			isDefault:   &model.IsDefault,
			annotations: &model.Annotations,
		})
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		model.Parameters = b.parameters(params, resolver)
	}
	if throws := childOfType(node, "throws"); throws != nil {
		for _, t := range b.typeList(throws, resolver) {
			model.Exceptions = append(model.Exceptions, t.Name)
		}
	}
}

func (b *builder) parameters(node *sitter.Node, resolver *typeResolver) []ParameterModel {
	var params []ParameterModel
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "formal_parameter":
			params = append(params, b.formalParameter(child, resolver))
		case "spread_parameter":
			params = append(params, b.spreadParameter(child, resolver))
		}
	}
	return params
}

func (b *builder) formalParameter(node *sitter.Node, resolver *typeResolver) ParameterModel {
	nameNode := node.ChildByFieldName("name")
	param := ParameterModel{
		Name:     b.text(nameNode),
		Type:     b.typeModel(node.ChildByFieldName("type"), resolver),
		Span:     span(node),
		NameSpan: span(nameNode),
	}
	if mods := childOfType(node, "modifiers"); mods != nil {
		var vis Visibility
		b.applyModifiers(mods, resolver, modifierTarget{
			visibility:  &vis,
			isFinal:     &param.IsFinal,
			annotations: &param.Annotations,
		})
	}
	if dims := node.ChildByFieldName("dimensions"); dims != nil {
		param.Type.ArrayDepth += strings.Count(b.text(dims), "[")
	}
	return param
}

func (b *builder) spreadParameter(node *sitter.Node, resolver *typeResolver) ParameterModel {
	param := ParameterModel{Span: span(node)}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "modifiers":
			var vis Visibility
			b.applyModifiers(child, resolver, modifierTarget{
				visibility:  &vis,
				isFinal:     &param.IsFinal,
				annotations: &param.Annotations,
			})
		case "variable_declarator":
			nameNode := child.ChildByFieldName("name")
			param.Name = b.text(nameNode)
			param.NameSpan = span(nameNode)
		default:
			if param.Type.IsZero() {
				param.Type = b.typeModel(child, resolver)
				param.Type.ArrayDepth++
			}
		}
	}
	return param
}

func (b *builder) annotation(node *sitter.Node, resolver *typeResolver) AnnotationModel {
	ann := AnnotationModel{
		Type: resolver.resolve(b.text(node.ChildByFieldName("name"))),
		Span: span(node),
	}
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return ann
	}
	ann.Values = make(map[string]AnnotationValue)
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "element_value_pair" {
			key := b.text(child.ChildByFieldName("key"))
			ann.Values[key] = b.annotationValue(child.ChildByFieldName("value"), resolver)
			continue
		}
		ann.Values["value"] = b.annotationValue(child, resolver)
	}
	return ann
}

func (b *builder) annotationValue(node *sitter.Node, resolver *typeResolver) AnnotationValue {
	if node == nil {
		return AnnotationValue{}
	}
	switch node.Type() {
	case "string_literal":
		raw := b.text(node)
		s := span(node)
		if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && !strings.HasPrefix(raw, `"""`) {
			s.Start.Column++
			s.End.Column--
		}
		return AnnotationValue{Kind: ValueString, Text: unquote(raw), Span: s}
	case "class_literal":
		typeName := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(b.text(node)), ".class"))
		typeName = strings.TrimSpace(strings.TrimSuffix(typeName, "."))
		return AnnotationValue{Kind: ValueClass, Text: resolver.resolve(Erase(typeName)), Span: span(node)}
	case "element_value_array_initializer":
		v := AnnotationValue{Kind: ValueArray, Text: b.text(node), Span: span(node)}
		for i := 0; i < int(node.NamedChildCount()); i++ {
			v.Elements = append(v.Elements, b.annotationValue(node.NamedChild(i), resolver))
		}
		return v
	case "parenthesized_expression":
		if inner := firstNamedChild(node); inner != nil {
			return b.annotationValue(inner, resolver)
		}
	}
	return AnnotationValue{Kind: ValueOther, Text: b.text(node), Span: span(node)}
}

func unquote(raw string) string {
	if strings.HasPrefix(raw, `"""`) {
		return strings.TrimSuffix(strings.TrimPrefix(raw, `"""`), `"""`)
	}
	if s, err := strconv.Unquote(raw); err == nil {
		return s
	}
	return strings.Trim(raw, `"`)
}

type typeResolver struct {
	pkg          string
	imports      []importInfo
	innerClasses map[string]string // simple name -> fully qualified name
	typeParams   map[string]bool
	known        func(string) bool
}

func newTypeResolver(pkg string, imports []importInfo, known func(string) bool) *typeResolver {
	return &typeResolver{
		pkg:          pkg,
		imports:      imports,
		innerClasses: make(map[string]string),
		known:        known,
	}
}

func (r *typeResolver) registerInnerClass(simpleName, fullName string) {
	if _, ok := r.innerClasses[simpleName]; !ok {
		r.innerClasses[simpleName] = fullName
	}
}

// withTypeParameters returns a resolver that leaves the given type variables
// unqualified.
func (r *typeResolver) withTypeParameters(params []TypeParameterModel) *typeResolver {
	if len(params) == 0 {
		return r
	}
	scoped := *r
	scoped.typeParams = make(map[string]bool, len(r.typeParams)+len(params))
	for name := range r.typeParams {
		scoped.typeParams[name] = true
	}
	for _, p := range params {
		scoped.typeParams[p.Name] = true
	}
	return &scoped
}

func (r *typeResolver) qualify(simpleName string) string {
	if r.pkg == "" {
		return simpleName
	}
	return r.pkg + "." + simpleName
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "Void": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
}

func (r *typeResolver) resolve(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void", "var":
		return name
	}
	if r.typeParams[name] {
		return name
	}

	if i := strings.IndexByte(name, '.'); i >= 0 {
		// Outer.Inner written through an imported or nested outer class.
		head, rest := name[:i], name[i:]
		if head != "" && head[0] >= 'A' && head[0] <= 'Z' {
			if resolved := r.resolveSimple(head, false); resolved != "" {
				return resolved + rest
			}
		}
		return name
	}

	if resolved := r.resolveSimple(name, true); resolved != "" {
		return resolved
	}
	return r.qualify(name)
}

func (r *typeResolver) resolveSimple(name string, withDefaults bool) string {
	if fullName, ok := r.innerClasses[name]; ok {
		return fullName
	}
	for _, imp := range r.imports {
		if imp.isWildcard || imp.isStatic {
			continue
		}
		if imp.qualifiedName == name || strings.HasSuffix(imp.qualifiedName, "."+name) {
			return imp.qualifiedName
		}
	}
	if r.known != nil {
		if r.known(r.qualify(name)) {
			return r.qualify(name)
		}
		for _, imp := range r.imports {
			if !imp.isWildcard || imp.isStatic {
				continue
			}
			if candidate := imp.qualifiedName + "." + name; r.known(candidate) {
				return candidate
			}
		}
	}
	if withDefaults && (javaLangTypes[name] || (r.known != nil && r.known("java.lang."+name))) {
		return "java.lang." + name
	}
	return ""
}
