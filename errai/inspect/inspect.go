package inspect

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/annotation"
	"github.com/dhamidi/errai-ls/errai/binding"
	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/errai/template"
	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/source"
)

var log = commonlog.GetLogger("errai-ls.inspect")

type Inspector struct {
	project   errai.Project
	templates *template.Resolver
	bindings  *binding.Resolver
}

func New(project errai.Project, templates *template.Resolver, bindings *binding.Resolver) *Inspector {
	return &Inspector{project: project, templates: templates, bindings: bindings}
}

// Inspect reports the problems of class to report.
func (in *Inspector) Inspect(class *java.ClassModel, report func(Problem)) {
	if class == nil || class.IsLibrary {
		return
	}
	c := &check{Inspector: in, class: class, report: report}
	if class.Annotation(errai.Templated) != nil {
		c.template()
	}
	c.binding()
}

// InspectClass collects the problems of class.
func (in *Inspector) InspectClass(class *java.ClassModel) []Problem {
	var problems []Problem
	in.Inspect(class, func(p Problem) { problems = append(problems, p) })
	return problems
}

// InspectFile collects the problems located in path. Besides the classes
// declared in path this inspects their subclasses, whose ambiguous model
// bindings are also reported on inherited sites.
func (in *Inspector) InspectFile(path string) []Problem {
	var problems []Problem
	for _, class := range in.project.Classes() {
		if !extends(in.project, class, path) {
			continue
		}
		for _, p := range in.InspectClass(class) {
			if p.File == path {
				problems = append(problems, p)
			}
		}
	}
	problems = Unique(problems)
	Sort(problems)
	return problems
}

// extends reports whether class or one of its supertypes is declared in path.
func extends(lookup java.ClassLookup, class *java.ClassModel, path string) bool {
	for _, c := range java.Hierarchy(lookup, class) {
		if c.SourceFile == path {
			return true
		}
	}
	return false
}

// InspectAll collects the problems of every project class.
func (in *Inspector) InspectAll() []Problem {
	var problems []Problem
	for _, class := range in.project.Classes() {
		problems = append(problems, in.InspectClass(class)...)
	}
	problems = Unique(problems)
	Sort(problems)
	log.Debugf("inspection found %d problems", len(problems))
	return problems
}

type check struct {
	*Inspector
	class  *java.ClassModel
	report func(Problem)
}

func (c *check) problem(span source.Span, code Code, fix string, format string, args ...any) {
	c.problemIn(c.class.SourceFile, span, code, fix, format, args...)
}

func (c *check) problemIn(file string, span source.Span, code Code, fix string, format string, args ...any) {
	c.report(Problem{
		File:     file,
		Span:     span,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Fix:      fix,
	})
}

// attrSpan returns the span of the string value of attribute name, or the
// span of the annotation when the attribute is absent.
func attrSpan(ann *java.AnnotationModel, name string) source.Span {
	if v, ok := naming.AttributeText(ann, name); ok {
		return v.Span
	}
	return ann.Span
}

func referenceSpan(meta *template.MetaData) source.Span {
	if meta.SourceAttribute != nil {
		return meta.SourceAttribute.Span
	}
	return meta.Annotation.Span
}

// own filters results to declarations of the inspected class; inherited
// declarations are reported with their own class.
func (c *check) own(results []annotation.SearchResult) []annotation.SearchResult {
	var result []annotation.SearchResult
	for _, r := range results {
		if r.Owner.Class == c.class {
			result = append(result, r)
		}
	}
	return result
}

func (c *check) template() {
	meta := c.templates.Resolve(c.class)
	if meta == nil {
		return
	}
	switch {
	case meta.MarkupFile == nil && meta.IsDefaultReference:
		c.problem(meta.Annotation.Span, DefaultTemplateNotFound, "Create "+meta.Reference.FileName,
			"Could not find the default template %s for %s", meta.Reference.FileName, c.class.SimpleName)
		return
	case meta.MarkupFile == nil:
		c.problem(referenceSpan(meta), TemplateNotFound, "Create "+meta.Reference.FileName,
			"Could not find the template file %s", meta.Reference.FileName)
		return
	case meta.RootNode == nil && meta.Reference.RootNodeName == "":
		c.problem(referenceSpan(meta), RootNodeNotFound, "",
			"Template %s has no root element", meta.Reference.FileName)
		return
	case meta.RootNode == nil:
		c.problem(referenceSpan(meta), RootNodeNotFound, "",
			"Data-field %q could not be found in %s", meta.Reference.RootNodeName, meta.Reference.FileName)
		return
	}

	templateFields := meta.TemplateFields()
	for _, r := range c.own(c.templates.DataFields(c.class)) {
		name := template.FieldName(r)
		if templateFields[name] == nil {
			c.problem(attrSpan(r.Annotation, "value"), DataFieldNotInTemplate, "Add data-field=\""+name+"\" to "+meta.Reference.FileName,
				"No element with data-field %q in %s", name, meta.Reference.FileName)
		}
		c.dataFieldType(r)
	}

	fields := meta.Fields()
	for _, r := range c.own(annotation.FindAll(c.project, c.class, errai.EventHandler)) {
		c.eventHandler(r, fields)
	}
}

var dataFieldTypes = []string{errai.Widget, errai.IsWidget, errai.Element}

func (c *check) dataFieldType(r annotation.SearchResult) {
	if r.Owner.Kind != annotation.KindField && r.Owner.Kind != annotation.KindParameter {
		return
	}
	t := r.Owner.Type()
	if t.IsPrimitive() || t.IsArray() {
		c.problem(r.Owner.NameSpan(), DataFieldWrongType, "",
			"@DataField %s must be a Widget or an Element, not %s", r.Owner.Name(), t)
		return
	}
	if c.project.FindClass(t.Name) == nil {
		return
	}
	for _, accepted := range dataFieldTypes {
		if java.IsAssignableFrom(c.project, t.Name, accepted) {
			return
		}
	}
	c.problem(r.Owner.NameSpan(), DataFieldWrongType, "",
		"@DataField %s must be a Widget or an Element, not %s", r.Owner.Name(), naming.SimpleName(t.Name))
}

func (c *check) eventHandler(r annotation.SearchResult, fields map[string]*template.FieldEntry) {
	method := r.Owner.Method
	if method == nil || r.Owner.Kind != annotation.KindMethod {
		return
	}
	if len(method.Parameters) != 1 {
		c.problem(method.NameSpan, EventHandlerParameterCount, "",
			"Event handler %s must take exactly one event parameter", method.Name)
		return
	}

	param := method.Parameters[0]
	paramType := param.Type.Name
	known := c.project.FindClass(paramType) != nil
	isGwt := java.IsAssignableFrom(c.project, paramType, errai.GwtEvent)
	isNative := java.IsAssignableFrom(c.project, paramType, errai.NativeEvent)
	sink := method.Annotation(errai.SinkNative)

	switch {
	case known && !isGwt && !isNative:
		c.problem(param.Span, EventHandlerParameterType, "",
			"Event handler parameter must be a GwtEvent or a native Event, not %s", naming.SimpleName(paramType))
	case isGwt && sink != nil:
		c.problem(sink.Span, EventHandlerSinkNativeOnGwtEvent, "Remove @SinkNative",
			"@SinkNative is only allowed on handlers of native Events")
	case isNative && sink == nil:
		c.problem(method.NameSpan, EventHandlerMissingSinkNative, "Add @SinkNative",
			"Handlers of native Events must declare @SinkNative")
	}

	value, ok := r.Annotation.Value("value")
	if !ok {
		return
	}
	for _, v := range value.Strings() {
		entry := fields[v.Text]
		if entry == nil {
			c.problem(v.Span, EventHandlerFieldUnresolved, "",
				"No data-field %q in the template of %s", v.Text, c.class.SimpleName)
			continue
		}
		if isGwt && !entry.DeclaredInClass {
			c.problem(v.Span, EventHandlerNeedsNativeEvent, "Declare a @DataField "+v.Text,
				"Data-field %q is not declared in %s; handle a native Event with @SinkNative instead", v.Text, c.class.SimpleName)
		}
	}
}

func (c *check) binding() {
	meta := c.bindings.Binding(c.class)
	if meta.IsAmbiguous() {
		for _, site := range meta.Annotations {
			c.problemIn(site.Owner.File(), site.Annotation.Span, AmbiguousModel, "",
				"Multiple model bindings in %s; only one @AutoBound or @Model is allowed", c.class.SimpleName)
		}
	}

	bound := c.own(annotation.FindAll(c.project, c.class, errai.Bound))
	if len(bound) == 0 && !meta.IsBound() {
		return
	}
	if meta.BoundType == "" {
		if !meta.IsAmbiguous() {
			for _, r := range bound {
				c.problem(r.Annotation.Span, BoundWithoutModel, "",
					"@Bound requires an @AutoBound data binder or a @Model in %s", c.class.SimpleName)
			}
		}
		return
	}
	if !meta.IsBound() {
		return
	}
	if !c.bindings.IsBindable(meta.BoundClass) {
		for _, site := range c.own(meta.Annotations) {
			c.problem(site.Annotation.Span, ModelNotBindable, "Annotate "+meta.BoundClass.SimpleName+" with @Bindable",
				"%s is not bindable; annotate it with @Bindable or list it in ErraiApp.properties", meta.BoundClass.SimpleName)
		}
		return
	}

	for _, r := range bound {
		c.boundProperty(meta, r)
	}
}

// BoundPath returns the property path of a @Bound declaration: its property
// attribute, or the declared name.
func BoundPath(r annotation.SearchResult) (string, *java.AnnotationValue) {
	if v, ok := naming.AttributeText(r.Annotation, "property"); ok && v.Text != "" {
		return v.Text, &v
	}
	return r.Owner.Name(), nil
}

func (c *check) boundProperty(meta *binding.MetaData, r annotation.SearchResult) {
	path, attr := BoundPath(r)
	converter := ""
	if v, ok := r.Annotation.Value("converter"); ok && v.Kind == java.ValueClass {
		converter = v.Text
	}

	v := c.bindings.Validate(meta, path, r.Owner.Type(), converter)
	span := r.Annotation.Span
	if attr != nil {
		span = tokenSpan(attr, v.Token)
	}

	switch {
	case !v.Resolved() && !v.ParentBindable:
		c.problem(span, BoundParentNotBindable, "",
			"%s is not bindable; cannot resolve property %q", naming.SimpleName(v.UnresolvedParentName), v.UnresolvedProperty)
	case !v.Resolved():
		c.problem(span, BoundPropertyNotFound, "",
			"No property %q in %s", v.UnresolvedProperty, naming.SimpleName(v.UnresolvedParentName))
	case v.Bindability != nil && !v.Bindability.Valid:
		c.report(Problem{
			File:     c.class.SourceFile,
			Span:     span,
			Severity: SeverityWarning,
			Code:     BindabilityMismatch,
			Message: fmt.Sprintf("Property %q of type %s cannot be bound to %s, which expects %s",
				path, naming.SimpleName(v.Bindability.ActualType), naming.SimpleName(r.Owner.Type().Name),
				naming.SimpleName(v.Bindability.ExpectedWidgetType)),
		})
	}
}

// tokenSpan narrows the span of a single-line property path value to the
// token at index.
func tokenSpan(attr *java.AnnotationValue, index int) source.Span {
	if attr.Span.Start.Line != attr.Span.End.Line {
		return attr.Span
	}
	tokens := naming.SplitPath(attr.Text)
	if index >= len(tokens) || len(attr.Text) != attr.Span.End.Column-attr.Span.Start.Column {
		return attr.Span
	}
	col := attr.Span.Start.Column
	for _, t := range tokens[:index] {
		col += len(t) + 1
	}
	return source.Span{
		Start: source.Position{Line: attr.Span.Start.Line, Column: col},
		End:   source.Position{Line: attr.Span.Start.Line, Column: col + len(tokens[index])},
	}
}
