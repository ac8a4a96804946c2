package binding

import (
	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/errai/naming"
	"github.com/dhamidi/errai-ls/java"
)

// PropertyValidation is the outcome of resolving a dotted property path.
// When a token fails, UnresolvedProperty names it, Token is its index and
// UnresolvedParent/UnresolvedParentName name the class it was looked up on.
// ParentBindable tells a missing property apart from a parent that is not a
// bindable type. Path holds the properties of the tokens resolved so far.
type PropertyValidation struct {
	ParentBindable       bool
	UnresolvedParent     *java.ClassModel
	UnresolvedParentName string
	UnresolvedProperty   string
	Token                int
	Property             *PropertyInfo
	Path                 []*PropertyInfo
	BoundType            *java.TypeModel
	Bindability          *BindabilityValidation
}

// Resolved reports whether every token of the path was found.
func (v PropertyValidation) Resolved() bool {
	return v.ParentBindable && v.UnresolvedProperty == "" && v.BoundType != nil
}

// Valid reports whether the path resolved and, when checked, the terminal
// type can be bound to the widget.
func (v PropertyValidation) Valid() bool {
	return v.Resolved() && (v.Bindability == nil || v.Bindability.Valid)
}

// ResolvePath walks path token by token starting at class. Every class a
// token is looked up on must be bindable.
func (r *Resolver) ResolvePath(class *java.ClassModel, path string) PropertyValidation {
	var v PropertyValidation
	if class == nil {
		return v
	}
	current := class
	currentName := class.Name
	tokens := naming.SplitPath(path)
	if len(tokens) == 0 {
		t := java.TypeModel{Name: class.Name}
		return PropertyValidation{ParentBindable: r.IsBindable(class), BoundType: &t}
	}

	var resolved []*PropertyInfo
	for i, token := range tokens {
		bindable := r.IsBindable(current)
		if current == nil {
			bindable = r.project.IsListedBindable(currentName)
		}
		if !bindable {
			return PropertyValidation{
				UnresolvedParent:     current,
				UnresolvedParentName: currentName,
				UnresolvedProperty:   token,
				Token:                i,
				Path:                 resolved,
			}
		}
		prop := BeanProperties(r.project, current)[token]
		if prop == nil {
			return PropertyValidation{
				ParentBindable:       true,
				UnresolvedParent:     current,
				UnresolvedParentName: currentName,
				UnresolvedProperty:   token,
				Token:                i,
				Path:                 resolved,
			}
		}
		resolved = append(resolved, prop)
		t := prop.Type
		v = PropertyValidation{ParentBindable: true, Property: prop, Path: resolved, BoundType: &t, Token: i}
		currentName = t.Name
		current = r.project.FindClass(currentName)
	}
	return v
}

// Validate resolves path against the model of meta and checks the terminal
// property type against widgetType. converter is the converter class named
// on the binding, possibly empty.
func (r *Resolver) Validate(meta *MetaData, path string, widgetType java.TypeModel, converter string) PropertyValidation {
	if !meta.IsBound() {
		return PropertyValidation{}
	}
	v := r.ResolvePath(meta.BoundClass, path)
	if !v.Resolved() || widgetType.IsZero() {
		return v
	}
	b := r.TypeIsBindableToWidget(*v.BoundType, widgetType, r.Convertibility(converter))
	v.Bindability = &b
	return v
}

// BindabilityValidation is the verdict of TypeIsBindableToWidget. On
// failure ExpectedWidgetType names the type or interface the widget would
// need and ActualType the property type.
type BindabilityValidation struct {
	Valid              bool
	ExpectedWidgetType string
	ActualType         string
}

// TypeIsBindableToWidget reports whether a property of propertyType can be
// bound to a widget of widgetType.
//
// String properties need a HasText widget. Other properties are checked
// against the type argument of the first HasValue or TakesValue supertype of
// the widget, in either direction of assignability; widgets with neither
// accept anything. A converter rule from
// the widget's value type to the property type makes a mismatch acceptable,
// and so does a widget implementing HasText.
func (r *Resolver) TypeIsBindableToWidget(propertyType, widgetType java.TypeModel, conv *Convertibility) BindabilityValidation {
	result := r.typeIsBindableToWidget(java.Box(propertyType), widgetType, conv)
	if !result.Valid && java.IsAssignableFrom(r.project, widgetType.Name, errai.HasText) {
		return BindabilityValidation{Valid: true}
	}
	return result
}

func (r *Resolver) typeIsBindableToWidget(propertyType, widgetType java.TypeModel, conv *Convertibility) BindabilityValidation {
	if propertyType.Name == java.StringClass && propertyType.ArrayDepth == 0 {
		if java.IsAssignableFrom(r.project, widgetType.Name, errai.HasText) {
			return BindabilityValidation{Valid: true}
		}
		return BindabilityValidation{ExpectedWidgetType: errai.HasText, ActualType: propertyType.String()}
	}

	for _, super := range java.Supertypes(r.project, widgetType) {
		if super.Name == java.ObjectClass || !isValueInterface(super.Name) {
			continue
		}
		arg, ok := super.FirstTypeArgument()
		if !ok {
			return BindabilityValidation{Valid: true}
		}
		accepted := java.Box(arg)
		if accepted.ArrayDepth == propertyType.ArrayDepth &&
			(java.IsAssignableFrom(r.project, accepted.Name, propertyType.Name) ||
				java.IsAssignableFrom(r.project, propertyType.Name, accepted.Name)) {
			return BindabilityValidation{Valid: true}
		}
		if conv.CanConvert(accepted.String(), propertyType.String()) {
			return BindabilityValidation{Valid: true}
		}
		return BindabilityValidation{ExpectedWidgetType: accepted.String(), ActualType: propertyType.String()}
	}
	return BindabilityValidation{Valid: true}
}

func isValueInterface(name string) bool {
	for _, iface := range errai.ValueInterfaces {
		if iface == name {
			return true
		}
	}
	return false
}
