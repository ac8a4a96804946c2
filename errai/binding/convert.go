package binding

import (
	"github.com/dhamidi/errai-ls/errai"
	"github.com/dhamidi/errai-ls/java"
)

// Rule converts values of type From into values of type To.
type Rule struct {
	From string
	To   string
}

// Convertibility is a set of conversion rules. The zero value and nil are
// empty sets.
type Convertibility struct {
	rules map[Rule]bool
}

func (c *Convertibility) Add(from, to string) {
	if c.rules == nil {
		c.rules = make(map[Rule]bool)
	}
	c.rules[Rule{From: from, To: to}] = true
}

func (c *Convertibility) Merge(other *Convertibility) {
	if other == nil {
		return
	}
	for rule := range other.rules {
		c.Add(rule.From, rule.To)
	}
}

func (c *Convertibility) CanConvert(from, to string) bool {
	return c != nil && c.rules[Rule{From: from, To: to}]
}

func (c *Convertibility) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// ConverterRules derives the rules of a converter class from its
// Converter<M, W> supertype: W converts to M and M to W.
func ConverterRules(lookup java.ClassLookup, converter string) *Convertibility {
	conv := &Convertibility{}
	class := lookup.FindClass(converter)
	if class == nil {
		return conv
	}
	super, ok := java.FindSupertype(lookup, java.TypeModel{Name: class.Name}, errai.Converter)
	if !ok || len(super.TypeArguments) != 2 {
		return conv
	}
	model, widget := super.TypeArguments[0].Type, super.TypeArguments[1].Type
	if model == nil || widget == nil {
		return conv
	}
	conv.Add(java.Box(*widget).String(), java.Box(*model).String())
	conv.Add(java.Box(*model).String(), java.Box(*widget).String())
	return conv
}

// DefaultConverters merges the rules of every @DefaultConverter class in the
// project.
func (r *Resolver) DefaultConverters() *Convertibility {
	conv := &Convertibility{}
	for _, c := range r.project.Classes() {
		if c.Annotation(errai.DefaultConverter) != nil {
			conv.Merge(ConverterRules(r.project, c.Name))
		}
	}
	return conv
}

// Convertibility returns the rules in effect for a binding naming converter,
// which may be empty, on top of the project's default converters.
func (r *Resolver) Convertibility(converter string) *Convertibility {
	conv := r.DefaultConverters()
	if converter != "" {
		conv.Merge(ConverterRules(r.project, converter))
	}
	return conv
}
