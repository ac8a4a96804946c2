package java

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Signature is the parsed form of a generic type reference such as
// "Map<String, List<? extends Number>>[]".
type Signature struct {
	Name    []string    `parser:"@Ident ( '.' @Ident )*"`
	Args    []*Argument `parser:"( '<' ( @@ ( ',' @@ )* )? '>' )?"`
	Dims    []string    `parser:"( @'[' ']' )*"`
	Varargs bool        `parser:"@Ellipsis?"`
}

type Argument struct {
	Wildcard *Wildcard  `parser:"  @@"`
	Type     *Signature `parser:"| @@"`
}

type Wildcard struct {
	Mark  string         `parser:"@'?'"`
	Bound *WildcardBound `parser:"@@?"`
}

type WildcardBound struct {
	Kind string     `parser:"@( 'extends' | 'super' )"`
	Type *Signature `parser:"@@"`
}

var signatureParser = participle.MustBuild[Signature](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ellipsis", Pattern: `\.\.\.`},
		{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},
		{Name: "Punct", Pattern: `[<>,.?\[\]]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseSignature parses a Java type reference.
func ParseSignature(text string) (*Signature, error) {
	sig, err := signatureParser.ParseString("", strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", text, err)
	}
	return sig, nil
}

// Erase strips type arguments and array dimensions from a type reference. Text
// that does not parse is returned up to the first '<'.
func Erase(text string) string {
	sig, err := ParseSignature(text)
	if err != nil {
		if i := strings.IndexByte(text, '<'); i >= 0 {
			text = text[:i]
		}
		return strings.TrimSpace(text)
	}
	return sig.Erasure()
}

func (s *Signature) Erasure() string {
	return strings.Join(s.Name, ".")
}

func (s *Signature) ArrayDepth() int {
	depth := len(s.Dims)
	if s.Varargs {
		depth++
	}
	return depth
}

func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.Erasure())
	if len(s.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range s.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	for range s.Dims {
		sb.WriteString("[]")
	}
	if s.Varargs {
		sb.WriteString("...")
	}
	return sb.String()
}

func (a *Argument) String() string {
	if a.Wildcard == nil {
		return a.Type.String()
	}
	if a.Wildcard.Bound == nil {
		return "?"
	}
	return "? " + a.Wildcard.Bound.Kind + " " + a.Wildcard.Bound.Type.String()
}

// TypeModel converts the signature, passing every name through resolve.
// A nil resolve keeps names as written.
func (s *Signature) TypeModel(resolve func(string) string) TypeModel {
	name := s.Erasure()
	if resolve != nil {
		name = resolve(name)
	}
	tm := TypeModel{Name: name, ArrayDepth: s.ArrayDepth()}
	for _, a := range s.Args {
		tm.TypeArguments = append(tm.TypeArguments, a.typeArgument(resolve))
	}
	return tm
}

func (a *Argument) typeArgument(resolve func(string) string) TypeArgumentModel {
	if a.Wildcard == nil {
		t := a.Type.TypeModel(resolve)
		return TypeArgumentModel{Type: &t}
	}
	arg := TypeArgumentModel{IsWildcard: true}
	if b := a.Wildcard.Bound; b != nil {
		t := b.Type.TypeModel(resolve)
		arg.BoundKind = b.Kind
		arg.Bound = &t
	}
	return arg
}
