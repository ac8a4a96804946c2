// Package markup builds a positioned element tree from template markup and
// indexes the elements tagged with a data-field attribute.
package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"
	"golang.org/x/net/html"

	"github.com/dhamidi/errai-ls/source"
)

// DocumentTag is the tag of the synthetic node that parents the top-level
// elements of a document.
const DocumentTag = "#document"

type Attr struct {
	Key       string
	Value     string
	KeySpan   source.Span
	ValueSpan source.Span // value without quotes; zero for valueless attributes
	HasValue  bool
}

type Node struct {
	Tag      string
	Attrs    []Attr
	Parent   *Node
	Children []*Node
	// Span covers the element from its start tag to its end tag. TagSpan
	// covers the start tag only.
	Span    source.Span
	TagSpan source.Span
}

// Attr returns the first attribute named key.
func (n *Node) Attr(key string) *Attr {
	if n == nil {
		return nil
	}
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			return &n.Attrs[i]
		}
	}
	return nil
}

// Walk visits n and its descendants in document order until visit returns
// false.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(visit) {
			return false
		}
	}
	return true
}

type Document struct {
	Path  string
	Stamp int64
	Root  *Node
	Lines *source.LineIndex
}

// RootElement returns the first top-level element.
func (d *Document) RootElement() *Node {
	if d == nil || d.Root == nil || len(d.Root.Children) == 0 {
		return nil
	}
	return d.Root.Children[0]
}

// NodeAt returns the innermost element whose span contains pos.
func (d *Document) NodeAt(pos source.Position) *Node {
	var found *Node
	children := d.Root.Children
	for {
		var next *Node
		for _, c := range children {
			if c.Span.Contains(pos) {
				next = c
				break
			}
		}
		if next == nil {
			return found
		}
		found = next
		children = next.Children
	}
}

// AttrAt returns the attribute whose key or value contains pos, together
// with its element.
func (d *Document) AttrAt(pos source.Position) (*Node, *Attr) {
	n := d.NodeAt(pos)
	if n == nil || !n.TagSpan.Contains(pos) {
		return nil, nil
	}
	for i := range n.Attrs {
		a := &n.Attrs[i]
		if a.KeySpan.Contains(pos) || (a.HasValue && a.ValueSpan.Contains(pos)) {
			return n, a
		}
	}
	return nil, nil
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Parse builds the element tree of content. Markup is parsed leniently: end
// tags close the nearest matching open element, unmatched end tags are
// ignored and elements still open at the end of input extend to it.
func Parse(path string, stamp int64, content []byte) (*Document, error) {
	lines := source.NewLineIndex(content)
	attrs, err := attrIndex(content, lines)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Path:  path,
		Stamp: stamp,
		Lines: lines,
		Root:  &Node{Tag: DocumentTag, Span: lines.Span(0, len(content))},
	}

	type open struct {
		node  *Node
		start int
	}
	stack := []open{{node: doc.Root}}
	offset := 0

	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := z.Next()
		raw := z.Raw()
		start, end := offset, offset+len(raw)
		offset = end

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			for i := len(stack) - 1; i > 0; i-- {
				stack[i].node.Span = lines.Span(stack[i].start, len(content))
			}
			return doc, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			nodeAttrs, ok := attrs[start]
			if !ok {
				nodeAttrs = tokenAttrs(z, hasAttr)
			}
			node := &Node{
				Tag:     tag,
				Attrs:   nodeAttrs,
				Parent:  stack[len(stack)-1].node,
				TagSpan: lines.Span(start, end),
				Span:    lines.Span(start, end),
			}
			node.Parent.Children = append(node.Parent.Children, node)
			if tt == html.StartTagToken && !voidElements[tag] {
				stack = append(stack, open{node: node, start: start})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].node.Tag != tag {
					continue
				}
				for j := len(stack) - 1; j > i; j-- {
					stack[j].node.Span = lines.Span(stack[j].start, start)
				}
				stack[i].node.Span = lines.Span(stack[i].start, end)
				stack = stack[:i]
				break
			}
		}
	}
}

// attrIndex parses content with the tree-sitter HTML grammar and returns the
// attributes of every start tag, keyed by the offset of its '<'.
func attrIndex(content []byte, lines *source.LineIndex) (map[int][]Attr, error) {
	p := sitter.NewParser()
	p.SetLanguage(tshtml.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	defer tree.Close()

	result := make(map[int][]Attr)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "start_tag", "self_closing_tag":
			result[int(n.StartByte())] = tagAttrs(n, content, lines)
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())
	return result, nil
}

func tagAttrs(tag *sitter.Node, content []byte, lines *source.LineIndex) []Attr {
	var attrs []Attr
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		a := tag.NamedChild(i)
		if a.Type() != "attribute" {
			continue
		}
		var attr Attr
		for j := 0; j < int(a.NamedChildCount()); j++ {
			part := a.NamedChild(j)
			start, end := int(part.StartByte()), int(part.EndByte())
			switch part.Type() {
			case "attribute_name":
				attr.Key = strings.ToLower(part.Content(content))
				attr.KeySpan = lines.Span(start, end)
			case "quoted_attribute_value":
				// The value node is missing for "", so strip the quotes by hand.
				start++
				if end > start && (content[end-1] == '"' || content[end-1] == '\'') {
					end--
				}
				attr.setValue(content, start, end, lines)
			case "attribute_value":
				attr.setValue(content, start, end, lines)
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

func (a *Attr) setValue(content []byte, start, end int, lines *source.LineIndex) {
	if end < start {
		end = start
	}
	a.HasValue = true
	a.Value = html.UnescapeString(string(content[start:end]))
	a.ValueSpan = lines.Span(start, end)
}

// tokenAttrs reads the attributes of the current start tag without
// positions, for tags the tree-sitter grammar treated as text.
func tokenAttrs(z *html.Tokenizer, more bool) []Attr {
	var attrs []Attr
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		attrs = append(attrs, Attr{Key: string(key), Value: string(val), HasValue: len(val) > 0})
	}
	return attrs
}
