// Package errai names the Errai UI and GWT types the resolvers look for and
// defines the project model they work against.
package errai

import (
	"encoding/binary"
	"hash/fnv"
	"path"

	"github.com/dhamidi/errai-ls/java"
	"github.com/dhamidi/errai-ls/markup"
)

const (
	uiAnnotations = "org.jboss.errai.ui.shared.api.annotations."
	databinding   = "org.jboss.errai.databinding.client.api."

	Templated    = uiAnnotations + "Templated"
	DataField    = uiAnnotations + "DataField"
	EventHandler = uiAnnotations + "EventHandler"
	SinkNative   = uiAnnotations + "SinkNative"
	Bound        = uiAnnotations + "Bound"
	AutoBound    = uiAnnotations + "AutoBound"
	Model        = uiAnnotations + "Model"

	Bindable         = databinding + "Bindable"
	DataBinder       = databinding + "DataBinder"
	Converter        = databinding + "Converter"
	DefaultConverter = databinding + "DefaultConverter"
)

const (
	Widget      = "com.google.gwt.user.client.ui.Widget"
	IsWidget    = "com.google.gwt.user.client.ui.IsWidget"
	HasText     = "com.google.gwt.user.client.ui.HasText"
	HasValue    = "com.google.gwt.user.client.ui.HasValue"
	TakesValue  = "com.google.gwt.user.client.ui.TakesValue"
	GwtEvent    = "com.google.gwt.event.shared.GwtEvent"
	NativeEvent = "com.google.gwt.user.client.Event"
	Element     = "com.google.gwt.dom.client.Element"
)

// ValueInterfaces are the widget interfaces whose single type parameter is
// the type of value the widget accepts.
var ValueInterfaces = []string{HasValue, TakesValue}

// BindableTypesProperty lists additional bindable model types in
// ErraiApp.properties.
const BindableTypesProperty = "errai.databinding.bindable_types"

// Project is the view of a codebase the resolvers need. Implementations must
// be safe for concurrent use.
type Project interface {
	java.ClassLookup

	// Classes returns every class declared in project sources.
	Classes() []*java.ClassModel

	// Markup returns the parsed markup document at path, or nil.
	Markup(path string) *markup.Document

	// MarkupFiles lists the markup documents in dir.
	MarkupFiles(dir string) []string

	// Stamp returns the modification stamp of the file at path. It changes
	// on every update of that file.
	Stamp(path string) int64

	// IsListedBindable reports whether name is configured as a bindable type
	// without carrying the marker annotation.
	IsListedBindable(name string) bool

	// FieldCache is the shared data-field index cache.
	FieldCache() *markup.FieldCache
}

// Sibling resolves name against the directory holding file.
func Sibling(file, name string) string {
	return path.Join(path.Dir(file), name)
}

// HierarchyStamp combines the stamps of the files declaring class and its
// supertypes. It changes whenever one of those files changes or the
// hierarchy itself does.
func HierarchyStamp(p Project, class *java.ClassModel) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, c := range java.Hierarchy(p, class) {
		if c.IsLibrary {
			continue
		}
		h.Write([]byte(c.Name))
		binary.LittleEndian.PutUint64(buf[:], uint64(p.Stamp(c.SourceFile)))
		h.Write(buf[:])
	}
	return int64(h.Sum64())
}
