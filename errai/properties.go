package errai

import (
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

// ParseProperties decodes ErraiApp.properties. Values are taken literally:
// ${...} references are not expanded.
func ParseProperties(data []byte) (map[string]string, error) {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	return props.Map(), nil
}

// BindableTypes returns the types listed under BindableTypesProperty.
func BindableTypes(props map[string]string) []string {
	return strings.Fields(props[BindableTypesProperty])
}
