package errai

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

func TestParseProperties(t *testing.T) {
	props, err := ParseProperties([]byte(`# generated
! also a comment
errai.databinding.bindable_types=com.example.Person \
    com.example.Address \
 com.example.Order
errai.ioc.enabled : true
key\=with\=equals = value
empty
escaped = tab\there\: x\u0041 \=
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"com.example.Person", "com.example.Address", "com.example.Order"}, BindableTypes(props))
	assert.Equal(t, "true", props["errai.ioc.enabled"])
	assert.Equal(t, "value", props["key=with=equals"])
	assert.Contains(t, props, "empty")
	assert.Equal(t, "", props["empty"])
	assert.Equal(t, "tab\there: xA =", props["escaped"])
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	dir := t.TempDir()

	cfg, err := LoadConfig(ctx, fs, filepath.Join(dir, ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "data-field", cfg.DataFieldAttribute)
	assert.True(t, cfg.IsExcluded("target"))

	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`
dataFieldAttribute: data-ref
bindableTypes:
  - com.example.Person
exclude: [out]
`), 0o644))
	cfg, err = LoadConfig(ctx, fs, path)
	require.NoError(t, err)
	assert.Equal(t, "data-ref", cfg.DataFieldAttribute)
	assert.Equal(t, ".html", cfg.TemplateExtension)
	assert.Equal(t, []string{"com.example.Person"}, cfg.BindableTypes)
	assert.True(t, cfg.IsExcluded("out"))
	assert.False(t, cfg.IsExcluded("target"))
}

func TestSibling(t *testing.T) {
	assert.Equal(t, "src/com/example/Form.html", Sibling("src/com/example/FormView.java", "Form.html"))
	assert.Equal(t, "src/com/shared/Base.html", Sibling("src/com/example/FormView.java", "../shared/Base.html"))
}
