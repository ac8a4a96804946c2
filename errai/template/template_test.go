package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/errai-ls/java/codebase"
)

func newProject(t *testing.T, files map[string]string) *codebase.Codebase {
	t.Helper()
	c := codebase.New("/project")
	for path, content := range files {
		require.NoError(t, c.UpdateFile(path, []byte(content)))
	}
	return c
}

const formView = `package p;

import org.jboss.errai.ui.shared.api.annotations.*;
import com.google.gwt.user.client.ui.*;

@Templated
public class FormView extends Composite {
    @DataField("user-name") TextBox name;
    @DataField Button save;

    public static class Row {
        @DataField Label cell;
    }
}
`

const formHTML = `<div>
  <input data-field="user-name">
  <button data-field="save">Save</button>
  <span data-field="hint"></span>
</div>
`

func TestResolveDefaultReference(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/FormView.java": formView,
		"/project/p/FormView.html": formHTML,
	})
	r := NewResolver(c, "")

	meta := r.Resolve(c.FindClass("p.FormView"))
	require.NotNil(t, meta)
	assert.True(t, meta.IsDefaultReference)
	assert.Nil(t, meta.SourceAttribute)
	assert.Equal(t, "FormView.html", meta.Reference.FileName)
	assert.Equal(t, "/project/p/FormView.html", meta.Path)
	require.NotNil(t, meta.MarkupFile)
	require.NotNil(t, meta.RootNode)
	assert.Equal(t, "div", meta.RootNode.Tag)
}

func TestResolveFromNestedClass(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/FormView.java": formView,
		"/project/p/FormView.html": formHTML,
	})
	r := NewResolver(c, "")

	meta := r.Resolve(c.FindClass("p.FormView.Row"))
	require.NotNil(t, meta)
	assert.Equal(t, "p.FormView", meta.TemplateClass.Name)
}

func TestResolveNotTemplated(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/Plain.java": "package p;\npublic class Plain {}\n",
	})
	assert.Nil(t, NewResolver(c, "").Resolve(c.FindClass("p.Plain")))
}

func TestResolveMissingTemplate(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/FormView.java": formView,
		"/project/p/Other.java": `package p;
import org.jboss.errai.ui.shared.api.annotations.Templated;
@Templated("missing.html#root")
public class Other {}
`,
	})
	r := NewResolver(c, "")

	meta := r.Resolve(c.FindClass("p.FormView"))
	require.NotNil(t, meta)
	assert.Nil(t, meta.MarkupFile)
	assert.True(t, meta.IsDefaultReference)

	meta = r.Resolve(c.FindClass("p.Other"))
	require.NotNil(t, meta)
	assert.Nil(t, meta.MarkupFile)
	assert.False(t, meta.IsDefaultReference)
	require.NotNil(t, meta.SourceAttribute)
	assert.Equal(t, "missing.html#root", meta.SourceAttribute.Text)
	assert.Equal(t, "root", meta.Reference.RootNodeName)
}

func TestResolveRootNode(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/Card.java": `package p;
import org.jboss.errai.ui.shared.api.annotations.*;
@Templated("shared/Widgets.html#card")
public class Card {}
`,
		"/project/p/Bad.java": `package p;
import org.jboss.errai.ui.shared.api.annotations.*;
@Templated("shared/Widgets.html#nope")
public class Bad {}
`,
		"/project/p/shared/Widgets.html": `<div>
  <section data-field="card"><h1 data-field="heading"></h1></section>
  <section data-field="other"><p data-field="body"></p></section>
</div>`,
	})
	r := NewResolver(c, "")

	meta := r.Resolve(c.FindClass("p.Card"))
	require.NotNil(t, meta)
	require.NotNil(t, meta.RootNode)
	assert.Equal(t, "section", meta.RootNode.Tag)
	fields := meta.TemplateFields()
	assert.Contains(t, fields, "heading")
	assert.NotContains(t, fields, "body", "fields outside the root node are not part of the template")
	assert.NotContains(t, fields, "card", "the root node itself is not a data field")

	bad := r.Resolve(c.FindClass("p.Bad"))
	require.NotNil(t, bad)
	assert.NotNil(t, bad.MarkupFile)
	assert.Nil(t, bad.RootNode)
	assert.Empty(t, bad.TemplateFields())
}

func TestFieldsClassDeclarationWins(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/FormView.java": formView,
		"/project/p/FormView.html": formHTML,
	})
	r := NewResolver(c, "")
	meta := r.Resolve(c.FindClass("p.FormView"))
	require.NotNil(t, meta)

	fields := meta.Fields()
	assert.Equal(t, []string{"hint", "save", "user-name"}, meta.Names())

	save := fields["save"]
	require.NotNil(t, save)
	assert.True(t, save.DeclaredInClass)
	require.NotNil(t, save.Declaration)
	assert.Equal(t, "save", save.Declaration.Name())
	require.NotNil(t, save.Node, "the matching element is still reachable")
	assert.Equal(t, "button", save.Node.Tag)

	hint := fields["hint"]
	require.NotNil(t, hint)
	assert.False(t, hint.DeclaredInClass)
	assert.Nil(t, hint.Declaration)
	assert.Equal(t, "p.FormView", hint.DeclaringClass)
}

func TestFieldsRecomputedAfterEdit(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/FormView.java": formView,
		"/project/p/FormView.html": formHTML,
	})
	r := NewResolver(c, "")
	class := c.FindClass("p.FormView")

	first := r.Resolve(class).Fields()
	again := r.Resolve(class).Fields()
	assert.Equal(t, len(first), len(again))

	require.NoError(t, c.UpdateFile("/project/p/FormView.html", []byte(`<div><a data-field="link"></a></div>`)))
	after := r.Resolve(class).Fields()
	assert.Contains(t, after, "link")
	assert.NotContains(t, after, "hint")
}

func TestClassesForTemplate(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/FormView.java": formView,
		"/project/p/FormView.html": formHTML,
		"/project/p/Plain.java":    "package p;\npublic class Plain {}\n",
	})
	classes := NewResolver(c, "").ClassesForTemplate("/project/p/FormView.html")
	require.Len(t, classes, 1)
	assert.Equal(t, "p.FormView", classes[0].Name)
}
