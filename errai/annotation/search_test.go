package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/errai-ls/errai"
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

const baseView = `package p;

import org.jboss.errai.ui.shared.api.annotations.*;
import com.google.gwt.user.client.ui.*;
import com.google.gwt.event.dom.client.ClickEvent;

public class BaseView {
    @DataField protected Button cancel;

    @EventHandler("cancel")
    void onCancel(ClickEvent e) {}
}
`

const formView = `package p;

import javax.inject.Inject;
import org.jboss.errai.ui.shared.api.annotations.*;
import com.google.gwt.user.client.ui.*;
import com.google.gwt.event.dom.client.ClickEvent;

@Templated
public class FormView extends BaseView {
    @DataField("user-name") TextBox name;
    TextBox plain;

    @Inject
    public FormView(@DataField Label title) {}

    @EventHandler("save")
    void onSave(@DataField ClickEvent e) {}
}
`

func TestFindAll(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/BaseView.java": baseView,
		"/project/p/FormView.java": formView,
	})
	form := c.FindClass("p.FormView")
	require.NotNil(t, form)

	results := FindAll(c, form, errai.DataField)
	var names []string
	var kinds []Kind
	for _, r := range results {
		names = append(names, r.Owner.Name())
		kinds = append(kinds, r.Owner.Kind)
	}
	assert.Equal(t, []string{"name", "cancel", "e", "title"}, names)
	assert.Equal(t, []Kind{KindField, KindField, KindParameter, KindParameter}, kinds)

	assert.Equal(t, "p.BaseView", results[1].Owner.Class.Name, "inherited field reports its declaring class")
	assert.Equal(t, KindConstructor, kindOfCallable(results[3].Owner))

	v, ok := results[0].Annotation.Value("value")
	require.True(t, ok)
	assert.Equal(t, "user-name", v.Text)
}

func kindOfCallable(d *Declaration) Kind {
	if d.Method.IsConstructor() {
		return KindConstructor
	}
	return KindMethod
}

func TestFindAllEventHandlers(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/BaseView.java": baseView,
		"/project/p/FormView.java": formView,
	})
	results := FindAll(c, c.FindClass("p.FormView"), errai.EventHandler)
	require.Len(t, results, 2)
	assert.Equal(t, "onSave", results[0].Owner.Name())
	assert.Equal(t, "onCancel", results[1].Owner.Name())
	assert.Equal(t, KindMethod, results[1].Owner.Kind)
	assert.True(t, results[1].Owner.HasAnnotation(errai.EventHandler))
}

func TestFindAllNilClass(t *testing.T) {
	c := newProject(t, nil)
	results := FindAll(c, nil, errai.DataField)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFindFirstAndWalkStop(t *testing.T) {
	c := newProject(t, map[string]string{
		"/project/p/BaseView.java": baseView,
		"/project/p/FormView.java": formView,
	})
	form := c.FindClass("p.FormView")

	first, ok := FindFirst(c, form, errai.DataField)
	require.True(t, ok)
	assert.Equal(t, "name", first.Owner.Name())

	visited := 0
	Walk(c, form, VisitorFunc(func(d *Declaration) bool {
		visited++
		return visited < 2
	}))
	assert.Equal(t, 2, visited)

	_, ok = FindFirst(c, form, errai.Bound)
	assert.False(t, ok)
}

func TestDeclarationType(t *testing.T) {
	c := newProject(t, map[string]string{"/project/p/FormView.java": formView})
	form := c.FindClass("p.FormView")

	d := &Declaration{Kind: KindField, Class: form, Field: form.Field("name")}
	assert.Equal(t, "com.google.gwt.user.client.ui.TextBox", d.Type().Name)
	assert.Equal(t, "/project/p/FormView.java", d.File())

	cls := &Declaration{Kind: KindClass, Class: form}
	assert.Equal(t, "FormView", cls.Name())
	assert.NotNil(t, cls.Annotation(errai.Templated))
}
