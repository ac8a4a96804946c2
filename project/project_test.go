package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/errai-ls/errai/inspect"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

const view = `package app;

import org.jboss.errai.ui.shared.api.annotations.*;
import com.google.gwt.user.client.ui.*;

@Templated
public class View {
    @DataField Button save;
    @DataField Button cancel;
}
`

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		".errai-ls.yaml":              "dataFieldAttribute: data-ui\n",
		"src/app/View.java":           view,
		"src/app/View.html":           `<div><button data-ui="save"></button></div>`,
		"target/classes/app/Old.java": "package app; public class Old {}",
	})

	p, err := LoadFrom(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "data-ui", p.Config.DataFieldAttribute)
	assert.NotNil(t, p.Codebase.FindClass("app.View"))
	assert.Nil(t, p.Codebase.FindClass("app.Old"))

	problems := p.Inspector.InspectAll()
	require.Len(t, problems, 1)
	assert.Equal(t, inspect.DataFieldNotInTemplate, problems[0].Code)
	assert.Contains(t, problems[0].Message, `"cancel"`)
}

func TestAffectedFiles(t *testing.T) {
	p := New("/project", nil, nil)
	require.NoError(t, p.Codebase.UpdateFile("/project/app/View.java", []byte(view)))
	require.NoError(t, p.Codebase.UpdateFile("/project/app/View.html", []byte(`<div></div>`)))
	require.NoError(t, p.Codebase.UpdateFile("/project/app/ErraiApp.properties", []byte("")))

	assert.Equal(t, []string{"/project/app/View.java"}, p.AffectedFiles("/project/app/View.java"))
	assert.Equal(t, []string{"/project/app/View.java"}, p.AffectedFiles("/project/app/View.html"))
	assert.Equal(t, []string{"/project/app/View.java"}, p.AffectedFiles("/project/app/ErraiApp.properties"))
	assert.Nil(t, p.AffectedFiles("/project/app/unknown.txt"))
}

const person = `package app;

import org.jboss.errai.databinding.client.api.Bindable;

@Bindable
public class Person {
    public String getName() { return null; }
    public void setName(String name) {}
}
`

const boundView = `package app;

import org.jboss.errai.ui.shared.api.annotations.*;
import org.jboss.errai.databinding.client.api.DataBinder;
import com.google.gwt.user.client.ui.*;

@Templated
public class BoundView {
    @AutoBound DataBinder<Person> binder;
    @Bound @DataField TextBox name;
}
`

const baseView = `package app;

import org.jboss.errai.ui.shared.api.annotations.*;
import com.google.gwt.user.client.ui.*;

public class BaseView {
    @DataField Button save;
}
`

const childView = `package app;

import org.jboss.errai.ui.shared.api.annotations.*;

@Templated
public class ChildView extends BaseView {
}
`

func TestAffectedFilesFollowsDependents(t *testing.T) {
	p := New("/project", nil, nil)
	for path, content := range map[string]string{
		"/project/app/Person.java":    person,
		"/project/app/BoundView.java": boundView,
		"/project/app/BoundView.html": `<div><input data-field="name"></div>`,
		"/project/app/BaseView.java":  baseView,
		"/project/app/ChildView.java": childView,
		"/project/app/ChildView.html": `<div><button data-field="save"></button></div>`,
	} {
		require.NoError(t, p.Codebase.UpdateFile(path, []byte(content)))
	}
	assert.Empty(t, p.Inspector.InspectFile("/project/app/BoundView.java"))

	require.NoError(t, p.Codebase.UpdateFile("/project/app/Person.java", []byte(`package app;

import org.jboss.errai.databinding.client.api.Bindable;

@Bindable
public class Person {}
`)))
	assert.Equal(t, []string{"/project/app/Person.java", "/project/app/BoundView.java"},
		p.AffectedFiles("/project/app/Person.java"))
	problems := p.Inspector.InspectFile("/project/app/BoundView.java")
	require.Len(t, problems, 1)
	assert.Equal(t, inspect.BoundPropertyNotFound, problems[0].Code)

	assert.Equal(t, []string{"/project/app/BaseView.java", "/project/app/ChildView.java"},
		p.AffectedFiles("/project/app/BaseView.java"))
	assert.Equal(t, []string{"/project/app/ChildView.java", "/project/app/BaseView.java"},
		p.AffectedFiles("/project/app/ChildView.java"))
}

func TestAffectedFilesAfterRemoval(t *testing.T) {
	p := New("/project", nil, nil)
	require.NoError(t, p.Codebase.UpdateFile("/project/app/View.java", []byte(view)))
	require.NoError(t, p.Codebase.UpdateFile("/project/app/View.html", []byte(`<div></div>`)))
	require.NoError(t, p.Codebase.UpdateFile("/project/app/Other.java", []byte("package app; public class Other {}")))

	p.Codebase.RemoveFile("/project/app/View.html")
	assert.Equal(t, []string{"/project/app/View.java"}, p.AffectedFiles("/project/app/View.html"))
	problems := p.Inspector.InspectFile("/project/app/View.java")
	require.Len(t, problems, 1)
	assert.Equal(t, inspect.DefaultTemplateNotFound, problems[0].Code)

	p.Codebase.RemoveFile("/project/app/Other.java")
	assert.Equal(t, []string{"/project/app/Other.java", "/project/app/View.java"},
		p.AffectedFiles("/project/app/Other.java"))
}
