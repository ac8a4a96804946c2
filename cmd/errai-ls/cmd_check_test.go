package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const checkedView = `package app;

import org.jboss.errai.ui.shared.api.annotations.*;
import com.google.gwt.user.client.ui.*;

@Templated
public class View {
    @DataField Button save;
}
`

func TestRunCheck(t *testing.T) {
	color.NoColor = true
	dir := writeProject(t, map[string]string{
		"app/View.java": checkedView,
		"app/View.html": `<div></div>`,
	})

	var out bytes.Buffer
	err := runCheck(context.Background(), dir, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "app/View.java:8:5: error: No element with data-field \"save\" in View.html [DataFieldNotInTemplate]")
	assert.Contains(t, out.String(), "fix: Add data-field=\"save\" to View.html")
	assert.Contains(t, out.String(), "1 problems (1 errors)")
}

func TestRunCheckClean(t *testing.T) {
	color.NoColor = true
	dir := writeProject(t, map[string]string{
		"app/View.java": checkedView,
		"app/View.html": `<div><button data-field="save"></button></div>`,
	})

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), dir, &out))
	assert.Equal(t, "0 problems (0 errors)\n", out.String())
}

func TestRunFields(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app/View.java": checkedView,
		"app/View.html": `<div><button data-field="save"></button><a data-field="help"></a></div>`,
	})

	var out bytes.Buffer
	require.NoError(t, runFields(context.Background(), dir, filepath.Join(dir, "app", "View.java"), &out))
	assert.Contains(t, out.String(), "app.View -> View.html")
	assert.Regexp(t, `help\s+<a>\s+markup\s+app.View`, out.String())
	assert.Regexp(t, `save\s+<button>\s+field save\s+app.View`, out.String())
}
