package java

import (
	"testing"

	"github.com/dhamidi/errai-ls/source"
)

func findModel(models []*ClassModel, name string) *ClassModel {
	for _, m := range models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func findMethod(cls *ClassModel, name string) *MethodModel {
	for i := range cls.Methods {
		if cls.Methods[i].Name == name {
			return &cls.Methods[i]
		}
	}
	return nil
}

func TestClassModelsFromSource(t *testing.T) {
	src := []byte(`package com.example.client;

import java.util.List;
import org.jboss.errai.ui.shared.api.annotations.DataField;
import org.jboss.errai.ui.shared.api.annotations.Templated;
import com.google.gwt.user.client.ui.*;

@Templated("Form.html#root")
public class FormView extends Composite implements IsWidget {
    @DataField("user-name")
    private TextBox name;

    @DataField
    protected List<String> tags;

    public FormView(int count) {}

    public String getName() { return name.getText(); }

    static native void log(String... parts);
}
`)
	known := func(name string) bool {
		return name == "com.google.gwt.user.client.ui.TextBox" ||
			name == "com.google.gwt.user.client.ui.Composite" ||
			name == "com.google.gwt.user.client.ui.IsWidget"
	}

	models, err := ClassModelsFromSource(src, WithPath("FormView.java"), WithKnownTypes(known))
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("Expected 1 class model, got %d", len(models))
	}
	cls := models[0]

	t.Run("class header", func(t *testing.T) {
		if cls.Name != "com.example.client.FormView" {
			t.Errorf("Name = %q", cls.Name)
		}
		if cls.SourceFile != "FormView.java" {
			t.Errorf("SourceFile = %q", cls.SourceFile)
		}
		if cls.SuperClass != "com.google.gwt.user.client.ui.Composite" {
			t.Errorf("SuperClass = %q", cls.SuperClass)
		}
		if len(cls.Interfaces) != 1 || cls.Interfaces[0].Name != "com.google.gwt.user.client.ui.IsWidget" {
			t.Errorf("Interfaces = %+v", cls.Interfaces)
		}
		if cls.Visibility != VisibilityPublic {
			t.Errorf("Visibility = %q", cls.Visibility)
		}
		want := source.Span{Start: source.Position{Line: 8, Column: 13}, End: source.Position{Line: 8, Column: 21}}
		if cls.NameSpan != want {
			t.Errorf("NameSpan = %+v, want %+v", cls.NameSpan, want)
		}
	})

	t.Run("class annotation value", func(t *testing.T) {
		ann := cls.Annotation("org.jboss.errai.ui.shared.api.annotations.Templated")
		if ann == nil {
			t.Fatal("Expected @Templated")
		}
		v, ok := ann.Value("value")
		if !ok || v.Kind != ValueString || v.Text != "Form.html#root" {
			t.Fatalf("value = %+v", v)
		}
		want := source.Span{Start: source.Position{Line: 7, Column: 12}, End: source.Position{Line: 7, Column: 26}}
		if v.Span != want {
			t.Errorf("value span = %+v, want %+v", v.Span, want)
		}
	})

	t.Run("fields", func(t *testing.T) {
		name := cls.Field("name")
		if name == nil {
			t.Fatal("Expected field name")
		}
		if name.Type.Name != "com.google.gwt.user.client.ui.TextBox" {
			t.Errorf("name type = %q", name.Type.Name)
		}
		if name.Visibility != VisibilityPrivate {
			t.Errorf("name visibility = %q", name.Visibility)
		}
		tags := cls.Field("tags")
		if tags == nil {
			t.Fatal("Expected field tags")
		}
		if tags.Type.Name != "java.util.List" {
			t.Errorf("tags type = %q", tags.Type.Name)
		}
		arg, ok := tags.Type.FirstTypeArgument()
		if !ok || arg.Name != StringClass {
			t.Errorf("tags type argument = %+v", arg)
		}
		if tags.Annotation("org.jboss.errai.ui.shared.api.annotations.DataField") == nil {
			t.Error("Expected @DataField on tags")
		}
	})

	t.Run("methods", func(t *testing.T) {
		ctors := cls.Constructors()
		if len(ctors) != 1 || len(ctors[0].Parameters) != 1 || ctors[0].Parameters[0].Type.Name != "int" {
			t.Fatalf("constructors = %+v", ctors)
		}
		getter := findMethod(cls, "getName")
		if getter == nil || getter.ReturnType.Name != StringClass {
			t.Fatalf("getName = %+v", getter)
		}
		log := findMethod(cls, "log")
		if log == nil {
			t.Fatal("Expected method log")
		}
		if !log.IsNative || !log.IsStatic {
			t.Errorf("log modifiers: native=%v static=%v", log.IsNative, log.IsStatic)
		}
		if len(log.Parameters) != 1 || log.Parameters[0].Type.ArrayDepth != 1 {
			t.Errorf("log parameters = %+v", log.Parameters)
		}
	})
}

func TestClassModelsFromSourceNested(t *testing.T) {
	src := []byte(`package org.example;

public class Outer {
    public static class Inner {
        private String value;
    }

    private Inner inner;

    interface Callback { void done(); }
}
`)
	models, err := ClassModelsFromSource(src)
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	if len(models) != 3 {
		t.Fatalf("Expected 3 models, got %d", len(models))
	}

	outer := findModel(models, "org.example.Outer")
	inner := findModel(models, "org.example.Outer.Inner")
	callback := findModel(models, "org.example.Outer.Callback")
	if outer == nil || inner == nil || callback == nil {
		t.Fatalf("missing models: %v %v %v", outer, inner, callback)
	}
	if inner.EnclosingClass != outer.Name {
		t.Errorf("EnclosingClass = %q", inner.EnclosingClass)
	}
	if !inner.IsStatic {
		t.Error("Expected Inner to be static")
	}
	if got := outer.Field("inner").Type.Name; got != "org.example.Outer.Inner" {
		t.Errorf("inner field type = %q", got)
	}
	if callback.Kind != ClassKindInterface || callback.SuperClass != "" {
		t.Errorf("callback kind=%q super=%q", callback.Kind, callback.SuperClass)
	}
	if m := findMethod(callback, "done"); m == nil || !m.IsAbstract {
		t.Errorf("done = %+v", m)
	}
	if outer.SuperClass != ObjectClass {
		t.Errorf("implicit superclass = %q", outer.SuperClass)
	}
}

func TestClassModelsFromSourceAnnotationValues(t *testing.T) {
	src := []byte(`package org.example;

import org.jboss.errai.ui.shared.api.annotations.EventHandler;
import com.google.gwt.event.dom.client.ClickEvent;

public class Buttons {
    @EventHandler({"save", "cancel"})
    void onClick(@Deprecated final ClickEvent e) {}

    @Converter(type = Integer.class, name = "x")
    int count;
}
`)
	models, err := ClassModelsFromSource(src)
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	cls := models[0]

	handler := findMethod(cls, "onClick")
	if handler == nil {
		t.Fatal("Expected onClick")
	}
	ann := handler.Annotation("org.jboss.errai.ui.shared.api.annotations.EventHandler")
	if ann == nil {
		t.Fatal("Expected @EventHandler")
	}
	v, _ := ann.Value("value")
	strs := v.Strings()
	if len(strs) != 2 || strs[0].Text != "save" || strs[1].Text != "cancel" {
		t.Errorf("strings = %+v", strs)
	}
	if len(handler.Parameters) != 1 {
		t.Fatalf("parameters = %+v", handler.Parameters)
	}
	param := handler.Parameters[0]
	if param.Type.Name != "com.google.gwt.event.dom.client.ClickEvent" || !param.IsFinal {
		t.Errorf("parameter = %+v", param)
	}
	if param.Annotation("java.lang.Deprecated") == nil {
		t.Error("Expected @Deprecated on parameter")
	}

	conv := cls.Field("count").Annotation("org.example.Converter")
	if conv == nil {
		t.Fatal("Expected @Converter resolved in the current package")
	}
	typ, _ := conv.Value("type")
	if typ.Kind != ValueClass || typ.Text != "java.lang.Integer" {
		t.Errorf("type = %+v", typ)
	}
}

func TestClassModelsFromSourceTypeParameters(t *testing.T) {
	src := []byte(`package com.google.gwt.user.client.ui;

public class ValueBoxBase<T> extends FocusWidget implements HasValue<T> {
    public T getValue() { return null; }
    public <V extends Number> V convert(V in) { return in; }
}
`)
	models, err := ClassModelsFromSource(src)
	if err != nil {
		t.Fatalf("Failed to parse source: %v", err)
	}
	cls := models[0]
	if len(cls.TypeParameters) != 1 || cls.TypeParameters[0].Name != "T" {
		t.Fatalf("type parameters = %+v", cls.TypeParameters)
	}
	if len(cls.Interfaces) != 1 {
		t.Fatalf("interfaces = %+v", cls.Interfaces)
	}
	arg, ok := cls.Interfaces[0].FirstTypeArgument()
	if !ok || arg.Name != "T" {
		t.Errorf("HasValue argument = %+v", arg)
	}
	if got := findMethod(cls, "getValue").ReturnType.Name; got != "T" {
		t.Errorf("getValue returns %q", got)
	}
	convert := findMethod(cls, "convert")
	if convert.ReturnType.Name != "V" || convert.Parameters[0].Type.Name != "V" {
		t.Errorf("convert = %+v", convert)
	}
}

func TestResolveInnerClassReferences(t *testing.T) {
	auth, err := ClassModelsFromSource([]byte(`package org.eclipse.jetty.client;
public class Authentication {
    public static class HeaderInfo {}
}
`))
	if err != nil {
		t.Fatal(err)
	}
	user, err := ClassModelsFromSource([]byte(`package org.eclipse.jetty.client;
public class User {
    HeaderInfo info;
}
`))
	if err != nil {
		t.Fatal(err)
	}
	all := append(auth, user...)

	u := findModel(all, "org.eclipse.jetty.client.User")
	if got := u.Field("info").Type.Name; got != "org.eclipse.jetty.client.HeaderInfo" {
		t.Fatalf("before fixup: %q", got)
	}
	ResolveInnerClassReferences(all, user)
	if got := u.Field("info").Type.Name; got != "org.eclipse.jetty.client.Authentication.HeaderInfo" {
		t.Errorf("after fixup: %q", got)
	}
}
