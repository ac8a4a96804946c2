package java

import "testing"

func TestErase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"String", "String"},
		{"java.util.List<String>", "java.util.List"},
		{"Map<String, List<Map<K, V>>>", "Map"},
		{"DataBinder<? extends Person>", "DataBinder"},
		{"int[]", "int"},
		{"  Foo <Bar> ", "Foo"},
		{"Broken<", "Broken"},
	}
	for _, tt := range tests {
		if got := Erase(tt.in); got != tt.want {
			t.Errorf("Erase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature("Map<String, List<? extends Number>>[][]")
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if sig.Erasure() != "Map" {
		t.Errorf("Erasure() = %q", sig.Erasure())
	}
	if sig.ArrayDepth() != 2 {
		t.Errorf("ArrayDepth() = %d, want 2", sig.ArrayDepth())
	}
	if len(sig.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(sig.Args))
	}
	inner := sig.Args[1].Type
	if inner == nil || inner.Erasure() != "List" {
		t.Fatalf("second argument = %+v", sig.Args[1])
	}
	wc := inner.Args[0].Wildcard
	if wc == nil || wc.Bound == nil || wc.Bound.Kind != "extends" || wc.Bound.Type.Erasure() != "Number" {
		t.Errorf("wildcard = %+v", wc)
	}
	if got := sig.String(); got != "Map<String, List<? extends Number>>[][]" {
		t.Errorf("String() = %q", got)
	}
}

func TestSignatureTypeModel(t *testing.T) {
	sig, err := ParseSignature("DataBinder<Person>")
	if err != nil {
		t.Fatal(err)
	}
	tm := sig.TypeModel(func(name string) string { return "com.example." + name })
	if tm.Name != "com.example.DataBinder" {
		t.Errorf("Name = %q", tm.Name)
	}
	arg, ok := tm.FirstTypeArgument()
	if !ok || arg.Name != "com.example.Person" {
		t.Errorf("FirstTypeArgument() = %+v, %v", arg, ok)
	}
}

func TestVarargs(t *testing.T) {
	sig, err := ParseSignature("String...")
	if err != nil {
		t.Fatal(err)
	}
	if sig.ArrayDepth() != 1 {
		t.Errorf("ArrayDepth() = %d, want 1", sig.ArrayDepth())
	}
}
