package types

import "testing"

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"equal ints", Int(7), Int(7), true},
		{"different ints", Int(7), Int(8), false},
		{"equal text", Text("x"), Text("x"), true},
		{"different text", Text("x"), Text("y"), false},
		{"equal bool", Bool(true), Bool(true), true},
		{"different bool", Bool(true), Bool(false), false},
		{"different kinds", Int(1), Text("1"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.equal {
				t.Errorf("Equal() = %v, want %v", got, tc.equal)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	if got := Int(42).String(); got != "42" {
		t.Errorf("Int(42).String() = %q, want %q", got, "42")
	}
	if got := Text("hi").String(); got != `"hi"` {
		t.Errorf("Text(\"hi\").String() = %q, want %q", got, `"hi"`)
	}
	if got := Bool(true).String(); got != "true" {
		t.Errorf("Bool(true).String() = %q, want %q", got, "true")
	}
	if got := Bool(false).String(); got != "false" {
		t.Errorf("Bool(false).String() = %q, want %q", got, "false")
	}
}

func TestParseColumnAttribute(t *testing.T) {
	if attr, ok := ParseColumnAttribute("INT"); !ok || attr != IntKind {
		t.Errorf("ParseColumnAttribute(INT) = (%v, %v), want (IntKind, true)", attr, ok)
	}
	if attr, ok := ParseColumnAttribute("TEXT"); !ok || attr != TextKind {
		t.Errorf("ParseColumnAttribute(TEXT) = (%v, %v), want (TextKind, true)", attr, ok)
	}
	if _, ok := ParseColumnAttribute("DOUBLE"); ok {
		t.Error("ParseColumnAttribute(DOUBLE) should report ok=false")
	}
	if _, ok := ParseColumnAttribute("BOOLEAN"); ok {
		t.Error("ParseColumnAttribute(BOOLEAN) should report ok=false: not user-declarable")
	}
}

func TestRowClone(t *testing.T) {
	r := Row{"a": Int(1)}
	c := r.Clone()
	c["a"] = Int(2)
	if r["a"].I != 1 {
		t.Error("Clone() did not produce an independent copy")
	}
}
