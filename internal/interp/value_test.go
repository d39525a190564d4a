package interp

import "testing"

func TestValueEquals(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"int-int-equal", IntVal(3), IntVal(3), true},
		{"int-int-differ", IntVal(3), IntVal(4), false},
		{"int-float-cross", IntVal(3), FloatVal(3.0), true},
		{"float-int-cross", FloatVal(2.5), IntVal(2), false},
		{"null-null", NullVal(), NullVal(), true},
		{"str-str-equal", StrVal("a"), StrVal("a"), true},
		{"str-str-differ", StrVal("a"), StrVal("b"), false},
		{"bool-bool", BoolVal(true), BoolVal(true), true},
		{"null-vs-int", NullVal(), IntVal(0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.a.Equals(c.b); got != c.equal {
				t.Errorf("Equals(%v, %v) = %v, want %v", c.a.Inspect(), c.b.Inspect(), got, c.equal)
			}
		})
	}
}

func TestValueAccessors(t *testing.T) {
	if !IntVal(5).IsInt() {
		t.Error("IntVal should report IsInt")
	}
	if !FloatVal(1.5).IsFloat() {
		t.Error("FloatVal should report IsFloat")
	}
	if !NullVal().IsNull() {
		t.Error("NullVal should report IsNull")
	}
	s, ok := StrVal("hi").AsStr()
	if !ok || s != "hi" {
		t.Errorf("AsStr() = %q, %v", s, ok)
	}
	if _, ok := IntVal(1).AsStr(); ok {
		t.Error("AsStr should fail on a non-string Value")
	}
}

func TestValueInspect(t *testing.T) {
	if got := IntVal(42).Inspect(); got != "42" {
		t.Errorf("Inspect(42) = %q", got)
	}
	if got := NullVal().Inspect(); got != "null" {
		t.Errorf("Inspect(null) = %q", got)
	}
	if got := BoolVal(true).Inspect(); got != "true" {
		t.Errorf("Inspect(true) = %q", got)
	}
}
