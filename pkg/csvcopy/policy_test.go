package csvcopy_test

import (
	"reflect"
	"testing"

	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

func TestExact(t *testing.T) {
	tests := []struct {
		n      int
		fields []string
		want   []string
		ok     bool
	}{
		{3, []string{"a", "b", "c"}, []string{"a", "b", "c"}, true},
		{3, []string{"a", "b", "c", "d"}, []string{"a", "b", "c"}, true},
		{3, []string{"a", "b"}, nil, false},
		{0, []string{"a"}, []string{}, true},
		{1, []string{""}, []string{""}, true},
	}
	for _, tt := range tests {
		got, ok := csvcopy.ExactFields(tt.n).Shape(tt.fields)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Exact(%d).Shape(%q) = %q, %v; want %q, %v", tt.n, tt.fields, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShape_DoesNotAlias(t *testing.T) {
	for _, p := range []csvcopy.FieldCountPolicy{csvcopy.Unconstrained{}, csvcopy.ExactFields(2)} {
		in := []string{"a", "b", "c"}
		out, ok := p.Shape(in)
		if !ok {
			t.Fatalf("%v dropped record", p)
		}
		out[0] = "x"
		if in[0] != "a" {
			t.Errorf("%v: Shape result aliases its input", p)
		}
	}
}

func TestUnconstrained(t *testing.T) {
	for _, fields := range [][]string{{}, {""}, {"a", "b", "c", "d"}} {
		got, ok := csvcopy.Unconstrained{}.Shape(fields)
		if !ok || !reflect.DeepEqual(got, fields) {
			t.Errorf("Shape(%q) = %q, %v", fields, got, ok)
		}
	}
}

func TestPolicy_String(t *testing.T) {
	if got := csvcopy.ExactFields(4).String(); got != "exact(4)" {
		t.Errorf("String() = %q", got)
	}
	if got := (csvcopy.Unconstrained{}).String(); got != "unconstrained" {
		t.Errorf("String() = %q", got)
	}
	if csvcopy.ExactFields(1).Flexible() || !(csvcopy.Unconstrained{}).Flexible() {
		t.Error("Flexible() mismatch")
	}
}
