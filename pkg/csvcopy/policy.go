package csvcopy

import "strconv"

// FieldCountPolicy decides, once per record, whether a parsed record is
// accepted and what shape it is written with.
//
// The two implementations are Unconstrained and Exact. The set is closed.
type FieldCountPolicy interface {
	// Shape returns the record to write and true, or nil and false when the
	// record is dropped. The input slice is never modified or aliased.
	Shape(fields []string) ([]string, bool)

	// Flexible reports whether accepted records may vary in width.
	Flexible() bool

	String() string

	sealed()
}

// Unconstrained accepts every record as-is.
type Unconstrained struct{}

// Exact accepts records with at least N fields, truncated to exactly N.
// Shorter records are dropped.
type Exact struct {
	N int
}

// ExactFields returns an Exact policy for n fields.
func ExactFields(n int) Exact {
	return Exact{N: n}
}

func (Unconstrained) Shape(fields []string) ([]string, bool) {
	out := make([]string, len(fields))
	copy(out, fields)
	return out, true
}

func (Unconstrained) Flexible() bool { return true }

func (Unconstrained) String() string { return "unconstrained" }

func (Unconstrained) sealed() {}

func (p Exact) Shape(fields []string) ([]string, bool) {
	if len(fields) < p.N {
		return nil, false
	}
	out := make([]string, p.N)
	copy(out, fields[:p.N])
	return out, true
}

func (Exact) Flexible() bool { return false }

func (p Exact) String() string { return "exact(" + strconv.Itoa(p.N) + ")" }

func (Exact) sealed() {}
