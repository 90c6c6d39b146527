package csvcopy

// RecordReader produces records one at a time, returning io.EOF at the end.
// *Reader and *Shaper both implement it.
type RecordReader interface {
	Read() ([]string, error)
}

// DropHandler observes a record dropped by the field count policy.
// line is the input line the record started on, or 0 when unknown.
type DropHandler func(line int, fields []string)

// Stats counts records passing through a run.
type Stats struct {
	// Read is the number of records produced by the parser.
	Read int64
	// Written is the number of records accepted and written.
	Written int64
	// Dropped is the number of records dropped by the field count policy.
	Dropped int64
}

// Shaper applies a FieldCountPolicy to a stream of records. Read returns
// the next accepted record; dropped records are skipped silently apart from
// the counter and the optional DropHandler.
type Shaper struct {
	src    RecordReader
	policy FieldCountPolicy
	onDrop DropHandler
	stats  Stats
}

// NewShaper wraps src with policy. A nil policy means Unconstrained.
func NewShaper(src RecordReader, policy FieldCountPolicy, onDrop DropHandler) *Shaper {
	if policy == nil {
		policy = Unconstrained{}
	}
	return &Shaper{src: src, policy: policy, onDrop: onDrop}
}

// Read returns the next accepted record, or io.EOF.
func (s *Shaper) Read() ([]string, error) {
	for {
		fields, err := s.src.Read()
		if err != nil {
			return nil, err
		}
		s.stats.Read++

		shaped, ok := s.policy.Shape(fields)
		if ok {
			return shaped, nil
		}

		s.stats.Dropped++
		if s.onDrop != nil {
			s.onDrop(s.line(), fields)
		}
	}
}

// Stats returns the counts so far. Written is always zero here; the
// pipeline fills it in.
func (s *Shaper) Stats() Stats {
	return s.stats
}

func (s *Shaper) line() int {
	if lr, ok := s.src.(interface{ Line() int }); ok {
		return lr.Line()
	}
	return 0
}
