package match

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"martianoff/pama/pamaerr"
)

// ErrStop is returned by a clause body to stop a Sequence from running any
// further clauses. It is a control signal, not a failure: Run swallows it.
var ErrStop = errors.New("match: stop")

// Body is the code a clause runs when its pattern fits. It receives the
// bindings of the successful match only.
type Body func(Bindings) error

// Clause pairs a compiled pattern with the body to run on a fit. The pattern
// compiles once, when the clause is built, so a malformed template surfaces
// at construction rather than on first subject.
type Clause struct {
	matcher *Matcher
	guard   func(Bindings) bool
	body    Body
}

// NewClause compiles src and pairs it with body.
func NewClause(src string, body Body, opts ...Option) (*Clause, error) {
	m, err := CompileString(src, opts...)
	if err != nil {
		return nil, pamaerr.Wrapf(err, "clause %q", src)
	}
	return &Clause{matcher: m, body: body}, nil
}

// MustClause is NewClause panicking on a malformed template.
func MustClause(src string, body Body, opts ...Option) *Clause {
	c, err := NewClause(src, body, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// When adds a guard evaluated over the bindings after the pattern fits. A
// clause whose guard returns false is treated as not matching.
func (c *Clause) When(guard func(Bindings) bool) *Clause {
	c.guard = guard
	return c
}

func (c *Clause) take(subject any) (Bindings, bool) {
	b, ok := c.matcher.Match(subject)
	if !ok {
		return nil, false
	}
	if c.guard != nil && !c.guard(b) {
		return nil, false
	}
	return b, true
}

// Block is the exclusive first-match-wins form: exactly one clause runs per
// subject, and a subject no clause accepts is an error.
type Block struct {
	clauses []*Clause
	log     *zap.Logger
}

// NewBlock builds a block over clauses, tried in the given order.
func NewBlock(clauses ...*Clause) *Block {
	return &Block{clauses: clauses, log: zap.NewNop()}
}

// WithLogger enables block-level tracing.
func (bl *Block) WithLogger(log *zap.Logger) *Block {
	bl.log = log
	return bl
}

// Match runs the first clause that accepts subject and returns its body's
// error. When no clause accepts, it returns an ExhaustionError carrying the
// subject.
func (bl *Block) Match(subject any) error {
	for i, c := range bl.clauses {
		b, ok := c.take(subject)
		if !ok {
			continue
		}
		bl.log.Debug("clause matched", zap.Int("clause", i))
		return c.body(b)
	}
	return pamaerr.NewExhaustionError(subject)
}

// Sequence is the non-exclusive form: every clause that accepts the subject
// runs, in order, unless a body returns ErrStop. A subject no clause accepts
// is not an error here.
type Sequence struct {
	clauses []*Clause
	log     *zap.Logger
}

// NewSequence builds a sequence over clauses, tried in the given order.
func NewSequence(clauses ...*Clause) *Sequence {
	return &Sequence{clauses: clauses, log: zap.NewNop()}
}

// WithLogger enables sequence-level tracing.
func (sq *Sequence) WithLogger(log *zap.Logger) *Sequence {
	sq.log = log
	return sq
}

// Run feeds subject to every clause in order. It returns how many clause
// bodies ran. A body returning ErrStop ends the run without error; any other
// body error aborts the run and is returned as is.
func (sq *Sequence) Run(subject any) (int, error) {
	ran := 0
	for i, c := range sq.clauses {
		b, ok := c.take(subject)
		if !ok {
			continue
		}
		sq.log.Debug("clause matched", zap.Int("clause", i))
		ran++
		if err := c.body(b); err != nil {
			if errors.Is(err, ErrStop) {
				return ran, nil
			}
			return ran, err
		}
	}
	return ran, nil
}
