package lvcs

import (
	"errors"
	"fmt"

	decs "ligerozk/DECS"
	"ligerozk/internal/field"
)

// Fixed rows ahead of the witness rows.
const (
	blindRow        = 0 // masks the low-degree combination
	r0Row           = 1 // masks the low half of the linear-test polynomial
	r1Row           = 2 // masks the high half
	firstWitnessRow = 3
)

var ErrLayout = errors.New("lvcs: invalid layout")

// Layout fixes how a committed vector of NW elements is cut into rows.
// Each row polynomial carries Ell message coefficients followed by Req random
// ones, so any Req openings are independent of the message.
type Layout struct {
	NW          int
	Rate        int
	Req         int
	K           int // coefficients per row, a power of two
	Ell         int // message coefficients per row
	WitnessRows int
	N           int // codeword length Rate·K
}

// NewLayout picks k = nextPow2(max(2·req, ceil(sqrt(nw))+req)).
func NewLayout(nw, rate, req int) (Layout, error) {
	if nw <= 0 {
		return Layout{}, fmt.Errorf("%w: empty vector", ErrLayout)
	}
	if req <= 0 {
		return Layout{}, fmt.Errorf("%w: req must be positive, got %d", ErrLayout, req)
	}
	if rate < 2 || rate&(rate-1) != 0 {
		return Layout{}, fmt.Errorf("%w: rate must be a power of two >= 2, got %d", ErrLayout, rate)
	}
	s := isqrtCeil(nw)
	want := s + req
	if want < 2*req {
		want = 2 * req
	}
	k := 1
	for k < want {
		k <<= 1
	}
	ell := k - req
	return Layout{
		NW:          nw,
		Rate:        rate,
		Req:         req,
		K:           k,
		Ell:         ell,
		WitnessRows: (nw + ell - 1) / ell,
		N:           rate * k,
	}, nil
}

func isqrtCeil(n int) int {
	s := 0
	for s*s < n {
		s++
	}
	return s
}

// Rows counts witness rows plus the three blinding rows.
func (l Layout) Rows() int { return l.WitnessRows + firstWitnessRow }

// Depth is the Merkle path length over the N columns.
func (l Layout) Depth() int { return decs.TreeDepth(l.N) }

// LDWeights is the number of rows folded by the low-degree test.
func (l Layout) LDWeights() int { return l.Rows() - 1 }

// Term is C·W[W].
type Term[E any] struct {
	W int
	C E
}

// Constraint asks sum Terms = RHS over the committed vector.
type Constraint[E any] struct {
	Terms []Term[E]
	RHS   E
}

// Fold combines constraints with weights alpha into one dense row a and a
// target, a = sum_i alpha_i·A_i and target = sum_i alpha_i·b_i.
func Fold[E any](f field.Field[E], nw int, cs []Constraint[E], alpha []E) ([]E, E) {
	if len(alpha) != len(cs) {
		panic("lvcs: Fold: one weight per constraint")
	}
	a := make([]E, nw)
	for i := range a {
		a[i] = f.Zero()
	}
	target := f.Zero()
	for i, c := range cs {
		for _, t := range c.Terms {
			a[t.W] = f.Add(a[t.W], f.Mul(alpha[i], t.C))
		}
		target = f.Add(target, f.Mul(alpha[i], c.RHS))
	}
	return a, target
}

// Response carries the prover's two test polynomials in coefficient form.
type Response[E any] struct {
	LD []E // K coefficients
	Q  []E // 2K-1 coefficients
}

// NewResponse allocates a response shaped for l.
func NewResponse[E any](l Layout) *Response[E] {
	return &Response[E]{LD: make([]E, l.K), Q: make([]E, 2*l.K-1)}
}

// Opening is the set of opened columns and their authentication data.
type Opening[X any] struct {
	Columns [][]X // Req × Rows
	DECS    *decs.Opening
}

// NewOpening allocates an opening shaped for l.
func NewOpening[X any](l Layout) *Opening[X] {
	op := &Opening[X]{
		Columns: make([][]X, l.Req),
		DECS:    decs.NewOpening(l.Req, l.Depth()),
	}
	for t := range op.Columns {
		op.Columns[t] = make([]X, l.Rows())
	}
	return op
}

func columnBytes[X any](ext field.Field[X], col []X) []byte {
	return field.AppendElements(ext, make([]byte, 0, len(col)*ext.ByteLen()), col...)
}
