// Package circuit builds immutable arithmetic circuits. Gates live in an arena
// and refer to each other by index; Compile flattens every wire into a linear
// form over the instance vector v = [inputs | multiplication outputs], where
// inputs[0] is the constant one.
package circuit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"ligerozk/internal/field"

	"golang.org/x/crypto/sha3"
)

// Wire addresses a gate in the builder arena.
type Wire int

// Op is a gate kind.
type Op uint8

const (
	OpInput Op = iota
	OpConst
	OpAdd
	OpSub
	OpMul
)

func (o Op) String() string {
	switch o {
	case OpInput:
		return "input"
	case OpConst:
		return "const"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Gate is one arena record. For inputs Arg is the input column, for
// multiplications it is the multiplication index.
type Gate[E any] struct {
	Op   Op
	L, R Wire
	Arg  int
	C    E
}

var (
	ErrEmptyBatch    = errors.New("circuit: batch size must be positive")
	ErrInputOrder    = errors.New("circuit: public inputs must be declared before private inputs")
	ErrForeignWire   = errors.New("circuit: wire does not belong to this builder")
	ErrNoConstraints = errors.New("circuit: circuit has no assertions and no multiplications")
)

// Builder accumulates gates. It is not safe for concurrent use.
type Builder[E any] struct {
	f        field.Field[E]
	gates    []Gate[E]
	asserts  [][2]Wire
	ninputs  int
	npublic  int
	nmul     int
	private  bool
	firstErr error
}

// NewBuilder returns an empty builder; input column 0 is reserved for one.
func NewBuilder[E any](f field.Field[E]) *Builder[E] {
	return &Builder[E]{f: f, ninputs: 1, npublic: 1}
}

func (b *Builder[E]) push(g Gate[E]) Wire {
	b.gates = append(b.gates, g)
	return Wire(len(b.gates) - 1)
}

func (b *Builder[E]) check(ws ...Wire) {
	for _, w := range ws {
		if int(w) < 0 || int(w) >= len(b.gates) {
			if b.firstErr == nil {
				b.firstErr = fmt.Errorf("%w: %d", ErrForeignWire, w)
			}
		}
	}
}

// PublicInput declares the next public column.
func (b *Builder[E]) PublicInput() Wire {
	if b.private && b.firstErr == nil {
		b.firstErr = ErrInputOrder
	}
	col := b.ninputs
	b.ninputs++
	b.npublic++
	return b.push(Gate[E]{Op: OpInput, Arg: col})
}

// PrivateInput declares the next private column.
func (b *Builder[E]) PrivateInput() Wire {
	b.private = true
	col := b.ninputs
	b.ninputs++
	return b.push(Gate[E]{Op: OpInput, Arg: col})
}

func (b *Builder[E]) Const(c E) Wire { return b.push(Gate[E]{Op: OpConst, C: c}) }

func (b *Builder[E]) Add(x, y Wire) Wire {
	b.check(x, y)
	return b.push(Gate[E]{Op: OpAdd, L: x, R: y})
}

func (b *Builder[E]) Sub(x, y Wire) Wire {
	b.check(x, y)
	return b.push(Gate[E]{Op: OpSub, L: x, R: y})
}

func (b *Builder[E]) Mul(x, y Wire) Wire {
	b.check(x, y)
	m := b.nmul
	b.nmul++
	return b.push(Gate[E]{Op: OpMul, L: x, R: y, Arg: m})
}

// AssertEq constrains x and y to carry equal values.
func (b *Builder[E]) AssertEq(x, y Wire) {
	b.check(x, y)
	b.asserts = append(b.asserts, [2]Wire{x, y})
}

// Compile freezes the builder into a circuit proved over batch instances.
func (b *Builder[E]) Compile(batch int) (*Circuit[E], error) {
	if b.firstErr != nil {
		return nil, b.firstErr
	}
	if batch <= 0 {
		return nil, ErrEmptyBatch
	}
	if len(b.asserts) == 0 && b.nmul == 0 {
		return nil, ErrNoConstraints
	}
	c := &Circuit[E]{
		f:       b.f,
		gates:   append([]Gate[E](nil), b.gates...),
		NInputs: b.ninputs,
		NPublic: b.npublic,
		NMul:    b.nmul,
		Batch:   batch,
	}
	lin := make([]Lin[E], len(b.gates))
	c.MulL = make([]Lin[E], b.nmul)
	c.MulR = make([]Lin[E], b.nmul)
	for i, g := range b.gates {
		switch g.Op {
		case OpInput:
			lin[i] = Lin[E]{{Index: g.Arg, Coeff: b.f.One()}}
		case OpConst:
			lin[i] = Lin[E]{{Index: 0, Coeff: g.C}}
		case OpAdd:
			lin[i] = combine(b.f, lin[g.L], lin[g.R], b.f.One())
		case OpSub:
			lin[i] = combine(b.f, lin[g.L], lin[g.R], b.f.Neg(b.f.One()))
		case OpMul:
			c.MulL[g.Arg] = lin[g.L]
			c.MulR[g.Arg] = lin[g.R]
			lin[i] = Lin[E]{{Index: b.ninputs + g.Arg, Coeff: b.f.One()}}
		}
	}
	c.Asserts = make([]Lin[E], len(b.asserts))
	for i, a := range b.asserts {
		c.Asserts[i] = combine(b.f, lin[a[0]], lin[a[1]], b.f.Neg(b.f.One()))
	}
	c.id = c.digest()
	return c, nil
}

// Term is coeff·v[Index].
type Term[E any] struct {
	Index int
	Coeff E
}

// Lin is a sparse linear form sorted by index without zero coefficients.
type Lin[E any] []Term[E]

// Eval returns the form applied to v.
func (l Lin[E]) Eval(f field.Field[E], v []E) E {
	acc := f.Zero()
	for _, t := range l {
		acc = f.Add(acc, f.Mul(t.Coeff, v[t.Index]))
	}
	return acc
}

// combine returns x + s·y.
func combine[E any](f field.Field[E], x, y Lin[E], s E) Lin[E] {
	acc := make(map[int]E, len(x)+len(y))
	for _, t := range x {
		acc[t.Index] = t.Coeff
	}
	for _, t := range y {
		c := f.Mul(s, t.Coeff)
		if prev, ok := acc[t.Index]; ok {
			c = f.Add(prev, c)
		}
		acc[t.Index] = c
	}
	out := make(Lin[E], 0, len(acc))
	for idx, c := range acc {
		if !f.IsZero(c) {
			out = append(out, Term[E]{Index: idx, Coeff: c})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Circuit is immutable after Compile and shared read-only by prover and
// verifier.
type Circuit[E any] struct {
	f     field.Field[E]
	gates []Gate[E]
	id    [32]byte

	// NInputs counts every input column including the constant one.
	NInputs int
	// NPublic counts column 0 and the public inputs.
	NPublic int
	NMul    int
	Batch   int

	// MulL[m]·v and MulR[m]·v are the operands of multiplication m, whose
	// output is v[NInputs+m].
	MulL, MulR []Lin[E]
	// Asserts[a]·v must vanish.
	Asserts []Lin[E]
}

// NV is the length of the per-instance vector v.
func (c *Circuit[E]) NV() int { return c.NInputs + c.NMul }

// ID binds the gate structure and shape.
func (c *Circuit[E]) ID() [32]byte { return c.id }

func (c *Circuit[E]) digest() [32]byte {
	h := sha3.New256()
	var buf [8]byte
	put := func(x int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(x))
		_, _ = h.Write(buf[:])
	}
	put(c.NInputs)
	put(c.NPublic)
	put(c.NMul)
	put(c.Batch)
	put(len(c.gates))
	for _, g := range c.gates {
		_, _ = h.Write([]byte{byte(g.Op)})
		put(int(g.L))
		put(int(g.R))
		put(g.Arg)
		if g.Op == OpConst {
			_, _ = h.Write(c.f.Bytes(g.C))
		}
	}
	put(len(c.Asserts))
	for _, a := range c.Asserts {
		put(len(a))
		for _, t := range a {
			put(t.Index)
			_, _ = h.Write(c.f.Bytes(t.Coeff))
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Extend evaluates the circuit on one input row and returns the instance
// vector v = [row | multiplication outputs].
func (c *Circuit[E]) Extend(row []E) []E {
	if len(row) != c.NInputs {
		panic(fmt.Sprintf("circuit: Extend: row has %d columns, circuit has %d inputs", len(row), c.NInputs))
	}
	v := make([]E, c.NV())
	copy(v, row)
	// multiplications only read earlier wires, so arena order is a valid
	// evaluation order
	for m := 0; m < c.NMul; m++ {
		v[c.NInputs+m] = c.f.Mul(c.MulL[m].Eval(c.f, v), c.MulR[m].Eval(c.f, v))
	}
	return v
}

// Satisfied reports whether v carries one in column 0 and meets every
// assertion. It returns the index of the first failing assertion, or -1 for
// the constant column.
func (c *Circuit[E]) Satisfied(v []E) (bool, int) {
	if !c.f.Equal(v[0], c.f.One()) {
		return false, -1
	}
	for i, a := range c.Asserts {
		if !c.f.IsZero(a.Eval(c.f, v)) {
			return false, i
		}
	}
	return true, 0
}
