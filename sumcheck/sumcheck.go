// Package sumcheck runs the zero-check sum_x eq(tau,x)·(X(x)·Y(x) - Z(x)) = 0
// over multilinear tables. Variables are bound least significant bit first:
// folding with r maps T[2j], T[2j+1] to T[2j] + r·(T[2j+1] - T[2j]).
package sumcheck

import (
	"ligerozk/internal/field"
)

// Evals is the number of evaluations (at 0, 1, 2, 3) sent per round.
const Evals = 4

// Rounds is the number of variables needed for nslots table entries; at
// least one round is always run.
func Rounds(nslots int) int {
	n := 1
	for (1 << n) < nslots {
		n++
	}
	return n
}

// Lagrange returns the basis polynomials for the nodes 0..3 evaluated at r.
func Lagrange[E any](f field.Field[E], r E) [Evals]E {
	one := f.One()
	two := f.FromUint64(2)
	three := f.FromUint64(3)
	r1 := f.Sub(r, one)
	r2 := f.Sub(r, two)
	r3 := f.Sub(r, three)
	inv2 := f.Inv(two)
	inv6 := f.Inv(f.FromUint64(6))
	return [Evals]E{
		f.Neg(f.Mul(f.Mul(f.Mul(r1, r2), r3), inv6)),
		f.Mul(f.Mul(f.Mul(r, r2), r3), inv2),
		f.Neg(f.Mul(f.Mul(f.Mul(r, r1), r3), inv2)),
		f.Mul(f.Mul(f.Mul(r, r1), r2), inv6),
	}
}

// Interpolate evaluates the cubic with values evals at 0..3 at r.
func Interpolate[E any](f field.Field[E], evals [Evals]E, r E) E {
	l := Lagrange(f, r)
	acc := f.Zero()
	for t := range l {
		acc = f.Add(acc, f.Mul(l[t], evals[t]))
	}
	return acc
}

// EqTable returns eq(point, x) for every x in {0,1}^len(point); bit b of x
// pairs with point[b].
func EqTable[E any](f field.Field[E], point []E) []E {
	out := []E{f.One()}
	for b := 0; b < len(point); b++ {
		hi := point[b]
		lo := f.Sub(f.One(), hi)
		next := make([]E, 2*len(out))
		half := len(out)
		for x := 0; x < half; x++ {
			next[x] = f.Mul(out[x], lo)
			next[x+half] = f.Mul(out[x], hi)
		}
		out = next
	}
	return out
}

// Eq returns prod_b (a_b·c_b + (1-a_b)(1-c_b)).
func Eq[E any](f field.Field[E], a, c []E) E {
	if len(a) != len(c) {
		panic("sumcheck: Eq length mismatch")
	}
	acc := f.One()
	one := f.One()
	for b := range a {
		t := f.Add(f.Mul(a[b], c[b]), f.Mul(f.Sub(one, a[b]), f.Sub(one, c[b])))
		acc = f.Mul(acc, t)
	}
	return acc
}

// Prover holds the partially folded tables.
type Prover[E any] struct {
	f          field.Field[E]
	eq         []E
	x, y, z    []E
	challenges []E
}

// NewProver copies the three tables (length 2^len(tau)) and prepares eq(tau,·).
func NewProver[E any](f field.Field[E], tau, x, y, z []E) *Prover[E] {
	n := 1 << len(tau)
	if len(x) != n || len(y) != n || len(z) != n {
		panic("sumcheck: NewProver: tables must have 2^len(tau) entries")
	}
	return &Prover[E]{
		f:  f,
		eq: EqTable(f, tau),
		x:  append([]E(nil), x...),
		y:  append([]E(nil), y...),
		z:  append([]E(nil), z...),
	}
}

// RoundPoly returns s(t) for t = 0..3 in the current round.
func (p *Prover[E]) RoundPoly() [Evals]E {
	f := p.f
	var s [Evals]E
	for t := range s {
		s[t] = f.Zero()
	}
	half := len(p.x) / 2
	for j := 0; j < half; j++ {
		e, de := p.eq[2*j], f.Sub(p.eq[2*j+1], p.eq[2*j])
		x, dx := p.x[2*j], f.Sub(p.x[2*j+1], p.x[2*j])
		y, dy := p.y[2*j], f.Sub(p.y[2*j+1], p.y[2*j])
		z, dz := p.z[2*j], f.Sub(p.z[2*j+1], p.z[2*j])
		for t := 0; t < Evals; t++ {
			if t > 0 {
				e, x, y, z = f.Add(e, de), f.Add(x, dx), f.Add(y, dy), f.Add(z, dz)
			}
			s[t] = f.Add(s[t], f.Mul(e, f.Sub(f.Mul(x, y), z)))
		}
	}
	return s
}

// Fold binds the lowest remaining variable to r.
func (p *Prover[E]) Fold(r E) {
	p.eq = fold(p.f, p.eq, r)
	p.x = fold(p.f, p.x, r)
	p.y = fold(p.f, p.y, r)
	p.z = fold(p.f, p.z, r)
	p.challenges = append(p.challenges, r)
}

func fold[E any](f field.Field[E], t []E, r E) []E {
	out := make([]E, len(t)/2)
	for j := range out {
		out[j] = f.Add(t[2*j], f.Mul(r, f.Sub(t[2*j+1], t[2*j])))
	}
	return out
}

// Done reports whether every variable is bound.
func (p *Prover[E]) Done() bool { return len(p.x) == 1 }

// Final returns X(r), Y(r), Z(r) once every variable is bound.
func (p *Prover[E]) Final() (E, E, E) {
	if !p.Done() {
		panic("sumcheck: Final before the last fold")
	}
	return p.x[0], p.y[0], p.z[0]
}

// Challenges returns the bound point so far.
func (p *Prover[E]) Challenges() []E { return append([]E(nil), p.challenges...) }
