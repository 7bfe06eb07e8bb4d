package sumcheck

import (
	"testing"

	"ligerozk/internal/field/p256"

	"github.com/tuneinsight/lattigo/v4/utils"
)

func TestRounds(t *testing.T) {
	for _, c := range []struct{ slots, want int }{{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {1024, 10}, {1025, 11}} {
		if got := Rounds(c.slots); got != c.want {
			t.Fatalf("Rounds(%d) = %d, want %d", c.slots, got, c.want)
		}
	}
}

func TestInterpolateCubic(t *testing.T) {
	f := p256.NewFp()
	// s(t) = 2t^3 + t + 5
	s := func(x p256.Elt) p256.Elt {
		x3 := f.Mul(f.Mul(x, x), x)
		return f.Add(f.Add(f.Mul(f.FromUint64(2), x3), x), f.FromUint64(5))
	}
	var evals [Evals]p256.Elt
	for i := range evals {
		evals[i] = s(f.FromUint64(uint64(i)))
	}
	r := f.FromUint64(1234567)
	if got := Interpolate[p256.Elt](f, evals, r); !f.Equal(got, s(r)) {
		t.Fatalf("Interpolate mismatch")
	}
}

func TestZeroCheckRounds(t *testing.T) {
	f := p256.NewFp()
	prng, _ := utils.NewKeyedPRNG([]byte("sumcheck"))
	const rounds = 3
	n := 1 << rounds
	x := make([]p256.Elt, n)
	y := make([]p256.Elt, n)
	z := make([]p256.Elt, n)
	for i := range x {
		x[i], _ = f.Random(prng)
		y[i], _ = f.Random(prng)
		z[i] = f.Mul(x[i], y[i])
	}
	tau := make([]p256.Elt, rounds)
	for i := range tau {
		tau[i], _ = f.Random(prng)
	}
	p := NewProver[p256.Elt](f, tau, x, y, z)
	claim := f.Zero()
	var r []p256.Elt
	for i := 0; i < rounds; i++ {
		s := p.RoundPoly()
		if !f.Equal(f.Add(s[0], s[1]), claim) {
			t.Fatalf("round %d: s(0)+s(1) != running claim", i)
		}
		ri, _ := f.Random(prng)
		claim = Interpolate[p256.Elt](f, s, ri)
		p.Fold(ri)
		r = append(r, ri)
	}
	if !p.Done() {
		t.Fatalf("prover not done after %d rounds", rounds)
	}
	xr, yr, zr := p.Final()
	want := f.Mul(Eq[p256.Elt](f, tau, r), f.Sub(f.Mul(xr, yr), zr))
	if !f.Equal(claim, want) {
		t.Fatalf("final claim mismatch")
	}
	mle := func(table []p256.Elt) p256.Elt {
		acc := f.Zero()
		for j, e := range EqTable[p256.Elt](f, r) {
			acc = f.Add(acc, f.Mul(e, table[j]))
		}
		return acc
	}
	if !f.Equal(mle(x), xr) || !f.Equal(mle(z), zr) {
		t.Fatalf("folded values differ from multilinear evaluation")
	}
	if len(p.Challenges()) != rounds {
		t.Fatalf("challenges not recorded")
	}
}

func TestZeroCheckDetectsBadSlot(t *testing.T) {
	f := p256.NewFp()
	prng, _ := utils.NewKeyedPRNG([]byte("sumcheck-bad"))
	n := 4
	x := make([]p256.Elt, n)
	y := make([]p256.Elt, n)
	z := make([]p256.Elt, n)
	for i := range x {
		x[i], _ = f.Random(prng)
		y[i], _ = f.Random(prng)
		z[i] = f.Mul(x[i], y[i])
	}
	z[2] = f.Add(z[2], f.One())
	tau := []p256.Elt{f.FromUint64(3), f.FromUint64(5)}
	s := NewProver[p256.Elt](f, tau, x, y, z).RoundPoly()
	if f.IsZero(f.Add(s[0], s[1])) {
		t.Fatalf("broken slot went unnoticed")
	}
}
