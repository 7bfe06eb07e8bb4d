package zk

import (
	lvcs "ligerozk/LVCS"
	"ligerozk/circuit"
	"ligerozk/internal/field"
	"ligerozk/sumcheck"
)

// claims is the public part of a sumcheck run.
type claims[E any] struct {
	tau, r     []E
	rounds     [][sumcheck.Evals]E
	xr, yr, zr E
}

// buildConstraints lists every linear relation the committed vector must
// satisfy. Prover and verifier call it with the same public data, so the
// folded system is identical on both sides.
func buildConstraints[E any](f field.Field[E], c *circuit.Circuit[E], s shape, public func(inst, col int) E, cl claims[E]) []lvcs.Constraint[E] {
	one := f.One()
	minusOne := f.Neg(one)
	var cs []lvcs.Constraint[E]

	for i := 0; i < s.N; i++ {
		cs = append(cs, lvcs.Constraint[E]{
			Terms: []lvcs.Term[E]{{W: s.instance(i, 0), C: one}},
			RHS:   one,
		})
		for col := 1; col < s.NPublic; col++ {
			cs = append(cs, lvcs.Constraint[E]{
				Terms: []lvcs.Term[E]{{W: s.instance(i, col), C: one}},
				RHS:   public(i, col),
			})
		}
		for _, a := range c.Asserts {
			terms := make([]lvcs.Term[E], len(a))
			for k, t := range a {
				terms[k] = lvcs.Term[E]{W: s.instance(i, t.Index), C: t.Coeff}
			}
			cs = append(cs, lvcs.Constraint[E]{Terms: terms, RHS: f.Zero()})
		}
	}

	// Round consistency on the unpadded polynomials s_i = ŝ_i - P_i, with
	// the pads P moved to the left-hand side.
	for i := 0; i < s.Rounds; i++ {
		sh := cl.rounds[i]
		terms := []lvcs.Term[E]{{W: s.pad(i, 0), C: minusOne}, {W: s.pad(i, 1), C: minusOne}}
		rhs := f.Neg(f.Add(sh[0], sh[1]))
		if i > 0 {
			lg := sumcheck.Lagrange(f, cl.r[i-1])
			prev := cl.rounds[i-1]
			for t := 0; t < sumcheck.Evals; t++ {
				terms = append(terms, lvcs.Term[E]{W: s.pad(i-1, t), C: lg[t]})
			}
			rhs = f.Add(rhs, sumcheck.Interpolate(f, prev, cl.r[i-1]))
		}
		cs = append(cs, lvcs.Constraint[E]{Terms: terms, RHS: rhs})
	}
	last := s.Rounds - 1
	lg := sumcheck.Lagrange(f, cl.r[last])
	final := lvcs.Constraint[E]{
		RHS: f.Sub(
			f.Mul(sumcheck.Eq(f, cl.tau, cl.r), f.Sub(f.Mul(cl.xr, cl.yr), cl.zr)),
			sumcheck.Interpolate(f, cl.rounds[last], cl.r[last]),
		),
	}
	for t := 0; t < sumcheck.Evals; t++ {
		final.Terms = append(final.Terms, lvcs.Term[E]{W: s.pad(last, t), C: f.Neg(lg[t])})
	}
	cs = append(cs, final)

	// The revealed evaluations are the multilinear extensions of the slot
	// tables at r.
	eqr := sumcheck.EqTable(f, cl.r)
	var tx, ty, tz []lvcs.Term[E]
	for i := 0; i < s.N; i++ {
		for m := 0; m < s.NMul; m++ {
			w := eqr[i*s.NMul+m]
			for _, t := range c.MulL[m] {
				tx = append(tx, lvcs.Term[E]{W: s.instance(i, t.Index), C: f.Mul(w, t.Coeff)})
			}
			for _, t := range c.MulR[m] {
				ty = append(ty, lvcs.Term[E]{W: s.instance(i, t.Index), C: f.Mul(w, t.Coeff)})
			}
			tz = append(tz, lvcs.Term[E]{W: s.instance(i, s.NInputs+m), C: w})
		}
	}
	for d := 0; d < dummySlots; d++ {
		w := eqr[s.Slots+d]
		tx = append(tx, lvcs.Term[E]{W: s.dummy(d, 0), C: w})
		ty = append(ty, lvcs.Term[E]{W: s.dummy(d, 1), C: w})
		tz = append(tz, lvcs.Term[E]{W: s.dummy(d, 2), C: w})
	}
	cs = append(cs,
		lvcs.Constraint[E]{Terms: tx, RHS: cl.xr},
		lvcs.Constraint[E]{Terms: ty, RHS: cl.yr},
		lvcs.Constraint[E]{Terms: tz, RHS: cl.zr},
	)
	return cs
}

// slotTables lays the multiplication operands of the committed vector out as
// the three sumcheck tables.
func slotTables[E any](f field.Field[E], c *circuit.Circuit[E], s shape, w []E) (x, y, z []E) {
	size := 1 << s.Rounds
	x, y, z = make([]E, size), make([]E, size), make([]E, size)
	for j := 0; j < size; j++ {
		x[j], y[j], z[j] = f.Zero(), f.Zero(), f.Zero()
	}
	for i := 0; i < s.N; i++ {
		v := w[s.instance(i, 0):s.instance(i+1, 0)]
		for m := 0; m < s.NMul; m++ {
			slot := i*s.NMul + m
			x[slot] = c.MulL[m].Eval(f, v)
			y[slot] = c.MulR[m].Eval(f, v)
			z[slot] = v[s.NInputs+m]
		}
	}
	for d := 0; d < dummySlots; d++ {
		x[s.Slots+d] = w[s.dummy(d, 0)]
		y[s.Slots+d] = w[s.dummy(d, 1)]
		z[s.Slots+d] = w[s.dummy(d, 2)]
	}
	return x, y, z
}
