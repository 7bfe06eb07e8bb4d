package zk

import (
	"errors"
	"fmt"
	"io"

	lvcs "ligerozk/LVCS"
	rs "ligerozk/RS"
	"ligerozk/circuit"
	"ligerozk/internal/field"
	"ligerozk/sumcheck"
	"ligerozk/transcript"
	"ligerozk/witness"

	"github.com/rs/zerolog/log"
)

var errNotCommitted = errors.New("zk: prove before commit")

// Prover runs Commit then Prove for one proof.
type Prover[E, X any] struct {
	c     *circuit.Circuit[E]
	f     field.Field[E]
	fa    *rs.Factory[E, X]
	shape shape

	wit *witness.Dense[E]
	w   []E
	pk  *lvcs.ProverKey[E, X]
}

// NewProver validates rate and req against c.
func NewProver[E, X any](c *circuit.Circuit[E], f field.Field[E], ext field.Extension[E, X], rate, req int) (*Prover[E, X], error) {
	s, err := newShape(c, rate, req)
	if err != nil {
		return nil, err
	}
	fa, err := rs.NewFactory(ext, rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameterMismatch, err)
	}
	return &Prover[E, X]{c: c, f: f, fa: fa, shape: s}, nil
}

func checkWitness[E any](s shape, wit *witness.Dense[E]) error {
	if wit == nil || wit.Rows() != s.N || wit.Cols() != s.NInputs {
		return fmt.Errorf("%w: witness shape does not match circuit (%d×%d)", ErrParameterMismatch, s.N, s.NInputs)
	}
	return nil
}

// Commit extends every instance with its multiplication outputs, appends the
// sumcheck pads and masking triples, commits to the whole vector and absorbs
// the circuit ID and the root. The witness is not checked here.
func (p *Prover[E, X]) Commit(proof *Proof[E, X], wit *witness.Dense[E], ts *transcript.Transcript, rng io.Reader) error {
	if proof.shape != p.shape {
		return fmt.Errorf("Commit: %w: proof shaped for rate=%d req=%d", ErrParameterMismatch, proof.shape.Rate, proof.shape.Req)
	}
	if err := checkWitness(p.shape, wit); err != nil {
		return fmt.Errorf("Commit: %w", err)
	}
	s := p.shape
	w := make([]E, s.NW)
	for i := 0; i < s.N; i++ {
		copy(w[s.instance(i, 0):], p.c.Extend(wit.Row(i)))
	}
	return p.commitVector(proof, wit, w, ts, rng)
}

// commitVector fills the random tail of w and commits to it.
func (p *Prover[E, X]) commitVector(proof *Proof[E, X], wit *witness.Dense[E], w []E, ts *transcript.Transcript, rng io.Reader) error {
	s, f := p.shape, p.f
	for j := s.PadBase; j < s.DummyBase; j++ {
		x, err := f.Random(rng)
		if err != nil {
			return fmt.Errorf("Commit: pad: %w", err)
		}
		w[j] = x
	}
	for d := 0; d < dummySlots; d++ {
		dx, err := f.Random(rng)
		if err != nil {
			return fmt.Errorf("Commit: dummy: %w", err)
		}
		dy, err := f.Random(rng)
		if err != nil {
			return fmt.Errorf("Commit: dummy: %w", err)
		}
		w[s.dummy(d, 0)], w[s.dummy(d, 1)], w[s.dummy(d, 2)] = dx, dy, f.Mul(dx, dy)
	}

	pk, root, err := lvcs.Commit(f, p.fa, s.Layout, w, rng)
	if err != nil {
		return fmt.Errorf("Commit: %w", err)
	}
	p.wit, p.w, p.pk = wit, w, pk
	proof.Root = root
	id := p.c.ID()
	ts.Absorb(id[:])
	ts.Absorb(root[:])
	if debugZK {
		log.Debug().Int("nw", s.NW).Int("rows", s.Layout.Rows()).Int("k", s.Layout.K).Msg("zk: committed")
	}
	return nil
}

// Prove runs the sumcheck rounds and the Ligero tests. If an instance breaks
// an assertion it returns ErrCircuitUnsatisfied before touching proof or ts.
func (p *Prover[E, X]) Prove(proof *Proof[E, X], wit *witness.Dense[E], ts *transcript.Transcript) error {
	if p.pk == nil {
		return errNotCommitted
	}
	if wit != p.wit {
		return fmt.Errorf("Prove: %w: witness differs from the committed one", ErrParameterMismatch)
	}
	if proof.shape != p.shape {
		return fmt.Errorf("Prove: %w: proof shaped for rate=%d req=%d", ErrParameterMismatch, proof.shape.Rate, proof.shape.Req)
	}
	s := p.shape
	for i := 0; i < s.N; i++ {
		v := p.w[s.instance(i, 0):s.instance(i+1, 0)]
		if ok, idx := p.c.Satisfied(v); !ok {
			if idx < 0 {
				return fmt.Errorf("%w: instance %d: column 0 is not one", ErrCircuitUnsatisfied, i)
			}
			return fmt.Errorf("%w: instance %d: assertion %d", ErrCircuitUnsatisfied, i, idx)
		}
	}
	return p.prove(proof, ts)
}

func (p *Prover[E, X]) prove(proof *Proof[E, X], ts *transcript.Transcript) error {
	s, f := p.shape, p.f
	tau := transcript.Challenges(ts, f, s.Rounds)
	x, y, z := slotTables(f, p.c, s, p.w)
	sc := sumcheck.NewProver(f, tau, x, y, z)
	rounds := make([][sumcheck.Evals]E, s.Rounds)
	r := make([]E, s.Rounds)
	for i := 0; i < s.Rounds; i++ {
		poly := sc.RoundPoly()
		for t := range poly {
			rounds[i][t] = f.Add(poly[t], p.w[s.pad(i, t)])
		}
		transcript.AbsorbElements(ts, f, rounds[i][:]...)
		r[i] = transcript.Challenge(ts, f)
		sc.Fold(r[i])
	}
	xr, yr, zr := sc.Final()
	transcript.AbsorbElements(ts, f, xr, yr, zr)

	public := func(inst, col int) E { return p.w[s.instance(inst, col)] }
	cs := buildConstraints(f, p.c, s, public, claims[E]{tau: tau, r: r, rounds: rounds, xr: xr, yr: yr, zr: zr})
	alpha := transcript.Challenge(ts, f)
	beta := transcript.Challenge(ts, f)
	a, _ := lvcs.Fold(f, s.NW, cs, field.Powers(f, alpha, len(cs)))
	resp, err := p.pk.Respond(field.Powers(f, beta, s.Layout.LDWeights()), a)
	if err != nil {
		return fmt.Errorf("Prove: %w", err)
	}
	transcript.AbsorbElements(ts, f, resp.LD...)
	transcript.AbsorbElements(ts, f, resp.Q...)
	positions := ts.ChallengeIndices(s.Layout.N, s.Req)
	open, err := p.pk.Open(positions)
	if err != nil {
		return fmt.Errorf("Prove: %w", err)
	}

	proof.Rounds = rounds
	proof.XR, proof.YR, proof.ZR = xr, yr, zr
	proof.Resp = resp
	proof.Open = open
	if debugZK {
		log.Debug().Int("rounds", s.Rounds).Int("constraints", len(cs)).Msg("zk: proved")
	}
	return nil
}
