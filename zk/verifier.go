package zk

import (
	"fmt"
	"os"

	lvcs "ligerozk/LVCS"
	rs "ligerozk/RS"
	"ligerozk/circuit"
	"ligerozk/internal/field"
	"ligerozk/transcript"
	"ligerozk/witness"

	"github.com/rs/zerolog/log"
)

var debugZK = os.Getenv("DEBUG_ZK") != ""

// rejected logs why verification failed when DEBUG_ZK is set; callers only
// ever see false.
func rejected(stage string, err error) bool {
	if debugZK {
		log.Debug().Str("stage", stage).Err(err).Msg("zk: reject")
	}
	return false
}

// Verifier runs RecvCommitment then Verify for one proof.
type Verifier[E, X any] struct {
	c        *circuit.Circuit[E]
	f        field.Field[E]
	fa       *rs.Factory[E, X]
	shape    shape
	received bool
}

// NewVerifier validates rate and req against c.
func NewVerifier[E, X any](c *circuit.Circuit[E], f field.Field[E], ext field.Extension[E, X], rate, req int) (*Verifier[E, X], error) {
	s, err := newShape(c, rate, req)
	if err != nil {
		return nil, err
	}
	fa, err := rs.NewFactory(ext, rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameterMismatch, err)
	}
	return &Verifier[E, X]{c: c, f: f, fa: fa, shape: s}, nil
}

// RecvCommitment absorbs the circuit ID and root exactly as Commit did. It
// performs no algebraic check.
func (v *Verifier[E, X]) RecvCommitment(proof *Proof[E, X], ts *transcript.Transcript) error {
	if proof.shape != v.shape {
		return fmt.Errorf("RecvCommitment: %w: proof shaped for rate=%d req=%d", ErrParameterMismatch, proof.shape.Rate, proof.shape.Req)
	}
	id := v.c.ID()
	ts.Absorb(id[:])
	ts.Absorb(proof.Root[:])
	v.received = true
	return nil
}

// Verify replays the rounds against pub, the witness with private columns
// zeroed, and reports whether every check passed. Only column 0 and the
// public columns of pub are read.
func (v *Verifier[E, X]) Verify(proof *Proof[E, X], pub *witness.Dense[E], ts *transcript.Transcript) bool {
	if !v.received {
		return rejected("state", errNotCommitted)
	}
	if proof.shape != v.shape {
		return rejected("shape", ErrParameterMismatch)
	}
	if err := checkWitness(v.shape, pub); err != nil {
		return rejected("public", err)
	}
	s, f := v.shape, v.f
	for i := 0; i < s.N; i++ {
		if !f.Equal(pub.At(i, 0), f.One()) {
			return rejected("public", fmt.Errorf("instance %d: column 0 is not one", i))
		}
	}
	if len(proof.Rounds) != s.Rounds {
		return rejected("rounds", fmt.Errorf("got %d round messages, want %d", len(proof.Rounds), s.Rounds))
	}

	tau := transcript.Challenges(ts, f, s.Rounds)
	r := make([]E, s.Rounds)
	for i := range proof.Rounds {
		transcript.AbsorbElements(ts, f, proof.Rounds[i][:]...)
		r[i] = transcript.Challenge(ts, f)
	}
	transcript.AbsorbElements(ts, f, proof.XR, proof.YR, proof.ZR)

	public := func(inst, col int) E { return pub.At(inst, col) }
	cs := buildConstraints(f, v.c, s, public, claims[E]{
		tau: tau, r: r, rounds: proof.Rounds, xr: proof.XR, yr: proof.YR, zr: proof.ZR,
	})
	alpha := transcript.Challenge(ts, f)
	beta := transcript.Challenge(ts, f)
	a, target := lvcs.Fold(f, s.NW, cs, field.Powers(f, alpha, len(cs)))
	u := field.Powers(f, beta, s.Layout.LDWeights())
	if proof.Resp == nil {
		return rejected("response", ErrMalformedProof)
	}
	transcript.AbsorbElements(ts, f, proof.Resp.LD...)
	transcript.AbsorbElements(ts, f, proof.Resp.Q...)
	positions := ts.ChallengeIndices(s.Layout.N, s.Req)

	if err := lvcs.Check(f, v.fa, s.Layout, proof.Root, u, a, target, proof.Resp, positions, proof.Open); err != nil {
		return rejected("ligero", err)
	}
	return true
}
