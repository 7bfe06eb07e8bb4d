package zk

import (
	"fmt"

	lvcs "ligerozk/LVCS"
	"ligerozk/circuit"
	"ligerozk/sumcheck"
)

// dummySlots are extra multiplication triples (d_x, d_y, d_x·d_y) that mask
// the revealed sumcheck evaluations.
const dummySlots = 2

// shape fixes where every quantity lives in the committed vector
//
//	W = [v_0 .. v_{n-1} | pads (rounds × 4) | dummy triples]
//
// and, through the Ligero layout, the byte length of a proof.
type shape struct {
	Rate, Req int
	N         int // batch size
	NV        int // per-instance vector length
	NInputs   int
	NPublic   int
	NMul      int
	Slots     int // real slots n·nmul; dummies follow
	Rounds    int
	PadBase   int
	DummyBase int
	NW        int
	Layout    lvcs.Layout
}

func newShape[E any](c *circuit.Circuit[E], rate, req int) (shape, error) {
	if c == nil {
		return shape{}, fmt.Errorf("%w: nil circuit", ErrParameterMismatch)
	}
	s := shape{
		Rate:    rate,
		Req:     req,
		N:       c.Batch,
		NV:      c.NV(),
		NInputs: c.NInputs,
		NPublic: c.NPublic,
		NMul:    c.NMul,
		Slots:   c.Batch * c.NMul,
	}
	s.Rounds = sumcheck.Rounds(s.Slots + dummySlots)
	s.PadBase = s.N * s.NV
	s.DummyBase = s.PadBase + s.Rounds*sumcheck.Evals
	s.NW = s.DummyBase + 3*dummySlots
	lay, err := lvcs.NewLayout(s.NW, rate, req)
	if err != nil {
		return shape{}, fmt.Errorf("%w: %v", ErrParameterMismatch, err)
	}
	if req > lay.N {
		return shape{}, fmt.Errorf("%w: req %d exceeds codeword length %d", ErrParameterMismatch, req, lay.N)
	}
	s.Layout = lay
	return s, nil
}

func (s shape) pad(round, t int) int { return s.PadBase + round*sumcheck.Evals + t }

func (s shape) dummy(d, which int) int { return s.DummyBase + 3*d + which }

func (s shape) instance(i, col int) int { return i*s.NV + col }
