// Package transcript implements the Fiat–Shamir state shared by prover and
// verifier. Challenges are a pure function of the label and of the ordered
// byte history absorbed so far.
package transcript

import (
	"encoding/binary"
	"fmt"

	"ligerozk/internal/field"

	"golang.org/x/crypto/sha3"
)

const stateBytes = 32

// wideBytes is the minimum squeeze length used to derive one field element;
// wider fields get ByteLen+16.
const wideBytes = 64

const (
	tagAbsorb  = "ts-absorb"
	tagSqueeze = "ts-squeeze"
	tagInit    = "ts-init"
)

// XOF models the extendable-output function behind the transcript.
type XOF interface {
	Expand(label string, outLen int, parts ...[]byte) []byte
}

// Shake256XOF is the SHAKE-256 backed XOF.
type Shake256XOF struct{}

// Expand hashes label followed by parts and squeezes outLen bytes.
func (Shake256XOF) Expand(label string, outLen int, parts ...[]byte) []byte {
	h := sha3.NewShake256()
	if _, err := h.Write([]byte(label)); err != nil {
		panic(fmt.Errorf("Shake256XOF: write label: %w", err))
	}
	for _, p := range parts {
		if _, err := h.Write(p); err != nil {
			panic(fmt.Errorf("Shake256XOF: write payload: %w", err))
		}
	}
	out := make([]byte, outLen)
	if _, err := h.Read(out); err != nil {
		panic(fmt.Errorf("Shake256XOF: read output: %w", err))
	}
	return out
}

// Transcript is owned by exactly one party for one run.
type Transcript struct {
	xof   XOF
	state []byte
	ctr   uint64
}

// New starts a SHAKE-256 transcript under the domain-separation label.
func New(label string) *Transcript {
	return NewWithXOF(Shake256XOF{}, label)
}

// NewWithXOF starts a transcript on a caller supplied XOF.
func NewWithXOF(x XOF, label string) *Transcript {
	return &Transcript{
		xof:   x,
		state: x.Expand(tagInit, stateBytes, u64le(uint64(len(label))), []byte(label)),
	}
}

// Absorb folds b into the state. Absorbing restarts the squeeze counter.
func (t *Transcript) Absorb(b []byte) {
	t.state = t.xof.Expand(tagAbsorb, stateBytes, t.state, u64le(uint64(len(b))), b)
	t.ctr = 0
}

// Squeeze returns n challenge bytes and advances the counter, so two squeezes
// without an absorb in between never repeat.
func (t *Transcript) Squeeze(n int) []byte {
	out := t.xof.Expand(tagSqueeze, n, t.state, u64le(t.ctr))
	t.ctr++
	return out
}

// AbsorbElements absorbs the canonical encoding of xs as one message.
func AbsorbElements[E any](t *Transcript, f field.Field[E], xs ...E) {
	t.Absorb(field.AppendElements(f, make([]byte, 0, len(xs)*f.ByteLen()), xs...))
}

// Challenge derives one field element.
func Challenge[E any](t *Transcript, f field.Field[E]) E {
	return f.Reduce(t.Squeeze(max(wideBytes, f.ByteLen()+16)))
}

// Challenges derives n field elements.
func Challenges[E any](t *Transcript, f field.Field[E], n int) []E {
	out := make([]E, n)
	for i := range out {
		out[i] = Challenge(t, f)
	}
	return out
}

// ChallengeIndices derives count distinct indices in [0, n) by rejection
// sampling; it panics if count > n.
func (t *Transcript) ChallengeIndices(n, count int) []int {
	if count > n || n <= 0 {
		panic("transcript: ChallengeIndices: count exceeds range")
	}
	// largest multiple of n below 2^64 keeps the draw unbiased
	limit := ^uint64(0) - ^uint64(0)%uint64(n)
	seen := make(map[int]struct{}, count)
	out := make([]int, 0, count)
	for len(out) < count {
		x := binary.LittleEndian.Uint64(t.Squeeze(8))
		if x >= limit {
			continue
		}
		idx := int(x % uint64(n))
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}

func u64le(x uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	return b[:]
}
