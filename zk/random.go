package zk

import (
	"io"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// NewRandomness returns a fresh prover randomness source keyed from the
// operating system.
func NewRandomness() (io.Reader, error) {
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, err
	}
	return prng, nil
}

// SeededRandomness returns a reproducible source; proofs built from the same
// seed, witness and label are byte-identical. Use it for tests only.
func SeededRandomness(seed []byte) (io.Reader, error) {
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, err
	}
	return prng, nil
}
