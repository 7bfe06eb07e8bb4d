package bn254

import (
	"errors"
	"testing"

	"ligerozk/internal/field"

	"github.com/tuneinsight/lattigo/v4/utils"
)

func TestEvaluateMatchesHorner(t *testing.T) {
	f := New()
	prng, _ := utils.NewKeyedPRNG([]byte("bn254-eval"))
	coeffs := make([]Elt, 8)
	for i := range coeffs {
		c, err := f.Random(prng)
		if err != nil {
			t.Fatalf("Random: %v", err)
		}
		coeffs[i] = c
	}
	const n = 32
	evals, err := f.Evaluate(coeffs, n)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	w, err := f.RootOfUnity(n)
	if err != nil {
		t.Fatalf("RootOfUnity: %v", err)
	}
	x := f.One()
	for i := 0; i < n; i++ {
		want := field.Horner[Elt](f, coeffs, x)
		if !f.Equal(evals[i], want) {
			t.Fatalf("evaluation %d mismatch", i)
		}
		x = f.Mul(x, w)
	}
	if !f.Equal(x, f.One()) {
		t.Fatalf("w^n != 1")
	}
}

func TestDecodeCanonical(t *testing.T) {
	f := New()
	x := f.FromUint64(123456789)
	y, err := f.Decode(f.Bytes(x))
	if err != nil || !f.Equal(x, y) {
		t.Fatalf("round trip: %v", err)
	}
	all := make([]byte, 32)
	for i := range all {
		all[i] = 0xff
	}
	if _, err := f.Decode(all); !errors.Is(err, field.ErrNonCanonical) {
		t.Fatalf("Decode(2^256-1): want ErrNonCanonical, got %v", err)
	}
	if _, err := f.RootOfUnity(6); !errors.Is(err, ErrRootOrder) {
		t.Fatalf("RootOfUnity(6): want ErrRootOrder, got %v", err)
	}
}
