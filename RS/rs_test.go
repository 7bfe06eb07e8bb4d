package rs

import (
	"errors"
	"testing"

	"ligerozk/internal/field"
	"ligerozk/internal/field/bn254"
	"ligerozk/internal/field/p256"

	"github.com/tuneinsight/lattigo/v4/utils"
)

func checkEncode[E, X any](t *testing.T, f field.Field[E], ext field.Extension[E, X], rate, k int) {
	t.Helper()
	fa, err := NewFactory(ext, rate)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	prng, _ := utils.NewKeyedPRNG([]byte("rs-encode"))
	row := make([]E, k)
	for i := range row {
		if row[i], err = f.Random(prng); err != nil {
			t.Fatalf("Random: %v", err)
		}
	}
	code, err := fa.Encode(row)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	n := rate * k
	if len(code) != n {
		t.Fatalf("codeword length %d, want %d", len(code), n)
	}
	positions := []int{0, 1, n / 2, n - 1}
	vals, err := fa.CheckPositions(code, positions)
	if err != nil {
		t.Fatalf("CheckPositions: %v", err)
	}
	for i, p := range positions {
		x, err := fa.Point(n, p)
		if err != nil {
			t.Fatalf("Point: %v", err)
		}
		if !ext.Equal(vals[i], fa.EvalAt(row, x)) {
			t.Fatalf("position %d does not match direct evaluation", p)
		}
	}
	if _, err := fa.CheckPositions(code, []int{n}); !errors.Is(err, ErrPosition) {
		t.Fatalf("out of range position: want ErrPosition, got %v", err)
	}
}

func TestEncodeP256(t *testing.T) {
	f := p256.NewFp()
	checkEncode[p256.Elt, p256.Elt2](t, f, p256.NewFp2(f), 4, 16)
}

func TestEncodeBN254(t *testing.T) {
	f := bn254.New()
	checkEncode[bn254.Elt, bn254.Elt](t, f, f, 2, 32)
}

func TestGenericFFTMatchesBackend(t *testing.T) {
	f := bn254.New()
	const n = 16
	a := make([]bn254.Elt, n)
	for i := 0; i < 5; i++ {
		a[i] = f.FromUint64(uint64(3*i + 1))
	}
	want, err := f.Evaluate(a[:5], n)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	w, _ := f.RootOfUnity(n)
	FFT[bn254.Elt](f, a, w)
	for i := range a {
		if !f.Equal(a[i], want[i]) {
			t.Fatalf("FFT mismatch at %d", i)
		}
	}
}

func TestFactoryRejectsBadShapes(t *testing.T) {
	f := p256.NewFp()
	ext := p256.NewFp2(f)
	if _, err := NewFactory[p256.Elt, p256.Elt2](ext, 3); !errors.Is(err, ErrRate) {
		t.Fatalf("rate 3: want ErrRate, got %v", err)
	}
	fa, _ := NewFactory[p256.Elt, p256.Elt2](ext, 2)
	if _, err := fa.Encode(make([]p256.Elt, 3)); !errors.Is(err, ErrRowLength) {
		t.Fatalf("row length 3: want ErrRowLength, got %v", err)
	}
}
