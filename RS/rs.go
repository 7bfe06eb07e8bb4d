// Package rs is the Reed–Solomon encoding factory: coefficient-form rows over
// the base field are evaluated on rate·k roots of unity of the extension.
package rs

import (
	"errors"
	"fmt"
	"sync"

	"ligerozk/internal/field"
)

var (
	ErrRate      = errors.New("rs: rate must be a power of two >= 2")
	ErrRowLength = errors.New("rs: row length must be a power of two")
	ErrPosition  = errors.New("rs: position out of range")
)

// Evaluator is implemented by extensions with a native FFT. Evaluate must use
// the generator returned by RootOfUnity(n).
type Evaluator[X any] interface {
	Evaluate(coeffs []X, n int) ([]X, error)
}

// Factory encodes rows at a fixed rate.
type Factory[E, X any] struct {
	ext   field.Extension[E, X]
	rate  int
	roots sync.Map // int -> X
}

// NewFactory validates rate and returns a factory over ext.
func NewFactory[E, X any](ext field.Extension[E, X], rate int) (*Factory[E, X], error) {
	if rate < 2 || rate&(rate-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrRate, rate)
	}
	return &Factory[E, X]{ext: ext, rate: rate}, nil
}

func (fa *Factory[E, X]) Rate() int { return fa.rate }

// Ext exposes the extension the codewords live in.
func (fa *Factory[E, X]) Ext() field.Extension[E, X] { return fa.ext }

// Root returns the primitive n-th root of unity used for length-n codewords.
func (fa *Factory[E, X]) Root(n int) (X, error) {
	if w, ok := fa.roots.Load(n); ok {
		return w.(X), nil
	}
	w, err := fa.ext.RootOfUnity(uint64(n))
	if err != nil {
		var zero X
		return zero, fmt.Errorf("rs: root of order %d: %w", n, err)
	}
	fa.roots.Store(n, w)
	return w, nil
}

// Point returns root(n)^i, the evaluation point of codeword position i.
func (fa *Factory[E, X]) Point(n, i int) (X, error) {
	w, err := fa.Root(n)
	if err != nil {
		return w, err
	}
	return field.Pow[X](fa.ext, w, uint64(i)), nil
}

// Encode evaluates the polynomial with coefficients row (len k, a power of
// two) at the rate·k roots of unity.
func (fa *Factory[E, X]) Encode(row []E) ([]X, error) {
	k := len(row)
	if k == 0 || k&(k-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrRowLength, k)
	}
	n := fa.rate * k
	lifted := make([]X, k)
	for i, c := range row {
		lifted[i] = fa.ext.Embed(c)
	}
	if ev, ok := fa.ext.(Evaluator[X]); ok {
		return ev.Evaluate(lifted, n)
	}
	w, err := fa.Root(n)
	if err != nil {
		return nil, err
	}
	out := make([]X, n)
	copy(out, lifted)
	for i := k; i < n; i++ {
		out[i] = fa.ext.Zero()
	}
	FFT[X](fa.ext, out, w)
	return out, nil
}

// CheckPositions returns codeword values at positions.
func (fa *Factory[E, X]) CheckPositions(codeword []X, positions []int) ([]X, error) {
	out := make([]X, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(codeword) {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrPosition, p, len(codeword))
		}
		out[i] = codeword[p]
	}
	return out, nil
}

// EvalAt evaluates base-field coefficients at an extension point.
func (fa *Factory[E, X]) EvalAt(coeffs []E, x X) X {
	lifted := make([]X, len(coeffs))
	for i, c := range coeffs {
		lifted[i] = fa.ext.Embed(c)
	}
	return field.Horner[X](fa.ext, lifted, x)
}

// FFT replaces a with its evaluations a'[i] = sum_j a[j]·w^(ij); len(a) must
// be a power of two and w a primitive len(a)-th root of unity.
func FFT[X any](f field.Field[X], a []X, w X) {
	n := len(a)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		tw := field.Powers(f, field.Pow(f, w, uint64(n/size)), half)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				u := a[start+k]
				v := f.Mul(a[start+k+half], tw[k])
				a[start+k] = f.Add(u, v)
				a[start+k+half] = f.Sub(u, v)
			}
		}
	}
}
