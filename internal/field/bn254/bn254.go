// Package bn254 adapts the BN254 scalar field from gnark-crypto to the field
// interfaces. The field is FFT friendly, so it serves as its own extension.
package bn254

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"ligerozk/internal/field"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

// Elt is an element of Fr.
type Elt = fr.Element

var ErrRootOrder = errors.New("bn254: root of unity order must be a power of two <= 2^28")

const maxLogOrder = 28

// Field is Fr together with its cached FFT domains.
type Field struct {
	domains sync.Map // uint64 -> *fft.Domain
}

var _ field.Extension[Elt, Elt] = (*Field)(nil)

func New() *Field { return &Field{} }

func (f *Field) Zero() Elt { return Elt{} }

func (f *Field) One() Elt { return fr.One() }

func (f *Field) FromUint64(v uint64) Elt {
	var z Elt
	z.SetUint64(v)
	return z
}

func (f *Field) Embed(a Elt) Elt { return a }

func (f *Field) Add(a, b Elt) Elt {
	var z Elt
	z.Add(&a, &b)
	return z
}

func (f *Field) Sub(a, b Elt) Elt {
	var z Elt
	z.Sub(&a, &b)
	return z
}

func (f *Field) Mul(a, b Elt) Elt {
	var z Elt
	z.Mul(&a, &b)
	return z
}

func (f *Field) Neg(a Elt) Elt {
	var z Elt
	z.Neg(&a)
	return z
}

func (f *Field) Inv(a Elt) Elt {
	if a.IsZero() {
		panic("bn254: inverse of zero")
	}
	var z Elt
	z.Inverse(&a)
	return z
}

func (f *Field) Equal(a, b Elt) bool { return a.Equal(&b) }

func (f *Field) IsZero(a Elt) bool { return a.IsZero() }

func (f *Field) ByteLen() int { return fr.Bytes }

func (f *Field) Bytes(a Elt) []byte {
	b := a.Bytes()
	return b[:]
}

func (f *Field) Decode(b []byte) (Elt, error) {
	if len(b) != fr.Bytes {
		return Elt{}, fmt.Errorf("bn254: decode: want %d bytes, got %d", fr.Bytes, len(b))
	}
	var z Elt
	if err := z.SetBytesCanonical(b); err != nil {
		return Elt{}, fmt.Errorf("%w: %v", field.ErrNonCanonical, err)
	}
	return z, nil
}

// Reduce reduces the big-endian integer wide mod r.
func (f *Field) Reduce(wide []byte) Elt {
	if len(wide) < fr.Bytes+16 {
		panic("bn254: Reduce needs at least 48 bytes")
	}
	var z Elt
	z.SetBytes(wide)
	return z
}

func (f *Field) Random(r io.Reader) (Elt, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Elt{}, fmt.Errorf("bn254: random: %w", err)
	}
	return f.Reduce(buf[:]), nil
}

func (f *Field) domain(n uint64) (*fft.Domain, error) {
	if n == 0 || n&(n-1) != 0 || n > 1<<maxLogOrder {
		return nil, ErrRootOrder
	}
	if d, ok := f.domains.Load(n); ok {
		return d.(*fft.Domain), nil
	}
	d, _ := f.domains.LoadOrStore(n, fft.NewDomain(n))
	return d.(*fft.Domain), nil
}

// RootOfUnity returns the generator of the size-n FFT domain.
func (f *Field) RootOfUnity(n uint64) (Elt, error) {
	d, err := f.domain(n)
	if err != nil {
		return Elt{}, err
	}
	return d.Generator, nil
}

// Evaluate returns coeffs evaluated on the n-th roots of unity, in natural
// order, using the domain generator returned by RootOfUnity(n).
func (f *Field) Evaluate(coeffs []Elt, n int) ([]Elt, error) {
	d, err := f.domain(uint64(n))
	if err != nil {
		return nil, err
	}
	if len(coeffs) > n {
		return nil, fmt.Errorf("bn254: Evaluate: %d coefficients exceed domain size %d", len(coeffs), n)
	}
	out := make([]Elt, n)
	copy(out, coeffs)
	d.FFT(out, fft.DIF)
	fft.BitReverse(out)
	return out, nil
}
