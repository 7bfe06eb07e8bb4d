// Package field defines the arithmetic interfaces the protocol layers are
// written against. Elements are plain values; a Field value carries the
// modulus and performs the operations.
package field

import (
	"errors"
	"fmt"
	"io"
)

// ErrNonCanonical is returned by Decode when the encoding is not the unique
// fixed-width representative of an element.
var ErrNonCanonical = errors.New("field: non-canonical encoding")

// Field is a prime (or extension) field with elements of type E.
type Field[E any] interface {
	Zero() E
	One() E
	FromUint64(v uint64) E

	Add(a, b E) E
	Sub(a, b E) E
	Mul(a, b E) E
	Neg(a E) E
	// Inv panics on zero.
	Inv(a E) E

	Equal(a, b E) bool
	IsZero(a E) bool

	// ByteLen is the fixed width of Bytes and Decode.
	ByteLen() int
	Bytes(a E) []byte
	Decode(b []byte) (E, error)

	// Reduce maps a wide uniform byte string (at least ByteLen+16 bytes) to an
	// element with negligible bias.
	Reduce(wide []byte) E
	Random(r io.Reader) (E, error)
}

// Extension is a field X containing an embedded copy of the base field E and
// roots of unity of large power-of-two order.
type Extension[E, X any] interface {
	Field[X]
	Embed(a E) X
	// RootOfUnity returns a primitive n-th root of unity; n must be a power of two.
	RootOfUnity(n uint64) (X, error)
}

// Pow returns a^e.
func Pow[E any](f Field[E], a E, e uint64) E {
	acc := f.One()
	for e > 0 {
		if e&1 == 1 {
			acc = f.Mul(acc, a)
		}
		a = f.Mul(a, a)
		e >>= 1
	}
	return acc
}

// Powers returns [1, a, a^2, ..., a^(n-1)].
func Powers[E any](f Field[E], a E, n int) []E {
	out := make([]E, n)
	if n == 0 {
		return out
	}
	out[0] = f.One()
	for i := 1; i < n; i++ {
		out[i] = f.Mul(out[i-1], a)
	}
	return out
}

// Horner evaluates the coefficient-form polynomial c at x.
func Horner[E any](f Field[E], c []E, x E) E {
	acc := f.Zero()
	for i := len(c) - 1; i >= 0; i-- {
		acc = f.Add(f.Mul(acc, x), c[i])
	}
	return acc
}

// AppendElements appends the canonical encoding of every element to dst.
func AppendElements[E any](f Field[E], dst []byte, xs ...E) []byte {
	for _, x := range xs {
		dst = append(dst, f.Bytes(x)...)
	}
	return dst
}

// DecodeElements parses exactly len(dst) elements from b and returns the
// remaining bytes.
func DecodeElements[E any](f Field[E], dst []E, b []byte) ([]byte, error) {
	w := f.ByteLen()
	if len(b) < w*len(dst) {
		return nil, fmt.Errorf("DecodeElements: need %d bytes, have %d", w*len(dst), len(b))
	}
	for i := range dst {
		x, err := f.Decode(b[:w])
		if err != nil {
			return nil, fmt.Errorf("DecodeElements: element %d: %w", i, err)
		}
		dst[i] = x
		b = b[w:]
	}
	return b, nil
}
