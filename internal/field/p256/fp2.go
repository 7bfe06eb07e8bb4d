package p256

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"ligerozk/internal/field"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// MaxRootOrder is the largest power-of-two order RootOfUnity serves.
const MaxRootOrder = uint64(1) << 31

const (
	omegaReHex = "0xf90d338ebd84f5665cfc85c67990e3379fc9563b382a4a4c985a65324b242562"
	omegaImHex = "0xb9e81e42bc97cc4da04fc2e20106e34084738a6474d232c6dbf4174f60a43eac"
)

var ErrRootOrder = errors.New("p256: root of unity order must be a power of two <= 2^31")

// Elt2 is A + B·i.
type Elt2 struct {
	A, B Elt
}

// Fp2 is the quadratic extension used for Reed–Solomon encoding.
type Fp2 struct {
	base  *Fp
	omega func() Elt2
}

var _ field.Extension[Elt, Elt2] = (*Fp2)(nil)

// NewFp2 builds the extension over base.
func NewFp2(base *Fp) *Fp2 {
	e := &Fp2{base: base}
	e.omega = sync.OnceValue(e.primitiveRoot)
	return e
}

// Base returns the underlying prime field.
func (e *Fp2) Base() *Fp { return e.base }

func (e *Fp2) Zero() Elt2 { return Elt2{} }

func (e *Fp2) One() Elt2 { return Elt2{A: e.base.One()} }

func (e *Fp2) FromUint64(v uint64) Elt2 { return Elt2{A: e.base.FromUint64(v)} }

func (e *Fp2) Embed(a Elt) Elt2 { return Elt2{A: a} }

func (e *Fp2) Add(x, y Elt2) Elt2 {
	return Elt2{A: e.base.Add(x.A, y.A), B: e.base.Add(x.B, y.B)}
}

func (e *Fp2) Sub(x, y Elt2) Elt2 {
	return Elt2{A: e.base.Sub(x.A, y.A), B: e.base.Sub(x.B, y.B)}
}

func (e *Fp2) Mul(x, y Elt2) Elt2 {
	f := e.base
	ac := f.Mul(x.A, y.A)
	bd := f.Mul(x.B, y.B)
	ad := f.Mul(x.A, y.B)
	bc := f.Mul(x.B, y.A)
	return Elt2{A: f.Sub(ac, bd), B: f.Add(ad, bc)}
}

func (e *Fp2) Neg(x Elt2) Elt2 {
	return Elt2{A: e.base.Neg(x.A), B: e.base.Neg(x.B)}
}

func (e *Fp2) Inv(x Elt2) Elt2 {
	f := e.base
	n := f.Add(f.Mul(x.A, x.A), f.Mul(x.B, x.B))
	if f.IsZero(n) {
		panic("p256: inverse of zero in Fp2")
	}
	ni := f.Inv(n)
	return Elt2{A: f.Mul(x.A, ni), B: f.Neg(f.Mul(x.B, ni))}
}

func (e *Fp2) Equal(x, y Elt2) bool {
	return e.base.Equal(x.A, y.A) && e.base.Equal(x.B, y.B)
}

func (e *Fp2) IsZero(x Elt2) bool { return e.base.IsZero(x.A) && e.base.IsZero(x.B) }

func (e *Fp2) ByteLen() int { return 64 }

func (e *Fp2) Bytes(x Elt2) []byte {
	out := make([]byte, 0, 64)
	out = append(out, e.base.Bytes(x.A)...)
	return append(out, e.base.Bytes(x.B)...)
}

func (e *Fp2) Decode(b []byte) (Elt2, error) {
	if len(b) != 64 {
		return Elt2{}, fmt.Errorf("p256: decode Fp2: want 64 bytes, got %d", len(b))
	}
	a, err := e.base.Decode(b[:32])
	if err != nil {
		return Elt2{}, err
	}
	c, err := e.base.Decode(b[32:])
	if err != nil {
		return Elt2{}, err
	}
	return Elt2{A: a, B: c}, nil
}

// reduceTag separates the Fp2 expansion from every other SHAKE256 use.
var reduceTag = []byte("p256-fp2-reduce")

// Reduce stretches wide (at least 80 bytes) to two 64-byte halves with
// SHAKE256 and reduces each into one coordinate.
func (e *Fp2) Reduce(wide []byte) Elt2 {
	if len(wide) < 80 {
		panic("p256: Fp2 Reduce needs at least 80 bytes")
	}
	var buf [128]byte
	h := sha3.NewShake256()
	h.Write(reduceTag)
	h.Write(wide)
	h.Read(buf[:])
	return Elt2{A: e.base.Reduce(buf[:64]), B: e.base.Reduce(buf[64:])}
}

func (e *Fp2) Random(r io.Reader) (Elt2, error) {
	a, err := e.base.Random(r)
	if err != nil {
		return Elt2{}, err
	}
	b, err := e.base.Random(r)
	if err != nil {
		return Elt2{}, err
	}
	return Elt2{A: a, B: b}, nil
}

// RootOfUnity returns omega^(2^31/n), a primitive n-th root of unity.
func (e *Fp2) RootOfUnity(n uint64) (Elt2, error) {
	if n == 0 || n&(n-1) != 0 || n > MaxRootOrder {
		return Elt2{}, ErrRootOrder
	}
	w := e.omega()
	for m := MaxRootOrder; m > n; m >>= 1 {
		w = e.Mul(w, w)
	}
	return w, nil
}

func (e *Fp2) exp(x Elt2, k *uint256.Int) Elt2 {
	acc := e.One()
	for i := k.BitLen() - 1; i >= 0; i-- {
		acc = e.Mul(acc, acc)
		if (k[i/64]>>(uint(i)%64))&1 == 1 {
			acc = e.Mul(acc, x)
		}
	}
	return acc
}

// hasOrder31 reports whether w has multiplicative order exactly 2^31.
func (e *Fp2) hasOrder31(w Elt2) bool {
	for i := 0; i < 30; i++ {
		w = e.Mul(w, w)
	}
	// w^(2^30) must be -1
	return e.Equal(w, e.Neg(e.One()))
}

// primitiveRoot returns the tabulated root when it checks out, otherwise a
// root derived from the first non-residue of the form 1 + c·i.
func (e *Fp2) primitiveRoot() Elt2 {
	w := Elt2{A: e.base.mustHex(omegaReHex), B: e.base.mustHex(omegaImHex)}
	if e.hasOrder31(w) {
		return w
	}
	return e.deriveRoot()
}

// deriveRoot raises the first non-residue 1 + c·i to the odd part of p^2-1
// and squares down to order 2^31.
func (e *Fp2) deriveRoot() Elt2 {
	f := e.base
	// p^2 - 1 = 2^97 · ((p+1)/2^96) · ((p-1)/2), both cofactors odd.
	var odd1, odd2 uint256.Int
	odd1.AddUint64(&f.p, 1)
	odd1.Rsh(&odd1, 96)
	odd2 = f.halfP
	for c := uint64(1); ; c++ {
		z := Elt2{A: f.One(), B: f.FromUint64(c)}
		norm := f.Add(f.One(), f.FromUint64(c*c))
		if f.IsSquare(norm) {
			continue
		}
		g := e.exp(e.exp(z, &odd1), &odd2)
		for i := 0; i < 66; i++ {
			g = e.Mul(g, g)
		}
		return g
	}
}
