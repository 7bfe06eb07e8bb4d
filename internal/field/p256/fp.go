// Package p256 implements the base field of the NIST P-256 curve and its
// quadratic extension Fp2 = Fp[i]/(i^2+1).
package p256

import (
	"fmt"
	"io"

	"ligerozk/internal/field"

	"github.com/holiman/uint256"
)

// ModulusHex is p = 2^256 - 2^224 + 2^192 + 2^96 - 1.
const ModulusHex = "0xffffffff00000001000000000000000000000000ffffffffffffffffffffffff"

// Elt is an element of Fp in canonical form (< p).
type Elt struct {
	v uint256.Int
}

// Fp holds the modulus and the constants needed for reduction.
type Fp struct {
	p     uint256.Int
	r     uint256.Int // 2^256 mod p
	pm2   uint256.Int // p-2, Fermat inverse exponent
	halfP uint256.Int // (p-1)/2, Euler criterion exponent
}

var _ field.Field[Elt] = (*Fp)(nil)

// NewFp returns the P-256 base field.
func NewFp() *Fp {
	f := &Fp{}
	f.p = *uint256.MustFromHex(ModulusHex)
	f.r.Neg(&f.p)
	f.pm2.SubUint64(&f.p, 2)
	f.halfP.SubUint64(&f.p, 1)
	f.halfP.Rsh(&f.halfP, 1)
	return f
}

// Modulus returns a copy of p.
func (f *Fp) Modulus() uint256.Int { return f.p }

func (f *Fp) Zero() Elt { return Elt{} }

func (f *Fp) One() Elt { return f.FromUint64(1) }

func (f *Fp) FromUint64(v uint64) Elt {
	var z Elt
	z.v.SetUint64(v)
	return z
}

// FromHex parses a 0x-prefixed hex string and reduces it mod p.
func (f *Fp) FromHex(s string) (Elt, error) {
	x, err := uint256.FromHex(s)
	if err != nil {
		return Elt{}, fmt.Errorf("p256: FromHex %q: %w", s, err)
	}
	var z Elt
	z.v.Mod(x, &f.p)
	return z, nil
}

func (f *Fp) mustHex(s string) Elt {
	z, err := f.FromHex(s)
	if err != nil {
		panic(err)
	}
	return z
}

func (f *Fp) Add(a, b Elt) Elt {
	var z Elt
	z.v.AddMod(&a.v, &b.v, &f.p)
	return z
}

func (f *Fp) Sub(a, b Elt) Elt {
	var z Elt
	z.v.Sub(&a.v, &b.v)
	if a.v.Lt(&b.v) {
		z.v.Add(&z.v, &f.p)
	}
	return z
}

func (f *Fp) Mul(a, b Elt) Elt {
	var z Elt
	z.v.MulMod(&a.v, &b.v, &f.p)
	return z
}

func (f *Fp) Neg(a Elt) Elt {
	if a.v.IsZero() {
		return a
	}
	var z Elt
	z.v.Sub(&f.p, &a.v)
	return z
}

func (f *Fp) Inv(a Elt) Elt {
	if a.v.IsZero() {
		panic("p256: inverse of zero")
	}
	return f.exp(a, &f.pm2)
}

// exp computes a^e for a full 256-bit exponent.
func (f *Fp) exp(a Elt, e *uint256.Int) Elt {
	acc := f.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc = f.Mul(acc, acc)
		if (e[i/64]>>(uint(i)%64))&1 == 1 {
			acc = f.Mul(acc, a)
		}
	}
	return acc
}

// IsSquare reports whether a is a quadratic residue (zero counts as a square).
func (f *Fp) IsSquare(a Elt) bool {
	if a.v.IsZero() {
		return true
	}
	return f.Equal(f.exp(a, &f.halfP), f.One())
}

func (f *Fp) Equal(a, b Elt) bool { return a.v.Eq(&b.v) }

func (f *Fp) IsZero(a Elt) bool { return a.v.IsZero() }

func (f *Fp) ByteLen() int { return 32 }

func (f *Fp) Bytes(a Elt) []byte {
	b := a.v.Bytes32()
	return b[:]
}

func (f *Fp) Decode(b []byte) (Elt, error) {
	if len(b) != 32 {
		return Elt{}, fmt.Errorf("p256: decode: want 32 bytes, got %d", len(b))
	}
	var z Elt
	z.v.SetBytes32(b)
	if !z.v.Lt(&f.p) {
		return Elt{}, field.ErrNonCanonical
	}
	return z, nil
}

// Reduce interprets wide as a big-endian integer and reduces it mod p,
// consuming it in 32-byte limbs from the most significant end.
func (f *Fp) Reduce(wide []byte) Elt {
	if len(wide) < 48 {
		panic("p256: Reduce needs at least 48 bytes")
	}
	head := len(wide) % 32
	var acc uint256.Int
	if head > 0 {
		acc.SetBytes(wide[:head])
		wide = wide[head:]
	}
	for len(wide) > 0 {
		var lo uint256.Int
		lo.SetBytes32(wide[:32])
		lo.Mod(&lo, &f.p)
		acc.Mod(&acc, &f.p)
		acc.MulMod(&acc, &f.r, &f.p)
		acc.AddMod(&acc, &lo, &f.p)
		wide = wide[32:]
	}
	return Elt{v: acc}
}

func (f *Fp) Random(r io.Reader) (Elt, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Elt{}, fmt.Errorf("p256: random: %w", err)
	}
	return f.Reduce(buf[:]), nil
}

// String renders a in hex.
func (a Elt) String() string { return a.v.Hex() }
