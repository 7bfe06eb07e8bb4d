package circuit

import (
	"errors"
	"testing"

	"ligerozk/internal/field/p256"
)

func TestCompileProductCircuit(t *testing.T) {
	f := p256.NewFp()
	b := NewBuilder[p256.Elt](f)
	c := b.PublicInput()
	x := b.PrivateInput()
	y := b.PrivateInput()
	b.AssertEq(b.Mul(x, y), c)
	circ, err := b.Compile(1)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if circ.NInputs != 4 || circ.NPublic != 2 || circ.NMul != 1 || circ.NV() != 5 {
		t.Fatalf("unexpected shape: inputs=%d public=%d mul=%d", circ.NInputs, circ.NPublic, circ.NMul)
	}
	row := []p256.Elt{f.One(), f.FromUint64(30), f.FromUint64(5), f.FromUint64(6)}
	v := circ.Extend(row)
	if !f.Equal(v[4], f.FromUint64(30)) {
		t.Fatalf("mul output = %s, want 30", v[4])
	}
	if ok, _ := circ.Satisfied(v); !ok {
		t.Fatalf("valid witness rejected")
	}
	row[3] = f.FromUint64(7)
	if ok, idx := circ.Satisfied(circ.Extend(row)); ok || idx != 0 {
		t.Fatalf("invalid witness accepted (ok=%v idx=%d)", ok, idx)
	}
	row[3] = f.FromUint64(6)
	row[0] = f.Zero()
	if ok, idx := circ.Satisfied(circ.Extend(row)); ok || idx != -1 {
		t.Fatalf("missing constant one not detected")
	}
}

func TestLinearFormsFoldConstantsAndSubtraction(t *testing.T) {
	f := p256.NewFp()
	b := NewBuilder[p256.Elt](f)
	pub := b.PublicInput()
	x := b.PrivateInput()
	// (x + 3) - x == 3 must collapse to a constant form
	d := b.Sub(b.Add(x, b.Const(f.FromUint64(3))), x)
	b.AssertEq(d, pub)
	circ, err := b.Compile(2)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	a := circ.Asserts[0]
	if len(a) != 2 || a[0].Index != 0 || a[1].Index != 1 {
		t.Fatalf("unexpected assertion form %+v", a)
	}
	if !f.Equal(a[0].Coeff, f.FromUint64(3)) || !f.Equal(a[1].Coeff, f.Neg(f.One())) {
		t.Fatalf("unexpected coefficients %+v", a)
	}
}

func TestBuilderErrors(t *testing.T) {
	f := p256.NewFp()
	b := NewBuilder[p256.Elt](f)
	x := b.PrivateInput()
	p := b.PublicInput()
	b.AssertEq(x, p)
	if _, err := b.Compile(1); !errors.Is(err, ErrInputOrder) {
		t.Fatalf("want ErrInputOrder, got %v", err)
	}
	b = NewBuilder[p256.Elt](f)
	x = b.PrivateInput()
	b.AssertEq(x, Wire(42))
	if _, err := b.Compile(1); !errors.Is(err, ErrForeignWire) {
		t.Fatalf("want ErrForeignWire, got %v", err)
	}
	b = NewBuilder[p256.Elt](f)
	x = b.PrivateInput()
	b.AssertEq(x, x)
	if _, err := b.Compile(0); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("want ErrEmptyBatch, got %v", err)
	}
}

func TestIDDependsOnStructure(t *testing.T) {
	f := p256.NewFp()
	build := func(batch int, useAdd bool) [32]byte {
		b := NewBuilder[p256.Elt](f)
		c := b.PublicInput()
		x := b.PrivateInput()
		y := b.PrivateInput()
		var w Wire
		if useAdd {
			w = b.Add(x, y)
		} else {
			w = b.Mul(x, y)
		}
		b.AssertEq(w, c)
		circ, err := b.Compile(batch)
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		return circ.ID()
	}
	if build(1, false) != build(1, false) {
		t.Fatalf("ID not deterministic")
	}
	if build(1, false) == build(2, false) {
		t.Fatalf("ID ignores batch size")
	}
	if build(1, false) == build(1, true) {
		t.Fatalf("ID ignores gate kinds")
	}
}
