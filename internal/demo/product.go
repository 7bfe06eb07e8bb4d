// Package demo holds the statement used by the CLI, the service and the
// protocol tests: knowledge of private a, b with a·b = c for public c.
package demo

import (
	"ligerozk/circuit"
	"ligerozk/internal/field"
	"ligerozk/witness"
)

// ProductInputs is the column count of a product witness row: one, c, a, b.
const ProductInputs = 4

// ProductPublic counts column 0 and c.
const ProductPublic = 2

// Product compiles the a·b = c circuit for batch instances.
func Product[E any](f field.Field[E], batch int) (*circuit.Circuit[E], error) {
	b := circuit.NewBuilder(f)
	c := b.PublicInput()
	x := b.PrivateInput()
	y := b.PrivateInput()
	b.AssertEq(b.Mul(x, y), c)
	return b.Compile(batch)
}

// FillProduct writes (1, c, a, b) into row i of w.
func FillProduct[E any](f field.Field[E], w *witness.Dense[E], i int, c, a, b E) {
	fl := w.Filler(i)
	fl.Push(f.One())
	fl.Push(c)
	fl.Push(a)
	fl.Push(b)
}
