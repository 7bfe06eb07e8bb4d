// Package witness holds the dense per-instance input matrix.
package witness

import (
	"fmt"

	"ligerozk/internal/field"
)

// Dense is a rows×cols matrix stored row-major. Column 0 carries one, then
// the public inputs, then the private inputs.
type Dense[E any] struct {
	rows, cols int
	v          []E
}

// NewDense returns a zero-filled matrix.
func NewDense[E any](f field.Field[E], rows, cols int) *Dense[E] {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("witness: NewDense: bad shape %dx%d", rows, cols))
	}
	d := &Dense[E]{rows: rows, cols: cols, v: make([]E, rows*cols)}
	z := f.Zero()
	for i := range d.v {
		d.v[i] = z
	}
	return d
}

func (d *Dense[E]) Rows() int { return d.rows }
func (d *Dense[E]) Cols() int { return d.cols }

func (d *Dense[E]) At(i, j int) E { return d.v[i*d.cols+j] }

func (d *Dense[E]) Set(i, j int, x E) { d.v[i*d.cols+j] = x }

// Row returns a view of row i.
func (d *Dense[E]) Row(i int) []E { return d.v[i*d.cols : (i+1)*d.cols] }

// Masked returns a copy keeping the first npub columns and zeroing the rest;
// this is what a verifier holds.
func (d *Dense[E]) Masked(f field.Field[E], npub int) *Dense[E] {
	out := NewDense(f, d.rows, d.cols)
	for i := 0; i < d.rows; i++ {
		copy(out.Row(i)[:npub], d.Row(i)[:npub])
	}
	return out
}

// Filler writes one row left to right.
type Filler[E any] struct {
	row []E
	pos int
}

// Filler starts an append-only writer at the beginning of row i.
func (d *Dense[E]) Filler(i int) *Filler[E] {
	return &Filler[E]{row: d.Row(i)}
}

// Push writes the next column; writing past the end panics.
func (fl *Filler[E]) Push(x E) {
	if fl.pos >= len(fl.row) {
		panic("witness: Filler overflow")
	}
	fl.row[fl.pos] = x
	fl.pos++
}

// Len returns the number of columns written.
func (fl *Filler[E]) Len() int { return fl.pos }
