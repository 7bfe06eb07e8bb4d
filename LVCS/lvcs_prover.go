// Package lvcs is the Ligero vector commitment: a vector is split into rows,
// each row is a blinded polynomial encoded by the RS factory, and the columns
// are committed with DECS. A committed vector can then be shown to satisfy a
// system of linear constraints by a low-degree test and a linear test
// evaluated on a few opened columns.
package lvcs

import (
	"fmt"
	"io"
	"runtime"

	decs "ligerozk/DECS"
	rs "ligerozk/RS"
	"ligerozk/internal/field"

	"golang.org/x/sync/errgroup"
)

// ProverKey holds everything the prover needs between Commit and Open.
type ProverKey[E, X any] struct {
	f      field.Field[E]
	fa     *rs.Factory[E, X]
	layout Layout
	coeffs [][]E // Rows × K
	code   [][]X // Rows × N
	dp     *decs.Prover
}

// Commit blinds and encodes w and commits to its columns. All randomness is
// read from rng, so a seeded source reproduces the commitment.
func Commit[E, X any](f field.Field[E], fa *rs.Factory[E, X], l Layout, w []E, rng io.Reader) (*ProverKey[E, X], decs.Digest, error) {
	if len(w) != l.NW {
		return nil, decs.Digest{}, fmt.Errorf("Commit: vector has %d entries, layout expects %d", len(w), l.NW)
	}
	if fa.Rate() != l.Rate {
		return nil, decs.Digest{}, fmt.Errorf("Commit: factory rate %d, layout rate %d", fa.Rate(), l.Rate)
	}
	pk := &ProverKey[E, X]{f: f, fa: fa, layout: l, coeffs: make([][]E, l.Rows())}

	random := func(dst []E) error {
		for i := range dst {
			x, err := f.Random(rng)
			if err != nil {
				return err
			}
			dst[i] = x
		}
		return nil
	}
	for j := range pk.coeffs {
		pk.coeffs[j] = make([]E, l.K)
	}
	if err := random(pk.coeffs[blindRow]); err != nil {
		return nil, decs.Digest{}, fmt.Errorf("Commit: blinding row: %w", err)
	}
	// r0 and r1 leave coefficient K-1 free so the linear-test target shows
	// through unmasked.
	for _, j := range []int{r0Row, r1Row} {
		if err := random(pk.coeffs[j][:l.K-1]); err != nil {
			return nil, decs.Digest{}, fmt.Errorf("Commit: mask row %d: %w", j, err)
		}
		pk.coeffs[j][l.K-1] = f.Zero()
	}
	for r := 0; r < l.WitnessRows; r++ {
		row := pk.coeffs[firstWitnessRow+r]
		for c := 0; c < l.Ell; c++ {
			if idx := r*l.Ell + c; idx < l.NW {
				row[c] = w[idx]
			} else {
				row[c] = f.Zero()
			}
		}
		if err := random(row[l.Ell:]); err != nil {
			return nil, decs.Digest{}, fmt.Errorf("Commit: witness row %d: %w", r, err)
		}
	}

	pk.code = make([][]X, l.Rows())
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for j := range pk.coeffs {
		j := j
		g.Go(func() error {
			cw, err := fa.Encode(pk.coeffs[j])
			if err != nil {
				return fmt.Errorf("row %d: %w", j, err)
			}
			pk.code[j] = cw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, decs.Digest{}, fmt.Errorf("Commit: encode: %w", err)
	}

	ext := fa.Ext()
	cols := make([][]byte, l.N)
	col := make([]X, l.Rows())
	for i := 0; i < l.N; i++ {
		for j := range pk.code {
			col[j] = pk.code[j][i]
		}
		cols[i] = columnBytes[X](ext, col)
	}
	dp, root, err := decs.Commit(cols, rng)
	if err != nil {
		return nil, decs.Digest{}, fmt.Errorf("Commit: %w", err)
	}
	pk.dp = dp
	return pk, root, nil
}

// Respond computes the low-degree combination with row weights u (one per
// non-blinding row) and the linear-test polynomial for the folded
// constraint row a.
func (pk *ProverKey[E, X]) Respond(u []E, a []E) (*Response[E], error) {
	l := pk.layout
	f := pk.f
	if len(u) != l.LDWeights() {
		return nil, fmt.Errorf("Respond: got %d weights, want %d", len(u), l.LDWeights())
	}
	if len(a) != l.NW {
		return nil, fmt.Errorf("Respond: constraint row has %d entries, want %d", len(a), l.NW)
	}
	resp := NewResponse[E](l)
	copy(resp.LD, pk.coeffs[blindRow])
	for j := 1; j < l.Rows(); j++ {
		for c := 0; c < l.K; c++ {
			resp.LD[c] = f.Add(resp.LD[c], f.Mul(u[j-1], pk.coeffs[j][c]))
		}
	}

	for i := range resp.Q {
		resp.Q[i] = f.Zero()
	}
	for r := 0; r < l.WitnessRows; r++ {
		p := pk.coeffs[firstWitnessRow+r]
		for c := 0; c < l.Ell; c++ {
			idx := r*l.Ell + c
			if idx >= l.NW || f.IsZero(a[idx]) {
				continue
			}
			// â_r has a[idx] at degree K-1-c
			shift := l.K - 1 - c
			for i := 0; i < l.K; i++ {
				resp.Q[i+shift] = f.Add(resp.Q[i+shift], f.Mul(a[idx], p[i]))
			}
		}
	}
	for i := 0; i < l.K; i++ {
		resp.Q[i] = f.Add(resp.Q[i], pk.coeffs[r0Row][i])
	}
	for i := 0; i < l.K-1; i++ {
		resp.Q[l.K+i] = f.Add(resp.Q[l.K+i], pk.coeffs[r1Row][i])
	}
	return resp, nil
}

// Open reveals the columns at positions, reading every row codeword through
// the factory's position check.
func (pk *ProverKey[E, X]) Open(positions []int) (*Opening[X], error) {
	op := &Opening[X]{Columns: make([][]X, len(positions))}
	for t := range op.Columns {
		op.Columns[t] = make([]X, pk.layout.Rows())
	}
	for j, cw := range pk.code {
		vals, err := pk.fa.CheckPositions(cw, positions)
		if err != nil {
			return nil, fmt.Errorf("Open: row %d: %w", j, err)
		}
		for t, v := range vals {
			op.Columns[t][j] = v
		}
	}
	op.DECS = pk.dp.Open(positions)
	return op, nil
}
