package lvcs

import (
	"errors"
	"fmt"
	"runtime"

	decs "ligerozk/DECS"
	rs "ligerozk/RS"
	"ligerozk/internal/field"

	"golang.org/x/sync/errgroup"
)

// ErrReject wraps every reason Check refuses a response.
var ErrReject = errors.New("lvcs: reject")

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReject, fmt.Sprintf(format, args...))
}

// Check verifies the low-degree and linear tests against the opened columns
// at positions: the columns must hash to root, every column must agree with
// resp.LD under weights u, with resp.Q under the folded row a, and resp.Q
// must carry target at degree K-1.
func Check[E, X any](
	f field.Field[E],
	fa *rs.Factory[E, X],
	l Layout,
	root decs.Digest,
	u, a []E,
	target E,
	resp *Response[E],
	positions []int,
	op *Opening[X],
) error {
	if resp == nil || op == nil || op.DECS == nil {
		return reject("missing response or opening")
	}
	if len(resp.LD) != l.K || len(resp.Q) != 2*l.K-1 {
		return reject("response shape %d/%d, want %d/%d", len(resp.LD), len(resp.Q), l.K, 2*l.K-1)
	}
	if len(u) != l.LDWeights() || len(a) != l.NW {
		return reject("challenge shape mismatch")
	}
	if len(positions) != l.Req || len(op.Columns) != l.Req {
		return reject("got %d columns for %d positions, want %d", len(op.Columns), len(positions), l.Req)
	}
	if !f.Equal(resp.Q[l.K-1], target) {
		return reject("linear test target mismatch")
	}
	ext := fa.Ext()
	payloads := make([][]byte, len(positions))
	for t, col := range op.Columns {
		if len(col) != l.Rows() {
			return reject("column %d has %d rows, want %d", t, len(col), l.Rows())
		}
		payloads[t] = columnBytes[X](ext, col)
	}
	if !decs.VerifyOpening(root, positions, payloads, op.DECS) {
		return reject("merkle opening")
	}

	errs := make([]error, len(positions))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for t := range positions {
		t := t
		g.Go(func() error {
			errs[t] = checkColumn(f, fa, l, u, a, resp, positions[t], op.Columns[t])
			return nil
		})
	}
	_ = g.Wait()
	for t, err := range errs {
		if err != nil {
			return fmt.Errorf("column %d (position %d): %w", t, positions[t], err)
		}
	}
	return nil
}

func checkColumn[E, X any](f field.Field[E], fa *rs.Factory[E, X], l Layout, u, a []E, resp *Response[E], e int, col []X) error {
	ext := fa.Ext()
	eta, err := fa.Point(l.N, e)
	if err != nil {
		return reject("evaluation point: %v", err)
	}

	got := col[blindRow]
	for j := 1; j < l.Rows(); j++ {
		got = ext.Add(got, ext.Mul(ext.Embed(u[j-1]), col[j]))
	}
	if !ext.Equal(got, fa.EvalAt(resp.LD, eta)) {
		return reject("low-degree test")
	}

	pow := field.Powers[X](ext, eta, l.K+1)
	acc := ext.Add(col[r0Row], ext.Mul(pow[l.K], col[r1Row]))
	for r := 0; r < l.WitnessRows; r++ {
		ahat := ext.Zero()
		for c := 0; c < l.Ell; c++ {
			idx := r*l.Ell + c
			if idx >= l.NW {
				break
			}
			if f.IsZero(a[idx]) {
				continue
			}
			ahat = ext.Add(ahat, ext.Mul(ext.Embed(a[idx]), pow[l.K-1-c]))
		}
		acc = ext.Add(acc, ext.Mul(ahat, col[firstWitnessRow+r]))
	}
	if !ext.Equal(acc, fa.EvalAt(resp.Q, eta)) {
		return reject("linear test")
	}
	return nil
}
