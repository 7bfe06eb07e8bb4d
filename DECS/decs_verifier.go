package decs

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// VerifyColumn checks that payload is the committed column at idx.
func VerifyColumn(root Digest, idx int, payload []byte, op *Opening, t int) bool {
	if t < 0 || t >= len(op.Nonces) || len(op.Nonces[t]) != NonceBytes {
		return false
	}
	return VerifyPath(leafBytes(idx, payload, op.Nonces[t]), op.Paths[t], root, idx)
}

// VerifyOpening checks every opened column; payloads[t] belongs to
// positions[t]. Columns are checked in parallel.
func VerifyOpening(root Digest, positions []int, payloads [][]byte, op *Opening) bool {
	if op == nil || len(positions) != len(payloads) || len(op.Nonces) != len(positions) || len(op.Paths) != len(positions) {
		return false
	}
	ok := make([]bool, len(positions))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for t := range positions {
		t := t
		g.Go(func() error {
			ok[t] = VerifyColumn(root, positions[t], payloads[t], op, t)
			return nil
		})
	}
	_ = g.Wait()
	for _, b := range ok {
		if !b {
			return false
		}
	}
	return true
}
