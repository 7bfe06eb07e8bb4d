// Package decs commits to the columns of an encoded matrix: every column is a
// Merkle leaf salted with its own random nonce, so opened leaves reveal
// nothing about unopened ones.
package decs

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Prover keeps the tree and nonces between commit and open.
type Prover struct {
	mt     *MerkleTree
	nonces [][]byte
}

// leafBytes binds a column payload to its position and nonce.
func leafBytes(idx int, payload, nonce []byte) []byte {
	buf := make([]byte, 4+len(payload)+len(nonce))
	binary.LittleEndian.PutUint32(buf, uint32(idx))
	copy(buf[4:], payload)
	copy(buf[4+len(payload):], nonce)
	return buf
}

// Commit samples one nonce per column from rng and builds the tree over
// idx ‖ column ‖ nonce.
func Commit(columns [][]byte, rng io.Reader) (*Prover, Digest, error) {
	nonces := make([][]byte, len(columns))
	leaves := make([][]byte, len(columns))
	for i, col := range columns {
		nonces[i] = make([]byte, NonceBytes)
		if _, err := io.ReadFull(rng, nonces[i]); err != nil {
			return nil, Digest{}, fmt.Errorf("Commit: nonce %d: %w", i, err)
		}
		leaves[i] = leafBytes(i, col, nonces[i])
	}
	mt := BuildMerkleTree(leaves)
	return &Prover{mt: mt, nonces: nonces}, mt.Root(), nil
}

// Depth is the path length of every opening.
func (pr *Prover) Depth() int { return pr.mt.Depth() }

// Open returns nonces and paths for positions, in the given order.
func (pr *Prover) Open(positions []int) *Opening {
	op := &Opening{
		Nonces: make([][]byte, len(positions)),
		Paths:  make([][]Digest, len(positions)),
	}
	for t, idx := range positions {
		op.Nonces[t] = append([]byte(nil), pr.nonces[idx]...)
		op.Paths[t] = pr.mt.Path(idx)
	}
	return op
}
