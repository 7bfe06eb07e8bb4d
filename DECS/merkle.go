package decs

import (
	"bytes"
	"runtime"

	"golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"
)

const (
	leafPrefix byte = 0x00
	nodePrefix byte = 0x01
)

// DigestBytes is the SHAKE-256 output length used for every tree node.
const DigestBytes = 32

// Digest is a tree node.
type Digest [DigestBytes]byte

// MerkleTree is a full binary Merkle tree over SHAKE-256 digests.
type MerkleTree struct {
	layers [][]Digest
}

// BuildMerkleTree hashes the leaves in parallel and builds a balanced tree,
// padding to a power of two with the empty-leaf digest.
func BuildMerkleTree(leaves [][]byte) *MerkleTree {
	n := len(leaves)
	size := 1
	for size < n {
		size <<= 1
	}
	layer := make([]Digest, size)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			layer[i] = hashLeaf(leaves[i])
			return nil
		})
	}
	_ = g.Wait()
	for i := n; i < size; i++ {
		layer[i] = shake32([]byte{leafPrefix})
	}
	layers := [][]Digest{layer}

	for sz := size; sz > 1; sz >>= 1 {
		prev := layers[len(layers)-1]
		next := make([]Digest, sz/2)
		for i := 0; i < sz; i += 2 {
			next[i/2] = hashNode(prev[i], prev[i+1])
		}
		layers = append(layers, next)
	}

	return &MerkleTree{layers: layers}
}

// Root returns the root hash.
func (mt *MerkleTree) Root() Digest {
	return mt.layers[len(mt.layers)-1][0]
}

// Depth is the authentication path length.
func (mt *MerkleTree) Depth() int { return len(mt.layers) - 1 }

// Path returns the sibling path for leaf idx, leaf level first.
func (mt *MerkleTree) Path(idx int) []Digest {
	path := make([]Digest, mt.Depth())
	for lvl := range path {
		path[lvl] = mt.layers[lvl][idx^1]
		idx >>= 1
	}
	return path
}

// TreeDepth is the path length of a tree over n leaves.
func TreeDepth(n int) int {
	d := 0
	for size := 1; size < n; size <<= 1 {
		d++
	}
	return d
}

// VerifyPath checks leaf→root via path.
func VerifyPath(leaf []byte, path []Digest, root Digest, idx int) bool {
	h := hashLeaf(leaf)
	for _, sib := range path {
		if idx&1 == 0 {
			h = hashNode(h, sib)
		} else {
			h = hashNode(sib, h)
		}
		idx >>= 1
	}
	return idx == 0 && bytes.Equal(h[:], root[:])
}

func hashLeaf(leaf []byte) Digest {
	buf := make([]byte, 1+len(leaf))
	buf[0] = leafPrefix
	copy(buf[1:], leaf)
	return shake32(buf)
}

func hashNode(l, r Digest) Digest {
	var buf [1 + 2*DigestBytes]byte
	buf[0] = nodePrefix
	copy(buf[1:], l[:])
	copy(buf[1+DigestBytes:], r[:])
	return shake32(buf[:])
}

func shake32(data []byte) Digest {
	var out Digest
	h := sha3.NewShake256()
	_, _ = h.Write(data)
	_, _ = h.Read(out[:])
	return out
}
