package decs

// NonceBytes is the length of the per-column hiding nonce.
const NonceBytes = 32

// Opening authenticates a set of committed columns. Nonces[t] and Paths[t]
// belong to the t-th requested position; paths have fixed length so the
// encoded size depends only on the tree shape.
type Opening struct {
	Nonces [][]byte
	Paths  [][]Digest
}

// NewOpening allocates an opening for count positions in a tree of depth.
func NewOpening(count, depth int) *Opening {
	op := &Opening{
		Nonces: make([][]byte, count),
		Paths:  make([][]Digest, count),
	}
	for t := range op.Nonces {
		op.Nonces[t] = make([]byte, NonceBytes)
		op.Paths[t] = make([]Digest, depth)
	}
	return op
}

// EncodedLen is the byte length of an opening with this shape.
func EncodedLen(count, depth int) int {
	return count * (NonceBytes + depth*DigestBytes)
}

// AppendTo appends nonces then paths, position by position.
func (op *Opening) AppendTo(dst []byte) []byte {
	for t := range op.Nonces {
		dst = append(dst, op.Nonces[t]...)
		for _, d := range op.Paths[t] {
			dst = append(dst, d[:]...)
		}
	}
	return dst
}

// ReadFrom fills a pre-shaped opening from b and returns the rest.
func (op *Opening) ReadFrom(b []byte) ([]byte, bool) {
	for t := range op.Nonces {
		need := NonceBytes + len(op.Paths[t])*DigestBytes
		if len(b) < need {
			return nil, false
		}
		copy(op.Nonces[t], b[:NonceBytes])
		b = b[NonceBytes:]
		for lvl := range op.Paths[t] {
			copy(op.Paths[t][lvl][:], b[:DigestBytes])
			b = b[DigestBytes:]
		}
	}
	return b, true
}
