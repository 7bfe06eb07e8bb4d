package zk

import (
	"fmt"
	"io"

	decs "ligerozk/DECS"
	lvcs "ligerozk/LVCS"
	"ligerozk/circuit"
	"ligerozk/internal/field"
	"ligerozk/sumcheck"
)

// Proof is pre-shaped from (circuit, rate, req); its encoded length is a pure
// function of that triple and carries no length headers.
//
// Wire order: root, round messages, final claims, low-degree polynomial,
// linear-test polynomial, opened columns, nonces and paths.
type Proof[E, X any] struct {
	f     field.Field[E]
	ext   field.Extension[E, X]
	shape shape

	Root   decs.Digest
	Rounds [][sumcheck.Evals]E
	// XR, YR, ZR are the multiplication operand tables evaluated at the
	// sumcheck point.
	XR, YR, ZR E
	Resp       *lvcs.Response[E]
	Open       *lvcs.Opening[X]
}

// NewProof returns an empty proof for c at the given rate and req. Only the
// round messages are allocated here; Resp and Open stay nil until Prove or a
// successful length check in Read fills them, so the size of an untrusted
// buffer is checked before any req-dependent allocation.
func NewProof[E, X any](c *circuit.Circuit[E], f field.Field[E], ext field.Extension[E, X], rate, req int) (*Proof[E, X], error) {
	s, err := newShape(c, rate, req)
	if err != nil {
		return nil, err
	}
	p := &Proof[E, X]{
		f:      f,
		ext:    ext,
		shape:  s,
		Rounds: make([][sumcheck.Evals]E, s.Rounds),
	}
	return p, nil
}

// Rate and Req report the parameters the proof was shaped for.
func (p *Proof[E, X]) Rate() int { return p.shape.Rate }
func (p *Proof[E, X]) Req() int  { return p.shape.Req }

// SizeReport breaks the encoded length down by section.
type SizeReport struct {
	Commitment int
	Rounds     int
	Claims     int
	LowDegree  int
	Linear     int
	Columns    int
	Nonces     int
	Paths      int
	Total      int
}

// Report computes the section sizes of the encoding from the shape alone.
func (p *Proof[E, X]) Report() SizeReport {
	s := p.shape
	l := s.Layout
	w, wx := p.f.ByteLen(), p.ext.ByteLen()
	r := SizeReport{
		Commitment: decs.DigestBytes,
		Rounds:     s.Rounds * sumcheck.Evals * w,
		Claims:     3 * w,
		LowDegree:  l.K * w,
		Linear:     (2*l.K - 1) * w,
		Columns:    l.Req * l.Rows() * wx,
		Nonces:     l.Req * decs.NonceBytes,
		Paths:      l.Req * l.Depth() * decs.DigestBytes,
	}
	r.Total = r.Commitment + r.Rounds + r.Claims + r.LowDegree + r.Linear + r.Columns + r.Nonces + r.Paths
	return r
}

// Size is the exact encoded length.
func (p *Proof[E, X]) Size() int { return p.Report().Total }

// MarshalBinary returns the canonical encoding.
func (p *Proof[E, X]) MarshalBinary() ([]byte, error) {
	if err := p.checkFilled(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, p.Size())
	out = append(out, p.Root[:]...)
	for _, rd := range p.Rounds {
		out = field.AppendElements(p.f, out, rd[:]...)
	}
	out = field.AppendElements(p.f, out, p.XR, p.YR, p.ZR)
	out = field.AppendElements(p.f, out, p.Resp.LD...)
	out = field.AppendElements(p.f, out, p.Resp.Q...)
	for _, col := range p.Open.Columns {
		out = field.AppendElements[X](p.ext, out, col...)
	}
	out = p.Open.DECS.AppendTo(out)
	return out, nil
}

// WriteTo writes the canonical encoding to w.
func (p *Proof[E, X]) WriteTo(w io.Writer) (int64, error) {
	b, err := p.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Read parses buf, which must be exactly Size bytes.
func (p *Proof[E, X]) Read(buf []byte) error {
	want := p.Size()
	switch {
	case len(buf) < want:
		return fmt.Errorf("%w: %d bytes, want %d", ErrMalformedProof, len(buf), want)
	case len(buf) > want:
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedProof, len(buf)-want)
	}
	s := p.shape
	p.Resp = lvcs.NewResponse[E](s.Layout)
	p.Open = lvcs.NewOpening[X](s.Layout)
	b := buf
	copy(p.Root[:], b[:decs.DigestBytes])
	b = b[decs.DigestBytes:]

	var err error
	read := func(dst []E) {
		if err == nil {
			b, err = field.DecodeElements(p.f, dst, b)
		}
	}
	for i := range p.Rounds {
		read(p.Rounds[i][:])
	}
	claims := make([]E, 3)
	read(claims)
	read(p.Resp.LD)
	read(p.Resp.Q)
	for t := range p.Open.Columns {
		if err == nil {
			b, err = field.DecodeElements[X](p.ext, p.Open.Columns[t], b)
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	p.XR, p.YR, p.ZR = claims[0], claims[1], claims[2]
	rest, ok := p.Open.DECS.ReadFrom(b)
	if !ok || len(rest) != 0 {
		return fmt.Errorf("%w: opening section for req=%d depth=%d", ErrMalformedProof, s.Req, s.Layout.Depth())
	}
	return nil
}

func (p *Proof[E, X]) checkFilled() error {
	l := p.shape.Layout
	if p.Resp == nil || len(p.Resp.LD) != l.K || len(p.Resp.Q) != 2*l.K-1 {
		return fmt.Errorf("%w: response not shaped for k=%d", ErrMalformedProof, l.K)
	}
	if p.Open == nil || p.Open.DECS == nil || len(p.Open.Columns) != l.Req || len(p.Open.DECS.Nonces) != l.Req {
		return fmt.Errorf("%w: opening not shaped for req=%d", ErrMalformedProof, l.Req)
	}
	for t := range p.Open.Columns {
		if len(p.Open.Columns[t]) != l.Rows() || len(p.Open.DECS.Paths[t]) != l.Depth() || len(p.Open.DECS.Nonces[t]) != decs.NonceBytes {
			return fmt.Errorf("%w: opening entry %d misshaped", ErrMalformedProof, t)
		}
	}
	return nil
}
