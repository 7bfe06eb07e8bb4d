// Package engine runs the product statement end to end over a backend chosen
// by name, for the CLI, the sweep and the HTTP service.
package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"ligerozk/circuit"
	"ligerozk/internal/config"
	"ligerozk/internal/demo"
	"ligerozk/internal/field"
	"ligerozk/internal/field/bn254"
	"ligerozk/internal/field/p256"
	"ligerozk/internal/prof"
	"ligerozk/transcript"
	"ligerozk/witness"
	"ligerozk/zk"
)

var ErrNoInstances = errors.New("engine: no instances")

// Instance is one row of the product statement: public C, private A and B.
type Instance struct {
	C uint64 `json:"c"`
	A uint64 `json:"a"`
	B uint64 `json:"b"`
}

// Engine proves and verifies product statements. Verify returns an error only
// for parameter or encoding problems; a rejected proof is (false, nil).
type Engine interface {
	Field() string
	Report(p config.Params, batch int) (zk.SizeReport, error)
	Prove(p config.Params, rows []Instance, rng io.Reader) ([]byte, error)
	Verify(p config.Params, public []uint64, proof []byte) (bool, error)
}

// New returns the engine for a field listed in config.Fields.
func New(name string, rec *prof.Recorder) (Engine, error) {
	switch name {
	case "p256":
		f := p256.NewFp()
		return &backend[p256.Elt, p256.Elt2]{name: name, f: f, ext: p256.NewFp2(f), rec: rec}, nil
	case "bn254":
		f := bn254.New()
		return &backend[bn254.Elt, bn254.Elt]{name: name, f: f, ext: f, rec: rec}, nil
	}
	return nil, fmt.Errorf("%w: unknown field %q", config.ErrInvalid, name)
}

type backend[E, X any] struct {
	name string
	f    field.Field[E]
	ext  field.Extension[E, X]
	rec  *prof.Recorder
}

func (b *backend[E, X]) Field() string { return b.name }

func (b *backend[E, X]) track(start time.Time, label string) {
	if b.rec != nil {
		b.rec.Track(start, label)
	}
}

func (b *backend[E, X]) statement(batch int) (*circuit.Circuit[E], error) {
	if batch <= 0 {
		return nil, ErrNoInstances
	}
	if batch > config.MaxBatch {
		return nil, fmt.Errorf("%w: %d instances, at most %d", config.ErrInvalid, batch, config.MaxBatch)
	}
	return demo.Product(b.f, batch)
}

func (b *backend[E, X]) Report(p config.Params, batch int) (zk.SizeReport, error) {
	c, err := b.statement(batch)
	if err != nil {
		return zk.SizeReport{}, err
	}
	proof, err := zk.NewProof(c, b.f, b.ext, p.Rate, p.Req)
	if err != nil {
		return zk.SizeReport{}, err
	}
	return proof.Report(), nil
}

func (b *backend[E, X]) Prove(p config.Params, rows []Instance, rng io.Reader) ([]byte, error) {
	c, err := b.statement(len(rows))
	if err != nil {
		return nil, err
	}
	wit := witness.NewDense(b.f, len(rows), demo.ProductInputs)
	for i, r := range rows {
		demo.FillProduct(b.f, wit, i, b.f.FromUint64(r.C), b.f.FromUint64(r.A), b.f.FromUint64(r.B))
	}
	proof, err := zk.NewProof(c, b.f, b.ext, p.Rate, p.Req)
	if err != nil {
		return nil, err
	}
	pr, err := zk.NewProver(c, b.f, b.ext, p.Rate, p.Req)
	if err != nil {
		return nil, err
	}
	ts := transcript.New(p.Label)

	start := time.Now()
	if err := pr.Commit(proof, wit, ts, rng); err != nil {
		return nil, err
	}
	b.track(start, "commit")
	start = time.Now()
	if err := pr.Prove(proof, wit, ts); err != nil {
		return nil, err
	}
	b.track(start, "prove")
	return proof.MarshalBinary()
}

func (b *backend[E, X]) Verify(p config.Params, public []uint64, buf []byte) (bool, error) {
	c, err := b.statement(len(public))
	if err != nil {
		return false, err
	}
	proof, err := zk.NewProof(c, b.f, b.ext, p.Rate, p.Req)
	if err != nil {
		return false, err
	}
	if err := proof.Read(buf); err != nil {
		return false, err
	}
	pub := witness.NewDense(b.f, len(public), demo.ProductInputs)
	for i, x := range public {
		pub.Set(i, 0, b.f.One())
		pub.Set(i, 1, b.f.FromUint64(x))
	}
	v, err := zk.NewVerifier(c, b.f, b.ext, p.Rate, p.Req)
	if err != nil {
		return false, err
	}
	ts := transcript.New(p.Label)
	if err := v.RecvCommitment(proof, ts); err != nil {
		return false, err
	}
	defer b.track(time.Now(), "verify")
	return v.Verify(proof, pub, ts), nil
}

// Public extracts the public column of rows.
func Public(rows []Instance) []uint64 {
	out := make([]uint64, len(rows))
	for i, r := range rows {
		out[i] = r.C
	}
	return out
}

// Demo returns n satisfied instances (i+2)·(i+3).
func Demo(n int) []Instance {
	out := make([]Instance, n)
	for i := range out {
		a, b := uint64(i+2), uint64(i+3)
		out[i] = Instance{C: a * b, A: a, B: b}
	}
	return out
}
