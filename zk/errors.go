package zk

import "errors"

var (
	// ErrCircuitUnsatisfied is returned by Prove when the witness breaks an
	// assertion or column 0 is not one. Nothing is written to the proof.
	ErrCircuitUnsatisfied = errors.New("zk: circuit unsatisfied")
	// ErrParameterMismatch reports rate/req/circuit shape disagreement.
	ErrParameterMismatch = errors.New("zk: parameter mismatch")
	// ErrMalformedProof reports a byte buffer that does not parse as a proof
	// of the expected shape.
	ErrMalformedProof = errors.New("zk: malformed proof")
)
