// Package config loads the protocol parameters shared out of band by prover
// and verifier.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	DefaultRate  = 4
	DefaultReq   = 16
	DefaultLabel = "test_transcript"
	DefaultField = "p256"
	DefaultBatch = 1
)

// Upper bounds keep a single request from demanding unbounded work or memory.
const (
	MaxRate  = 16
	MaxReq   = 1024
	MaxBatch = 1024
)

// Fields lists the accepted backends.
var Fields = []string{"p256", "bn254"}

var ErrInvalid = errors.New("config: invalid parameters")

// Params fixes one proof system instance. Both sides must use the same values.
type Params struct {
	Rate  int    `json:"rate"`
	Req   int    `json:"req"`
	Label string `json:"label"`
	Field string `json:"field"`
	Batch int    `json:"batch"`
}

// Default returns the parameters of the reference product scenario.
func Default() Params {
	return Params{
		Rate:  DefaultRate,
		Req:   DefaultReq,
		Label: DefaultLabel,
		Field: DefaultField,
		Batch: DefaultBatch,
	}
}

// Load reads a JSON parameter file. Keys may be lower or upper case; missing
// keys keep their defaults.
func Load(path string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := readInt(raw, "rate", &p.Rate); err != nil {
		return p, err
	}
	if err := readInt(raw, "req", &p.Req); err != nil {
		return p, err
	}
	if err := readInt(raw, "batch", &p.Batch); err != nil {
		return p, err
	}
	if err := readString(raw, "label", &p.Label); err != nil {
		return p, err
	}
	if err := readString(raw, "field", &p.Field); err != nil {
		return p, err
	}
	p.Field = strings.ToLower(p.Field)
	return p, p.Validate()
}

// lookup accepts "key", "Key" and "KEY".
func lookup(raw map[string]any, key string) (any, bool) {
	for _, k := range []string{key, strings.ToUpper(key[:1]) + key[1:], strings.ToUpper(key)} {
		if v, ok := raw[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func readInt(raw map[string]any, key string, dst *int) error {
	v, ok := lookup(raw, key)
	if !ok {
		return nil
	}
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalid, key, v)
	}
	*dst = int(f)
	return nil
}

func readString(raw map[string]any, key string, dst *string) error {
	v, ok := lookup(raw, key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: %s must be a string, got %v", ErrInvalid, key, v)
	}
	*dst = s
	return nil
}

// Validate checks the parameters independently of any circuit.
func (p Params) Validate() error {
	if p.Rate < 2 || p.Rate&(p.Rate-1) != 0 || p.Rate > MaxRate {
		return fmt.Errorf("%w: rate must be a power of two in [2, %d], got %d", ErrInvalid, MaxRate, p.Rate)
	}
	if p.Req <= 0 || p.Req > MaxReq {
		return fmt.Errorf("%w: req must be in [1, %d], got %d", ErrInvalid, MaxReq, p.Req)
	}
	if p.Batch <= 0 || p.Batch > MaxBatch {
		return fmt.Errorf("%w: batch must be in [1, %d], got %d", ErrInvalid, MaxBatch, p.Batch)
	}
	if p.Label == "" {
		return fmt.Errorf("%w: empty transcript label", ErrInvalid)
	}
	for _, f := range Fields {
		if p.Field == f {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown field %q (want one of %s)", ErrInvalid, p.Field, strings.Join(Fields, ", "))
}

// Save writes p as indented JSON.
func (p Params) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
