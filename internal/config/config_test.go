package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadMixedCaseKeys(t *testing.T) {
	p, err := Load(write(t, `{"Rate": 8, "REQ": 20, "label": "x", "Field": "BN254"}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Params{Rate: 8, Req: 20, Label: "x", Field: "bn254", Batch: DefaultBatch}
	if p != want {
		t.Fatalf("Load = %+v, want %+v", p, want)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	p, err := Load(write(t, `{}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		`{"rate": 3}`,
		`{"rate": 4.5}`,
		`{"req": 0}`,
		`{"batch": -1}`,
		`{"rate": 32}`,
		`{"req": 1025}`,
		`{"batch": 1025}`,
		`{"label": 7}`,
		`{"field": "goldilocks"}`,
	} {
		if _, err := Load(write(t, body)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("Load(%s) error = %v, want ErrInvalid", body, err)
		}
	}
	if _, err := Load(write(t, `{`)); err == nil {
		t.Fatalf("Load accepted broken JSON")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	in := Params{Rate: 2, Req: 9, Label: "demo", Field: "bn254", Batch: 3}
	if err := in.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if in != out {
		t.Fatalf("Load = %+v, want %+v", out, in)
	}
}
