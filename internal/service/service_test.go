package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"ligerozk/internal/config"
	"ligerozk/internal/engine"

	"github.com/gin-gonic/gin"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	p := config.Default()
	p.Req = 8
	r, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(t), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got["status"] != "ok" {
		t.Fatalf("body %s", w.Body.String())
	}
}

func TestProveThenVerify(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodPost, "/v1/prove", ProveRequest{Instances: []engine.Instance{{C: 30, A: 5, B: 6}}})
	if w.Code != http.StatusOK {
		t.Fatalf("prove status %d: %s", w.Code, w.Body.String())
	}
	var pr ProveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &pr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pr.Proof) == 0 || pr.Req != 8 || pr.Field != "p256" {
		t.Fatalf("unexpected response %+v", pr)
	}

	check := func(inputs []uint64, want bool) {
		t.Helper()
		w := do(t, r, http.MethodPost, "/v1/verify", VerifyRequest{Inputs: inputs, Proof: pr.Proof})
		if w.Code != http.StatusOK {
			t.Fatalf("verify status %d: %s", w.Code, w.Body.String())
		}
		var got struct{ Valid bool }
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Valid != want {
			t.Fatalf("valid = %v for inputs %v", got.Valid, inputs)
		}
	}
	check([]uint64{30}, true)
	check([]uint64{31}, false)

	w = do(t, r, http.MethodPost, "/v1/verify", VerifyRequest{Inputs: []uint64{30}, Proof: pr.Proof, Req: 9})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("verify with other req: status %d", w.Code)
	}
}

func TestProveUnsatisfied(t *testing.T) {
	w := do(t, newRouter(t), http.MethodPost, "/v1/prove", ProveRequest{Instances: []engine.Instance{{C: 30, A: 5, B: 7}}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestBadRequests(t *testing.T) {
	r := newRouter(t)
	if w := do(t, r, http.MethodPost, "/v1/prove", map[string]any{}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty prove: status %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/v1/prove", ProveRequest{Instances: []engine.Instance{{C: 1, A: 1, B: 1}}, Rate: 3}); w.Code != http.StatusBadRequest {
		t.Fatalf("rate 3: status %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/v1/verify", map[string]any{"inputs": []uint64{1}, "proof": "0x00"}); w.Code != http.StatusBadRequest {
		t.Fatalf("short proof: status %d", w.Code)
	}
}

func TestOversizedParametersRejectedCheaply(t *testing.T) {
	r := newRouter(t)
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	w := do(t, r, http.MethodPost, "/v1/verify", map[string]any{"inputs": []uint64{30}, "proof": "0x00", "req": 1 << 18})
	runtime.ReadMemStats(&after)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "req") {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if grew := after.TotalAlloc - before.TotalAlloc; grew > 4<<20 {
		t.Fatalf("rejecting a tiny request allocated %d bytes", grew)
	}

	for _, body := range []map[string]any{
		{"inputs": []uint64{30}, "proof": "0x00", "rate": 1 << 10},
		{"inputs": make([]uint64, 2000), "proof": "0x00"},
	} {
		if w := do(t, r, http.MethodPost, "/v1/verify", body); w.Code != http.StatusBadRequest {
			t.Fatalf("oversized verify: status %d", w.Code)
		}
	}
	many := make([]engine.Instance, 2000)
	if w := do(t, r, http.MethodPost, "/v1/prove", ProveRequest{Instances: many}); w.Code != http.StatusBadRequest {
		t.Fatalf("oversized prove: status %d", w.Code)
	}
}
