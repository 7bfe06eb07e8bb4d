package transcript

import (
	"bytes"
	"testing"

	"ligerozk/internal/field/p256"
)

func TestDeterministicChallenges(t *testing.T) {
	f := p256.NewFp()
	run := func(label string) []p256.Elt {
		ts := New(label)
		ts.Absorb([]byte("commitment"))
		a := Challenge[p256.Elt](ts, f)
		AbsorbElements[p256.Elt](ts, f, f.FromUint64(1), f.FromUint64(2))
		b := Challenges[p256.Elt](ts, f, 3)
		return append([]p256.Elt{a}, b...)
	}
	x, y := run("test_transcript"), run("test_transcript")
	for i := range x {
		if !f.Equal(x[i], y[i]) {
			t.Fatalf("challenge %d differs between identical runs", i)
		}
	}
	z := run("other_label")
	if f.Equal(x[0], z[0]) {
		t.Fatalf("different labels produced the same first challenge")
	}
}

func TestSqueezeNeverRepeats(t *testing.T) {
	ts := New("l")
	a := ts.Squeeze(32)
	b := ts.Squeeze(32)
	if bytes.Equal(a, b) {
		t.Fatalf("consecutive squeezes repeated")
	}
}

func TestAbsorbOrderMatters(t *testing.T) {
	t1, t2 := New("l"), New("l")
	t1.Absorb([]byte("a"))
	t1.Absorb([]byte("b"))
	t2.Absorb([]byte("b"))
	t2.Absorb([]byte("a"))
	if bytes.Equal(t1.Squeeze(32), t2.Squeeze(32)) {
		t.Fatalf("absorb order did not affect the state")
	}
	// message boundaries are part of the history
	t3, t4 := New("l"), New("l")
	t3.Absorb([]byte("ab"))
	t4.Absorb([]byte("a"))
	t4.Absorb([]byte("b"))
	if bytes.Equal(t3.Squeeze(32), t4.Squeeze(32)) {
		t.Fatalf("split absorb collided with joined absorb")
	}
}

func TestChallengeIndicesDistinct(t *testing.T) {
	ts := New("idx")
	got := ts.ChallengeIndices(64, 16)
	if len(got) != 16 {
		t.Fatalf("got %d indices", len(got))
	}
	seen := map[int]bool{}
	for _, i := range got {
		if i < 0 || i >= 64 || seen[i] {
			t.Fatalf("bad or repeated index %d in %v", i, got)
		}
		seen[i] = true
	}
	all := New("idx").ChallengeIndices(8, 8)
	if len(all) != 8 {
		t.Fatalf("full draw returned %d indices", len(all))
	}
}

func TestExtensionChallenge(t *testing.T) {
	e := p256.NewFp2(p256.NewFp())
	run := func() (p256.Elt2, p256.Elt2) {
		ts := New("ext_transcript")
		return Challenge[p256.Elt2](ts, e), Challenge[p256.Elt2](ts, e)
	}
	a, b := run()
	c, _ := run()
	if !e.Equal(a, c) {
		t.Fatalf("extension challenge not deterministic")
	}
	if e.Equal(a, b) {
		t.Fatalf("consecutive extension challenges repeated")
	}
}
