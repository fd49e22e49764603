package rng

import "testing"

func TestSameSeedProducesSameSequence(t *testing.T) {
	a := New(424242)
	b := New(424242)
	for i := 0; i < 10_000; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("draw %d: %v != %v", i, va, vb)
		}
	}
	if a.Draws() != 10_000 {
		t.Fatalf("expected 10000 draws, got %d", a.Draws())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Next() == b.Next() {
			same++
		}
	}
	if same == 100 {
		t.Fatalf("expected different seeds to produce different sequences")
	}
}

func TestSeedRewindsStream(t *testing.T) {
	src := New(7)
	first := []float64{src.Next(), src.Next(), src.Next()}
	src.Seed(7)
	for i, want := range first {
		if got := src.Next(); got != want {
			t.Fatalf("draw %d after reseed: got %v want %v", i, got, want)
		}
	}
	if src.Initial() != 7 {
		t.Fatalf("unexpected initial seed %d", src.Initial())
	}
}

func TestNextStaysInUnitInterval(t *testing.T) {
	src := New(99)
	for i := 0; i < 100_000; i++ {
		v := src.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of range: %v", i, v)
		}
	}
}

func TestBetweenAndIntnRanges(t *testing.T) {
	src := New(3)
	for i := 0; i < 10_000; i++ {
		v := src.Between(-2.5, 4)
		if v < -2.5 || v >= 4 {
			t.Fatalf("between out of range: %v", v)
		}
		n := src.Intn(5)
		if n < 0 || n >= 5 {
			t.Fatalf("intn out of range: %d", n)
		}
	}

	before := src.Draws()
	if got := src.Intn(0); got != 0 {
		t.Fatalf("Intn(0) = %d", got)
	}
	if src.Draws() != before {
		t.Fatalf("Intn(0) should not consume a draw")
	}
	if v := src.Between(1, 1); v != 1 {
		t.Fatalf("Between(1,1) = %v", v)
	}
}
