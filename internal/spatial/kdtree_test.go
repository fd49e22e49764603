package spatial

import (
	"math/rand"
	"sort"
	"testing"
)

func TestNearestReturnsClosestWithinBound(t *testing.T) {
	tree := New[string]()
	tree.Insert(Point[string]{X: 0, Z: 0, Value: "origin"})
	tree.Insert(Point[string]{X: 10, Z: 0, Value: "east"})
	tree.Insert(Point[string]{X: 0, Z: 10, Value: "north"})

	got := tree.Nearest(1, 1, 1, 2.5*2.5)
	if len(got) != 1 || got[0].Value != "origin" {
		t.Fatalf("expected origin, got %#v", got)
	}

	if got := tree.Nearest(1, 1, 1, 0.5*0.5); len(got) != 0 {
		t.Fatalf("expected no result inside a tiny radius, got %#v", got)
	}
}

func TestNearestOrdersResults(t *testing.T) {
	tree := Build([]Point[int]{
		{X: 5, Z: 5, Value: 3},
		{X: 1, Z: 0, Value: 1},
		{X: 2, Z: 2, Value: 2},
		{X: 9, Z: 9, Value: 4},
	})
	got := tree.Nearest(0, 0, 3, 1000)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.Value != want[i] {
			t.Fatalf("result %d: got %d want %d", i, p.Value, want[i])
		}
	}
}

func TestNearestHandlesEmptyAndDegenerateQueries(t *testing.T) {
	empty := New[int]()
	if got := empty.Nearest(0, 0, 1, 100); got != nil {
		t.Fatalf("expected nil from empty tree, got %#v", got)
	}
	tree := Build([]Point[int]{{X: 1, Z: 1, Value: 1}})
	if got := tree.Nearest(0, 0, 0, 100); got != nil {
		t.Fatalf("expected nil for k=0, got %#v", got)
	}
	if tree.Len() != 1 {
		t.Fatalf("expected len 1, got %d", tree.Len())
	}
}

func TestNearestMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	points := make([]Point[int], 500)
	for i := range points {
		points[i] = Point[int]{X: r.Float64()*200 - 100, Z: r.Float64()*200 - 100, Value: i}
	}

	built := Build(points)
	inserted := New[int]()
	for _, p := range points {
		inserted.Insert(p)
	}

	for q := 0; q < 200; q++ {
		x := r.Float64()*220 - 110
		z := r.Float64()*220 - 110
		maxSq := r.Float64() * 900
		k := 1 + r.Intn(5)

		want := bruteForce(points, x, z, k, maxSq)
		for name, tree := range map[string]*KDTree[int]{"built": built, "inserted": inserted} {
			got := tree.Nearest(x, z, k, maxSq)
			if len(got) != len(want) {
				t.Fatalf("%s query %d: got %d results want %d", name, q, len(got), len(want))
			}
			for i := range got {
				if distSq(got[i], x, z) != distSq(want[i], x, z) {
					t.Fatalf("%s query %d result %d: distance %v want %v", name, q, i, distSq(got[i], x, z), distSq(want[i], x, z))
				}
			}
		}
	}
}

func bruteForce(points []Point[int], x, z float64, k int, maxSq float64) []Point[int] {
	var in []Point[int]
	for _, p := range points {
		if distSq(p, x, z) <= maxSq {
			in = append(in, p)
		}
	}
	sort.Slice(in, func(i, j int) bool { return distSq(in[i], x, z) < distSq(in[j], x, z) })
	if len(in) > k {
		in = in[:k]
	}
	return in
}

func distSq(p Point[int], x, z float64) float64 {
	dx := p.X - x
	dz := p.Z - z
	return dx*dx + dz*dz
}
