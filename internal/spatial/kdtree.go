// Package spatial holds a 2D k-d tree over points on the world X/Z plane.
package spatial

import (
	"container/heap"
	"sort"
)

// Point is an indexed position carrying a caller value.
type Point[T any] struct {
	X     float64
	Z     float64
	Value T
}

type node[T any] struct {
	point Point[T]
	axis  int
	left  *node[T]
	right *node[T]
}

// KDTree supports insertion and bounded k-nearest queries. It has no delete
// operation; rebuild it from the live set after removals.
type KDTree[T any] struct {
	root *node[T]
	size int
}

func New[T any]() *KDTree[T] {
	return &KDTree[T]{}
}

// Build constructs a balanced tree from points by median splits.
func Build[T any](points []Point[T]) *KDTree[T] {
	buf := make([]Point[T], len(points))
	copy(buf, points)
	return &KDTree[T]{
		root: build(buf, 0),
		size: len(buf),
	}
}

func build[T any](points []Point[T], depth int) *node[T] {
	if len(points) == 0 {
		return nil
	}
	axis := depth % 2
	sort.SliceStable(points, func(i, j int) bool {
		return coord(points[i], axis) < coord(points[j], axis)
	})
	mid := len(points) / 2
	return &node[T]{
		point: points[mid],
		axis:  axis,
		left:  build(points[:mid], depth+1),
		right: build(points[mid+1:], depth+1),
	}
}

// Len returns the number of indexed points.
func (t *KDTree[T]) Len() int {
	return t.size
}

// Insert descends to a leaf and attaches p there.
func (t *KDTree[T]) Insert(p Point[T]) {
	t.size++
	if t.root == nil {
		t.root = &node[T]{point: p}
		return
	}
	cur := t.root
	for {
		if coord(p, cur.axis) < coord(cur.point, cur.axis) {
			if cur.left == nil {
				cur.left = &node[T]{point: p, axis: 1 - cur.axis}
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = &node[T]{point: p, axis: 1 - cur.axis}
				return
			}
			cur = cur.right
		}
	}
}

// Nearest returns up to k points whose squared planar distance to (x, z) is
// at most maxSquaredDistance, nearest first.
func (t *KDTree[T]) Nearest(x, z float64, k int, maxSquaredDistance float64) []Point[T] {
	if k <= 0 || t.root == nil || maxSquaredDistance < 0 {
		return nil
	}
	best := &candidateHeap[T]{}
	t.search(t.root, x, z, k, maxSquaredDistance, best)

	out := make([]Point[T], best.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(best).(candidate[T]).point
	}
	return out
}

func (t *KDTree[T]) search(n *node[T], x, z float64, k int, maxSq float64, best *candidateHeap[T]) {
	if n == nil {
		return
	}
	dx := n.point.X - x
	dz := n.point.Z - z
	dist := dx*dx + dz*dz
	if dist <= maxSq {
		if best.Len() < k {
			heap.Push(best, candidate[T]{point: n.point, dist: dist})
		} else if dist < (*best)[0].dist {
			(*best)[0] = candidate[T]{point: n.point, dist: dist}
			heap.Fix(best, 0)
		}
	}

	diff := x - n.point.X
	if n.axis == 1 {
		diff = z - n.point.Z
	}
	near, far := n.left, n.right
	if diff >= 0 {
		near, far = n.right, n.left
	}
	t.search(near, x, z, k, maxSq, best)

	planeSq := diff * diff
	if planeSq > maxSq {
		return
	}
	if best.Len() < k || planeSq < (*best)[0].dist {
		t.search(far, x, z, k, maxSq, best)
	}
}

func coord[T any](p Point[T], axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Z
}

type candidate[T any] struct {
	point Point[T]
	dist  float64
}

// candidateHeap is a max-heap on distance so the worst kept candidate is on top.
type candidateHeap[T any] []candidate[T]

func (h candidateHeap[T]) Len() int           { return len(h) }
func (h candidateHeap[T]) Less(i, j int) bool { return h[i].dist > h[j].dist }
func (h candidateHeap[T]) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap[T]) Push(x any) {
	*h = append(*h, x.(candidate[T]))
}

func (h *candidateHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
