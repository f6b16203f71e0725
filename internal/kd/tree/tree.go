package tree

// The node graph is kept in a single arena; children are arena positions, so
// the tree is released as one slice and never needs reference counting.

import (
	"cmp"
	"math"
	"slices"
)

// Tree represents an immutable KD-tree for exact nearest-neighbour queries.
// T is an optional per-point payload resolved through Value.
type Tree[T any] struct {
	nodes     []Node
	root      int32
	axisCount int
	depth     int
	distance  DistanceFunc
	values    values[T]
}

// Build constructs a median-split tree over points, splitting on the first
// axisCount components in depth order. Payloads, when provided, must be
// addressed by point index. Build does not validate point shapes; callers do.
func Build[T any](points []Point, axisCount int, payloads []T) *Tree[T] {
	t := &Tree[T]{
		root:      nilNode,
		axisCount: axisCount,
		distance:  Distance(axisCount),
		values:    values[T]{data: payloads},
	}
	if len(points) == 0 || axisCount <= 0 {
		return t
	}
	work := make([]Point, len(points))
	copy(work, points)
	t.nodes = make([]Node, 0, len(points))

	type frame struct {
		lo, hi int
		depth  int
		parent int32
		left   bool
	}
	stack := []frame{{lo: 0, hi: len(work), parent: nilNode}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		axis := f.depth % axisCount
		part := work[f.lo:f.hi]
		slices.SortFunc(part, compareOn(axis, axisCount))
		median := len(part) / 2

		id := int32(len(t.nodes))
		t.nodes = append(t.nodes, NewNode(part[median], axis))
		if f.depth+1 > t.depth {
			t.depth = f.depth + 1
		}
		switch {
		case f.parent == nilNode:
			t.root = id
		case f.left:
			t.nodes[f.parent].left = id
		default:
			t.nodes[f.parent].right = id
		}

		mid := f.lo + median
		if mid+1 < f.hi {
			stack = append(stack, frame{lo: mid + 1, hi: f.hi, depth: f.depth + 1, parent: id})
		}
		if mid > f.lo {
			stack = append(stack, frame{lo: f.lo, hi: mid, depth: f.depth + 1, parent: id, left: true})
		}
	}
	return t
}

// compareOn orders points by the split axis, then by the remaining axes in
// cyclic order, then by input position. The order is total, so tree shape is
// reproducible for any input.
func compareOn(axis, axisCount int) func(a, b Point) int {
	return func(a, b Point) int {
		for i := 0; i < axisCount; i++ {
			ax := (axis + i) % axisCount
			if c := cmp.Compare(a.Coords[ax], b.Coords[ax]); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.index, b.index)
	}
}

// Nearest runs a depth-first branch-and-bound search and returns the stored
// point minimizing the squared distance to query. The second result is false
// when the tree has no root.
func (t *Tree[T]) Nearest(query []float64) (Neighbor, bool) {
	if t == nil || t.root == nilNode {
		return Neighbor{}, false
	}
	type frame struct {
		node  int32
		plane float64
		prune bool
	}
	stack := make([]frame, 0, 2*t.depth+1)
	stack = append(stack, frame{node: t.root})

	var best *Point
	bestDist := math.Inf(1)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// the far side is checked only once its near sibling has been fully explored
		if f.prune && !(f.plane < bestDist) {
			continue
		}
		n := &t.nodes[f.node]
		d := t.distance(query, n.point.Coords)
		if best == nil || d < bestDist {
			best = &n.point
			bestDist = d
		}
		diff := query[n.axis] - n.point.Coords[n.axis]
		near, far := n.right, n.left
		if diff < 0 {
			near, far = n.left, n.right
		}
		if far != nilNode {
			stack = append(stack, frame{node: far, plane: diff * diff, prune: true})
		}
		if near != nilNode {
			stack = append(stack, frame{node: near})
		}
	}
	return Neighbor{Point: best, Distance: bestDist}, true
}

// Walk visits nodes in pre-order with their depth until fn returns false.
func (t *Tree[T]) Walk(fn func(node *Node, depth int) bool) {
	if t == nil || t.root == nilNode {
		return
	}
	type frame struct {
		node  int32
		depth int
	}
	stack := []frame{{node: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[f.node]
		if !fn(n, f.depth) {
			return
		}
		if n.right != nilNode {
			stack = append(stack, frame{node: n.right, depth: f.depth + 1})
		}
		if n.left != nilNode {
			stack = append(stack, frame{node: n.left, depth: f.depth + 1})
		}
	}
}

// Left returns the left child of n, or nil.
func (t *Tree[T]) Left(n *Node) *Node { return t.child(n.left) }

// Right returns the right child of n, or nil.
func (t *Tree[T]) Right(n *Node) *Node { return t.child(n.right) }

func (t *Tree[T]) child(id int32) *Node {
	if id == nilNode {
		return nil
	}
	return &t.nodes[id]
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree[T]) Root() *Node {
	if t == nil {
		return nil
	}
	return t.child(t.root)
}

// Value returns the payload stored for point.
func (t *Tree[T]) Value(point *Point) T {
	var zero T
	if t == nil || point == nil {
		return zero
	}
	return t.values.value(point.Index())
}

// ValueAt returns the payload stored for the given input position.
func (t *Tree[T]) ValueAt(index int) T {
	var zero T
	if t == nil {
		return zero
	}
	return t.values.value(index)
}

// Len returns the number of stored points.
func (t *Tree[T]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// AxisCount returns the number of split axes.
func (t *Tree[T]) AxisCount() int { return t.axisCount }

// Depth returns the number of levels in the tree.
func (t *Tree[T]) Depth() int { return t.depth }
