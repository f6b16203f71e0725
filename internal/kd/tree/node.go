package tree

// nilNode marks an absent child in the node arena.
const nilNode int32 = -1

// Node represents a KD-tree node stored in the tree arena. Children are
// addressed by arena position.
type Node struct {
	point Point
	axis  int32
	left  int32
	right int32
}

// NewNode constructs a leaf node for the provided point and split axis.
func NewNode(point Point, axis int) Node {
	return Node{point: point, axis: int32(axis), left: nilNode, right: nilNode}
}

// Point returns the node point.
func (n *Node) Point() *Point { return &n.point }

// Axis returns the node split axis.
func (n *Node) Axis() int { return int(n.axis) }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.left == nilNode && n.right == nilNode }
