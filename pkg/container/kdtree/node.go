package kdtree

import "github.com/go-sod/kdtree/internal/geom"

// Node holds one stored point and owns its two subtrees.
type Node struct {
	point geom.Point
	left  *Node
	right *Node
}

func NewNode(point []float64) *Node {
	return &Node{point: geom.New(point).Copy()}
}

// Point returns a copy of the coordinates. Changing a stored point in place
// would break the ordering of the tree.
func (n *Node) Point() geom.Point {
	return n.point.Copy()
}

// SetPoint replaces the coordinates with a copy of p. Removal uses it to
// promote a successor into an internal node.
func (n *Node) SetPoint(p []float64) {
	n.point = geom.New(p).Copy()
}

func (n *Node) Left() *Node {
	return n.left
}

func (n *Node) SetLeft(left *Node) {
	n.left = left
}

func (n *Node) Right() *Node {
	return n.right
}

func (n *Node) SetRight(right *Node) {
	n.right = right
}

func (n *Node) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

// Points returns the subtree points in left, self, right order.
func (n *Node) Points() []geom.Point {
	var points []geom.Point
	if n.left != nil {
		points = n.left.Points()
	}
	points = append(points, n.point.Copy())
	if n.right != nil {
		points = append(points, n.right.Points()...)
	}
	return points
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	n.left.walk(fn)
	fn(n)
	n.right.walk(fn)
}
