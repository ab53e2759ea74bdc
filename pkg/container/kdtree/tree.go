/*
 * Copyright 2020 Dennis Kuhnert
 * Copyright 2020 Ivanov Nikita
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package kdtree implements a mutable k-d tree. The shape of the tree only
// depends on the insertion order, there is no rebalancing.
//
// For a node at depth d the splitting axis is d % k. Points lower than the
// node on that axis live in the left subtree, the rest in the right one.
package kdtree

import (
	"fmt"
	"math"

	"github.com/go-sod/kdtree/internal/geom"
)

// Range is a closed interval on one axis.
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// New returns an empty tree for points with the given number of dimensions.
func New(dimensions int) (*Tree, error) {
	if dimensions < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDimension, dimensions)
	}
	return &Tree{
		root: nil,
		k:    dimensions,
		len:  0,
	}, nil
}

// Tree is not safe for concurrent use.
type Tree struct {
	root *Node
	k    int
	len  int
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Dimensions() int {
	return t.k
}

func (t *Tree) Len() int {
	return t.len
}

func (t *Tree) Points() []geom.Point {
	if t.root == nil {
		return []geom.Point{}
	}
	return t.root.Points()
}

// Insert adds a copy of p and returns the root. Equal points are stored as
// separate nodes, ties always go to the right.
func (t *Tree) Insert(p []float64) (*Node, error) {
	if err := t.checkPoint(p); err != nil {
		return t.root, err
	}
	t.root = t.insert(t.root, geom.New(p).Copy(), 0)
	t.len += 1
	return t.root, nil
}

func (t *Tree) insert(n *Node, p geom.Point, depth int) *Node {
	if n == nil {
		return &Node{point: p}
	}

	axis := t.axis(depth)
	if p.Dim(axis) < n.point.Dim(axis) {
		n.left = t.insert(n.left, p, depth+1)
	} else {
		n.right = t.insert(n.right, p, depth+1)
	}
	return n
}

// Lookup returns the first node on the search path whose point equals p,
// or nil.
func (t *Tree) Lookup(p []float64) (*Node, error) {
	if err := t.checkPoint(p); err != nil {
		return nil, err
	}

	point := geom.New(p)
	currentNode := t.root
	for depth := 0; currentNode != nil; depth++ {
		if currentNode.point.Equal(point) {
			return currentNode, nil
		}
		currentNode = currentNode.next(point, t.axis(depth))
	}
	return nil, nil
}

// FindMin returns the node with the lowest coordinate on axis inside the
// subtree rooted at from. A nil from searches the whole tree.
func (t *Tree) FindMin(from *Node, axis int) (*Node, error) {
	if axis < 0 || axis >= t.k {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidAxis, axis, t.k)
	}
	if from == nil {
		return t.findMin(t.root, axis, 0), nil
	}

	depth, ok := t.depthOf(from)
	if !ok {
		return nil, ErrNodeNotFound
	}
	return t.findMin(from, axis, depth), nil
}

func (t *Tree) findMin(n *Node, axis, depth int) *Node {
	if n == nil {
		return nil
	}

	// Everything right of a node splitting on axis is >= the node itself.
	if t.axis(depth) == axis {
		if n.left == nil {
			return n
		}
		return t.findMin(n.left, axis, depth+1)
	}

	return minNode(
		axis,
		n,
		t.findMin(n.left, axis, depth+1),
		t.findMin(n.right, axis, depth+1),
	)
}

// Remove deletes the first node holding p and returns the root. The tree is
// left untouched when p is not stored.
func (t *Tree) Remove(p []float64) (*Node, error) {
	if err := t.checkPoint(p); err != nil {
		return t.root, err
	}

	var removed bool
	t.root, removed = t.remove(t.root, geom.New(p), 0)
	if removed {
		t.len -= 1
	}
	return t.root, nil
}

func (t *Tree) remove(n *Node, p geom.Point, depth int) (*Node, bool) {
	if n == nil {
		return nil, false
	}

	axis := t.axis(depth)
	if n.point.Equal(p) {
		switch {
		case n.right != nil:
			successor := t.findMin(n.right, axis, depth+1)
			n.SetPoint(successor.point)
			n.right, _ = t.remove(n.right, successor.point, depth+1)
		case n.left != nil:
			// The left subtree moves to the right slot: after promoting its
			// minimum every remaining point is >= the node on axis.
			successor := t.findMin(n.left, axis, depth+1)
			n.SetPoint(successor.point)
			n.right, _ = t.remove(n.left, successor.point, depth+1)
			n.left = nil
		default:
			return nil, true
		}
		return n, true
	}

	var removed bool
	if p.Dim(axis) < n.point.Dim(axis) {
		n.left, removed = t.remove(n.left, p, depth+1)
	} else {
		n.right, removed = t.remove(n.right, p, depth+1)
	}
	return n, removed
}

type candidate struct {
	node *Node
	dist float64
}

// Nearest returns the closest stored node to target by Euclidean distance.
// Nodes at distance zero, target itself included, are never reported, so an
// empty tree or a tree holding only copies of target yields nil.
func (t *Tree) Nearest(target []float64) (*Node, error) {
	if err := t.checkPoint(target); err != nil {
		return nil, err
	}

	best, err := t.nearest(t.root, geom.New(target), 0, candidate{dist: math.Inf(1)})
	if err != nil {
		return nil, err
	}
	return best.node, nil
}

func (t *Tree) nearest(n *Node, target geom.Point, depth int, best candidate) (candidate, error) {
	if n == nil {
		return best, nil
	}

	currentDistance, err := geom.SquaredEuclideanDistance(target, n.point)
	if err != nil {
		return best, fmt.Errorf("compute nearest error: %w", err)
	}
	if currentDistance > 0 && currentDistance < best.dist {
		best = candidate{node: n, dist: currentDistance}
	}

	axis := t.axis(depth)
	nextBranch, otherBranch := n.right, n.left
	if target.Dim(axis) < n.point.Dim(axis) {
		nextBranch, otherBranch = n.left, n.right
	}

	if best, err = t.nearest(nextBranch, target, depth+1, best); err != nil {
		return best, err
	}

	planeDistance := geom.AxisDistance(target, n.point, axis)
	if planeDistance*planeDistance < best.dist {
		return t.nearest(otherBranch, target, depth+1, best)
	}
	return best, nil
}

// RangeSearch returns every node inside the box spanning
// [origin[a], origin[a]+extents[a]] on each axis, bounds included. Extents
// past the tree dimensions are ignored, missing ones count as zero. Nodes come
// back in left, self, right order.
func (t *Tree) RangeSearch(origin []float64, extents ...float64) ([]*Node, error) {
	if err := t.checkPoint(origin); err != nil {
		return nil, err
	}

	bounds := make([]Range, t.k)
	for axis := range bounds {
		var extent float64
		if axis < len(extents) {
			extent = extents[axis]
		}
		bounds[axis] = Range{Min: origin[axis], Max: origin[axis] + extent}
	}

	nodes := []*Node{}
	t.root.walk(func(n *Node) {
		for axis, limit := range bounds {
			if !limit.Contains(n.point.Dim(axis)) {
				return
			}
		}
		nodes = append(nodes, n)
	})
	return nodes, nil
}

func (t *Tree) axis(depth int) int {
	return depth % t.k
}

func (t *Tree) checkPoint(p []float64) error {
	if len(p) != t.k {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, t.k, len(p))
	}
	return nil
}

// depthOf follows the search path of target's point and reports the depth at
// which target itself is met.
func (t *Tree) depthOf(target *Node) (int, bool) {
	currentNode := t.root
	for depth := 0; currentNode != nil; depth++ {
		if currentNode == target {
			return depth, true
		}
		currentNode = currentNode.next(target.point, t.axis(depth))
	}
	return 0, false
}

func (n *Node) next(p geom.Point, axis int) *Node {
	if p.Dim(axis) < n.point.Dim(axis) {
		return n.left
	}
	return n.right
}

func minNode(axis int, nodes ...*Node) *Node {
	var found *Node
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if found == nil || n.point.Dim(axis) < found.point.Dim(axis) {
			found = n
		}
	}
	return found
}
