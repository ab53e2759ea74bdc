package console

import (
	"github.com/xlab/treeprint"

	"github.com/go-sod/kdtree/pkg/container/kdtree"
)

const nullBranch = "(null)"

// renderTree draws the subtree as a branch diagram. A node with a single
// child gets a (null) placeholder so left and right stay distinguishable.
func renderTree(root *kdtree.Node) string {
	tree := treeprint.New()
	if root != nil {
		addNode(tree, root)
	}
	return tree.String()
}

func addNode(parent treeprint.Tree, n *kdtree.Node) {
	if n.IsLeaf() {
		parent.AddNode(n.Point().String())
		return
	}

	branch := parent.AddBranch(n.Point().String())
	for _, child := range []*kdtree.Node{n.Left(), n.Right()} {
		if child == nil {
			branch.AddNode(nullBranch)
			continue
		}
		addNode(branch, child)
	}
}
