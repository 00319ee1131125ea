package model

// NodeView is an immutable snapshot of a node and its subtree.
//
// Rev changes whenever something inside the subtree changes (a child added or removed
// anywhere below, a rename, a sibling move). Renderers can compare Rev values between
// snapshots to skip unchanged subtrees.
type NodeView struct {
	ID       string     `json:"id"`
	Label    string     `json:"label"`
	Rev      uint64     `json:"rev"`
	Children []NodeView `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n NodeView) IsLeaf() bool { return len(n.Children) == 0 }

// Size returns the number of nodes in the subtree rooted at n (including n).
func (n NodeView) Size() int {
	total := 1
	for _, ch := range n.Children {
		total += ch.Size()
	}
	return total
}

// CountNodes returns the total number of nodes in a forest snapshot.
func CountNodes(roots []NodeView) int {
	total := 0
	for _, r := range roots {
		total += r.Size()
	}
	return total
}

// Direction is a sibling move direction.
type Direction int

const (
	// Left moves a node one position earlier among its siblings.
	Left Direction = iota
	// Right moves a node one position later among its siblings.
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}
