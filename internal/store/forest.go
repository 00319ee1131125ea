package store

import (
	"sort"
	"strings"

	"nodetree/internal/model"
)

// Forest is the node hierarchy of one editing session: zero or more root nodes, each
// with an ordered list of children.
//
// Nodes live in an arena keyed by id. Each record keeps its parent id and its child ids
// in sibling order, so lookups are O(1) and structural edits touch only the path from
// the edited node to its root.
//
// Change detection: Version increments on every mutation, and every mutation stamps the
// new version onto the Rev of the changed node's parent and all of its ancestors.
// Subtrees that were not on that path keep their Rev.
//
// A Forest is not safe for concurrent use.
type Forest struct {
	gen     IDGenerator
	nodes   map[string]*node
	roots   []string
	version uint64
	seq     uint64
}

type node struct {
	id       string
	label    string
	parent   string // "" for roots
	children []string
	rank     string
	seq      uint64
	rev      uint64
}

// NewForest returns an empty forest. A nil gen uses UUIDGenerator.
func NewForest(gen IDGenerator) *Forest {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Forest{
		gen:   gen,
		nodes: map[string]*node{},
	}
}

// Version returns the mutation counter. It changes if and only if the forest changed.
func (f *Forest) Version() uint64 { return f.version }

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int { return len(f.nodes) }

// Empty reports whether the forest has no nodes.
func (f *Forest) Empty() bool { return len(f.roots) == 0 }

// Has reports whether id names a node in the forest.
func (f *Forest) Has(id string) bool {
	_, ok := f.nodes[strings.TrimSpace(id)]
	return ok
}

// AddChild appends a new node labelled label to the end of parentID's children and
// returns its id.
//
// When the forest is empty parentID is ignored and the new node becomes the only root.
// Otherwise an empty or unknown parentID is a no-op and ok is false.
func (f *Forest) AddChild(parentID, label string) (id string, ok bool) {
	if f.Empty() {
		return f.insert("", label), true
	}
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return "", false
	}
	if _, found := f.nodes[parentID]; !found {
		return "", false
	}
	return f.insert(parentID, label), true
}

// AddRoot appends a new root node and returns its id.
func (f *Forest) AddRoot(label string) string {
	return f.insert("", label)
}

func (f *Forest) insert(parentID, label string) string {
	sibs := f.siblings(parentID)
	rank, ok := f.rankAfterLast(sibs)
	if !ok {
		f.spreadSiblings(sibs)
		rank, _ = f.rankAfterLast(sibs)
	}

	f.seq++
	n := &node{
		id:     f.newNodeID(),
		label:  label,
		parent: parentID,
		rank:   rank,
		seq:    f.seq,
	}
	f.nodes[n.id] = n
	f.setSiblings(parentID, append(sibs, n.id))
	f.touch(parentID)
	n.rev = f.version
	return n.id
}

// rankAfterLast returns a rank sorting after every id in sibs. ok is false when the new
// rank would exceed rankRebalanceLen.
func (f *Forest) rankAfterLast(sibs []string) (string, bool) {
	if len(sibs) == 0 {
		r, err := RankInitial()
		return r, err == nil
	}
	r, err := RankAfter(f.nodes[sibs[len(sibs)-1]].rank)
	return r, err == nil && len(r) <= rankRebalanceLen
}

// spreadSiblings re-ranks sibs evenly, keeping their order.
func (f *Forest) spreadSiblings(sibs []string) {
	for i, r := range spreadRanks(len(sibs)) {
		f.nodes[sibs[i]].rank = r
	}
}

// DeleteNode removes id and its entire subtree. Roots are removable like any other node.
// It reports whether anything was removed; an empty or unknown id is a no-op.
func (f *Forest) DeleteNode(id string) bool {
	id = strings.TrimSpace(id)
	n, ok := f.nodes[id]
	if !ok {
		return false
	}

	sibs := f.siblings(n.parent)
	next := make([]string, 0, len(sibs))
	for _, sid := range sibs {
		if sid != id {
			next = append(next, sid)
		}
	}
	f.setSiblings(n.parent, next)

	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, f.nodes[cur].children...)
		delete(f.nodes, cur)
	}

	f.touch(n.parent)
	return true
}

// Rename sets the label of id. Labels are trimmed; an empty label, an unknown id or an
// unchanged label is a no-op.
func (f *Forest) Rename(id, label string) bool {
	n, ok := f.nodes[strings.TrimSpace(id)]
	label = strings.TrimSpace(label)
	if !ok || label == "" || label == n.label {
		return false
	}
	n.label = label
	f.touch(n.id)
	return true
}

// MoveSibling moves id one position left (earlier) or right (later) among its siblings.
// Moving past either end is a no-op.
func (f *Forest) MoveSibling(id string, dir model.Direction) bool {
	n, ok := f.nodes[strings.TrimSpace(id)]
	if !ok {
		return false
	}
	sibs := f.siblings(n.parent)
	idx := indexOf(sibs, n.id)

	var insertAt int
	switch dir {
	case model.Left:
		if idx <= 0 {
			return false
		}
		insertAt = idx - 1
	case model.Right:
		if idx < 0 || idx >= len(sibs)-1 {
			return false
		}
		insertAt = idx + 1
	default:
		return false
	}

	set := make([]ranked, len(sibs))
	for i, sid := range sibs {
		s := f.nodes[sid]
		set[i] = ranked{id: s.id, rank: s.rank, seq: s.seq}
	}
	updates, err := planReorder(set, n.id, insertAt)
	if err != nil || len(updates) == 0 {
		return false
	}
	for sid, r := range updates {
		f.nodes[sid].rank = r
	}

	ordered := append([]string(nil), sibs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := f.nodes[ordered[i]], f.nodes[ordered[j]]
		return compareRanked(ranked{rank: a.rank, seq: a.seq}, ranked{rank: b.rank, seq: b.seq}) < 0
	})
	f.setSiblings(n.parent, ordered)
	f.touch(n.parent)
	return true
}

// Find returns a snapshot of id and its subtree.
func (f *Forest) Find(id string) (model.NodeView, bool) {
	n, ok := f.nodes[strings.TrimSpace(id)]
	if !ok {
		return model.NodeView{}, false
	}
	return f.view(n), true
}

// Label returns the label of id.
func (f *Forest) Label(id string) (string, bool) {
	n, ok := f.nodes[strings.TrimSpace(id)]
	if !ok {
		return "", false
	}
	return n.label, true
}

// Parent returns the parent id of id. ok is false for roots and unknown ids.
func (f *Forest) Parent(id string) (string, bool) {
	n, ok := f.nodes[strings.TrimSpace(id)]
	if !ok || n.parent == "" {
		return "", false
	}
	return n.parent, true
}

// IsRoot reports whether id is a top-level node.
func (f *Forest) IsRoot(id string) bool {
	n, ok := f.nodes[strings.TrimSpace(id)]
	return ok && n.parent == ""
}

// Roots returns the root ids in order.
func (f *Forest) Roots() []string {
	return append([]string(nil), f.roots...)
}

// Children returns the child ids of id in order.
func (f *Forest) Children(id string) []string {
	n, ok := f.nodes[strings.TrimSpace(id)]
	if !ok {
		return nil
	}
	return append([]string(nil), n.children...)
}

// SubtreeSize returns the number of nodes in the subtree rooted at id (0 if unknown).
func (f *Forest) SubtreeSize(id string) int {
	if _, ok := f.nodes[strings.TrimSpace(id)]; !ok {
		return 0
	}
	size := 0
	stack := []string{strings.TrimSpace(id)}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		size++
		stack = append(stack, f.nodes[cur].children...)
	}
	return size
}

// Snapshot returns the whole forest as nested views, roots in order.
func (f *Forest) Snapshot() []model.NodeView {
	out := make([]model.NodeView, 0, len(f.roots))
	for _, rid := range f.roots {
		out = append(out, f.view(f.nodes[rid]))
	}
	return out
}

func (f *Forest) view(n *node) model.NodeView {
	v := model.NodeView{ID: n.id, Label: n.label, Rev: n.rev}
	if len(n.children) > 0 {
		v.Children = make([]model.NodeView, 0, len(n.children))
		for _, cid := range n.children {
			v.Children = append(v.Children, f.view(f.nodes[cid]))
		}
	}
	return v
}

func (f *Forest) siblings(parentID string) []string {
	if parentID == "" {
		return f.roots
	}
	return f.nodes[parentID].children
}

func (f *Forest) setSiblings(parentID string, ids []string) {
	if parentID == "" {
		f.roots = ids
		return
	}
	f.nodes[parentID].children = ids
}

// touch bumps the version and stamps it on id and every ancestor of id.
func (f *Forest) touch(id string) {
	f.version++
	for id != "" {
		n := f.nodes[id]
		n.rev = f.version
		id = n.parent
	}
}

func indexOf(ids []string, id string) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}
