package store

import "strings"

// Entry is one node as seen by Walk: enough to draw a row without a nested snapshot.
type Entry struct {
	ID         string
	ParentID   string
	Label      string
	Depth      int
	ChildCount int
	Rev        uint64
	// Last is true when the node is the last of its siblings.
	Last bool
}

// Walk visits every node depth-first in pre-order (roots in order, children in order).
// It stops early when fn returns false.
func (f *Forest) Walk(fn func(Entry) bool) {
	var visit func(ids []string, depth int) bool
	visit = func(ids []string, depth int) bool {
		for i, id := range ids {
			n := f.nodes[id]
			e := Entry{
				ID:         n.id,
				ParentID:   n.parent,
				Label:      n.label,
				Depth:      depth,
				ChildCount: len(n.children),
				Rev:        n.rev,
				Last:       i == len(ids)-1,
			}
			if !fn(e) {
				return false
			}
			if !visit(n.children, depth+1) {
				return false
			}
		}
		return true
	}
	visit(f.roots, 0)
}

// Entries returns the Walk order as a slice.
func (f *Forest) Entries() []Entry {
	out := make([]Entry, 0, len(f.nodes))
	f.Walk(func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Resolve finds a node by its label path from a root, e.g. Resolve("First Node", "Two").
// At each level the first sibling with a matching label wins.
func (f *Forest) Resolve(labels ...string) (string, bool) {
	if len(labels) == 0 {
		return "", false
	}
	level := f.roots
	id := ""
	for _, want := range labels {
		want = strings.TrimSpace(want)
		id = ""
		for _, cid := range level {
			if f.nodes[cid].label == want {
				id = cid
				break
			}
		}
		if id == "" {
			return "", false
		}
		level = f.nodes[id].children
	}
	return id, true
}

// ResolvePath is Resolve for a slash-separated path like "First Node/Two".
func (f *Forest) ResolvePath(path string) (string, bool) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return "", false
	}
	return f.Resolve(strings.Split(path, "/")...)
}

// PathOf returns the label path from a root down to id.
func (f *Forest) PathOf(id string) []string {
	n, ok := f.nodes[strings.TrimSpace(id)]
	if !ok {
		return nil
	}
	var rev []string
	for n != nil {
		rev = append(rev, n.label)
		if n.parent == "" {
			break
		}
		n = f.nodes[n.parent]
	}
	out := make([]string, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
