package store

import (
	"testing"

	"nodetree/internal/model"
)

func labelsOf(f *Forest, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		l, _ := f.Label(id)
		out = append(out, l)
	}
	return out
}

func TestCreateInitialForest(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(SequentialIDs("n"))
	if got, want := f.Len(), 4; got != want {
		t.Fatalf("expected %d nodes, got %d", want, got)
	}
	roots := f.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	root, ok := f.Find(roots[0])
	if !ok || root.Label != SeedLabel {
		t.Fatalf("expected root %q, got %+v", SeedLabel, root)
	}
	if got, want := labelsOf(f, f.Children(roots[0])), []string{"One", "Two", "Three"}; !sameOrder(got, want) {
		t.Fatalf("expected children %v, got %v", want, got)
	}
	for _, ch := range root.Children {
		if !ch.IsLeaf() {
			t.Fatalf("expected seeded child %q to be a leaf", ch.Label)
		}
	}
}

func TestAddChild_AppendsAtEnd(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	root := f.Roots()[0]
	id, ok := f.AddChild(root, "Child 1")
	if !ok {
		t.Fatalf("AddChild: expected ok")
	}
	if got, want := f.Len(), 5; got != want {
		t.Fatalf("expected %d nodes, got %d", want, got)
	}
	kids := f.Children(root)
	if len(kids) != 4 || kids[3] != id {
		t.Fatalf("expected new node last among 4 children, got %v", kids)
	}
	n, ok := f.Find(id)
	if !ok || n.Label != "Child 1" {
		t.Fatalf("expected to find new node labelled Child 1, got %+v ok=%v", n, ok)
	}
	if p, _ := f.Parent(id); p != root {
		t.Fatalf("expected parent %q, got %q", root, p)
	}
}

func TestAddChild_NestedUnderLeaf(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	two, ok := f.ResolvePath("First Node/Two")
	if !ok {
		t.Fatalf("expected to resolve First Node/Two")
	}
	id, ok := f.AddChild(two, "deep")
	if !ok {
		t.Fatalf("AddChild under leaf failed")
	}
	if got, ok := f.ResolvePath("First Node/Two/deep"); !ok || got != id {
		t.Fatalf("expected path to resolve to %q, got %q ok=%v", id, got, ok)
	}
	if got, want := f.PathOf(id), []string{"First Node", "Two", "deep"}; !sameOrder(got, want) {
		t.Fatalf("PathOf: expected %v, got %v", want, got)
	}
}

func TestAddChild_NoopCases(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	v := f.Version()
	if _, ok := f.AddChild("", "x"); ok {
		t.Fatalf("expected no-op for empty parent id")
	}
	if _, ok := f.AddChild("missing", "x"); ok {
		t.Fatalf("expected no-op for unknown parent id")
	}
	if f.Len() != 4 || f.Version() != v {
		t.Fatalf("expected forest unchanged, len=%d version %d->%d", f.Len(), v, f.Version())
	}
}

func TestAddChild_EmptyForestIgnoresParent(t *testing.T) {
	t.Parallel()

	for _, parent := range []string{"", "whatever", "n-1"} {
		f := NewForest(nil)
		id, ok := f.AddChild(parent, SeedLabel)
		if !ok {
			t.Fatalf("parent %q: expected ok", parent)
		}
		snap := f.Snapshot()
		if len(snap) != 1 || snap[0].ID != id || snap[0].Label != SeedLabel || !snap[0].IsLeaf() {
			t.Fatalf("parent %q: expected single root %q, got %+v", parent, SeedLabel, snap)
		}
		if !f.IsRoot(id) {
			t.Fatalf("expected new node to be a root")
		}
	}
}

func TestDeleteNode_RemovesSubtree(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	two, _ := f.ResolvePath("First Node/Two")
	a, _ := f.AddChild(two, "a")
	f.AddChild(a, "b")
	before := f.Len()
	size := f.SubtreeSize(two)
	if size != 3 {
		t.Fatalf("expected subtree size 3, got %d", size)
	}

	if !f.DeleteNode(two) {
		t.Fatalf("DeleteNode: expected true")
	}
	if _, ok := f.Find(two); ok {
		t.Fatalf("expected deleted node to be gone")
	}
	if _, ok := f.Find(a); ok {
		t.Fatalf("expected descendants to be gone")
	}
	if got, want := f.Len(), before-size; got != want {
		t.Fatalf("expected %d nodes, got %d", want, got)
	}
	if got, want := model.CountNodes(f.Snapshot()), f.Len(); got != want {
		t.Fatalf("snapshot count %d != Len %d", got, want)
	}
	root := f.Roots()[0]
	if got, want := labelsOf(f, f.Children(root)), []string{"One", "Three"}; !sameOrder(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDeleteNode_RootIsRemovable(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	if !f.DeleteNode(f.Roots()[0]) {
		t.Fatalf("expected root delete to succeed")
	}
	if !f.Empty() || f.Len() != 0 {
		t.Fatalf("expected empty forest, got len %d", f.Len())
	}
}

func TestDeleteNode_Unknown_IsNoop(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	v := f.Version()
	before := f.Snapshot()
	for _, id := range []string{"", "   ", "nope"} {
		if f.DeleteNode(id) {
			t.Fatalf("DeleteNode(%q): expected false", id)
		}
	}
	if f.Version() != v {
		t.Fatalf("expected version unchanged")
	}
	if got := f.Snapshot(); model.CountNodes(got) != model.CountNodes(before) {
		t.Fatalf("expected forest unchanged")
	}
}

func TestRevisionsFollowAncestorPath(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	root := f.Roots()[0]
	one, _ := f.ResolvePath("First Node/One")
	two, _ := f.ResolvePath("First Node/Two")
	other := f.AddRoot("Other")

	revOf := func(id string) uint64 {
		n, ok := f.Find(id)
		if !ok {
			t.Fatalf("missing %q", id)
		}
		return n.Rev
	}
	oneRev, otherRev, rootRev := revOf(one), revOf(other), revOf(root)
	v := f.Version()

	if _, ok := f.AddChild(two, "x"); !ok {
		t.Fatalf("AddChild failed")
	}
	if f.Version() != v+1 {
		t.Fatalf("expected version to increment once, %d -> %d", v, f.Version())
	}
	if revOf(two) != f.Version() || revOf(root) != f.Version() {
		t.Fatalf("expected parent and root rev to match version %d", f.Version())
	}
	if revOf(root) == rootRev {
		t.Fatalf("expected root rev to change")
	}
	if revOf(one) != oneRev {
		t.Fatalf("expected sibling subtree rev unchanged")
	}
	if revOf(other) != otherRev {
		t.Fatalf("expected other root rev unchanged")
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	one, _ := f.ResolvePath("First Node/One")
	if !f.Rename(one, "  Uno  ") {
		t.Fatalf("expected rename to succeed")
	}
	if l, _ := f.Label(one); l != "Uno" {
		t.Fatalf("expected trimmed label Uno, got %q", l)
	}
	v := f.Version()
	if f.Rename(one, "Uno") || f.Rename(one, "   ") || f.Rename("missing", "x") {
		t.Fatalf("expected no-op renames to return false")
	}
	if f.Version() != v {
		t.Fatalf("expected version unchanged by no-op renames")
	}
}

func TestMoveSibling(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	root := f.Roots()[0]
	one, _ := f.ResolvePath("First Node/One")
	three, _ := f.ResolvePath("First Node/Three")

	if f.MoveSibling(one, model.Left) {
		t.Fatalf("expected left move of first child to be a no-op")
	}
	if f.MoveSibling(three, model.Right) {
		t.Fatalf("expected right move of last child to be a no-op")
	}
	if !f.MoveSibling(one, model.Right) {
		t.Fatalf("expected right move to succeed")
	}
	if got, want := labelsOf(f, f.Children(root)), []string{"Two", "One", "Three"}; !sameOrder(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !f.MoveSibling(three, model.Left) {
		t.Fatalf("expected left move to succeed")
	}
	if got, want := labelsOf(f, f.Children(root)), []string{"Two", "Three", "One"}; !sameOrder(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// New children still land at the end after moves.
	id, _ := f.AddChild(root, "Four")
	kids := f.Children(root)
	if kids[len(kids)-1] != id {
		t.Fatalf("expected appended child last, got %v", labelsOf(f, kids))
	}
}

func TestMoveSibling_ManyTimesKeepsOrderConsistent(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	root := f.Roots()[0]
	one, _ := f.ResolvePath("First Node/One")
	for i := 0; i < 50; i++ {
		f.MoveSibling(one, model.Right)
		f.MoveSibling(one, model.Right)
		f.MoveSibling(one, model.Left)
		f.MoveSibling(one, model.Left)
	}
	if got, want := labelsOf(f, f.Children(root)), []string{"One", "Two", "Three"}; !sameOrder(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMoveSibling_RotateLastToFrontRepeatedly(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	root := f.Roots()[0]
	want := labelsOf(f, f.Children(root))
	for round := 0; round < 60; round++ {
		kids := f.Children(root)
		last := kids[len(kids)-1]
		for idx := len(kids) - 1; idx > 0; idx-- {
			if !f.MoveSibling(last, model.Left) {
				t.Fatalf("round %d: left move declined at index %d (first rank %q)", round, idx, f.nodes[f.Children(root)[0]].rank)
			}
		}
		want = append([]string{want[len(want)-1]}, want[:len(want)-1]...)
		if got := labelsOf(f, f.Children(root)); !sameOrder(got, want) {
			t.Fatalf("round %d: expected %v, got %v", round, want, got)
		}
	}
	checkRanksOrdered(t, f, root)
}

func TestMoveSibling_ManySiblings(t *testing.T) {
	t.Parallel()

	f := NewForest(SequentialIDs("n"))
	root := f.AddRoot("root")
	const n = 3000
	for i := 0; i < n; i++ {
		f.AddChild(root, "c")
	}
	checkRanksOrdered(t, f, root)

	kids := f.Children(root)
	last := kids[n-1]
	if !f.MoveSibling(last, model.Left) {
		t.Fatalf("left move of the last of %d siblings declined", n)
	}
	if got := f.Children(root)[n-2]; got != last {
		t.Fatalf("expected moved node at index %d", n-2)
	}

	if !f.MoveSibling(kids[0], model.Right) {
		t.Fatalf("right move of the first of %d siblings declined", n)
	}
	checkRanksOrdered(t, f, root)
}

func TestMoveSibling_WalkAcrossSiblingsAndBack(t *testing.T) {
	t.Parallel()

	f := NewForest(SequentialIDs("n"))
	root := f.AddRoot("root")
	const n = 300
	for i := 0; i < n; i++ {
		f.AddChild(root, "c")
	}
	first := f.Children(root)[0]
	for i := 0; i < n-1; i++ {
		if !f.MoveSibling(first, model.Right) {
			t.Fatalf("right move %d declined", i)
		}
	}
	if got := f.Children(root)[n-1]; got != first {
		t.Fatalf("expected first child at the end")
	}
	for i := 0; i < n-1; i++ {
		if !f.MoveSibling(first, model.Left) {
			t.Fatalf("left move %d declined", i)
		}
	}
	if got := f.Children(root)[0]; got != first {
		t.Fatalf("expected first child back at the front")
	}
	checkRanksOrdered(t, f, root)
}

// checkRanksOrdered verifies that the children of id are strictly ascending by rank and
// that no rank grew past the rebalance cap.
func checkRanksOrdered(t *testing.T, f *Forest, id string) {
	t.Helper()
	prev := ""
	for i, cid := range f.Children(id) {
		r := f.nodes[cid].rank
		if len(r) > rankRebalanceLen {
			t.Fatalf("child %d: rank %q longer than %d", i, r, rankRebalanceLen)
		}
		if i > 0 && r <= prev {
			t.Fatalf("child %d: rank %q does not sort after %q", i, r, prev)
		}
		prev = r
	}
}

func TestMoveSibling_Roots(t *testing.T) {
	t.Parallel()

	f := NewForest(nil)
	a := f.AddRoot("a")
	f.AddRoot("b")
	if !f.MoveSibling(a, model.Right) {
		t.Fatalf("expected root move to succeed")
	}
	if got, want := labelsOf(f, f.Roots()), []string{"b", "a"}; !sameOrder(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	t.Parallel()

	f := CreateInitialForest(nil)
	two, _ := f.ResolvePath("First Node/Two")
	f.AddChild(two, "deep")

	var labels []string
	var depths []int
	f.Walk(func(e Entry) bool {
		labels = append(labels, e.Label)
		depths = append(depths, e.Depth)
		return true
	})
	if want := []string{"First Node", "One", "Two", "deep", "Three"}; !sameOrder(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
	for i, want := range []int{0, 1, 1, 2, 1} {
		if depths[i] != want {
			t.Fatalf("depth of %q: expected %d, got %d", labels[i], want, depths[i])
		}
	}

	n := 0
	f.Walk(func(Entry) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("expected walk to stop after 2 visits, got %d", n)
	}

	entries := f.Entries()
	if !entries[len(entries)-1].Last || entries[1].Last {
		t.Fatalf("expected Last flags to mark final siblings")
	}
}

func TestNewNodeID_PanicsOnStuckGenerator(t *testing.T) {
	t.Parallel()

	f := NewForest(IDGeneratorFunc(func() string { return "same" }))
	f.AddRoot("a")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for duplicate ids")
		}
	}()
	f.AddRoot("b")
}

func TestNewNodeID_SkipsTakenIDs(t *testing.T) {
	t.Parallel()

	ids := []string{"a", "a", "", "b"}
	i := 0
	f := NewForest(IDGeneratorFunc(func() string {
		id := ids[i]
		i++
		return id
	}))
	first := f.AddRoot("x")
	second := f.AddRoot("y")
	if first != "a" || second != "b" {
		t.Fatalf("expected ids a and b, got %q and %q", first, second)
	}
}
