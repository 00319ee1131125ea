package store

import (
	"testing"

	"pgregory.net/rapid"

	"nodetree/internal/model"
)

// checkForest verifies the structural invariants of f: every id appears exactly once in
// the walk, parent links agree with child lists, and Len matches the walk.
func checkForest(t *rapid.T, f *Forest) {
	seen := map[string]bool{}
	count := 0
	f.Walk(func(e Entry) bool {
		if seen[e.ID] {
			t.Fatalf("id %q appears twice", e.ID)
		}
		seen[e.ID] = true
		count++
		if e.ParentID == "" {
			if !f.IsRoot(e.ID) {
				t.Fatalf("node %q without parent is not a root", e.ID)
			}
		} else if p, ok := f.Parent(e.ID); !ok || p != e.ParentID {
			t.Fatalf("node %q: parent %q, walk says %q", e.ID, p, e.ParentID)
		}
		return true
	})
	if count != f.Len() {
		t.Fatalf("walk visited %d nodes, Len is %d", count, f.Len())
	}
	if got := model.CountNodes(f.Snapshot()); got != count {
		t.Fatalf("snapshot has %d nodes, walk %d", got, count)
	}
}

func drawExisting(t *rapid.T, f *Forest, label string) string {
	all := make([]string, 0, f.Len())
	f.Walk(func(e Entry) bool {
		all = append(all, e.ID)
		return true
	})
	return rapid.SampledFrom(all).Draw(t, label)
}

func TestForestProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := CreateInitialForest(nil)
		steps := rapid.IntRange(1, 150).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if f.Empty() {
				id, ok := f.AddChild(rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "ignoredParent"), "seed")
				if !ok || f.Len() != 1 || !f.IsRoot(id) {
					t.Fatalf("adding to an empty forest must create a single root")
				}
				continue
			}

			switch rapid.IntRange(0, 4).Draw(t, "op") {
			case 0:
				parent := drawExisting(t, f, "parent")
				label := rapid.StringMatching(`[A-Za-z ]{1,8}`).Draw(t, "label")
				before := f.Len()
				id, ok := f.AddChild(parent, label)
				if !ok {
					t.Fatalf("AddChild to existing parent failed")
				}
				kids := f.Children(parent)
				if kids[len(kids)-1] != id {
					t.Fatalf("new node is not the last child")
				}
				if n, ok := f.Find(id); !ok || n.Label != label {
					t.Fatalf("new node not found with label %q", label)
				}
				if f.Len() != before+1 {
					t.Fatalf("expected Len to grow by one")
				}
			case 1:
				target := drawExisting(t, f, "target")
				before, size := f.Len(), f.SubtreeSize(target)
				if !f.DeleteNode(target) {
					t.Fatalf("DeleteNode of existing node failed")
				}
				if _, ok := f.Find(target); ok {
					t.Fatalf("deleted node still found")
				}
				if f.Len() != before-size {
					t.Fatalf("expected Len %d, got %d", before-size, f.Len())
				}
			case 2:
				v := f.Version()
				if f.DeleteNode("missing-" + rapid.StringMatching(`[a-z]{1,4}`).Draw(t, "unknown")) {
					t.Fatalf("deleting an unknown id must be a no-op")
				}
				if f.Version() != v {
					t.Fatalf("no-op delete changed the version")
				}
			case 3:
				target := drawExisting(t, f, "moved")
				parent, _ := f.Parent(target)
				var before []string
				if parent == "" {
					before = f.Roots()
				} else {
					before = f.Children(parent)
				}
				dir := model.Direction(rapid.IntRange(0, 1).Draw(t, "dir"))
				moved := f.MoveSibling(target, dir)
				var after []string
				if parent == "" {
					after = f.Roots()
				} else {
					after = f.Children(parent)
				}
				idx := indexOf(before, target)
				want := append([]string(nil), before...)
				switch {
				case dir == model.Left && idx > 0:
					want[idx-1], want[idx] = want[idx], want[idx-1]
				case dir == model.Right && idx < len(want)-1:
					want[idx+1], want[idx] = want[idx], want[idx+1]
				default:
					if moved {
						t.Fatalf("boundary move reported success")
					}
				}
				if !sameOrder(after, want) {
					t.Fatalf("move %v: expected %v, got %v", dir, want, after)
				}
			case 4:
				target := drawExisting(t, f, "renamed")
				label := rapid.StringMatching(`[A-Za-z]{1,8}`).Draw(t, "newLabel")
				f.Rename(target, label)
				if got, _ := f.Label(target); got != label {
					t.Fatalf("expected label %q, got %q", label, got)
				}
			}
			checkForest(t, f)
		}
	})
}

// Moving nodes to the front over and over exhausts the rank space below the first
// sibling; every move away from a boundary must still succeed.
func TestForestProperties_RepeatedMovesToFront(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		f := NewForest(SequentialIDs("n"))
		root := f.AddRoot("root")
		n := rapid.IntRange(2, 25).Draw(t, "siblings")
		for i := 0; i < n; i++ {
			f.AddChild(root, "c")
		}
		want := f.Children(root)

		rounds := rapid.IntRange(1, 40).Draw(t, "rounds")
		for r := 0; r < rounds; r++ {
			// Mostly the last child, which keeps pushing new ranks below the first.
			idx := n - 1
			if rapid.IntRange(0, 3).Draw(t, "pickOther") == 0 {
				idx = rapid.IntRange(0, n-1).Draw(t, "idx")
			}
			id := want[idx]
			for i := idx; i > 0; i-- {
				if !f.MoveSibling(id, model.Left) {
					t.Fatalf("round %d: left move declined at index %d", r, i)
				}
				want[i-1], want[i] = want[i], want[i-1]
			}
			if f.MoveSibling(id, model.Left) {
				t.Fatalf("round %d: left move at the front reported success", r)
			}
			if got := f.Children(root); !sameOrder(got, want) {
				t.Fatalf("round %d: expected %v, got %v", r, want, got)
			}
		}
		checkForest(t, f)
	})
}
