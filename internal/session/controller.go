package session

import (
	"fmt"
	"log/slog"
	"strings"

	"nodetree/internal/model"
	"nodetree/internal/store"
)

// Controller tracks the selected node and the armed delete, and routes user intents to
// the forest. It never renders anything and never fails: requests whose preconditions
// are unmet are declined and reported through their Outcome.
//
// A Controller is not safe for concurrent use; intents are expected to arrive one at a
// time from a single event loop.
type Controller struct {
	forest    *store.Forest
	policy    Policy
	state     State
	listeners []Listener
	rec       Recorder
	log       *slog.Logger
}

type Option func(*Controller)

func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.rec = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns an idle controller over f. A nil f starts from an empty forest.
func New(f *store.Forest, opts ...Option) *Controller {
	if f == nil {
		f = store.NewForest(nil)
	}
	c := &Controller{
		forest: f,
		state:  State{ChildCounter: 1},
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Forest returns the forest the controller edits.
func (c *Controller) Forest() *store.Forest { return c.forest }

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

func (c *Controller) Policy() Policy { return c.policy }

// Subscribe registers l for state changes.
func (c *Controller) Subscribe(l Listener) {
	if l != nil {
		c.listeners = append(c.listeners, l)
	}
}

// Selection returns the selected node. ok is false when nothing is selected or the
// selected id no longer resolves.
func (c *Controller) Selection() (model.NodeView, bool) {
	if !c.state.Selected() {
		return model.NodeView{}, false
	}
	return c.forest.Find(c.state.SelectedID)
}

// Select binds the toolbar to id. Unknown ids are declined.
func (c *Controller) Select(id string) Outcome {
	before := c.state
	id = strings.TrimSpace(id)
	if !c.forest.Has(id) {
		return c.finish(IntentSelect, id, Declined, before, nil)
	}
	c.state.SelectedID = id
	c.state.ToolbarVisible = true
	c.disarm()
	return c.finish(IntentSelect, id, Applied, before, nil)
}

// Dismiss clears the selection and hides the toolbar.
func (c *Controller) Dismiss() Outcome {
	before := c.state
	if !c.state.Selected() && !c.state.ToolbarVisible {
		return c.finish(IntentDismiss, "", Declined, before, nil)
	}
	c.idle()
	return c.finish(IntentDismiss, before.SelectedID, Applied, before, nil)
}

// RequestAddChild appends "Child N" to the selected node and returns the new id.
// On an empty forest it creates the seed root instead, selected or not; the seed does
// not advance the child counter.
func (c *Controller) RequestAddChild() (string, Outcome) {
	before := c.state
	c.disarm()

	if c.forest.Empty() {
		id, _ := c.forest.AddChild("", store.SeedLabel)
		return id, c.finish(IntentAdd, id, Applied, before, map[string]any{"label": store.SeedLabel, "seed": true})
	}
	if !c.state.Selected() {
		return "", c.finish(IntentAdd, "", Declined, before, nil)
	}

	label := fmt.Sprintf("Child %d", c.state.ChildCounter)
	id, ok := c.forest.AddChild(c.state.SelectedID, label)
	if !ok {
		return "", c.finish(IntentAdd, c.state.SelectedID, Declined, before, nil)
	}
	c.state.ChildCounter++
	return id, c.finish(IntentAdd, id, Applied, before, map[string]any{"label": label, "parent": c.state.SelectedID})
}

// RequestDelete deletes the selected node and its subtree, then returns to idle.
//
// Under Policy.ProtectRoots a root is never deleted; the request raises RootBlocked.
// Under Policy.ConfirmDelete the first request only arms; a second consecutive request
// performs the delete.
func (c *Controller) RequestDelete() Outcome {
	before := c.state
	id := c.state.SelectedID
	if id == "" || !c.forest.Has(id) {
		return c.finish(IntentDelete, id, Declined, before, nil)
	}

	if c.policy.ProtectRoots && c.forest.IsRoot(id) {
		c.state.PendingDelete = false
		c.state.RootBlocked = true
		return c.finish(IntentDelete, id, DeleteBlockedRoot, before, nil)
	}
	if c.policy.ConfirmDelete && !c.state.PendingDelete {
		c.state.PendingDelete = true
		c.state.RootBlocked = false
		return c.finish(IntentDelete, id, DeleteArmed, before, nil)
	}

	size := c.forest.SubtreeSize(id)
	if !c.forest.DeleteNode(id) {
		return c.finish(IntentDelete, id, Declined, before, nil)
	}
	c.idle()
	return c.finish(IntentDelete, id, Applied, before, map[string]any{"removed": size})
}

// RequestRename sets the selected node's label.
func (c *Controller) RequestRename(label string) Outcome {
	before := c.state
	c.disarm()
	id := c.state.SelectedID
	if id == "" || !c.forest.Rename(id, label) {
		return c.finish(IntentRename, id, Declined, before, nil)
	}
	return c.finish(IntentRename, id, Applied, before, map[string]any{"label": strings.TrimSpace(label)})
}

// RequestMoveLeft moves the selected node one position earlier among its siblings.
func (c *Controller) RequestMoveLeft() Outcome {
	return c.move(IntentMoveLeft, model.Left)
}

// RequestMoveRight moves the selected node one position later among its siblings.
func (c *Controller) RequestMoveRight() Outcome {
	return c.move(IntentMoveRight, model.Right)
}

func (c *Controller) move(intent Intent, dir model.Direction) Outcome {
	before := c.state
	c.disarm()
	id := c.state.SelectedID
	if id == "" || !c.forest.MoveSibling(id, dir) {
		return c.finish(intent, id, Declined, before, nil)
	}
	return c.finish(intent, id, Applied, before, nil)
}

func (c *Controller) disarm() {
	c.state.PendingDelete = false
	c.state.RootBlocked = false
}

func (c *Controller) idle() {
	c.state.SelectedID = ""
	c.state.ToolbarVisible = false
	c.disarm()
}

func (c *Controller) finish(intent Intent, nodeID string, out Outcome, before State, detail map[string]any) Outcome {
	c.log.Debug("intent", "intent", string(intent), "node", nodeID, "outcome", out.String(), "version", c.forest.Version())
	if c.rec != nil {
		c.rec.RecordIntent(Record{Intent: intent, NodeID: nodeID, Outcome: out, Detail: detail})
	}
	if before != c.state {
		ch := Change{Intent: intent, Outcome: out, Before: before, After: c.state}
		for _, l := range c.listeners {
			l(ch)
		}
	}
	return out
}
