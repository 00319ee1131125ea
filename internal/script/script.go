// Package script runs a YAML list of intents against a session controller.
//
//	- intent: select
//	  target: First Node/Two
//	- intent: add
//	- intent: rename
//	  label: Second
//	- intent: delete
//
// Targets are label paths from a root, since ids are generated per run.
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"nodetree/internal/session"
)

// Step is one scripted intent.
type Step struct {
	Intent string `yaml:"intent" json:"intent"`
	Target string `yaml:"target,omitempty" json:"target,omitempty"`
	Label  string `yaml:"label,omitempty" json:"label,omitempty"`
	// Line is the 1-based source line, for error messages.
	Line int `yaml:"-" json:"line,omitempty"`
}

// Result is the outcome of one executed step.
type Result struct {
	Step    Step            `json:"step"`
	Outcome session.Outcome `json:"outcome"`
	NodeID  string          `json:"nodeId,omitempty"`
	// Missing is set when a select target did not resolve.
	Missing bool          `json:"missing,omitempty"`
	State   session.State `json:"state"`
}

type UnknownIntentError struct {
	Intent string
	Line   int
}

func (e UnknownIntentError) Error() string {
	names := make([]string, 0, len(session.Intents))
	for _, in := range session.Intents {
		names = append(names, string(in))
	}
	return fmt.Sprintf("line %d: unknown intent %q (want one of: %s)", e.Line, e.Intent, strings.Join(names, ", "))
}

// Parse reads a script. Every step is validated before anything runs.
func Parse(r io.Reader) ([]Step, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse script: line %d: expected a list of steps", seq.Line)
	}

	steps := make([]Step, 0, len(seq.Content))
	for _, n := range seq.Content {
		var st Step
		if err := n.Decode(&st); err != nil {
			return nil, fmt.Errorf("parse script: line %d: %w", n.Line, err)
		}
		st.Intent = strings.TrimSpace(strings.ToLower(st.Intent))
		st.Line = n.Line
		in, ok := session.ParseIntent(st.Intent)
		if !ok {
			return nil, UnknownIntentError{Intent: st.Intent, Line: n.Line}
		}
		switch in {
		case session.IntentSelect:
			if strings.TrimSpace(st.Target) == "" {
				return nil, fmt.Errorf("parse script: line %d: select needs a target", n.Line)
			}
		case session.IntentRename:
			if strings.TrimSpace(st.Label) == "" {
				return nil, fmt.Errorf("parse script: line %d: rename needs a label", n.Line)
			}
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// Run executes steps in order and returns one result per step. Steps never fail: an
// unresolved target or an unmet precondition shows up as a declined outcome.
func Run(c *session.Controller, steps []Step) []Result {
	out := make([]Result, 0, len(steps))
	for _, st := range steps {
		out = append(out, Apply(c, st))
	}
	return out
}

// Apply executes a single step.
func Apply(c *session.Controller, st Step) Result {
	res := Result{Step: st}
	in, _ := session.ParseIntent(st.Intent)
	switch in {
	case session.IntentSelect:
		id, ok := c.Forest().ResolvePath(st.Target)
		if !ok {
			res.Missing = true
		}
		res.NodeID = id
		res.Outcome = c.Select(id)
	case session.IntentDismiss:
		res.Outcome = c.Dismiss()
	case session.IntentAdd:
		res.NodeID, res.Outcome = c.RequestAddChild()
	case session.IntentDelete:
		res.NodeID = c.State().SelectedID
		res.Outcome = c.RequestDelete()
	case session.IntentRename:
		res.NodeID = c.State().SelectedID
		res.Outcome = c.RequestRename(st.Label)
	case session.IntentMoveLeft:
		res.NodeID = c.State().SelectedID
		res.Outcome = c.RequestMoveLeft()
	case session.IntentMoveRight:
		res.NodeID = c.State().SelectedID
		res.Outcome = c.RequestMoveRight()
	}
	res.State = c.State()
	return res
}
