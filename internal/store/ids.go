package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator supplies opaque node identifiers. Every call must return a value that no
// earlier call in the same session returned.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator returns random (version 4) UUID strings.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// IDGeneratorFunc adapts a plain function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

// SequentialIDs returns a generator producing prefix-1, prefix-2, ...
// Handy for fixtures and scripted runs where stable ids make output diffable.
func SequentialIDs(prefix string) IDGenerator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "node"
	}
	n := 0
	return IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

// maxIDAttempts bounds retries when a generator hands out an id that is already taken.
const maxIDAttempts = 8

func (f *Forest) newNodeID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := strings.TrimSpace(f.gen.NewID())
		if id == "" {
			continue
		}
		if _, taken := f.nodes[id]; !taken {
			return id
		}
	}
	panic("store: id generator keeps returning empty or duplicate ids")
}
