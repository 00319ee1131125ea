package store

// SeedLabel is the label of the root created in an empty forest.
const SeedLabel = "First Node"

var seedChildren = []string{"One", "Two", "Three"}

// CreateInitialForest returns the example hierarchy a session starts with: one root
// labelled SeedLabel with three leaf children.
func CreateInitialForest(gen IDGenerator) *Forest {
	f := NewForest(gen)
	root := f.AddRoot(SeedLabel)
	for _, label := range seedChildren {
		f.AddChild(root, label)
	}
	return f
}
