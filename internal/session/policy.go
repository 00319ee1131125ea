package session

// Policy controls the delete safeguards.
//
// The zero value deletes immediately and allows deleting roots.
type Policy struct {
	// ConfirmDelete requires two delete requests in succession on the same node.
	ConfirmDelete bool `json:"confirm"`
	// ProtectRoots refuses to delete top-level nodes.
	ProtectRoots bool `json:"protectRoots"`
}
