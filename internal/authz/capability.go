// Package authz decides whether an authenticated user may act on a resource.
//
// Capabilities are opaque strings granted to groups. There is no hierarchy
// between groups and no inheritance between capabilities: a user may do
// exactly what their group lists, plus the "own" variants on resources they
// own.
package authz

// Capability names a permitted action.
type Capability string

const (
	AddPost       Capability = "add_post"
	EditPost      Capability = "edit_post"
	EditOwnPost   Capability = "edit_own_post"
	DeletePost    Capability = "delete_post"
	DeleteOwnPost Capability = "delete_own_post"
	AddUser       Capability = "add_user"
	EditUser      Capability = "edit_user"
	DeleteUser    Capability = "delete_user"
	AddGroup      Capability = "add_group"
	EditGroup     Capability = "edit_group"
	DeleteGroup   Capability = "delete_group"
)

// ActionPair is the general and own-scoped capability guarding one action.
type ActionPair struct {
	General Capability
	Own     Capability
}

var (
	// EditPostAction guards post updates.
	EditPostAction = ActionPair{General: EditPost, Own: EditOwnPost}
	// DeletePostAction guards post deletion.
	DeletePostAction = ActionPair{General: DeletePost, Own: DeleteOwnPost}
)

// PermissionSet is an unordered set of capabilities.
type PermissionSet map[Capability]struct{}

// NewPermissionSet builds a set from raw capability strings, as stored on a group.
func NewPermissionSet(raw []string) PermissionSet {
	set := make(PermissionSet, len(raw))
	for _, p := range raw {
		set[Capability(p)] = struct{}{}
	}
	return set
}

// Has reports whether c is in the set.
func (s PermissionSet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// All reports whether every capability is in the set. An empty list holds.
func (s PermissionSet) All(caps ...Capability) bool {
	for _, c := range caps {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Any reports whether at least one capability is in the set.
func (s PermissionSet) Any(caps ...Capability) bool {
	for _, c := range caps {
		if s.Has(c) {
			return true
		}
	}
	return false
}
