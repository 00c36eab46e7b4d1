package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chyrp/internal/model"
)

func userWith(id uint, perms ...string) *model.User {
	return &model.User{ID: id, Group: model.Group{Name: "test", Permissions: perms}}
}

func TestHasCapability(t *testing.T) {
	member := userWith(1, "add_post", "edit_own_post")

	assert.True(t, HasCapability(member, AddPost))
	assert.True(t, HasCapability(member, EditOwnPost))
	assert.False(t, HasCapability(member, EditPost))
	assert.False(t, HasCapability(nil, AddPost))
	assert.False(t, HasCapability(userWith(2), AddPost))
}

func TestHasAll_IsConjunctive(t *testing.T) {
	member := userWith(1, "add_post", "edit_own_post")

	assert.True(t, HasAll(member, AddPost, EditOwnPost))
	assert.False(t, HasAll(member, AddPost, EditPost))
	assert.True(t, HasAll(member))
}

func TestHasOneOf_IsDisjunctive(t *testing.T) {
	member := userWith(1, "add_post")

	assert.True(t, HasOneOf(member, EditPost, AddPost))
	assert.False(t, HasOneOf(member, EditPost, DeletePost))
	assert.False(t, HasOneOf(member))
}

func TestOwnerOrCapability(t *testing.T) {
	const ownerID = 7

	tests := []struct {
		name  string
		user  *model.User
		owner uint
		want  bool
	}{
		{name: "general capability, not owner", user: userWith(1, "edit_post"), owner: ownerID, want: true},
		{name: "general capability, owner", user: userWith(ownerID, "edit_post"), owner: ownerID, want: true},
		{name: "owner with own capability", user: userWith(ownerID, "edit_own_post"), owner: ownerID, want: true},
		{name: "owner without own capability", user: userWith(ownerID, "add_post"), owner: ownerID, want: false},
		{name: "own capability, not owner", user: userWith(1, "edit_own_post"), owner: ownerID, want: false},
		{name: "no capabilities", user: userWith(1), owner: ownerID, want: false},
		{name: "nil user", user: nil, owner: ownerID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OwnerOrCapability(tt.user, tt.owner, EditPost, EditOwnPost))
		})
	}
}

func TestPermissionSet_DuplicatesCollapse(t *testing.T) {
	set := NewPermissionSet([]string{"add_post", "add_post", "edit_post"})

	assert.Len(t, set, 2)
	assert.True(t, set.All(AddPost, EditPost))
}
