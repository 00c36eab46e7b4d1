package authz

import "chyrp/internal/model"

// Permissions returns the capability set of the user's group. The group must
// have been loaded with the user.
func Permissions(user *model.User) PermissionSet {
	if user == nil {
		return PermissionSet{}
	}
	return NewPermissionSet(user.Group.Permissions)
}

// HasCapability reports whether the user's group grants c.
func HasCapability(user *model.User, c Capability) bool {
	return Permissions(user).Has(c)
}

// HasAll reports whether the user holds every listed capability.
func HasAll(user *model.User, caps ...Capability) bool {
	return Permissions(user).All(caps...)
}

// HasOneOf reports whether the user holds at least one listed capability.
func HasOneOf(user *model.User, caps ...Capability) bool {
	return Permissions(user).Any(caps...)
}

// OwnerOrCapability reports whether the user holds general, or owns the
// resource and holds own.
func OwnerOrCapability(user *model.User, ownerID uint, general, own Capability) bool {
	if user == nil {
		return false
	}
	perms := Permissions(user)
	if perms.Has(general) {
		return true
	}
	return user.ID == ownerID && perms.Has(own)
}
