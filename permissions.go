package identity

// Permission is one capability bit. Flags combine with OR and are tested
// with AND, so a new capability only needs an unused bit.
type Permission uint

const (
	// PermissionLike allows liking a post.
	PermissionLike Permission = 0x01
	// PermissionComment allows commenting on a post.
	PermissionComment Permission = 0x02
	// PermissionPublish allows authoring posts.
	PermissionPublish Permission = 0x04
	// PermissionModerateComments allows editing or hiding others' comments.
	PermissionModerateComments Permission = 0x08
	// PermissionAdminister is the site-admin bit.
	PermissionAdminister Permission = 0x80
)

// PermissionAll is the administrator aggregate.
const PermissionAll Permission = 0xFF

// DefaultRolePermissions maps the seeded role names to their bitmasks.
// SeedRoles upserts this mapping, so running it twice is a no-op.
var DefaultRolePermissions = map[string]Permission{
	RoleNameUser:          PermissionLike | PermissionComment | PermissionPublish,
	RoleNameModerator:     PermissionLike | PermissionComment | PermissionPublish | PermissionModerateComments,
	RoleNameAdministrator: PermissionAll,
}

// Has reports whether every bit in p is set.
func (m Permission) Has(p Permission) bool {
	return m&p == p
}

// Can reports whether the user's role grants the permission. Anonymous or
// role-less identities can do nothing.
func Can(user *User, p Permission) bool {
	if user == nil || user.Role == nil {
		return false
	}
	return user.Role.Permissions.Has(p)
}

// IsAdmin is sugar for Can(user, PermissionAdminister).
func IsAdmin(user *User) bool {
	return Can(user, PermissionAdminister)
}
