package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role names seeded by default. The permission bitmask behind each name lives
// in DefaultRolePermissions.
const (
	RoleNameUser          = "user"
	RoleNameModerator     = "moderator"
	RoleNameAdministrator = "administrator"
)

// Role is the role model
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Permissions   Permission `bun:"permissions,notnull" json:"permissions"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Activated     bool       `bun:"activated" json:"activated"`
	RoleID        *uuid.UUID `bun:"role_id" json:"role_id,omitempty"`
	Role          *Role      `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
	// PasswordChangedAt is the last credential rotation; recovery tokens
	// minted before it are dead.
	PasswordChangedAt *time.Time `bun:"password_changed_at,nullzero" json:"password_changed_at,omitempty"`
	CreatedAt         *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt         *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt         *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// GetID returns the canonical string identity, stable for the record's
// lifetime. Everything that embeds a user reference in a token goes through
// this.
func (u *User) GetID() string {
	return u.ID.String()
}

// SetPassword stores only the one-way hash. There is deliberately no way to
// read the cleartext back; comparison happens through VerifyPassword.
func (u *User) SetPassword(password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// VerifyPassword reports whether the cleartext matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return ComparePasswordAndHash(password, u.PasswordHash) == nil
}

func (u *User) String() string {
	return "<User: " + u.Username + ">"
}
