package model

import "time"

// User is the persisted user entity. The JSON tags describe the cache
// form used by the repository layer, not the API wire form; the wire
// shape (which never carries the password) is owned by the DTOs in the
// domain root package.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"password" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserPatch lists the mutable fields for an update. Nil means "leave
// unchanged". ID and CreatedAt are deliberately absent: they are
// server-assigned and immutable.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil
}
