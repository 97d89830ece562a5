package domain

import "time"

type User struct {
	Id    UserId
	Admin bool
	// Disabled accounts keep their session but may not change anything.
	Disabled  bool
	CreatedAt time.Time
}

// CanEditUser reports whether u may change the memberships of target.
// Memberships are self-service: admins get no override.
func (u *User) CanEditUser(target UserId) bool {
	if u == nil || u.Disabled {
		return false
	}
	return u.Id == target
}
