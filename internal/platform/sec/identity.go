// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package sec

// Identity is the authenticated principal attached to a request context.
//
// # Why not the full user record?
//
// The access guard re-reads the account on every request (so a deleted user
// is rejected immediately), but deliberately excludes the password hash and
// the stored refresh token. Identity carries exactly the columns that the
// guard is allowed to see.
type Identity struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}
