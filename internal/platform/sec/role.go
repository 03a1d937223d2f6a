// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Default role for standard registered riders
	RoleUser UserRole = "USER"

	// Drivers accepted onto the platform after vetting
	RoleDriver UserRole = "DRIVER"

	// Unrestricted system access
	RoleAdmin UserRole = "ADMIN"
)

// IsValid reports whether the role is one of the enumerated values.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// In reports whether the role is a member of the allowed set.
//
// Authorization is set membership, not a hierarchy: an ADMIN is not
// implicitly a DRIVER. Guards name every role they accept.
func (r UserRole) In(allowed ...UserRole) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
