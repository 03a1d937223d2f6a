// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (5 minutes) for security.
	ResetTokenTTL = 5 * time.Minute

	// LoginMaxAttempts is the number of failed logins allowed per account
	// before the limiter locks further attempts.
	LoginMaxAttempts = 10

	// LoginAttemptWindow is the duration a failed-attempt counter lives in
	// Redis before it resets.
	LoginAttemptWindow = 15 * time.Minute
)
