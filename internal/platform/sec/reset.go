// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes is the entropy of a password-reset token before encoding.
const resetTokenBytes = 32

// GenerateResetToken produces a single-use password-reset secret.
//
// The plaintext is 32 bytes from crypto/rand, hex-encoded; it is handed to
// the user (via email) and exists only transiently. The returned hash is
// what gets persisted: a store compromise therefore never leaks a usable
// reset token.
func GenerateResetToken() (plaintext, hash string, err error) {
	buffer := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buffer); err != nil {
		return "", "", fmt.Errorf("sec: failed to generate reset token: %w", err)
	}

	plaintext = hex.EncodeToString(buffer)
	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken deterministically re-derives the stored digest of a
// reset token, so an incoming plaintext can be matched with a single
// conditional query ("hash equals X AND expiry > now").
func HashResetToken(plaintext string) string {
	digest := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(digest[:])
}
