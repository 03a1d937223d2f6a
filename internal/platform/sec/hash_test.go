// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtrantq/rydio/internal/platform/sec"
)

/*
TestHashPassword verifies hashing and the round-trip comparison.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash never equals the plaintext
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, sec.CheckPasswordHash("wrong password", hash))
}

/*
TestHashPassword_Salted verifies that two hashes of the same input differ.
*/
func TestHashPassword_Salted(t *testing.T) {
	first, err := sec.HashPassword("password123")
	require.NoError(t, err)
	second, err := sec.HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, sec.CheckPasswordHash("password123", first))
	assert.True(t, sec.CheckPasswordHash("password123", second))
}

/*
TestCheckPasswordHash_GarbageHash verifies that a corrupt stored hash is a
mismatch, never a panic.
*/
func TestCheckPasswordHash_GarbageHash(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("password123", "not-a-bcrypt-hash"))
	assert.False(t, sec.CheckPasswordHash("password123", ""))
}
