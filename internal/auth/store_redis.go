// Copyright (c) 2026 Rydio. All rights reserved.
// Author: minh.trantq.vn@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhtrantq/rydio/internal/platform/constants"
)

// # Login Attempt Repository

// RedisLoginAttemptRepository implements LoginAttemptRepository using Redis.
type RedisLoginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository creates a new Redis-backed LoginAttemptRepository.
func NewLoginAttemptRepository(client *redis.Client) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client}
}

/*
Failures returns the current failed-attempt count for the key.

Description: A missing counter reads as zero, never as an error.

Parameters:
  - context: context.Context
  - key: string (normalized email)

Returns:
  - int64: Attempt count
  - error: Connectivity errors
*/
func (repository *RedisLoginAttemptRepository) Failures(context context.Context, key string) (int64, error) {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Get the counter from Redis
	count, err := repository.client.Get(context, redisKey).Int64()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	// Return the counter
	return count, nil
}

/*
RecordFailure increments the failed-attempt counter for the key.

Description: The expiry window starts on the first failure, so the counter
self-destructs after the window passes without another failure resetting it.

Parameters:
  - context: context.Context
  - key: string
  - window: time.Duration

Returns:
  - int64: Counter value after the increment
  - error: Execution errors
*/
func (repository *RedisLoginAttemptRepository) RecordFailure(context context.Context, key string, window time.Duration) (int64, error) {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Increment the counter
	count, err := repository.client.Incr(context, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}

	// Start the expiry window on the first failure
	if count == 1 {
		if err := repository.client.Expire(context, redisKey, window).Err(); err != nil {
			return count, fmt.Errorf("redis_login_attempts_expire_failed: %w", err)
		}
	}

	// Return the incremented counter
	return count, nil
}

/*
Clear resets the failed-attempt counter after a successful login.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisLoginAttemptRepository) Clear(context context.Context, key string) error {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Delete the counter from Redis
	if err := repository.client.Del(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_clear_failed: %w", err)
	}

	// Return nil on success
	return nil
}
