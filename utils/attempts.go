// utils/attempts.go
package utils

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTooManyLoginAttempts is returned once an account exceeds the
// per-hour login budget.
var ErrTooManyLoginAttempts = errors.New("too many login attempts, try again later")

// ValidateLoginAttempts counts a login attempt for the given email and
// rejects once the hourly budget is exhausted. A nil client disables the
// check (Redis unavailable).
func ValidateLoginAttempts(ctx context.Context, rdb *redis.Client, email string) error {
	if rdb == nil {
		return nil
	}

	key := "login_attempts:" + email
	attempts, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		// Never lock users out because Redis is down.
		return nil
	}

	if attempts == 1 {
		rdb.Expire(ctx, key, 1*time.Hour)
	}

	if attempts > 5 {
		return ErrTooManyLoginAttempts
	}

	return nil
}

// ResetLoginAttempts clears the attempt counter after a successful login.
func ResetLoginAttempts(ctx context.Context, rdb *redis.Client, email string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, "login_attempts:"+email)
}
