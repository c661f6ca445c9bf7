package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/derdine/forum-service/internal/ratelimit"
	"github.com/derdine/forum-service/internal/utils/response"
)

const (
	ActionThreads = "threads"
	ActionReplies = "replies"
	ActionLikes   = "likes"
)

// RateLimiter throttles write-heavy endpoints per caller. A nil
// *RateLimiter lets every request through, which is how the service runs
// without Redis.
type RateLimiter struct {
	limiters map[string]*ratelimit.TokenBucket
}

func NewRateLimiter(client redis.Cmdable) *RateLimiter {
	return &RateLimiter{
		limiters: map[string]*ratelimit.TokenBucket{
			// POST /api/threads: 20/min per caller
			ActionThreads: ratelimit.NewTokenBucket(client, 20, 20),
			// POST /api/replies: 30/min per caller
			ActionReplies: ratelimit.NewTokenBucket(client, 30, 30),
			// like toggles: 60/min per caller
			ActionLikes: ratelimit.NewTokenBucket(client, 60, 60),
		},
	}
}

// callerKey identifies the caller for rate limiting: the resolved user id,
// or the remote address for anonymous requests.
func callerKey(r *http.Request) string {
	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rl *RateLimiter) Limit(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rl == nil {
			return next
		}
		limiter, exists := rl.limiters[action]
		if !exists {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := limiter.Take(r.Context(), callerKey(r), action)
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
					fmt.Errorf("rate limit check failed: %w", err)))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limiter.Capacity(), 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(limiter.Window().Seconds())))

			if !decision.Allowed {
				response.WriteJSON(w, http.StatusTooManyRequests, response.GeneralError(
					errors.New("Rate limit exceeded")))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Wrap applies the limit for action to a handler function.
func (rl *RateLimiter) Wrap(action string, handler http.HandlerFunc) http.Handler {
	return rl.Limit(action)(handler)
}
