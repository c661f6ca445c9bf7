package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/derdine/forum-service/internal/utils/jwt"
)

const testSecret = "test_secret"

func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		w.Write([]byte(userID))
	})
}

func TestIdentity_BearerToken(t *testing.T) {
	token, err := jwt.CreateToken("user-1", testSecret)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderUserID, "someone-else")
	rr := httptest.NewRecorder()

	Identity(testSecret)(echoUserID()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "user-1" {
		t.Fatalf("Expected token subject, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestIdentity_HeaderFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "user-2")
	rr := httptest.NewRecorder()

	Identity(testSecret)(echoUserID()).ServeHTTP(rr, req)

	if rr.Body.String() != "user-2" {
		t.Fatalf("Expected header identity, got %q", rr.Body.String())
	}
}

func TestIdentity_Anonymous(t *testing.T) {
	rr := httptest.NewRecorder()
	Identity(testSecret)(echoUserID()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "" {
		t.Fatalf("Expected anonymous pass-through, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestIdentity_InvalidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()

	Identity(testSecret)(echoUserID()).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rr.Code)
	}
}

func withCaller(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
}

func TestStrictPolicy(t *testing.T) {
	p := NewStrictPolicy("admin-secret")

	anon := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	if p.RequireAdmin(anon) == nil {
		t.Fatal("Expected admin check to fail without token")
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	admin.Header.Set(HeaderAdminToken, "admin-secret")
	if err := p.RequireAdmin(admin); err != nil {
		t.Fatalf("Expected admin token to pass: %v", err)
	}
	if err := p.RequireSelfOrAdmin(admin, "user-1"); err != nil {
		t.Fatalf("Expected admin to act on any user: %v", err)
	}

	wrong := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	wrong.Header.Set(HeaderAdminToken, "guess")
	if p.RequireAdmin(wrong) == nil {
		t.Fatal("Expected wrong token to fail")
	}

	self := withCaller(httptest.NewRequest(http.MethodPut, "/api/users/user-1", nil), "user-1")
	if err := p.RequireSelfOrAdmin(self, "user-1"); err != nil {
		t.Fatalf("Expected self to pass: %v", err)
	}
	if p.RequireSelf(self, "user-2") == nil {
		t.Fatal("Expected other user to fail")
	}
	if p.RequireSelf(admin, "user-1") == nil {
		t.Fatal("Expected admin token not to stand in for self")
	}
}

func TestPolicyFor(t *testing.T) {
	if _, ok := PolicyFor(false, "x").(AllowAllPolicy); !ok {
		t.Fatal("Expected AllowAllPolicy outside production")
	}
	if _, ok := PolicyFor(true, "x").(*StrictPolicy); !ok {
		t.Fatal("Expected StrictPolicy in production")
	}

	anon := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
	if err := (AllowAllPolicy{}).RequireAdmin(anon); err != nil {
		t.Fatalf("Expected AllowAllPolicy to pass: %v", err)
	}
}

func TestRateLimiter(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	handler := NewRateLimiter(client).Wrap(ActionThreads, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	for i := 0; i < 20; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, withCaller(httptest.NewRequest(http.MethodPost, "/api/threads", nil), "user-1"))
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected request %d to pass, got %d", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, withCaller(httptest.NewRequest(http.MethodPost, "/api/threads", nil), "user-1"))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Limit") != "20" || rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("Unexpected rate limit headers: %v", rr.Header())
	}

	// anonymous callers are keyed by address
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/threads", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected anonymous caller to have its own bucket, got %d", rr.Code)
	}
}

func TestRateLimiter_Nil(t *testing.T) {
	var rl *RateLimiter
	handler := rl.Wrap(ActionLikes, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected pass-through without Redis, got %d", rr.Code)
	}
}
