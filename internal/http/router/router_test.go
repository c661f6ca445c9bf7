package router

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/storage/sqlstore"
	"github.com/derdine/forum-service/internal/utils/password"
)

const testSecret = "test_secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Total   *int            `json:"total"`
	Page    *int            `json:"page"`
	Pages   *int            `json:"pages"`
	Token   string          `json:"token"`
	Error   string          `json:"error"`
}

func setupRouter(t *testing.T, policy middleware.AuthPolicy) http.Handler {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "forum.db") + "?_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
	store, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hasher := password.NewHasher("test_salt", false)
	return New(Deps{
		Forum:     forum.NewService(store, hasher, testSecret),
		Settings:  forum.NewSettingsService(store, nil),
		Policy:    policy,
		Limiter:   middleware.NewRateLimiter(client),
		JWTSecret: testSecret,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, headers ...string) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, rr.Body.String(), err)
	}
	return rr.Code, env
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()
	var v struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil || v.ID == "" {
		t.Fatalf("Expected an _id in data, got %s", env.Data)
	}
	return v.ID
}

func TestBanner(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var b bannerResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &b); err != nil {
		t.Fatalf("Failed to decode banner: %v", err)
	}
	if b.Message != "Derdine Forum API is running" || b.Version != Version {
		t.Fatalf("Unexpected banner %+v", b)
	}
	if b.Endpoints["threads"] != "/api/threads" {
		t.Fatalf("Expected threads endpoint, got %v", b.Endpoints)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown path, got %d", rr.Code)
	}
}

func TestForumScenario(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	code, env := do(t, h, http.MethodPost, "/api/users", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("Expected 201 on register, got %d %+v", code, env)
	}
	alice := dataID(t, env)
	if strings.Contains(string(env.Data), "password") {
		t.Fatalf("Password leaked in response: %s", env.Data)
	}

	_, env = do(t, h, http.MethodPost, "/api/users", map[string]string{
		"username": "bob", "email": "bob@x.com", "password": "secret1",
	})
	bob := dataID(t, env)

	code, env = do(t, h, http.MethodPost, "/api/users/login", map[string]string{
		"email": "alice@x.com", "password": "secret1",
	})
	if code != http.StatusOK || env.Token == "" || env.Message != "Login successful" {
		t.Fatalf("Expected login with token, got %d %+v", code, env)
	}
	token := env.Token

	code, env = do(t, h, http.MethodPost, "/api/users/login", map[string]string{
		"email": "alice@x.com", "password": "wrong",
	})
	if code != http.StatusUnauthorized || env.Success {
		t.Fatalf("Expected 401 for bad password, got %d %+v", code, env)
	}

	_, env = do(t, h, http.MethodPost, "/api/categories", map[string]string{"name": "Genel", "color": "#6C63FF"})
	cat := dataID(t, env)

	// author comes from the bearer token
	code, env = do(t, h, http.MethodPost, "/api/threads", map[string]string{
		"title": "Merhaba", "content": "ilk konu", "category": cat,
	}, "Authorization", "Bearer "+token)
	if code != http.StatusCreated {
		t.Fatalf("Expected 201 on thread create, got %d %+v", code, env)
	}
	thread := dataID(t, env)

	code, env = do(t, h, http.MethodPost, "/api/replies", map[string]string{
		"thread": thread, "content": "hos geldin", "author": bob,
	})
	if code != http.StatusCreated {
		t.Fatalf("Expected 201 on reply create, got %d %+v", code, env)
	}
	reply := dataID(t, env)

	code, env = do(t, h, http.MethodPost, "/api/threads/"+thread+"/like", map[string]string{"userId": bob})
	if code != http.StatusOK {
		t.Fatalf("Expected 200 on like, got %d %+v", code, env)
	}
	var like struct {
		LikeCount int  `json:"likeCount"`
		IsLiked   bool `json:"isLiked"`
	}
	json.Unmarshal(env.Data, &like)
	if like.LikeCount != 1 || !like.IsLiked {
		t.Fatalf("Expected liked with count 1, got %+v", like)
	}

	code, env = do(t, h, http.MethodGet, "/api/threads/"+thread+"?userId="+bob, nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200 on thread get, got %d", code)
	}
	var view struct {
		ViewCount  int  `json:"viewCount"`
		ReplyCount int  `json:"replyCount"`
		IsLiked    bool `json:"isLiked"`
		Author     struct {
			Username string `json:"username"`
		} `json:"author"`
	}
	json.Unmarshal(env.Data, &view)
	if view.ViewCount != 1 || view.ReplyCount != 1 || !view.IsLiked || view.Author.Username != "alice" {
		t.Fatalf("Unexpected thread view %+v", view)
	}

	code, env = do(t, h, http.MethodGet, "/api/threads?page=1&limit=10", nil)
	if code != http.StatusOK || env.Total == nil || *env.Total != 1 || env.Pages == nil || *env.Pages != 1 {
		t.Fatalf("Expected paged listing with total 1, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodGet, "/api/replies?thread="+thread, nil)
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("Expected one reply, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodDelete, "/api/categories/"+cat, nil)
	if code != http.StatusConflict || env.Success {
		t.Fatalf("Expected 409 deleting a category in use, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodDelete, "/api/users/"+alice, nil)
	if code != http.StatusConflict {
		t.Fatalf("Expected 409 deleting a user with content, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodDelete, "/api/replies/"+reply, nil)
	if code != http.StatusOK || env.Message != "Reply deleted" {
		t.Fatalf("Expected reply deletion, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodDelete, "/api/threads/"+thread, nil)
	if code != http.StatusOK || env.Message != "Thread deleted" {
		t.Fatalf("Expected thread deletion, got %d %+v", code, env)
	}

	code, _ = do(t, h, http.MethodGet, "/api/threads/"+thread, nil)
	if code != http.StatusNotFound {
		t.Fatalf("Expected 404 after delete, got %d", code)
	}

	code, env = do(t, h, http.MethodDelete, "/api/categories/"+cat, nil)
	if code != http.StatusOK || env.Message != "Category deleted" {
		t.Fatalf("Expected category deletion, got %d %+v", code, env)
	}
}

func TestValidationEnvelope(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	code, env := do(t, h, http.MethodPost, "/api/users", map[string]string{"username": "x"})
	if code != http.StatusBadRequest || env.Success {
		t.Fatalf("Expected 400, got %d %+v", code, env)
	}
	if env.Message != "Validation failed" || !strings.Contains(env.Error, "Email") {
		t.Fatalf("Expected field detail in error, got %+v", env)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed JSON, got %d", rr.Code)
	}
}

func TestStrictPolicyGuardsAdminRoutes(t *testing.T) {
	h := setupRouter(t, middleware.NewStrictPolicy("admin-token"))
	signup := map[string]string{"username": "carol", "email": "carol@x.com", "password": "secret1"}

	code, env := do(t, h, http.MethodPost, "/api/users", signup)
	if code != http.StatusForbidden || env.Message != "Registration requires admin authorization" {
		t.Fatalf("Expected 403 without admin token, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodPost, "/api/users", signup, middleware.HeaderAdminToken, "admin-token")
	if code != http.StatusCreated {
		t.Fatalf("Expected 201 with admin token, got %d %+v", code, env)
	}
	carol := dataID(t, env)

	code, _ = do(t, h, http.MethodPut, "/api/users/"+carol, map[string]string{"username": "mallory"},
		middleware.HeaderUserID, "someone-else")
	if code != http.StatusForbidden {
		t.Fatalf("Expected 403 updating another user, got %d", code)
	}

	code, env = do(t, h, http.MethodPut, "/api/users/"+carol, map[string]string{"username": "carol2"},
		middleware.HeaderUserID, carol)
	if code != http.StatusOK {
		t.Fatalf("Expected self update to pass, got %d %+v", code, env)
	}
}

func TestSeedRequiresAdmin(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	code, _ := do(t, h, http.MethodPost, "/api/admin/seed", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without caller, got %d", code)
	}

	_, env := do(t, h, http.MethodPost, "/api/users", map[string]string{
		"username": "dave", "email": "dave@x.com", "password": "secret1",
	})
	dave := dataID(t, env)

	code, _ = do(t, h, http.MethodPost, "/api/admin/seed", map[string]string{"userId": dave})
	if code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-admin, got %d", code)
	}
}

func TestInvalidBearerRejected(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	code, env := do(t, h, http.MethodGet, "/api/threads", nil, "Authorization", "Bearer garbage")
	if code != http.StatusUnauthorized || env.Success {
		t.Fatalf("Expected 401 for invalid token, got %d %+v", code, env)
	}
}

func TestSettingsRoutes(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	code, env := do(t, h, http.MethodGet, "/api/theme", nil)
	if code != http.StatusOK || !strings.Contains(string(env.Data), "primaryVariant") {
		t.Fatalf("Expected default theme, got %d %s", code, env.Data)
	}

	code, _ = do(t, h, http.MethodPut, "/api/theme", map[string]string{"primary": "blue"})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for invalid color, got %d", code)
	}

	code, env = do(t, h, http.MethodGet, "/api/labels/home", nil)
	if code != http.StatusOK || !strings.Contains(string(env.Data), `"home"`) {
		t.Fatalf("Expected home section, got %d %s", code, env.Data)
	}

	code, env = do(t, h, http.MethodPost, "/config", map[string]interface{}{
		"screen": "home", "config": map[string]bool{"showBanner": true},
	})
	if code != http.StatusOK {
		t.Fatalf("Expected config save, got %d %+v", code, env)
	}

	code, env = do(t, h, http.MethodGet, "/config", nil)
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("Expected one config, got %d %+v", code, env)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	req := httptest.NewRequest(http.MethodOptions, "/api/threads", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("Expected CORS headers on preflight, got %v", rr.Header())
	}
}

func TestCreateRoutesLogOnce(t *testing.T) {
	h := setupRouter(t, middleware.AllowAllPolicy{})

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, env := do(t, h, http.MethodPost, "/api/users", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	alice := dataID(t, env)
	_, env = do(t, h, http.MethodPost, "/api/categories", map[string]string{"name": "Genel"})
	cat := dataID(t, env)
	code, _ := do(t, h, http.MethodPost, "/api/threads", map[string]string{
		"title": "Merhaba", "content": "ilk konu", "author": alice, "category": cat,
	})
	if code != http.StatusCreated {
		t.Fatalf("Expected 201 on thread create, got %d", code)
	}

	for _, msg := range []string{"User registered", "Thread created"} {
		if n := strings.Count(logs.String(), "msg=\""+msg+"\""); n != 1 {
			t.Fatalf("Expected %q logged once, got %d times:\n%s", msg, n, logs.String())
		}
	}
}
