package media

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	mediaService "github.com/derdine/forum-service/internal/services/media"
	"github.com/derdine/forum-service/internal/storage/sqlstore"
	"github.com/derdine/forum-service/internal/types/users"
	"github.com/derdine/forum-service/internal/utils/apperr"
	"github.com/derdine/forum-service/internal/utils/password"
)

const objectBase = "http://minio.local/forum-avatars/"

// fakeAvatarStore keeps confirmed objects in memory
type fakeAvatarStore struct {
	objects map[string]bool
	deleted []string
}

func (f *fakeAvatarStore) AvatarUploadURL(ctx context.Context, userID, contentType string) (*mediaService.UploadInfo, error) {
	if contentType != "image/png" {
		return nil, apperr.BadRequest("Content type not allowed")
	}
	key := "avatars/" + userID + "/new.png"
	return &mediaService.UploadInfo{ObjectKey: key, UploadURL: objectBase + key + "?sig", ContentType: contentType}, nil
}

func (f *fakeAvatarStore) ConfirmAvatar(ctx context.Context, userID, objectKey string) (string, error) {
	if !f.objects[objectKey] {
		return "", apperr.NotFound("Avatar upload not found")
	}
	return objectBase + objectKey, nil
}

func (f *fakeAvatarStore) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, objectBase) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, objectBase), true
}

func (f *fakeAvatarStore) DeleteObject(ctx context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func setupAvatars(t *testing.T, policy middleware.AuthPolicy) (*AvatarHandlers, *fakeAvatarStore, *users.User) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "forum.db") + "?_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
	store, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := forum.NewService(store, password.NewHasher("test_salt", false), "test_secret")
	u, err := svc.Register(context.Background(), users.SignUpRequest{
		Username: "alice", Email: "alice@x.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}

	fake := &fakeAvatarStore{objects: make(map[string]bool)}
	return NewAvatarHandlers(fake, svc, policy), fake, u
}

func serve(h http.HandlerFunc, pattern, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)

	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	middleware.Identity("test_secret")(mux).ServeHTTP(rr, req)
	return rr
}

func TestUploadURL(t *testing.T) {
	h, _, u := setupAvatars(t, middleware.AllowAllPolicy{})
	pattern := "POST /api/users/{id}/avatar/upload-url"

	rr := serve(h.UploadURL(), pattern, http.MethodPost, "/api/users/"+u.ID+"/avatar/upload-url",
		users.AvatarUploadRequest{ContentType: "image/png"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "avatars/"+u.ID+"/") {
		t.Fatalf("Expected object key under the user's prefix, got %s", rr.Body.String())
	}

	rr = serve(h.UploadURL(), pattern, http.MethodPost, "/api/users/"+u.ID+"/avatar/upload-url",
		users.AvatarUploadRequest{ContentType: "application/pdf"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for disallowed type, got %d", rr.Code)
	}

	rr = serve(h.UploadURL(), pattern, http.MethodPost, "/api/users/missing/avatar/upload-url",
		users.AvatarUploadRequest{ContentType: "image/png"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown user, got %d", rr.Code)
	}
}

func TestUploadURLRequiresSelf(t *testing.T) {
	h, _, u := setupAvatars(t, middleware.NewStrictPolicy("admin-token"))

	rr := serve(h.UploadURL(), "POST /api/users/{id}/avatar/upload-url", http.MethodPost,
		"/api/users/"+u.ID+"/avatar/upload-url", users.AvatarUploadRequest{ContentType: "image/png"},
		middleware.HeaderUserID, "someone-else")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d", rr.Code)
	}
}

func TestConfirmReplacesPreviousAvatar(t *testing.T) {
	h, fake, u := setupAvatars(t, middleware.AllowAllPolicy{})
	pattern := "PUT /api/users/{id}/avatar"
	path := "/api/users/" + u.ID + "/avatar"

	rr := serve(h.Confirm(), pattern, http.MethodPut, path, users.AvatarConfirmRequest{ObjectKey: "avatars/" + u.ID + "/a.png"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 before upload, got %d", rr.Code)
	}

	first := "avatars/" + u.ID + "/a.png"
	second := "avatars/" + u.ID + "/b.png"
	fake.objects[first] = true
	fake.objects[second] = true

	rr = serve(h.Confirm(), pattern, http.MethodPut, path, users.AvatarConfirmRequest{ObjectKey: first})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(fake.deleted) != 0 {
		t.Fatalf("Expected nothing deleted on first avatar, got %v", fake.deleted)
	}

	rr = serve(h.Confirm(), pattern, http.MethodPut, path, users.AvatarConfirmRequest{ObjectKey: second})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), objectBase+second) {
		t.Fatalf("Expected avatarUrl to point at the new object, got %s", rr.Body.String())
	}
	if len(fake.deleted) != 1 || fake.deleted[0] != first {
		t.Fatalf("Expected previous avatar removed, got %v", fake.deleted)
	}
}
