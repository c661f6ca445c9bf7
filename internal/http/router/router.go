package router

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/derdine/forum-service/internal/http/handlers/admin"
	"github.com/derdine/forum-service/internal/http/handlers/categories"
	"github.com/derdine/forum-service/internal/http/handlers/media"
	"github.com/derdine/forum-service/internal/http/handlers/replies"
	"github.com/derdine/forum-service/internal/http/handlers/settings"
	"github.com/derdine/forum-service/internal/http/handlers/threads"
	"github.com/derdine/forum-service/internal/http/handlers/users"
	"github.com/derdine/forum-service/internal/http/handlers/websocket"
	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/utils/response"
	wsClient "github.com/derdine/forum-service/internal/websocket"
)

const Version = "1.0.0"

// Deps are the services the HTTP API is built on. Hub and Avatars are
// optional; their routes are left out when nil. A nil Limiter disables
// rate limiting.
type Deps struct {
	Forum     *forum.Service
	Settings  *forum.SettingsService
	Policy    middleware.AuthPolicy
	Limiter   *middleware.RateLimiter
	Hub       *wsClient.Hub
	Avatars   media.AvatarStore
	JWTSecret string
	// AllowWSUserID lets websocket clients identify with ?userId= instead
	// of a token.
	AllowWSUserID bool
}

// New builds the complete handler: routes, caller identity, CORS and panic
// recovery.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", banner)
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	mux.HandleFunc("GET /api/categories", categories.List(d.Forum))
	mux.HandleFunc("GET /api/categories/{id}", categories.Get(d.Forum))
	mux.HandleFunc("POST /api/categories", categories.Create(d.Forum))
	mux.HandleFunc("PUT /api/categories/{id}", categories.Update(d.Forum))
	mux.HandleFunc("DELETE /api/categories/{id}", categories.Delete(d.Forum))

	mux.HandleFunc("GET /api/theme", settings.GetTheme(d.Settings))
	mux.HandleFunc("PUT /api/theme", settings.UpdateTheme(d.Settings))
	mux.HandleFunc("GET /api/labels", settings.GetLabels(d.Settings))
	mux.HandleFunc("PUT /api/labels", settings.UpdateLabels(d.Settings))
	mux.HandleFunc("GET /api/labels/{screen}", settings.GetLabelSection(d.Settings))
	mux.HandleFunc("PUT /api/labels/{screen}", settings.UpdateLabelSection(d.Settings))
	mux.HandleFunc("GET /config", settings.ListUIConfigs(d.Settings))
	mux.HandleFunc("GET /config/{screen}", settings.GetUIConfig(d.Settings))
	mux.HandleFunc("POST /config", settings.SaveUIConfig(d.Settings))

	mux.HandleFunc("GET /api/users", users.List(d.Forum))
	mux.HandleFunc("GET /api/users/{id}", users.Get(d.Forum))
	mux.HandleFunc("POST /api/users", users.Register(d.Forum, d.Policy))
	mux.HandleFunc("POST /api/users/login", users.Login(d.Forum))
	mux.HandleFunc("POST /api/users/logout", users.Logout(d.Forum))
	mux.HandleFunc("PUT /api/users/{id}", users.Update(d.Forum, d.Policy))
	mux.HandleFunc("DELETE /api/users/{id}", users.Delete(d.Forum, d.Policy))
	mux.HandleFunc("POST /api/users/{id}/change-password", users.ChangePassword(d.Forum, d.Policy))

	if d.Avatars != nil {
		avatars := media.NewAvatarHandlers(d.Avatars, d.Forum, d.Policy)
		mux.HandleFunc("POST /api/users/{id}/avatar/upload-url", avatars.UploadURL())
		mux.HandleFunc("PUT /api/users/{id}/avatar", avatars.Confirm())
	}

	mux.HandleFunc("GET /api/threads", threads.List(d.Forum))
	mux.HandleFunc("GET /api/threads/{id}", threads.Get(d.Forum))
	mux.Handle("POST /api/threads", d.Limiter.Wrap(middleware.ActionThreads, threads.Create(d.Forum)))
	mux.HandleFunc("PUT /api/threads/{id}", threads.Update(d.Forum))
	mux.HandleFunc("DELETE /api/threads/{id}", threads.Delete(d.Forum))
	mux.Handle("POST /api/threads/{id}/like", d.Limiter.Wrap(middleware.ActionLikes, threads.ToggleLike(d.Forum)))

	mux.HandleFunc("GET /api/replies", replies.List(d.Forum))
	mux.HandleFunc("GET /api/replies/{id}", replies.Get(d.Forum))
	mux.Handle("POST /api/replies", d.Limiter.Wrap(middleware.ActionReplies, replies.Create(d.Forum)))
	mux.HandleFunc("PUT /api/replies/{id}", replies.Update(d.Forum))
	mux.HandleFunc("DELETE /api/replies/{id}", replies.Delete(d.Forum))
	mux.Handle("POST /api/replies/{id}/like", d.Limiter.Wrap(middleware.ActionLikes, replies.ToggleLike(d.Forum)))

	mux.HandleFunc("POST /api/admin/seed", admin.Seed(d.Forum))

	if d.Hub != nil {
		mux.HandleFunc("GET /ws", websocket.WebSocketHandler(d.Hub, d.JWTSecret, d.AllowWSUserID))
	}

	var h http.Handler = middleware.Identity(d.JWTSecret)(mux)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.New(slogWriter{}, "", 0)),
		handlers.PrintRecoveryStack(true),
	)(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.HeaderUserID, middleware.HeaderAdminToken}),
		handlers.ExposedHeaders([]string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}),
	)(h)
	return h
}

type bannerResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func banner(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, bannerResponse{
		Message: "Derdine Forum API is running",
		Version: Version,
		Endpoints: map[string]string{
			"theme":      "/api/theme",
			"categories": "/api/categories",
			"labels":     "/api/labels",
			"users":      "/api/users",
			"threads":    "/api/threads",
			"replies":    "/api/replies",
			"config":     "/config",
			"events":     "/ws",
			"docs":       "/swagger/",
		},
	})
}

// slogWriter feeds the recovery handler's log.Logger into slog.
type slogWriter struct{}

func (slogWriter) Write(p []byte) (int, error) {
	slog.Error("Recovered from panic", slog.String("detail", string(p)))
	return len(p), nil
}
