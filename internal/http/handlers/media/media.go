package media

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	mediaService "github.com/derdine/forum-service/internal/services/media"
	"github.com/derdine/forum-service/internal/types/users"
	"github.com/derdine/forum-service/internal/utils/apperr"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// AvatarStore is the object storage behind avatar uploads.
type AvatarStore interface {
	AvatarUploadURL(ctx context.Context, userID, contentType string) (*mediaService.UploadInfo, error)
	ConfirmAvatar(ctx context.Context, userID, objectKey string) (string, error)
	KeyFromURL(rawURL string) (string, bool)
	DeleteObject(ctx context.Context, objectKey string) error
}

type AvatarHandlers struct {
	store  AvatarStore
	forum  *forum.Service
	policy middleware.AuthPolicy
}

// NewAvatarHandlers creates the avatar upload handlers
func NewAvatarHandlers(store AvatarStore, svc *forum.Service, policy middleware.AuthPolicy) *AvatarHandlers {
	return &AvatarHandlers{
		store:  store,
		forum:  svc,
		policy: policy,
	}
}

// UploadURL generates a presigned URL for a new avatar
// @Summary Generate avatar upload URL
// @Description Returns a presigned PUT URL; upload the image there, then confirm the object key
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body users.AvatarUploadRequest true "Image content type"
// @Success 200 {object} response.Response{data=mediaService.UploadInfo}
// @Failure 400 {object} response.Response "Content type not allowed"
// @Failure 403 {object} response.Response "Not authorized"
// @Router /api/users/{id}/avatar/upload-url [post]
func (h *AvatarHandlers) UploadURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := h.policy.RequireSelfOrAdmin(r, id); err != nil {
			response.Error(w, apperr.Forbidden("Not authorized to update this user"))
			return
		}

		var req users.AvatarUploadRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
		if req.ContentType == "" {
			response.Error(w, apperr.BadRequest("Content type is required"))
			return
		}

		if _, err := h.forum.GetUser(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		info, err := h.store.AvatarUploadURL(r.Context(), id, req.ContentType)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Upload URL generated successfully", info))
	}
}

// Confirm points the user's avatarUrl at an uploaded object
// @Summary Confirm avatar upload
// @Description Checks the uploaded object and sets it as the user's avatar. The previous uploaded avatar is removed.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body users.AvatarConfirmRequest true "Uploaded object key"
// @Success 200 {object} response.Response{data=users.User}
// @Failure 400 {object} response.Response "Invalid upload"
// @Failure 403 {object} response.Response "Not authorized"
// @Failure 404 {object} response.Response "Avatar upload not found"
// @Router /api/users/{id}/avatar [put]
func (h *AvatarHandlers) Confirm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := h.policy.RequireSelfOrAdmin(r, id); err != nil {
			response.Error(w, apperr.Forbidden("Not authorized to update this user"))
			return
		}

		var req users.AvatarConfirmRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		previous, err := h.forum.GetUser(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		avatarURL, err := h.store.ConfirmAvatar(r.Context(), id, req.ObjectKey)
		if err != nil {
			response.Error(w, err)
			return
		}

		u, err := h.forum.SetAvatar(r.Context(), id, avatarURL)
		if err != nil {
			response.Error(w, err)
			return
		}

		if previous.AvatarURL != nil && *previous.AvatarURL != avatarURL {
			if key, ok := h.store.KeyFromURL(*previous.AvatarURL); ok {
				if err := h.store.DeleteObject(r.Context(), key); err != nil {
					slog.Warn("Failed to remove previous avatar", slog.String("user_id", id), slog.String("error", err.Error()))
				}
			}
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Avatar updated", u))
	}
}
