package admin

import (
	"log/slog"
	"net/http"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// Seed creates default data on behalf of an admin user
// @Summary Seed default data
// @Description Creates theme, labels, categories, demo users and demo threads where none exist. The caller must carry the Admin badge.
// @Tags admin
// @Accept json
// @Produce json
// @Param body body types.SeedRequest false "Calling user; defaults to the caller identity"
// @Success 200 {object} response.Response{data=types.SeedResult}
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 403 {object} response.Response "Forbidden: Admin access required"
// @Router /api/admin/seed [post]
func Seed(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.SeedRequest
		if r.ContentLength != 0 {
			if err := request.DecodeJSON(r, &req); err != nil {
				response.Error(w, err)
				return
			}
		}
		if req.UserID == "" {
			req.UserID, _ = middleware.GetUserIDFromContext(r.Context())
		}

		res, err := svc.Seed(r.Context(), req.UserID)
		if err != nil {
			response.Error(w, err)
			return
		}
		slog.Info("Seed completed", slog.String("caller_id", req.UserID),
			slog.Int("categories", res.Categories), slog.Int("users", res.Users), slog.Int("threads", res.Threads))

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Seed data created successfully", res))
	}
}
