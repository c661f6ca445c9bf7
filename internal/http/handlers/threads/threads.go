package threads

import (
	"net/http"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// List returns a page of threads
// @Summary List threads
// @Description Pinned threads first, then newest first
// @Tags threads
// @Produce json
// @Param category query string false "Category ID"
// @Param author query string false "Author ID"
// @Param pinned query bool false "Only pinned threads"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param userId query string false "Viewer for isLiked"
// @Success 200 {object} response.Response{data=[]types.ThreadView}
// @Failure 500 {object} response.Response "Internal server error"
// @Router /api/threads [get]
func List(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := types.ThreadFilter{
			CategoryID: q.Get("category"),
			AuthorID:   q.Get("author"),
			PinnedOnly: q.Get("pinned") == "true",
		}
		page := request.Page(r)

		list, total, err := svc.ListThreads(r.Context(), filter, page, request.ViewerID(r))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Paged(list, len(list), total, page))
	}
}

// Get returns one thread and counts the view
// @Summary Get thread
// @Tags threads
// @Produce json
// @Param id path string true "Thread ID"
// @Param userId query string false "Viewer for isLiked"
// @Success 200 {object} response.Response{data=types.ThreadView}
// @Failure 404 {object} response.Response "Thread not found"
// @Router /api/threads/{id} [get]
func Get(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetThread(r.Context(), r.PathValue("id"), request.ViewerID(r))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", t))
	}
}

// Create posts a new thread
// @Summary Create thread
// @Description The author defaults to the caller when omitted
// @Tags threads
// @Accept json
// @Produce json
// @Param thread body types.ThreadPostRequest true "Thread"
// @Success 201 {object} response.Response{data=types.ThreadView}
// @Failure 400 {object} response.Response "Author or category not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Router /api/threads [post]
func Create(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ThreadPostRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
		if req.AuthorID == "" {
			req.AuthorID, _ = middleware.GetUserIDFromContext(r.Context())
		}

		t, err := svc.CreateThread(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("", t))
	}
}

// Update edits a thread
// @Summary Update thread
// @Tags threads
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param thread body types.ThreadUpdateRequest true "Fields to update"
// @Success 200 {object} response.Response{data=types.ThreadView}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 404 {object} response.Response "Thread not found"
// @Router /api/threads/{id} [put]
func Update(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ThreadUpdateRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		t, err := svc.UpdateThread(r.Context(), r.PathValue("id"), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", t))
	}
}

// Delete removes a thread with its replies
// @Summary Delete thread
// @Tags threads
// @Produce json
// @Param id path string true "Thread ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Thread not found"
// @Router /api/threads/{id} [delete]
func Delete(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteThread(r.Context(), r.PathValue("id")); err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Thread deleted", nil))
	}
}

// ToggleLike likes or unlikes a thread
// @Summary Toggle thread like
// @Description The user defaults to the caller when omitted
// @Tags threads
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param body body types.LikeRequest false "Liking user"
// @Success 200 {object} response.Response{data=types.LikeResult}
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Thread not found"
// @Router /api/threads/{id}/like [post]
func ToggleLike(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := request.LikingUser(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		res, err := svc.ToggleThreadLike(r.Context(), r.PathValue("id"), userID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", res))
	}
}
