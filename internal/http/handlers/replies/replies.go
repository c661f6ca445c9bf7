package replies

import (
	"net/http"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// List returns a page of replies, oldest first
// @Summary List replies
// @Tags replies
// @Produce json
// @Param thread query string false "Thread ID"
// @Param author query string false "Author ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param userId query string false "Viewer for isLiked"
// @Success 200 {object} response.Response{data=[]types.ReplyView}
// @Router /api/replies [get]
func List(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := types.ReplyFilter{
			ThreadID: q.Get("thread"),
			AuthorID: q.Get("author"),
		}
		page := request.Page(r)

		list, total, err := svc.ListReplies(r.Context(), filter, page, request.ViewerID(r))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Paged(list, len(list), total, page))
	}
}

// @Summary Get reply
// @Tags replies
// @Produce json
// @Param id path string true "Reply ID"
// @Success 200 {object} response.Response{data=types.ReplyView}
// @Failure 404 {object} response.Response "Reply not found"
// @Router /api/replies/{id} [get]
func Get(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply, err := svc.GetReply(r.Context(), r.PathValue("id"), request.ViewerID(r))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", reply))
	}
}

// Create posts a reply to an unlocked thread
// @Summary Create reply
// @Tags replies
// @Accept json
// @Produce json
// @Param reply body types.ReplyPostRequest true "Reply"
// @Success 201 {object} response.Response{data=types.ReplyView}
// @Failure 400 {object} response.Response "Thread not found, thread is locked or author not found"
// @Failure 429 {object} response.Response "Rate limit exceeded"
// @Router /api/replies [post]
func Create(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReplyPostRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}
		if req.AuthorID == "" {
			req.AuthorID, _ = middleware.GetUserIDFromContext(r.Context())
		}

		reply, err := svc.CreateReply(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, response.RequestOK("", reply))
	}
}

// @Summary Update reply
// @Description Marks the reply as edited
// @Tags replies
// @Accept json
// @Produce json
// @Param id path string true "Reply ID"
// @Param reply body types.ReplyUpdateRequest true "New content"
// @Success 200 {object} response.Response{data=types.ReplyView}
// @Failure 404 {object} response.Response "Reply not found"
// @Router /api/replies/{id} [put]
func Update(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ReplyUpdateRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		reply, err := svc.UpdateReply(r.Context(), r.PathValue("id"), req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", reply))
	}
}

// @Summary Delete reply
// @Tags replies
// @Produce json
// @Param id path string true "Reply ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Reply not found"
// @Router /api/replies/{id} [delete]
func Delete(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteReply(r.Context(), r.PathValue("id")); err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Reply deleted", nil))
	}
}

// @Summary Toggle reply like
// @Tags replies
// @Accept json
// @Produce json
// @Param id path string true "Reply ID"
// @Param body body types.LikeRequest false "Liking user"
// @Success 200 {object} response.Response{data=types.LikeResult}
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 404 {object} response.Response "Reply not found"
// @Router /api/replies/{id}/like [post]
func ToggleLike(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := request.LikingUser(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		res, err := svc.ToggleReplyLike(r.Context(), r.PathValue("id"), userID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", res))
	}
}
