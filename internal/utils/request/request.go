package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return apperr.BadRequest("request body cannot be empty")
	}
	if err != nil {
		return &apperr.Error{Kind: apperr.KindBadRequest, Message: "Invalid JSON body", Err: err}
	}
	return nil
}

// Page reads the page and limit query parameters. Missing or malformed
// values fall back to the defaults.
func Page(r *http.Request) types.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("limit"))
	return types.NewPage(number, size)
}

// ViewerID is the user isLiked is computed for: the userId query parameter,
// or the caller's identity.
func ViewerID(r *http.Request) string {
	if id := r.URL.Query().Get("userId"); id != "" {
		return id
	}
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

// LikingUser reads the optional {"userId"} body of a like toggle and falls
// back to the caller's identity.
func LikingUser(r *http.Request) (string, error) {
	var req types.LikeRequest
	if r.Body != nil {
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", &apperr.Error{Kind: apperr.KindBadRequest, Message: "Invalid JSON body", Err: err}
		}
	}
	if req.UserID == "" {
		req.UserID, _ = middleware.GetUserIDFromContext(r.Context())
	}
	return req.UserID, nil
}
