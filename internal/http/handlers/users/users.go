package users

import (
	"log/slog"
	"net/http"

	"github.com/derdine/forum-service/internal/http/middleware"
	"github.com/derdine/forum-service/internal/services/forum"
	"github.com/derdine/forum-service/internal/types/users"
	"github.com/derdine/forum-service/internal/utils/apperr"
	"github.com/derdine/forum-service/internal/utils/request"
	"github.com/derdine/forum-service/internal/utils/response"
)

// List returns every user
// @Summary List users
// @Description List all users, newest first
// @Tags users
// @Produce json
// @Success 200 {object} response.Response{data=[]users.User}
// @Failure 500 {object} response.Response "Internal server error"
// @Router /api/users [get]
func List(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListUsers(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.Counted(list, len(list)))
	}
}

// Get returns one user
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Response{data=users.User}
// @Failure 404 {object} response.Response "User not found"
// @Router /api/users/{id} [get]
func Get(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.GetUser(r.Context(), r.PathValue("id"))
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", u))
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a user account. Requires the admin token when authorization is enforced.
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignUpRequest true "User registration details"
// @Param x-admin-token header string false "Admin token"
// @Success 201 {object} response.Response{data=users.User}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 403 {object} response.Response "Forbidden"
// @Failure 409 {object} response.Response "User already exists"
// @Router /api/users [post]
func Register(svc *forum.Service, policy middleware.AuthPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := policy.RequireAdmin(r); err != nil {
			response.Error(w, apperr.Forbidden("Registration requires admin authorization"))
			return
		}

		var req users.SignUpRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		u, err := svc.Register(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, response.RequestOK("", u))
	}
}

// Login handles user authentication
// @Summary Authenticate a user
// @Description Check credentials, mark the user online and return a session token
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignInRequest true "User login details"
// @Success 200 {object} response.Response{data=users.User}
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Invalid credentials"
// @Router /api/users/login [post]
func Login(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.SignInRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		u, token, err := svc.Login(r.Context(), req)
		if err != nil {
			response.Error(w, err)
			return
		}

		resp := response.RequestOK("Login successful", u)
		resp.Token = token
		response.WriteJSON(w, http.StatusOK, resp)
	}
}

// Logout marks a user offline
// @Summary Log out
// @Tags users
// @Accept json
// @Produce json
// @Param body body users.SignOutRequest false "User to log out; defaults to the caller"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "User ID is required"
// @Failure 404 {object} response.Response "User not found"
// @Router /api/users/logout [post]
func Logout(svc *forum.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.SignOutRequest
		if r.ContentLength != 0 {
			if err := request.DecodeJSON(r, &req); err != nil {
				response.Error(w, err)
				return
			}
		}
		if req.UserID == "" {
			req.UserID, _ = middleware.GetUserIDFromContext(r.Context())
		}

		if err := svc.Logout(r.Context(), req.UserID); err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Logged out successfully", nil))
	}
}

// Update applies a partial profile update
// @Summary Update user
// @Description Update profile fields. Email and password are ignored.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body users.UpdateRequest true "Fields to update"
// @Success 200 {object} response.Response{data=users.User}
// @Failure 403 {object} response.Response "Not authorized"
// @Failure 404 {object} response.Response "User not found"
// @Failure 409 {object} response.Response "Username already taken"
// @Router /api/users/{id} [put]
func Update(svc *forum.Service, policy middleware.AuthPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := policy.RequireSelfOrAdmin(r, id); err != nil {
			response.Error(w, apperr.Forbidden("Not authorized to update this user"))
			return
		}

		var req users.UpdateRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		u, err := svc.UpdateUser(r.Context(), id, req)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("", u))
	}
}

// Delete removes a user
// @Summary Delete user
// @Description Admin only. Refused while the user still authors threads or replies.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param x-admin-token header string false "Admin token"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Only admin can delete users"
// @Failure 404 {object} response.Response "User not found"
// @Failure 409 {object} response.Response "User still has threads or replies"
// @Router /api/users/{id} [delete]
func Delete(svc *forum.Service, policy middleware.AuthPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := policy.RequireAdmin(r); err != nil {
			response.Error(w, apperr.Forbidden("Only admin can delete users"))
			return
		}

		id := r.PathValue("id")
		if err := svc.DeleteUser(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}
		slog.Info("User deleted", slog.String("user_id", id))

		response.WriteJSON(w, http.StatusOK, response.RequestOK("User deleted", nil))
	}
}

// ChangePassword replaces a user's password
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body users.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Current password is incorrect"
// @Failure 403 {object} response.Response "Not authorized"
// @Router /api/users/{id}/change-password [post]
func ChangePassword(svc *forum.Service, policy middleware.AuthPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if err := policy.RequireSelf(r, id); err != nil {
			response.Error(w, apperr.Forbidden("Not authorized"))
			return
		}

		var req users.ChangePasswordRequest
		if err := request.DecodeJSON(r, &req); err != nil {
			response.Error(w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), id, req); err != nil {
			response.Error(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Password changed successfully", nil))
	}
}
