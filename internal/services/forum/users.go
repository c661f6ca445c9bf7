package forum

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types/users"
	"github.com/derdine/forum-service/internal/utils/apperr"
	"github.com/derdine/forum-service/internal/utils/jwt"
	"github.com/derdine/forum-service/internal/utils/password"
)

func (s *Service) ListUsers(ctx context.Context) ([]users.User, error) {
	list, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*users.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// Register creates an account. Username and email must both be unused.
func (s *Service) Register(ctx context.Context, req users.SignUpRequest) (*users.User, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	exists, err := s.store.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, internal(err)
	}
	if exists {
		return nil, apperr.Conflict("User already exists")
	}

	badge := req.Badge
	if badge == "" {
		badge = users.DefaultBadge
	}

	now := s.now()
	u := &users.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: s.hasher.HashPassword(req.Password),
		Badge:        &badge,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, internal(err)
	}

	slog.Info("User registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login verifies the credentials, marks the user online and issues a
// session token. A legacy plaintext password is replaced by its hash.
func (s *Service) Login(ctx context.Context, req users.SignInRequest) (*users.User, string, error) {
	if err := s.check(req); err != nil {
		return nil, "", apperr.BadRequest("Email and password are required")
	}

	u, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", apperr.Unauthorized("Invalid credentials")
	} else if err != nil {
		return nil, "", internal(err)
	}

	ok, upgrade := s.hasher.Verify(req.Password, u.PasswordHash)
	if !ok {
		return nil, "", apperr.Unauthorized("Invalid credentials")
	}

	u.IsOnline = true
	u.UpdatedAt = s.now()
	err = s.store.WithTx(ctx, func(tx storage.Tx) error {
		if upgrade {
			u.PasswordHash = s.hasher.HashPassword(req.Password)
			if err := tx.SetUserPassword(ctx, u.ID, u.PasswordHash); err != nil {
				return err
			}
		}
		return tx.UpdateUser(ctx, u)
	})
	if err != nil {
		return nil, "", internal(err)
	}
	if upgrade {
		slog.Info("Upgraded legacy password", slog.String("user_id", u.ID))
	}

	token, err := jwt.CreateToken(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", internal(err)
	}
	return u, token, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.BadRequest("User ID is required")
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return notFound(err, "User not found")
	}

	u.IsOnline = false
	u.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return internal(err)
	}
	return nil
}

// UpdateUser applies a partial profile update. Email and password cannot
// be changed here.
func (s *Service) UpdateUser(ctx context.Context, id string, req users.UpdateRequest) (*users.User, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}
	if req.Badge != nil {
		u.Badge = req.Badge
	}
	if req.IsOnline != nil {
		u.IsOnline = *req.IsOnline
	}
	if req.Reputation != nil {
		u.Reputation = *req.Reputation
	}
	u.UpdatedAt = s.now()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflict("Username already taken")
		}
		return nil, notFound(err, "User not found")
	}
	return u, nil
}

// SetAvatar points the user's avatarUrl at an uploaded object.
func (s *Service) SetAvatar(ctx context.Context, id, avatarURL string) (*users.User, error) {
	return s.UpdateUser(ctx, id, users.UpdateRequest{AvatarURL: &avatarURL})
}

func (s *Service) ChangePassword(ctx context.Context, id string, req users.ChangePasswordRequest) error {
	if err := s.check(req); err != nil {
		return apperr.BadRequest("Current and new password are required")
	}
	if len(req.NewPassword) < password.MinLength {
		return apperr.BadRequest("Password must be at least 6 characters")
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return notFound(err, "User not found")
	}

	if ok, _ := s.hasher.Verify(req.CurrentPassword, u.PasswordHash); !ok {
		return apperr.Unauthorized("Current password is incorrect")
	}

	if err := s.store.SetUserPassword(ctx, id, s.hasher.HashPassword(req.NewPassword)); err != nil {
		return notFound(err, "User not found")
	}
	return nil
}

// DeleteUser removes an account that owns no threads or replies. Likes the
// user cast are withdrawn in the same transaction.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx storage.Tx) error {
		if _, err := tx.GetUser(ctx, id); err != nil {
			return notFound(err, "User not found")
		}

		threads, replies, err := tx.CountUserContent(ctx, id)
		if err != nil {
			return internal(err)
		}
		if threads > 0 || replies > 0 {
			return apperr.Conflict("User still has threads or replies")
		}

		if err := tx.DeleteUser(ctx, id); err != nil {
			return notFound(err, "User not found")
		}
		return nil
	})
}
