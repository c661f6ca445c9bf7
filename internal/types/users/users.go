package users

import "time"

const (
	DefaultBadge = "Yeni Üye"
	AdminBadge   = "Admin"
)

type User struct {
	ID           string    `json:"_id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password"`
	AvatarURL    *string   `json:"avatarUrl" db:"avatar_url"`
	Badge        *string   `json:"badge" db:"badge"`
	IsOnline     bool      `json:"isOnline" db:"is_online"`
	ThreadCount  int       `json:"threadCount" db:"thread_count"`
	ReplyCount   int       `json:"replyCount" db:"reply_count"`
	Reputation   int       `json:"reputation" db:"reputation"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user carries the admin badge.
func (u *User) IsAdmin() bool {
	return u.Badge != nil && *u.Badge == AdminBadge
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Badge    string `json:"badge"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignOutRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// UpdateRequest lists the fields a profile update may touch. Email and
// password are deliberately absent: they are dropped on decode.
type UpdateRequest struct {
	Username   *string `json:"username" validate:"omitempty,min=1,max=50"`
	AvatarURL  *string `json:"avatarUrl"`
	Badge      *string `json:"badge"`
	IsOnline   *bool   `json:"isOnline"`
	Reputation *int    `json:"reputation"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type AvatarUploadRequest struct {
	ContentType string `json:"contentType" validate:"required"`
}

type AvatarConfirmRequest struct {
	ObjectKey string `json:"objectKey" validate:"required"`
}
