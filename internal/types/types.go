package types

import (
	"time"

	"github.com/derdine/forum-service/internal/types/users"
)

type Category struct {
	ID          string    `json:"_id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Color       string    `json:"color" db:"color"`
	ThreadCount int       `json:"threadCount" db:"thread_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type Thread struct {
	ID         string    `json:"_id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	AuthorID   string    `json:"authorId" db:"author_id"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	ViewCount  int       `json:"viewCount" db:"view_count"`
	ReplyCount int       `json:"replyCount" db:"reply_count"`
	LikeCount  int       `json:"likeCount" db:"like_count"`
	Likes      []string  `json:"likes" db:"-"`
	IsPinned   bool      `json:"isPinned" db:"is_pinned"`
	IsLocked   bool      `json:"isLocked" db:"is_locked"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type Reply struct {
	ID        string    `json:"_id" db:"id"`
	ThreadID  string    `json:"threadId" db:"thread_id"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	LikeCount int       `json:"likeCount" db:"like_count"`
	Likes     []string  `json:"likes" db:"-"`
	IsEdited  bool      `json:"isEdited" db:"is_edited"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ThreadView is a thread as returned to clients: author and category are
// embedded and isLiked is computed for the viewer.
type ThreadView struct {
	Thread
	Author   *users.User `json:"author,omitempty"`
	Category *Category   `json:"category,omitempty"`
	IsLiked  bool        `json:"isLiked"`
}

type ReplyView struct {
	Reply
	Author  *users.User `json:"author,omitempty"`
	IsLiked bool        `json:"isLiked"`
}

// LikeResult is the post-toggle state of a like.
type LikeResult struct {
	LikeCount int  `json:"likeCount"`
	IsLiked   bool `json:"isLiked"`
}

type ThreadFilter struct {
	CategoryID string
	AuthorID   string
	PinnedOnly bool
}

type ReplyFilter struct {
	ThreadID string
	AuthorID string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is an offset window over a sorted listing.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps client-supplied paging values: page defaults to 1 and
// size to DefaultPageSize, capped at MaxPageSize.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pages returns the number of pages needed to hold total items.
func (p Page) Pages(total int) int {
	if p.Size <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}

type ThreadPostRequest struct {
	Title      string `json:"title" validate:"required,max=300"`
	Content    string `json:"content" validate:"required"`
	AuthorID   string `json:"author" validate:"required"`
	CategoryID string `json:"category" validate:"required"`
}

type ThreadUpdateRequest struct {
	Title      *string `json:"title" validate:"omitempty,min=1,max=300"`
	Content    *string `json:"content" validate:"omitempty,min=1"`
	CategoryID *string `json:"category" validate:"omitempty,min=1"`
	IsPinned   *bool   `json:"isPinned"`
	IsLocked   *bool   `json:"isLocked"`
}

type ReplyPostRequest struct {
	ThreadID string `json:"thread" validate:"required"`
	Content  string `json:"content" validate:"required"`
	AuthorID string `json:"author" validate:"required"`
}

type ReplyUpdateRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1"`
}

type LikeRequest struct {
	UserID string `json:"userId"`
}

type CategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

type SeedRequest struct {
	UserID string `json:"userId"`
}

// SeedResult reports document counts per resource after seeding.
type SeedResult struct {
	Theme      int `json:"theme"`
	Labels     int `json:"labels"`
	Categories int `json:"categories"`
	Users      int `json:"users"`
	Threads    int `json:"threads"`
}

// ReconcileResult reports how many rows had a drifted counter corrected.
type ReconcileResult struct {
	Users      int64 `json:"users"`
	Categories int64 `json:"categories"`
	Threads    int64 `json:"threads"`
	Replies    int64 `json:"replies"`
}

func (r ReconcileResult) Total() int64 {
	return r.Users + r.Categories + r.Threads + r.Replies
}
