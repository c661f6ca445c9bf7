package storage

import (
	"context"
	"errors"

	"github.com/derdine/forum-service/internal/types"
	"github.com/derdine/forum-service/internal/types/settings"
	"github.com/derdine/forum-service/internal/types/users"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced is returned when a foreign key rejects a write.
	ErrReferenced = errors.New("referenced row missing or still in use")
)

// Storage is the forum's persistence layer. Every Tx method is also
// available outside a transaction; WithTx runs fn atomically.
type Storage interface {
	Tx
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

type Tx interface {
	UserStore
	CategoryStore
	ThreadStore
	ReplyStore
	SettingsStore
	Reconcile(ctx context.Context) (types.ReconcileResult, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *users.User) error
	GetUser(ctx context.Context, id string) (*users.User, error)
	GetUserByEmail(ctx context.Context, email string) (*users.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	UsersByIDs(ctx context.Context, ids []string) (map[string]*users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	UpdateUser(ctx context.Context, u *users.User) error
	SetUserPassword(ctx context.Context, id, hash string) error
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
	// CountUserContent returns how many threads and replies the user authored.
	CountUserContent(ctx context.Context, id string) (threads int, replies int, err error)
	AdjustUserCounters(ctx context.Context, id string, threadDelta, replyDelta int) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *types.Category) error
	GetCategory(ctx context.Context, id string) (*types.Category, error)
	CategoriesByIDs(ctx context.Context, ids []string) (map[string]*types.Category, error)
	ListCategories(ctx context.Context) ([]types.Category, error)
	UpdateCategory(ctx context.Context, c *types.Category) error
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context) (int, error)
	AdjustCategoryThreads(ctx context.Context, id string, delta int) error
}

type ThreadStore interface {
	CreateThread(ctx context.Context, t *types.Thread) error
	GetThread(ctx context.Context, id string) (*types.Thread, error)
	ListThreads(ctx context.Context, f types.ThreadFilter, p types.Page) ([]types.Thread, int, error)
	UpdateThread(ctx context.Context, t *types.Thread) error
	// DeleteThread removes the thread together with its replies and likes.
	DeleteThread(ctx context.Context, id string) error
	CountThreads(ctx context.Context, f types.ThreadFilter) (int, error)
	IncrementThreadViews(ctx context.Context, id string) error
	AdjustThreadReplies(ctx context.Context, id string, delta int) error
	// ToggleThreadLike flips userID's membership in the thread's like set
	// and returns the membership and like count afterwards.
	ToggleThreadLike(ctx context.Context, id, userID string) (types.LikeResult, error)
}

type ReplyStore interface {
	CreateReply(ctx context.Context, r *types.Reply) error
	GetReply(ctx context.Context, id string) (*types.Reply, error)
	ListReplies(ctx context.Context, f types.ReplyFilter, p types.Page) ([]types.Reply, int, error)
	UpdateReply(ctx context.Context, r *types.Reply) error
	DeleteReply(ctx context.Context, id string) error
	// ReplyCountsByAuthor groups a thread's replies by author.
	ReplyCountsByAuthor(ctx context.Context, threadID string) (map[string]int, error)
	ToggleReplyLike(ctx context.Context, id, userID string) (types.LikeResult, error)
}

type SettingsStore interface {
	GetTheme(ctx context.Context) (*settings.Theme, error)
	SaveTheme(ctx context.Context, t *settings.Theme) error
	CountThemes(ctx context.Context) (int, error)
	GetLabels(ctx context.Context) (*settings.Labels, error)
	SaveLabels(ctx context.Context, l *settings.Labels) error
	CountLabels(ctx context.Context) (int, error)
	GetUIConfig(ctx context.Context, screen string) (*settings.UIConfig, error)
	ListUIConfigs(ctx context.Context) ([]settings.UIConfig, error)
	SaveUIConfig(ctx context.Context, c *settings.UIConfig) error
}
