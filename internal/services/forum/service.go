package forum

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/derdine/forum-service/internal/events"
	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/utils/apperr"
	"github.com/derdine/forum-service/internal/utils/password"
)

// Service implements the forum's user, category, thread and reply
// operations, keeping the denormalised counters in step with every write.
type Service struct {
	store     storage.Storage
	hasher    *password.Hasher
	publisher events.Publisher
	jwtSecret string
	validate  *validator.Validate
	now       func() time.Time
}

type Option func(*Service)

// WithPublisher sets where realtime events go. Events are discarded by default.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store storage.Storage, hasher *password.Hasher, jwtSecret string, opts ...Option) *Service {
	s := &Service{
		store:     store,
		hasher:    hasher,
		publisher: events.NopPublisher{},
		jwtSecret: jwtSecret,
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// notFound converts storage.ErrNotFound into a NotFound error with msg and
// wraps any other failure as Internal.
func notFound(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return internal(err)
}

// internal passes classified errors through and wraps the rest.
func internal(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Internal(err)
}

// check validates a request payload. Failures are BadRequest errors that
// still unwrap to validator.ValidationErrors.
func (s *Service) check(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		return &apperr.Error{Kind: apperr.KindBadRequest, Message: "Validation failed", Err: err}
	}
	return nil
}
