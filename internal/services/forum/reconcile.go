package forum

import (
	"context"
	"log/slog"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types"
)

// Reconcile recomputes every counter from the rows it summarises. It runs
// in one transaction so readers never see a half-repaired state.
func (s *Service) Reconcile(ctx context.Context) (types.ReconcileResult, error) {
	var res types.ReconcileResult
	err := s.store.WithTx(ctx, func(tx storage.Tx) error {
		var err error
		res, err = tx.Reconcile(ctx)
		return err
	})
	if err != nil {
		return types.ReconcileResult{}, internal(err)
	}

	if res.Total() > 0 {
		slog.Warn("Repaired drifted counters",
			slog.Int64("users", res.Users),
			slog.Int64("categories", res.Categories),
			slog.Int64("threads", res.Threads),
			slog.Int64("replies", res.Replies))
	}
	return res, nil
}
