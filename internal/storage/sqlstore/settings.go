package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/derdine/forum-service/internal/types/settings"
)

// Theme and labels are single documents stored as JSON in one-row tables.

func (s *Store) getDocument(ctx context.Context, table string, dest interface{}) error {
	var data string
	if err := s.get(ctx, &data, `SELECT data FROM `+table+` WHERE id = 1`); err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *Store) saveDocument(ctx context.Context, table string, doc interface{}, updatedAt time.Time) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}

	query := `INSERT INTO ` + table + ` (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	_, err = s.exec(ctx, query, string(data), updatedAt)
	return err
}

func (s *Store) GetTheme(ctx context.Context) (*settings.Theme, error) {
	var t settings.Theme
	if err := s.getDocument(ctx, "theme", &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SaveTheme(ctx context.Context, t *settings.Theme) error {
	return s.saveDocument(ctx, "theme", t, t.UpdatedAt)
}

func (s *Store) CountThemes(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM theme`)
}

func (s *Store) GetLabels(ctx context.Context) (*settings.Labels, error) {
	var l settings.Labels
	if err := s.getDocument(ctx, "labels", &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) SaveLabels(ctx context.Context, l *settings.Labels) error {
	return s.saveDocument(ctx, "labels", l, l.UpdatedAt)
}

func (s *Store) CountLabels(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM labels`)
}

type uiConfigRow struct {
	Screen    string    `db:"screen"`
	Config    string    `db:"config"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r uiConfigRow) toUIConfig() settings.UIConfig {
	return settings.UIConfig{
		Screen:    r.Screen,
		Config:    json.RawMessage(r.Config),
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *Store) GetUIConfig(ctx context.Context, screen string) (*settings.UIConfig, error) {
	var row uiConfigRow
	query := `SELECT screen, config, updated_at FROM ui_configs WHERE screen = ?`
	if err := s.get(ctx, &row, query, screen); err != nil {
		return nil, err
	}
	c := row.toUIConfig()
	return &c, nil
}

func (s *Store) ListUIConfigs(ctx context.Context) ([]settings.UIConfig, error) {
	var rows []uiConfigRow
	query := `SELECT screen, config, updated_at FROM ui_configs ORDER BY screen ASC`
	if err := s.selectAll(ctx, &rows, query); err != nil {
		return nil, err
	}

	out := make([]settings.UIConfig, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toUIConfig())
	}
	return out, nil
}

func (s *Store) SaveUIConfig(ctx context.Context, c *settings.UIConfig) error {
	query := `INSERT INTO ui_configs (screen, config, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (screen) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at`
	_, err := s.exec(ctx, query, c.Screen, string(c.Config), c.UpdatedAt)
	return err
}
