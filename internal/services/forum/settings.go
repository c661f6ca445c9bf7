package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types/settings"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

// SettingsService is the configuration store behind the theme, labels and
// per-screen UI config documents. Every read goes through getOrDefault: a
// missing document is created from its default and returned.
type SettingsService struct {
	store    storage.SettingsStore
	validate *validator.Validate
	now      func() time.Time
}

// NewSettingsService creates the store. A nil clock uses UTC wall time.
func NewSettingsService(store storage.SettingsStore, now func() time.Time) *SettingsService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &SettingsService{
		store:    store,
		validate: validator.New(),
		now:      now,
	}
}

// Theme returns the theme, creating the default one if none exists.
func (s *SettingsService) Theme(ctx context.Context) (*settings.Theme, error) {
	t, err := s.store.GetTheme(ctx)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, internal(err)
	}

	def := settings.DefaultTheme()
	def.UpdatedAt = s.now()
	if err := s.store.SaveTheme(ctx, &def); err != nil {
		return nil, internal(err)
	}
	return &def, nil
}

// UpdateTheme merges the provided fields over the current theme. Every
// color must remain a valid hex color.
func (s *SettingsService) UpdateTheme(ctx context.Context, patch json.RawMessage) (*settings.Theme, error) {
	t, err := s.Theme(ctx)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(patch, t); err != nil {
		return nil, apperr.BadRequest("Invalid theme payload")
	}
	if err := s.validate.Struct(t); err != nil {
		return nil, &apperr.Error{Kind: apperr.KindBadRequest, Message: "Validation failed", Err: err}
	}

	t.UpdatedAt = s.now()
	if err := s.store.SaveTheme(ctx, t); err != nil {
		return nil, internal(err)
	}
	return t, nil
}

// Labels returns the labels document, creating the defaults if absent.
func (s *SettingsService) Labels(ctx context.Context) (*settings.Labels, error) {
	l, err := s.store.GetLabels(ctx)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, internal(err)
	}

	def := settings.DefaultLabels()
	def.UpdatedAt = s.now()
	if err := s.store.SaveLabels(ctx, &def); err != nil {
		return nil, internal(err)
	}
	return &def, nil
}

// LabelSection returns one named section.
func (s *SettingsService) LabelSection(ctx context.Context, screen string) (settings.Section, error) {
	if !settings.IsSection(screen) {
		return nil, apperr.NotFound(fmt.Sprintf("Labels for screen '%s' not found", screen))
	}

	l, err := s.Labels(ctx)
	if err != nil {
		return nil, err
	}
	section, _ := l.Section(screen)
	return section, nil
}

// UpdateLabels replaces every section present in patch. Sections not named
// in patch are kept; unknown keys are ignored.
func (s *SettingsService) UpdateLabels(ctx context.Context, patch json.RawMessage) (*settings.Labels, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return nil, apperr.BadRequest("Invalid labels payload")
	}

	l, err := s.Labels(ctx)
	if err != nil {
		return nil, err
	}

	for name, raw := range fields {
		if !settings.IsSection(name) {
			continue
		}
		var section settings.Section
		if err := json.Unmarshal(raw, &section); err != nil {
			return nil, apperr.BadRequest(fmt.Sprintf("Labels section '%s' must be an object of strings", name))
		}
		l.ReplaceSection(name, section)
	}

	l.UpdatedAt = s.now()
	if err := s.store.SaveLabels(ctx, l); err != nil {
		return nil, internal(err)
	}
	return l, nil
}

// UpdateLabelSection replaces the named section with section plus an
// updatedAt entry. Keys absent from section are dropped, not merged.
func (s *SettingsService) UpdateLabelSection(ctx context.Context, screen string, section settings.Section) (*settings.Labels, error) {
	if !settings.IsSection(screen) {
		return nil, apperr.BadRequest(fmt.Sprintf("Unknown labels screen '%s'", screen))
	}

	l, err := s.Labels(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	replaced := make(settings.Section, len(section)+1)
	for k, v := range section {
		replaced[k] = v
	}
	replaced["updatedAt"] = now.Format(time.RFC3339)

	l.ReplaceSection(screen, replaced)
	l.UpdatedAt = now
	if err := s.store.SaveLabels(ctx, l); err != nil {
		return nil, internal(err)
	}
	return l, nil
}

// UIConfig returns the config for screen, creating an empty one if absent.
func (s *SettingsService) UIConfig(ctx context.Context, screen string) (*settings.UIConfig, error) {
	c, err := s.store.GetUIConfig(ctx, screen)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, internal(err)
	}

	c = &settings.UIConfig{Screen: screen, Config: json.RawMessage(`{}`), UpdatedAt: s.now()}
	if err := s.store.SaveUIConfig(ctx, c); err != nil {
		return nil, internal(err)
	}
	return c, nil
}

func (s *SettingsService) UIConfigs(ctx context.Context) ([]settings.UIConfig, error) {
	list, err := s.store.ListUIConfigs(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

// SaveUIConfig upserts the config for req.Screen.
func (s *SettingsService) SaveUIConfig(ctx context.Context, req settings.UIConfigRequest) (*settings.UIConfig, error) {
	if err := s.validate.Struct(req); err != nil || isNullJSON(req.Config) {
		return nil, apperr.BadRequest("Please provide screen and config")
	}

	c := &settings.UIConfig{Screen: req.Screen, Config: req.Config, UpdatedAt: s.now()}
	if err := s.store.SaveUIConfig(ctx, c); err != nil {
		return nil, internal(err)
	}
	return c, nil
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
