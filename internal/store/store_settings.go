package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nixenos/czytaj/internal/model"
)

// GetSettings returns the persisted settings, or the defaults when none were
// saved yet. A stored theme outside the known set is reported as corrupt state.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	var theme string
	var out Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT theme, show_images, show_excerpts FROM settings WHERE id = 1`,
	).Scan(&theme, &out.ShowImages, &out.ShowExcerpts)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, classify("load settings", err)
	}

	out.Theme = model.Theme(theme)
	if !out.Theme.Valid() {
		return Settings{}, corrupt("load settings", fmt.Errorf("stored theme %q is not valid", theme))
	}
	return out, nil
}

// PutSettings replaces the settings row as a whole.
func (s *Store) PutSettings(ctx context.Context, in Settings) error {
	if !in.Theme.Valid() {
		return fmt.Errorf("theme %q: %w", in.Theme, ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings(id, theme, show_images, show_excerpts, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme = excluded.theme,
			show_images = excluded.show_images,
			show_excerpts = excluded.show_excerpts,
			updated_at = excluded.updated_at
	`, string(in.Theme), in.ShowImages, in.ShowExcerpts, timeToDBString(time.Now()))
	if err != nil {
		return classify("save settings", err)
	}
	return nil
}
