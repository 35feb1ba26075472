package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// SettingsRepo implements SettingsRepository using PostgreSQL.
type SettingsRepo struct{ db *DB }

// NewSettingsRepo constructs a settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo { return &SettingsRepo{db: db} }

// GetByUser selects settings for a user.
func (r *SettingsRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	const q = `
SELECT id, user_id, theme, language, updated_at
FROM user_settings WHERE user_id=$1`
	row := r.db.Pool.QueryRow(ctx, q, userID)
	var s model.UserSettings
	if err := row.Scan(&s.ID, &s.UserID, &s.Theme, &s.Language, &s.UpdatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &s, nil
}

// Upsert inserts or rewrites the settings row keyed by user.
func (r *SettingsRepo) Upsert(ctx context.Context, s *model.UserSettings) error {
	const q = `
INSERT INTO user_settings (id, user_id, theme, language, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (user_id)
DO UPDATE SET theme=EXCLUDED.theme, language=EXCLUDED.language, updated_at=now()`
	_, err := r.db.Pool.Exec(ctx, q, s.ID, s.UserID, s.Theme, s.Language)
	return err
}
