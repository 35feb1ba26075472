package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// SettingsRepository provides access to per-user settings.
type SettingsRepository interface {
	// GetByUser loads settings for a user.
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error)
	// Upsert inserts or rewrites the settings row for its user.
	Upsert(ctx context.Context, s *model.UserSettings) error
}
