package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
	"github.com/avtokontrol/avtokontrol/internal/repository"
)

// Default preference values for a fresh account.
const (
	DefaultTheme    = "system"
	DefaultLanguage = "ru"
)

// SettingsService defines per-user preference operations.
type SettingsService interface {
	// Get returns the user's settings, creating defaults on first read.
	Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error)
	// Update rewrites theme and language.
	Update(ctx context.Context, userID uuid.UUID, theme, language string) (*model.UserSettings, error)
}

type SettingsServiceImpl struct {
	repo repository.SettingsRepository
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(repo repository.SettingsRepository) *SettingsServiceImpl {
	return &SettingsServiceImpl{repo: repo}
}

// Get returns settings for the user, falling back to freshly persisted defaults.
func (s *SettingsServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*model.UserSettings, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	st, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	return s.persist(ctx, userID, DefaultTheme, DefaultLanguage)
}

// Update validates and rewrites the user's preferences.
func (s *SettingsServiceImpl) Update(ctx context.Context, userID uuid.UUID, theme, language string) (*model.UserSettings, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty userID", errs.ErrValidation)
	}
	switch theme {
	case "light", "dark", "system":
	default:
		return nil, fmt.Errorf("%w: unknown theme %q", errs.ErrValidation, theme)
	}
	if language == "" {
		return nil, fmt.Errorf("%w: empty language", errs.ErrValidation)
	}
	return s.persist(ctx, userID, theme, language)
}

func (s *SettingsServiceImpl) persist(ctx context.Context, userID uuid.UUID, theme, language string) (*model.UserSettings, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	st := &model.UserSettings{ID: id, UserID: userID, Theme: theme, Language: language}
	if err := s.repo.Upsert(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
