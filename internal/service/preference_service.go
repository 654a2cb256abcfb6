package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
)

// PreferenceService stores lightweight per-user UI preferences in redis.
type PreferenceService interface {
	GetTheme(ctx context.Context, userID string) (dto.ThemePreferenceResponse, error)
	SetTheme(ctx context.Context, userID string, req dto.ThemePreferenceRequest) (dto.ThemePreferenceResponse, error)
}

type preferenceService struct {
	cache        *redis.Client
	defaultTheme string
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewPreferenceService creates the preference store.
func NewPreferenceService(cache *redis.Client, defaultTheme string, validate *validator.Validate, logger zerolog.Logger) PreferenceService {
	if defaultTheme == "" {
		defaultTheme = "system"
	}
	return &preferenceService{
		cache:        cache,
		defaultTheme: defaultTheme,
		validator:    validate,
		logger:       logger.With().Str("component", "preference_service").Logger(),
	}
}

func (s *preferenceService) GetTheme(ctx context.Context, userID string) (dto.ThemePreferenceResponse, error) {
	if err := s.validator.Var(userID, "required,uuid4"); err != nil {
		return dto.ThemePreferenceResponse{}, err
	}

	theme := s.defaultTheme
	if s.cache != nil {
		if stored, err := s.cache.Get(ctx, themeKey(userID)).Result(); err == nil && stored != "" {
			theme = stored
		} else if err != nil && err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read theme preference")
		}
	}

	return dto.ThemePreferenceResponse{UserID: userID, Theme: theme}, nil
}

func (s *preferenceService) SetTheme(ctx context.Context, userID string, req dto.ThemePreferenceRequest) (dto.ThemePreferenceResponse, error) {
	if err := s.validator.Var(userID, "required,uuid4"); err != nil {
		return dto.ThemePreferenceResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ThemePreferenceResponse{}, err
	}

	if s.cache != nil {
		// No expiry; a lost key falls back to the default theme.
		if err := s.cache.Set(ctx, themeKey(userID), req.Theme, 0).Err(); err != nil {
			return dto.ThemePreferenceResponse{}, err
		}
	}

	return dto.ThemePreferenceResponse{UserID: userID, Theme: req.Theme}, nil
}

func themeKey(userID string) string {
	return fmt.Sprintf("pref:theme:%s", userID)
}
