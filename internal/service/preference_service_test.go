package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
)

func TestPreferenceServiceThemeRoundTrip(t *testing.T) {
	cache := openTestRedis(t)
	svc := NewPreferenceService(cache, "system", validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	userID := uuid.NewString()

	initial, err := svc.GetTheme(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "system", initial.Theme)

	set, err := svc.SetTheme(context.Background(), userID, dto.ThemePreferenceRequest{Theme: "dark"})
	require.NoError(t, err)
	require.Equal(t, "dark", set.Theme)
	require.Equal(t, userID, set.UserID)

	stored, err := svc.GetTheme(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "dark", stored.Theme)
}

func TestPreferenceServiceRejectsUnknownTheme(t *testing.T) {
	cache := openTestRedis(t)
	svc := NewPreferenceService(cache, "system", validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.SetTheme(context.Background(), uuid.NewString(), dto.ThemePreferenceRequest{Theme: "neon"})
	require.Error(t, err)
}

func TestPreferenceServiceDefaultThemeFallback(t *testing.T) {
	svc := NewPreferenceService(nil, "", validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.GetTheme(context.Background(), uuid.NewString())
	require.NoError(t, err)
	require.Equal(t, "system", resp.Theme)
}
