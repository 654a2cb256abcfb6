package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

func newSeedService(db *gorm.DB, enabled bool, token string) SeedService {
	return NewSeedService(
		repository.NewSubjectRepository(db),
		repository.NewLessonRepository(db),
		enabled,
		token,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
	)
}

func TestSeedServiceCreatesDemoDay(t *testing.T) {
	db := openTestDB(t)
	svc := newSeedService(db, true, "seed-secret")

	tenantID := uuid.NewString()
	studentID := uuid.NewString()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	created, err := svc.SeedDemoDay(context.Background(), "seed-secret", tenantID, studentID, day)
	require.NoError(t, err)
	require.Equal(t, 6, created)

	var subjectCount int64
	require.NoError(t, db.Model(&models.Subject{}).Where("tenant_id = ?", tenantID).Count(&subjectCount).Error)
	require.EqualValues(t, 6, subjectCount)

	lessons, err := repository.NewLessonRepository(db).ListForDate(context.Background(), studentID, day)
	require.NoError(t, err)
	require.Len(t, lessons, 6)
	for _, lesson := range lessons {
		require.Equal(t, models.LessonStatusScheduled, lesson.Status)
		require.NotEmpty(t, lesson.SkillsTopic.Name)
		require.NotEmpty(t, lesson.SubjectName())
	}
}

func TestSeedServiceCurriculumIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := newSeedService(db, true, "seed-secret")

	tenantID := uuid.NewString()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := svc.SeedDemoDay(context.Background(), "seed-secret", tenantID, uuid.NewString(), day)
	require.NoError(t, err)

	// A second run updates the same curriculum rows instead of duplicating.
	_, err = svc.SeedDemoDay(context.Background(), "seed-secret", tenantID, uuid.NewString(), day)
	require.NoError(t, err)

	var subjectCount int64
	require.NoError(t, db.Model(&models.Subject{}).Where("tenant_id = ?", tenantID).Count(&subjectCount).Error)
	require.EqualValues(t, 6, subjectCount)

	var topicCount int64
	require.NoError(t, db.Model(&models.SkillsTopic{}).Count(&topicCount).Error)
	require.GreaterOrEqual(t, topicCount, int64(6))
}

func TestSeedServiceDisabled(t *testing.T) {
	db := openTestDB(t)
	svc := newSeedService(db, false, "seed-secret")

	_, err := svc.SeedDemoDay(context.Background(), "seed-secret", uuid.NewString(), uuid.NewString(), time.Now())
	require.ErrorIs(t, err, ErrSeedDisabled)
}

func TestSeedServiceRejectsBadToken(t *testing.T) {
	db := openTestDB(t)
	svc := newSeedService(db, true, "seed-secret")

	_, err := svc.SeedDemoDay(context.Background(), "wrong", uuid.NewString(), uuid.NewString(), time.Now())
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}

func TestSeedServiceRejectsEmptyConfiguredToken(t *testing.T) {
	db := openTestDB(t)
	svc := newSeedService(db, true, "")

	_, err := svc.SeedDemoDay(context.Background(), "", uuid.NewString(), uuid.NewString(), time.Now())
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}
