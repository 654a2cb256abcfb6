package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

func intPointer(v int) *int {
	return &v
}

func stringPointer(v string) *string {
	return &v
}

func TestProgressServiceUpdateCreatesRow(t *testing.T) {
	db := openTestDB(t)
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tenantID := uuid.NewString()
	studentID := uuid.NewString()

	subject := models.Subject{TenantID: tenantID, Name: "Mathematics", Color: "#6366f1", IsActive: true}
	require.NoError(t, db.Create(&subject).Error)

	svc := NewProgressService(repository.NewProgressRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*progressService)
	svc.now = func() time.Time { return today }

	resp, err := svc.UpdateProgress(context.Background(), studentID, tenantID, subject.ID, dto.ProgressUpdateRequest{
		ProgressPercentage: intPointer(40),
		LessonsCompleted:   intPointer(2),
	})
	require.NoError(t, err)
	require.Equal(t, 40, resp.ProgressPercentage)
	require.Equal(t, 2, resp.LessonsCompleted)
	require.Equal(t, models.MasteryApproaches, resp.MasteryLevel)
	require.Equal(t, "2026-03-02", resp.LastActivityDate)
}

func TestProgressServiceUpdateMergesPartialFields(t *testing.T) {
	db := openTestDB(t)
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tenantID := uuid.NewString()
	studentID := uuid.NewString()

	subject := models.Subject{TenantID: tenantID, Name: "Science", IsActive: true}
	require.NoError(t, db.Create(&subject).Error)

	existing := models.StudentProgress{
		TenantID:              tenantID,
		StudentID:             studentID,
		SubjectID:             subject.ID,
		ProgressPercentage:    55,
		MasteryLevel:          models.MasteryMeets,
		StreakDays:            4,
		TotalTimeSpentMinutes: 320,
		LessonsCompleted:      9,
	}
	require.NoError(t, db.Create(&existing).Error)

	svc := NewProgressService(repository.NewProgressRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*progressService)
	svc.now = func() time.Time { return today }

	resp, err := svc.UpdateProgress(context.Background(), studentID, tenantID, subject.ID, dto.ProgressUpdateRequest{
		MasteryLevel: stringPointer(models.MasteryMasters),
	})
	require.NoError(t, err)
	require.Equal(t, models.MasteryMasters, resp.MasteryLevel)
	// Untouched fields survive a partial update.
	require.Equal(t, 55, resp.ProgressPercentage)
	require.Equal(t, 9, resp.LessonsCompleted)
	require.Equal(t, 320, resp.TotalTimeSpentMinutes)
}

func TestProgressServiceUpdateClampsValues(t *testing.T) {
	db := openTestDB(t)

	tenantID := uuid.NewString()
	subject := models.Subject{TenantID: tenantID, Name: "ELA", IsActive: true}
	require.NoError(t, db.Create(&subject).Error)

	svc := NewProgressService(repository.NewProgressRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.UpdateProgress(context.Background(), uuid.NewString(), tenantID, subject.ID, dto.ProgressUpdateRequest{
		ProgressPercentage:    intPointer(140),
		StreakDays:            intPointer(-3),
		TotalTimeSpentMinutes: intPointer(-10),
	})
	require.NoError(t, err)
	require.Equal(t, 100, resp.ProgressPercentage)
	require.Zero(t, resp.StreakDays)
	require.Zero(t, resp.TotalTimeSpentMinutes)
}

func TestProgressServiceUpdateRejectsUnknownMastery(t *testing.T) {
	db := openTestDB(t)
	svc := NewProgressService(repository.NewProgressRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.UpdateProgress(context.Background(), uuid.NewString(), uuid.NewString(), uuid.NewString(), dto.ProgressUpdateRequest{
		MasteryLevel: stringPointer("legendary"),
	})
	require.Error(t, err)
}

func TestProgressServiceListReturnsSubjectNames(t *testing.T) {
	db := openTestDB(t)

	tenantID := uuid.NewString()
	studentID := uuid.NewString()

	subject := models.Subject{TenantID: tenantID, Name: "Social Studies", Color: "#f59e0b", IsActive: true}
	require.NoError(t, db.Create(&subject).Error)

	progress := models.StudentProgress{
		TenantID:           tenantID,
		StudentID:          studentID,
		SubjectID:          subject.ID,
		ProgressPercentage: 25,
		MasteryLevel:       models.MasteryApproaches,
	}
	require.NoError(t, db.Create(&progress).Error)

	svc := NewProgressService(repository.NewProgressRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	rows, err := svc.ListProgress(context.Background(), studentID, tenantID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Social Studies", rows[0].SubjectName)
	require.Equal(t, "#f59e0b", rows[0].SubjectColor)
}
