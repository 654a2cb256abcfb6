package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
	"github.com/pathlight-labs/pathlight-api/pkg/ai"
)

type stubTutor struct {
	result    ai.TutorResult
	err       error
	lastInput ai.TutorInput
}

func (s *stubTutor) Ask(_ context.Context, input ai.TutorInput) (ai.TutorResult, error) {
	s.lastInput = input
	return s.result, s.err
}

func TestAssistantServiceAttachesLessonContext(t *testing.T) {
	db := openTestDB(t)

	studentID := uuid.NewString()
	tenantID := uuid.NewString()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mathTopic := seedTopic(t, db, tenantID, "Mathematics", "Algebra Fundamentals", "Solve linear equations")
	scienceTopic := seedTopic(t, db, tenantID, "Science", "Renewable Energy", "Compare energy sources")
	seedLesson(t, db, studentID, tenantID, mathTopic, day, 35, models.LessonStatusScheduled, 0)
	seedLesson(t, db, studentID, tenantID, scienceTopic, day, 60, models.LessonStatusScheduled, 0)

	tutor := &stubTutor{result: ai.TutorResult{Answer: "Start with the variables.", Model: "gpt-4o-mini"}}
	svc := NewAssistantService(tutor, repository.NewLessonRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).(*assistantService)
	svc.now = func() time.Time { return day }

	resp, err := svc.Ask(context.Background(), studentID, dto.AssistantAskRequest{Question: "How do I solve for x?"})
	require.NoError(t, err)
	require.Equal(t, "Start with the variables.", resp.Answer)
	require.Equal(t, "gpt-4o-mini", resp.Model)

	require.Equal(t, "How do I solve for x?", tutor.lastInput.Question)
	require.ElementsMatch(t, []string{"Algebra Fundamentals", "Renewable Energy"}, tutor.lastInput.LessonTitles)
	require.ElementsMatch(t, []string{"Mathematics", "Science"}, tutor.lastInput.Subjects)
}

func TestAssistantServiceWithoutTutor(t *testing.T) {
	db := openTestDB(t)
	svc := NewAssistantService(nil, repository.NewLessonRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.Ask(context.Background(), uuid.NewString(), dto.AssistantAskRequest{Question: "hello there"})
	require.ErrorIs(t, err, ErrAssistantUnavailable)
}

func TestAssistantServicePropagatesTutorError(t *testing.T) {
	db := openTestDB(t)

	upstream := errors.New("upstream timeout")
	svc := NewAssistantService(&stubTutor{err: upstream}, repository.NewLessonRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.Ask(context.Background(), uuid.NewString(), dto.AssistantAskRequest{Question: "why is the sky blue?"})
	require.ErrorIs(t, err, upstream)
}

func TestAssistantServiceValidatesQuestion(t *testing.T) {
	db := openTestDB(t)
	svc := NewAssistantService(&stubTutor{}, repository.NewLessonRepository(db), validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.Ask(context.Background(), uuid.NewString(), dto.AssistantAskRequest{Question: "hi"})
	require.Error(t, err)
}
