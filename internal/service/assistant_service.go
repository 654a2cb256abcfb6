package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pathlight-labs/pathlight-api/internal/dto"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
	"github.com/pathlight-labs/pathlight-api/pkg/ai"
)

// ErrAssistantUnavailable indicates no tutor backend is configured.
var ErrAssistantUnavailable = errors.New("study assistant is not configured")

// AssistantService answers student questions with lesson context attached.
type AssistantService interface {
	Ask(ctx context.Context, studentID string, req dto.AssistantAskRequest) (dto.AssistantAnswerResponse, error)
}

type assistantService struct {
	tutor     ai.Tutor
	lessons   repository.LessonRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssistantService creates the study assistant. tutor may be nil when the
// feature is disabled.
func NewAssistantService(tutor ai.Tutor, lessons repository.LessonRepository, validate *validator.Validate, logger zerolog.Logger) AssistantService {
	return &assistantService{
		tutor:     tutor,
		lessons:   lessons,
		validator: validate,
		logger:    logger.With().Str("component", "assistant_service").Logger(),
		now:       time.Now,
	}
}

func (s *assistantService) Ask(ctx context.Context, studentID string, req dto.AssistantAskRequest) (dto.AssistantAnswerResponse, error) {
	if s.tutor == nil {
		return dto.AssistantAnswerResponse{}, ErrAssistantUnavailable
	}
	if err := s.validator.Var(studentID, "required,uuid4"); err != nil {
		return dto.AssistantAnswerResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AssistantAnswerResponse{}, err
	}

	day, err := resolveDate(s.now(), req.Date)
	if err != nil {
		return dto.AssistantAnswerResponse{}, err
	}

	input := ai.TutorInput{Question: req.Question}

	// Lesson context is best effort; the assistant still answers when the
	// schedule cannot be read.
	lessons, err := s.lessons.ListForDate(ctx, studentID, day)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", studentID).Msg("failed to load lesson context for assistant")
	} else {
		subjects := make(map[string]struct{})
		for _, lesson := range lessons {
			input.LessonTitles = append(input.LessonTitles, lesson.SkillsTopic.Name)
			if name := lesson.SubjectName(); name != "" {
				if _, seen := subjects[name]; !seen {
					subjects[name] = struct{}{}
					input.Subjects = append(input.Subjects, name)
				}
			}
		}
	}

	result, err := s.tutor.Ask(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", studentID).Msg("assistant request failed")
		return dto.AssistantAnswerResponse{}, err
	}

	return dto.AssistantAnswerResponse{
		Answer: result.Answer,
		Model:  result.Model,
	}, nil
}
