package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/pathlight-labs/pathlight-api/internal/models"
	"github.com/pathlight-labs/pathlight-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads demo curriculum content and a sample lesson schedule.
type SeedService interface {
	SeedDemoDay(ctx context.Context, token, tenantID, studentID string, date time.Time) (int, error)
}

type seedService struct {
	subjects  repository.SubjectRepository
	lessons   repository.LessonRepository
	enabled   bool
	token     string
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(subjects repository.SubjectRepository, lessons repository.LessonRepository, enabled bool, token string, validate *validator.Validate, logger zerolog.Logger) SeedService {
	return &seedService{
		subjects:  subjects,
		lessons:   lessons,
		enabled:   enabled,
		token:     token,
		validator: validate,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

// SeedDemoDay writes the demo subjects, topics, and a full day of lessons for
// one student. It returns the number of lesson plans created.
func (s *seedService) SeedDemoDay(ctx context.Context, token, tenantID, studentID string, date time.Time) (int, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}
	if err := s.validator.Var(studentID, "required,uuid4"); err != nil {
		return 0, err
	}
	if err := s.validator.Var(tenantID, "required,uuid4"); err != nil {
		return 0, err
	}

	day := dateOnly(date)

	subjects, groups, topics := demoCurriculum(tenantID)
	if err := s.subjects.UpsertBatch(ctx, subjects); err != nil {
		return 0, err
	}
	if err := s.subjects.UpsertTopics(ctx, groups, topics); err != nil {
		return 0, err
	}

	plans := demoLessons(tenantID, studentID, day)
	created := 0
	for i := range plans {
		if err := s.lessons.Create(ctx, &plans[i]); err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info().Str("student_id", studentID).Int("lessons", created).Msg("demo day seeded")
	return created, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	provided := strings.TrimSpace(token)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}

// Stable identifiers keep repeated seeding idempotent for curriculum rows.
const (
	seedSubjectMath     = "0f4a2c1d-93b7-4a58-8f40-2f24cf5a9e11"
	seedSubjectEnglish  = "2b8e6d4f-17c5-4e0a-b3a9-6d815f30c722"
	seedSubjectScience  = "4d1c9e2a-5b86-43f7-9c04-8a3e71d6b933"
	seedSubjectSocial   = "6e3b7f58-d2a4-44c9-8e17-0b5c92f4ab44"
	seedSubjectPathways = "8a5d1b36-f049-4217-a6c8-3d7e50b19c55"
	seedSubjectArts     = "1c7f3a92-648e-4b05-b2d6-5f90e82a7d66"

	seedGroupAlgebra  = "3e9b5d17-2c84-4f6a-8b09-7a1d46e3cf77"
	seedGroupReading  = "5a1d7f39-4e06-4c82-9d2b-1c8f60a5be88"
	seedGroupEnergy   = "7c3f9b51-6028-4ea4-af4d-3ea082c7d099"
	seedGroupHistory  = "9e5b1d73-824a-4c06-b16f-50c2a4e9f100"
	seedGroupCareers  = "b07d3f95-a46c-4e28-938a-72e4c60b1211"
	seedGroupCreative = "d29f5b17-c68e-404a-a5ac-94062e8d3422"

	seedTopicAlgebra  = "f4b17d39-e801-4c6c-87ce-b6284a0f5533"
	seedTopicReading  = "16d39f5b-0a23-4e8e-99e0-d84a6c217644"
	seedTopicEnergy   = "38f5b17d-2c45-40a0-abf2-fa6c8e439755"
	seedTopicHistory  = "5a17d39f-4e67-4c22-8d04-1c8ea0659866"
	seedTopicCareers  = "7c39f5b1-6089-4e44-9f16-3ea0c2879977"
	seedTopicCreative = "9e5b17d3-82ab-4066-a128-50c2e4a9ba88"
)

func demoCurriculum(tenantID string) ([]models.Subject, []models.MasteryGroup, []models.SkillsTopic) {
	subjects := []models.Subject{
		{ID: seedSubjectMath, TenantID: tenantID, Name: "Mathematics", Code: "MATH", Color: "#3b82f6", Icon: "📐", IsActive: true},
		{ID: seedSubjectEnglish, TenantID: tenantID, Name: "English Language Arts", Code: "ELA", Color: "#8b5cf6", Icon: "📚", IsActive: true},
		{ID: seedSubjectScience, TenantID: tenantID, Name: "Science", Code: "SCI", Color: "#10b981", Icon: "🔬", IsActive: true},
		{ID: seedSubjectSocial, TenantID: tenantID, Name: "Social Studies", Code: "SOC", Color: "#f59e0b", Icon: "🌍", IsActive: true},
		{ID: seedSubjectPathways, TenantID: tenantID, Name: "Career Pathways", Code: "CAR", Color: "#ef4444", Icon: "🧭", IsActive: true},
		{ID: seedSubjectArts, TenantID: tenantID, Name: "Creative Arts", Code: "ART", Color: "#ec4899", Icon: "🎨", IsActive: true},
	}

	groups := []models.MasteryGroup{
		{ID: seedGroupAlgebra, SubjectID: seedSubjectMath, Name: "Algebraic Reasoning"},
		{ID: seedGroupReading, SubjectID: seedSubjectEnglish, Name: "Reading and Analysis"},
		{ID: seedGroupEnergy, SubjectID: seedSubjectScience, Name: "Energy and Systems"},
		{ID: seedGroupHistory, SubjectID: seedSubjectSocial, Name: "Historical Thinking"},
		{ID: seedGroupCareers, SubjectID: seedSubjectPathways, Name: "Future Planning"},
		{ID: seedGroupCreative, SubjectID: seedSubjectArts, Name: "Design and Expression"},
	}

	topics := []models.SkillsTopic{
		{
			ID: seedTopicAlgebra, MasteryGroupID: seedGroupAlgebra, Name: "Algebra Fundamentals",
			Description:        "Solving linear equations and working with variables",
			LearningObjectives: objectiveList("Solve one-step equations", "Solve two-step equations", "Graph linear relationships"),
			DifficultyLevel:    2, EstimatedDurationMinutes: 35,
		},
		{
			ID: seedTopicReading, MasteryGroupID: seedGroupReading, Name: "Reading Comprehension",
			Description:        "Analyzing texts for main ideas and supporting evidence",
			LearningObjectives: objectiveList("Identify the main idea", "Cite supporting evidence", "Summarize a passage"),
			DifficultyLevel:    2, EstimatedDurationMinutes: 40,
		},
		{
			ID: seedTopicEnergy, MasteryGroupID: seedGroupEnergy, Name: "Renewable Energy",
			Description:        "Exploring solar, wind, and other renewable power sources",
			LearningObjectives: objectiveList("Compare renewable and fossil fuels", "Design a solar collector", "Present findings visually"),
			DifficultyLevel:    3, EstimatedDurationMinutes: 60,
		},
		{
			ID: seedTopicHistory, MasteryGroupID: seedGroupHistory, Name: "Historical Perspectives",
			Description:        "Evaluating primary sources from multiple viewpoints",
			LearningObjectives: objectiveList("Distinguish primary and secondary sources", "Compare historical accounts", "Write an evidence-based argument"),
			DifficultyLevel:    3, EstimatedDurationMinutes: 55,
		},
		{
			ID: seedTopicCareers, MasteryGroupID: seedGroupCareers, Name: "Career Exploration",
			Description:        "Investigating career fields and the skills they require",
			LearningObjectives: objectiveList("Research a career field", "Map required skills", "Plan next learning steps"),
			DifficultyLevel:    1, EstimatedDurationMinutes: 50,
		},
		{
			ID: seedTopicCreative, MasteryGroupID: seedGroupCreative, Name: "Creative Thinking",
			Description:        "Generating and refining original ideas through design",
			LearningObjectives: objectiveList("Brainstorm without judging", "Prototype an idea", "Create a poster presentation"),
			DifficultyLevel:    1, EstimatedDurationMinutes: 45,
		},
	}

	return subjects, groups, topics
}

func demoLessons(tenantID, studentID string, day time.Time) []models.LessonPlan {
	build := func(topicID, lessonType string, minutes int, content map[string]interface{}) models.LessonPlan {
		return models.LessonPlan{
			TenantID:                 tenantID,
			StudentID:                studentID,
			SkillsTopicID:            topicID,
			LessonType:               lessonType,
			Content:                  content,
			EstimatedDurationMinutes: minutes,
			ScheduledDate:            day,
			Status:                   models.LessonStatusScheduled,
		}
	}

	return []models.LessonPlan{
		build(seedTopicAlgebra, models.LessonTypeReinforcement, 35, map[string]interface{}{
			"format": "practice_set", "activities": []string{"warm-up", "guided practice", "exit ticket"},
		}),
		build(seedTopicReading, models.LessonTypeReinforcement, 40, map[string]interface{}{
			"format": "guided_reading", "text": "The Power of Perseverance",
		}),
		build(seedTopicEnergy, models.LessonTypePathway, 60, map[string]interface{}{
			"format": "project", "deliverable": "solar collector design presentation",
		}),
		build(seedTopicHistory, models.LessonTypePathway, 55, map[string]interface{}{
			"format": "source_analysis", "deliverable": "evidence-based essay outline",
		}),
		build(seedTopicCareers, models.LessonTypeFuturePathway, 50, map[string]interface{}{
			"format": "exploration", "deliverable": "career research summary",
		}),
		build(seedTopicCreative, models.LessonTypeFuturePathway, 45, map[string]interface{}{
			"format": "design_sprint", "deliverable": "creative poster",
		}),
	}
}

func objectiveList(objectives ...string) datatypes.JSON {
	raw, err := json.Marshal(objectives)
	if err != nil {
		return nil
	}
	return raw
}
