package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

func lessonWithTopic(name, description string) models.LessonPlan {
	return models.LessonPlan{
		LessonType: models.LessonTypeReinforcement,
		SkillsTopic: models.SkillsTopic{
			Name:        name,
			Description: description,
		},
	}
}

func TestKeywordMatcherNoLessons(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	matched := matcher.Match(Default(), nil)
	require.NotNil(t, matched)
	require.Empty(t, matched)

	matched = matcher.Match(Default(), []models.LessonPlan{})
	require.Empty(t, matched)
}

func TestKeywordMatcherFallsBackToDefaultTool(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	lessons := []models.LessonPlan{
		lessonWithTopic("Long Division", "Divide multi digit numbers"),
	}

	matched := matcher.Match(Default(), lessons)
	require.Len(t, matched, 1)
	require.Equal(t, "design", matched[0].ID)
}

func TestKeywordMatcherCaseInsensitive(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	lessons := []models.LessonPlan{
		lessonWithTopic("Public Speaking", "Prepare a PRESENTATION for the class"),
	}

	matched := matcher.Match(Default(), lessons)
	require.Len(t, matched, 1)
	require.Equal(t, "design", matched[0].ID)
}

func TestKeywordMatcherPreservesCatalogOrder(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	// Keywords hit the catalog entries in reverse declaration order; the
	// output must still follow the catalog, not the corpus.
	lessons := []models.LessonPlan{
		lessonWithTopic("Community Debate", "Join the discussion forum"),
		lessonWithTopic("Broadcast Club", "Run a live stream session"),
		lessonWithTopic("Poster Workshop", "Design a poster for the fair"),
	}

	matched := matcher.Match(Default(), lessons)
	require.Len(t, matched, 3)
	require.Equal(t, "design", matched[0].ID)
	require.Equal(t, "stream", matched[1].ID)
	require.Equal(t, "meet", matched[2].ID)
}

func TestKeywordMatcherMatchesToolAtMostOnce(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	lessons := []models.LessonPlan{
		lessonWithTopic("Group Project", "Collaborate with your peers"),
		lessonWithTopic("Team Milestones", "Plan the week with your team"),
	}

	matched := matcher.Match(Default(), lessons)
	require.Len(t, matched, 1)
	require.Equal(t, "collab", matched[0].ID)
}

func TestKeywordMatcherMatchesInsideWords(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	// Matching is plain substring, so "art" inside "Charter" surfaces the
	// design studio alongside the collab tool. Recall over precision.
	lessons := []models.LessonPlan{
		lessonWithTopic("Team Charter", "Collaborate on the rules"),
	}

	matched := matcher.Match(Default(), lessons)
	require.Len(t, matched, 2)
	require.Equal(t, "design", matched[0].ID)
	require.Equal(t, "collab", matched[1].ID)
}

func TestKeywordMatcherSearchesLessonContent(t *testing.T) {
	matcher := NewKeywordMatcher(nil)

	lesson := lessonWithTopic("Energy Audit", "Measure household usage")
	lesson.Content = datatypes.JSONMap{
		"deliverable": "record a webinar walkthrough",
	}

	matched := matcher.Match(Default(), []models.LessonPlan{lesson})
	require.Len(t, matched, 1)
	require.Equal(t, "stream", matched[0].ID)
}

func TestConcatNormalizerIncludesObjectivesAndSubject(t *testing.T) {
	lesson := models.LessonPlan{
		LessonType: models.LessonTypePathway,
		SkillsTopic: models.SkillsTopic{
			Name:               "Renewable Energy",
			Description:        "Compare energy sources",
			LearningObjectives: datatypes.JSON([]byte(`["Present findings as an infographic"]`)),
			MasteryGroup: models.MasteryGroup{
				Subject: models.Subject{Name: "Science"},
			},
		},
	}

	corpus := ConcatNormalizer{}.Corpus([]models.LessonPlan{lesson})
	require.Contains(t, corpus, "infographic")
	require.Contains(t, corpus, "science")
	require.Contains(t, corpus, "pathway")
}
