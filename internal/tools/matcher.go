package tools

import (
	"encoding/json"
	"strings"

	"github.com/pathlight-labs/pathlight-api/internal/models"
)

// Normalizer turns a day's lessons into a single searchable corpus. It is a
// separate strategy so the coarse substring corpus below can be replaced with
// proper tokenization without touching any caller.
type Normalizer interface {
	Corpus(lessons []models.LessonPlan) string
}

// Matcher selects the tools considered required for a day's lessons.
type Matcher interface {
	Match(catalog *Catalog, lessons []models.LessonPlan) []Descriptor
}

// ConcatNormalizer lower-cases and space-joins the topic name, description,
// objectives, lesson kind, serialized content, and subject name of every
// lesson. It deliberately matches inside serialized content tokens; recall is
// preferred over precision here.
type ConcatNormalizer struct{}

// Corpus implements Normalizer.
func (ConcatNormalizer) Corpus(lessons []models.LessonPlan) string {
	parts := make([]string, 0, len(lessons))
	for _, lesson := range lessons {
		content := ""
		if len(lesson.Content) > 0 {
			if raw, err := json.Marshal(lesson.Content); err == nil {
				content = string(raw)
			}
		}

		fields := []string{
			lesson.SkillsTopic.Name,
			lesson.SkillsTopic.Description,
			strings.Join(lesson.SkillsTopic.Objectives(), " "),
			lesson.LessonType,
			content,
			lesson.SubjectName(),
		}
		parts = append(parts, strings.ToLower(strings.Join(fields, " ")))
	}

	return strings.Join(parts, " ")
}

// KeywordMatcher qualifies a tool when any of its keywords appears as a
// case-insensitive substring of the corpus. Output preserves catalog order;
// there is no ranking step.
type KeywordMatcher struct {
	normalizer Normalizer
}

// NewKeywordMatcher builds the default matcher strategy.
func NewKeywordMatcher(normalizer Normalizer) *KeywordMatcher {
	if normalizer == nil {
		normalizer = ConcatNormalizer{}
	}
	return &KeywordMatcher{normalizer: normalizer}
}

// Match implements Matcher. With lessons present but no keyword hit, the
// catalog's default tool is returned alone so students never see an empty
// tool list on a school day. No lessons means no tools, without fallback.
func (m *KeywordMatcher) Match(catalog *Catalog, lessons []models.LessonPlan) []Descriptor {
	if len(lessons) == 0 {
		return []Descriptor{}
	}

	corpus := m.normalizer.Corpus(lessons)

	matched := make([]Descriptor, 0, len(catalog.tools))
	for _, tool := range catalog.Tools() {
		for _, keyword := range tool.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(corpus, strings.ToLower(keyword)) {
				matched = append(matched, tool)
				break
			}
		}
	}

	if len(matched) == 0 {
		if fallback, ok := catalog.DefaultTool(); ok {
			return []Descriptor{fallback}
		}
	}

	return matched
}
