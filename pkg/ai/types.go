package ai

import "context"

// TutorInput carries a student question with optional lesson context.
type TutorInput struct {
	Question     string
	StudentName  string
	LessonTitles []string
	Subjects     []string
}

// TutorResult is the assistant's answer.
type TutorResult struct {
	Answer string                 `json:"answer"`
	Model  string                 `json:"model"`
	Raw    map[string]interface{} `json:"raw,omitempty"`
}

// Tutor describes an AI model able to answer study questions.
type Tutor interface {
	Ask(ctx context.Context, input TutorInput) (TutorResult, error)
}
