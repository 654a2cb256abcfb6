package dto

// AssistantAskRequest is a student question for the study assistant.
type AssistantAskRequest struct {
	Question string `json:"question" validate:"required,min=3,max=2000"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// AssistantAnswerResponse is the assistant's reply.
type AssistantAnswerResponse struct {
	Answer string `json:"answer"`
	Model  string `json:"model"`
}

// ThemePreferenceRequest sets a user's UI theme.
type ThemePreferenceRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

// ThemePreferenceResponse reports a user's stored UI theme.
type ThemePreferenceResponse struct {
	UserID string `json:"user_id"`
	Theme  string `json:"theme"`
}
