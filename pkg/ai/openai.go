package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	tutorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pathlight",
		Subsystem: "assistant",
		Name:      "request_duration_seconds",
		Help:      "Duration of study assistant requests",
	}, []string{"model"})

	tutorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pathlight",
		Subsystem: "assistant",
		Name:      "request_failures_total",
		Help:      "Number of study assistant failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI tutor.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAITutor implements Tutor against the OpenAI chat completion API.
type OpenAITutor struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAITutor builds a new tutor using the provided configuration.
func NewOpenAITutor(cfg OpenAIConfig) (*OpenAITutor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	tracer := otel.Tracer("github.com/pathlight-labs/pathlight-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAITutor{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Ask sends the question to OpenAI and returns the answer text.
func (t *OpenAITutor) Ask(parent context.Context, input TutorInput) (TutorResult, error) {
	ctx, span := t.tracer.Start(parent, "openai.ask", trace.WithAttributes(
		attribute.String("model", t.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       t.cfg.Model,
		MaxTokens:   t.cfg.MaxTokens,
		Temperature: t.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: tutorSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildTutorPrompt(input),
			},
		},
	}

	resp, err := t.client.CreateChatCompletion(ctx, request)
	duration := time.Since(start)
	tutorDuration.WithLabelValues(t.cfg.Model).Observe(duration.Seconds())
	if err != nil {
		tutorFailures.WithLabelValues(t.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TutorResult{}, fmt.Errorf("openai ask: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		tutorFailures.WithLabelValues(t.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TutorResult{}, err
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		err := fmt.Errorf("empty answer returned from openai")
		tutorFailures.WithLabelValues(t.cfg.Model).Inc()
		span.RecordError(err)
		return TutorResult{}, err
	}

	return TutorResult{
		Answer: answer,
		Model:  resp.Model,
		Raw: map[string]interface{}{
			"usage": resp.Usage,
		},
	}, nil
}

func tutorSystemPrompt() string {
	return "You are a friendly study assistant for school students. Explain concepts simply, encourage the student, and keep " +
		"answers under 300 words. Never give direct answers to graded assessments; guide the student to work them out."
}

func buildTutorPrompt(input TutorInput) string {
	builder := strings.Builder{}
	if input.StudentName != "" {
		builder.WriteString("Student: ")
		builder.WriteString(input.StudentName)
		builder.WriteString("\n")
	}
	if len(input.Subjects) > 0 {
		builder.WriteString("Current subjects: ")
		builder.WriteString(strings.Join(input.Subjects, ", "))
		builder.WriteString("\n")
	}
	if len(input.LessonTitles) > 0 {
		builder.WriteString("Today's lessons: ")
		builder.WriteString(strings.Join(input.LessonTitles, "; "))
		builder.WriteString("\n")
	}
	builder.WriteString("\nQuestion:\n")
	builder.WriteString(input.Question)
	return builder.String()
}
