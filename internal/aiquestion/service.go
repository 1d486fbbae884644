package aiquestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	MsgNotConfigured     = "AI key not configured"
	MsgGenerationFailed  = "Failed to generate AI questions"
	MsgNoCandidates      = "AI did not return any candidates."
	MsgNoQuestionsParsed = "Failed to parse questions from AI response."
)

var ErrNotConfigured = errors.New("AI API key not configured")

// Outcome is the HTTP-shaped result of one generation request. Exactly one of
// Questions or Message is set.
type Outcome struct {
	Status    int
	Questions []string
	Message   string
	Fallback  bool
}

type Service interface {
	Generate(ctx context.Context, profile CandidateProfile) Outcome
}

type service struct {
	generator Generator
	cooldown  Cooldown
	policy    Policy
}

// NewService builds the generation service. A nil generator means no API
// key was configured; every request then fails with MsgNotConfigured.
func NewService(generator Generator, cooldown Cooldown, policy Policy) Service {
	if cooldown == nil {
		cooldown = NewMemoryCooldown()
	}
	if policy == "" {
		policy = PolicyLenient
	}
	return &service{generator: generator, cooldown: cooldown, policy: policy}
}

func (s *service) Generate(ctx context.Context, profile CandidateProfile) Outcome {
	log := config.WithContext(ctx).WithField("policy", s.policy)
	log.WithFields(logrus.Fields{
		"role":       profile.Role,
		"experience": profile.Experience,
		"education":  profile.Education,
		"type":       profile.Type,
	}).Info("AI question generation requested")

	if s.generator == nil {
		log.Error("missing GEMINI_API_KEY")
		return failure(http.StatusInternalServerError, MsgNotConfigured)
	}

	if s.policy == PolicyLenient && s.cooldown.ShouldSkip(ctx) {
		log.Warn("skipping AI call due to active cooldown; serving fallback questions")
		return fallback()
	}

	resp, err := s.generator.Generate(ctx, BuildPrompt(profile))
	if err != nil {
		return s.callFailed(ctx, err)
	}

	questions, err := NormalizeResponse(resp)
	if err != nil {
		return s.parseFailed(ctx, err)
	}

	log.Infof("generated %d questions", len(questions))
	return Outcome{Status: http.StatusOK, Questions: questions}
}

func (s *service) callFailed(ctx context.Context, err error) Outcome {
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		genErr = &GenerationError{Err: err}
	}

	log := config.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
		"status_code": genErr.StatusCode,
		"status":      genErr.Status,
		"message":     genErr.Message,
	})

	if s.policy == PolicyLenient {
		if genErr.RateLimited() {
			s.cooldown.SetCooldown(ctx, genErr.RetryAfter)
			log.WithField("retry_after", effectiveDelay(genErr.RetryAfter).String()).Warn("AI provider rate limited; cooldown started")
		}
		log.Error("AI provider error, serving fallback questions")
		return fallback()
	}

	log.Error("AI provider error")
	status := genErr.StatusCode
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	message := genErr.Message
	if message == "" {
		message = MsgGenerationFailed
	}
	return failure(status, message)
}

func (s *service) parseFailed(ctx context.Context, err error) Outcome {
	log := config.WithContext(ctx).WithError(err)

	if s.policy == PolicyLenient {
		log.Error("unusable AI response, serving fallback questions")
		return fallback()
	}

	log.Error("unusable AI response")
	var emptyErr *EmptyGenerationError
	switch {
	case errors.Is(err, ErrNoCandidates):
		return failure(http.StatusBadGateway, MsgNoCandidates)
	case errors.As(err, &emptyErr):
		reason := emptyErr.FinishReason
		if reason == "" {
			reason = "UNKNOWN"
		}
		return failure(http.StatusBadGateway, fmt.Sprintf("AI returned an empty response (finish reason: %s).", reason))
	case errors.Is(err, ErrNoQuestionsParsed):
		return failure(http.StatusBadGateway, MsgNoQuestionsParsed)
	default:
		return failure(http.StatusInternalServerError, MsgGenerationFailed)
	}
}

func fallback() Outcome {
	return Outcome{Status: http.StatusOK, Questions: FallbackQuestions(), Fallback: true}
}

func failure(status int, message string) Outcome {
	return Outcome{Status: status, Message: message}
}
