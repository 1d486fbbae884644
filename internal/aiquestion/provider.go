package aiquestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/saulo-duarte/interviewace-api/internal/config"
	"google.golang.org/genai"
)

const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// Generator sends a prompt to a text generation provider.
//
// Failures are returned as *GenerationError.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*GenerationResponse, error)
}

// GenerationError is a classified provider failure.
type GenerationError struct {
	// StatusCode is the HTTP status of the provider response, 0 when no
	// response was received.
	StatusCode int
	// Status is the provider's machine readable error status, e.g. RESOURCE_EXHAUSTED.
	Status string
	// Message is the provider's human readable error message, if any.
	Message string
	// RetryAfter is the suggested delay. Only set for rate limit failures.
	RetryAfter time.Duration
	Err        error
}

func (e *GenerationError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("generation failed with status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("generation failed: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("generation failed with status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("generation failed with status %d", e.StatusCode)
	}
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || strings.EqualFold(e.Status, statusResourceExhausted)
}

var retryInPattern = regexp.MustCompile(`(?i)retry in (\d+(?:\.\d+)?)s`)

// RetryDelay extracts the suggested delay from a Retry-After header value
// (seconds or HTTP date) or, failing that, from "retry in <n>s" inside the
// error message. It returns 0 when neither source yields a positive delay.
func RetryDelay(header, message string, now time.Time) time.Duration {
	if header = strings.TrimSpace(header); header != "" {
		if secs, err := strconv.ParseFloat(header, 64); err == nil {
			if secs > 0 {
				return time.Duration(secs * float64(time.Second))
			}
		} else if at, err := http.ParseTime(header); err == nil && at.After(now) {
			return at.Sub(now)
		}
	}

	if m := retryInPattern.FindStringSubmatch(message); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 0
}

type GeminiGenerator struct {
	client          *genai.Client
	model           string
	maxOutputTokens int32
}

func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &retryAfterTransport{base: http.DefaultTransport},
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:          client,
		model:           cfg.Model,
		maxOutputTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (*GenerationResponse, error) {
	hint := &retryHint{}
	ctx = context.WithValue(ctx, retryHintKey{}, hint)

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{MaxOutputTokens: g.maxOutputTokens},
	)
	if err != nil {
		return nil, classifyGenAIError(err, hint.get(), time.Now())
	}

	return fromGenAI(result), nil
}

func classifyGenAIError(err error, retryAfterHeader string, now time.Time) *GenerationError {
	ge := &GenerationError{Err: err}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		ge.StatusCode, ge.Status, ge.Message = apiErr.Code, apiErr.Status, apiErr.Message
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		ge.StatusCode, ge.Status, ge.Message = apiErrPtr.Code, apiErrPtr.Status, apiErrPtr.Message
	}

	if ge.RateLimited() {
		ge.RetryAfter = RetryDelay(retryAfterHeader, ge.Message, now)
	}
	return ge
}

func fromGenAI(resp *genai.GenerateContentResponse) *GenerationResponse {
	out := &GenerationResponse{}
	if resp == nil {
		return out
	}

	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		candidate := Candidate{FinishReason: string(c.FinishReason)}
		if c.Content != nil {
			var block ContentBlock
			for _, p := range c.Content.Parts {
				if p == nil {
					continue
				}
				block.Parts = append(block.Parts, Part{Text: p.Text})
			}
			candidate.Content = CandidateContent{block}
		}
		out.Candidates = append(out.Candidates, candidate)
	}
	return out
}

type retryHintKey struct{}

// retryHint carries the Retry-After header of a failed response from the
// transport back to the Generate call that issued the request. Whether it is
// used is decided by classifyGenAIError.
type retryHint struct {
	mu    sync.Mutex
	value string
}

func (h *retryHint) set(v string) {
	h.mu.Lock()
	h.value = v
	h.mu.Unlock()
}

func (h *retryHint) get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

type retryAfterTransport struct {
	base http.RoundTripper
}

func (t *retryAfterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	if hint, ok := req.Context().Value(retryHintKey{}).(*retryHint); ok {
		hint.set(resp.Header.Get("Retry-After"))
	}
	return resp, err
}
