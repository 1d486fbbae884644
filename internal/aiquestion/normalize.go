package aiquestion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoCandidates      = errors.New("generation response has no candidates")
	ErrNoQuestionsParsed = errors.New("no questions parsed from generated text")
)

// EmptyGenerationError means the first candidate carried no text.
type EmptyGenerationError struct {
	FinishReason string
}

func (e *EmptyGenerationError) Error() string {
	if e.FinishReason == "" {
		return "generation returned empty text"
	}
	return fmt.Sprintf("generation returned empty text (finish reason: %s)", e.FinishReason)
}

var (
	lineBreak     = regexp.MustCompile(`\r\n|\r|\n`)
	ordinalPrefix = regexp.MustCompile(`^\d+[).\s-]*`)
)

// NormalizeResponse turns the first candidate of resp into an ordered list of
// questions.
func NormalizeResponse(resp *GenerationResponse) ([]string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}
	candidate := resp.Candidates[0]

	text := CandidateText(candidate)
	if text == "" {
		return nil, &EmptyGenerationError{FinishReason: candidate.FinishReason}
	}

	questions := ParseQuestions(text)
	if len(questions) == 0 {
		return nil, ErrNoQuestionsParsed
	}
	return questions, nil
}

// CandidateText joins the candidate's fragments with newlines and trims the result.
func CandidateText(c Candidate) string {
	return strings.TrimSpace(strings.Join(c.Content.Fragments(), "\n"))
}

// ParseQuestions splits a numbered list into its items, dropping blank lines
// and the leading "1.", "2)" or "3 -" style markers.
func ParseQuestions(text string) []string {
	var out []string
	for _, line := range lineBreak.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(ordinalPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
