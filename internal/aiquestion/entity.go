package aiquestion

import "strings"

type QuestionType string

const (
	QuestionTypeTechnical  QuestionType = "technical"
	QuestionTypeBehavioral QuestionType = "behavioral"
	QuestionTypeMixed      QuestionType = "mixed"
)

var AllQuestionTypes = []QuestionType{
	QuestionTypeTechnical,
	QuestionTypeBehavioral,
	QuestionTypeMixed,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CandidateProfile is the request body of the generation endpoint. Every
// field is optional.
type CandidateProfile struct {
	Role       string       `json:"role,omitempty"`
	Experience string       `json:"experience,omitempty"`
	Education  string       `json:"education,omitempty"`
	Type       QuestionType `json:"type,omitempty"`
}

// EffectiveType returns the requested type, or mixed when it is empty or
// not one of the known values.
func (p CandidateProfile) EffectiveType() QuestionType {
	t := QuestionType(strings.ToLower(strings.TrimSpace(string(p.Type))))
	if t.IsValid() {
		return t
	}
	return QuestionTypeMixed
}

type QuestionResponse struct {
	Questions []string `json:"questions"`
}

// GenerationResponse is the provider independent shape of a generation
// result. Provider clients convert their own response types into it.
type GenerationResponse struct {
	Candidates []Candidate `json:"candidates,omitempty"`
}

type Candidate struct {
	Content      CandidateContent `json:"content,omitempty"`
	FinishReason string           `json:"finishReason,omitempty"`
}

type ContentBlock struct {
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	Text string `json:"text,omitempty"`
}

// CandidateContent is the canonical content of a candidate: an ordered list
// of blocks. Provider clients map a single content object to one block.
type CandidateContent []ContentBlock

// Fragments returns every part text in order, across all blocks.
func (c CandidateContent) Fragments() []string {
	var out []string
	for _, block := range c {
		for _, part := range block.Parts {
			out = append(out, part.Text)
		}
	}
	return out
}
