package aiquestion

import (
	"fmt"
	"strings"
)

const (
	questionCount      = 20
	defaultProfileText = "General software engineer"
)

// BuildProfileText joins the populated profile fields as "Role: X; Experience: Y; Education: Z",
// always in that order.
func BuildProfileText(p CandidateProfile) string {
	var parts []string
	if role := strings.TrimSpace(p.Role); role != "" {
		parts = append(parts, "Role: "+role)
	}
	if exp := strings.TrimSpace(p.Experience); exp != "" {
		parts = append(parts, "Experience: "+exp)
	}
	if edu := strings.TrimSpace(p.Education); edu != "" {
		parts = append(parts, "Education: "+edu)
	}

	if len(parts) == 0 {
		return defaultProfileText
	}
	return strings.Join(parts, "; ")
}

func BuildPrompt(p CandidateProfile) string {
	return fmt.Sprintf(
		"You are an interview coach. Generate %d %s interview questions as a numbered list for this candidate profile: %s. "+
			"Return only the questions, one per line.",
		questionCount, p.EffectiveType(), BuildProfileText(p),
	)
}
