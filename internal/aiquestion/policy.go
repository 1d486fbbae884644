package aiquestion

import (
	"fmt"
	"strings"
)

// Policy decides what a failed generation turns into.
type Policy string

const (
	// PolicyLenient answers every failure with the fallback question set and
	// backs off from the provider after a rate limit.
	PolicyLenient Policy = "lenient"
	// PolicyStrict surfaces provider and parse failures to the caller.
	PolicyStrict Policy = "strict"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyLenient, PolicyStrict:
		return p, nil
	case "":
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}
