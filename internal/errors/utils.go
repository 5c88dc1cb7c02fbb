package errors

import (
	"context"
	"errors"
	"os"
	"strings"
)

// error categories for classification
const (
	CategoryConfig     = "config"
	CategoryProvider   = "provider"
	CategoryHost       = "host"
	CategoryNetwork    = "network"
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryTimeout    = "timeout"
	CategoryUnknown    = "unknown"
)

// one classification rule; public is what production clients see.
// an empty public exposes the error text as is.
type rule struct {
	category string
	public   string
	match    func(err error, msg string) bool
}

func containsAny(msg string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

func ofKind(kind Kind) func(error, string) bool {
	return func(err error, _ string) bool { return KindOf(err) == kind }
}

// evaluated in order, first match wins
var rules = []rule{
	{CategoryTimeout, "request timed out", func(err error, _ string) bool {
		return errors.Is(err, context.DeadlineExceeded)
	}},
	{CategoryTimeout, "request canceled", func(err error, _ string) bool {
		return errors.Is(err, context.Canceled)
	}},

	// config errors name the offending provider/model and are safe to expose
	{CategoryConfig, "", ofKind(KindConfig)},
	{CategoryProvider, "AI provider request failed", ofKind(KindGeneration)},
	{CategoryHost, "host execution failed", ofKind(KindExecution)},

	// string matching for errors that carry no kind
	{CategoryTimeout, "request timed out", func(_ error, msg string) bool {
		return containsAny(msg, "timeout", "deadline")
	}},
	{CategoryNotFound, "resource not found", func(_ error, msg string) bool {
		return containsAny(msg, "not found", "no rows")
	}},
	{CategoryNetwork, "connection error occurred", func(_ error, msg string) bool {
		return containsAny(msg, "connection", "network", "dial")
	}},
	{CategoryValidation, "validation failed", func(_ error, msg string) bool {
		return containsAny(msg, "validation", "binding", "invalid", "required")
	}},
}

// analyzes an error and returns its category and sanitized message
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown, ""}
	}

	production := os.Getenv("ENVIRONMENT") == "production"
	msg := strings.ToLower(err.Error())

	for _, r := range rules {
		if !r.match(err, msg) {
			continue
		}

		if production && r.public != "" {
			return ErrorInfo{r.category, r.public}
		}
		return ErrorInfo{r.category, err.Error()}
	}

	if production {
		return ErrorInfo{CategoryUnknown, "an error occurred"}
	}
	return ErrorInfo{CategoryUnknown, err.Error()}
}
