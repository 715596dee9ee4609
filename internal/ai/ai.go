// Package ai wraps a text generation backend with a sliding window rate limit
// and failover across several API credentials.
package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Replies returned instead of errors so chat clients always get a message.
const (
	MessageNotConfigured = "AI service is not configured. Please set GEMINI_API_KEY."
	MessageRateLimited   = "I'm receiving too many requests right now. Please wait a moment and try again."
	MessageQuotaExceeded = "The AI service quota has been exceeded. Please try again later."
	MessageFailed        = "Sorry, I couldn't generate a response right now. Please try again."
)

// Backend generates text for a prompt using a single credential.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds a Backend bound to apiKey.
type Factory func(ctx context.Context, apiKey string) (Backend, error)

type State string

const (
	StateUnconfigured State = "unconfigured"
	StateReady        State = "ready"
	StateRateLimited  State = "rate_limited"
	StateRotating     State = "rotating"
)

// IsQuota reports whether err means the current credential ran out of quota
// or lost access. Structured API errors are classified by code and status;
// anything else by its text.
func IsQuota(err error) bool {
	if err == nil {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return quotaStatus(apiErr)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return quotaStatus(*apiErrPtr)
	}

	text := strings.ToLower(err.Error())
	return strings.Contains(text, "429") || strings.Contains(text, "quota")
}

func quotaStatus(e genai.APIError) bool {
	switch {
	case e.Code == http.StatusTooManyRequests:
		return true
	case e.Status == "RESOURCE_EXHAUSTED", e.Status == "PERMISSION_DENIED":
		return true
	default:
		return false
	}
}
