// Package provider contains the outbound news provider adapters. Each adapter
// translates a free-text query into a provider-specific request and maps the
// response into the canonical domain.Article shape.
package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotConfigured signals that an adapter has no credential. It is an
// expected condition, not a failure: the aggregator skips the adapter
// without any network call.
var ErrNotConfigured = errors.New("provider not configured")

// fallbackSource is used when a provider item carries no source name.
const fallbackSource = "unknown"

func newClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
