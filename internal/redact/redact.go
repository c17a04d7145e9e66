// Package redact provides utilities for scrubbing sensitive information from
// strings before they are logged or returned in error responses. It prevents
// accidental leakage of credentials, connection strings, and raw SQL that
// may be embedded in driver or library error messages.
package redact

import "regexp"

// Redaction placeholders
const (
	redactedCredential = "[REDACTED_CREDENTIAL]"
	redactedKey        = "[REDACTED_KEY]"
	redactedJWT        = "[REDACTED_JWT]"
	redactedEmail      = "[REDACTED_EMAIL]"
	redactedSQL        = "[REDACTED_SQL]"
	redactedPath       = "[REDACTED_PATH]"
)

// rule pairs a pattern with its replacement placeholder.
// Order matters: more specific patterns run before broader ones.
type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

var rules = []rule{
	// Connection strings with embedded credentials
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`), redactedCredential},

	// password=..., secret: ..., api_key=... style assignments
	{regexp.MustCompile(`(?i)(password|passwd|secret|api[_-]?key|token)(['"\s:=]+)[^'"&\s]{3,}`), redactedKey},

	// JWT tokens (three base64url segments starting with eyJ)
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), redactedJWT},

	// Email addresses
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), redactedEmail},

	// SQL statements leaked from driver errors
	{regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\s[\s\w,*()='"$]+`), redactedSQL},

	// Filesystem paths
	{regexp.MustCompile(`(/[\w.-]+){2,}`), redactedPath},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
