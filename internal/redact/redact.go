// Package redact provides utilities for redacting sensitive information from
// strings before they are logged or returned in error responses. The service
// handles bearer API keys and caller-supplied upload paths, both of which can
// end up embedded in collaborator error messages.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder    = "[REDACTED]"
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
	RedactedPathPlaceholder = "[REDACTED_PATH]"
)

// Precompiled regex patterns
var (
	// Bearer keys and generic secrets, e.g. "api_key=..." or "X-API-Key: ..."
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Database connection strings carrying credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|mysql|db|database|connection)://[^@]+@`)

	// File paths (upload locations leak caller filenames)
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// Host:port endpoints of collaborators
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	patterns = []*regexp.Regexp{apiKeyRegex, dbConnRegex, unixPathRegex, hostPortRegex}

	patternPlaceholders = map[*regexp.Regexp]string{
		apiKeyRegex:   RedactedKeyPlaceholder,
		dbConnRegex:   RedactedKeyPlaceholder,
		unixPathRegex: RedactedPathPlaceholder,
		hostPortRegex: "[REDACTED_HOST]",
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, pattern := range patterns {
		placeholder := RedactionPlaceholder
		if ph, ok := patternPlaceholders[pattern]; ok {
			placeholder = ph
		}
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
