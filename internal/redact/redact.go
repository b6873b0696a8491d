// Package redact scrubs credentials and personal data from strings before
// they are written to logs or returned to clients.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules apply in order; later rules see the output of earlier ones.
var rules = []rule{
	{
		// userinfo in connection URLs (database, NATS)
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|nats|tls|mysql)://[^@\s/]+@`),
		replacement: "$1://" + CredentialPlaceholder + "@",
	},
	{
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: JWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|api[_-]?key)(\s*[=:]\s*)['"]?[^\s'"&,;]+['"]?`),
		replacement: "$1$2" + Placeholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: EmailPlaceholder,
	},
	{
		// single-quoted SQL literals echoed back by the driver
		pattern:     regexp.MustCompile(`'[^']*'`),
		replacement: "'" + Placeholder + "'",
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: PathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr returns the redacted error as the conventional "error" log attribute.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
