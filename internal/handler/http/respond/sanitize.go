package respond

import (
	"regexp"
)

var (
	// Anthropic keys first: the pattern is more specific than the
	// OpenAI one and would otherwise be half-masked by it.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	// Passwords embedded in DSNs.
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)

	// Museum API keys passed as query parameters.
	apiKeyParamPattern = regexp.MustCompile(`(?i)(api_key|apikey)=[^&\s]+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = apiKeyParamPattern.ReplaceAllString(msg, "$1=****")

	return msg
}
