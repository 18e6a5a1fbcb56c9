package errors

import (
	"fmt"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	pe, ok := err.(*PhoenixError)
	if !ok {
		// Wrap standard error
		pe = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", pe.Message))
	sb.WriteString(fmt.Sprintf("  Code: %s\n", pe.Code))

	return sb.String()
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	pe, ok := err.(*PhoenixError)
	if !ok {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": pe.Code,
		"message":    pe.Message,
		"category":   string(pe.Category),
		"severity":   string(pe.Severity),
		"retryable":  pe.Retryable,
	}

	if pe.Cause != nil {
		result["cause"] = pe.Cause.Error()
	}

	for k, v := range pe.Details {
		result["detail_"+k] = v
	}

	return result
}
