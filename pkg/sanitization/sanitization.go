package sanitization

import (
	"fmt"
	"strings"
)

const redactedValue = "[REDACTED]"

const (
	emptyMaskedValue = "(empty)"
	maskedValue      = "***masked***"
)

// AllowedFields are field names that should bypass key-based redaction.
var AllowedFields = map[string]bool{
	"token_type":        true,
	"oauth_token_scope": true,
}

// SanitizationType defines how to sanitize a field.
type SanitizationType int

const (
	FullyRedact SanitizationType = iota
	PartialMask
)

// SensitiveFields defines fields that require explicit sanitization behavior.
//
// Keys are lowercased field names.
var SensitiveFields = map[string]SanitizationType{
	"oauth_token":   FullyRedact,
	"github_token":  FullyRedact,
	"access_token":  FullyRedact,
	"session_token": FullyRedact,
	"authorization": FullyRedact,

	"password":          FullyRedact,
	"secret":            FullyRedact,
	"secret_access_key": FullyRedact,
	"private_key":       FullyRedact,

	"access_key_id": PartialMask,
	"account_id":    PartialMask,
}

// SanitizeLogString removes control characters that could enable log forging.
func SanitizeLogString(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

// SanitizeFieldValue sanitizes a field value based on its key name.
func SanitizeFieldValue(key string, value any) any {
	keyLower := strings.ToLower(strings.TrimSpace(key))
	if keyLower == "" || AllowedFields[keyLower] {
		return sanitizeValue(value)
	}

	if typ, ok := SensitiveFields[keyLower]; ok {
		if typ == PartialMask {
			return maskIdentifier(value)
		}
		return redactedValue
	}

	// Anything that reads like a credential is redacted outright.
	for _, substr := range []string{"secret", "token", "password", "credential", "authorization"} {
		if strings.Contains(keyLower, substr) {
			return redactedValue
		}
	}

	return sanitizeValue(value)
}

// MaskFirstLast keeps the first prefixLen and last suffixLen characters and masks the middle.
func MaskFirstLast(value string, prefixLen, suffixLen int) string {
	if value == "" {
		return emptyMaskedValue
	}
	if prefixLen < 0 || suffixLen < 0 {
		return maskedValue
	}
	if len(value) <= prefixLen+suffixLen {
		return maskedValue
	}
	return value[:prefixLen] + "***" + value[len(value)-suffixLen:]
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return SanitizeLogString(typed)
	case []byte:
		return SanitizeLogString(string(typed))
	case bool, int, int32, int64, float64:
		return typed
	case []string:
		out := make([]string, len(typed))
		for i := range typed {
			out[i] = SanitizeLogString(typed[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = SanitizeFieldValue(k, v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = sanitizeValue(typed[i])
		}
		return out
	default:
		return SanitizeLogString(fmt.Sprintf("%v", typed))
	}
}

func maskIdentifier(value any) string {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return redactedValue
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return redactedValue
	}
	return MaskFirstLast(s, 0, 4)
}
