package sanitization

import "testing"

func TestSanitizeLogString_StripsCRLF(t *testing.T) {
	got := SanitizeLogString("a\r\nb\nc\rd")
	if got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
}

func TestSanitizeFieldValue_RedactsCredentials(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"oauth_token", "GitHub_Token", "authorization", "secret_access_key", "webhook_secret", "my_password"} {
		if got := SanitizeFieldValue(key, "value"); got != redactedValue {
			t.Fatalf("expected %q redacted, got %#v", key, got)
		}
	}
}

func TestSanitizeFieldValue_AllowedFieldsBypassSubstringRule(t *testing.T) {
	t.Parallel()

	if got := SanitizeFieldValue("token_type", "Bearer"); got != "Bearer" {
		t.Fatalf("expected allowed field preserved, got %#v", got)
	}
}

func TestSanitizeFieldValue_MasksIdentifiers(t *testing.T) {
	t.Parallel()

	if got := SanitizeFieldValue("account_id", "123456789012"); got != "***9012" {
		t.Fatalf("expected masked account id, got %#v", got)
	}
	if got := SanitizeFieldValue("access_key_id", "AK"); got != maskedValue {
		t.Fatalf("expected short id masked, got %#v", got)
	}
	if got := SanitizeFieldValue("account_id", 42); got != redactedValue {
		t.Fatalf("expected non-string id redacted, got %#v", got)
	}
}

func TestSanitizeFieldValue_NestedValues(t *testing.T) {
	t.Parallel()

	got := SanitizeFieldValue("request", map[string]any{
		"distribution_id": "E123\n",
		"oauth_token":     "ghp_abc",
		"paths":           []any{"/*\r"},
	})
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", got)
	}
	if m["distribution_id"] != "E123" {
		t.Fatalf("expected CRLF stripped, got %#v", m["distribution_id"])
	}
	if m["oauth_token"] != redactedValue {
		t.Fatalf("expected nested token redacted, got %#v", m["oauth_token"])
	}
	paths, ok := m["paths"].([]any)
	if !ok || len(paths) != 1 || paths[0] != "/*" {
		t.Fatalf("unexpected paths: %#v", m["paths"])
	}
}

func TestSanitizeFieldValue_PassesScalars(t *testing.T) {
	t.Parallel()

	if got := SanitizeFieldValue("count", 3); got != 3 {
		t.Fatalf("expected int preserved, got %#v", got)
	}
	if got := SanitizeFieldValue("", []byte("x\ny")); got != "xy" {
		t.Fatalf("expected bytes sanitized, got %#v", got)
	}
	if got := SanitizeFieldValue("paths", []string{"/a\n", "/b"}); len(got.([]string)) != 2 || got.([]string)[0] != "/a" {
		t.Fatalf("unexpected string slice: %#v", got)
	}
}

func TestMaskFirstLast(t *testing.T) {
	t.Parallel()

	if got := MaskFirstLast("", 2, 2); got != emptyMaskedValue {
		t.Fatalf("expected empty marker, got %q", got)
	}
	if got := MaskFirstLast("abcdef", 3, 3); got != maskedValue {
		t.Fatalf("expected masked marker, got %q", got)
	}
	if got := MaskFirstLast("abcdef", -1, 2); got != maskedValue {
		t.Fatalf("expected masked marker for negative lengths, got %q", got)
	}
	if got := MaskFirstLast("abcdef", 2, 2); got != "ab***ef" {
		t.Fatalf("expected first/last preserved, got %q", got)
	}
}
