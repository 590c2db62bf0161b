package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	t.Setenv("PHONE_DEFAULT_REGION", "US")

	got, err := NormalizePhoneNumber("(212) 555-0123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+12125550123" {
		t.Fatalf("normalized = %q, want +12125550123", got)
	}

	// Already E.164 numbers pass through unchanged.
	got, err = NormalizePhoneNumber("+447911123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+447911123456" {
		t.Fatalf("normalized = %q, want +447911123456", got)
	}
}

func TestNormalizePhoneNumberRejectsGarbage(t *testing.T) {
	t.Setenv("PHONE_DEFAULT_REGION", "US")

	for _, raw := range []string{"", "12", "not a number", "+1555"} {
		if _, err := NormalizePhoneNumber(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
