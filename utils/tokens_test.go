package utils

import "testing"

func TestGenerateShortToken(t *testing.T) {
	token := GenerateShortToken(8)
	if len(token) != 16 {
		t.Fatalf("expected 16 hex chars, got %d: %q", len(token), token)
	}
	for _, c := range token {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("non-hex character %q in %q", c, token)
		}
	}

	if GenerateShortToken(4) == GenerateShortToken(4) {
		t.Fatal("two tokens should not collide")
	}
}
