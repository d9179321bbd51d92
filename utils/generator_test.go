package utils

import (
	"strings"
	"testing"
)

func TestGenerateRandomPassword(t *testing.T) {
	password := GenerateRandomPassword(12)
	if len(password) != 12 {
		t.Fatalf("password length = %d, want 12", len(password))
	}
	for _, ch := range password {
		if !strings.ContainsRune(passwordBytes, ch) {
			t.Errorf("password contains %q, outside the allowed charset", ch)
		}
	}

	if password == GenerateRandomPassword(12) {
		t.Error("two generated passwords collided")
	}
}
