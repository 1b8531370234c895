package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// hashForTest produces a bcrypt hash at minimum cost for use in tests.
func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	return string(hash)
}
