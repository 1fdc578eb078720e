package auth

import (
	"testing"
)

func TestGenerateJWT(t *testing.T) {
	secret := "test-secret-key-minimum-32-characters-long"

	token, err := GenerateJWT("acct-1", "test@example.com", secret, 24)
	if err != nil {
		t.Fatalf("Failed to generate JWT: %v", err)
	}

	if token == "" {
		t.Error("Token should not be empty")
	}
}

func TestValidateJWT(t *testing.T) {
	secret := "test-secret-key-minimum-32-characters-long"

	token, err := GenerateJWT("acct-123", "test@example.com", secret, 24)
	if err != nil {
		t.Fatalf("Failed to generate JWT: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate JWT: %v", err)
	}

	if claims.AccountID != "acct-123" {
		t.Errorf("Expected AccountID acct-123, got %s", claims.AccountID)
	}

	if claims.Email != "test@example.com" {
		t.Errorf("Expected Email test@example.com, got %s", claims.Email)
	}
}

func TestValidateJWTInvalidToken(t *testing.T) {
	secret := "test-secret-key-minimum-32-characters-long"

	_, err := ValidateJWT("invalid.token.here", secret)
	if err == nil {
		t.Error("ValidateJWT should return error for invalid token")
	}

	_, err = ValidateJWT("", secret)
	if err == nil {
		t.Error("ValidateJWT should return error for empty token")
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("acct-1", "test@example.com", "secret-one-minimum-32-characters-long", 24)
	if err != nil {
		t.Fatalf("Failed to generate JWT: %v", err)
	}

	_, err = ValidateJWT(token, "secret-two-minimum-32-characters-long")
	if err == nil {
		t.Error("ValidateJWT should return error for wrong secret")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	secret := "test-secret-key-minimum-32-characters-long"

	token, err := GenerateJWT("acct-1", "test@example.com", secret, -1)
	if err != nil {
		t.Fatalf("Failed to generate JWT: %v", err)
	}

	_, err = ValidateJWT(token, secret)
	if err == nil {
		t.Error("ValidateJWT should return error for expired token")
	}
}

func TestValidateJWTSubjectFallback(t *testing.T) {
	secret := "test-secret-key-minimum-32-characters-long"

	// The Subject registered claim carries the account id too
	token, err := GenerateJWT("acct-9", "", secret, 24)
	if err != nil {
		t.Fatalf("Failed to generate JWT: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate JWT: %v", err)
	}

	if claims.Subject != "acct-9" {
		t.Errorf("Expected Subject acct-9, got %s", claims.Subject)
	}
	if claims.AccountID != "acct-9" {
		t.Errorf("Expected AccountID acct-9, got %s", claims.AccountID)
	}
}
