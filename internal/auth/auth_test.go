package auth

import (
	"testing"
	"time"
)

func withSecret(t *testing.T, value string) {
	t.Helper()
	ResetSecretForTests()
	t.Setenv("CLUBDESK_AUTH_SECRET", value)
	t.Cleanup(ResetSecretForTests)
}

func TestTokenRoundTrip(t *testing.T) {
	withSecret(t, "test-secret-0123456789")

	token, exp, err := GenerateToken("profile-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry in the past: %v", exp)
	}

	claims, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "profile-1" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Issuer != "clubdesk" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestGenerateTokenValidation(t *testing.T) {
	withSecret(t, "test-secret-0123456789")

	if _, _, err := GenerateToken("", time.Hour); err == nil {
		t.Error("expected error for empty profile id")
	}
	if _, _, err := GenerateToken("profile-1", 0); err == nil {
		t.Error("expected error for zero ttl")
	}
}

func TestMissingSecret(t *testing.T) {
	withSecret(t, "")

	if _, _, err := GenerateToken("profile-1", time.Hour); err == nil {
		t.Error("expected error without secret")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	withSecret(t, "test-secret-0123456789")

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseAndValidate(tok); err == nil {
			t.Errorf("ParseAndValidate(%q) should fail", tok)
		}
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	withSecret(t, "secret-one")
	token, _, err := GenerateToken("profile-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	withSecret(t, "secret-two")
	if _, err := ParseAndValidate(token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "changeme"); err != nil {
		t.Errorf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Error("wrong password should not verify")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should not hash")
	}
}
