package auth

import "testing"

func TestPasswordVerifyRoundTrip(t *testing.T) {
	password := "tags-are-not-passwords-9!"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" || hash == password {
		t.Fatalf("expected opaque hash, got %q", hash)
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Fatalf("expected password to verify, got error: %v", err)
	}
	if err := VerifyPassword(hash, "tags-are-not-passwords-9"); err == nil {
		t.Fatal("expected verification to fail for a near miss")
	}
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	second, err := HashPassword("same-input")
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if first == second {
		t.Fatal("expected per-call salts to produce distinct hashes")
	}
}

func TestPasswordRejectsBlankInputs(t *testing.T) {
	if _, err := HashPassword("   "); err == nil {
		t.Fatal("expected error for blank password")
	}
	if err := VerifyPassword("", "anything"); err == nil {
		t.Fatal("expected error for empty stored hash")
	}
}
