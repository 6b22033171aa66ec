package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("applepie21")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "applepie21" {
		t.Fatal("HashPassword() returned the plain text password")
	}

	if !CheckPassword(hash, "applepie21") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("not-a-hash", "applepie21") {
		t.Error("CheckPassword() accepted an invalid hash")
	}
}
