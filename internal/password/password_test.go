package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	hash, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	parts := strings.Split(hash, ".")
	if len(parts) != 2 {
		t.Fatalf("expected <key>.<salt> format, got %q", hash)
	}
	if len(parts[0]) != keyLen*2 {
		t.Fatalf("derived key hex length: got %d want %d", len(parts[0]), keyLen*2)
	}
	if len(parts[1]) != saltLen*2 {
		t.Fatalf("salt hex length: got %d want %d", len(parts[1]), saltLen*2)
	}

	if !Verify("correct horse battery staple", hash) {
		t.Fatal("Verify should accept the original password")
	}
	if Verify("wrong password", hash) {
		t.Fatal("Verify should reject a different password")
	}
}

func TestHash_SaltIsRandom(t *testing.T) {
	t.Parallel()

	h1, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ")
	}
	if !Verify("same password", h1) || !Verify("same password", h2) {
		t.Fatal("both hashes should verify")
	}
}

func TestVerify_MalformedStoredValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"no separator", "deadbeef"},
		{"too many parts", "aa.bb.cc"},
		{"non-hex key", "zzzz.abcd"},
		{"truncated key", "abcd.1234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if Verify("anything", tc.stored) {
				t.Fatalf("Verify(%q) should fail closed", tc.stored)
			}
		})
	}
}
