package notes

import "testing"

func TestHashThenVerifyRoundtrip(t *testing.T) {
	hasher := NewPasswordHasher()

	hashed, err := hasher.Hash("Wq7mTkRv")
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	if hashed == "Wq7mTkRv" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !hasher.Verify("Wq7mTkRv", hashed) {
		t.Fatalf("expected matching password to verify")
	}
	if hasher.Verify("Wq7mTkRw", hashed) {
		t.Fatalf("expected near-miss password to fail verification")
	}
}

func TestHashesOfSamePasswordDiffer(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("Wq7mTkRv")
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	second, err := hasher.Hash("Wq7mTkRv")
	if err != nil {
		t.Fatalf("unexpected hash error: %v", err)
	}
	if first == second {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestVerifyReturnsFalseOnMalformedStoredHash(t *testing.T) {
	hasher := NewPasswordHasher()

	for _, malformed := range []string{"", "not-a-hash", "$2a$xx$broken"} {
		if hasher.Verify("Wq7mTkRv", malformed) {
			t.Fatalf("expected malformed hash %q to verify false", malformed)
		}
	}
}
