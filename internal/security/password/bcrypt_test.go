package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	h := New(bcrypt.MinCost)
	hash, err := h.Hash("rawpassword")
	if err != nil {
		t.Fatalf("Hash err: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format %q", hash)
	}
	if !h.Verify("rawpassword", hash) {
		t.Fatal("Verify should accept the right password")
	}
	if h.Verify("wrong", hash) {
		t.Fatal("Verify should reject a wrong password")
	}
	if h.Verify("rawpassword", "") || h.Verify("rawpassword", "not-a-hash") {
		t.Fatal("Verify should reject empty/corrupt hashes")
	}
}

func TestHash_Empty(t *testing.T) {
	if _, err := New(0).Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("err = %v", err)
	}
	if New(0).Cost != bcrypt.DefaultCost {
		t.Fatal("default cost")
	}
}
