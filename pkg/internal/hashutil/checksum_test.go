// pkg/internal/hashutil/checksum_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test manifest checksums and the structural content signature

package hashutil

import (
	"bytes"
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	got := Checksum([]byte("hello"))
	// sha256("hello")
	want := "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("Checksum() = %q, want %q", got, want)
	}

	if Checksum([]byte("hello")) != Checksum([]byte("hello")) {
		t.Error("Checksum() should be deterministic")
	}
	if Checksum([]byte("hello")) == Checksum([]byte("hellp")) {
		t.Error("Checksum() should differ for different content")
	}
}

func TestStructural_ShortContent(t *testing.T) {
	sig := Structural([]byte("short"))
	if !strings.HasPrefix(sig, "len=5;") {
		t.Errorf("Structural() = %q, want len prefix", sig)
	}
	if sig != Structural([]byte("short")) {
		t.Error("Structural() should be deterministic")
	}
	if sig == Structural([]byte("shorx")) {
		t.Error("Structural() should differ when content differs")
	}
}

func TestStructural_LongContent(t *testing.T) {
	head := bytes.Repeat([]byte("a"), 100)
	tail := bytes.Repeat([]byte("b"), 100)
	content := append(append([]byte{}, head...), tail...)

	sig := Structural(content)
	if !strings.Contains(sig, "head=") || !strings.Contains(sig, "tail=") {
		t.Errorf("Structural() = %q, want head and tail fragments", sig)
	}

	// A change at either end is visible
	changedHead := append([]byte{}, content...)
	changedHead[0] = 'z'
	if Structural(changedHead) == sig {
		t.Error("head change should alter the signature")
	}

	changedTail := append([]byte{}, content...)
	changedTail[len(changedTail)-1] = 'z'
	if Structural(changedTail) == sig {
		t.Error("tail change should alter the signature")
	}

	// A length change is always visible even if the fragments match
	longer := append(append([]byte{}, head...), append(bytes.Repeat([]byte("c"), 50), tail...)...)
	if Structural(longer) == sig {
		t.Error("length change should alter the signature")
	}
}

func TestStructural_MiddleChangeSameLength(t *testing.T) {
	// The signature samples head and tail only: a middle edit of equal
	// length is invisible. That is the documented trade-off.
	base := append(append(bytes.Repeat([]byte("a"), 64), bytes.Repeat([]byte("m"), 64)...), bytes.Repeat([]byte("b"), 64)...)
	edited := append(append(bytes.Repeat([]byte("a"), 64), bytes.Repeat([]byte("x"), 64)...), bytes.Repeat([]byte("b"), 64)...)

	if Structural(base) != Structural(edited) {
		t.Error("equal-length middle edits are expected to produce the same signature")
	}
}
