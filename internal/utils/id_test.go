package utils

import (
	"strings"
	"testing"
)

func TestNewRoomCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewRoomCode()
		if len(code) != RoomCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), RoomCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(roomCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestNewRoomCodeVaries(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		seen[NewRoomCode()] = struct{}{}
	}
	// Collisions in 50 draws from 36^4 codes would point at a broken source.
	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %d distinct", len(seen))
	}
}
