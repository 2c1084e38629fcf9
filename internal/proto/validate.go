package proto

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Boundary validation for identifiers. Malformed names and room codes are
// rejected here, before anything reaches the core.

const (
	// RoomCodeMaxLen matches the short shareable codes the clients generate.
	RoomCodeMaxLen = 4
	// NameMaxLen bounds display names.
	NameMaxLen = 32
)

var (
	ErrInvalidRoomCode = errors.New("room code must be 1-4 alphanumeric characters")
	ErrInvalidName     = errors.New("name must be 1-32 characters")
)

// NormalizeRoomCode upper-cases a room code and validates it. Codes are
// case-insensitive alphanumeric, at most four characters.
func NormalizeRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > RoomCodeMaxLen {
		return "", ErrInvalidRoomCode
	}
	for _, r := range code {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return "", ErrInvalidRoomCode
		}
	}
	return code, nil
}

// ValidateName checks a display name. Uniqueness within a room is not
// enforced; identical names collapse in client roster views by design.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(name) > NameMaxLen {
		return ErrInvalidName
	}
	return nil
}
