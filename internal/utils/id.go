package utils

import (
	"crypto/rand"
	"strconv"
	"time"
)

const (
	roomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// RoomCodeLength matches the short shareable codes the original clients
	// generate.
	RoomCodeLength = 4
)

// NewRoomCode returns a best-effort unique short room code.
func NewRoomCode() string {
	buf := make([]byte, RoomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// Fallback to timestamp digits if crypto/rand is unavailable.
		ts := strconv.FormatInt(time.Now().UnixNano(), 10)
		return ts[len(ts)-RoomCodeLength:]
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf)
}
