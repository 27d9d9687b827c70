package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/pbkdf2"
)

const (
	PinSaltBytes         = 16
	DefaultPinIterations = 600000
	pinKeyLength         = 32
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// ValidPin reports whether pin is exactly four ASCII digits.
func ValidPin(pin string) bool {
	return pinPattern.MatchString(pin)
}

// PinHasher derives PIN hashes with PBKDF2-HMAC-SHA256. Salt and hash are hex strings.
// Callers validate the PIN format before hashing.
type PinHasher struct {
	iterations int
}

func NewPinHasher(iterations int) *PinHasher {
	if iterations <= 0 {
		iterations = DefaultPinIterations
	}
	return &PinHasher{iterations: iterations}
}

func (h *PinHasher) GenerateSalt() (string, error) {
	salt := make([]byte, PinSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return hex.EncodeToString(salt), nil
}

func (h *PinHasher) Hash(pin, salt string) string {
	key := pbkdf2.Key([]byte(pin), []byte(salt), h.iterations, pinKeyLength, sha256.New)
	return hex.EncodeToString(key)
}

func (h *PinHasher) Verify(pin, salt, expectedHash string) bool {
	computed := h.Hash(pin, salt)
	if len(computed) != len(expectedHash) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}
