package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// UnknownIP is hashed in place of a missing client address.
const UnknownIP = "unknown"

// IPHasher turns client addresses into keyed, non-reversible identifiers
// suitable for the attempt ledger and consent records.
type IPHasher struct {
	key []byte
}

func NewIPHasher(key []byte) *IPHasher {
	k := make([]byte, len(key))
	copy(k, key)
	return &IPHasher{key: k}
}

func (h *IPHasher) Hash(ip string) string {
	if ip == "" {
		ip = UnknownIP
	}
	m := hmac.New(sha256.New, h.key)
	m.Write([]byte(ip))
	return hex.EncodeToString(m.Sum(nil))
}
