// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIdentityKey = errors.New("invalid identity key")
	ErrInvalidIdentity    = errors.New("invalid identity format")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NormalizeIdentity validates an account address ("0x" + 40 hex digits)
// and returns it lowercased so comparisons are case-insensitive.
func NormalizeIdentity(identity string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(identity))
	if len(id) != 42 || !strings.HasPrefix(id, "0x") {
		return "", ErrInvalidIdentity
	}
	if _, err := hex.DecodeString(id[2:]); err != nil {
		return "", ErrInvalidIdentity
	}
	return id, nil
}

// GenerateIdentityKey creates the HMAC-based key that proves ownership of
// an identity. Deterministic, so nothing needs to be stored to verify it.
func GenerateIdentityKey(identity, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(identity))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateIdentityKey checks if the provided key was issued for identity
func ValidateIdentityKey(identity, key, salt string) error {
	id, err := NormalizeIdentity(identity)
	if err != nil {
		return err
	}
	expected := GenerateIdentityKey(id, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidIdentityKey
	}
	return nil
}

// GenerateReceiptCode creates a short code a voter can keep as proof that
// their ballot was recorded. HMAC keeps it unguessable from the ballot ID.
func GenerateReceiptCode(ballotID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ballotID))
	sum := h.Sum(nil)

	// Take first 8 bytes for a shorter code
	return base62Encode(sum[:8])
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) are enough to spot repeats
	return hex.EncodeToString(sum[:8])
}
