// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity validation and key generation utilities.

# Identities

An identity is an account address: "0x" followed by 40 hex digits.
NormalizeIdentity trims and lowercases it so comparisons are
case-insensitive:

	id, err := auth.NormalizeIdentity("0xAbC...")

# Identity Keys

Identity keys use HMAC-SHA256 to create deterministic, verifiable proofs of
ownership:

	key := auth.GenerateIdentityKey(id, salt)
	err := auth.ValidateIdentityKey(id, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same identity and salt always produce the same key, so nothing has to be
stored to validate it. Voters receive their key when they register; the
admin key is printed by the server's -print-admin-key flag.

# Receipt Codes

Each ballot gets a short base62 receipt code derived from its ID:

	code := auth.GenerateReceiptCode(ballotID, salt)

# ID Generation

Random hex IDs for request correlation:

	id, err := auth.GenerateID(8)  // 16 hex characters

# IP Hashing

For privacy-preserving audit of ballots:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
