// Package password wraps argon2id hashing for account credentials.
package password

import "github.com/alexedwards/argon2id"

// Hash produces a salted argon2id digest. Each call salts independently, so
// hashing the same password twice yields different digests.
func Hash(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// Verify reports whether password matches the digest. A wrong password is
// (false, nil); the error is reserved for malformed digests.
func Verify(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}
