// Package password hashes and verifies account passwords.
//
// Two formats are understood. The legacy format is the bare hex SHA-256
// digest of the password, unsalted. The argon2id format is
// "$argon2id$v=19$m=<mem>,t=<time>,p=<threads>$<salt>$<key>" with base64
// (raw, standard alphabet) salt and key. Verify accepts either format, so
// switching the Hasher scheme does not lock out existing accounts.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Scheme names a hashing format for new passwords.
type Scheme string

const (
	SchemeSHA256   Scheme = "sha256"
	SchemeArgon2id Scheme = "argon2id"
)

// ErrMismatch is returned when a password does not match its stored hash.
var ErrMismatch = errors.New("password mismatch")

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16
)

// Hasher produces and checks password hashes.
type Hasher struct {
	scheme Scheme
}

// NewHasher returns a Hasher that writes new hashes in the given scheme.
func NewHasher(scheme Scheme) (*Hasher, error) {
	switch scheme {
	case SchemeSHA256, SchemeArgon2id:
		return &Hasher{scheme: scheme}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// Hash returns the stored representation of password.
func (h *Hasher) Hash(password string) (string, error) {
	if h.scheme == SchemeArgon2id {
		return hashArgon2id(password)
	}
	return hashSHA256(password), nil
}

// Verify reports whether password matches the stored hash.
func (h *Hasher) Verify(password, stored string) error {
	if strings.HasPrefix(stored, "$argon2id$") {
		return verifyArgon2id(password, stored)
	}
	if subtle.ConstantTimeCompare([]byte(hashSHA256(password)), []byte(stored)) != 1 {
		return ErrMismatch
	}
	return nil
}

func hashSHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func hashArgon2id(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2id(password, stored string) error {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fmt.Errorf("parse argon2id version: %w", err)
	}
	if version != argon2.Version {
		return fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return fmt.Errorf("parse argon2id params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("decode argon2id salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("decode argon2id key: %w", err)
	}
	if len(salt) == 0 || len(want) == 0 {
		return fmt.Errorf("malformed argon2id hash: empty salt or key")
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}
