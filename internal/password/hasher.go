// Package password computes salted credential digests.
package password

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/dtroode/identity-server/internal/validate"
)

// SaltLength is the number of characters in a generated salt.
const SaltLength = 32

var digests = map[string]func() hash.Hash{
	"MD5":     md5.New,
	"SHA1":    sha1.New,
	"SHA224":  sha256.New224,
	"SHA256":  sha256.New,
	"SHA384":  sha512.New384,
	"SHA512":  sha512.New,
	"SHA3256": func() hash.Hash { return sha3.New256() },
	"SHA3512": func() hash.Hash { return sha3.New512() },
}

// Hasher computes hex(digest(password || salt)) with a fixed algorithm.
type Hasher struct {
	algorithm string
	newHash   func() hash.Hash
}

// NewHasher creates a Hasher for the named digest, e.g. "SHA-256" or
// "sha3-512". Unknown names are rejected.
func NewHasher(algorithm string) (*Hasher, error) {
	newHash, ok := digests[normalize(algorithm)]
	if !ok {
		return nil, fmt.Errorf("unsupported digest algorithm %q", algorithm)
	}

	return &Hasher{algorithm: algorithm, newHash: newHash}, nil
}

// Algorithm returns the configured digest name.
func (h *Hasher) Algorithm() string {
	return h.algorithm
}

// Hash returns the lowercase hex digest of password followed by salt.
func (h *Hasher) Hash(password, salt string) string {
	d := h.newHash()
	d.Write([]byte(password))
	d.Write([]byte(salt))
	return hex.EncodeToString(d.Sum(nil))
}

// Verify reports whether password and salt produce hash.
func (h *Hasher) Verify(password, salt, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(password, salt)), []byte(hash)) == 1
}

// GenerateSalt draws SaltLength characters uniformly from the password charset.
func GenerateSalt() (string, error) {
	charsetLen := big.NewInt(int64(len(validate.PasswordCharset)))

	var b strings.Builder
	b.Grow(SaltLength)
	for range SaltLength {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate salt: %w", err)
		}
		b.WriteByte(validate.PasswordCharset[n.Int64()])
	}

	return b.String(), nil
}

// normalize maps "sha-256", "SHA256" and "Sha_256" to the same key.
func normalize(algorithm string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToUpper(strings.TrimSpace(algorithm)))
}
