package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/foguel/delivery-backend/pkg/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const accessCodePrefix = "v1:"

// ErrInvalidCiphertext is returned for values that were not produced by the
// cipher or were tampered with.
var ErrInvalidCiphertext = errors.New("invalid access code ciphertext")

// AccessCodeCipher encrypts collaborator access codes at rest with
// XChaCha20-Poly1305. The admin console must be able to display the codes,
// so they are encrypted rather than hashed.
type AccessCodeCipher struct {
	key []byte
}

// NewAccessCodeCipher derives the symmetric key from the configured secret.
func NewAccessCodeCipher(cfg config.CryptoConfig) (*AccessCodeCipher, error) {
	secret := strings.TrimSpace(cfg.AccessCodeSecret)
	if secret == "" {
		return nil, fmt.Errorf("access code secret is required")
	}
	salt := cfg.AccessCodeSalt
	if salt == "" {
		salt = "foguel-access-code"
	}
	key := argon2.IDKey([]byte(secret), []byte(salt), 1, 64*1024, 2, chacha20poly1305.KeySize)
	return &AccessCodeCipher{key: key}, nil
}

// Encrypt seals the plaintext code under a fresh random nonce.
func (c *AccessCodeCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("access code cannot be empty")
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return accessCodePrefix + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (c *AccessCodeCipher) Decrypt(encoded string) (string, error) {
	if !strings.HasPrefix(encoded, accessCodePrefix) {
		return "", ErrInvalidCiphertext
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(encoded, accessCodePrefix))
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrInvalidCiphertext
	}
	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	return string(plain), nil
}

// Matches reports whether provided equals the code sealed in encoded.
func (c *AccessCodeCipher) Matches(encoded, provided string) bool {
	plain, err := c.Decrypt(encoded)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(provided)) == 1
}
