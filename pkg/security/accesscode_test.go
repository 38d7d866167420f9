package security_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foguel/delivery-backend/pkg/config"
	"github.com/foguel/delivery-backend/pkg/security"
)

func newCipher(t *testing.T, secret string) *security.AccessCodeCipher {
	t.Helper()
	c, err := security.NewAccessCodeCipher(config.CryptoConfig{AccessCodeSecret: secret, AccessCodeSalt: "test-salt"})
	require.NoError(t, err)
	return c
}

func TestAccessCodeRoundTrip(t *testing.T) {
	c := newCipher(t, "secret")

	enc, err := c.Encrypt("4821")
	require.NoError(t, err)
	require.NotContains(t, enc, "4821")

	plain, err := c.Decrypt(enc)
	require.NoError(t, err)
	require.Equal(t, "4821", plain)

	require.True(t, c.Matches(enc, "4821"))
	require.False(t, c.Matches(enc, "4822"))
}

func TestAccessCodeNoncesDiffer(t *testing.T) {
	c := newCipher(t, "secret")
	a, err := c.Encrypt("1234")
	require.NoError(t, err)
	b, err := c.Encrypt("1234")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestAccessCodeWrongKeyRejected(t *testing.T) {
	enc, err := newCipher(t, "secret").Encrypt("1234")
	require.NoError(t, err)

	_, err = newCipher(t, "other").Decrypt(enc)
	require.ErrorIs(t, err, security.ErrInvalidCiphertext)
}

func TestAccessCodeRejectsGarbage(t *testing.T) {
	c := newCipher(t, "secret")
	for _, value := range []string{"", "1234", "v1:!!!", "v1:AAAA"} {
		_, err := c.Decrypt(value)
		require.ErrorIs(t, err, security.ErrInvalidCiphertext, value)
	}
}

func TestNewAccessCodeCipherRequiresSecret(t *testing.T) {
	_, err := security.NewAccessCodeCipher(config.CryptoConfig{})
	require.Error(t, err)
}
