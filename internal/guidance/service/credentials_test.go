package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PlaintextKey", func(t *testing.T) {
		key, err := ResolveAPIKey(ctx, "sk-plain", "", "")

		require.NoError(t, err)
		assert.Equal(t, "sk-plain", key)
	})

	t.Run("Success_DecryptsWithLocalKeeper", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)
		keeper, err := secrets.OpenKeeper(ctx, keyURI)
		require.NoError(t, err)
		ciphertext, err := keeper.Encrypt(ctx, []byte("sk-encrypted"))
		require.NoError(t, err)
		require.NoError(t, keeper.Close())

		key, err := ResolveAPIKey(ctx, "ignored", base64.StdEncoding.EncodeToString(ciphertext), keyURI)

		require.NoError(t, err)
		assert.Equal(t, "sk-encrypted", key)
	})

	t.Run("Error_MissingKeyURI", func(t *testing.T) {
		_, err := ResolveAPIKey(ctx, "", "Y2lwaGVy", "")

		assert.ErrorContains(t, err, "requires a KMS key URI")
	})

	t.Run("Error_InvalidBase64", func(t *testing.T) {
		_, err := ResolveAPIKey(ctx, "", "not-base64!", generateLocalSecretsURI(t))

		assert.ErrorContains(t, err, "failed to decode encrypted API key")
	})

	t.Run("Error_InvalidKeyURI", func(t *testing.T) {
		_, err := ResolveAPIKey(ctx, "", "Y2lwaGVy", "invalid://uri")

		assert.ErrorContains(t, err, "failed to open KMS keeper")
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		_, err := ResolveAPIKey(ctx, "", "Y2lwaGVy", generateLocalSecretsURI(t))

		assert.ErrorContains(t, err, "failed to decrypt API key")
	})
}
