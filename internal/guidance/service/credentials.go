package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register the supported KMS drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// ResolveAPIKey returns the provider API key. When an encrypted key is configured it
// is base64-decoded and decrypted with the keeper at keyURI (gcpkms://, awskms://,
// azurekeyvault://, hashivault:// or base64key://); otherwise the plaintext key is used.
func ResolveAPIKey(ctx context.Context, plaintext, encrypted, keyURI string) (string, error) {
	if encrypted == "" {
		return plaintext, nil
	}
	if keyURI == "" {
		return "", fmt.Errorf("encrypted API key requires a KMS key URI")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode encrypted API key: %w", err)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt API key: %w", err)
	}
	return string(key), nil
}
