package testutil

import (
	"clipkeep/internal/clip"
	"clipkeep/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() clip.Vault {
	return vault.NewMemoryVault("test-vault")
}
