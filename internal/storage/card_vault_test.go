package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edcsys/edc-gateway/internal/domain"
)

func TestCardVault_TakeConsumes(t *testing.T) {
	vault := NewCardVault()

	vault.Put("tx-1", domain.CardCredentials{Number: "4111111111111111", CVV: "321"})
	assert.Equal(t, 1, vault.Len())

	card, ok := vault.Take("tx-1")
	assert.True(t, ok)
	assert.Equal(t, "4111111111111111", card.Number)
	assert.Equal(t, "321", card.CVV)
	assert.Equal(t, 0, vault.Len())

	// A second take finds nothing: credentials live for one call.
	_, ok = vault.Take("tx-1")
	assert.False(t, ok)
}

func TestCardVault_TakeUnknown(t *testing.T) {
	vault := NewCardVault()

	_, ok := vault.Take("missing")
	assert.False(t, ok)
}
