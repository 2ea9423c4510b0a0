package storage

import (
	"sync"

	"github.com/edcsys/edc-gateway/internal/domain"
)

// CardVault holds card credentials between capture and the first authorize
// attempt, keyed by transaction id. Credentials are removed on Take, so
// they exist for exactly one processor call and never appear on a record,
// in a snapshot, or in a log.
type CardVault struct {
	credentials map[string]domain.CardCredentials
	mu          sync.Mutex
}

func NewCardVault() *CardVault {
	return &CardVault{
		credentials: make(map[string]domain.CardCredentials),
	}
}

func (v *CardVault) Put(id string, card domain.CardCredentials) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.credentials[id] = card
}

// Take returns and deletes the credentials for id. The second return is
// false when nothing is held, which means the authorize attempt for this
// transaction has already consumed them.
func (v *CardVault) Take(id string) (domain.CardCredentials, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	card, ok := v.credentials[id]
	if ok {
		delete(v.credentials, id)
	}
	return card, ok
}

func (v *CardVault) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.credentials)
}
