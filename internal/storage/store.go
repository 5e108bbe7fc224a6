package storage

import (
	"sync"

	"github.com/example/foodshare-matching/internal/models"
)

// Store is the persistence boundary of the matching core. The engine never
// talks to a datastore directly; anything implementing Store (in-memory fake
// or a real database) slots in unchanged.
type Store interface {
	GetRecipient(id string) (models.RecipientOrganization, bool, error)
	ListRecipients() ([]models.RecipientOrganization, error)
	PutRecipient(r models.RecipientOrganization) error
	GetFacility(id string) (models.WasteFacility, bool, error)
	ListFacilities() ([]models.WasteFacility, error)
	PutFacility(f models.WasteFacility) error
	AppendMatch(res *models.MatchResult) error
}

// MemoryStore keeps everything in process memory. Match results are
// append-only; re-matching the same batch appends a new record.
type MemoryStore struct {
	mu         sync.RWMutex
	recipients map[string]models.RecipientOrganization
	facilities map[string]models.WasteFacility
	matches    []models.MatchResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipients: make(map[string]models.RecipientOrganization),
		facilities: make(map[string]models.WasteFacility),
	}
}

func (m *MemoryStore) GetRecipient(id string) (models.RecipientOrganization, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipients[id]
	return r, ok, nil
}

func (m *MemoryStore) ListRecipients() ([]models.RecipientOrganization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.RecipientOrganization, 0, len(m.recipients))
	for _, r := range m.recipients {
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryStore) PutRecipient(r models.RecipientOrganization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients[r.ID] = r
	return nil
}

func (m *MemoryStore) GetFacility(id string) (models.WasteFacility, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.facilities[id]
	return f, ok, nil
}

func (m *MemoryStore) ListFacilities() ([]models.WasteFacility, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.WasteFacility, 0, len(m.facilities))
	for _, f := range m.facilities {
		out = append(out, f)
	}
	return out, nil
}

func (m *MemoryStore) PutFacility(f models.WasteFacility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facilities[f.ID] = f
	return nil
}

func (m *MemoryStore) AppendMatch(res *models.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, *res)
	return nil
}

// Matches returns a copy of the appended match log.
func (m *MemoryStore) Matches() []models.MatchResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.MatchResult(nil), m.matches...)
}
