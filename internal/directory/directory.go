package directory

import (
	"sort"
	"sync"
	"time"

	"github.com/example/foodshare-matching/internal/models"
)

// RecipientSource yields a point-in-time snapshot of recipient organizations.
type RecipientSource interface {
	Recipients() []models.RecipientOrganization
}

// FacilitySource yields a point-in-time snapshot of waste facilities.
type FacilitySource interface {
	Facilities() []models.WasteFacility
}

// Directory is the in-memory registry of recipients and waste facilities.
// Writes are serialized; reads copy out under RLock so an in-flight scan
// never observes a torn record.
type Directory struct {
	mu         sync.RWMutex
	recipients map[string]models.RecipientOrganization
	facilities map[string]models.WasteFacility
}

func New() *Directory {
	return &Directory{
		recipients: make(map[string]models.RecipientOrganization),
		facilities: make(map[string]models.WasteFacility),
	}
}

// UpsertRecipient inserts or replaces a recipient keyed by id. Idempotent.
func (d *Directory) UpsertRecipient(r models.RecipientOrganization) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r.Updated = time.Now()
	d.recipients[r.ID] = r
}

func (d *Directory) GetRecipient(id string) (models.RecipientOrganization, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	r, ok := d.recipients[id]
	return r, ok
}

// SetRecipientOnline toggles the online flag. Returns false for unknown ids.
func (d *Directory) SetRecipientOnline(id string, online bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.recipients[id]
	if !ok {
		return false
	}
	r.Online = online
	r.Updated = time.Now()
	d.recipients[id] = r
	return true
}

// SetRecipientSchedule replaces the weekly schedule. Returns false for unknown ids.
func (d *Directory) SetRecipientSchedule(id string, s *models.Schedule) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.recipients[id]
	if !ok {
		return false
	}
	r.Schedule = s
	r.Updated = time.Now()
	d.recipients[id] = r
	return true
}

// Recipients returns a snapshot sorted by id for deterministic iteration.
func (d *Directory) Recipients() []models.RecipientOrganization {
	d.mu.RLock()
	out := make([]models.RecipientOrganization, 0, len(d.recipients))
	for _, r := range d.recipients {
		out = append(out, r)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UpsertFacility inserts or replaces a waste facility keyed by id. Idempotent.
func (d *Directory) UpsertFacility(f models.WasteFacility) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.facilities[f.ID] = f
}

func (d *Directory) GetFacility(id string) (models.WasteFacility, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.facilities[id]
	return f, ok
}

// Facilities returns a snapshot sorted by id for deterministic iteration.
func (d *Directory) Facilities() []models.WasteFacility {
	d.mu.RLock()
	out := make([]models.WasteFacility, 0, len(d.facilities))
	for _, f := range d.facilities {
		out = append(out, f)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
