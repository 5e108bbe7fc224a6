package storage

import (
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"github.com/example/foodshare-matching/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) GetRecipient(id string) (models.RecipientOrganization, bool, error) {
	var raw []byte
	err := p.db.QueryRow(`SELECT doc FROM recipients WHERE id=$1`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.RecipientOrganization{}, false, nil
	}
	if err != nil {
		return models.RecipientOrganization{}, false, err
	}
	var r models.RecipientOrganization
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.RecipientOrganization{}, false, err
	}
	return r, true, nil
}

func (p *PostgresStore) ListRecipients() ([]models.RecipientOrganization, error) {
	rows, err := p.db.Query(`SELECT doc FROM recipients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.RecipientOrganization
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var r models.RecipientOrganization
		if err := json.Unmarshal(raw, &r); err != nil {
			continue // one bad row must not poison a directory scan
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *PostgresStore) PutRecipient(r models.RecipientOrganization) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(
		`INSERT INTO recipients(id, doc, updated_at) VALUES($1,$2,now())
		 ON CONFLICT (id) DO UPDATE SET doc=EXCLUDED.doc, updated_at=now()`,
		r.ID, doc)
	return err
}

func (p *PostgresStore) GetFacility(id string) (models.WasteFacility, bool, error) {
	var raw []byte
	err := p.db.QueryRow(`SELECT doc FROM waste_facilities WHERE id=$1`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return models.WasteFacility{}, false, nil
	}
	if err != nil {
		return models.WasteFacility{}, false, err
	}
	var f models.WasteFacility
	if err := json.Unmarshal(raw, &f); err != nil {
		return models.WasteFacility{}, false, err
	}
	return f, true, nil
}

func (p *PostgresStore) ListFacilities() ([]models.WasteFacility, error) {
	rows, err := p.db.Query(`SELECT doc FROM waste_facilities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.WasteFacility
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var f models.WasteFacility
		if err := json.Unmarshal(raw, &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (p *PostgresStore) PutFacility(f models.WasteFacility) error {
	doc, err := json.Marshal(f)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(
		`INSERT INTO waste_facilities(id, doc) VALUES($1,$2)
		 ON CONFLICT (id) DO UPDATE SET doc=EXCLUDED.doc`,
		f.ID, doc)
	return err
}

func (p *PostgresStore) AppendMatch(res *models.MatchResult) error {
	candidates, err := json.Marshal(res.Candidates)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(
		`INSERT INTO matches(batch_id, outcome, recipient_id, facility_id, facility_distance_km, candidates, rationale, decided_at)
		 VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		res.BatchID, string(res.Outcome), nullable(res.RecipientID), nullable(res.FacilityID),
		res.FacilityDistanceKm, candidates, res.Rationale, res.DecidedAt)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
