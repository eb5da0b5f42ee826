package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aidanlsb/broom/internal/model"
)

// SaveTemplate inserts or replaces a template. An empty ID is derived from
// the name and made unique.
func (s *Store) SaveTemplate(t *model.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}

	return s.withWriteLock(func(tx *sql.Tx) error {
		if t.ID == "" {
			id, err := uniqueRowID(tx, "templates", model.NewID(t.Name))
			if err != nil {
				return err
			}
			t.ID = id
		}

		body, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to encode template: %w", err)
		}
		_, err = tx.Exec(`INSERT OR REPLACE INTO templates (id, name, body, created_at) VALUES (?, ?, ?, ?)`,
			t.ID, t.Name, string(body), t.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		return nil
	})
}

// GetTemplate loads one template by ID.
func (s *Store) GetTemplate(id string) (*model.Template, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM templates WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return decodeTemplate(body)
}

// ListTemplates returns stored templates ordered by name.
func (s *Store) ListTemplates() ([]model.Template, error) {
	rows, err := s.db.Query(`SELECT body FROM templates ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return scanRows(rows, func(r *sql.Rows) (model.Template, error) {
		var body string
		if err := r.Scan(&body); err != nil {
			return model.Template{}, err
		}
		t, err := decodeTemplate(body)
		if err != nil {
			return model.Template{}, err
		}
		return *t, nil
	})
}

// DeleteTemplate removes a template.
func (s *Store) DeleteTemplate(id string) error {
	return s.withWriteLock(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM templates WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		return requireAffected(res, "template", id)
	})
}

func decodeTemplate(body string) (*model.Template, error) {
	var t model.Template
	if err := json.Unmarshal([]byte(body), &t); err != nil {
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	return &t, nil
}
