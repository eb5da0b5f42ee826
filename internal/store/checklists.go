package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/aidanlsb/broom/internal/model"
)

// Document is a stored record in its raw JSON form. Search surfaces that
// resolve dotted field paths (fuzzy.JSONField) work on documents directly.
type Document struct {
	ID   string
	Body []byte
}

func (d Document) GetID() string      { return d.ID }
func (d Document) GetKind() string    { return "checklist" }
func (d Document) GetContent() string { return gjson.GetBytes(d.Body, "name").String() }

// GetLocation mirrors model.Checklist: the address, else the client name.
func (d Document) GetLocation() string {
	if addr := gjson.GetBytes(d.Body, "client.address").String(); addr != "" {
		return addr
	}
	return gjson.GetBytes(d.Body, "client.name").String()
}

// ListFilter narrows ListChecklists.
type ListFilter struct {
	// Status keeps only checklists in this state. Empty means all.
	Status model.Status
	// Client keeps only checklists whose client name equals this (case-insensitive).
	Client string
	// Limit caps the number of rows. 0 means no limit.
	Limit int
}

// CreateChecklist stores a new checklist. An empty ID is derived from the
// name and made unique; timestamps, task IDs and status are filled in.
func (s *Store) CreateChecklist(c *model.Checklist) error {
	now := s.now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	c.AssignTaskIDs()
	c.RefreshStatus(now)
	if err := c.Validate(); err != nil {
		return err
	}

	return s.withWriteLock(func(tx *sql.Tx) error {
		if c.ID == "" {
			id, err := uniqueRowID(tx, "checklists", model.NewID(c.Name))
			if err != nil {
				return err
			}
			c.ID = id
		}

		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to encode checklist: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO checklists (id, name, client_name, client_address, status, template_id, body, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Client.Name, c.Client.Address, string(c.Status), nullString(c.TemplateID),
			string(body), c.CreatedAt.Unix(), c.UpdatedAt.Unix())
		if err != nil {
			if isConstraintErr(err) {
				return fmt.Errorf("checklist %q already exists", c.ID)
			}
			return fmt.Errorf("failed to insert checklist: %w", err)
		}
		s.logger.Debug("checklist created", "id", c.ID)
		return nil
	})
}

// UpdateChecklist replaces a stored checklist and bumps UpdatedAt.
func (s *Store) UpdateChecklist(c *model.Checklist) error {
	now := s.now().UTC()
	c.UpdatedAt = now
	c.AssignTaskIDs()
	c.RefreshStatus(now)
	if err := c.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}

	return s.withWriteLock(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE checklists
			SET name = ?, client_name = ?, client_address = ?, status = ?, template_id = ?, body = ?, updated_at = ?
			WHERE id = ?`,
			c.Name, c.Client.Name, c.Client.Address, string(c.Status), nullString(c.TemplateID),
			string(body), c.UpdatedAt.Unix(), c.ID)
		if err != nil {
			return fmt.Errorf("failed to update checklist: %w", err)
		}
		return requireAffected(res, "checklist", c.ID)
	})
}

// GetChecklist loads one checklist by ID.
func (s *Store) GetChecklist(id string) (*model.Checklist, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM checklists WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checklist %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checklist: %w", err)
	}
	return decodeChecklist(body)
}

// DeleteChecklist removes a checklist.
func (s *Store) DeleteChecklist(id string) error {
	return s.withWriteLock(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM checklists WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete checklist: %w", err)
		}
		if err := requireAffected(res, "checklist", id); err != nil {
			return err
		}
		s.logger.Debug("checklist deleted", "id", id)
		return nil
	})
}

// ListChecklists returns checklists, most recently updated first.
func (s *Store) ListChecklists(filter ListFilter) ([]model.Checklist, error) {
	rows, err := s.queryChecklists(filter)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(r *sql.Rows) (model.Checklist, error) {
		var id, body string
		if err := r.Scan(&id, &body); err != nil {
			return model.Checklist{}, err
		}
		c, err := decodeChecklist(body)
		if err != nil {
			return model.Checklist{}, err
		}
		return *c, nil
	})
}

// ChecklistDocuments returns the raw JSON of each checklist in ListChecklists order.
func (s *Store) ChecklistDocuments(filter ListFilter) ([]Document, error) {
	rows, err := s.queryChecklists(filter)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(r *sql.Rows) (Document, error) {
		var d Document
		var body string
		err := r.Scan(&d.ID, &body)
		d.Body = []byte(body)
		return d, err
	})
}

func (s *Store) queryChecklists(filter ListFilter) (*sql.Rows, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if c := strings.TrimSpace(filter.Client); c != "" {
		where = append(where, "client_name = ? COLLATE NOCASE")
		args = append(args, c)
	}

	q := `SELECT id, body FROM checklists`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY updated_at DESC, id"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	return rows, nil
}

func decodeChecklist(body string) (*model.Checklist, error) {
	var c model.Checklist
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		return nil, fmt.Errorf("failed to decode checklist: %w", err)
	}
	return &c, nil
}

// uniqueRowID returns base or the first free base-N in table.
func uniqueRowID(tx *sql.Tx, table, base string) (string, error) {
	var lookupErr error
	id := model.UniqueID(base, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		var one int
		err := tx.QueryRow("SELECT 1 FROM "+table+" WHERE id = ?", candidate).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return false
		}
		if err != nil {
			lookupErr = err
			return false
		}
		return true
	})
	if lookupErr != nil {
		return "", fmt.Errorf("failed to allocate id: %w", lookupErr)
	}
	return id, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isConstraintErr(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// UpsertChecklist updates the checklist with c.ID when it exists, keeping
// its CreatedAt, and creates it otherwise. It reports whether a row was created.
func (s *Store) UpsertChecklist(c *model.Checklist) (bool, error) {
	if c.ID != "" {
		existing, err := s.GetChecklist(c.ID)
		switch {
		case err == nil:
			c.CreatedAt = existing.CreatedAt
			return false, s.UpdateChecklist(c)
		case !errors.Is(err, ErrNotFound):
			return false, err
		}
	}
	return true, s.CreateChecklist(c)
}
