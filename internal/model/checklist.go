// Package model defines the checklist domain types shared across broom.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the lifecycle state of a checklist.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ErrTaskNotFound is returned when a task reference does not resolve.
var ErrTaskNotFound = errors.New("task not found")

// Checklist is one cleaning job: who it is for, where, and what to do.
type Checklist struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Client   Client   `json:"client" yaml:"client"`
	Property Property `json:"property" yaml:"property"`
	Rooms    []Room   `json:"rooms" yaml:"rooms"`
	Status   Status   `json:"status" yaml:"status"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`

	// TemplateID records the template the checklist was created from.
	TemplateID string `json:"template_id,omitempty" yaml:"template_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Progress summarizes task completion.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Percent returns completion as 0-100. An empty checklist is 0%.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Done * 100 / p.Total
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", p.Done, p.Total, p.Percent())
}

// Validate reports the first structural problem with the checklist.
func (c *Checklist) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("checklist name is required")
	}
	if strings.TrimSpace(c.Client.Name) == "" {
		return errors.New("client name is required")
	}
	seen := make(map[string]bool, len(c.Rooms))
	for _, r := range c.Rooms {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if key == "" {
			return errors.New("room name is required")
		}
		if seen[key] {
			return fmt.Errorf("duplicate room %q", r.Name)
		}
		seen[key] = true
	}
	return nil
}

// Progress counts done and total tasks across all rooms.
func (c *Checklist) Progress() Progress {
	var p Progress
	for _, r := range c.Rooms {
		for _, t := range r.Tasks {
			p.Total++
			if t.Done {
				p.Done++
			}
		}
	}
	return p
}

// AllTasks returns every task in room order, with Room set.
func (c *Checklist) AllTasks() []Task {
	var tasks []Task
	for _, r := range c.Rooms {
		for _, t := range r.Tasks {
			t.Room = r.Name
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Task finds a task by ID, or by 1-based position in AllTasks order.
func (c *Checklist) Task(ref string) (*Task, error) {
	ref = strings.TrimSpace(ref)
	n := 0
	pos, err := strconv.Atoi(ref)
	if err != nil {
		pos = -1
	}
	for ri := range c.Rooms {
		for ti := range c.Rooms[ri].Tasks {
			n++
			t := &c.Rooms[ri].Tasks[ti]
			if t.ID == ref || n == pos {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
}

// SetTaskDone marks a task done or not done and refreshes Status.
func (c *Checklist) SetTaskDone(ref string, done bool, now time.Time) (*Task, error) {
	t, err := c.Task(ref)
	if err != nil {
		return nil, err
	}
	t.Done = done
	c.UpdatedAt = now
	c.RefreshStatus(now)
	return t, nil
}

// RefreshStatus derives Status from task completion.
func (c *Checklist) RefreshStatus(now time.Time) {
	p := c.Progress()
	switch {
	case p.Total > 0 && p.Done == p.Total:
		if c.Status != StatusCompleted {
			done := now
			c.CompletedAt = &done
		}
		c.Status = StatusCompleted
	case p.Done > 0:
		c.Status = StatusInProgress
		c.CompletedAt = nil
	default:
		c.Status = StatusDraft
		c.CompletedAt = nil
	}
}

// AssignTaskIDs gives every task without an ID a stable one derived from its
// room and name.
func (c *Checklist) AssignTaskIDs() {
	used := make(map[string]bool)
	for _, r := range c.Rooms {
		for _, t := range r.Tasks {
			if t.ID != "" {
				used[t.ID] = true
			}
		}
	}
	for ri := range c.Rooms {
		room := &c.Rooms[ri]
		for ti := range room.Tasks {
			t := &room.Tasks[ti]
			if t.ID != "" {
				continue
			}
			t.ID = uniqueID(NewID(room.Name+" "+t.Name), used)
			used[t.ID] = true
		}
	}
}

// GetID returns the checklist ID.
func (c Checklist) GetID() string { return c.ID }

// GetKind returns "checklist".
func (c Checklist) GetKind() string { return "checklist" }

// GetContent returns the checklist name.
func (c Checklist) GetContent() string { return c.Name }

// GetLocation returns the client address, or the client name when no
// address is on file.
func (c Checklist) GetLocation() string {
	if c.Client.Address != "" {
		return c.Client.Address
	}
	return c.Client.Name
}
