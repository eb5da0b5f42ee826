package model

import (
	"errors"
	"strings"
	"time"
)

// Template is a reusable room/task layout for new checklists.
type Template struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Rooms       []Room    `json:"rooms" yaml:"rooms"`
	BuiltIn     bool      `json:"built_in,omitempty" yaml:"-"`
	CreatedAt   time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Validate checks the template has a name and at least one room.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("template name is required")
	}
	if len(t.Rooms) == 0 {
		return errors.New("template needs at least one room")
	}
	return nil
}

// Instantiate builds a fresh draft checklist from the template. Tasks are
// copied with Done cleared and IDs assigned.
func (t *Template) Instantiate(name string, client Client, now time.Time) Checklist {
	rooms := make([]Room, len(t.Rooms))
	for i, r := range t.Rooms {
		tasks := make([]Task, len(r.Tasks))
		for j, task := range r.Tasks {
			tasks[j] = Task{Name: task.Name, Notes: task.Notes}
		}
		rooms[i] = Room{Name: r.Name, Category: r.Category, Tasks: tasks}
	}

	c := Checklist{
		Name:       name,
		Client:     client,
		Rooms:      rooms,
		Status:     StatusDraft,
		TemplateID: t.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.AssignTaskIDs()
	return c
}

// FromChecklist captures a checklist's rooms and tasks as a template.
func FromChecklist(c *Checklist, name, description string, now time.Time) Template {
	rooms := make([]Room, len(c.Rooms))
	for i, r := range c.Rooms {
		tasks := make([]Task, len(r.Tasks))
		for j, task := range r.Tasks {
			tasks[j] = Task{Name: task.Name, Notes: task.Notes}
		}
		rooms[i] = Room{Name: r.Name, Category: r.Category, Tasks: tasks}
	}
	return Template{
		Name:        name,
		Description: description,
		Rooms:       rooms,
		CreatedAt:   now,
	}
}

// GetID returns the template ID.
func (t Template) GetID() string { return t.ID }

// GetKind returns "template".
func (t Template) GetKind() string { return "template" }

// GetContent returns the template name.
func (t Template) GetContent() string { return t.Name }

// GetLocation returns the description.
func (t Template) GetLocation() string { return t.Description }
