package model

import "gopkg.in/yaml.v3"

// Client is the customer a checklist is prepared for.
type Client struct {
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// UnmarshalYAML accepts a bare client name as well as a mapping, so
// hand-written frontmatter can say "client: Jane Smith".
func (c *Client) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = Client{Name: value.Value}
		return nil
	}
	type plain Client
	return value.Decode((*plain)(c))
}

// PropertyType classifies the property being cleaned.
type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyApartment PropertyType = "apartment"
	PropertyOffice    PropertyType = "office"
	PropertyOther     PropertyType = "other"
)

// PropertyTypes lists the accepted property types in display order.
var PropertyTypes = []PropertyType{PropertyHouse, PropertyApartment, PropertyOffice, PropertyOther}

// Property describes the site.
type Property struct {
	Type       PropertyType `json:"type,omitempty" yaml:"type,omitempty"`
	Bedrooms   int          `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty"`
	Bathrooms  int          `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty"`
	SquareFeet int          `json:"square_feet,omitempty" yaml:"square_feet,omitempty"`
	Pets       bool         `json:"pets,omitempty" yaml:"pets,omitempty"`
	Notes      string       `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Room groups the tasks for one area of the property.
type Room struct {
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Tasks    []Task `json:"tasks" yaml:"tasks"`
}

// Task is one checkable unit of work.
type Task struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Done  bool   `json:"done" yaml:"done"`
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`

	// Room is filled in by Checklist.AllTasks and catalog listings; it is
	// not persisted inside a room's own task list.
	Room string `json:"room,omitempty" yaml:"-"`
}

// GetID returns the room name.
func (r Room) GetID() string { return r.Name }

// GetKind returns "room".
func (r Room) GetKind() string { return "room" }

// GetContent returns the room name.
func (r Room) GetContent() string { return r.Name }

// GetLocation returns the room category.
func (r Room) GetLocation() string { return r.Category }

// GetID returns the task ID.
func (t Task) GetID() string { return t.ID }

// GetKind returns "task".
func (t Task) GetKind() string { return "task" }

// GetContent returns the task name.
func (t Task) GetContent() string { return t.Name }

// GetLocation returns the room the task belongs to.
func (t Task) GetLocation() string { return t.Room }
