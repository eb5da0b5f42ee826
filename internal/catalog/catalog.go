// Package catalog provides the built-in room, task and template library.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/broom/internal/model"
)

//go:embed catalog.yaml
var builtin []byte

type roomDef struct {
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Tasks    []string `yaml:"tasks"`
}

type templateDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Rooms       []string `yaml:"rooms"`
}

type file struct {
	Rooms     []roomDef     `yaml:"rooms"`
	Templates []templateDef `yaml:"templates"`
}

// Catalog is a parsed room and template library.
type Catalog struct {
	rooms     []model.Room
	byName    map[string]int
	templates []model.Template
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(builtin)
	})
	return defaultCat, defaultErr
}

// Parse reads a catalog document. Template room names must refer to rooms
// defined in the same document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{byName: make(map[string]int, len(f.Rooms))}
	for _, rd := range f.Rooms {
		key := strings.ToLower(strings.TrimSpace(rd.Name))
		if key == "" {
			return nil, fmt.Errorf("catalog room without a name")
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("catalog room %q defined twice", rd.Name)
		}
		room := model.Room{Name: rd.Name, Category: rd.Category}
		for _, name := range rd.Tasks {
			room.Tasks = append(room.Tasks, model.Task{Name: name})
		}
		c.byName[key] = len(c.rooms)
		c.rooms = append(c.rooms, room)
	}

	for _, td := range f.Templates {
		tpl := model.Template{ID: td.ID, Name: td.Name, Description: td.Description, BuiltIn: true}
		if tpl.ID == "" {
			tpl.ID = model.NewID(td.Name)
		}
		for _, rn := range td.Rooms {
			room, ok := c.Room(rn)
			if !ok {
				return nil, fmt.Errorf("template %q references unknown room %q", td.Name, rn)
			}
			tpl.Rooms = append(tpl.Rooms, room)
		}
		if err := tpl.Validate(); err != nil {
			return nil, fmt.Errorf("template %q: %w", td.Name, err)
		}
		c.templates = append(c.templates, tpl)
	}
	return c, nil
}

// Rooms returns copies of every room in catalog order.
func (c *Catalog) Rooms() []model.Room {
	out := make([]model.Room, len(c.rooms))
	for i, r := range c.rooms {
		out[i] = cloneRoom(r)
	}
	return out
}

// Room looks a room up by name, ignoring case.
func (c *Catalog) Room(name string) (model.Room, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.Room{}, false
	}
	return cloneRoom(c.rooms[i]), true
}

// Tasks returns every catalog task with Room and ID set, in catalog order.
func (c *Catalog) Tasks() []model.Task {
	var tasks []model.Task
	for _, r := range c.rooms {
		for _, t := range r.Tasks {
			t.Room = r.Name
			t.ID = model.NewID(r.Name + " " + t.Name)
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Categories returns the distinct room categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.rooms {
		if r.Category != "" && !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// Templates returns copies of the built-in templates.
func (c *Catalog) Templates() []model.Template {
	out := make([]model.Template, len(c.templates))
	for i, t := range c.templates {
		t.Rooms = cloneRooms(t.Rooms)
		out[i] = t
	}
	return out
}

// Template looks a built-in template up by ID.
func (c *Catalog) Template(id string) (model.Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			t.Rooms = cloneRooms(t.Rooms)
			return t, true
		}
	}
	return model.Template{}, false
}

func cloneRoom(r model.Room) model.Room {
	r.Tasks = append([]model.Task(nil), r.Tasks...)
	return r
}

func cloneRooms(rs []model.Room) []model.Room {
	out := make([]model.Room, len(rs))
	for i, r := range rs {
		out[i] = cloneRoom(r)
	}
	return out
}
