// Package wizard drives multi-step checklist creation: client details,
// property details, room selection, task selection and a final review.
package wizard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/fuzzy"
	"github.com/aidanlsb/broom/internal/model"
)

// Step identifies a wizard page.
type Step int

const (
	StepClient Step = iota
	StepProperty
	StepRooms
	StepTasks
	StepReview
)

var stepNames = [...]string{"client", "property", "rooms", "tasks", "review"}

func (s Step) String() string {
	if s < StepClient || s > StepReview {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep converts a step name back to a Step.
func ParseStep(name string) (Step, error) {
	i := slices.Index(stepNames[:], strings.ToLower(strings.TrimSpace(name)))
	if i < 0 {
		return 0, fmt.Errorf("unknown step %q", name)
	}
	return Step(i), nil
}

var (
	// ErrStepIncomplete is returned by Next and Build when the current
	// step's required input is missing.
	ErrStepIncomplete = errors.New("step incomplete")
	// ErrNotVisited is returned by Jump for a step the user has not reached.
	ErrNotVisited = errors.New("step not visited yet")
)

// Wizard holds the in-progress checklist. It is not safe for concurrent use.
type Wizard struct {
	step     Step
	furthest Step
	catalog  *catalog.Catalog
	rooms    *fuzzy.Matcher[model.Room]

	name       string
	templateID string
	client     model.Client
	property   model.Property
	selected   []model.Room
}

// New starts a wizard on the client step. rooms ranks catalog rooms for
// SuggestRooms; nil uses default settings.
func New(cat *catalog.Catalog, rooms *fuzzy.Matcher[model.Room]) *Wizard {
	if rooms == nil {
		rooms, _ = fuzzy.NewMatcher([]fuzzy.Field[model.Room]{
			fuzzy.Func("name", func(r model.Room) string { return r.Name }),
			fuzzy.Func("category", func(r model.Room) string { return r.Category }),
		}, fuzzy.DefaultOptions())
	}
	return &Wizard{catalog: cat, rooms: rooms}
}

// FromTemplate preselects the template's rooms and tasks.
func (w *Wizard) FromTemplate(t model.Template) {
	w.templateID = t.ID
	w.selected = nil
	for _, r := range t.Rooms {
		tasks := make([]model.Task, len(r.Tasks))
		for i, task := range r.Tasks {
			tasks[i] = model.Task{Name: task.Name, Notes: task.Notes}
		}
		w.selected = append(w.selected, model.Room{Name: r.Name, Category: r.Category, Tasks: tasks})
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Visited reports whether s has been reached.
func (w *Wizard) Visited(s Step) bool { return s >= StepClient && s <= w.furthest }

// SetName sets the checklist name. Empty means derive from the client.
func (w *Wizard) SetName(name string) { w.name = strings.TrimSpace(name) }

// SetClient records the client details.
func (w *Wizard) SetClient(c model.Client) {
	c.Name = strings.TrimSpace(c.Name)
	w.client = c
}

// SetProperty records the property details.
func (w *Wizard) SetProperty(p model.Property) { w.property = p }

// Property returns the recorded property details.
func (w *Wizard) Property() model.Property { return w.property }

// Client returns the recorded client.
func (w *Wizard) Client() model.Client { return w.client }

// Rooms returns the selected rooms.
func (w *Wizard) Rooms() []model.Room { return slices.Clone(w.selected) }

// SuggestRooms ranks catalog rooms that are not selected yet.
func (w *Wizard) SuggestRooms(query string) []fuzzy.Result[model.Room] {
	var avail []model.Room
	for _, r := range w.catalog.Rooms() {
		if w.roomIndex(r.Name) < 0 {
			avail = append(avail, r)
		}
	}
	return w.rooms.Search(query, avail)
}

// AddRoom selects a room. Catalog rooms come with their default tasks;
// any other name adds an empty custom room.
func (w *Wizard) AddRoom(name string) (model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Room{}, errors.New("room name is required")
	}
	if w.roomIndex(name) >= 0 {
		return model.Room{}, fmt.Errorf("room %q already selected", name)
	}
	room, ok := w.catalog.Room(name)
	if !ok {
		room = model.Room{Name: name}
	}
	w.selected = append(w.selected, room)
	return room, nil
}

// RemoveRoom deselects a room.
func (w *Wizard) RemoveRoom(name string) bool {
	i := w.roomIndex(name)
	if i < 0 {
		return false
	}
	w.selected = slices.Delete(w.selected, i, i+1)
	return true
}

// AddTask appends a task to a selected room.
func (w *Wizard) AddTask(room, task string) error {
	i := w.roomIndex(room)
	if i < 0 {
		return fmt.Errorf("room %q is not selected", room)
	}
	task = strings.TrimSpace(task)
	if task == "" {
		return errors.New("task name is required")
	}
	w.selected[i].Tasks = append(w.selected[i].Tasks, model.Task{Name: task})
	return nil
}

// RemoveTask drops a task from a selected room by name.
func (w *Wizard) RemoveTask(room, task string) bool {
	i := w.roomIndex(room)
	if i < 0 {
		return false
	}
	tasks := w.selected[i].Tasks
	j := slices.IndexFunc(tasks, func(t model.Task) bool { return strings.EqualFold(t.Name, task) })
	if j < 0 {
		return false
	}
	w.selected[i].Tasks = slices.Delete(tasks, j, j+1)
	return true
}

func (w *Wizard) roomIndex(name string) int {
	name = strings.TrimSpace(name)
	return slices.IndexFunc(w.selected, func(r model.Room) bool { return strings.EqualFold(r.Name, name) })
}

// Next validates the current step and advances. On the review step it is a no-op.
func (w *Wizard) Next() error {
	if err := w.check(w.step); err != nil {
		return err
	}
	if w.step < StepReview {
		w.step++
		w.furthest = max(w.furthest, w.step)
	}
	return nil
}

// Back returns to the previous step. It reports false on the first step.
func (w *Wizard) Back() bool {
	if w.step == StepClient {
		return false
	}
	w.step--
	return true
}

// Jump moves to any step already visited.
func (w *Wizard) Jump(s Step) error {
	if !w.Visited(s) {
		return fmt.Errorf("%w: %s", ErrNotVisited, s)
	}
	w.step = s
	return nil
}

func (w *Wizard) check(s Step) error {
	switch s {
	case StepClient:
		if w.client.Name == "" {
			return fmt.Errorf("%w: client name is required", ErrStepIncomplete)
		}
	case StepProperty:
		p := w.property
		if p.Type != "" && !slices.Contains(model.PropertyTypes, p.Type) {
			return fmt.Errorf("%w: unknown property type %q", ErrStepIncomplete, p.Type)
		}
		if p.Bedrooms < 0 || p.Bathrooms < 0 || p.SquareFeet < 0 {
			return fmt.Errorf("%w: property counts must not be negative", ErrStepIncomplete)
		}
	case StepRooms:
		if len(w.selected) == 0 {
			return fmt.Errorf("%w: select at least one room", ErrStepIncomplete)
		}
	case StepTasks:
		for _, r := range w.selected {
			if len(r.Tasks) == 0 {
				return fmt.Errorf("%w: room %q has no tasks", ErrStepIncomplete, r.Name)
			}
		}
	}
	return nil
}

// Build validates every step and returns the draft checklist.
func (w *Wizard) Build(now time.Time) (model.Checklist, error) {
	for s := StepClient; s < StepReview; s++ {
		if err := w.check(s); err != nil {
			return model.Checklist{}, err
		}
	}

	name := w.name
	if name == "" {
		name = w.client.Name + " " + now.Format("2006-01-02")
	}
	rooms := make([]model.Room, len(w.selected))
	for i, r := range w.selected {
		r.Tasks = slices.Clone(r.Tasks)
		rooms[i] = r
	}

	c := model.Checklist{
		Name:       name,
		Client:     w.client,
		Property:   w.property,
		Rooms:      rooms,
		Status:     model.StatusDraft,
		TemplateID: w.templateID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.AssignTaskIDs()
	return c, c.Validate()
}
