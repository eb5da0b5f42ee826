package model

import (
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func sampleChecklist() Checklist {
	c := Checklist{
		Name:   "Weekly clean",
		Client: Client{Name: "Jane Smith", Address: "12 Elm St"},
		Rooms: []Room{
			{Name: "Kitchen", Category: "kitchen", Tasks: []Task{{Name: "Wipe counters"}, {Name: "Mop floor"}}},
			{Name: "Main Bathroom", Category: "bathroom", Tasks: []Task{{Name: "Scrub tub"}}},
		},
	}
	c.AssignTaskIDs()
	return c
}

func TestNewID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Weekly Clean", "weekly-clean"},
		{"  Café Déjà vu ", "cafe-deja-vu"},
		{"!!!", "item"},
		{"", "item"},
	}
	for _, tt := range tests {
		if got := NewID(tt.in); got != tt.want {
			t.Errorf("NewID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueID(t *testing.T) {
	used := map[string]bool{"mop": true, "mop-2": true}
	if got := uniqueID("mop", used); got != "mop-3" {
		t.Errorf("expected mop-3, got %q", got)
	}
	if got := uniqueID("broom", used); got != "broom" {
		t.Errorf("expected broom, got %q", got)
	}
}

func TestAssignTaskIDs(t *testing.T) {
	c := sampleChecklist()
	want := []string{"kitchen-wipe-counters", "kitchen-mop-floor", "main-bathroom-scrub-tub"}
	got := c.AllTasks()
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i, task := range got {
		if task.ID != want[i] {
			t.Errorf("task %d: expected ID %q, got %q", i, want[i], task.ID)
		}
	}
	if got[2].Room != "Main Bathroom" {
		t.Errorf("expected room to be filled in, got %q", got[2].Room)
	}

	t.Run("duplicate names get suffixes", func(t *testing.T) {
		c := Checklist{Rooms: []Room{{Name: "Hall", Tasks: []Task{{Name: "Dust"}, {Name: "Dust"}}}}}
		c.AssignTaskIDs()
		if c.Rooms[0].Tasks[1].ID != "hall-dust-2" {
			t.Errorf("expected hall-dust-2, got %q", c.Rooms[0].Tasks[1].ID)
		}
	})
}

func TestTaskLookup(t *testing.T) {
	c := sampleChecklist()

	byID, err := c.Task("kitchen-mop-floor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Name != "Mop floor" {
		t.Errorf("expected Mop floor, got %q", byID.Name)
	}

	byPos, err := c.Task("3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byPos.Name != "Scrub tub" {
		t.Errorf("expected Scrub tub, got %q", byPos.Name)
	}

	if _, err := c.Task("4"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	c := sampleChecklist()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	c.RefreshStatus(now)
	if c.Status != StatusDraft {
		t.Fatalf("expected draft, got %s", c.Status)
	}

	if _, err := c.SetTaskDone("1", true, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusInProgress {
		t.Errorf("expected in_progress, got %s", c.Status)
	}

	for _, ref := range []string{"2", "3"} {
		if _, err := c.SetTaskDone(ref, true, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if c.Status != StatusCompleted || c.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %s %v", c.Status, c.CompletedAt)
	}
	if p := c.Progress(); p.String() != "3/3 (100%)" {
		t.Errorf("unexpected progress %s", p)
	}

	if _, err := c.SetTaskDone("2", false, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Status != StatusInProgress || c.CompletedAt != nil {
		t.Errorf("expected in_progress without completion time, got %s %v", c.Status, c.CompletedAt)
	}
}

func TestValidate(t *testing.T) {
	c := sampleChecklist()
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Rooms = append(c.Rooms, Room{Name: "kitchen "})
	if err := c.Validate(); err == nil {
		t.Error("expected duplicate room error")
	}

	empty := Checklist{Name: "x"}
	if err := empty.Validate(); err == nil {
		t.Error("expected missing client error")
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	c := sampleChecklist()
	c.Rooms[0].Tasks[0].Done = true
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tpl := FromChecklist(&c, "Standard", "two rooms", now)
	if err := tpl.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.Rooms[0].Tasks[0].Done || tpl.Rooms[0].Tasks[0].ID != "" {
		t.Error("template tasks should not carry state")
	}

	fresh := tpl.Instantiate("Next week", Client{Name: "Jane Smith"}, now)
	if fresh.Status != StatusDraft {
		t.Errorf("expected draft, got %s", fresh.Status)
	}
	if fresh.Progress().Total != 3 || fresh.Progress().Done != 0 {
		t.Errorf("unexpected progress %s", fresh.Progress())
	}
	if fresh.Rooms[0].Tasks[0].ID != "kitchen-wipe-counters" {
		t.Errorf("expected task IDs assigned, got %q", fresh.Rooms[0].Tasks[0].ID)
	}
}

func TestClientUnmarshalYAML(t *testing.T) {
	var short struct {
		Client Client `yaml:"client"`
	}
	if err := yaml.Unmarshal([]byte("client: Jane Smith\n"), &short); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short.Client.Name != "Jane Smith" || short.Client.Address != "" {
		t.Errorf("unexpected client %+v", short.Client)
	}

	var full struct {
		Client Client `yaml:"client"`
	}
	doc := "client:\n  name: Omar Haddad\n  address: 4 Bay Rd\n"
	if err := yaml.Unmarshal([]byte(doc), &full); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full.Client.Name != "Omar Haddad" || full.Client.Address != "4 Bay Rd" {
		t.Errorf("unexpected client %+v", full.Client)
	}
}
