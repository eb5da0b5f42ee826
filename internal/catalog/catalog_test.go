package catalog

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("failed to load built-in catalog: %v", err)
	}

	if len(c.Rooms()) == 0 {
		t.Fatal("expected built-in rooms")
	}

	kitchen, ok := c.Room("kitchen")
	if !ok {
		t.Fatal("expected Kitchen room")
	}
	if kitchen.Category != "kitchen" || len(kitchen.Tasks) == 0 {
		t.Errorf("unexpected kitchen room: %+v", kitchen)
	}

	tpl, ok := c.Template("standard-home")
	if !ok {
		t.Fatal("expected standard-home template")
	}
	if !tpl.BuiltIn || len(tpl.Rooms) != 5 {
		t.Errorf("unexpected template: %+v", tpl)
	}

	for _, task := range c.Tasks() {
		if task.Room == "" || task.ID == "" {
			t.Errorf("task %q has no room or id", task.Name)
		}
	}

	cats := c.Categories()
	if len(cats) == 0 || cats[0] != "kitchen" {
		t.Errorf("unexpected categories %v", cats)
	}
}

func TestRoomsAreCopies(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rooms := c.Rooms()
	rooms[0].Tasks[0].Name = "changed"

	again, _ := c.Room(rooms[0].Name)
	if again.Tasks[0].Name == "changed" {
		t.Error("catalog rooms must not be shared with callers")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown room", "rooms:\n  - name: Kitchen\ntemplates:\n  - name: T\n    rooms: [Attic]\n", "unknown room"},
		{"duplicate room", "rooms:\n  - name: Kitchen\n  - name: kitchen\n", "defined twice"},
		{"empty template", "rooms:\n  - name: Kitchen\ntemplates:\n  - name: T\n", "at least one room"},
		{"bad yaml", "rooms: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
