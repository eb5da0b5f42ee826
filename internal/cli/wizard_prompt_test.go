package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/search"
	"github.com/aidanlsb/broom/internal/wizard"
)

func newTestWizard(t *testing.T) (*wizard.Wizard, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	m, err := search.Rooms((&config.Config{}).SearchProfile(config.SiteRooms), search.Settings{})
	if err != nil {
		t.Fatalf("search.Rooms: %v", err)
	}
	return wizard.New(cat, m), cat
}

func roomNames(rooms []model.Room) []string {
	names := make([]string, len(rooms))
	for i, r := range rooms {
		names[i] = r.Name
	}
	return names
}

func TestRunWizardScripted(t *testing.T) {
	w, cat := newTestWizard(t)
	script := strings.Join([]string{
		"Jane Smith", "", "", "12 Elm St", // client
		"house", "3", "2", "", // property
		"kit", "bath", "", // rooms
		"Kitchen: Descale kettle", "", // tasks
		"y", // review
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := runWizard(w, cat, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runWizard: %v\n%s", err, out.String())
	}

	if got := w.Client(); got.Name != "Jane Smith" || got.Address != "12 Elm St" {
		t.Errorf("unexpected client %+v", got)
	}
	if got := w.Property(); got.Type != model.PropertyHouse || got.Bedrooms != 3 || got.Bathrooms != 2 {
		t.Errorf("unexpected property %+v", got)
	}
	rooms := w.Rooms()
	if names := roomNames(rooms); len(names) != 2 || names[0] != "Kitchen" || names[1] != "Bathroom" {
		t.Fatalf("expected Kitchen and Bathroom, got %v", names)
	}
	kitchen := rooms[0].Tasks
	if kitchen[len(kitchen)-1].Name != "Descale kettle" {
		t.Errorf("expected added task last, got %+v", kitchen)
	}
	if !strings.Contains(out.String(), "5/5 Review") {
		t.Errorf("expected review step in output:\n%s", out.String())
	}
}

func TestRunWizardNavigation(t *testing.T) {
	w, cat := newTestWizard(t)
	script := strings.Join([]string{
		"Jane", "", "", "", // client
		"<",            // back to client
		"", "", "", "", // client again, keeping values
		"apartment", "", "", "", // property
		"+Lobby", "", // rooms: custom room
		"",                          // tasks: Lobby has none, stays on tasks
		"Lobby: Polish brass", "", // tasks
		"client",                   // review: jump back
		"Jane Doe", "", "", "", // client
		"", "", "", "", // property
		"-Lobby", "living room", "", // rooms: swap Lobby for a library room
		"", // tasks
		"y",
	}, "\n") + "\n"

	var out bytes.Buffer
	if err := runWizard(w, cat, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runWizard: %v\n%s", err, out.String())
	}

	if got := w.Client().Name; got != "Jane Doe" {
		t.Errorf("expected edited client name, got %q", got)
	}
	if got := w.Property().Type; got != model.PropertyApartment {
		t.Errorf("expected apartment, got %q", got)
	}
	if names := roomNames(w.Rooms()); len(names) != 1 || names[0] != "Living Room" {
		t.Errorf("expected Living Room only, got %v", names)
	}
	if !strings.Contains(out.String(), `room "Lobby" has no tasks`) {
		t.Errorf("expected incomplete tasks warning:\n%s", out.String())
	}
}

func TestRunWizardCancel(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "quit", script: "Jane\nq\n"},
		{name: "eof", script: "Jane\n"},
		{name: "decline review", script: "Jane\n\n\n\n\n\n\n\nkitchen\n\n\nn\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, cat := newTestWizard(t)
			var out bytes.Buffer
			err := runWizard(w, cat, strings.NewReader(tt.script), &out)
			if !errors.Is(err, errWizardCancelled) {
				t.Fatalf("expected cancel, got %v\n%s", err, out.String())
			}
		})
	}
}

func TestRunWizardRetriesBadNumber(t *testing.T) {
	w, cat := newTestWizard(t)
	script := "Jane\n\n\n\nhouse\nthree\nhouse\n3\n\n\nkitchen\n\n\ny\n"

	var out bytes.Buffer
	if err := runWizard(w, cat, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runWizard: %v\n%s", err, out.String())
	}
	if got := w.Property().Bedrooms; got != 3 {
		t.Errorf("expected 3 bedrooms, got %d", got)
	}
	if !strings.Contains(out.String(), "Bedrooms must be a number") {
		t.Errorf("expected retry warning:\n%s", out.String())
	}
}
