package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/model"
)

func newWizard(t *testing.T) *Wizard {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	return New(cat, nil)
}

var buildTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestWizardFlow(t *testing.T) {
	w := newWizard(t)

	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete without a client, got %v", err)
	}
	if w.Step() != StepClient {
		t.Fatalf("expected to stay on client step, got %s", w.Step())
	}

	w.SetClient(model.Client{Name: "  Jane Smith ", Address: "12 Elm St"})
	mustNext(t, w)

	w.SetProperty(model.Property{Type: model.PropertyHouse, Bedrooms: 3, Bathrooms: 2})
	mustNext(t, w)

	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete without rooms, got %v", err)
	}
	kitchen, err := w.AddRoom("kitchen")
	if err != nil {
		t.Fatalf("AddRoom: %v", err)
	}
	if kitchen.Name != "Kitchen" || len(kitchen.Tasks) == 0 {
		t.Errorf("expected catalog kitchen with tasks, got %+v", kitchen)
	}
	if _, err := w.AddRoom("Sunroom"); err != nil {
		t.Fatalf("AddRoom custom: %v", err)
	}
	if _, err := w.AddRoom("KITCHEN"); err == nil {
		t.Error("expected duplicate room error")
	}
	mustNext(t, w)

	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected custom room without tasks to block, got %v", err)
	}
	if err := w.AddTask("sunroom", "Water plants"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	mustNext(t, w)

	if w.Step() != StepReview {
		t.Fatalf("expected review step, got %s", w.Step())
	}
	mustNext(t, w)
	if w.Step() != StepReview {
		t.Fatalf("Next on review should stay put, got %s", w.Step())
	}

	c, err := w.Build(buildTime)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Name != "Jane Smith 2026-03-01" {
		t.Errorf("unexpected default name %q", c.Name)
	}
	if c.Status != model.StatusDraft || len(c.Rooms) != 2 {
		t.Errorf("unexpected checklist %+v", c)
	}
	if c.Rooms[1].Tasks[0].ID != "sunroom-water-plants" {
		t.Errorf("expected task IDs assigned, got %q", c.Rooms[1].Tasks[0].ID)
	}
}

func TestWizardNavigation(t *testing.T) {
	w := newWizard(t)

	if w.Back() {
		t.Error("Back on the first step should report false")
	}
	if err := w.Jump(StepRooms); !errors.Is(err, ErrNotVisited) {
		t.Fatalf("expected ErrNotVisited, got %v", err)
	}

	w.SetClient(model.Client{Name: "Omar"})
	mustNext(t, w)
	mustNext(t, w)

	if !w.Back() || w.Step() != StepProperty {
		t.Fatalf("expected back to property, got %s", w.Step())
	}
	if err := w.Jump(StepRooms); err != nil {
		t.Fatalf("jump to a visited step: %v", err)
	}
	if err := w.Jump(StepClient); err != nil {
		t.Fatalf("jump to client: %v", err)
	}
	if !w.Visited(StepRooms) || w.Visited(StepTasks) {
		t.Error("unexpected visited set")
	}
}

func TestWizardPropertyValidation(t *testing.T) {
	w := newWizard(t)
	w.SetClient(model.Client{Name: "Omar"})
	mustNext(t, w)

	w.SetProperty(model.Property{Type: "castle"})
	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected unknown type to block, got %v", err)
	}
	w.SetProperty(model.Property{Bedrooms: -1})
	if err := w.Next(); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected negative count to block, got %v", err)
	}
}

func TestSuggestRoomsSkipsSelected(t *testing.T) {
	w := newWizard(t)
	if _, err := w.AddRoom("Bathroom"); err != nil {
		t.Fatal(err)
	}

	got := w.SuggestRooms("bath")
	if len(got) != 1 || got[0].Item.Name != "Half Bath" {
		names := make([]string, len(got))
		for i, r := range got {
			names[i] = r.Item.Name
		}
		t.Fatalf("expected only Half Bath, got %v", names)
	}
}

func TestRemoveRoomAndTask(t *testing.T) {
	w := newWizard(t)
	if _, err := w.AddRoom("Patio"); err != nil {
		t.Fatal(err)
	}
	if !w.RemoveTask("patio", "sweep patio") {
		t.Error("expected task removal")
	}
	if len(w.Rooms()[0].Tasks) != 1 {
		t.Errorf("expected one remaining task, got %v", w.Rooms()[0].Tasks)
	}
	if w.RemoveTask("Attic", "Dust") {
		t.Error("removing from an unselected room should fail")
	}
	if !w.RemoveRoom("PATIO") || len(w.Rooms()) != 0 {
		t.Error("expected room removal")
	}
}

func TestFromTemplate(t *testing.T) {
	w := newWizard(t)
	cat, _ := catalog.Default()
	tpl, ok := cat.Template("apartment-refresh")
	if !ok {
		t.Fatal("missing template")
	}
	w.FromTemplate(tpl)
	w.SetClient(model.Client{Name: "Lee"})
	w.SetName("Lee weekly")

	c, err := w.Build(buildTime)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.TemplateID != "apartment-refresh" || len(c.Rooms) != 4 {
		t.Errorf("unexpected checklist from template: %+v", c)
	}
	if c.Name != "Lee weekly" {
		t.Errorf("expected explicit name, got %q", c.Name)
	}
}

func TestBuildRequiresEverything(t *testing.T) {
	w := newWizard(t)
	w.SetClient(model.Client{Name: "Lee"})
	if _, err := w.Build(buildTime); !errors.Is(err, ErrStepIncomplete) {
		t.Fatalf("expected ErrStepIncomplete, got %v", err)
	}
}

func TestParseStep(t *testing.T) {
	for s := StepClient; s <= StepReview; s++ {
		got, err := ParseStep(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStep(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStep("payment"); err == nil {
		t.Error("expected error for unknown step")
	}
}

func mustNext(t *testing.T, w *Wizard) {
	t.Helper()
	if err := w.Next(); err != nil {
		t.Fatalf("Next from %s: %v", w.Step(), err)
	}
}
