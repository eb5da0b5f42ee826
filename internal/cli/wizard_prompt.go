package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/ui"
	"github.com/aidanlsb/broom/internal/wizard"
)

var (
	errWizardCancelled = errors.New("wizard cancelled")
	errBack            = errors.New("back")
	errRetry           = errors.New("retry")
)

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask reads one line. Blank input keeps current; "<" goes back and "q" quits.
func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s %s: ", label, ui.Hint("["+current+"]"))
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return "", errWizardCancelled
		}
		return "", err
	}
	switch line = strings.TrimSpace(line); line {
	case "":
		return current, nil
	case "<":
		return "", errBack
	case "q":
		return "", errWizardCancelled
	}
	return line, nil
}

func (p *prompter) askInt(label string, current int) (int, error) {
	cur := ""
	if current != 0 {
		cur = strconv.Itoa(current)
	}
	s, err := p.ask(label, cur)
	if err != nil || s == "" {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintln(p.out, ui.Warningf("%s must be a number", label))
		return 0, errRetry
	}
	return n, nil
}

// runWizard drives w through every step until the user confirms the review.
func runWizard(w *wizard.Wizard, cat *catalog.Catalog, in io.Reader, out io.Writer) error {
	p := &prompter{in: bufio.NewReader(in), out: out}
	fmt.Fprintln(out, ui.Hint("Enter '<' to go back, 'q' to quit."))

	for {
		fmt.Fprintf(out, "\n%s\n", ui.Header(stepTitle(w.Step())))

		var (
			err  error
			done bool
		)
		step := w.Step()
		switch step {
		case wizard.StepClient:
			err = p.clientStep(w)
		case wizard.StepProperty:
			err = p.propertyStep(w)
		case wizard.StepRooms:
			err = p.roomsStep(w, cat)
		case wizard.StepTasks:
			err = p.tasksStep(w)
		case wizard.StepReview:
			done, err = p.reviewStep(w)
		}

		switch {
		case errors.Is(err, errBack):
			if !w.Back() {
				fmt.Fprintln(out, ui.Hint("Already at the first step."))
			}
			continue
		case errors.Is(err, errRetry):
			continue
		case err != nil:
			return err
		case done:
			return nil
		case step == wizard.StepReview:
			continue
		}
		if err := w.Next(); err != nil {
			fmt.Fprintln(out, ui.Warning(err.Error()))
		}
	}
}

func stepTitle(s wizard.Step) string {
	titles := map[wizard.Step]string{
		wizard.StepClient:   "1/5 Client",
		wizard.StepProperty: "2/5 Property",
		wizard.StepRooms:    "3/5 Rooms",
		wizard.StepTasks:    "4/5 Tasks",
		wizard.StepReview:   "5/5 Review",
	}
	return titles[s]
}

func (p *prompter) clientStep(w *wizard.Wizard) error {
	c := w.Client()
	fields := []struct {
		label string
		dst   *string
	}{
		{"Client name", &c.Name},
		{"Phone", &c.Phone},
		{"Email", &c.Email},
		{"Address", &c.Address},
	}
	for _, f := range fields {
		v, err := p.ask(f.label, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	w.SetClient(c)
	return nil
}

func (p *prompter) propertyStep(w *wizard.Wizard) error {
	prop := w.Property()
	kind, err := p.ask("Property type (house, apartment, office, other)", string(prop.Type))
	if err != nil {
		return err
	}
	prop.Type = model.PropertyType(strings.ToLower(kind))
	if prop.Bedrooms, err = p.askInt("Bedrooms", prop.Bedrooms); err != nil {
		return err
	}
	if prop.Bathrooms, err = p.askInt("Bathrooms", prop.Bathrooms); err != nil {
		return err
	}
	if prop.Notes, err = p.ask("Notes", prop.Notes); err != nil {
		return err
	}
	w.SetProperty(prop)
	return nil
}

// roomsStep adds rooms until a blank line. Input is matched against the
// room library: the best fuzzy hit is added, "+name" adds a custom room,
// "-name" removes one and "?query" lists matches.
func (p *prompter) roomsStep(w *wizard.Wizard, cat *catalog.Catalog) error {
	for {
		printRoomNames(p.out, w.Rooms())
		in, err := p.ask("Add room (blank when done)", "")
		if err != nil {
			return err
		}
		switch {
		case in == "":
			return nil
		case strings.HasPrefix(in, "-"):
			if !w.RemoveRoom(in[1:]) {
				fmt.Fprintln(p.out, ui.Warningf("%s is not selected", in[1:]))
			}
		case strings.HasPrefix(in, "+"):
			if _, err := w.AddRoom(in[1:]); err != nil {
				fmt.Fprintln(p.out, ui.Warning(err.Error()))
			}
		case strings.HasPrefix(in, "?"):
			hits := w.SuggestRooms(in[1:])
			for i, h := range hits[:min(len(hits), 8)] {
				fmt.Fprintf(p.out, "  %s %s %s\n", ui.Hint(strconv.Itoa(i+1)), h.Item.Name, ui.Hint(h.Item.Category))
			}
		default:
			name := in
			if _, ok := cat.Room(in); !ok {
				hits := w.SuggestRooms(in)
				if len(hits) == 0 {
					fmt.Fprintln(p.out, ui.Warningf("no library room matches %q; use +%s for a custom room", in, in))
					continue
				}
				name = hits[0].Item.Name
			}
			if room, err := w.AddRoom(name); err != nil {
				fmt.Fprintln(p.out, ui.Warning(err.Error()))
			} else {
				fmt.Fprintln(p.out, ui.Successf("Added %s %s", room.Name, ui.Count(len(room.Tasks), "task", "tasks")))
			}
		}
	}
}

// tasksStep takes "Room: task" lines until a blank line; a leading "-"
// removes the task instead.
func (p *prompter) tasksStep(w *wizard.Wizard) error {
	for {
		for _, r := range w.Rooms() {
			fmt.Fprintf(p.out, "%s %s\n", ui.Header(r.Name), ui.Count(len(r.Tasks), "task", "tasks"))
			for _, t := range r.Tasks {
				fmt.Fprintf(p.out, "  - %s\n", t.Name)
			}
		}
		in, err := p.ask("Add task as 'Room: task' (blank when done)", "")
		if err != nil {
			return err
		}
		if in == "" {
			return nil
		}
		remove := strings.HasPrefix(in, "-")
		room, task, ok := strings.Cut(strings.TrimPrefix(in, "-"), ":")
		if !ok {
			fmt.Fprintln(p.out, ui.Warning("use 'Room: task'"))
			continue
		}
		if remove {
			if !w.RemoveTask(room, strings.TrimSpace(task)) {
				fmt.Fprintln(p.out, ui.Warningf("no task %q in %s", strings.TrimSpace(task), room))
			}
			continue
		}
		if err := w.AddTask(room, task); err != nil {
			fmt.Fprintln(p.out, ui.Warning(err.Error()))
		}
	}
}

// reviewStep shows the draft. It reports true once the user confirms; a
// step name jumps back to that step.
func (p *prompter) reviewStep(w *wizard.Wizard) (bool, error) {
	draft, err := w.Build(now())
	if err != nil {
		fmt.Fprintln(p.out, ui.Warning(err.Error()))
	} else {
		fmt.Fprintf(p.out, "%s for %s\n", ui.Bold.Render(draft.Name), draft.Client.Name)
		for _, r := range draft.Rooms {
			fmt.Fprintf(p.out, "  %s %s\n", r.Name, ui.Count(len(r.Tasks), "task", "tasks"))
		}
	}

	in, err := p.ask("Create checklist? (y, or client/property/rooms/tasks to edit)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(in) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, errWizardCancelled
	}
	step, err := wizard.ParseStep(strings.ToLower(in))
	if err != nil {
		fmt.Fprintln(p.out, ui.Warning(err.Error()))
		return false, nil
	}
	if err := w.Jump(step); err != nil {
		fmt.Fprintln(p.out, ui.Warning(err.Error()))
	}
	return false, nil
}

func printRoomNames(out io.Writer, rooms []model.Room) {
	if len(rooms) == 0 {
		fmt.Fprintln(out, ui.Hint("No rooms selected."))
		return
	}
	names := make([]string, len(rooms))
	for i, r := range rooms {
		names[i] = r.Name
	}
	fmt.Fprintf(out, "Selected: %s\n", strings.Join(names, ", "))
}
