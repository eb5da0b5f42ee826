package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/broom/internal/catalog"
	"github.com/aidanlsb/broom/internal/config"
	"github.com/aidanlsb/broom/internal/model"
	"github.com/aidanlsb/broom/internal/search"
	"github.com/aidanlsb/broom/internal/ui"
	"github.com/aidanlsb/broom/internal/wizard"
)

var (
	newName        string
	newTemplate    string
	newClient      model.Client
	newProperty    propertyFlag
	newBedrooms    int
	newBathrooms   int
	newSquareFeet  int
	newPets        bool
	newNotes       string
	newRooms       []string
	newTasks       []string
	newInteractive bool
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a checklist",
	Long: `Create a checklist for a client.

Rooms come from the built-in library (see 'broom rooms'); each library room
brings its default tasks. Any other room name adds an empty custom room that
needs at least one --task. A --template preselects its rooms and tasks.

Without --client on a terminal, an interactive wizard walks through the
client, property, rooms, tasks and review steps.

Examples:
  broom new --client "Jane Smith" --template standard-home
  broom new --client "Omar Haddad" --address "4 Bay Rd" --room kitchen --room bathroom
  broom new --client Acme --room Lobby --task "Lobby:Polish brass"
  broom new -i`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Default()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		roomMatcher, err := search.Rooms(getConfig().SearchProfile(config.SiteRooms), searchSettings())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Check [search.rooms] in your config")
		}
		w := wizard.New(cat, roomMatcher)

		if newTemplate != "" {
			tpl, err := loadTemplate(cmd.Context(), newTemplate)
			if tpl == nil {
				return err
			}
			w.FromTemplate(*tpl)
		}

		interactive := newInteractive || (strings.TrimSpace(newClient.Name) == "" && shouldPromptForConfirm())
		if interactive {
			if !isInteractive() || isJSONOutput() {
				return handleErrorMsg(ErrNotInteractive, "the wizard needs a terminal", "Pass --client and --room instead")
			}
			w.SetName(newName)
			if err := runWizard(w, cat, stdin, stdout); err != nil {
				if errors.Is(err, errWizardCancelled) {
					printLine(ui.Hint("Cancelled."))
					return nil
				}
				return err
			}
			return saveWizardChecklist(w, nil)
		}

		warnings, ok, err := applyNewFlags(w, cat)
		if !ok {
			return err
		}
		for w.Step() < wizard.StepReview {
			if err := w.Next(); err != nil {
				return handleError(ErrStepIncomplete, err, stepSuggestion(w.Step()))
			}
		}
		return saveWizardChecklist(w, warnings)
	},
}

// applyNewFlags feeds the flag values through the wizard steps. ok is false
// once an error has been reported; err is then nil in JSON mode.
func applyNewFlags(w *wizard.Wizard, cat *catalog.Catalog) (warnings []Warning, ok bool, err error) {
	if strings.TrimSpace(newClient.Name) == "" {
		return nil, false, handleErrorMsg(ErrMissingArgument, "--client is required", "Usage: broom new --client <name> [--room <room>]...")
	}
	w.SetName(newName)
	w.SetClient(newClient)
	w.SetProperty(model.Property{
		Type:       newProperty.kind,
		Bedrooms:   newBedrooms,
		Bathrooms:  newBathrooms,
		SquareFeet: newSquareFeet,
		Pets:       newPets,
		Notes:      newNotes,
	})

	for _, name := range newRooms {
		if _, known := cat.Room(name); !known {
			msg := fmt.Sprintf("'%s' is not a library room; added it with no tasks", name)
			if hits := w.SuggestRooms(name); len(hits) > 0 {
				msg += fmt.Sprintf("; did you mean '%s'?", hits[0].Item.Name)
			}
			warnings = append(warnings, Warning{Code: WarnCustomRoom, Message: msg, Ref: name})
		}
		if _, err := w.AddRoom(name); err != nil {
			return nil, false, handleError(ErrInvalidInput, err, "")
		}
	}

	for _, arg := range newTasks {
		room, task, found := strings.Cut(arg, ":")
		if !found {
			return nil, false, handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid --task %q", arg), "Use --task \"Room:Task name\"")
		}
		if err := w.AddTask(room, task); err != nil {
			return nil, false, handleError(ErrInvalidInput, err, "Add the room with --room first")
		}
	}
	return warnings, true, nil
}

func stepSuggestion(s wizard.Step) string {
	switch s {
	case wizard.StepClient:
		return "Pass --client <name>"
	case wizard.StepRooms:
		return "Add rooms with --room or start from --template (see 'broom rooms')"
	case wizard.StepTasks:
		return "Add tasks with --task \"Room:Task name\""
	}
	return ""
}

func saveWizardChecklist(w *wizard.Wizard, warnings []Warning) error {
	c, err := w.Build(now())
	if err != nil {
		return handleError(ErrStepIncomplete, err, "")
	}
	st, err := getStore()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	if err := st.CreateChecklist(&c); err != nil {
		return handleStoreError(ErrDatabaseError, err, "")
	}
	logger.Info("checklist created", "id", c.ID, "rooms", len(c.Rooms), "template", c.TemplateID)

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"checklist": c,
			"progress":  c.Progress(),
		}, warnings, nil)
		return nil
	}

	for _, warn := range warnings {
		printLine(ui.Warning(warn.Message))
	}
	printLine(ui.Successf("Created %s %s", ui.ID(c.ID), ui.Count(len(c.AllTasks()), "task", "tasks")))
	return nil
}

func init() {
	f := newCmd.Flags()
	f.StringVar(&newName, "name", "", "Checklist name (default: client and date)")
	f.StringVarP(&newTemplate, "template", "t", "", "Start from a template ID")
	f.StringVarP(&newClient.Name, "client", "c", "", "Client name")
	f.StringVar(&newClient.Phone, "phone", "", "Client phone")
	f.StringVar(&newClient.Email, "email", "", "Client email")
	f.StringVarP(&newClient.Address, "address", "a", "", "Property address")
	f.Var(&newProperty, "property", "Property type: house, apartment, office, other")
	f.IntVar(&newBedrooms, "bedrooms", 0, "Number of bedrooms")
	f.IntVar(&newBathrooms, "bathrooms", 0, "Number of bathrooms")
	f.IntVar(&newSquareFeet, "sqft", 0, "Floor area in square feet")
	f.BoolVar(&newPets, "pets", false, "Pets on site")
	f.StringVar(&newNotes, "notes", "", "Property notes (access codes, parking, ...)")
	f.StringArrayVarP(&newRooms, "room", "r", nil, "Room to include (repeatable)")
	f.StringArrayVar(&newTasks, "task", nil, "Extra task as \"Room:Task name\" (repeatable)")
	f.BoolVarP(&newInteractive, "interactive", "i", false, "Run the step-by-step wizard")
	rootCmd.AddCommand(newCmd)
}
