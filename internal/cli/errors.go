package cli

import (
	"errors"
	"fmt"

	"github.com/aidanlsb/broom/internal/store"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Checklist errors
	ErrChecklistNotFound = "CHECKLIST_NOT_FOUND"
	ErrTemplateNotFound  = "TEMPLATE_NOT_FOUND"
	ErrTemplateReadOnly  = "TEMPLATE_READ_ONLY"
	ErrTaskNotFound      = "TASK_NOT_FOUND"
	ErrTaskAmbiguous     = "TASK_AMBIGUOUS"
	ErrStepIncomplete    = "STEP_INCOMPLETE"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Database errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrDatabaseLocked = "DATABASE_LOCKED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrNotInteractive  = "NOT_INTERACTIVE"

	// General errors
	ErrInternal             = "INTERNAL_ERROR"
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"
)

// Warning codes for non-fatal issues.
const (
	WarnCustomRoom   = "CUSTOM_ROOM"
	WarnImportFailed = "IMPORT_FAILED"
	WarnShadowed     = "TEMPLATE_SHADOWED"
)

// handleStoreError maps store sentinels onto error codes. notFound is the
// code to report for store.ErrNotFound.
func handleStoreError(notFound string, err error, suggestion string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return handleError(notFound, err, suggestion)
	case errors.Is(err, store.ErrLocked):
		return handleError(ErrDatabaseLocked, err, "Another broom process is writing; try again")
	default:
		return handleError(ErrDatabaseError, err, "")
	}
}

func didYouMean(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", id)
}
