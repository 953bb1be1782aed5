package workspace

import (
	"errors"
	"fmt"
)

// Validation failures.
var (
	ErrBlankName     = errors.New("name must not be blank")
	ErrUnknownKind   = errors.New("unknown file kind")
	ErrInvalidScope  = errors.New("scope must be project, folder or file")
	ErrNotEditable   = errors.New("file content is not editable")
	ErrUploadInvalid = errors.New("upload rejected")
)

// ErrUploadTooLarge is an ErrUploadInvalid for payloads above the ceiling.
var ErrUploadTooLarge = fmt.Errorf("%w: too large", ErrUploadInvalid)

// Lookup failures.
var (
	ErrNotFound    = errors.New("not found")
	ErrNoProject   = errors.New("no project selected")
	ErrNoFolder    = errors.New("no folder selected")
	ErrNoFile      = errors.New("no file selected")
	ErrLastSibling = errors.New("cannot delete the last remaining item")
)

// Decode failures. Load treats all of them as absent data.
var (
	ErrCorrupt            = errors.New("workspace data is corrupt")
	ErrUnsupportedVersion = errors.New("workspace data has an unsupported schema version")
)

// IsValidation reports whether err is a caller input problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrBlankName) ||
		errors.Is(err, ErrUnknownKind) ||
		errors.Is(err, ErrInvalidScope) ||
		errors.Is(err, ErrNotEditable) ||
		errors.Is(err, ErrUploadInvalid)
}

// IsLookup reports whether err names something that does not exist.
func IsLookup(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNoProject) ||
		errors.Is(err, ErrNoFolder) ||
		errors.Is(err, ErrNoFile)
}
