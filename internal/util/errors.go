package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout ivy
var (
	ErrUnknownFormat   = errors.New("unknown sheet format")
	ErrNotRectangular  = errors.New("sheet rows have differing column counts")
	ErrEmptySheet      = errors.New("sheet has no columns")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrNotConnected    = errors.New("not connected to database")
	ErrUnknownOp       = errors.New("unknown key binding operation")
	ErrFileNotFound    = errors.New("file not found")
	ErrAlreadyExists   = errors.New("file already exists")
	ErrInvalidColumnID = errors.New("invalid column index")
	ErrRemoteExists    = errors.New("remote already exists")
	ErrRemoteNotFound  = errors.New("remote not found")
	ErrDiverged        = errors.New("sheet changed on both sides since the last sync")
)

// IvyError is a structured error with context and suggestions
type IvyError struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *IvyError) Error() string {
	return e.Title
}

func (e *IvyError) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *IvyError) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("\n  cause: %s\n", e.Err))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new IvyError
func NewError(title string) *IvyError {
	return &IvyError{Title: title}
}

// WithMessage adds a detailed message
func (e *IvyError) WithMessage(msg string) *IvyError {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *IvyError) WithContext(ctx string) *IvyError {
	e.Context = ctx
	return e
}

// WithCause adds a possible cause
func (e *IvyError) WithCause(cause string) *IvyError {
	e.Causes = append(e.Causes, cause)
	return e
}

// WithCauses adds multiple possible causes
func (e *IvyError) WithCauses(causes ...string) *IvyError {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *IvyError) WithSuggestion(sug string) *IvyError {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *IvyError) WithSuggestions(sugs ...string) *IvyError {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *IvyError) Wrap(err error) *IvyError {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// SheetNotFoundError returns a structured error for a missing sheet file
func SheetNotFoundError(path string) *IvyError {
	return NewError(fmt.Sprintf("Sheet '%s' not found", path)).
		WithSuggestions(
			fmt.Sprintf("ivy new %s        # Create a new timesheet", path),
			"ls *.csv               # List sheets in this directory",
		).
		Wrap(ErrFileNotFound)
}

// MalformedSheetError returns a structured error for a sheet that cannot be
// loaded into a rectangular grid
func MalformedSheetError(path string, err error) *IvyError {
	return NewError("Cannot read sheet").
		WithContext(path).
		WithCauses(
			"The file is not comma-separated",
			"A row has more or fewer columns than the header",
			"The file is empty",
		).
		WithSuggestions(
			fmt.Sprintf("ivy show %s --raw  # Inspect the parsed rows", path),
		).
		Wrap(err)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *IvyError {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"psql <url> -c 'select 1'  # Check the connection by hand",
		).
		Wrap(err)
}

// RemoteSheetNotFoundError returns a structured error for a sheet missing on a remote
func RemoteSheetNotFoundError(name string) *IvyError {
	return NewError(fmt.Sprintf("Sheet '%s' not found on remote", name)).
		WithSuggestions(
			fmt.Sprintf("ivy push <file> <url> --sheet %s  # Push the sheet first", name),
		).
		Wrap(ErrSheetNotFound)
}

// UnknownOpError returns a structured error for a key binding naming an
// operation that does not exist. similar holds close matches, if any.
func UnknownOpError(op string, similar []string) *IvyError {
	e := NewError(fmt.Sprintf("Unknown key binding operation '%s'", op)).
		WithSuggestions(
			"ivy config --list      # Show configured key bindings",
		).
		Wrap(ErrUnknownOp)
	if len(similar) > 0 {
		e.WithMessage(fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", ")))
	}
	return e
}

// UnknownConfigKeyError returns a structured error for `ivy config <key>`
// with a key that is not defined.
func UnknownConfigKeyError(key string, similar []string) *IvyError {
	e := NewError(fmt.Sprintf("Unknown config key '%s'", key)).
		WithSuggestions(
			"ivy config --list      # Show all config keys",
		)
	if len(similar) > 0 {
		e.WithMessage(fmt.Sprintf("Did you mean: %s?", strings.Join(similar, ", ")))
	}
	return e
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *IvyError {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}

