package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/loadout/internal/domain"
	"github.com/roach88/loadout/internal/service"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Check failed (outputs out of sync, missing fragments)
	ExitCommandError = 2 // Command error (unknown loadout, bad input, unreadable files)
	ExitPartialWrite = 3 // Output files written but state not recorded
)

// Error codes reported in JSON responses and text errors.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeConfiguration    = "E002" // Config or state file unreadable
	ErrCodeNotFound         = "E003" // Loadout or fragment not found
	ErrCodeAlreadyExists    = "E004" // Loadout name taken
	ErrCodeInvalidInput     = "E005" // Malformed name or reference
	ErrCodeFileSystem       = "E006" // Read or write failure
	ErrCodeSerialization    = "E007" // Malformed loadout or state record
	ErrCodePartialWrite     = "E010" // Outputs written, state not saved
	ErrCodeNotSynchronized  = "E020" // Outputs do not match the active loadout
	ErrCodeMissingFragments = "E021" // Loadout references missing fragments
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitCommandError for errors that carry
// no exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.JSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.GetErrWriter(), "Details: %v\n", details)
	}
	return nil
}

// Printf writes a text line. It is a no-op in JSON mode so commands can
// narrate progress without corrupting the response.
func (f *OutputFormatter) Printf(format string, args ...interface{}) {
	if f.JSON() {
		return
	}
	fmt.Fprintf(f.Writer, format+"\n", args...)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Verbose logs go to ErrWriter so they never corrupt JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}

// Fail reports err through the formatter and returns the matching
// ExitError for the command to return.
func (f *OutputFormatter) Fail(err error) error {
	code, exit := classify(err)
	_ = f.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(exit, code, err)
}

// classify maps an error to its response code and exit code.
func classify(err error) (string, int) {
	var recErr *service.RecordError
	if errors.As(err, &recErr) {
		return ErrCodePartialWrite, ExitPartialWrite
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return ErrCodeGeneric, exitErr.Code
	}
	kind, ok := domain.KindOf(err)
	if !ok {
		return ErrCodeGeneric, ExitCommandError
	}
	switch kind {
	case domain.KindConfiguration:
		return ErrCodeConfiguration, ExitCommandError
	case domain.KindNotFound:
		return ErrCodeNotFound, ExitCommandError
	case domain.KindAlreadyExists:
		return ErrCodeAlreadyExists, ExitCommandError
	case domain.KindInvalidInput:
		return ErrCodeInvalidInput, ExitCommandError
	case domain.KindFileSystem:
		return ErrCodeFileSystem, ExitCommandError
	case domain.KindSerialization:
		return ErrCodeSerialization, ExitCommandError
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}

func errorDetails(err error) interface{} {
	var de *domain.Error
	if !errors.As(err, &de) {
		return nil
	}
	details := map[string]string{"kind": string(de.Kind)}
	if de.Ref != "" {
		details["ref"] = de.Ref
	}
	return details
}
