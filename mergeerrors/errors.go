package mergeerrors

import (
	"errors"
	"fmt"
)

// Kind classifies a merge failure.
type Kind int

const (
	// KindUnknown is the zero value and never produced by the engine.
	KindUnknown Kind = iota
	// KindInvalidJob indicates a job that cannot be run as configured.
	KindInvalidJob
	// KindInvalidTarget indicates the target path is an existing directory.
	KindInvalidTarget
	// KindInvalidSource indicates a source path is a directory.
	KindInvalidSource
	// KindTargetNotRemovable indicates an existing target could not be deleted.
	KindTargetNotRemovable
	// KindDirectoryNotCreatable indicates the target's parent directory could not be created.
	KindDirectoryNotCreatable
	// KindNotADirectory indicates the target's parent path exists but is not a directory.
	KindNotADirectory
	// KindTargetNotCreatable indicates the target file could not be created.
	KindTargetNotCreatable
	// KindSourceNotFound indicates a source path does not exist.
	KindSourceNotFound
	// KindIO indicates a stream could not be opened.
	KindIO
	// KindCopy indicates a read or write failure while appending a source.
	KindCopy
	// KindClose indicates a file could not be closed.
	KindClose
)

var kindNames = [...]string{
	KindUnknown:               "unknown",
	KindInvalidJob:            "invalid job",
	KindInvalidTarget:         "invalid target",
	KindInvalidSource:         "invalid source",
	KindTargetNotRemovable:    "target not removable",
	KindDirectoryNotCreatable: "directory not creatable",
	KindNotADirectory:         "not a directory",
	KindTargetNotCreatable:    "target not creatable",
	KindSourceNotFound:        "source not found",
	KindIO:                    "i/o error",
	KindCopy:                  "copy error",
	KindClose:                 "close error",
}

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Stage identifies where in a job a failure happened.
type Stage string

const (
	StageValidate      Stage = "validate"
	StagePrepareTarget Stage = "prepare-target"
	StagePrepareSource Stage = "prepare-source"
	StageAppend        Stage = "append"
	StageClose         Stage = "close"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrMerge matches any MergeError.
	ErrMerge = errors.New("merge error")

	ErrInvalidJob            = errors.New(KindInvalidJob.String())
	ErrInvalidTarget         = errors.New(KindInvalidTarget.String())
	ErrInvalidSource         = errors.New(KindInvalidSource.String())
	ErrTargetNotRemovable    = errors.New(KindTargetNotRemovable.String())
	ErrDirectoryNotCreatable = errors.New(KindDirectoryNotCreatable.String())
	ErrNotADirectory         = errors.New(KindNotADirectory.String())
	ErrTargetNotCreatable    = errors.New(KindTargetNotCreatable.String())
	ErrSourceNotFound        = errors.New(KindSourceNotFound.String())
	ErrIO                    = errors.New(KindIO.String())
	ErrCopy                  = errors.New(KindCopy.String())
	ErrClose                 = errors.New(KindClose.String())

	// ErrConfig indicates an invalid job file or option.
	ErrConfig = errors.New("configuration error")
)

var kindSentinels = map[Kind]error{
	KindInvalidJob:            ErrInvalidJob,
	KindInvalidTarget:         ErrInvalidTarget,
	KindInvalidSource:         ErrInvalidSource,
	KindTargetNotRemovable:    ErrTargetNotRemovable,
	KindDirectoryNotCreatable: ErrDirectoryNotCreatable,
	KindNotADirectory:         ErrNotADirectory,
	KindTargetNotCreatable:    ErrTargetNotCreatable,
	KindSourceNotFound:        ErrSourceNotFound,
	KindIO:                    ErrIO,
	KindCopy:                  ErrCopy,
	KindClose:                 ErrClose,
}

// Sentinel returns the sentinel error matching k, or nil for KindUnknown.
func (k Kind) Sentinel() error {
	return kindSentinels[k]
}

// MergeError describes the failure of one merge job.
type MergeError struct {
	// Kind classifies the failure
	Kind Kind
	// Job is the zero-based index of the failing job in the batch
	Job int
	// Stage is the step of the job that failed
	Stage Stage
	// Path is the file or directory the failing operation touched
	Path string
	// Message provides additional context (may be empty)
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *MergeError) Error() string {
	msg := fmt.Sprintf("job %d", e.Job)
	if e.Stage != "" {
		msg += ": " + string(e.Stage)
	}
	msg += ": " + e.Kind.String()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *MergeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrMerge or the sentinel for e.Kind.
func (e *MergeError) Is(target error) bool {
	if target == ErrMerge {
		return true
	}
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first MergeError in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var mergeErr *MergeError
	if errors.As(err, &mergeErr) {
		return mergeErr.Kind
	}
	return KindUnknown
}

// ConfigError represents an invalid job file or configuration option.
type ConfigError struct {
	// Path is the job file the error was found in (may be empty)
	Path string
	// Option is the name of the problematic key or option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
