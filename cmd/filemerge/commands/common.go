// Package commands provides CLI command handlers for filemerge.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/filemerge/internal/cliutil"
	"github.com/erraggy/filemerge/internal/eol"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultJobFile is the job file read when neither -f nor -o is given.
const DefaultJobFile = "merge.yaml"

// Output streams. Tests swap them to capture what a command prints.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
// Returns an error if marshaling fails.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", bytes)
	return nil
}

// parseSeparatorFlag parses a separator flag value; empty means unset.
func parseSeparatorFlag(name, value string) (string, bool, error) {
	if value == "" {
		return "", false, nil
	}
	sep, err := eol.ParseSeparator(value)
	if err != nil {
		return "", false, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return sep, true, nil
}
