// Package output renders mipd command results as text or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Format selects how results are rendered.
type Format string

// Supported formats. FormatAuto resolves to text on a terminal and JSON
// everywhere else.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formatter writes command results in a single resolved format.
type Formatter struct {
	format Format
	w      io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, w: w}
}

// Format returns the resolved format.
func (f *Formatter) Format() Format {
	return f.format
}

// IsJSON reports whether results are written as JSON.
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// Print writes v as indented JSON, or as one line of text using String when
// v provides it.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		return writeJSON(f.w, v)
	}
	if s, ok := v.(fmt.Stringer); ok {
		v = s.String()
	}
	_, err := fmt.Fprintln(f.w, v)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// DetectFormat resolves FormatAuto against w. Explicit formats pass through.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if f, ok := w.(fdWriter); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: descriptor fits in int
		return FormatText
	}
	return FormatJSON
}

// ParseFormat maps a flag or config value to a Format. Unknown values are
// FormatAuto.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON:
		return f
	default:
		return FormatAuto
	}
}
