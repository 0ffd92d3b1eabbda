package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

// ErrorOutput represents a structured error for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError formats an error for display.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	if format == FormatJSON {
		return formatErrorJSON(w, err)
	}
	return formatErrorText(w, err)
}

func toDetail(err error) ErrorDetail {
	var e *mipderr.Error
	if errors.As(err, &e) {
		return ErrorDetail{
			Code:       e.Code,
			Message:    e.Message,
			Details:    e.Details,
			Suggestion: e.Suggestion,
			ExitCode:   e.ExitCode,
		}
	}
	return ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: mipderr.ExitGeneral,
	}
}

func formatErrorJSON(w io.Writer, err error) error {
	return writeJSON(w, ErrorOutput{Error: toDetail(err)})
}

func formatErrorText(w io.Writer, err error) error {
	d := toDetail(err)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", d.Message))

	if len(d.Details) > 0 {
		keys := make([]string, 0, len(d.Details))
		for k := range d.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, d.Details[k]))
		}
	}

	if d.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", d.Suggestion))
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}

// FormatSuccess reports a completed action. JSON output is
// {"status":"success","message":...}.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]string{"status": "success", "message": message})
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
