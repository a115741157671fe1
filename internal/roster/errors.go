package roster

import "fmt"

// FormatError reports source data that does not have the expected shape:
// missing headers, missing required columns or an unexpected page layout.
type FormatError struct {
	Source string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("format error: %s", e.Reason)
	}
	return fmt.Sprintf("format error in %s: %s", e.Source, e.Reason)
}
