package shared

import (
	"fmt"
	"strings"
)

// FormatText renders a result the way the CLI prints it: program output,
// then syntax errors, warnings and the failure, one per line. A header
// naming the source is added when withHeader is set.
func FormatText(r RunResult, withHeader bool) string {
	var b strings.Builder
	if withHeader && r.Source != "" {
		fmt.Fprintf(&b, "== %s ==\n", r.Source)
	}
	if r.Output != nil && *r.Output != "" {
		b.WriteString(*r.Output)
		b.WriteByte('\n')
	}
	for _, e := range r.Errors {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	for _, w := range r.Warnings {
		b.WriteString("warning: ")
		b.WriteString(w.String())
		b.WriteByte('\n')
	}
	if r.Failure != nil {
		b.WriteString(FormatFailure(r.Failure))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatFailure renders a failure as a single line
func FormatFailure(f *Failure) string {
	if f == nil {
		return ""
	}
	if f.Line > 0 && !strings.Contains(f.Message, "line") {
		return fmt.Sprintf("error [%s] line %d: %s", f.Code, f.Line, f.Message)
	}
	return fmt.Sprintf("error [%s]: %s", f.Code, f.Message)
}
