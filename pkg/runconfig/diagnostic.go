package runconfig

import "fmt"

// DiagnosticKind classifies a skipped line.
type DiagnosticKind int

const (
	// DiagUnrecognized: no opener or field grammar matched the line.
	DiagUnrecognized DiagnosticKind = iota
	// DiagMalformed: a grammar matched but its arguments did not parse.
	DiagMalformed
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnrecognized:
		return "unrecognised"
	case DiagMalformed:
		return "malformed"
	}
	return fmt.Sprintf("diagnostic(%d)", int(k))
}

// Diagnostic describes one line the parser skipped.
type Diagnostic struct {
	Line  int            `json:"line"`
	Kind  DiagnosticKind `json:"-"`
	Block InterfaceKind  `json:"-"`
	Text  string         `json:"text"`
	Err   error          `json:"-"`
}

func (d Diagnostic) String() string {
	if d.Kind == DiagMalformed && d.Err != nil {
		return fmt.Sprintf("line %d: %s line (%v): %s", d.Line, d.Kind, d.Err, d.Text)
	}
	return fmt.Sprintf("line %d: %s line: %s", d.Line, d.Kind, d.Text)
}
