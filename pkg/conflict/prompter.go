package conflict

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alfasin/ttsync/pkg/tracker"
)

// StdPrompter asks the operator to resolve a conflict on the terminal. It is
// one implementation of DecisionFunc; automated runs use Always instead.
type StdPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewStdPrompter(in io.Reader, out io.Writer) *StdPrompter {
	return &StdPrompter{in: bufio.NewReader(in), out: out}
}

// Decide lists the existing and proposed entries and reads one of
// skip/replace/add. Unrecognized answers re-prompt.
func (p *StdPrompter) Decide(ctx context.Context, date string, proposed []tracker.TimeEntry, existing []tracker.ExistingReport) (Action, error) {
	fmt.Fprintf(p.out, "\nConflict detected for %s\n", date)
	fmt.Fprintln(p.out, "\nExisting entries:")
	for _, report := range existing {
		fmt.Fprintf(p.out, "  - %s/%s: %sh - %q\n", report.Project, report.Task, tracker.FormatHours(report.Duration), report.Note)
	}
	fmt.Fprintln(p.out, "\nNew entries to add:")
	for _, entry := range proposed {
		fmt.Fprintf(p.out, "  - %s: %sh (project %s, task %s)\n", entry.Type, tracker.FormatHours(entry.Hours), entry.Project, entry.Task)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out, "\n[s]kip    - keep existing entries, do not add new ones")
		fmt.Fprintln(p.out, "[r]eplace - delete existing entries and add new ones")
		fmt.Fprintln(p.out, "[a]dd     - keep existing entries and add new ones anyway")
		fmt.Fprint(p.out, "> ")

		line, err := p.in.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read conflict decision: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "skip":
			return ActionSkip, nil
		case "r", "replace":
			return ActionReplace, nil
		case "a", "add":
			return ActionAdd, nil
		}
		fmt.Fprintln(p.out, "Please answer s, r or a.")
	}
}
