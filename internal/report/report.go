// Package report renders a human-readable summary of a supervision run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jocilejr/docs/internal/orchestrator"
)

// Printer writes run summaries to an output stream.
type Printer struct {
	out io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintResult writes a per-task status table followed by an overall verdict.
func (p *Printer) PrintResult(res *orchestrator.Result) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()

	maxNameLen := 8
	for _, outcome := range res.Outcomes {
		if len(outcome.Task) > maxNameLen {
			maxNameLen = len(outcome.Task)
		}
	}
	nameFormat := fmt.Sprintf("%%-%ds", maxNameLen)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, magenta("RUN SUMMARY"))
	fmt.Fprintln(p.out, strings.Repeat("-", maxNameLen+14))

	fmt.Fprintf(p.out, "%s | %-8s\n",
		cyan(fmt.Sprintf(nameFormat, "Task")),
		cyan("Status"),
	)
	fmt.Fprintln(p.out, strings.Repeat("-", maxNameLen+14))

	for _, outcome := range res.Outcomes {
		status := green("ok")
		if outcome.Err != nil {
			status = red(fmt.Sprintf("failed: %v", outcome.Err))
		}
		fmt.Fprintf(p.out, "%s | %s\n",
			fmt.Sprintf(nameFormat, outcome.Task),
			status,
		)
	}

	fmt.Fprintln(p.out, strings.Repeat("-", maxNameLen+14))

	switch {
	case res.Err != nil:
		fmt.Fprintf(p.out, "%s %v\n", red("setup failed:"), res.Err)
	case res.Interrupted:
		fmt.Fprintln(p.out, red("interrupted"))
	case len(res.Failures()) > 0:
		fmt.Fprintf(p.out, "%s %d task(s) failed\n", red("failure:"), len(res.Failures()))
	default:
		fmt.Fprintln(p.out, green("all tasks completed"))
	}
}
