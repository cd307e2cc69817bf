package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Build outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeWarning  = "warning"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// BuildReport summarizes one build run.
type BuildReport struct {
	BuildID        string                   `json:"build_id"`
	StartedAt      time.Time                `json:"started_at"`
	Duration       time.Duration            `json:"duration"`
	Outcome        string                   `json:"outcome"`
	StageDurations map[string]time.Duration `json:"stage_durations"`
	StageErrors    map[string]string        `json:"stage_errors,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
	BrokenLinks    []string                 `json:"broken_links,omitempty"`
}

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		BuildID:        buildID,
		StartedAt:      time.Now(),
		StageDurations: make(map[string]time.Duration),
		StageErrors:    make(map[string]string),
	}
}

func (r *BuildReport) recordWarning(se *StageError) {
	r.Warnings = append(r.Warnings, se.Error())
}

func (r *BuildReport) recordError(se *StageError) {
	r.StageErrors[se.Stage] = se.Err.Error()
}

// finish stamps duration and derives the final outcome.
func (r *BuildReport) finish(err error) {
	r.Duration = time.Since(r.StartedAt)
	switch {
	case err == nil && len(r.Warnings) == 0:
		r.Outcome = OutcomeSuccess
	case err == nil:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeFailed
		var se *StageError
		if errors.As(err, &se) && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
		}
	}
}

// JSON serializes the report for storage and event publication.
func (r *BuildReport) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// Markdown renders a human-readable summary for the daemon status page.
func (r *BuildReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Build %s\n\n", r.BuildID)
	fmt.Fprintf(&b, "- Outcome: **%s**\n", r.Outcome)
	fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n\n", r.Duration.Round(time.Millisecond))

	if len(r.StageDurations) > 0 {
		b.WriteString("### Stages\n\n")
		names := make([]string, 0, len(r.StageDurations))
		for name := range r.StageDurations {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- `%s`: %s", name, r.StageDurations[name].Round(time.Millisecond))
			if msg, ok := r.StageErrors[name]; ok {
				fmt.Fprintf(&b, " (failed: %s)", msg)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString("### Warnings\n\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	if len(r.BrokenLinks) > 0 {
		b.WriteString("### Broken links\n\n")
		for _, l := range r.BrokenLinks {
			fmt.Fprintf(&b, "- %s\n", l)
		}
	}
	return b.String()
}
