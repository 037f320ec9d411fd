package harness

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Status is the outcome of one stage
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Stage names
const (
	StageValidation  = "validation"
	StageSyntax      = "syntax"
	StageGeneration  = "generation"
	StageBuild       = "build"
	StageHealthCheck = "health_check"
	StageCommand     = "command"
)

// StageResult records one stage
type StageResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Output   string        `json:"output,omitempty"`
}

// Suite aggregates the stages of one template run
type Suite struct {
	Template        string        `json:"template"`
	Results         []StageResult `json:"results"`
	Passed          int           `json:"passed"`
	Failed          int           `json:"failed"`
	Skipped         int           `json:"skipped"`
	Duration        time.Duration `json:"duration"`
	DockerAvailable bool          `json:"docker_available"`
}

func (s *Suite) add(r StageResult) StageResult {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusPassed:
		s.Passed++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
	return r
}

// Total returns the number of stages recorded
func (s *Suite) Total() int { return len(s.Results) }

// Success reports whether no stage failed
func (s *Suite) Success() bool { return s.Failed == 0 }

// SuccessRate is the percentage of passed stages among all stages, to one decimal
func (s *Suite) SuccessRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return math.Round(float64(s.Passed)/float64(s.Total())*1000) / 10
}

// Stage returns the result of the named stage
func (s *Suite) Stage(name string) (StageResult, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return StageResult{}, false
}

// Markdown renders the suite as a markdown report
func (s *Suite) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Template Test Report\n\n## Summary\n\n")
	fmt.Fprintf(&b, "- **Template**: %s\n", s.Template)
	fmt.Fprintf(&b, "- **Total Stages**: %d\n", s.Total())
	fmt.Fprintf(&b, "- **Passed**: %d\n", s.Passed)
	fmt.Fprintf(&b, "- **Failed**: %d\n", s.Failed)
	fmt.Fprintf(&b, "- **Skipped**: %d\n", s.Skipped)
	fmt.Fprintf(&b, "- **Success Rate**: %.1f%%\n", s.SuccessRate())
	fmt.Fprintf(&b, "- **Docker**: %v\n", s.DockerAvailable)
	fmt.Fprintf(&b, "- **Duration**: %s\n\n## Stages\n", s.Duration.Round(time.Millisecond))

	for _, r := range s.Results {
		fmt.Fprintf(&b, "\n### %s (%s)\n\n", r.Name, r.Status)
		fmt.Fprintf(&b, "- **Duration**: %s\n", r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(&b, "- **Error**: %s\n", oneLine(r.Error))
		}
		if r.Output != "" {
			fmt.Fprintf(&b, "\n```\n%s\n```\n", r.Output)
		}
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
