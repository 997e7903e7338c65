package runner

import (
	"time"

	"github.com/AndreyAkinshin/checkrun/internal/testcase"
)

// Summary is the tally of one run. It is created per run and never reused.
type Summary struct {
	RunID     string
	Filter    string
	StartedAt time.Time
	Duration  time.Duration
	Total     int
	Passed    int
	Outcomes  []testcase.Outcome // In execution order
}

// Add records one outcome.
func (s *Summary) Add(o testcase.Outcome) {
	s.Total++
	if o.Passed() {
		s.Passed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// OK reports whether every considered test passed. An empty run is OK.
func (s *Summary) OK() bool {
	return s.Passed == s.Total
}

// Failed returns the outcomes that did not pass.
func (s *Summary) Failed() []testcase.Outcome {
	var failed []testcase.Outcome
	for _, o := range s.Outcomes {
		if !o.Passed() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Counts returns the number of outcomes per status.
func (s *Summary) Counts() map[testcase.Status]int {
	counts := make(map[testcase.Status]int)
	for _, o := range s.Outcomes {
		counts[o.Status()]++
	}
	return counts
}
