// Package sequencer owns the wizard's step index. The index is never held
// privately: it is derived from, and written back to, a bookmarkable position
// so reloads and history navigation resolve to the same step.
package sequencer

import (
	"net/url"
	"strconv"
	"strings"

	"village/internal/onboarding/models"
)

// Param is the query parameter carrying the step.
const Param = "step"

// Position is the externally observable step indicator.
type Position interface {
	Get() string
	Set(value string)
}

// QueryPosition keeps the step in URL query values.
type QueryPosition struct {
	Values url.Values
}

// NewQueryPosition wraps a copy of q so the caller's values are never mutated.
func NewQueryPosition(q url.Values) *QueryPosition {
	values := url.Values{}
	for k, v := range q {
		values[k] = append([]string(nil), v...)
	}
	return &QueryPosition{Values: values}
}

func (p *QueryPosition) Get() string      { return p.Values.Get(Param) }
func (p *QueryPosition) Set(value string) { p.Values.Set(Param, value) }

// Derive reads the step from a position. Absent, malformed and negative
// values resolve to step 0.
func Derive(p Position) int {
	raw := strings.TrimSpace(p.Get())
	if raw == "" {
		return models.StepIntent
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return models.StepIntent
	}
	return n
}

// Sequencer moves through the steps of one branch.
type Sequencer struct {
	pos Position
}

func New(pos Position) *Sequencer {
	return &Sequencer{pos: pos}
}

// Current returns the step derived from the position.
func (s *Sequencer) Current() int {
	return Derive(s.pos)
}

// SetStep writes n to the position, then applies the guard.
func (s *Sequencer) SetStep(n int, intent models.Intent) int {
	if n < 0 {
		n = models.StepIntent
	}
	s.write(n)
	return s.Guard(intent)
}

// Advance moves one step forward. The account step is the end of a branch;
// leaving it is the job of finish, not of navigation.
func (s *Sequencer) Advance(intent models.Intent) int {
	return s.SetStep(s.Current()+1, intent)
}

// Retreat moves one step back, never below step 0.
func (s *Sequencer) Retreat(intent models.Intent) int {
	return s.SetStep(s.Current()-1, intent)
}

// Guard runs after every draft or step change. A step past the end of the
// active branch, left behind by a branch switch or a stale deep link, is
// pinned to that branch's account step. Without an intent only step 0 is
// reachable.
func (s *Sequencer) Guard(intent models.Intent) int {
	current := s.Current()
	if last := models.LastStep(intent); current > last {
		s.write(last)
		return last
	}
	return current
}

// Bookmark renders the position as a query string, e.g. "?step=3".
func (s *Sequencer) Bookmark() string {
	return "?" + Param + "=" + strconv.Itoa(s.Current())
}

func (s *Sequencer) write(n int) {
	s.pos.Set(strconv.Itoa(n))
}
