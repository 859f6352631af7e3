package model

import "fmt"

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusReady      Status = "READY"
	StatusFailed     Status = "FAILED"
)

// transitions lists the legal successors of each status. PROCESSING is re-entrant
// so a duplicate job can pick up an object another worker is processing.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusProcessing, StatusReady, StatusFailed},
	StatusFailed:     {StatusProcessing},
	StatusReady:      {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}

	return st, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]

	return ok
}

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the automatic pipeline stops at s.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}

	return false
}

// AllowedFrom returns every status from which next may be entered.
func AllowedFrom(next Status) []Status {
	from := make([]Status, 0, len(transitions))
	for _, s := range []Status{StatusPending, StatusProcessing, StatusReady, StatusFailed} {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}

	return from
}
