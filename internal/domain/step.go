package domain

import "time"

type Step struct {
	ID       string
	SiteID   string
	Type     TaskType
	Duration int

	Start  time.Time
	Finish time.Time

	Done        bool
	ManualStart *time.Time
	// Confirmed is nil until a user explicitly confirms or unconfirms the step.
	Confirmed *bool

	// Derived on every scheduling run.
	Tentative bool
	State     StepState
}

func (s Step) Clone() Step {
	out := s
	if s.ManualStart != nil {
		d := *s.ManualStart
		out.ManualStart = &d
	}
	if s.Confirmed != nil {
		c := *s.Confirmed
		out.Confirmed = &c
	}
	return out
}

// IsConfirmed reads the stored confirmation, false when unset.
func (s Step) IsConfirmed() bool {
	return s.Confirmed != nil && *s.Confirmed
}

type LockKind int

const (
	LockUnset LockKind = iota
	LockManual
	LockDone
)

func (k LockKind) String() string {
	switch k {
	case LockManual:
		return "manual"
	case LockDone:
		return "done"
	default:
		return "unset"
	}
}

// Lock is the resolved override state of a stored step. Done takes
// precedence over a bare manual start.
type Lock struct {
	Kind LockKind
	// Date is the authoritative start before workday snapping. It is the
	// zero time when a done step carries neither a manual nor a stored start.
	Date time.Time
}

func (l Lock) Locked() bool {
	return l.Kind != LockUnset
}

// Lock resolves the tri-state override of the step.
func (s Step) Lock() Lock {
	switch {
	case s.Done:
		if s.ManualStart != nil && !s.ManualStart.IsZero() {
			return Lock{Kind: LockDone, Date: *s.ManualStart}
		}
		return Lock{Kind: LockDone, Date: s.Start}
	case s.ManualStart != nil && !s.ManualStart.IsZero():
		return Lock{Kind: LockManual, Date: *s.ManualStart}
	default:
		return Lock{Kind: LockUnset}
	}
}
