package scheduler

import (
	"time"

	"github.com/clambin/absensi/internal/attendance"
)

// State is a phase of a day run.
type State string

const (
	CheckingEligibility State = "checking-eligibility"
	FetchingStatus      State = "fetching-status"
	AwaitingMorning     State = "awaiting-morning"
	AwaitingEvening     State = "awaiting-evening"
	Executing           State = "executing"
	Done                State = "done"
)

// Reason explains why a day run ended.
type Reason string

const (
	Deferred          Reason = "deferred"
	NonWorkingDay     Reason = "non-working-day"
	Offline           Reason = "offline"
	StatusUnavailable Reason = "status-unavailable"
	AlreadyComplete   Reason = "already-complete"
	Completed         Reason = "completed"
	SubmissionFailed  Reason = "submission-failed"
	Canceled          Reason = "canceled"
	InternalError     Reason = "internal-error"
)

// Reasons lists every Reason, in the order they are exported as metrics.
var Reasons = []Reason{
	Deferred, NonWorkingDay, Offline, StatusUnavailable, AlreadyComplete, Completed, SubmissionFailed, Canceled, InternalError,
}

// Report describes one day run.
type Report struct {
	RunID         string                  `json:"run_id"`
	Day           string                  `json:"day"`
	States        []State                 `json:"states"`
	Reason        Reason                  `json:"reason"`
	Status        *attendance.DailyStatus `json:"status,omitempty"`
	MorningTarget time.Time               `json:"morning_target,omitzero"`
	EveningTarget time.Time               `json:"evening_target,omitzero"`
	Submitted     []attendance.Label      `json:"submitted,omitempty"`
	Started       time.Time               `json:"started"`
	Finished      time.Time               `json:"finished"`
}

func (r *Report) enter(state State) {
	r.States = append(r.States, state)
}

// State returns the last state the run entered.
func (r Report) State() State {
	if len(r.States) == 0 {
		return ""
	}
	return r.States[len(r.States)-1]
}
