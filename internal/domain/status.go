package domain

import (
	"fmt"
	"slices"
)

// Machine is a finite-state machine over a string status type.
type Machine[S ~string] struct {
	name  string
	edges map[S][]S
}

// Known reports whether s is a state of the machine.
func (m Machine[S]) Known(s S) bool {
	_, ok := m.edges[s]
	return ok
}

// Allows reports whether from -> to is a legal edge.
func (m Machine[S]) Allows(from, to S) bool {
	return slices.Contains(m.edges[from], to)
}

// Transition validates from -> to. Unknown target states are validation
// errors; known but unreachable ones wrap ErrInvalidTransition.
func (m Machine[S]) Transition(from, to S) error {
	if !m.Known(to) {
		return Invalid("unknown %s status %q", m.name, to)
	}
	if !m.Allows(from, to) {
		return fmt.Errorf("%s %q -> %q: %w", m.name, from, to, ErrInvalidTransition)
	}
	return nil
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

var LeaveMachine = Machine[LeaveStatus]{
	name: "leave",
	edges: map[LeaveStatus][]LeaveStatus{
		LeavePending:  {LeaveApproved, LeaveRejected},
		LeaveApproved: nil,
		LeaveRejected: nil,
	},
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestInReview RequestStatus = "In Review"
	RequestApproved RequestStatus = "Approved"
	RequestDenied   RequestStatus = "Denied"
	RequestClosed   RequestStatus = "Closed"
)

var RequestMachine = Machine[RequestStatus]{
	name: "request",
	edges: map[RequestStatus][]RequestStatus{
		RequestPending:  {RequestInReview, RequestApproved, RequestDenied, RequestClosed},
		RequestInReview: {RequestApproved, RequestDenied, RequestClosed},
		RequestApproved: {RequestClosed},
		RequestDenied:   {RequestClosed},
		RequestClosed:   nil,
	},
}

type SalaryStatus string

const (
	SalaryPending       SalaryStatus = "Pending"
	SalaryDelayed       SalaryStatus = "Delayed"
	SalaryPaid          SalaryStatus = "Paid"
	SalaryScheduled     SalaryStatus = "Scheduled"
	SalaryAutoGenerated SalaryStatus = "Auto-Generated"
)

var SalaryMachine = Machine[SalaryStatus]{
	name: "salary",
	edges: map[SalaryStatus][]SalaryStatus{
		SalaryPending:       {SalaryScheduled, SalaryDelayed, SalaryPaid},
		SalaryAutoGenerated: {SalaryPending, SalaryScheduled, SalaryDelayed, SalaryPaid},
		SalaryScheduled:     {SalaryDelayed, SalaryPaid},
		SalaryDelayed:       {SalaryPaid},
		SalaryPaid:          nil,
	},
}

type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

var ScheduleMachine = Machine[ScheduleStatus]{
	name: "schedule",
	edges: map[ScheduleStatus][]ScheduleStatus{
		ScheduleScheduled: {ScheduleCompleted, ScheduleCancelled},
		ScheduleCompleted: nil,
		ScheduleCancelled: nil,
	},
}
