package domain

import (
	"sort"
	"strconv"
)

type ColorClass string

const (
	ColorSecondary ColorClass = "secondary"
	ColorPrimary   ColorClass = "primary"
	ColorInfo      ColorClass = "info"
	ColorSuccess   ColorClass = "success"
	ColorWarning   ColorClass = "warning"
	ColorDanger    ColorClass = "danger"
)

// StatusInfo describes one member of a status vocabulary.
type StatusInfo struct {
	Code  int        `json:"key"`
	Name  string     `json:"name"`
	Label string     `json:"label"`
	Color ColorClass `json:"color"`
}

// StatusSet is a closed vocabulary of numeric status codes together with the
// transitions a user may request between them.
type StatusSet[S ~int] struct {
	name        string
	byCode      map[S]StatusInfo
	transitions map[S]map[S]bool
}

func newStatusSet[S ~int](name string, entries []StatusInfo, transitions map[S][]S) *StatusSet[S] {
	set := &StatusSet[S]{
		name:        name,
		byCode:      make(map[S]StatusInfo, len(entries)),
		transitions: make(map[S]map[S]bool, len(transitions)),
	}
	for _, e := range entries {
		set.byCode[S(e.Code)] = e
	}
	for from, targets := range transitions {
		allowed := make(map[S]bool, len(targets))
		for _, to := range targets {
			allowed[to] = true
		}
		set.transitions[from] = allowed
	}
	return set
}

func (s *StatusSet[S]) Name() string { return s.name }

func (s *StatusSet[S]) Valid(code S) bool {
	_, ok := s.byCode[code]
	return ok
}

func (s *StatusSet[S]) Info(code S) (StatusInfo, bool) {
	info, ok := s.byCode[code]
	return info, ok
}

// Label returns the human label for code, or the bare number for codes
// outside the vocabulary.
func (s *StatusSet[S]) Label(code S) string {
	if info, ok := s.byCode[code]; ok {
		return info.Label
	}
	return strconv.Itoa(int(code))
}

// CanTransition reports whether a user may move a record from one status to
// another. Staying in the same status is never a transition.
func (s *StatusSet[S]) CanTransition(from, to S) bool {
	if from == to {
		return false
	}
	return s.transitions[from][to]
}

// anyToAny allows every code to move to every other code.
func anyToAny[S ~int](codes ...S) map[S][]S {
	out := make(map[S][]S, len(codes))
	for _, from := range codes {
		for _, to := range codes {
			if from != to {
				out[from] = append(out[from], to)
			}
		}
	}
	return out
}

// Entries returns the vocabulary ordered by code.
func (s *StatusSet[S]) Entries() []StatusInfo {
	out := make([]StatusInfo, 0, len(s.byCode))
	for _, info := range s.byCode {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

type EventStatus int

const (
	EventStatusDraft      EventStatus = 10
	EventStatusScheduled  EventStatus = 20
	EventStatusInProgress EventStatus = 30
	EventStatusCompleted  EventStatus = 40
	EventStatusCancelled  EventStatus = 50
)

// Event status is a free choice on the event form.
var EventStatuses = newStatusSet("EventStatus",
	[]StatusInfo{
		{Code: 10, Name: "DRAFT", Label: "Draft", Color: ColorSecondary},
		{Code: 20, Name: "SCHEDULED", Label: "Scheduled", Color: ColorPrimary},
		{Code: 30, Name: "IN_PROGRESS", Label: "In Progress", Color: ColorInfo},
		{Code: 40, Name: "COMPLETED", Label: "Completed", Color: ColorSuccess},
		{Code: 50, Name: "CANCELLED", Label: "Cancelled", Color: ColorDanger},
	},
	anyToAny(EventStatusDraft, EventStatusScheduled, EventStatusInProgress, EventStatusCompleted, EventStatusCancelled),
)

func (s EventStatus) Label() string { return EventStatuses.Label(s) }
func (s EventStatus) Valid() bool   { return EventStatuses.Valid(s) }

type AssignmentStatus int

const (
	AssignmentStatusReserved AssignmentStatus = 10
	AssignmentStatusInUse    AssignmentStatus = 20
	AssignmentStatusReturned AssignmentStatus = 30
	AssignmentStatusMissing  AssignmentStatus = 40
	AssignmentStatusDamaged  AssignmentStatus = 50
)

// Assignment rows are edited freely; only the row actions depend on status.
var AssignmentStatuses = newStatusSet("FurnitureAssignmentStatus",
	[]StatusInfo{
		{Code: 10, Name: "RESERVED", Label: "Reserved", Color: ColorSecondary},
		{Code: 20, Name: "IN_USE", Label: "In Use", Color: ColorPrimary},
		{Code: 30, Name: "RETURNED", Label: "Returned", Color: ColorSuccess},
		{Code: 40, Name: "MISSING", Label: "Missing", Color: ColorWarning},
		{Code: 50, Name: "DAMAGED", Label: "Damaged", Color: ColorDanger},
	},
	anyToAny(AssignmentStatusReserved, AssignmentStatusInUse, AssignmentStatusReturned, AssignmentStatusMissing, AssignmentStatusDamaged),
)

func (s AssignmentStatus) Label() string { return AssignmentStatuses.Label(s) }
func (s AssignmentStatus) Valid() bool   { return AssignmentStatuses.Valid(s) }

// Active reports whether the assignment still holds the item.
func (s AssignmentStatus) Active() bool {
	return s == AssignmentStatusReserved || s == AssignmentStatusInUse
}

// BadgeColor is the table badge color used for assignment rows.
func (s AssignmentStatus) BadgeColor() string {
	switch s {
	case AssignmentStatusReserved:
		return "gray"
	case AssignmentStatusInUse:
		return "blue"
	case AssignmentStatusReturned:
		return "green"
	case AssignmentStatusMissing:
		return "yellow"
	case AssignmentStatusDamaged:
		return "red"
	default:
		return "gray"
	}
}

type RentalOrderStatus int

const (
	RentalOrderStatusDraft     RentalOrderStatus = 10
	RentalOrderStatusActive    RentalOrderStatus = 20
	RentalOrderStatusOverdue   RentalOrderStatus = 30
	RentalOrderStatusReturned  RentalOrderStatus = 40
	RentalOrderStatusCancelled RentalOrderStatus = 50
)

// OVERDUE never appears as a target: it is derived from rental_end.
var RentalOrderStatuses = newStatusSet("RentalOrderStatus",
	[]StatusInfo{
		{Code: 10, Name: "DRAFT", Label: "Draft", Color: ColorSecondary},
		{Code: 20, Name: "ACTIVE", Label: "Active", Color: ColorPrimary},
		{Code: 30, Name: "OVERDUE", Label: "Overdue", Color: ColorWarning},
		{Code: 40, Name: "RETURNED", Label: "Returned", Color: ColorSuccess},
		{Code: 50, Name: "CANCELLED", Label: "Cancelled", Color: ColorDanger},
	},
	map[RentalOrderStatus][]RentalOrderStatus{
		RentalOrderStatusDraft:   {RentalOrderStatusActive, RentalOrderStatusCancelled},
		RentalOrderStatusActive:  {RentalOrderStatusReturned, RentalOrderStatusCancelled},
		RentalOrderStatusOverdue: {RentalOrderStatusReturned, RentalOrderStatusCancelled},
	},
)

func (s RentalOrderStatus) Label() string { return RentalOrderStatuses.Label(s) }
func (s RentalOrderStatus) Valid() bool   { return RentalOrderStatuses.Valid(s) }

// Open reports whether the order still books its assets.
func (s RentalOrderStatus) Open() bool {
	return s == RentalOrderStatusDraft || s == RentalOrderStatusActive || s == RentalOrderStatusOverdue
}
