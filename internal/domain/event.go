package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	EventReferencePrefix  = "EV"
	RentalReferencePrefix = "RN"

	notesPreviewLength = 64
)

// FormatReference renders a generated reference such as EV0001.
func FormatReference(prefix string, n int) string {
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("%s%04d", prefix, n)
}

// ReferenceInt extracts the first run of digits from a reference so that
// references sort numerically. References without digits map to zero.
func ReferenceInt(reference string) int {
	start := strings.IndexFunc(reference, unicode.IsDigit)
	if start < 0 {
		return 0
	}
	end := start
	for end < len(reference) && reference[end] >= '0' && reference[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(reference[start:end])
	if err != nil {
		return 0
	}
	return n
}

// NotesPreview trims notes and shortens anything longer than 64 characters.
func NotesPreview(notes string) string {
	text := strings.TrimSpace(notes)
	if utf8.RuneCountInString(text) <= notesPreviewLength {
		return text
	}
	return string([]rune(text)[:notesPreviewLength]) + "..."
}

type EventType struct {
	ID          int32  `json:"pk"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type Venue struct {
	ID           int32  `json:"pk"`
	Name         string `json:"name" validate:"required,max=150"`
	Address      string `json:"address" validate:"max=250"`
	ContactName  string `json:"contact_name" validate:"max=100"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	Active       bool   `json:"active"`
	Notes        string `json:"notes"`
}

type Planner struct {
	ID     int32  `json:"pk"`
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"max=40"`
	Active bool   `json:"active"`
	Notes  string `json:"notes"`
}

type Event struct {
	ID                int32       `json:"pk"`
	Reference         string      `json:"reference"`
	ReferenceInt      int         `json:"reference_int"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	EventTypeID       int32       `json:"event_type"`
	VenueID           int32       `json:"venue"`
	PlannerID         *int32      `json:"planner"`
	StartDatetime     time.Time   `json:"start_datetime"`
	EndDatetime       time.Time   `json:"end_datetime"`
	LateNightTakedown bool        `json:"late_night_takedown"`
	Status            EventStatus `json:"status"`
	Notes             string      `json:"notes"`
	CreatedBy         *int32      `json:"created_by"`
	CreationDate      time.Time   `json:"creation_date"`
	LastUpdated       time.Time   `json:"last_updated"`

	StatusName      string     `json:"status_name"`
	NotesPreview    string     `json:"notes_preview"`
	EventTypeDetail *EventType `json:"event_type_detail"`
	VenueDetail     *Venue     `json:"venue_detail"`
	PlannerDetail   *Planner   `json:"planner_detail"`
}

// Decorate fills the read-only fields derived from the stored ones.
func (e *Event) Decorate() {
	e.StatusName = e.Status.Label()
	e.NotesPreview = NotesPreview(e.Notes)
}

// Validate checks the record-level rules that a single field tag cannot.
func (e *Event) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(e.Title) == "" {
		verr.Add("title", "This field is required.")
	}
	if e.EventTypeID == 0 {
		verr.Add("event_type", "This field is required.")
	}
	if e.VenueID == 0 {
		verr.Add("venue", "This field is required.")
	}
	if e.StartDatetime.IsZero() {
		verr.Add("start_datetime", "This field is required.")
	}
	if e.EndDatetime.IsZero() {
		verr.Add("end_datetime", "This field is required.")
	}
	if !e.StartDatetime.IsZero() && !e.EndDatetime.IsZero() && !e.EndDatetime.After(e.StartDatetime) {
		verr.Add("end_datetime", "End date/time must be after start date/time")
	}
	if !e.Status.Valid() {
		verr.Add("status", fmt.Sprintf("%d is not a valid choice.", e.Status))
	}
	return verr.OrNil()
}

// EventBrief is the event summary embedded in assignment rows.
type EventBrief struct {
	ID            int32       `json:"pk"`
	Reference     string      `json:"reference"`
	Title         string      `json:"title"`
	Status        EventStatus `json:"status"`
	StatusName    string      `json:"status_name"`
	StartDatetime time.Time   `json:"start_datetime"`
	EndDatetime   time.Time   `json:"end_datetime"`
	VenueName     string      `json:"venue_name"`
	PlannerName   *string     `json:"planner_name"`
}

// EventInput is the create payload.
type EventInput struct {
	Title             string       `json:"title" validate:"required,max=150"`
	Reference         string       `json:"reference" validate:"max=32"`
	Description       string       `json:"description"`
	EventType         int32        `json:"event_type" validate:"required"`
	Venue             int32        `json:"venue" validate:"required"`
	Planner           *int32       `json:"planner"`
	StartDatetime     time.Time    `json:"start_datetime" validate:"required"`
	EndDatetime       time.Time    `json:"end_datetime" validate:"required"`
	LateNightTakedown bool         `json:"late_night_takedown"`
	Status            *EventStatus `json:"status"`
	Notes             string       `json:"notes"`
}

func (in EventInput) Event() Event {
	status := EventStatusDraft
	if in.Status != nil {
		status = *in.Status
	}
	return Event{
		Reference:         strings.TrimSpace(in.Reference),
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		EventTypeID:       in.EventType,
		VenueID:           in.Venue,
		PlannerID:         in.Planner,
		StartDatetime:     in.StartDatetime,
		EndDatetime:       in.EndDatetime,
		LateNightTakedown: in.LateNightTakedown,
		Status:            status,
		Notes:             in.Notes,
	}
}

// EventPatch is a partial update. Absent fields keep their stored value.
type EventPatch struct {
	Title             Field[string]      `json:"title,omitzero"`
	Description       Field[string]      `json:"description,omitzero"`
	EventType         Field[int32]       `json:"event_type,omitzero"`
	Venue             Field[int32]       `json:"venue,omitzero"`
	Planner           Field[int32]       `json:"planner,omitzero"`
	StartDatetime     Field[time.Time]   `json:"start_datetime,omitzero"`
	EndDatetime       Field[time.Time]   `json:"end_datetime,omitzero"`
	LateNightTakedown Field[bool]        `json:"late_night_takedown,omitzero"`
	Status            Field[EventStatus] `json:"status,omitzero"`
	Notes             Field[string]      `json:"notes,omitzero"`
}

// Apply copies the supplied fields onto e. Status changes are checked
// against the event transition table.
func (p EventPatch) Apply(e *Event) error {
	verr := &ValidationError{}

	if p.Title.Set {
		e.Title = strings.TrimSpace(p.Title.Value)
	}
	if p.Description.Set {
		e.Description = p.Description.Value
	}
	if p.EventType.Set {
		e.EventTypeID = p.EventType.Value
	}
	if p.Venue.Set {
		e.VenueID = p.Venue.Value
	}
	if p.Planner.Set {
		e.PlannerID = p.Planner.Ptr()
	}
	if p.StartDatetime.Set {
		e.StartDatetime = p.StartDatetime.Value
	}
	if p.EndDatetime.Set {
		e.EndDatetime = p.EndDatetime.Value
	}
	if p.LateNightTakedown.Set {
		e.LateNightTakedown = p.LateNightTakedown.Value
	}
	if p.Notes.Set {
		e.Notes = p.Notes.Value
	}
	if p.Status.Present() && p.Status.Value != e.Status {
		if !p.Status.Value.Valid() {
			verr.Add("status", fmt.Sprintf("%d is not a valid choice.", p.Status.Value))
		} else if !EventStatuses.CanTransition(e.Status, p.Status.Value) {
			return fmt.Errorf("%w: event %s to %s", ErrInvalidTransition, e.Status.Label(), p.Status.Value.Label())
		} else {
			e.Status = p.Status.Value
		}
	}

	if err := verr.OrNil(); err != nil {
		return err
	}
	return e.Validate()
}
