package domain

import (
	"fmt"
	"strings"
	"time"
)

// lateNightCheckInHour is the check-in hour used on the morning after a
// late-night takedown.
const lateNightCheckInHour = 2

type FurnitureItem struct {
	ID          int32  `json:"pk"`
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"max=80"`
	AssetTag    string `json:"asset_tag" validate:"max=80"`
	Active      bool   `json:"active"`
	Notes       string `json:"notes"`
}

// PartDetail is the read-only view of a stock part referenced by an
// assignment.
type PartDetail struct {
	ID           int32  `json:"pk"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	IPN          string `json:"IPN"`
	CategoryPath string `json:"category_path"`
}

type FurnitureAssignment struct {
	ID           int32            `json:"pk"`
	EventID      int32            `json:"event"`
	ItemID       *int32           `json:"item"`
	PartID       *int32           `json:"part"`
	Quantity     int              `json:"quantity"`
	Status       AssignmentStatus `json:"status"`
	CheckedOutAt *time.Time       `json:"checked_out_at"`
	CheckedInAt  *time.Time       `json:"checked_in_at"`
	Notes        string           `json:"notes"`

	UpdatedExisting bool           `json:"updated_existing"`
	StatusName      string         `json:"status_name"`
	NotesPreview    string         `json:"notes_preview"`
	EventDetail     *EventBrief    `json:"event_detail"`
	ItemDetail      *FurnitureItem `json:"item_detail"`
	PartDetail      *PartDetail    `json:"part_detail"`
}

func (a *FurnitureAssignment) Decorate() {
	a.StatusName = a.Status.Label()
	a.NotesPreview = NotesPreview(a.Notes)
	if a.EventDetail != nil {
		a.EventDetail.StatusName = a.EventDetail.Status.Label()
	}
}

func (a *FurnitureAssignment) Validate() error {
	verr := &ValidationError{}
	if a.EventID == 0 {
		verr.Add("event", "This field is required.")
	}
	if a.Quantity <= 0 {
		verr.Add("quantity", "Quantity must be greater than zero")
	}
	if a.PartID == nil && a.ItemID == nil {
		verr.Add("part", "Either part or furniture item is required")
	}
	if !a.Status.Valid() {
		verr.Add("status", fmt.Sprintf("%d is not a valid choice.", a.Status))
	}
	if a.CheckedInAt != nil && a.CheckedOutAt != nil && a.CheckedInAt.Before(*a.CheckedOutAt) {
		verr.Add("checked_in_at", "Checked in timestamp cannot be earlier than checked out")
	}
	return verr.OrNil()
}

// AssignmentDates holds the suggested check-out and check-in times for a new
// assignment. A nil value means no suggestion.
type AssignmentDates struct {
	CheckedOutAt *time.Time `json:"checked_out_at"`
	CheckedInAt  *time.Time `json:"checked_in_at"`
}

// DefaultAssignmentDates derives the assignment window from the event. With a
// late-night takedown the check-in moves to 02:00 on the day after the event
// ends, in loc.
func DefaultAssignmentDates(e Event, loc *time.Location) AssignmentDates {
	if loc == nil {
		loc = time.Local
	}

	var dates AssignmentDates
	if !e.StartDatetime.IsZero() {
		start := e.StartDatetime
		dates.CheckedOutAt = &start
	}
	if e.EndDatetime.IsZero() {
		return dates
	}

	end := e.EndDatetime
	if e.LateNightTakedown {
		local := end.In(loc)
		y, m, d := local.Date()
		end = time.Date(y, m, d+1, lateNightCheckInHour, 0, 0, 0, loc)
	}
	dates.CheckedInAt = &end
	return dates
}

// AssignmentInput is the create payload. Quantity, status and the dates are
// optional so that a merge into an existing row only touches what was sent.
type AssignmentInput struct {
	Event        int32                   `json:"event" validate:"required"`
	Item         *int32                  `json:"item"`
	Part         *int32                  `json:"part"`
	Quantity     *int                    `json:"quantity" validate:"omitempty,gt=0"`
	Status       Field[AssignmentStatus] `json:"status,omitzero"`
	CheckedOutAt Field[time.Time]        `json:"checked_out_at,omitzero"`
	CheckedInAt  Field[time.Time]        `json:"checked_in_at,omitzero"`
	Notes        string                  `json:"notes"`
}

// Assignment builds a new row with model defaults applied.
func (in AssignmentInput) Assignment() FurnitureAssignment {
	a := FurnitureAssignment{
		EventID:      in.Event,
		ItemID:       in.Item,
		PartID:       in.Part,
		Quantity:     1,
		Status:       AssignmentStatusReserved,
		CheckedOutAt: in.CheckedOutAt.Ptr(),
		CheckedInAt:  in.CheckedInAt.Ptr(),
		Notes:        strings.TrimSpace(in.Notes),
	}
	if in.Quantity != nil {
		a.Quantity = *in.Quantity
	}
	if in.Status.Present() {
		a.Status = in.Status.Value
	}
	return a
}

// MergeInto folds a repeated (event, part) submission into the stored row:
// quantities add up, supplied status and dates overwrite, notes are appended
// on a new line and the furniture item link is cleared.
func (in AssignmentInput) MergeInto(existing *FurnitureAssignment) {
	if in.Quantity != nil {
		existing.Quantity += *in.Quantity
	}
	if in.Status.Present() {
		existing.Status = in.Status.Value
	}
	if in.CheckedOutAt.Set {
		existing.CheckedOutAt = in.CheckedOutAt.Ptr()
	}
	if in.CheckedInAt.Set {
		existing.CheckedInAt = in.CheckedInAt.Ptr()
	}
	if submitted := strings.TrimSpace(in.Notes); submitted != "" {
		if current := strings.TrimSpace(existing.Notes); current != "" {
			existing.Notes = current + "\n" + submitted
		} else {
			existing.Notes = submitted
		}
	}
	existing.ItemID = nil
	existing.UpdatedExisting = true
}

// AssignmentPatch is a partial update of an assignment row.
type AssignmentPatch struct {
	Item         Field[int32]            `json:"item,omitzero"`
	Part         Field[int32]            `json:"part,omitzero"`
	Quantity     Field[int]              `json:"quantity,omitzero"`
	Status       Field[AssignmentStatus] `json:"status,omitzero"`
	CheckedOutAt Field[time.Time]        `json:"checked_out_at,omitzero"`
	CheckedInAt  Field[time.Time]        `json:"checked_in_at,omitzero"`
	Notes        Field[string]           `json:"notes,omitzero"`
}

// Apply updates a in place. Moving to RETURNED without a check-in time
// stamps now. Supplying a part without an item drops the item link.
func (p AssignmentPatch) Apply(a *FurnitureAssignment, now time.Time) error {
	if p.Item.Set {
		a.ItemID = p.Item.Ptr()
	}
	if p.Part.Set {
		a.PartID = p.Part.Ptr()
		if p.Part.Present() && !p.Item.Set {
			a.ItemID = nil
		}
	}
	if p.Quantity.Set {
		a.Quantity = p.Quantity.Value
	}
	if p.CheckedOutAt.Set {
		a.CheckedOutAt = p.CheckedOutAt.Ptr()
	}
	if p.CheckedInAt.Set {
		a.CheckedInAt = p.CheckedInAt.Ptr()
	}
	if p.Notes.Set {
		a.Notes = p.Notes.Value
	}

	if p.Status.Present() && p.Status.Value != a.Status {
		to := p.Status.Value
		if !to.Valid() {
			return NewValidationError("status", fmt.Sprintf("%d is not a valid choice.", to))
		}
		if !AssignmentStatuses.CanTransition(a.Status, to) {
			return fmt.Errorf("%w: assignment %s to %s", ErrInvalidTransition, a.Status.Label(), to.Label())
		}
		a.Status = to
	}
	if a.Status == AssignmentStatusReturned && a.CheckedInAt == nil {
		stamp := now
		a.CheckedInAt = &stamp
	}
	return a.Validate()
}
